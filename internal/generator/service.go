package generator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/pages"
	"github.com/goliatone/go-sitegen/internal/runtimeconfig"
	"github.com/goliatone/go-sitegen/internal/themes"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

var (
	errLoaderRequired   = errors.New("generator: content loader is required")
	errRendererRequired = errors.New("generator: page renderer is required")
	// ErrDuplicateOutput marks a page whose output path was already claimed
	// by an earlier page in the same build.
	ErrDuplicateOutput = errors.New("generator: duplicate output path")
	// ErrResetFailed wraps failures preparing the detail output directories.
	ErrResetFailed = errors.New("generator: reset output directories")
)

// Service describes the static site generator contract.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	Clean(ctx context.Context) error
	Pages(ctx context.Context) ([]pages.Page, *LoadSummary, error)
}

// ContentLoader reads the three content collections.
type ContentLoader interface {
	LoadBlogPosts(ctx context.Context) ([]content.BlogPost, *content.LoadReport, error)
	LoadServices(ctx context.Context) ([]content.Service, *content.LoadReport, error)
	LoadGalleryImages(ctx context.Context) ([]content.GalleryImage, *content.LoadReport, error)
}

// PageRenderer turns a page into its final HTML document.
type PageRenderer interface {
	Render(ctx context.Context, page pages.Page) (string, error)
}

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	Domain       string
	BaseTitle    string
	Description  string
	Author       string
	BuildDate    string
	FounderSince string
	ResumeAsset  string
	DefaultImage string
	GalleryURL   string

	PostsPerPage   int
	GalleryPerPage int
	StaticPages    []runtimeconfig.StaticPageConfig
	Listings       runtimeconfig.ListingsConfig
	Redirects      map[string]string

	Workers              int
	CleanBuild           bool
	GenerateSitemap      bool
	GenerateImageSitemap bool
	GenerateRobots       bool
	GenerateSearchIndex  bool
	GenerateFeeds        bool
	GenerateRedirects    bool
	WriteManifest        bool
	FeedLimit            int
	RenderTimeout        time.Duration
}

// ConfigFromRuntime maps the runtime configuration onto generator settings.
func ConfigFromRuntime(cfg runtimeconfig.Config) Config {
	cfg = cfg.Clone()
	return Config{
		Domain:               cfg.Domain(),
		BaseTitle:            cfg.Site.BaseTitle,
		Description:          cfg.Site.Description,
		Author:               cfg.Site.Author,
		BuildDate:            cfg.Site.BuildDate,
		FounderSince:         cfg.Site.FounderSince,
		ResumeAsset:          cfg.Site.ResumeAsset,
		DefaultImage:         cfg.Site.DefaultImage,
		GalleryURL:           slashDir(cfg.Paths.GalleryDir),
		PostsPerPage:         cfg.Pagination.PostsPerPage,
		GalleryPerPage:       cfg.Pagination.GalleryPerPage,
		StaticPages:          cfg.StaticPages,
		Listings:             cfg.Listings,
		Redirects:            cfg.Redirects,
		Workers:              cfg.Generator.Workers,
		CleanBuild:           cfg.Generator.CleanBuild,
		GenerateSitemap:      cfg.Generator.GenerateSitemap,
		GenerateImageSitemap: cfg.Generator.GenerateImageSitemap,
		GenerateRobots:       cfg.Generator.GenerateRobots,
		GenerateSearchIndex:  cfg.Generator.GenerateSearchIndex,
		GenerateFeeds:        cfg.Generator.GenerateFeeds,
		GenerateRedirects:    cfg.Generator.GenerateRedirects,
		WriteManifest:        cfg.Generator.WriteManifest,
		FeedLimit:            cfg.Generator.FeedLimit,
		RenderTimeout:        cfg.Generator.RenderTimeout,
	}
}

// BuildOptions narrows the scope of a generator run.
type BuildOptions struct {
	DryRun bool
}

// LoadSummary holds the loaded collections and their per-file reports.
type LoadSummary struct {
	Posts    []content.BlogPost
	Services []content.Service
	Images   []content.GalleryImage
	Reports  []*content.LoadReport
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	PagesBuilt     int
	PagesFailed    int
	ArtifactsBuilt int
	Duration       time.Duration
	Rendered       []RenderedPage
	Diagnostics    []RenderDiagnostic
	Loads          []*content.LoadReport
	Artifacts      []string
	Errors         []error
	DryRun         bool
	GeneratedAt    time.Time
}

// Dependencies lists the services required by the generator.
type Dependencies struct {
	Loader   ContentLoader
	Renderer PageRenderer
	Storage  interfaces.StorageProvider
	// ThemeAssets is the theme directory; Theme.Assets are copied from it
	// into static/theme/.
	ThemeAssets fs.FS
	Theme       themes.Context
	Logger      interfaces.Logger
	Now         func() time.Time
}

// NewService wires a generator implementation with the provided configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	if cfg.PostsPerPage <= 0 {
		cfg.PostsPerPage = 4
	}
	if cfg.GalleryPerPage <= 0 {
		cfg.GalleryPerPage = 4
	}
	if cfg.FeedLimit <= 0 {
		cfg.FeedLimit = 20
	}
	cfg.Domain = strings.TrimRight(strings.TrimSpace(cfg.Domain), "/")
	logger := deps.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{cfg: cfg, deps: deps, logger: logger, now: now}
}

type service struct {
	cfg    Config
	deps   Dependencies
	logger interfaces.Logger
	now    func() time.Time
}

func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.deps.Loader == nil {
		return nil, errLoaderRequired
	}
	if s.deps.Renderer == nil {
		return nil, errRendererRequired
	}

	start := time.Now()
	generatedAt := s.buildTime()
	result := &BuildResult{DryRun: opts.DryRun, GeneratedAt: generatedAt}

	writer := newArtifactWriter(s.deps.Storage)
	if opts.DryRun {
		writer = noopWriter{}
	}

	previous, err := s.loadManifest(ctx)
	if err != nil {
		s.logger.Warn("generator.manifest.unreadable", "error", err)
		result.Errors = append(result.Errors, err)
	}

	if s.cfg.CleanBuild && !opts.DryRun {
		if err := s.resetDetailDirs(ctx); err != nil {
			return nil, err
		}
	}

	summary, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	result.Loads = summary.Reports

	plan := s.instantiate(summary, generatedAt)
	outcomes := s.renderAll(ctx, plan)
	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifest := newBuildManifest(generatedAt)
	for _, outcome := range outcomes {
		result.Diagnostics = append(result.Diagnostics, outcome.diagnostic)
		if outcome.err != nil {
			result.PagesFailed++
			result.Errors = append(result.Errors, outcome.err)
			continue
		}
		if err := s.writePage(ctx, writer, manifest, outcome.page); err != nil {
			result.PagesFailed++
			result.Errors = append(result.Errors, err)
			continue
		}
		result.PagesBuilt++
		result.Rendered = append(result.Rendered, outcome.page)
	}

	site := siteArtifacts{cfg: s.cfg, generatedAt: generatedAt, summary: summary, rendered: result.Rendered, logger: s.logger}
	artifacts, err := site.build()
	if err != nil {
		result.Errors = append(result.Errors, err)
	}
	themeAssets, err := s.themeAssetArtifacts()
	if err != nil {
		result.Errors = append(result.Errors, err)
	}
	artifacts = append(artifacts, themeAssets...)
	for _, artifact := range artifacts {
		if err := writeArtifact(ctx, writer, manifest, artifact); err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		result.ArtifactsBuilt++
		result.Artifacts = append(result.Artifacts, artifact.Path)
	}

	if s.cfg.WriteManifest {
		data, err := manifest.marshal()
		if err == nil {
			err = writer.WriteFile(ctx, writeFileRequest{
				Path:        manifestFileName,
				Content:     strings.NewReader(string(data)),
				Size:        int64(len(data)),
				Category:    categoryManifest,
				ContentType: "application/json",
			})
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("generator: write manifest: %w", err))
		} else if !opts.DryRun && len(result.Errors) == 0 {
			s.removeStale(ctx, previous, manifest)
		}
	}

	result.Duration = time.Since(start)
	s.logger.Info("generator.build.completed",
		"pages_built", result.PagesBuilt,
		"pages_failed", result.PagesFailed,
		"artifacts", result.ArtifactsBuilt,
		"dry_run", opts.DryRun,
		"duration", result.Duration,
	)
	if len(result.Errors) > 0 {
		return result, errors.Join(result.Errors...)
	}
	return result, nil
}

// Pages loads content and returns the page list in build order without
// rendering anything.
func (s *service) Pages(ctx context.Context) ([]pages.Page, *LoadSummary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.deps.Loader == nil {
		return nil, nil, errLoaderRequired
	}
	summary, err := s.load(ctx)
	if err != nil {
		return nil, nil, err
	}
	return s.instantiate(summary, s.buildTime()), summary, nil
}

// Clean removes every artifact recorded in the manifest, the detail
// directories and the manifest itself.
func (s *service) Clean(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.deps.Storage == nil {
		return nil
	}
	manifest, err := s.loadManifest(ctx)
	if err != nil {
		return err
	}
	var errs []error
	remove := func(target string) {
		if _, err := s.deps.Storage.Exec(ctx, opRemove, target); err != nil {
			errs = append(errs, fmt.Errorf("generator: remove %s: %w", target, err))
		}
	}
	if manifest != nil {
		for _, entry := range manifest.Files {
			remove(entry.Path)
		}
	}
	remove(pages.BlogDir)
	remove(pages.ServicesDir)
	remove(manifestFileName)
	s.logger.Info("generator.clean.completed", "errors", len(errs))
	return errors.Join(errs...)
}

func (s *service) buildTime() time.Time {
	cfg := runtimeconfig.Config{Site: runtimeconfig.SiteConfig{BuildDate: s.cfg.BuildDate}}
	return cfg.BuildTime(s.now)
}

func (s *service) resetDetailDirs(ctx context.Context) error {
	if s.deps.Storage == nil {
		return nil
	}
	for _, dir := range []string{pages.BlogDir, pages.ServicesDir} {
		if _, err := s.deps.Storage.Exec(ctx, opRemove, dir); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrResetFailed, dir, err)
		}
		if _, err := s.deps.Storage.Exec(ctx, opEnsureDir, dir); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrResetFailed, dir, err)
		}
	}
	return nil
}

func (s *service) load(ctx context.Context) (*LoadSummary, error) {
	summary := &LoadSummary{}
	posts, report, err := s.deps.Loader.LoadBlogPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("generator: load blog posts: %w", err)
	}
	summary.Posts = posts
	summary.Reports = append(summary.Reports, report)

	services, report, err := s.deps.Loader.LoadServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("generator: load services: %w", err)
	}
	summary.Services = services
	summary.Reports = append(summary.Reports, report)

	images, report, err := s.deps.Loader.LoadGalleryImages(ctx)
	if err != nil {
		return nil, fmt.Errorf("generator: load gallery images: %w", err)
	}
	summary.Images = images
	summary.Reports = append(summary.Reports, report)

	for _, r := range summary.Reports {
		if r != nil {
			s.logger.Info("generator.content.loaded", "kind", string(r.Kind), "summary", r.Summary())
		}
	}
	return summary, nil
}

func slashDir(dir string) string {
	dir = strings.ReplaceAll(strings.TrimSpace(dir), "\\", "/")
	return strings.TrimRight(dir, "/")
}
