package runtimeconfig

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	ErrSiteDomainRequired     = errors.New("sitegen config: site domain is required")
	ErrSiteDomainInvalid      = errors.New("sitegen config: site domain must be an absolute http(s) URL")
	ErrBuildDateInvalid       = errors.New("sitegen config: site build date must use YYYY-MM-DD")
	ErrFounderSinceInvalid    = errors.New("sitegen config: founder since must use YYYY-MM")
	ErrOutputDirRequired      = errors.New("sitegen config: output directory is required")
	ErrTemplatesDirRequired   = errors.New("sitegen config: templates directory is required")
	ErrPageSizeInvalid        = errors.New("sitegen config: page sizes must be positive")
	ErrWorkersInvalid         = errors.New("sitegen config: generator workers must be zero or positive")
	ErrTemplateEngineUnknown  = errors.New("sitegen config: template engine is invalid")
	ErrRedirectInvalid        = errors.New("sitegen config: redirect entries require both source and target")
	ErrStaticPageInvalid      = errors.New("sitegen config: static page definition is invalid")
	ErrStaticPageDuplicate    = errors.New("sitegen config: static page output is declared twice")
	ErrLoggingProviderUnknown = errors.New("sitegen config: logging provider is invalid")
	ErrLoggingLevelInvalid    = errors.New("sitegen config: logging level is invalid")
	ErrLoggingFormatInvalid   = errors.New("sitegen config: logging format is invalid")
	ErrServerPortInvalid      = errors.New("sitegen config: server port is invalid")
)

const (
	EngineHTML   = "html"
	EngineDjango = "django"
)

// Config aggregates everything a single site build needs. It is a value type;
// constructors receive a Clone so later edits by the caller are not observed.
type Config struct {
	Site        SiteConfig         `mapstructure:"site"`
	Paths       PathsConfig        `mapstructure:"paths"`
	Pagination  PaginationConfig   `mapstructure:"pagination"`
	Redirects   map[string]string  `mapstructure:"redirects"`
	StaticPages []StaticPageConfig `mapstructure:"static_pages"`
	Listings    ListingsConfig     `mapstructure:"listings"`
	Generator   GeneratorConfig    `mapstructure:"generator"`
	Markdown    MarkdownConfig     `mapstructure:"markdown"`
	Templates   TemplatesConfig    `mapstructure:"templates"`
	Theme       ThemeConfig        `mapstructure:"theme"`
	Logging     LoggingConfig      `mapstructure:"logging"`
	Server      ServerConfig       `mapstructure:"server"`
}

// ListingsConfig holds the meta descriptions of the generated index pages.
type ListingsConfig struct {
	BlogDescription     string `mapstructure:"blog_description"`
	ServicesDescription string `mapstructure:"services_description"`
	GalleryDescription  string `mapstructure:"gallery_description"`
}

// SiteConfig holds identity values rendered into every page.
type SiteConfig struct {
	Domain      string `mapstructure:"domain"`
	BaseTitle   string `mapstructure:"base_title"`
	Description string `mapstructure:"description"`
	Author      string `mapstructure:"author"`
	// BuildDate pins the build clock (YYYY-MM-DD) so repeated builds are byte-identical.
	BuildDate    string `mapstructure:"build_date"`
	FounderSince string `mapstructure:"founder_since"`
	ResumeAsset  string `mapstructure:"resume_asset"`
	DefaultImage string `mapstructure:"default_image"`
}

// PathsConfig lists the filesystem roots. Content directories may be missing.
type PathsConfig struct {
	BlogDir      string `mapstructure:"blog_dir"`
	ServicesDir  string `mapstructure:"services_dir"`
	GalleryDir   string `mapstructure:"gallery_dir"`
	TemplatesDir string `mapstructure:"templates_dir"`
	StaticDir    string `mapstructure:"static_dir"`
	SVGDir       string `mapstructure:"svg_dir"`
	OutputDir    string `mapstructure:"output_dir"`
}

type PaginationConfig struct {
	PostsPerPage   int `mapstructure:"posts_per_page"`
	GalleryPerPage int `mapstructure:"gallery_per_page"`
}

// StaticPageConfig declares one fixed page rendered from its own template.
type StaticPageConfig struct {
	Slug            string         `mapstructure:"slug"`
	Title           string         `mapstructure:"title"`
	Template        string         `mapstructure:"template"`
	Output          string         `mapstructure:"output"`
	MetaDescription string         `mapstructure:"meta_description"`
	CSS             string         `mapstructure:"css"`
	Preload         string         `mapstructure:"preload"`
	Context         map[string]any `mapstructure:"context"`
}

// GeneratorConfig captures behaviour for the build orchestrator.
type GeneratorConfig struct {
	Workers              int           `mapstructure:"workers"`
	CleanBuild           bool          `mapstructure:"clean_build"`
	GenerateSitemap      bool          `mapstructure:"generate_sitemap"`
	GenerateImageSitemap bool          `mapstructure:"generate_image_sitemap"`
	GenerateRobots       bool          `mapstructure:"generate_robots"`
	GenerateSearchIndex  bool          `mapstructure:"generate_search_index"`
	GenerateFeeds        bool          `mapstructure:"generate_feeds"`
	GenerateRedirects    bool          `mapstructure:"generate_redirects"`
	WriteManifest        bool          `mapstructure:"write_manifest"`
	FeedLimit            int           `mapstructure:"feed_limit"`
	RenderTimeout        time.Duration `mapstructure:"render_timeout"`
}

// MarkdownConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownConfig struct {
	Extensions []string `mapstructure:"extensions"`
	Sanitize   bool     `mapstructure:"sanitize"`
	HardWraps  bool     `mapstructure:"hard_wraps"`
	SafeMode   bool     `mapstructure:"safe_mode"`
}

type TemplatesConfig struct {
	Engine string `mapstructure:"engine"`
	Base   string `mapstructure:"base"`
}

// ThemeConfig points at an optional go-theme manifest directory.
type ThemeConfig struct {
	Dir       string `mapstructure:"dir"`
	Name      string `mapstructure:"name"`
	Variant   string `mapstructure:"variant"`
	CSSPrefix string `mapstructure:"css_prefix"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider"`
	Level     string   `mapstructure:"level"`
	Format    string   `mapstructure:"format"`
	AddSource bool     `mapstructure:"add_source"`
	Focus     []string `mapstructure:"focus"`
}

// ServerConfig configures the development server.
type ServerConfig struct {
	Host       string        `mapstructure:"host"`
	Port       int           `mapstructure:"port"`
	Debounce   time.Duration `mapstructure:"debounce"`
	LiveReload bool          `mapstructure:"live_reload"`
}

// DefaultConfig returns the defaults for the portfolio site.
func DefaultConfig() Config {
	return Config{
		Site: SiteConfig{
			Domain:       "https://engrhassankamran.com",
			BaseTitle:    "Hassan Kamran",
			Description:  "Insights on AI, Federated Learning, programming, big data, and robotics.",
			Author:       "Hassan Kamran",
			FounderSince: "2025-02",
			ResumeAsset:  "static/hassan_resume.pdf",
			DefaultImage: "default.jpg",
		},
		Paths: PathsConfig{
			BlogDir:      "./content/blogs",
			ServicesDir:  "./content/services",
			GalleryDir:   "./content/gallery",
			TemplatesDir: "./templates",
			StaticDir:    "./static",
			SVGDir:       "./static",
			OutputDir:    "./",
		},
		Pagination: PaginationConfig{
			PostsPerPage:   4,
			GalleryPerPage: 4,
		},
		Redirects: map[string]string{
			"blogs/low-Costl-teleoperated-drone-with-integrated-sprayer-for-precision-agriculture.html": "/blogs/low-Cost-teleoperated-drone-with-integrated-sprayer-for-precision-agriculture.html",
		},
		StaticPages: DefaultStaticPages(),
		Listings: ListingsConfig{
			BlogDescription:     "Explore cutting-edge insights on AI, Federated Learning, programming, big data, and robotics.",
			ServicesDescription: "Professional services offered by Hassan Kamran - AI consulting, software development, technical project management, and engineering solutions.",
			GalleryDescription:  "Photo gallery showcasing Hassan Kamran's projects, experiences, and achievements in AI, robotics, and technology.",
		},
		Generator: GeneratorConfig{
			Workers:              1,
			CleanBuild:           true,
			GenerateSitemap:      true,
			GenerateImageSitemap: true,
			GenerateRobots:       true,
			GenerateSearchIndex:  true,
			GenerateFeeds:        true,
			GenerateRedirects:    true,
			WriteManifest:        true,
			FeedLimit:            20,
		},
		Markdown: MarkdownConfig{
			Extensions: []string{"tables", "fenced_code", "attributes", "footnote", "strikethrough"},
		},
		Templates: TemplatesConfig{
			Engine: EngineHTML,
			Base:   "base.html",
		},
		Theme: ThemeConfig{
			CSSPrefix: "--theme",
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Server: ServerConfig{
			Host:       "127.0.0.1",
			Port:       8000,
			Debounce:   500 * time.Millisecond,
			LiveReload: true,
		},
	}
}

// DefaultStaticPages returns the fixed topic pages in build order.
func DefaultStaticPages() []StaticPageConfig {
	return []StaticPageConfig{
		{
			Slug:            "index",
			Title:           "AI Engineer & Tech Consultant",
			Template:        "home.html",
			Output:          "index.html",
			MetaDescription: "Engr Hassan Kamran's official website showcasing projects, research, thoughts, ideas, and expertise in AI, robotics, mechatronics, and the cutting edge.",
			CSS:             "home",
			Preload:         "hero",
		},
		{
			Slug:            "about",
			Title:           "About",
			Template:        "about.html",
			Output:          "about.html",
			MetaDescription: "Discover Hassan Kamran's journey through AI, Federated Learning, and robotics. With expertise in programming, big data, cloud computing, and mechatronics.",
			CSS:             "about",
			Preload:         "cta",
		},
		{
			Slug:            "resume",
			Title:           "Capt(R) Hassan Kamran, MSc",
			Template:        "resume.html",
			Output:          "resume.html",
			MetaDescription: "Professional resume of Capt (R) Engr Hassan Kamran - Technical Project Manager, Software Consultant and Engineer with expertise in AI, IoT, and cloud solutions.",
			CSS:             "resume",
			Context: map[string]any{
				"hero": "hero-mini.avif",
			},
		},
		{
			Slug:            "contact",
			Title:           "Get in Touch",
			Template:        "contact.html",
			Output:          "contact.html",
			MetaDescription: "Get in touch with Hassan Kamran, Software Engineer & Developer. Connect via email, phone, or social media for collaboration opportunities.",
			CSS:             "contact",
		},
		{
			Slug:            "privacy",
			Title:           "Privacy Policy",
			Template:        "privacy.html",
			Output:          "privacy.html",
			MetaDescription: "Privacy Policy for Hassan Kamran's website. Learn how your personal information is collected, used, and protected when you visit engrhassankamran.com.",
			CSS:             "info",
		},
		{
			Slug:            "terms",
			Title:           "Terms of Service",
			Template:        "terms.html",
			Output:          "terms.html",
			MetaDescription: "Terms of Service for engrhassankamran.com. Understand the rules, guidelines, and legal agreements that govern the use of Hassan Kamran's website.",
			CSS:             "info",
		},
		{
			Slug:            "404",
			Title:           "OOPs Not Found",
			Template:        "404.html",
			Output:          "404.html",
			MetaDescription: "Page not found",
			CSS:             "about",
		},
	}
}

// Clone returns a deep copy so the receiver can be handed to constructors
// without sharing maps or slices with the caller.
func (cfg Config) Clone() Config {
	out := cfg
	out.Redirects = maps.Clone(cfg.Redirects)
	out.Markdown.Extensions = slices.Clone(cfg.Markdown.Extensions)
	out.Logging.Focus = slices.Clone(cfg.Logging.Focus)
	if cfg.StaticPages != nil {
		out.StaticPages = make([]StaticPageConfig, len(cfg.StaticPages))
		for i, page := range cfg.StaticPages {
			page.Context = maps.Clone(page.Context)
			out.StaticPages[i] = page
		}
	}
	return out
}

// Domain returns the site domain without a trailing slash.
func (cfg Config) Domain() string {
	return strings.TrimRight(strings.TrimSpace(cfg.Site.Domain), "/")
}

// BuildTime resolves the pinned build date, falling back to now.
func (cfg Config) BuildTime(now func() time.Time) time.Time {
	if pinned := strings.TrimSpace(cfg.Site.BuildDate); pinned != "" {
		if parsed, err := time.Parse(time.DateOnly, pinned); err == nil {
			return parsed.UTC()
		}
	}
	if now == nil {
		now = time.Now
	}
	return now()
}

// SortedRedirects returns redirect sources in lexical order.
func (cfg Config) SortedRedirects() []string {
	return slices.Sorted(maps.Keys(cfg.Redirects))
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	domain := strings.TrimSpace(cfg.Site.Domain)
	if domain == "" {
		return ErrSiteDomainRequired
	}
	if parsed, err := url.Parse(domain); err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%w: %s", ErrSiteDomainInvalid, domain)
	}
	if date := strings.TrimSpace(cfg.Site.BuildDate); date != "" {
		if _, err := time.Parse(time.DateOnly, date); err != nil {
			return fmt.Errorf("%w: %s", ErrBuildDateInvalid, date)
		}
	}
	if since := strings.TrimSpace(cfg.Site.FounderSince); since != "" {
		if _, err := time.Parse("2006-01", since); err != nil {
			return fmt.Errorf("%w: %s", ErrFounderSinceInvalid, since)
		}
	}
	if strings.TrimSpace(cfg.Paths.OutputDir) == "" {
		return ErrOutputDirRequired
	}
	if strings.TrimSpace(cfg.Paths.TemplatesDir) == "" {
		return ErrTemplatesDirRequired
	}
	if cfg.Pagination.PostsPerPage <= 0 || cfg.Pagination.GalleryPerPage <= 0 {
		return ErrPageSizeInvalid
	}
	if cfg.Generator.Workers < 0 {
		return ErrWorkersInvalid
	}
	switch normalize(cfg.Templates.Engine) {
	case "", EngineHTML, EngineDjango:
	default:
		return fmt.Errorf("%w: %s", ErrTemplateEngineUnknown, cfg.Templates.Engine)
	}
	for source, target := range cfg.Redirects {
		if strings.TrimSpace(source) == "" || strings.TrimSpace(target) == "" {
			return ErrRedirectInvalid
		}
	}
	if err := validateStaticPages(cfg.StaticPages); err != nil {
		return err
	}
	if err := cfg.Logging.validate(); err != nil {
		return err
	}
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrServerPortInvalid, cfg.Server.Port)
	}
	return nil
}

func validateStaticPages(pages []StaticPageConfig) error {
	seen := map[string]struct{}{}
	for i, page := range pages {
		errs := validation.Errors{
			"slug":     validation.Validate(page.Slug, validation.Required),
			"template": validation.Validate(page.Template, validation.Required),
			"output":   validation.Validate(page.Output, validation.Required),
		}
		if err := errs.Filter(); err != nil {
			return fmt.Errorf("%w: static_pages[%d]: %v", ErrStaticPageInvalid, i, err)
		}
		key := strings.ToLower(strings.Trim(page.Output, "/"))
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: %s", ErrStaticPageDuplicate, page.Output)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func (cfg LoggingConfig) validate() error {
	provider := normalize(cfg.Provider)
	switch provider {
	case "", "console", "gologger":
	default:
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := normalize(cfg.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := normalize(cfg.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedLevel(level string) bool {
	switch level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch format {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
