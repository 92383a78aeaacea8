package generator

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
	"github.com/goliatone/go-sitegen/pkg/storage"
)

const (
	opEnsureDir = storage.OpEnsureDir
	opWrite     = storage.OpWrite
	opRead      = storage.OpRead
	opRemove    = storage.OpRemove
)

type writeCategory string

const (
	categoryPage        writeCategory = "page"
	categoryAsset       writeCategory = "asset"
	categorySitemap     writeCategory = "sitemap"
	categoryRobots      writeCategory = "robots"
	categorySearchIndex writeCategory = "search_index"
	categoryFeed        writeCategory = "feed"
	categoryRedirect    writeCategory = "redirect"
	categoryManifest    writeCategory = "manifest"
)

// writeFileRequest describes a file write operation routed through the artifact writer.
type writeFileRequest struct {
	Path        string
	Content     io.Reader
	Size        int64
	Category    writeCategory
	ContentType string
	Checksum    string
	Metadata    map[string]string
}

// artifactWriter abstracts storage provider specifics for generator outputs.
type artifactWriter interface {
	EnsureDir(ctx context.Context, path string) error
	WriteFile(ctx context.Context, req writeFileRequest) error
}

func newArtifactWriter(provider interfaces.StorageProvider) artifactWriter {
	if provider == nil {
		return noopWriter{}
	}
	return &storageWriter{storage: provider, dirs: map[string]struct{}{}}
}

type storageWriter struct {
	storage interfaces.StorageProvider
	dirs    map[string]struct{}
}

func (w *storageWriter) EnsureDir(ctx context.Context, dir string) error {
	if strings.TrimSpace(dir) == "" || dir == "." {
		return nil
	}
	if _, ok := w.dirs[dir]; ok {
		return nil
	}
	if _, err := w.storage.Exec(ctx, opEnsureDir, dir); err != nil {
		return err
	}
	w.dirs[dir] = struct{}{}
	return nil
}

func (w *storageWriter) WriteFile(ctx context.Context, req writeFileRequest) error {
	if req.Content == nil {
		return errors.New("generator: write requires content reader")
	}
	if strings.TrimSpace(req.Path) == "" {
		return errors.New("generator: write requires path")
	}
	if req.Metadata == nil {
		req.Metadata = map[string]string{}
	}
	args := []any{
		req.Path,
		req.Content,
		req.Size,
		string(req.Category),
		req.ContentType,
		req.Checksum,
		req.Metadata,
	}
	_, err := w.storage.Exec(ctx, opWrite, args...)
	return err
}

// noopWriter backs dry runs: every write succeeds and nothing is stored.
type noopWriter struct{}

func (noopWriter) EnsureDir(context.Context, string) error { return nil }

func (noopWriter) WriteFile(context.Context, writeFileRequest) error { return nil }

// artifact is a derived output held in memory until it is written.
type artifact struct {
	Path        string
	Category    writeCategory
	ContentType string
	Data        []byte
}

func writeArtifact(ctx context.Context, writer artifactWriter, manifest *buildManifest, a artifact) error {
	if err := writer.EnsureDir(ctx, path.Dir(a.Path)); err != nil {
		return fmt.Errorf("generator: ensure dir for %s: %w", a.Path, err)
	}
	sum := checksum(a.Data)
	if err := writer.WriteFile(ctx, writeFileRequest{
		Path:        a.Path,
		Content:     bytes.NewReader(a.Data),
		Size:        int64(len(a.Data)),
		Category:    a.Category,
		ContentType: a.ContentType,
		Checksum:    sum,
	}); err != nil {
		return fmt.Errorf("generator: write %s: %w", a.Path, err)
	}
	manifest.add(a.Path, a.Category, sum, int64(len(a.Data)))
	return nil
}

func (s *service) writePage(ctx context.Context, writer artifactWriter, manifest *buildManifest, page RenderedPage) error {
	err := writeArtifact(ctx, writer, manifest, artifact{
		Path:        page.Output,
		Category:    categoryPage,
		ContentType: "text/html; charset=utf-8",
		Data:        []byte(page.HTML),
	})
	if err != nil {
		s.logger.Error("generator.page.write_failed", "page", page.Slug, "output", page.Output, "error", err)
	}
	return err
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func readFile(ctx context.Context, provider interfaces.StorageProvider, target string) ([]byte, bool, error) {
	rows, err := provider.Query(ctx, opRead, target)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, false, nil
	}
	var data []byte
	if err := rows.Scan(&data); err != nil {
		return nil, false, err
	}
	return data, true, nil
}
