package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
)

const (
	manifestFileName    = ".sitegen-manifest.json"
	manifestFileVersion = 1
)

// buildManifest lists every artifact of the last build. Checksum covers the
// file list only so two builds of the same inputs agree on it even when
// generated_at differs.
type buildManifest struct {
	Version     int             `json:"version"`
	GeneratedAt time.Time       `json:"generated_at"`
	Checksum    string          `json:"checksum"`
	Files       []manifestEntry `json:"files"`
}

type manifestEntry struct {
	Path     string `json:"path"`
	Category string `json:"category"`
	Checksum string `json:"checksum"`
	Size     int64  `json:"size"`
}

func newBuildManifest(generatedAt time.Time) *buildManifest {
	return &buildManifest{Version: manifestFileVersion, GeneratedAt: generatedAt.UTC()}
}

func (m *buildManifest) add(path string, category writeCategory, sum string, size int64) {
	for i, entry := range m.Files {
		if entry.Path == path {
			m.Files[i] = manifestEntry{Path: path, Category: string(category), Checksum: sum, Size: size}
			return
		}
	}
	m.Files = append(m.Files, manifestEntry{Path: path, Category: string(category), Checksum: sum, Size: size})
}

func (m *buildManifest) paths() map[string]struct{} {
	out := make(map[string]struct{}, len(m.Files))
	for _, entry := range m.Files {
		out[entry.Path] = struct{}{}
	}
	return out
}

func (m *buildManifest) marshal() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	cloned := *m
	cloned.Files = slices.Clone(m.Files)
	slices.SortFunc(cloned.Files, func(a, b manifestEntry) int {
		return strings.Compare(a.Path, b.Path)
	})
	if cloned.Files == nil {
		cloned.Files = []manifestEntry{}
	}
	listing, err := json.Marshal(cloned.Files)
	if err != nil {
		return nil, fmt.Errorf("generator: marshal manifest: %w", err)
	}
	cloned.Checksum = checksum(listing)
	data, err := json.MarshalIndent(cloned, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("generator: marshal manifest: %w", err)
	}
	return append(data, '\n'), nil
}

func parseManifest(data []byte) (*buildManifest, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var manifest buildManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("generator: parse manifest: %w", err)
	}
	if manifest.Version == 0 {
		manifest.Version = manifestFileVersion
	}
	return &manifest, nil
}

func (s *service) loadManifest(ctx context.Context) (*buildManifest, error) {
	if s.deps.Storage == nil {
		return nil, nil
	}
	data, ok, err := readFile(ctx, s.deps.Storage, manifestFileName)
	if err != nil {
		return nil, fmt.Errorf("generator: read manifest: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return parseManifest(data)
}

// removeStale deletes artifacts recorded by the previous build that the
// current build no longer produces, such as a trailing listing page.
func (s *service) removeStale(ctx context.Context, previous, current *buildManifest) {
	if previous == nil || s.deps.Storage == nil {
		return
	}
	keep := current.paths()
	for _, entry := range previous.Files {
		if _, ok := keep[entry.Path]; ok {
			continue
		}
		if _, err := s.deps.Storage.Exec(ctx, opRemove, entry.Path); err != nil {
			s.logger.Warn("generator.stale.remove_failed", "output", entry.Path, "error", err)
			continue
		}
		s.logger.Debug("generator.stale.removed", "output", entry.Path)
	}
}
