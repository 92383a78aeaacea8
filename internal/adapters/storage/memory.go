package storage

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-sitegen/pkg/storage"
)

// Memory keeps artifacts in a map. It backs dry runs and tests.
type Memory struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]struct{}
}

// NewMemory returns an empty in-memory provider.
func NewMemory() *Memory {
	return &Memory{files: map[string][]byte{}, dirs: map[string]struct{}{}}
}

func (m *Memory) Capabilities() storage.Capabilities {
	return storage.Capabilities{Listing: true}
}

// Files returns a copy of the stored artifacts keyed by path.
func (m *Memory) Files() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string][]byte, len(m.files))
	for k, v := range m.files {
		out[k] = slices.Clone(v)
	}
	return out
}

// File returns the stored bytes for path.
func (m *Memory) File(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[path]
	return slices.Clone(data), ok
}

// Paths lists stored artifact paths in lexical order.
func (m *Memory) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.files))
}

// HasDir reports whether path was created through ensure_dir.
func (m *Memory) HasDir(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.dirs[path]
	return ok
}

func (m *Memory) Query(_ context.Context, query string, args ...any) (storage.Rows, error) {
	switch query {
	case storage.OpRead:
		target, err := relPath(args)
		if err != nil {
			return nil, err
		}
		m.mu.RLock()
		data, ok := m.files[target]
		m.mu.RUnlock()
		if !ok {
			return &bufferedRows{}, nil
		}
		return &bufferedRows{values: []any{slices.Clone(data)}}, nil
	case storage.OpList:
		prefix := ""
		if len(args) > 0 {
			prefix, _ = args[0].(string)
		}
		prefix = strings.Trim(prefix, "/")
		var values []any
		for _, p := range m.Paths() {
			if prefix == "" || p == prefix || strings.HasPrefix(p, prefix+"/") {
				values = append(values, p)
			}
		}
		return &bufferedRows{values: values}, nil
	default:
		return nil, fmt.Errorf("storage: unsupported query %q", query)
	}
}

func (m *Memory) Exec(_ context.Context, query string, args ...any) (storage.Result, error) {
	target, err := relPath(args)
	if err != nil {
		return emptyResult{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	switch query {
	case storage.OpEnsureDir:
		m.dirs[target] = struct{}{}
		return emptyResult{}, nil
	case storage.OpWrite:
		if len(args) < 2 {
			return emptyResult{}, ErrReaderRequired
		}
		reader, ok := args[1].(io.Reader)
		if !ok || reader == nil {
			return emptyResult{}, ErrReaderRequired
		}
		data, err := io.ReadAll(reader)
		if err != nil {
			return emptyResult{}, err
		}
		m.files[target] = data
		return emptyResult{affected: int64(len(data))}, nil
	case storage.OpRemove:
		var removed int64
		for p := range m.files {
			if p == target || strings.HasPrefix(p, target+"/") {
				delete(m.files, p)
				removed++
			}
		}
		for d := range m.dirs {
			if d == target || strings.HasPrefix(d, target+"/") {
				delete(m.dirs, d)
			}
		}
		return emptyResult{affected: removed}, nil
	default:
		return emptyResult{}, fmt.Errorf("storage: unsupported exec %q", query)
	}
}

func (m *Memory) Transaction(_ context.Context, fn func(tx storage.Transaction) error) error {
	if fn == nil {
		return nil
	}
	return fn(&passthroughTx{provider: m})
}
