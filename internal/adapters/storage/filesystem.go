// Package storage provides artifact storage providers: a filesystem
// provider writing under an output root and an in-memory provider.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goliatone/go-sitegen/pkg/storage"
)

var (
	ErrPathRequired      = errors.New("storage: path required")
	ErrReaderRequired    = errors.New("storage: write expects io.Reader content")
	ErrPathEscapesRoot   = errors.New("storage: path escapes storage root")
	ErrNestedTransaction = errors.New("storage: nested transactions not supported")
)

// Filesystem writes artifacts beneath root. Paths are slash separated and
// relative to root; writes go through a temporary file and a rename so a
// target is either fully written or untouched.
type Filesystem struct {
	root string
}

// NewFilesystem returns a provider rooted at root.
func NewFilesystem(root string) *Filesystem {
	if strings.TrimSpace(root) == "" {
		root = "."
	}
	return &Filesystem{root: filepath.Clean(root)}
}

// Root returns the output directory.
func (s *Filesystem) Root() string {
	return s.root
}

func (s *Filesystem) Capabilities() storage.Capabilities {
	return storage.Capabilities{Persistent: true, Listing: true, Metadata: map[string]any{"root": s.root}}
}

func (s *Filesystem) Query(_ context.Context, query string, args ...any) (storage.Rows, error) {
	switch query {
	case storage.OpRead:
		target, err := relPath(args)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(s.abs(target))
		if errors.Is(err, os.ErrNotExist) {
			return &bufferedRows{}, nil
		}
		if err != nil {
			return nil, err
		}
		return &bufferedRows{values: []any{data}}, nil
	case storage.OpList:
		prefix := ""
		if len(args) > 0 {
			prefix, _ = args[0].(string)
		}
		return s.list(prefix)
	default:
		return nil, fmt.Errorf("storage: unsupported query %q", query)
	}
}

func (s *Filesystem) Exec(_ context.Context, query string, args ...any) (storage.Result, error) {
	switch query {
	case storage.OpEnsureDir:
		target, err := relPath(args)
		if err != nil {
			return emptyResult{}, err
		}
		return emptyResult{}, os.MkdirAll(s.abs(target), 0o755)
	case storage.OpWrite:
		target, err := relPath(args)
		if err != nil {
			return emptyResult{}, err
		}
		if len(args) < 2 {
			return emptyResult{}, ErrReaderRequired
		}
		reader, ok := args[1].(io.Reader)
		if !ok || reader == nil {
			return emptyResult{}, ErrReaderRequired
		}
		n, err := s.writeAtomic(s.abs(target), reader)
		return emptyResult{affected: n}, err
	case storage.OpRemove:
		target, err := relPath(args)
		if err != nil {
			return emptyResult{}, err
		}
		if target == "." {
			return emptyResult{}, fmt.Errorf("%w: refusing to remove root", ErrPathEscapesRoot)
		}
		err = os.RemoveAll(s.abs(target))
		if errors.Is(err, os.ErrNotExist) {
			return emptyResult{}, nil
		}
		return emptyResult{}, err
	default:
		return emptyResult{}, fmt.Errorf("storage: unsupported exec %q", query)
	}
}

func (s *Filesystem) Transaction(ctx context.Context, fn func(tx storage.Transaction) error) error {
	if fn == nil {
		return nil
	}
	return fn(&passthroughTx{provider: s})
}

func (s *Filesystem) writeAtomic(full string, reader io.Reader) (int64, error) {
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	tmp, err := os.CreateTemp(dir, ".sitegen-*")
	if err != nil {
		return 0, err
	}
	n, copyErr := io.Copy(tmp, reader)
	closeErr := tmp.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		os.Remove(tmp.Name())
		return 0, err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return 0, err
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		os.Remove(tmp.Name())
		return 0, err
	}
	return n, nil
}

func (s *Filesystem) list(prefix string) (storage.Rows, error) {
	start, err := cleanRel(prefix)
	if err != nil {
		return nil, err
	}
	var out []string
	err = filepath.WalkDir(s.abs(start), func(full string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrNotExist) {
				return filepath.SkipDir
			}
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, full)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	slices.Sort(out)
	values := make([]any, len(out))
	for i, p := range out {
		values[i] = p
	}
	return &bufferedRows{values: values}, nil
}

func (s *Filesystem) abs(rel string) string {
	if rel == "" || rel == "." {
		return s.root
	}
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

func relPath(args []any) (string, error) {
	if len(args) == 0 {
		return "", ErrPathRequired
	}
	target, ok := args[0].(string)
	if !ok || strings.TrimSpace(target) == "" {
		return "", ErrPathRequired
	}
	return cleanRel(target)
}

// cleanRel normalizes a slash path relative to the storage root and rejects
// paths that climb above it.
func cleanRel(target string) (string, error) {
	raw := filepath.ToSlash(strings.TrimSpace(target))
	if slices.Contains(strings.Split(raw, "/"), "..") {
		return "", fmt.Errorf("%w: %s", ErrPathEscapesRoot, target)
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+raw), "/")
	if cleaned == "" {
		return ".", nil
	}
	return cleaned, nil
}
