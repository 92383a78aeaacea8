package storage

import (
	"context"
	"fmt"

	"github.com/goliatone/go-sitegen/pkg/storage"
)

// bufferedRows yields one value per row. Values are []byte for reads and
// string paths for listings.
type bufferedRows struct {
	values []any
	idx    int
}

func (r *bufferedRows) Next() bool {
	if r.idx >= len(r.values) {
		return false
	}
	r.idx++
	return true
}

func (r *bufferedRows) Scan(dest ...any) error {
	if len(dest) == 0 {
		return fmt.Errorf("storage: scan requires destination")
	}
	if r.idx == 0 || r.idx > len(r.values) {
		return fmt.Errorf("storage: scan called without a current row")
	}
	value := r.values[r.idx-1]
	switch d := dest[0].(type) {
	case *[]byte:
		switch v := value.(type) {
		case []byte:
			*d = append((*d)[:0], v...)
		case string:
			*d = append((*d)[:0], v...)
		}
	case *string:
		switch v := value.(type) {
		case []byte:
			*d = string(v)
		case string:
			*d = v
		}
	default:
		return fmt.Errorf("storage: unsupported scan destination %T", dest[0])
	}
	return nil
}

func (r *bufferedRows) Close() error { return nil }

type emptyResult struct {
	affected int64
}

func (r emptyResult) RowsAffected() (int64, error) { return r.affected, nil }
func (emptyResult) LastInsertId() (int64, error)   { return 0, nil }

type passthroughTx struct {
	provider storage.Provider
}

func (tx *passthroughTx) Query(ctx context.Context, query string, args ...any) (storage.Rows, error) {
	return tx.provider.Query(ctx, query, args...)
}

func (tx *passthroughTx) Exec(ctx context.Context, query string, args ...any) (storage.Result, error) {
	return tx.provider.Exec(ctx, query, args...)
}

func (tx *passthroughTx) Transaction(context.Context, func(storage.Transaction) error) error {
	return ErrNestedTransaction
}

func (tx *passthroughTx) Commit() error   { return nil }
func (tx *passthroughTx) Rollback() error { return nil }
