package storage

import "context"

// Operation names understood by artifact storage providers. The generator
// routes every filesystem side effect through Exec/Query with one of these
// names so hosts can redirect output (object stores, archives, memory).
const (
	OpEnsureDir = "sitegen.ensure_dir"
	OpWrite     = "sitegen.write"
	OpRead      = "sitegen.read"
	OpRemove    = "sitegen.remove"
	OpList      = "sitegen.list"
)

// Provider encapsulates the operations required by the generator.
type Provider interface {
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	Transaction(ctx context.Context, fn func(tx Transaction) error) error
}

// CapabilityReporter exposes optional provider features so callers can make
// runtime decisions.
type CapabilityReporter interface {
	Capabilities() Capabilities
}

// Capabilities documents optional behaviours supported by a provider.
type Capabilities struct {
	Persistent bool
	Listing    bool
	Metadata   map[string]any
}

type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
}

type Result interface {
	RowsAffected() (int64, error)
	LastInsertId() (int64, error)
}

type Transaction interface {
	Provider
	Commit() error
	Rollback() error
}
