// Package storage defines the persistence interfaces the application relies
// on. It abstracts CRUD and transaction management so different backends
// (PostgreSQL, in-memory) can provide concrete implementations.
package storage

import "context"

// AllStorage is a composite interface that includes all domain-specific
// storage capabilities required by the installed domains.
type AllStorage interface {
	UserStorage
	RoleStorage
	PermissionStorage
	JobStorage
}

// TxStorage is a storage handle operating within a database transaction. It
// exposes the same capabilities as AllStorage plus transaction control.
// Implementations become unusable after Commit or Rollback.
type TxStorage interface {
	AllStorage

	// Commit finalizes the transaction, persisting all changes.
	Commit() error
	// Rollback aborts the transaction, discarding all uncommitted changes.
	Rollback() error
}

// Storage is a non-transactional handle with the ability to start
// transactions and manage the backend lifecycle.
type Storage interface {
	AllStorage

	// Close releases resources held by the implementation (e.g. the
	// connection pool). The instance must not be used afterwards.
	Close() error

	// Begin starts a new transaction.
	Begin(ctx context.Context) (TxStorage, error)
	// WithTx begins a transaction, invokes cb with it, then commits on
	// success or rolls back when cb returns an error.
	WithTx(ctx context.Context, cb func(storage AllStorage) error) error
}
