package database

import (
	"context"

	"gorm.io/gorm"
)

// Repository implements DataStore on a gorm connection or transaction
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository over db
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// DB returns the underlying gorm handle
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// conn returns the connection bound to ctx
func (r *Repository) conn(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// InTx runs fn inside a transaction. Nested calls become savepoints.
func (r *Repository) InTx(ctx context.Context, fn func(tx DataStore) error) error {
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// Ping checks the connection
func (r *Repository) Ping(ctx context.Context) error {
	return Ping(ctx, r.db)
}

var _ DataStore = (*Repository)(nil)
