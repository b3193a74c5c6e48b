package repository

import (
	"context"

	domainRepo "github.com/lucasferreira/retailpos-api/internal/domain/repository"
	"gorm.io/gorm"
)

type txKey struct{}

// txManager implements repository.TxManager on a gorm transaction carried
// through the context.
type txManager struct {
	db *gorm.DB
}

// NewTxManager creates a new transaction manager
func NewTxManager(db *gorm.DB) domainRepo.TxManager {
	return &txManager{db: db}
}

// Do runs fn inside a single database transaction. Every repository method
// invoked with the context fn receives joins that transaction, so a failure
// anywhere rolls back all stock, ledger and sale mutations together.
func (m *txManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	// Nested calls join the transaction already in flight.
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFromContext resolves the database handle: the in-flight transaction when
// one is present, the shared connection otherwise.
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}
