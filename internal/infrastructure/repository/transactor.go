package repository

import (
	"context"

	"gorm.io/gorm"

	domainRepo "github.com/davidkaruri/billify-api/internal/domain/repository"
)

type txKey struct{}

type gormTransactor struct {
	db *gorm.DB
}

// NewTransactor creates a Transactor backed by gorm transactions. The open
// transaction travels in the context, so repository calls made inside the
// callback automatically join it.
func NewTransactor(db *gorm.DB) domainRepo.Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// Nested calls join the transaction already in flight.
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFrom returns the transaction carried by ctx, or the base handle
func dbFrom(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
