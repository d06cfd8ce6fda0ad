package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxRunner owns transaction boundaries: callers open one scope and pass the
// tx handle down into the stores that must share it (stock reservation and
// order insert run under the same transaction).
type TxRunner interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type GormTxRunner struct {
	db *gorm.DB
}

func NewGormTxRunner(db *gorm.DB) *GormTxRunner {
	return &GormTxRunner{db: db}
}

func (r *GormTxRunner) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
