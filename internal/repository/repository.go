package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
)

const defaultQueryTimeout = 5 * time.Second

// base bounds every query with a per-call timeout.
type base struct {
	db      *gorm.DB
	timeout time.Duration
}

func newBase(db *gorm.DB, timeout time.Duration) base {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return base{db: db, timeout: timeout}
}

func (b base) session(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	return b.db.WithContext(ctx), cancel
}
