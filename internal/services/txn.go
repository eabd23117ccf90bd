package services

import (
	"context"

	"gorm.io/gorm"
)

// runInTx wraps fn in a transaction when a shared handle exists. Repos accept
// a nil tx and fall back to their own handle, so service tests built on fake
// repos can pass a nil db.
func runInTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
