package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrInsufficientStock is returned by ReserveStock when the variant row
	// holds fewer units than requested.
	ErrInsufficientStock = errors.New("insufficient stock")
)

type GormRepo struct {
	DB *gorm.DB
}

// Tx runs fn inside one database transaction. Every checkout and
// cancellation goes through here so stock, order rows and cart rows commit
// or roll back together.
func (r *GormRepo) Tx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.DB.WithContext(ctx).Transaction(fn)
}
