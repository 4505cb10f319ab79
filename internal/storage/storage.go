// Package storage is the persistence collaborator of the price matrix. It
// loads the matrix at startup and mirrors every mutation, via the
// write-behind pipeline, into sqlite.
package storage

import (
	"context"

	"github.com/fairyhunter13/brand-price-service/internal/model"
)

// Repo persists brand records. Save and Delete carry the mutation sequence
// assigned when the matrix changed; implementations must drop writes whose
// sequence is older than the last one applied for the same brand, so that
// concurrent write-behind workers settle on last-write-wins.
type Repo interface {
	LoadAll(ctx context.Context) ([]model.Brand, error)
	Save(ctx context.Context, b model.Brand, seq uint64) error
	Delete(ctx context.Context, id uint64, seq uint64) error
	Close() error
}
