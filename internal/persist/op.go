package persist

import "github.com/fairyhunter13/brand-price-service/internal/model"

// OpKind discriminates persistence operations.
type OpKind string

const (
	// OpSave writes the full post-mutation state of a brand.
	OpSave OpKind = "save"
	// OpDelete removes a brand.
	OpDelete OpKind = "delete"
)

// Op is one queued persistence operation. Seq orders operations touching the
// same brand; the storage layer drops stale sequences.
type Op struct {
	Seq     uint64
	Kind    OpKind
	Brand   model.Brand // snapshot of the brand, OpSave only
	BrandID uint64
}
