package repositories

import (
	"context"
	"errors"

	"burningbros/internal/models"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// pageAllocHint bounds the slice capacity reserved for a page; limit comes
// from the client and is not trusted for allocation.
const pageAllocHint = 64

// SearchField names a product field that supports pattern search.
type SearchField string

const (
	FieldNameEN SearchField = "name_en"
	FieldNameVI SearchField = "name_vi"
)

// ProductFilter narrows product queries. The zero value matches every product.
type ProductFilter struct {
	Field    SearchField
	Contains string // case-insensitive literal substring of Field
}

// IsZero reports whether the filter matches everything.
func (f ProductFilter) IsZero() bool {
	return f.Field == "" || f.Contains == ""
}

// ProductRepository defines the interface for product data access.
// Results are returned in insertion order so skip/limit pagination is stable.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	FindPage(ctx context.Context, filter ProductFilter, skip, limit int) ([]models.Product, error)
	Count(ctx context.Context, filter ProductFilter) (int64, error)
	// AddLike adds userID to liked_by unless already present.
	AddLike(ctx context.Context, id, userID string) error
	// RemoveLike removes userID from liked_by if present.
	RemoveLike(ctx context.Context, id, userID string) error
	// IsValidID reports whether id is well-formed for this store.
	IsValidID(id string) bool
}
