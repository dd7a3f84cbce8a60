package repositories

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"burningbros/internal/models"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	products map[string]models.Product
	order    []string // IDs in insertion order
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[string]models.Product),
	}
}

// Create adds a new product.
func (r *MemoryProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = newID()
	}
	if _, exists := r.products[product.ID]; exists {
		return fmt.Errorf("product %s: %w", product.ID, ErrDuplicate)
	}
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	if product.LikedBy == nil {
		product.LikedBy = []string{}
	}
	r.products[product.ID] = clone(*product)
	r.order = append(r.order, product.ID)
	return nil
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	p := clone(product)
	return &p, nil
}

// FindPage returns up to limit matching products after skipping skip of them.
func (r *MemoryProductRepository) FindPage(_ context.Context, filter ProductFilter, skip, limit int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Product, 0, min(limit, pageAllocHint))
	matched := 0
	for _, id := range r.order {
		p := r.products[id]
		if !matches(p, filter) {
			continue
		}
		matched++
		if matched <= skip {
			continue
		}
		if len(result) == limit {
			break
		}
		result = append(result, clone(p))
	}
	return result, nil
}

// Count returns the number of matching products.
func (r *MemoryProductRepository) Count(_ context.Context, filter ProductFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, p := range r.products {
		if matches(p, filter) {
			n++
		}
	}
	return n, nil
}

// AddLike adds userID to the product's liked_by set.
func (r *MemoryProductRepository) AddLike(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	if p.IsLikedBy(userID) {
		return nil
	}
	p.LikedBy = append(append([]string{}, p.LikedBy...), userID)
	p.UpdatedAt = time.Now().UTC()
	r.products[id] = p
	return nil
}

// RemoveLike removes userID from the product's liked_by set.
func (r *MemoryProductRepository) RemoveLike(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	likedBy := make([]string, 0, len(p.LikedBy))
	for _, uid := range p.LikedBy {
		if uid != userID {
			likedBy = append(likedBy, uid)
		}
	}
	p.LikedBy = likedBy
	p.UpdatedAt = time.Now().UTC()
	r.products[id] = p
	return nil
}

// IsValidID accepts UUIDs, the IDs this repository generates.
func (r *MemoryProductRepository) IsValidID(id string) bool {
	return isUUID(id)
}

func matches(p models.Product, filter ProductFilter) bool {
	if filter.IsZero() {
		return true
	}
	var value string
	switch filter.Field {
	case FieldNameEN:
		value = p.NameEN
	case FieldNameVI:
		value = p.NameVI
	default:
		return false
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(filter.Contains))
}

func clone(p models.Product) models.Product {
	p.LikedBy = append([]string{}, p.LikedBy...)
	return p
}
