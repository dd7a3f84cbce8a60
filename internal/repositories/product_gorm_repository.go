package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"burningbros/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = newID()
	}
	if product.LikedBy == nil {
		product.LikedBy = []string{}
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("product %s: %w", product.ID, ErrDuplicate)
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// FindPage retrieves one page of matching products in insertion order.
func (r *GORMProductRepository) FindPage(ctx context.Context, filter ProductFilter, skip, limit int) ([]models.Product, error) {
	q, err := r.filtered(ctx, filter)
	if err != nil {
		return nil, err
	}
	products := make([]models.Product, 0, min(limit, pageAllocHint))
	if err := q.Order("created_at ASC").Order("id ASC").Offset(skip).Limit(limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	return products, nil
}

// Count returns the number of matching products.
func (r *GORMProductRepository) Count(ctx context.Context, filter ProductFilter) (int64, error) {
	q, err := r.filtered(ctx, filter)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}

// AddLike adds userID to liked_by inside a transaction.
func (r *GORMProductRepository) AddLike(ctx context.Context, id, userID string) error {
	return r.mutateLikes(ctx, id, func(p *models.Product) bool {
		if p.IsLikedBy(userID) {
			return false
		}
		p.LikedBy = append(p.LikedBy, userID)
		return true
	})
}

// RemoveLike removes userID from liked_by inside a transaction.
func (r *GORMProductRepository) RemoveLike(ctx context.Context, id, userID string) error {
	return r.mutateLikes(ctx, id, func(p *models.Product) bool {
		likedBy := make([]string, 0, len(p.LikedBy))
		for _, uid := range p.LikedBy {
			if uid != userID {
				likedBy = append(likedBy, uid)
			}
		}
		changed := len(likedBy) != len(p.LikedBy)
		p.LikedBy = likedBy
		return changed
	})
}

// IsValidID accepts UUIDs, the IDs this repository generates.
func (r *GORMProductRepository) IsValidID(id string) bool {
	return isUUID(id)
}

// mutateLikes reads the product with a row lock where the dialect supports it,
// applies mutate and writes liked_by back when it changed.
func (r *GORMProductRepository) mutateLikes(ctx context.Context, id string, mutate func(*models.Product) bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var product models.Product
		if err := q.First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("product %s: %w", id, ErrNotFound)
			}
			return fmt.Errorf("failed to load product %s: %w", id, err)
		}
		if !mutate(&product) {
			return nil
		}
		if err := tx.Model(&product).Select("liked_by", "updated_at").Updates(&product).Error; err != nil {
			return fmt.Errorf("failed to update likes of product %s: %w", id, err)
		}
		return nil
	})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *GORMProductRepository) filtered(ctx context.Context, filter ProductFilter) (*gorm.DB, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if filter.IsZero() {
		return q, nil
	}
	var column string
	switch filter.Field {
	case FieldNameEN:
		column = "name_en"
	case FieldNameVI:
		column = "name_vi"
	default:
		return nil, fmt.Errorf("unsupported search field %q", filter.Field)
	}
	pattern := "%" + likeEscaper.Replace(strings.ToLower(filter.Contains)) + "%"
	return q.Where("LOWER("+column+") LIKE ? ESCAPE '\\'", pattern), nil
}
