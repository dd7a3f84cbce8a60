package models

import (
	"strings"
	"time"
)

// Product represents a catalog item with independent English and Vietnamese names.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	NameEN      string    `json:"name_en" gorm:"column:name_en;type:varchar(255);not null"`
	NameVI      string    `json:"name_vi" gorm:"column:name_vi;type:varchar(255);not null"`
	Price       float64   `json:"price" gorm:"not null"`
	Category    string    `json:"category" gorm:"type:varchar(100);not null"`
	Subcategory string    `json:"subcategory" gorm:"type:varchar(100);not null"`
	LikedBy     []string  `json:"liked_by" gorm:"serializer:json"` // user IDs, each at most once
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateProductInput is the request body accepted when creating a product.
type CreateProductInput struct {
	NameEN      string   `json:"name_en" validate:"required,notblank"`
	NameVI      string   `json:"name_vi" validate:"required,notblank"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Category    string   `json:"category" validate:"required,notblank"`
	Subcategory string   `json:"subcategory" validate:"required,notblank"`
}

// NewProduct builds a Product from a validated input. Storage assigns ID and timestamps.
func NewProduct(in CreateProductInput) *Product {
	p := &Product{
		NameEN:      strings.TrimSpace(in.NameEN),
		NameVI:      strings.TrimSpace(in.NameVI),
		Category:    strings.TrimSpace(in.Category),
		Subcategory: strings.TrimSpace(in.Subcategory),
		LikedBy:     []string{},
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	return p
}

// IsLikedBy reports whether userID is in the product's liked_by set.
func (p *Product) IsLikedBy(userID string) bool {
	for _, id := range p.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// Likes returns the size of the liked_by set.
func (p *Product) Likes() int {
	return len(p.LikedBy)
}

// CachedPage is the value stored in the result cache for one page of products.
type CachedPage struct {
	Products []Product `json:"products"`
	Total    int64     `json:"total"`
}

// ProductPage is a page of products together with the total match count.
type ProductPage struct {
	Products []Product
	Total    int64
}
