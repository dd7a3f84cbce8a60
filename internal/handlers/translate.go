package handlers

import (
	"time"

	"burningbros/internal/i18n"
	"burningbros/internal/models"
)

// ProductView is a product rendered for one language.
type ProductView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory"`
	Likes       int       `json:"likes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// translateProduct picks name_en for en and name_vi for any other language.
func translateProduct(p *models.Product, lang string) ProductView {
	name := p.NameVI
	if lang == i18n.LangEN {
		name = p.NameEN
	}
	return ProductView{
		ID:          p.ID,
		Name:        name,
		Price:       p.Price,
		Category:    p.Category,
		Subcategory: p.Subcategory,
		Likes:       p.Likes(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func translateProducts(products []models.Product, lang string) []ProductView {
	views := make([]ProductView, 0, len(products))
	for i := range products {
		views = append(views, translateProduct(&products[i], lang))
	}
	return views
}
