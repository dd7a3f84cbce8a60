package models

import "time"

// ProductEvent is published whenever a product is created or its likes change.
type ProductEvent struct {
	ProductID  string    `json:"product_id"`
	UserID     string    `json:"user_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
