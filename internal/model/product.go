package model

import "time"

// Nutrition holds the per-serving nutritional facts shown on a product page.
type Nutrition struct {
	Calories float64 `json:"calories" bson:"calories"`
	Fat      float64 `json:"fat" bson:"fat"`
	Carbs    float64 `json:"carbs" bson:"carbs"`
	Protein  float64 `json:"protein" bson:"protein"`
}

// Product represents a bakery product in the catalogue. It is mutable and
// owned by the catalogue; everything outside the catalogue works with
// ProductSnapshot copies instead.
type Product struct {
	ID           string    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Description  string    `json:"description" bson:"description"`
	Price        float64   `json:"price" bson:"price"`
	Image        string    `json:"image" bson:"image"`
	Category     []string  `json:"category" bson:"category"`
	Featured     bool      `json:"featured" bson:"featured"`
	Ingredients  []string  `json:"ingredients,omitempty" bson:"ingredients,omitempty"`
	Nutrition    Nutrition `json:"nutrition" bson:"nutrition"`
	CountInStock int       `json:"countInStock" bson:"count_in_stock"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updated_at"`
}

// ProductSnapshot is an immutable copy of the product fields that get
// embedded in carts and orders. It holds no reference to the live product
// and is never updated after it is taken.
type ProductSnapshot struct {
	ProductID string  `json:"productId" bson:"product_id"`
	Name      string  `json:"name" bson:"name"`
	Price     float64 `json:"price" bson:"price"`
	Image     string  `json:"image" bson:"image"`
}

// Snapshot takes a point-in-time copy of the product for embedding.
func (p *Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Image,
	}
}
