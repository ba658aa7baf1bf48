package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemType tells products and therapy services apart inside the cart
type ItemType string

const (
	ItemTypeProduct ItemType = "product"
	ItemTypeService ItemType = "service"
)

// Valid reports whether t is one of the known item types
func (t ItemType) Valid() bool {
	return t == ItemTypeProduct || t == ItemTypeService
}

// CartItem one line in the cart, keyed by CartItemID (item type + entity + variation).
// TotalPrice is always Quantity * SelectedVariation.Price and is only ever set by the cart store.
type CartItem struct {
	ID                string          `json:"id"`
	CartItemID        string          `json:"cartItemId"`
	Name              string          `json:"name"`
	ImageURL          string          `json:"imageUrl"`
	SelectedVariation Variation       `json:"selectedVariation"`
	ItemType          ItemType        `json:"itemType"`
	Quantity          int             `json:"quantity"`
	TotalPrice        decimal.Decimal `json:"totalPrice"`
}

// CartSnapshot persisted copy of a visitor cart
type CartSnapshot struct {
	ID        string    `gorm:"primaryKey;size:32" json:"id"`
	Items     string    `gorm:"type:text" json:"items"` // JSON encoded []CartItem
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (CartSnapshot) TableName() string {
	return "cart_snapshots"
}
