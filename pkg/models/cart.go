package models

import (
	"time"
)

const (
	CartStatusActive     = "active"
	CartStatusCheckedOut = "checked_out"
)

// Cart holds a user's pending line items. One active cart per user, created
// lazily on first access.
type Cart struct {
	ID        string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string     `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Status    string     `gorm:"type:varchar(20);default:'active'" json:"status"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Cart) TableName() string {
	return "carts"
}

// CartItem is unique per (cart, item); adding an existing item increments
// quantity instead of inserting a second row.
type CartItem struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CartID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_item" json:"cart_id"`
	ItemID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_item" json:"item_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Cart      *Cart     `gorm:"foreignKey:CartID" json:"-"`
	Item      *Item     `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
