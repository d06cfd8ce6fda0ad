package models

import (
	"time"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusPaid       = "paid"
	OrderStatusCancelled  = "cancelled"
)

// Order line items are immutable once created. TotalAmount is computed at
// creation time from snapshot prices and never recomputed; Status is the only
// field mutated afterwards (by payment reconciliation).
type Order struct {
	ID          string      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID      string      `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Status      string      `gorm:"type:varchar(20);default:'pending'" json:"status"`
	TotalAmount int64       `gorm:"not null" json:"total_amount"`
	Address     string      `gorm:"type:varchar(500)" json:"address"`
	Note        string      `gorm:"type:varchar(500)" json:"note"`
	Items       []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem.Price is the item price snapshot at order time, decoupled from
// later catalog price changes.
type OrderItem struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OrderID   string    `gorm:"type:varchar(36);not null;index" json:"order_id"`
	ItemID    string    `gorm:"type:varchar(36);not null;index" json:"item_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Price     int64     `gorm:"not null" json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
