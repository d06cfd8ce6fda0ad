package models

import (
	"time"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Payment references its order one-directionally and survives independently
// for audit. At most one pending payment exists per (order, gateway) pair,
// enforced by lookup-before-create in the payment service.
type Payment struct {
	ID               string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OrderID          string    `gorm:"type:varchar(36);not null;index" json:"order_id"`
	Gateway          string    `gorm:"type:varchar(50);not null" json:"gateway"`
	ExternalID       string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"external_id"`
	PaymentReference string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"payment_reference"`
	PaymentMethod    string    `gorm:"type:varchar(50)" json:"payment_method"`
	PaymentURL       string    `gorm:"type:varchar(500)" json:"payment_url"`
	Amount           int64     `gorm:"not null" json:"amount"`
	Status           string    `gorm:"type:varchar(20);default:'pending'" json:"status"`
	Meta             string    `gorm:"type:json" json:"meta"` // raw last-seen provider payload
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}
