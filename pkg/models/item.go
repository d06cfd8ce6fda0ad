package models

import (
	"time"
)

type ItemCategory struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Slug      string    `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ItemCategory) TableName() string {
	return "item_categories"
}

// Item price is stored in the smallest currency unit. Stock is only ever
// decremented under a row lock held by the reservation path.
type Item struct {
	ID             string        `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title          string        `gorm:"type:varchar(255);not null" json:"title"`
	Author         string        `gorm:"type:varchar(255)" json:"author"`
	Slug           string        `gorm:"type:varchar(280);uniqueIndex;not null" json:"slug"`
	Price          int64         `gorm:"not null" json:"price"`
	Stock          int           `gorm:"not null;default:0" json:"stock"`
	ItemCategoryID string        `gorm:"type:varchar(36);index" json:"item_category_id"`
	Category       *ItemCategory `gorm:"foreignKey:ItemCategoryID" json:"category,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func (Item) TableName() string {
	return "items"
}
