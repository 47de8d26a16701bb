package model

import "time"

// Product 商品（shop 变体）
type Product struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(24)"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Price     float64   `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock     int64     `json:"stock" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"createdAt" gorm:"index:idx_product_created;not null"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"not null"`
}

func (Product) TableName() string { return "products" }
