package models

import "gorm.io/gorm"

// Product represents a product listing. Stock is only ever decremented through
// the order approval path, which guarantees it never goes negative.
type Product struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string  `json:"name" validate:"required,min=3,max=100"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Stock       int     `json:"availableQuantity" gorm:"column:stock" validate:"gte=0"`
	gorm.Model          // CreatedAt, UpdatedAt, DeletedAt
}
