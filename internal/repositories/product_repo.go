package repositories

import (
	"pasar/internal/models"
)

// ProductRepository defines the interface for product data access. Stock is
// not mutated here: the only decrement path is OrderRepository.Approve.
type ProductRepository interface {
	GetAll(limit int) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}
