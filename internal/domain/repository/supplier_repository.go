package repository

import "github.com/hidrive/inventario-api/internal/domain/entity"

// SupplierRepository puerto CRUD para proveedores.
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	// List devuelve los proveedores ordenados por nombre.
	List() ([]*entity.Supplier, error)
	Update(supplier *entity.Supplier) error
	Delete(id string) error
}
