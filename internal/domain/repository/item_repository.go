package repository

import "github.com/hidrive/inventario-api/internal/domain/entity"

// ItemRepository puerto de persistencia para artículos del inventario.
// Las implementaciones devuelven (nil, nil) cuando el artículo no existe.
type ItemRepository interface {
	GetByID(id string) (*entity.InventoryItem, error)
	// GetForUpdate obtiene el artículo bloqueando su fila dentro de la
	// transacción en curso (SELECT FOR UPDATE o equivalente). Solo tiene
	// sentido con repositorios atados a una tx del TxRunner.
	GetForUpdate(id string) (*entity.InventoryItem, error)
	Upsert(item *entity.InventoryItem) error
	// UpdateQuantity escribe la nueva cantidad absoluta del artículo.
	UpdateQuantity(id string, quantity int64) error
	List() ([]*entity.InventoryItem, error)
	Delete(id string) error
}
