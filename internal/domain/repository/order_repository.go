package repository

import (
	"time"

	"github.com/hidrive/inventario-api/internal/domain/entity"
)

// OrderRepository puerto de persistencia para pedidos.
// Las implementaciones devuelven (nil, nil) cuando el pedido no existe.
type OrderRepository interface {
	Create(order *entity.Order) error
	GetByID(id string) (*entity.Order, error)
	// GetForUpdate bloquea la fila del pedido dentro de la tx en curso.
	GetForUpdate(id string) (*entity.Order, error)
	// List devuelve pedidos por timestamp descendente; status vacío = todos.
	List(status entity.OrderStatus) ([]*entity.Order, error)
	// MarkCompleted transiciona el pedido a completed (irreversible).
	MarkCompleted(id string, completedAt time.Time) error
	Delete(id string) error
	Count() (int64, error)
}
