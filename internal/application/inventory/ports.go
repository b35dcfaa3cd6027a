package inventory

import (
	"context"

	"github.com/hidrive/inventario-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de ajustes:
// o aterrizan todas las escrituras de fn, o ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		historyRepo repository.HistoryRepository,
		orderRepo repository.OrderRepository,
	) error) error
}
