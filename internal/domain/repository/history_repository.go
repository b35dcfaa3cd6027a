package repository

import "github.com/hidrive/inventario-api/internal/domain/entity"

// HistoryRepository puerto para el sub-historial append-only de cada artículo.
// No hay Update ni Delete: las entradas son inmutables una vez creadas.
type HistoryRepository interface {
	Append(record *entity.HistoryRecord) error
	// ListByItem devuelve el historial del artículo, más reciente primero.
	ListByItem(itemID string) ([]*entity.HistoryRecord, error)
}
