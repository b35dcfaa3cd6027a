package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hidrive/inventario-api/internal/domain/entity"
	"github.com/hidrive/inventario-api/internal/domain/repository"
)

var _ repository.HistoryRepository = (*HistoryRepo)(nil)

// HistoryRepo implementación sobre PostgreSQL del historial append-only.
// Solo INSERT y SELECT: la tabla no tiene camino de UPDATE ni DELETE.
type HistoryRepo struct {
	q Querier
}

// NewHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewHistoryRepository(q Querier) *HistoryRepo {
	return &HistoryRepo{q: q}
}

// Append persiste una entrada de historial.
func (r *HistoryRepo) Append(record *entity.HistoryRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_history (id, item_id, type, quantity_change, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		record.ID, record.ItemID, string(record.Type), record.QuantityChange,
		record.Details, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// ListByItem lista el historial de un artículo, más reciente primero.
func (r *HistoryRepo) ListByItem(itemID string) ([]*entity.HistoryRecord, error) {
	query := `
		SELECT id, item_id, type, quantity_change, details, created_at
		FROM inventory_history WHERE item_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.q.Query(context.Background(), query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()
	var list []*entity.HistoryRecord
	for rows.Next() {
		var rec entity.HistoryRecord
		var histType string
		if err := rows.Scan(&rec.ID, &rec.ItemID, &histType, &rec.QuantityChange, &rec.Details, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		rec.Type = entity.HistoryType(histType)
		list = append(list, &rec)
	}
	return list, rows.Err()
}
