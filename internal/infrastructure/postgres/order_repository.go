package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hidrive/inventario-api/internal/domain/entity"
	"github.com/hidrive/inventario-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = "id, title, price, status, ts, completed_at, line_entries"

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con
// pool o tx). Las líneas se guardan como JSONB: se escriben una vez al crear
// y quedan congeladas junto con sus snapshots de precio.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de pedidos. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var status string
	var lines []byte
	err := row.Scan(&o.ID, &o.Title, &o.Price, &status, &o.Timestamp, &o.CompletedAt, &lines)
	if err != nil {
		return nil, err
	}
	o.Status = entity.OrderStatus(status)
	if len(lines) > 0 {
		if err := json.Unmarshal(lines, &o.LineEntries); err != nil {
			return nil, fmt.Errorf("decode line entries: %w", err)
		}
	}
	return &o, nil
}

// Create persiste un pedido nuevo con sus líneas ya enriquecidas.
func (r *OrderRepo) Create(order *entity.Order) error {
	lines, err := json.Marshal(order.LineEntries)
	if err != nil {
		return fmt.Errorf("encode line entries: %w", err)
	}
	query := `
		INSERT INTO orders (id, title, price, status, ts, completed_at, line_entries)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.q.Exec(context.Background(), query,
		order.ID, order.Title, order.Price, string(order.Status),
		order.Timestamp, order.CompletedAt, lines,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert order: id duplicado")
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene un pedido. (nil, nil) si no existe.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := scanOrder(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// GetForUpdate obtiene el pedido bloqueando su fila dentro de la tx en curso.
func (r *OrderRepo) GetForUpdate(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	o, err := scanOrder(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order for update: %w", err)
	}
	return o, nil
}

// List lista pedidos por timestamp descendente; status vacío = todos.
func (r *OrderRepo) List(status entity.OrderStatus) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	query += ` ORDER BY ts DESC`
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// MarkCompleted transiciona el pedido a completed. El WHERE sobre status hace
// la transición irreversible también a nivel de BD.
func (r *OrderRepo) MarkCompleted(id string, completedAt time.Time) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE orders SET status = $2, completed_at = $3 WHERE id = $1 AND status = $4`,
		id, string(entity.OrderStatusCompleted), completedAt, string(entity.OrderStatusProcessing),
	)
	if err != nil {
		return fmt.Errorf("mark order completed: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("mark order completed: el pedido no está en processing")
	}
	return nil
}

// Delete elimina un pedido (cancelación).
func (r *OrderRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

// Count total de pedidos sin importar estado.
func (r *OrderRepo) Count() (int64, error) {
	var n int64
	err := r.q.QueryRow(context.Background(), `SELECT count(*) FROM orders`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}
