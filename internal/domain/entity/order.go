package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado cerrado del ciclo de vida de un pedido.
// La cancelación se materializa como borrado, no como estado.
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
)

// LineEntry es una línea (artículo, cantidad) de un pedido o venta directa.
// Los precios se congelan al crear el pedido para que la analítica histórica
// no cambie con ediciones posteriores del artículo.
type LineEntry struct {
	ItemID                string          `json:"item_id"`
	ItemName              string          `json:"item_name"`
	Quantity              int64           `json:"quantity"`
	PurchasePriceSnapshot decimal.Decimal `json:"purchase_price_snapshot"`
	SalePriceSnapshot     decimal.Decimal `json:"sale_price_snapshot"`
}

// Order representa un pedido. Una vez completado, las líneas y sus precios
// congelados son inmutables; no hay transición que salga de completed.
type Order struct {
	ID          string
	Title       string
	Price       decimal.Decimal
	Status      OrderStatus
	Timestamp   time.Time
	CompletedAt *time.Time
	LineEntries []LineEntry
}
