package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineRequest línea (artículo, cantidad) de un pedido nuevo.
type OrderLineRequest struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int64  `json:"quantity" validate:"required,min=1"`
}

// CreateOrderRequest entrada para crear un pedido. Timestamp es opcional y
// puede venir en formatos heterogéneos (RFC3339, fecha simple, vacío); el
// caso de uso lo normaliza a UTC antes de persistir.
type CreateOrderRequest struct {
	Title     string             `json:"title"`
	Price     decimal.Decimal    `json:"price"`
	Timestamp string             `json:"timestamp"`
	Lines     []OrderLineRequest `json:"lines" validate:"required,min=1"`
}

// OrderLineResponse línea de pedido con precios congelados.
type OrderLineResponse struct {
	ItemID                string          `json:"item_id"`
	ItemName              string          `json:"item_name"`
	Quantity              int64           `json:"quantity"`
	PurchasePriceSnapshot decimal.Decimal `json:"purchase_price_snapshot"`
	SalePriceSnapshot     decimal.Decimal `json:"sale_price_snapshot"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Price       decimal.Decimal     `json:"price"`
	Status      string              `json:"status"`
	Timestamp   time.Time           `json:"timestamp"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
	Lines       []OrderLineResponse `json:"lines"`
}

// OrderListResponse lista de pedidos por timestamp descendente.
type OrderListResponse struct {
	Total  int             `json:"total"`
	Orders []OrderResponse `json:"orders"`
}

// SaleLineRequest línea de una venta directa (acumulada en el cliente).
type SaleLineRequest struct {
	ItemID    string          `json:"item_id" validate:"required"`
	ItemName  string          `json:"item_name"`
	Quantity  int64           `json:"quantity" validate:"required,min=1"`
	SalePrice decimal.Decimal `json:"sale_price"`
}

// ProcessSaleRequest entrada para finalizar una venta directa. SaleID es solo
// una etiqueta de correlación; si viene vacío se genera una.
type ProcessSaleRequest struct {
	SaleID string            `json:"sale_id"`
	Lines  []SaleLineRequest `json:"lines" validate:"required,min=1"`
}

// AdjustmentResultResponse resultado uniforme del motor de ajustes.
type AdjustmentResultResponse struct {
	OK               bool     `json:"ok"`
	Message          string   `json:"message"`
	LowStockWarnings []string `json:"low_stock_warnings"`
}
