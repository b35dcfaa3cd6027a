package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// UpsertItemRequest entrada para crear o editar un artículo. Todos los campos
// son opcionales: solo los presentes se mezclan sobre el artículo existente.
type UpsertItemRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Quantity      *int64           `json:"quantity" validate:"omitempty,min=0"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	MinStockAlert *int64           `json:"min_stock_alert" validate:"omitempty,min=0"`
	SupplierID    *string          `json:"supplier_id"`
	// Details texto libre para la entrada de historial que genera la edición.
	Details string `json:"details"`
}

// ItemResponse salida de un artículo.
type ItemResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Quantity      int64           `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	MinStockAlert *int64          `json:"min_stock_alert,omitempty"`
	SupplierID    *string         `json:"supplier_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ItemListResponse lista de artículos ordenada por nombre.
type ItemListResponse struct {
	Total int            `json:"total"`
	Items []ItemResponse `json:"items"`
}

// HistoryRecordResponse entrada del historial de un artículo.
type HistoryRecordResponse struct {
	ID             string    `json:"id"`
	ItemID         string    `json:"item_id"`
	Type           string    `json:"type"`
	QuantityChange *int64    `json:"quantity_change,omitempty"`
	Details        string    `json:"details"`
	CreatedAt      time.Time `json:"created_at"`
}
