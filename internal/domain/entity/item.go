package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem representa un artículo del inventario. El ID es el SKU o
// código de barras asignado externamente (no un UUID generado).
// Quantity nunca es negativa: solo la muta el motor de ajustes o la edición
// manual vía Upsert, y toda operación que la dejaría bajo cero aborta completa.
type InventoryItem struct {
	ID            string
	Name          string
	Quantity      int64
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	MinStockAlert *int64  // umbral de alerta de stock bajo; nil = sin alerta
	SupplierID    *string // referencia informativa al registro de proveedores
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
