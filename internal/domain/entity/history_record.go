package entity

import "time"

// HistoryType tipo cerrado de movimiento del historial de un artículo.
type HistoryType string

const (
	HistoryTypeInitialStock     HistoryType = "INITIAL_STOCK"     // alta del artículo
	HistoryTypeManualAdjustment HistoryType = "MANUAL_ADJUSTMENT" // edición manual de campos
	HistoryTypeOrderSale        HistoryType = "ORDER_SALE"        // salida por pedido completado
	HistoryTypeDirectSale       HistoryType = "DIRECT_SALE"       // salida por venta directa
)

// HistoryRecord es una entrada inmutable del sub-historial de un artículo.
// Solo se crea como efecto de una mutación del artículo; nunca se edita ni se
// borra individualmente (el borrado del artículo puede dejarlas huérfanas).
type HistoryRecord struct {
	ID             string
	ItemID         string
	Type           HistoryType
	QuantityChange *int64 // con signo; nil en ediciones que no tocan cantidad
	Details        string
	CreatedAt      time.Time
}
