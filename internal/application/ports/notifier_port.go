package ports

import "context"

// Notifier puerto hacia el colaborador de notificaciones (best-effort).
// Un fallo de entrega jamás revierte la transacción de stock: el caller solo
// registra el error en el log.
type Notifier interface {
	SendAlert(ctx context.Context, message string) error
}
