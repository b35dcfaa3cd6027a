package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hidrive/inventario-api/internal/application/ports"
	"github.com/hidrive/inventario-api/internal/domain"
	"github.com/hidrive/inventario-api/internal/domain/entity"
	"github.com/hidrive/inventario-api/internal/domain/repository"
)

// StockAdjusterUseCase aplica lotes de descuentos de stock con semántica de
// todo-o-nada sobre dos colecciones independientes (el pedido y N artículos).
// Toda la mutación ocurre dentro de una transacción del TxRunner con bloqueo
// de fila, en dos fases estrictas: primero todas las lecturas y validaciones,
// después todas las escrituras. Si cualquier línea falla, no se escribe nada.
type StockAdjusterUseCase struct {
	txRunner TxRunner
	notifier ports.Notifier // opcional; nil = sin alertas
}

// NewStockAdjusterUseCase construye el motor de ajustes.
func NewStockAdjusterUseCase(txRunner TxRunner, notifier ports.Notifier) *StockAdjusterUseCase {
	return &StockAdjusterUseCase{txRunner: txRunner, notifier: notifier}
}

// AdjustmentResult resultado uniforme de un ajuste: los errores por llamada no
// cruzan como excepciones hacia la capa de presentación, se convierten aquí.
type AdjustmentResult struct {
	OK               bool
	Message          string
	LowStockWarnings []string
}

// SaleLine línea de una venta directa: el working set que el cliente acumuló.
type SaleLine struct {
	ItemID   string
	ItemName string
	Quantity int64
}

// CompleteOrder completa un pedido en estado processing: verifica stock de
// todas las líneas, descuenta cantidades, agrega el historial de cada artículo
// y marca el pedido como completed, todo en una sola transacción.
func (uc *StockAdjusterUseCase) CompleteOrder(ctx context.Context, orderID string) AdjustmentResult {
	var warnings []string
	var orderTitle string

	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		historyRepo repository.HistoryRepository,
		orderRepo repository.OrderRepository,
	) error {
		// Fase de lectura: pedido y todos los artículos, con bloqueo de fila.
		order, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrOrderNotFound
		}
		if order.Status != entity.OrderStatusProcessing {
			return domain.ErrOrderCompleted
		}
		orderTitle = order.Title

		lines := make([]SaleLine, 0, len(order.LineEntries))
		for _, le := range order.LineEntries {
			lines = append(lines, SaleLine{ItemID: le.ItemID, ItemName: le.ItemName, Quantity: le.Quantity})
		}
		plan, err := planDecrements(itemRepo, lines)
		if err != nil {
			return err
		}

		// Fase de escritura: ninguna lectura más a partir de aquí.
		now := time.Now().UTC()
		details := fmt.Sprintf("Venta (Pedido): %s (%s)", order.Title, order.ID)
		warnings, err = applyDecrements(itemRepo, historyRepo, plan, entity.HistoryTypeOrderSale, details, now)
		if err != nil {
			return err
		}
		return orderRepo.MarkCompleted(order.ID, now)
	})
	if err != nil {
		return failureResult(err)
	}

	res := AdjustmentResult{
		OK:               true,
		Message:          fmt.Sprintf("Pedido '%s' completado con éxito.", orderTitle),
		LowStockWarnings: warnings,
	}
	uc.notify(ctx, res)
	return res
}

// ProcessDirectSale finaliza una venta directa: mismo algoritmo de dos fases
// que CompleteOrder pero sin pedido padre; saleID es solo una etiqueta de
// correlación que queda embebida en el historial de cada artículo.
func (uc *StockAdjusterUseCase) ProcessDirectSale(ctx context.Context, lines []SaleLine, saleID string) AdjustmentResult {
	if len(lines) == 0 {
		return failureResult(domain.ErrInvalidInput)
	}

	var warnings []string
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		historyRepo repository.HistoryRepository,
		orderRepo repository.OrderRepository,
	) error {
		// Sin pedido que leer: la fase de lectura empieza por los artículos.
		plan, err := planDecrements(itemRepo, lines)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		details := fmt.Sprintf("Venta Directa: %s", saleID)
		warnings, err = applyDecrements(itemRepo, historyRepo, plan, entity.HistoryTypeDirectSale, details, now)
		return err
	})
	if err != nil {
		return failureResult(err)
	}

	res := AdjustmentResult{
		OK:               true,
		Message:          fmt.Sprintf("Venta '%s' procesada con éxito.", saleID),
		LowStockWarnings: warnings,
	}
	uc.notify(ctx, res)
	return res
}

// CancelOrder elimina un pedido. La cancelación nunca toca el inventario: el
// stock solo se descuenta al completar. Se rechaza sobre pedidos completados.
func (uc *StockAdjusterUseCase) CancelOrder(ctx context.Context, orderID string) error {
	return uc.txRunner.Run(ctx, func(
		_ repository.ItemRepository,
		_ repository.HistoryRepository,
		orderRepo repository.OrderRepository,
	) error {
		order, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrOrderNotFound
		}
		if order.Status == entity.OrderStatusCompleted {
			return domain.ErrOrderCompleted
		}
		return orderRepo.Delete(orderID)
	})
}

// plannedDecrement artículo ya leído y validado, con su cantidad resultante.
type plannedDecrement struct {
	item        *entity.InventoryItem
	requested   int64
	newQuantity int64
}

// planDecrements es la fase de lectura: bloquea y valida cada artículo.
// Las líneas pueden repetir artículo; se agregan por ID para que la validación
// y la escritura operen sobre la cantidad total solicitada — dos descuentos
// parciales desde la misma lectura se pisarían entre sí. Devuelve error en la
// primera línea malformada, inexistente o sin stock; como aún no hubo
// escrituras, el rollback deja todo intacto.
func planDecrements(itemRepo repository.ItemRepository, lines []SaleLine) ([]plannedDecrement, error) {
	ids := make([]string, 0, len(lines))
	totals := make(map[string]int64, len(lines))
	for _, ln := range lines {
		if ln.ItemID == "" {
			return nil, &domain.MalformedLineEntryError{ItemName: ln.ItemName}
		}
		if ln.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		if _, seen := totals[ln.ItemID]; !seen {
			ids = append(ids, ln.ItemID)
		}
		totals[ln.ItemID] += ln.Quantity
	}

	plan := make([]plannedDecrement, 0, len(ids))
	for _, id := range ids {
		requested := totals[id]
		item, err := itemRepo.GetForUpdate(id)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, &domain.ItemNotFoundError{ItemID: id}
		}
		if item.Quantity < requested {
			return nil, &domain.InsufficientStockError{
				ItemID:    item.ID,
				ItemName:  item.Name,
				Requested: requested,
				Available: item.Quantity,
			}
		}
		plan = append(plan, plannedDecrement{
			item:        item,
			requested:   requested,
			newQuantity: item.Quantity - requested,
		})
	}
	return plan, nil
}

// applyDecrements es la fase de escritura: nueva cantidad + entrada de
// historial por artículo, y acumula las alertas de stock bajo
// (0 < nueva cantidad <= umbral).
func applyDecrements(
	itemRepo repository.ItemRepository,
	historyRepo repository.HistoryRepository,
	plan []plannedDecrement,
	histType entity.HistoryType,
	details string,
	now time.Time,
) ([]string, error) {
	var warnings []string
	for _, p := range plan {
		if err := itemRepo.UpdateQuantity(p.item.ID, p.newQuantity); err != nil {
			return nil, err
		}
		change := -p.requested
		rec := &entity.HistoryRecord{
			ID:             uuid.New().String(),
			ItemID:         p.item.ID,
			Type:           histType,
			QuantityChange: &change,
			Details:        details,
			CreatedAt:      now,
		}
		if err := historyRepo.Append(rec); err != nil {
			return nil, err
		}
		if p.item.MinStockAlert != nil && p.newQuantity > 0 && p.newQuantity <= *p.item.MinStockAlert {
			warnings = append(warnings, fmt.Sprintf(
				"Stock bajo para '%s': quedan %d unidades (mínimo %d).",
				p.item.Name, p.newQuantity, *p.item.MinStockAlert,
			))
		}
	}
	return warnings, nil
}

// failureResult convierte el error de la transacción en el resultado uniforme:
// mensajes de validación tal cual, fallos de infraestructura con prefijo
// genérico y la causa para diagnóstico.
func failureResult(err error) AdjustmentResult {
	if domain.IsValidation(err) || err == domain.ErrInvalidInput {
		return AdjustmentResult{OK: false, Message: err.Error()}
	}
	return AdjustmentResult{OK: false, Message: fmt.Sprintf("Error en la transacción: %s", err.Error())}
}

// notify envía las alertas fuera de la transacción, best-effort: un fallo de
// entrega solo se registra, nunca afecta el ajuste ya confirmado.
func (uc *StockAdjusterUseCase) notify(ctx context.Context, res AdjustmentResult) {
	if uc.notifier == nil {
		return
	}
	for _, msg := range append([]string{res.Message}, res.LowStockWarnings...) {
		if err := uc.notifier.SendAlert(ctx, msg); err != nil {
			log.Warn().Err(err).Msg("alerta no entregada")
		}
	}
}
