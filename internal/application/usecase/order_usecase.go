package usecase

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hidrive/inventario-api/internal/application/dto"
	"github.com/hidrive/inventario-api/internal/domain"
	"github.com/hidrive/inventario-api/internal/domain/entity"
	"github.com/hidrive/inventario-api/internal/domain/repository"
)

// Formatos aceptados para timestamps que llegan del cliente. Todo lo que no
// parsee se normaliza al valor más antiguo posible (zero time) para que quede
// al final del listado descendente.
var orderTimestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// OrderUseCase creación y lecturas de pedidos. Completar y cancelar viven en
// el motor de ajustes (inventory.StockAdjusterUseCase).
type OrderUseCase struct {
	orderRepo repository.OrderRepository
	itemRepo  repository.ItemRepository
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(orderRepo repository.OrderRepository, itemRepo repository.ItemRepository) *OrderUseCase {
	return &OrderUseCase{orderRepo: orderRepo, itemRepo: itemRepo}
}

// Create persiste un pedido en estado processing. Antes de guardar, enriquece
// cada línea buscando el artículo y congelando sus precios actuales: la
// analítica posterior (margen, COGS) depende de ese snapshot y nunca debe
// rederivarse del precio vigente del artículo.
func (uc *OrderUseCase) Create(in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}

	entries := make([]entity.LineEntry, 0, len(in.Lines))
	for _, ln := range in.Lines {
		if ln.ItemID == "" || ln.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		item, err := uc.itemRepo.GetByID(ln.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, &domain.ItemNotFoundError{ItemID: ln.ItemID}
		}
		entries = append(entries, entity.LineEntry{
			ItemID:                item.ID,
			ItemName:              item.Name,
			Quantity:              ln.Quantity,
			PurchasePriceSnapshot: item.PurchasePrice,
			SalePriceSnapshot:     item.SalePrice,
		})
	}

	title := in.Title
	if title == "" {
		// Número de secuencia legible; no es un valor crítico de corrección.
		n, err := uc.orderRepo.Count()
		if err != nil {
			return nil, err
		}
		title = fmt.Sprintf("Pedido #%d", n+1)
	}

	order := &entity.Order{
		ID:          uuid.New().String(),
		Title:       title,
		Price:       in.Price,
		Status:      entity.OrderStatusProcessing,
		Timestamp:   NormalizeTimestamp(in.Timestamp),
		LineEntries: entries,
	}
	if err := uc.orderRepo.Create(order); err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// GetByID obtiene un pedido.
func (uc *OrderUseCase) GetByID(id string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}
	return toOrderResponse(order), nil
}

// List devuelve los pedidos por timestamp descendente, opcionalmente filtrados
// por estado. Vista de reporte: degrada a lista vacía ante error del store.
func (uc *OrderUseCase) List(status entity.OrderStatus) *dto.OrderListResponse {
	orders, err := uc.orderRepo.List(status)
	if err != nil {
		log.Error().Err(err).Str("status", string(status)).Msg("listar pedidos")
		return &dto.OrderListResponse{Orders: []dto.OrderResponse{}}
	}
	// Reordena en memoria: el orden no debe depender del store y los
	// timestamps zero (no parseables) quedan al final.
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Timestamp.After(orders[j].Timestamp)
	})
	resp := &dto.OrderListResponse{Total: len(orders), Orders: make([]dto.OrderResponse, 0, len(orders))}
	for _, o := range orders {
		resp.Orders = append(resp.Orders, *toOrderResponse(o))
	}
	return resp
}

// Count total de pedidos sin importar estado.
func (uc *OrderUseCase) Count() (int64, error) {
	return uc.orderRepo.Count()
}

// NormalizeTimestamp lleva un timestamp de entrada a un time.Time canónico en
// UTC. Vacío = ahora (pedido recién creado); no parseable = zero time, que en
// el listado descendente ordena último.
func NormalizeTimestamp(raw string) time.Time {
	if raw == "" {
		return time.Now().UTC()
	}
	for _, layout := range orderTimestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	if o == nil {
		return nil
	}
	lines := make([]dto.OrderLineResponse, 0, len(o.LineEntries))
	for _, le := range o.LineEntries {
		lines = append(lines, dto.OrderLineResponse{
			ItemID:                le.ItemID,
			ItemName:              le.ItemName,
			Quantity:              le.Quantity,
			PurchasePriceSnapshot: le.PurchasePriceSnapshot,
			SalePriceSnapshot:     le.SalePriceSnapshot,
		})
	}
	return &dto.OrderResponse{
		ID:          o.ID,
		Title:       o.Title,
		Price:       o.Price,
		Status:      string(o.Status),
		Timestamp:   o.Timestamp,
		CompletedAt: o.CompletedAt,
		Lines:       lines,
	}
}
