package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/hidrive/inventario-api/internal/application/dto"
	"github.com/hidrive/inventario-api/internal/application/inventory"
	"github.com/hidrive/inventario-api/internal/domain"
	"github.com/hidrive/inventario-api/internal/domain/entity"
	"github.com/hidrive/inventario-api/internal/domain/repository"
)

// ItemUseCase operaciones sobre el almacén de artículos. La edición manual
// (Upsert) es un camino distinto al motor de ajustes, pero comparte la regla
// de que artículo + entrada de historial se escriben en una sola transacción.
type ItemUseCase struct {
	txRunner    inventory.TxRunner
	itemRepo    repository.ItemRepository
	historyRepo repository.HistoryRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(txRunner inventory.TxRunner, itemRepo repository.ItemRepository, historyRepo repository.HistoryRepository) *ItemUseCase {
	return &ItemUseCase{txRunner: txRunner, itemRepo: itemRepo, historyRepo: historyRepo}
}

// Upsert mezcla los campos presentes sobre el artículo (creándolo si isNew) y
// agrega incondicionalmente UNA entrada de historial: INITIAL_STOCK al crear,
// MANUAL_ADJUSTMENT al editar. QuantityChange toma el campo quantity del
// parcial si vino, si no queda null: toda edición deja rastro de auditoría,
// no solo las que tocan stock.
func (uc *ItemUseCase) Upsert(ctx context.Context, id string, in dto.UpsertItemRequest, isNew bool) (*dto.ItemResponse, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}

	var out *dto.ItemResponse
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		historyRepo repository.HistoryRepository,
		_ repository.OrderRepository,
	) error {
		now := time.Now().UTC()
		item, err := itemRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if item == nil {
			item = &entity.InventoryItem{ID: id, CreatedAt: now}
		}
		if in.Name != nil {
			item.Name = *in.Name
		}
		if in.Quantity != nil {
			item.Quantity = *in.Quantity
		}
		if in.PurchasePrice != nil {
			item.PurchasePrice = *in.PurchasePrice
		}
		if in.SalePrice != nil {
			item.SalePrice = *in.SalePrice
		}
		if in.MinStockAlert != nil {
			item.MinStockAlert = in.MinStockAlert
		}
		if in.SupplierID != nil {
			item.SupplierID = in.SupplierID
		}
		item.UpdatedAt = now
		if err := itemRepo.Upsert(item); err != nil {
			return err
		}

		histType := entity.HistoryTypeManualAdjustment
		details := in.Details
		if isNew {
			histType = entity.HistoryTypeInitialStock
			if details == "" {
				details = "Registro inicial del artículo."
			}
		} else if details == "" {
			details = "Edición manual de campos."
		}
		var change *int64
		if in.Quantity != nil {
			v := *in.Quantity
			change = &v
		}
		if err := historyRepo.Append(&entity.HistoryRecord{
			ID:             uuid.New().String(),
			ItemID:         item.ID,
			Type:           histType,
			QuantityChange: change,
			Details:        details,
			CreatedAt:      now,
		}); err != nil {
			return err
		}
		out = toItemResponse(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID obtiene un artículo por su SKU/código de barras.
func (uc *ItemUseCase) GetByID(id string) (*dto.ItemResponse, error) {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return toItemResponse(item), nil
}

// List devuelve todos los artículos ordenados por nombre sin distinguir
// mayúsculas. Vista de reporte: ante un error del store degrada a lista vacía
// en lugar de fallar.
func (uc *ItemUseCase) List() *dto.ItemListResponse {
	items, err := uc.itemRepo.List()
	if err != nil {
		log.Error().Err(err).Msg("listar inventario")
		return &dto.ItemListResponse{Items: []dto.ItemResponse{}}
	}
	c := collate.New(language.Spanish, collate.IgnoreCase)
	sort.SliceStable(items, func(i, j int) bool {
		return c.CompareString(items[i].Name, items[j].Name) < 0
	})
	resp := &dto.ItemListResponse{Total: len(items), Items: make([]dto.ItemResponse, 0, len(items))}
	for _, it := range items {
		resp.Items = append(resp.Items, *toItemResponse(it))
	}
	return resp
}

// GetHistory devuelve el historial del artículo, más reciente primero.
// Vista de reporte: degrada a lista vacía ante error del store.
func (uc *ItemUseCase) GetHistory(itemID string) []dto.HistoryRecordResponse {
	records, err := uc.historyRepo.ListByItem(itemID)
	if err != nil {
		log.Error().Err(err).Str("item_id", itemID).Msg("listar historial")
		return []dto.HistoryRecordResponse{}
	}
	out := make([]dto.HistoryRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.HistoryRecordResponse{
			ID:             r.ID,
			ItemID:         r.ItemID,
			Type:           string(r.Type),
			QuantityChange: r.QuantityChange,
			Details:        r.Details,
			CreatedAt:      r.CreatedAt,
		})
	}
	return out
}

// Delete elimina el artículo. Las entradas de historial pueden quedar
// huérfanas: la limpieza de referencias queda fuera del alcance.
func (uc *ItemUseCase) Delete(id string) error {
	return uc.itemRepo.Delete(id)
}

func toItemResponse(it *entity.InventoryItem) *dto.ItemResponse {
	if it == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:            it.ID,
		Name:          it.Name,
		Quantity:      it.Quantity,
		PurchasePrice: it.PurchasePrice,
		SalePrice:     it.SalePrice,
		MinStockAlert: it.MinStockAlert,
		SupplierID:    it.SupplierID,
		CreatedAt:     it.CreatedAt,
		UpdatedAt:     it.UpdatedAt,
	}
}
