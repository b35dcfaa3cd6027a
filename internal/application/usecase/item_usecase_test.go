package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hidrive/inventario-api/internal/application/dto"
	"github.com/hidrive/inventario-api/internal/application/usecase"
	"github.com/hidrive/inventario-api/internal/domain"
	"github.com/hidrive/inventario-api/internal/infrastructure/memory"
)

func newItemUC(store *memory.Store) *usecase.ItemUseCase {
	return usecase.NewItemUseCase(store, store.Items(), store.History())
}

func strPtr(s string) *string { return &s }
func intPtr(v int64) *int64   { return &v }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestItemUpsert_CrearGeneraEntradaInitialStock(t *testing.T) {
	store := memory.NewStore()
	uc := newItemUC(store)

	out, err := uc.Upsert(context.Background(), "SKU-1", dto.UpsertItemRequest{
		Name:     strPtr("Taladro"),
		Quantity: intPtr(12),
	}, true)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "SKU-1", out.ID)
	assert.Equal(t, int64(12), out.Quantity)

	recs := uc.GetHistory("SKU-1")
	require.Len(t, recs, 1)
	assert.Equal(t, "INITIAL_STOCK", recs[0].Type)
	require.NotNil(t, recs[0].QuantityChange)
	// El registro de alta lleva la cantidad inicial tal cual, no un delta.
	assert.Equal(t, int64(12), *recs[0].QuantityChange)
}

func TestItemUpsert_EditarMezclaSoloCamposPresentes(t *testing.T) {
	store := memory.NewStore()
	uc := newItemUC(store)
	ctx := context.Background()

	_, err := uc.Upsert(ctx, "SKU-1", dto.UpsertItemRequest{
		Name:          strPtr("Taladro"),
		Quantity:      intPtr(12),
		SalePrice:     decPtr(50),
		MinStockAlert: intPtr(3),
	}, true)
	require.NoError(t, err)

	// Editar solo el nombre: cantidad, precio y umbral quedan intactos.
	out, err := uc.Upsert(ctx, "SKU-1", dto.UpsertItemRequest{
		Name: strPtr("Taladro Percutor"),
	}, false)
	require.NoError(t, err)
	assert.Equal(t, "Taladro Percutor", out.Name)
	assert.Equal(t, int64(12), out.Quantity)
	assert.True(t, decimal.NewFromInt(50).Equal(out.SalePrice))
	require.NotNil(t, out.MinStockAlert)
	assert.Equal(t, int64(3), *out.MinStockAlert)

	// Toda edición deja rastro, aunque no toque cantidad.
	recs := uc.GetHistory("SKU-1")
	require.Len(t, recs, 2)
	assert.Equal(t, "MANUAL_ADJUSTMENT", recs[0].Type) // más reciente primero
	assert.Nil(t, recs[0].QuantityChange, "edición sin cantidad no registra delta")
}

func TestItemUpsert_CantidadNegativa_SeRechaza(t *testing.T) {
	store := memory.NewStore()
	uc := newItemUC(store)

	_, err := uc.Upsert(context.Background(), "SKU-1", dto.UpsertItemRequest{
		Quantity: intPtr(-1),
	}, true)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestItemUpsert_IDVacio_SeRechaza(t *testing.T) {
	store := memory.NewStore()
	uc := newItemUC(store)

	_, err := uc.Upsert(context.Background(), "", dto.UpsertItemRequest{}, true)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestItemList_OrdenaPorNombreSinDistinguirMayusculas(t *testing.T) {
	store := memory.NewStore()
	uc := newItemUC(store)
	ctx := context.Background()

	for id, name := range map[string]string{
		"SKU-1": "zapata",
		"SKU-2": "Álbum de tornillos",
		"SKU-3": "Martillo",
		"SKU-4": "amoladora",
	} {
		_, err := uc.Upsert(ctx, id, dto.UpsertItemRequest{Name: strPtr(name)}, true)
		require.NoError(t, err)
	}

	resp := uc.List()
	require.Equal(t, 4, resp.Total)
	names := make([]string, 0, len(resp.Items))
	for _, it := range resp.Items {
		names = append(names, it.Name)
	}
	// Colación española: la tilde no altera el orden alfabético.
	assert.Equal(t, []string{"Álbum de tornillos", "amoladora", "Martillo", "zapata"}, names)
}

func TestItemGetHistory_MasRecientePrimero(t *testing.T) {
	store := memory.NewStore()
	uc := newItemUC(store)
	ctx := context.Background()

	_, err := uc.Upsert(ctx, "SKU-1", dto.UpsertItemRequest{Name: strPtr("Taladro"), Quantity: intPtr(5)}, true)
	require.NoError(t, err)
	_, err = uc.Upsert(ctx, "SKU-1", dto.UpsertItemRequest{Quantity: intPtr(8), Details: "Reposición"}, false)
	require.NoError(t, err)

	recs := uc.GetHistory("SKU-1")
	require.Len(t, recs, 2)
	assert.Equal(t, "MANUAL_ADJUSTMENT", recs[0].Type)
	assert.Equal(t, "Reposición", recs[0].Details)
	assert.Equal(t, "INITIAL_STOCK", recs[1].Type)
}

func TestItemGetHistory_ArticuloSinHistorial_ListaVacia(t *testing.T) {
	store := memory.NewStore()
	uc := newItemUC(store)
	assert.Empty(t, uc.GetHistory("no-existe"))
}

func TestItemDelete_ElHistorialQuedaHuerfano(t *testing.T) {
	store := memory.NewStore()
	uc := newItemUC(store)
	ctx := context.Background()

	_, err := uc.Upsert(ctx, "SKU-1", dto.UpsertItemRequest{Name: strPtr("Taladro"), Quantity: intPtr(5)}, true)
	require.NoError(t, err)
	require.NoError(t, uc.Delete("SKU-1"))

	out, err := uc.GetByID("SKU-1")
	require.NoError(t, err)
	assert.Nil(t, out)

	// El historial sobrevive al borrado del artículo.
	assert.Len(t, uc.GetHistory("SKU-1"), 1)
}
