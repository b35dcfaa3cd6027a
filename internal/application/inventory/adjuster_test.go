package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hidrive/inventario-api/internal/application/inventory"
	"github.com/hidrive/inventario-api/internal/domain/entity"
	"github.com/hidrive/inventario-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// seedItem crea un artículo con la cantidad y umbral de alerta indicados.
func seedItem(t *testing.T, store *memory.Store, id, name string, quantity int64, minAlert *int64) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, store.Items().Upsert(&entity.InventoryItem{
		ID:            id,
		Name:          name,
		Quantity:      quantity,
		PurchasePrice: decimal.NewFromInt(10),
		SalePrice:     decimal.NewFromInt(15),
		MinStockAlert: minAlert,
		CreatedAt:     now,
		UpdatedAt:     now,
	}))
}

// seedOrder crea un pedido en processing con las líneas dadas.
func seedOrder(t *testing.T, store *memory.Store, id, title string, lines ...entity.LineEntry) {
	t.Helper()
	require.NoError(t, store.Orders().Create(&entity.Order{
		ID:          id,
		Title:       title,
		Price:       decimal.NewFromInt(100),
		Status:      entity.OrderStatusProcessing,
		Timestamp:   time.Now().UTC(),
		LineEntries: lines,
	}))
}

func line(itemID, itemName string, qty int64) entity.LineEntry {
	return entity.LineEntry{
		ItemID:                itemID,
		ItemName:              itemName,
		Quantity:              qty,
		PurchasePriceSnapshot: decimal.NewFromInt(10),
		SalePriceSnapshot:     decimal.NewFromInt(15),
	}
}

func quantityOf(t *testing.T, store *memory.Store, itemID string) int64 {
	t.Helper()
	it, err := store.Items().GetByID(itemID)
	require.NoError(t, err)
	require.NotNil(t, it)
	return it.Quantity
}

// recordingNotifier acumula los mensajes enviados, con error opcional.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	fail     bool
}

func (n *recordingNotifier) SendAlert(_ context.Context, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	if n.fail {
		return assert.AnError
	}
	return nil
}

func i64(v int64) *int64 { return &v }

// ──────────────────────────────────────────────────────────────────────────────
// CompleteOrder
// ──────────────────────────────────────────────────────────────────────────────

func TestCompleteOrder_DescuentaStockYMarcaCompletado(t *testing.T) {
	store := memory.NewStore()
	seedItem(t, store, "SKU-1", "Taladro", 10, nil)
	seedItem(t, store, "SKU-2", "Martillo", 5, nil)
	seedOrder(t, store, "order-1", "Pedido #1",
		line("SKU-1", "Taladro", 3),
		line("SKU-2", "Martillo", 2),
	)

	adjuster := inventory.NewStockAdjusterUseCase(store, nil)
	res := adjuster.CompleteOrder(context.Background(), "order-1")

	require.True(t, res.OK, "el ajuste debe confirmarse: %s", res.Message)
	assert.Contains(t, res.Message, "Pedido #1")
	assert.Equal(t, int64(7), quantityOf(t, store, "SKU-1"))
	assert.Equal(t, int64(3), quantityOf(t, store, "SKU-2"))

	// El pedido queda completed con CompletedAt.
	order, err := store.Orders().GetByID("order-1")
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, entity.OrderStatusCompleted, order.Status)
	require.NotNil(t, order.CompletedAt)

	// Una entrada ORDER_SALE por artículo con el delta negativo.
	recs, err := store.History().ListByItem("SKU-1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, entity.HistoryTypeOrderSale, recs[0].Type)
	require.NotNil(t, recs[0].QuantityChange)
	assert.Equal(t, int64(-3), *recs[0].QuantityChange)
	assert.Contains(t, recs[0].Details, "Pedido #1")
}

func TestCompleteOrder_StockInsuficiente_NoEscribeNada(t *testing.T) {
	store := memory.NewStore()
	seedItem(t, store, "SKU-1", "Taladro", 10, nil)
	seedItem(t, store, "SKU-2", "Martillo", 1, nil)
	seedOrder(t, store, "order-1", "Pedido #1",
		line("SKU-1", "Taladro", 3),
		line("SKU-2", "Martillo", 2), // insuficiente
	)

	adjuster := inventory.NewStockAdjusterUseCase(store, nil)
	res := adjuster.CompleteOrder(context.Background(), "order-1")

	require.False(t, res.OK)
	assert.Contains(t, res.Message, "Stock insuficiente")
	assert.Contains(t, res.Message, "Martillo")

	// Todo-o-nada: ninguna línea se aplicó, ni siquiera la primera válida.
	assert.Equal(t, int64(10), quantityOf(t, store, "SKU-1"))
	assert.Equal(t, int64(1), quantityOf(t, store, "SKU-2"))

	order, err := store.Orders().GetByID("order-1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusProcessing, order.Status)

	recs, err := store.History().ListByItem("SKU-1")
	require.NoError(t, err)
	assert.Empty(t, recs, "no debe quedar historial de un ajuste revertido")
}

// Líneas repetidas del mismo artículo: el descuento opera sobre la suma, no
// sobre lecturas independientes que se pisarían entre sí.
func TestCompleteOrder_LineasRepetidasSeAgreganPorArticulo(t *testing.T) {
	store := memory.NewStore()
	seedItem(t, store, "SKU-1", "Taladro", 10, nil)
	seedOrder(t, store, "order-1", "Pedido #1",
		line("SKU-1", "Taladro", 3),
		line("SKU-1", "Taladro", 4),
	)

	adjuster := inventory.NewStockAdjusterUseCase(store, nil)
	res := adjuster.CompleteOrder(context.Background(), "order-1")

	require.True(t, res.OK, res.Message)
	assert.Equal(t, int64(3), quantityOf(t, store, "SKU-1"), "10 - (3+4) = 3")

	// Un solo descuento agregado en el historial, consistente con el stock.
	recs, err := store.History().ListByItem("SKU-1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.NotNil(t, recs[0].QuantityChange)
	assert.Equal(t, int64(-7), *recs[0].QuantityChange)
}

func TestCompleteOrder_LineasRepetidasExcedenStock_SeRechaza(t *testing.T) {
	store := memory.NewStore()
	seedItem(t, store, "SKU-1", "Taladro", 10, nil)
	seedOrder(t, store, "order-1", "Pedido #1",
		line("SKU-1", "Taladro", 6),
		line("SKU-1", "Taladro", 6), // 12 > 10 aunque cada línea quepa sola
	)

	adjuster := inventory.NewStockAdjusterUseCase(store, nil)
	res := adjuster.CompleteOrder(context.Background(), "order-1")

	require.False(t, res.OK, "la suma de líneas repetidas debe validarse contra el stock")
	assert.Contains(t, res.Message, "Stock insuficiente")
	assert.Contains(t, res.Message, "Se necesitan 12, hay 10")

	assert.Equal(t, int64(10), quantityOf(t, store, "SKU-1"))
	order, err := store.Orders().GetByID("order-1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusProcessing, order.Status)

	recs, err := store.History().ListByItem("SKU-1")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestProcessDirectSale_LineasRepetidasSeAgregan(t *testing.T) {
	store := memory.NewStore()
	seedItem(t, store, "SKU-1", "Taladro", 10, nil)

	adjuster := inventory.NewStockAdjusterUseCase(store, nil)
	res := adjuster.ProcessDirectSale(context.Background(), []inventory.SaleLine{
		{ItemID: "SKU-1", ItemName: "Taladro", Quantity: 6},
		{ItemID: "SKU-1", ItemName: "Taladro", Quantity: 6},
	}, "venta-123")

	require.False(t, res.OK, "12 unidades sobre 10 de stock deben rechazarse")
	assert.Equal(t, int64(10), quantityOf(t, store, "SKU-1"))
}

func TestCompleteOrder_ArticuloInexistente_Falla(t *testing.T) {
	store := memory.NewStore()
	seedItem(t, store, "SKU-1", "Taladro", 10, nil)
	seedOrder(t, store, "order-1", "Pedido #1",
		line("SKU-1", "Taladro", 3),
		line("SKU-X", "Fantasma", 1),
	)

	adjuster := inventory.NewStockAdjusterUseCase(store, nil)
	res := adjuster.CompleteOrder(context.Background(), "order-1")

	require.False(t, res.OK)
	assert.Contains(t, res.Message, "SKU-X")
	assert.Equal(t, int64(10), quantityOf(t, store, "SKU-1"))
}

func TestCompleteOrder_LineaMalformada_Falla(t *testing.T) {
	store := memory.NewStore()
	seedItem(t, store, "SKU-1", "Taladro", 10, nil)
	seedOrder(t, store, "order-1", "Pedido #1",
		line("", "Sin ID", 1), // sin item_id
	)

	adjuster := inventory.NewStockAdjusterUseCase(store, nil)
	res := adjuster.CompleteOrder(context.Background(), "order-1")

	require.False(t, res.OK)
	assert.Contains(t, res.Message, "Sin ID")
	assert.Equal(t, int64(10), quantityOf(t, store, "SKU-1"))
}

func TestCompleteOrder_PedidoInexistente_Falla(t *testing.T) {
	store := memory.NewStore()
	adjuster := inventory.NewStockAdjusterUseCase(store, nil)

	res := adjuster.CompleteOrder(context.Background(), "no-existe")

	require.False(t, res.OK)
	assert.NotEmpty(t, res.Message)
}

func TestCompleteOrder_YaCompletado_EsIdempotentementeRechazado(t *testing.T) {
	store := memory.NewStore()
	seedItem(t, store, "SKU-1", "Taladro", 10, nil)
	seedOrder(t, store, "order-1", "Pedido #1", line("SKU-1", "Taladro", 3))

	adjuster := inventory.NewStockAdjusterUseCase(store, nil)
	first := adjuster.CompleteOrder(context.Background(), "order-1")
	require.True(t, first.OK)

	second := adjuster.CompleteOrder(context.Background(), "order-1")
	require.False(t, second.OK, "el segundo completado debe rechazarse")

	// El stock solo se descontó una vez.
	assert.Equal(t, int64(7), quantityOf(t, store, "SKU-1"))
}

func TestCompleteOrder_GeneraAlertasDeStockBajo(t *testing.T) {
	store := memory.NewStore()
	seedItem(t, store, "SKU-1", "Taladro", 5, i64(3))  // queda en 2 <= 3
	seedItem(t, store, "SKU-2", "Martillo", 9, i64(3)) // queda en 6 > 3
	seedItem(t, store, "SKU-3", "Sierra", 2, i64(3))   // queda en 0: agotado, sin alerta de "bajo"
	seedOrder(t, store, "order-1", "Pedido #1",
		line("SKU-1", "Taladro", 3),
		line("SKU-2", "Martillo", 3),
		line("SKU-3", "Sierra", 2),
	)

	notifier := &recordingNotifier{}
	adjuster := inventory.NewStockAdjusterUseCase(store, notifier)
	res := adjuster.CompleteOrder(context.Background(), "order-1")

	require.True(t, res.OK)
	require.Len(t, res.LowStockWarnings, 1)
	assert.Contains(t, res.LowStockWarnings[0], "Taladro")
	assert.Contains(t, res.LowStockWarnings[0], "quedan 2")

	// El notificador recibe el mensaje principal más la alerta.
	assert.Len(t, notifier.messages, 2)
}

func TestCompleteOrder_FalloDelNotificador_NoRevierteElAjuste(t *testing.T) {
	store := memory.NewStore()
	seedItem(t, store, "SKU-1", "Taladro", 5, i64(3))
	seedOrder(t, store, "order-1", "Pedido #1", line("SKU-1", "Taladro", 3))

	notifier := &recordingNotifier{fail: true}
	adjuster := inventory.NewStockAdjusterUseCase(store, notifier)
	res := adjuster.CompleteOrder(context.Background(), "order-1")

	require.True(t, res.OK, "el fallo de entrega no debe afectar el ajuste confirmado")
	assert.Equal(t, int64(2), quantityOf(t, store, "SKU-1"))
}

// Dos completados concurrentes del mismo pedido: exactamente uno confirma y el
// stock se descuenta una sola vez.
func TestCompleteOrder_DobleCompletadoConcurrente_SoloUnoGana(t *testing.T) {
	store := memory.NewStore()
	seedItem(t, store, "SKU-1", "Taladro", 10, nil)
	seedOrder(t, store, "order-1", "Pedido #1", line("SKU-1", "Taladro", 4))

	adjuster := inventory.NewStockAdjusterUseCase(store, nil)

	var wg sync.WaitGroup
	results := make([]inventory.AdjustmentResult, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = adjuster.CompleteOrder(context.Background(), "order-1")
		}(i)
	}
	wg.Wait()

	okCount := 0
	for _, r := range results {
		if r.OK {
			okCount++
		}
	}
	assert.Equal(t, 1, okCount, "exactamente un completado debe ganar")
	assert.Equal(t, int64(6), quantityOf(t, store, "SKU-1"))

	recs, err := store.History().ListByItem("SKU-1")
	require.NoError(t, err)
	assert.Len(t, recs, 1, "el historial solo registra el descuento del ganador")
}

// ──────────────────────────────────────────────────────────────────────────────
// ProcessDirectSale
// ──────────────────────────────────────────────────────────────────────────────

func TestProcessDirectSale_DescuentaYRegistraHistorial(t *testing.T) {
	store := memory.NewStore()
	seedItem(t, store, "SKU-1", "Taladro", 10, nil)

	adjuster := inventory.NewStockAdjusterUseCase(store, nil)
	res := adjuster.ProcessDirectSale(context.Background(), []inventory.SaleLine{
		{ItemID: "SKU-1", ItemName: "Taladro", Quantity: 4},
	}, "venta-123")

	require.True(t, res.OK, res.Message)
	assert.Equal(t, int64(6), quantityOf(t, store, "SKU-1"))

	recs, err := store.History().ListByItem("SKU-1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, entity.HistoryTypeDirectSale, recs[0].Type)
	assert.Contains(t, recs[0].Details, "Venta Directa: venta-123")
}

func TestProcessDirectSale_SinLineas_Falla(t *testing.T) {
	store := memory.NewStore()
	adjuster := inventory.NewStockAdjusterUseCase(store, nil)

	res := adjuster.ProcessDirectSale(context.Background(), nil, "venta-123")
	assert.False(t, res.OK)
}

func TestProcessDirectSale_CantidadInvalida_NoEscribeNada(t *testing.T) {
	store := memory.NewStore()
	seedItem(t, store, "SKU-1", "Taladro", 10, nil)

	adjuster := inventory.NewStockAdjusterUseCase(store, nil)
	res := adjuster.ProcessDirectSale(context.Background(), []inventory.SaleLine{
		{ItemID: "SKU-1", ItemName: "Taladro", Quantity: 4},
		{ItemID: "SKU-1", ItemName: "Taladro", Quantity: 0},
	}, "venta-123")

	require.False(t, res.OK)
	assert.Equal(t, int64(10), quantityOf(t, store, "SKU-1"))
}

func TestProcessDirectSale_VentaExacta_DejaStockEnCero(t *testing.T) {
	store := memory.NewStore()
	seedItem(t, store, "SKU-1", "Taladro", 4, i64(2))

	adjuster := inventory.NewStockAdjusterUseCase(store, nil)
	res := adjuster.ProcessDirectSale(context.Background(), []inventory.SaleLine{
		{ItemID: "SKU-1", ItemName: "Taladro", Quantity: 4},
	}, "venta-123")

	require.True(t, res.OK)
	assert.Equal(t, int64(0), quantityOf(t, store, "SKU-1"))
	// Cantidad cero no es "stock bajo": el umbral solo aplica con stock positivo.
	assert.Empty(t, res.LowStockWarnings)
}

// ──────────────────────────────────────────────────────────────────────────────
// CancelOrder
// ──────────────────────────────────────────────────────────────────────────────

func TestCancelOrder_EliminaSinTocarInventario(t *testing.T) {
	store := memory.NewStore()
	seedItem(t, store, "SKU-1", "Taladro", 10, nil)
	seedOrder(t, store, "order-1", "Pedido #1", line("SKU-1", "Taladro", 3))

	adjuster := inventory.NewStockAdjusterUseCase(store, nil)
	require.NoError(t, adjuster.CancelOrder(context.Background(), "order-1"))

	order, err := store.Orders().GetByID("order-1")
	require.NoError(t, err)
	assert.Nil(t, order, "el pedido cancelado debe desaparecer")
	assert.Equal(t, int64(10), quantityOf(t, store, "SKU-1"))

	recs, err := store.History().ListByItem("SKU-1")
	require.NoError(t, err)
	assert.Empty(t, recs, "cancelar no genera historial")
}

func TestCancelOrder_PedidoCompletado_SeRechaza(t *testing.T) {
	store := memory.NewStore()
	seedItem(t, store, "SKU-1", "Taladro", 10, nil)
	seedOrder(t, store, "order-1", "Pedido #1", line("SKU-1", "Taladro", 3))

	adjuster := inventory.NewStockAdjusterUseCase(store, nil)
	require.True(t, adjuster.CompleteOrder(context.Background(), "order-1").OK)

	err := adjuster.CancelOrder(context.Background(), "order-1")
	assert.Error(t, err, "un pedido completado no puede cancelarse")

	order, getErr := store.Orders().GetByID("order-1")
	require.NoError(t, getErr)
	assert.NotNil(t, order, "el pedido completado debe seguir existiendo")
}

func TestCancelOrder_PedidoInexistente_RetornaError(t *testing.T) {
	store := memory.NewStore()
	adjuster := inventory.NewStockAdjusterUseCase(store, nil)
	assert.Error(t, adjuster.CancelOrder(context.Background(), "no-existe"))
}
