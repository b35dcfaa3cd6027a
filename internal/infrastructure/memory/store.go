package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hidrive/inventario-api/internal/application/inventory"
	"github.com/hidrive/inventario-api/internal/domain/entity"
	"github.com/hidrive/inventario-api/internal/domain/repository"
)

// Ensure Store implements inventory.TxRunner.
var _ inventory.TxRunner = (*Store)(nil)

// Store es un almacén en memoria con la misma semántica transaccional que el
// adaptador PostgreSQL: Run clona el estado, ejecuta fn sobre la copia y
// publica el resultado solo si fn termina sin error. Un mutex serializa las
// transacciones, así que dos ajustes concurrentes sobre el mismo artículo se
// ejecutan uno tras otro y el segundo ve las cantidades ya descontadas.
// Se usa en la suite de tests del motor y sirve para demos sin PostgreSQL.
type Store struct {
	mu sync.Mutex
	st *state
}

type state struct {
	items     map[string]*entity.InventoryItem
	history   map[string][]*entity.HistoryRecord // por artículo, orden de inserción
	orders    map[string]*entity.Order
	suppliers map[string]*entity.Supplier
	users     map[string]*entity.User
}

// NewStore construye el almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

func newState() *state {
	return &state{
		items:     map[string]*entity.InventoryItem{},
		history:   map[string][]*entity.HistoryRecord{},
		orders:    map[string]*entity.Order{},
		suppliers: map[string]*entity.Supplier{},
		users:     map[string]*entity.User{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for id, it := range s.items {
		c.items[id] = copyItem(it)
	}
	for id, recs := range s.history {
		cp := make([]*entity.HistoryRecord, len(recs))
		for i, r := range recs {
			cp[i] = copyRecord(r)
		}
		c.history[id] = cp
	}
	for id, o := range s.orders {
		c.orders[id] = copyOrder(o)
	}
	for id, sp := range s.suppliers {
		c.suppliers[id] = copySupplier(sp)
	}
	for id, u := range s.users {
		c.users[id] = copyUser(u)
	}
	return c
}

// Run ejecuta fn sobre un clon del estado y lo publica solo si no hay error.
func (s *Store) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	historyRepo repository.HistoryRepository,
	orderRepo repository.OrderRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.st.clone()
	if err := fn(&itemRepo{st: working}, &historyRepo{st: working}, &orderRepo{st: working}); err != nil {
		return err // rollback: el clon se descarta
	}
	s.st = working
	return nil
}

// withState ejecuta op sobre el estado publicado, una operación por lock.
func (s *Store) withState(op func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return op(s.st)
}

// Items devuelve el repositorio de artículos sobre el estado publicado.
func (s *Store) Items() repository.ItemRepository { return &liveItemRepo{s: s} }

// History devuelve el repositorio de historial sobre el estado publicado.
func (s *Store) History() repository.HistoryRepository { return &liveHistoryRepo{s: s} }

// Orders devuelve el repositorio de pedidos sobre el estado publicado.
func (s *Store) Orders() repository.OrderRepository { return &liveOrderRepo{s: s} }

// Suppliers devuelve el repositorio de proveedores sobre el estado publicado.
func (s *Store) Suppliers() repository.SupplierRepository { return &liveSupplierRepo{s: s} }

// Users devuelve el repositorio de usuarios sobre el estado publicado.
func (s *Store) Users() repository.UserRepository { return &liveUserRepo{s: s} }

// ── Repos atados a una transacción (operan sobre el clon sin lock) ───────────

type itemRepo struct{ st *state }

func (r *itemRepo) GetByID(id string) (*entity.InventoryItem, error)      { return getItem(r.st, id) }
func (r *itemRepo) GetForUpdate(id string) (*entity.InventoryItem, error) { return getItem(r.st, id) }
func (r *itemRepo) Upsert(item *entity.InventoryItem) error               { return upsertItem(r.st, item) }
func (r *itemRepo) UpdateQuantity(id string, quantity int64) error {
	return updateQuantity(r.st, id, quantity)
}
func (r *itemRepo) List() ([]*entity.InventoryItem, error) { return listItems(r.st) }
func (r *itemRepo) Delete(id string) error                 { return deleteItem(r.st, id) }

type historyRepo struct{ st *state }

func (r *historyRepo) Append(record *entity.HistoryRecord) error { return appendRecord(r.st, record) }
func (r *historyRepo) ListByItem(itemID string) ([]*entity.HistoryRecord, error) {
	return listHistory(r.st, itemID)
}

type orderRepo struct{ st *state }

func (r *orderRepo) Create(order *entity.Order) error              { return createOrder(r.st, order) }
func (r *orderRepo) GetByID(id string) (*entity.Order, error)      { return getOrder(r.st, id) }
func (r *orderRepo) GetForUpdate(id string) (*entity.Order, error) { return getOrder(r.st, id) }
func (r *orderRepo) List(status entity.OrderStatus) ([]*entity.Order, error) {
	return listOrders(r.st, status)
}
func (r *orderRepo) MarkCompleted(id string, completedAt time.Time) error {
	return markCompleted(r.st, id, completedAt)
}
func (r *orderRepo) Delete(id string) error { return deleteOrder(r.st, id) }
func (r *orderRepo) Count() (int64, error)  { return int64(len(r.st.orders)), nil }

// ── Repos sobre el estado publicado (una operación por lock) ─────────────────

type liveItemRepo struct{ s *Store }

func (r *liveItemRepo) GetByID(id string) (it *entity.InventoryItem, err error) {
	err = r.s.withState(func(st *state) error { it, err = getItem(st, id); return err })
	return
}
func (r *liveItemRepo) GetForUpdate(id string) (*entity.InventoryItem, error) { return r.GetByID(id) }
func (r *liveItemRepo) Upsert(item *entity.InventoryItem) error {
	return r.s.withState(func(st *state) error { return upsertItem(st, item) })
}
func (r *liveItemRepo) UpdateQuantity(id string, quantity int64) error {
	return r.s.withState(func(st *state) error { return updateQuantity(st, id, quantity) })
}
func (r *liveItemRepo) List() (list []*entity.InventoryItem, err error) {
	err = r.s.withState(func(st *state) error { list, err = listItems(st); return err })
	return
}
func (r *liveItemRepo) Delete(id string) error {
	return r.s.withState(func(st *state) error { return deleteItem(st, id) })
}

type liveHistoryRepo struct{ s *Store }

func (r *liveHistoryRepo) Append(record *entity.HistoryRecord) error {
	return r.s.withState(func(st *state) error { return appendRecord(st, record) })
}
func (r *liveHistoryRepo) ListByItem(itemID string) (list []*entity.HistoryRecord, err error) {
	err = r.s.withState(func(st *state) error { list, err = listHistory(st, itemID); return err })
	return
}

type liveOrderRepo struct{ s *Store }

func (r *liveOrderRepo) Create(order *entity.Order) error {
	return r.s.withState(func(st *state) error { return createOrder(st, order) })
}
func (r *liveOrderRepo) GetByID(id string) (o *entity.Order, err error) {
	err = r.s.withState(func(st *state) error { o, err = getOrder(st, id); return err })
	return
}
func (r *liveOrderRepo) GetForUpdate(id string) (*entity.Order, error) { return r.GetByID(id) }
func (r *liveOrderRepo) List(status entity.OrderStatus) (list []*entity.Order, err error) {
	err = r.s.withState(func(st *state) error { list, err = listOrders(st, status); return err })
	return
}
func (r *liveOrderRepo) MarkCompleted(id string, completedAt time.Time) error {
	return r.s.withState(func(st *state) error { return markCompleted(st, id, completedAt) })
}
func (r *liveOrderRepo) Delete(id string) error {
	return r.s.withState(func(st *state) error { return deleteOrder(st, id) })
}
func (r *liveOrderRepo) Count() (n int64, err error) {
	err = r.s.withState(func(st *state) error { n = int64(len(st.orders)); return nil })
	return
}

type liveSupplierRepo struct{ s *Store }

func (r *liveSupplierRepo) Create(supplier *entity.Supplier) error {
	return r.s.withState(func(st *state) error {
		if _, ok := st.suppliers[supplier.ID]; ok {
			return fmt.Errorf("supplier duplicado: %s", supplier.ID)
		}
		st.suppliers[supplier.ID] = copySupplier(supplier)
		return nil
	})
}
func (r *liveSupplierRepo) GetByID(id string) (sp *entity.Supplier, err error) {
	err = r.s.withState(func(st *state) error {
		if s, ok := st.suppliers[id]; ok {
			sp = copySupplier(s)
		}
		return nil
	})
	return
}
func (r *liveSupplierRepo) List() (list []*entity.Supplier, err error) {
	err = r.s.withState(func(st *state) error {
		for _, s := range st.suppliers {
			list = append(list, copySupplier(s))
		}
		return nil
	})
	sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return
}
func (r *liveSupplierRepo) Update(supplier *entity.Supplier) error {
	return r.s.withState(func(st *state) error {
		st.suppliers[supplier.ID] = copySupplier(supplier)
		return nil
	})
}
func (r *liveSupplierRepo) Delete(id string) error {
	return r.s.withState(func(st *state) error {
		delete(st.suppliers, id)
		return nil
	})
}

type liveUserRepo struct{ s *Store }

func (r *liveUserRepo) Create(user *entity.User) error {
	return r.s.withState(func(st *state) error {
		st.users[user.ID] = copyUser(user)
		return nil
	})
}
func (r *liveUserRepo) GetByID(id string) (u *entity.User, err error) {
	err = r.s.withState(func(st *state) error {
		if usr, ok := st.users[id]; ok {
			u = copyUser(usr)
		}
		return nil
	})
	return
}
func (r *liveUserRepo) FindByEmail(email string) (u *entity.User, err error) {
	err = r.s.withState(func(st *state) error {
		for _, usr := range st.users {
			if usr.Email == email {
				u = copyUser(usr)
				return nil
			}
		}
		return nil
	})
	return
}

// ── Operaciones sobre un estado ──────────────────────────────────────────────

func getItem(st *state, id string) (*entity.InventoryItem, error) {
	it, ok := st.items[id]
	if !ok {
		return nil, nil
	}
	return copyItem(it), nil
}

func upsertItem(st *state, item *entity.InventoryItem) error {
	st.items[item.ID] = copyItem(item)
	return nil
}

func updateQuantity(st *state, id string, quantity int64) error {
	it, ok := st.items[id]
	if !ok {
		return fmt.Errorf("update quantity: artículo %s no existe", id)
	}
	if quantity < 0 {
		return fmt.Errorf("update quantity: cantidad negativa para %s", id)
	}
	it.Quantity = quantity
	return nil
}

func listItems(st *state) ([]*entity.InventoryItem, error) {
	list := make([]*entity.InventoryItem, 0, len(st.items))
	for _, it := range st.items {
		list = append(list, copyItem(it))
	}
	return list, nil
}

func deleteItem(st *state, id string) error {
	delete(st.items, id)
	// El historial queda huérfano a propósito, igual que el sistema original.
	return nil
}

func appendRecord(st *state, record *entity.HistoryRecord) error {
	st.history[record.ItemID] = append(st.history[record.ItemID], copyRecord(record))
	return nil
}

func listHistory(st *state, itemID string) ([]*entity.HistoryRecord, error) {
	recs := st.history[itemID]
	// Más reciente primero: inserción fue cronológica.
	out := make([]*entity.HistoryRecord, 0, len(recs))
	for i := len(recs) - 1; i >= 0; i-- {
		out = append(out, copyRecord(recs[i]))
	}
	return out, nil
}

func createOrder(st *state, order *entity.Order) error {
	if _, ok := st.orders[order.ID]; ok {
		return fmt.Errorf("insert order: id duplicado")
	}
	st.orders[order.ID] = copyOrder(order)
	return nil
}

func getOrder(st *state, id string) (*entity.Order, error) {
	o, ok := st.orders[id]
	if !ok {
		return nil, nil
	}
	return copyOrder(o), nil
}

func listOrders(st *state, status entity.OrderStatus) ([]*entity.Order, error) {
	list := make([]*entity.Order, 0, len(st.orders))
	for _, o := range st.orders {
		if status != "" && o.Status != status {
			continue
		}
		list = append(list, copyOrder(o))
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Timestamp.After(list[j].Timestamp) })
	return list, nil
}

func markCompleted(st *state, id string, completedAt time.Time) error {
	o, ok := st.orders[id]
	if !ok {
		return fmt.Errorf("mark order completed: el pedido no existe")
	}
	if o.Status != entity.OrderStatusProcessing {
		return fmt.Errorf("mark order completed: el pedido no está en processing")
	}
	o.Status = entity.OrderStatusCompleted
	ts := completedAt
	o.CompletedAt = &ts
	return nil
}

func deleteOrder(st *state, id string) error {
	delete(st.orders, id)
	return nil
}

// ── Copias profundas ─────────────────────────────────────────────────────────

func copyItem(it *entity.InventoryItem) *entity.InventoryItem {
	c := *it
	if it.MinStockAlert != nil {
		v := *it.MinStockAlert
		c.MinStockAlert = &v
	}
	if it.SupplierID != nil {
		v := *it.SupplierID
		c.SupplierID = &v
	}
	return &c
}

func copyRecord(r *entity.HistoryRecord) *entity.HistoryRecord {
	c := *r
	if r.QuantityChange != nil {
		v := *r.QuantityChange
		c.QuantityChange = &v
	}
	return &c
}

func copyOrder(o *entity.Order) *entity.Order {
	c := *o
	if o.CompletedAt != nil {
		v := *o.CompletedAt
		c.CompletedAt = &v
	}
	c.LineEntries = append([]entity.LineEntry(nil), o.LineEntries...)
	return &c
}

func copySupplier(s *entity.Supplier) *entity.Supplier {
	c := *s
	return &c
}

func copyUser(u *entity.User) *entity.User {
	c := *u
	return &c
}
