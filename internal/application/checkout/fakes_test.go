package checkout_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bookstore-api/internal/application/checkout"
	"github.com/jhoicas/bookstore-api/internal/domain"
	"github.com/jhoicas/bookstore-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria con semántica transaccional
// ──────────────────────────────────────────────────────────────────────────────

// memStore guarda valores (no punteros) para que snapshot/restore emulen un rollback real.
type memStore struct {
	mu        sync.Mutex
	users     map[string]entity.User
	books     map[string]entity.Book
	orders    map[string]entity.Order
	details   []entity.OrderDetail
	payments  map[string]entity.Payment // por OrderID
	carts     map[string]int            // ítems en carrito por UserID
	inventory []entity.InventoryTransaction

	failPayment error // si no es nil, PaymentRepository.Create falla
}

type snapshot struct {
	books     map[string]entity.Book
	orders    map[string]entity.Order
	details   []entity.OrderDetail
	payments  map[string]entity.Payment
	carts     map[string]int
	inventory []entity.InventoryTransaction
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]entity.User{},
		books:    map[string]entity.Book{},
		orders:   map[string]entity.Order{},
		payments: map[string]entity.Payment{},
		carts:    map[string]int{},
	}
}

func (s *memStore) snapshot() snapshot {
	return snapshot{
		books:     copyMap(s.books),
		orders:    copyMap(s.orders),
		details:   append([]entity.OrderDetail(nil), s.details...),
		payments:  copyMap(s.payments),
		carts:     copyMap(s.carts),
		inventory: append([]entity.InventoryTransaction(nil), s.inventory...),
	}
}

func (s *memStore) restore(snap snapshot) {
	s.books = snap.books
	s.orders = snap.orders
	s.details = snap.details
	s.payments = snap.payments
	s.carts = snap.carts
	s.inventory = snap.inventory
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) addUser(id string) {
	s.users[id] = entity.User{ID: id, Username: "u-" + id, Role: entity.RoleCustomer, Status: entity.UserStatusActive}
}

func (s *memStore) addBook(id, title, price string, stock int) {
	s.books[id] = entity.Book{ID: id, Title: title, Price: decimal.RequireFromString(price), StockQuantity: stock}
}

func (s *memStore) addOrder(id, userID, status string) {
	s.orders[id] = entity.Order{
		ID: id, UserID: userID, Status: status,
		TotalAmount: decimal.Zero, OrderDate: time.Now(), UpdatedAt: time.Now(),
	}
}

func (s *memStore) addDetail(orderID, bookID string, qty int, price string) {
	s.details = append(s.details, entity.OrderDetail{
		ID: orderID + "-" + bookID, OrderID: orderID, BookID: bookID,
		Quantity: qty, PriceAtOrder: decimal.RequireFromString(price),
	})
}

func (s *memStore) stock(bookID string) int { return s.books[bookID].StockQuantity }

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios
// ──────────────────────────────────────────────────────────────────────────────

type fakeUserRepo struct{ s *memStore }

func (r fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.users[u.ID] = *u
	return nil
}
func (r fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}
func (r fakeUserRepo) GetByUsername(context.Context, string) (*entity.User, error) { return nil, nil }
func (r fakeUserRepo) GetByEmail(context.Context, string) (*entity.User, error)    { return nil, nil }
func (r fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.users[u.ID] = *u
	return nil
}
func (r fakeUserRepo) List(context.Context, int, int) ([]*entity.User, error) { return nil, nil }
func (r fakeUserRepo) Count(context.Context) (int64, error)                  { return int64(len(r.s.users)), nil }

type fakeBookRepo struct{ s *memStore }

func (r fakeBookRepo) GetByID(_ context.Context, id string) (*entity.Book, error) {
	b, ok := r.s.books[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r fakeBookRepo) DecrementStock(_ context.Context, id string, qty int) error {
	b, ok := r.s.books[id]
	if !ok {
		return domain.ErrBookNotFound
	}
	if b.StockQuantity < qty {
		return domain.ErrInsufficientStock
	}
	b.StockQuantity -= qty
	r.s.books[id] = b
	return nil
}

type fakeOrderRepo struct{ s *memStore }

func (r fakeOrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.s.orders[o.ID] = *o
	return nil
}
func (r fakeOrderRepo) CreateDetail(_ context.Context, d *entity.OrderDetail) error {
	r.s.details = append(r.s.details, *d)
	return nil
}
func (r fakeOrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}
func (r fakeOrderRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}
func (r fakeOrderRepo) ListByUserID(_ context.Context, userID string) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.s.orders {
		if o.UserID == userID {
			o := o
			out = append(out, &o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderDate.After(out[j].OrderDate) })
	return out, nil
}
func (r fakeOrderRepo) ListDetailsByOrderID(_ context.Context, orderID string) ([]*entity.OrderDetail, error) {
	var out []*entity.OrderDetail
	for _, d := range r.s.details {
		if d.OrderID == orderID {
			d := d
			out = append(out, &d)
		}
	}
	return out, nil
}
func (r fakeOrderRepo) UpdateStatus(_ context.Context, id, status string, updatedAt time.Time) error {
	o, ok := r.s.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = status
	o.UpdatedAt = updatedAt
	r.s.orders[id] = o
	return nil
}

type fakePaymentRepo struct{ s *memStore }

func (r fakePaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	if r.s.failPayment != nil {
		return r.s.failPayment
	}
	r.s.payments[p.OrderID] = *p
	return nil
}
func (r fakePaymentRepo) GetByOrderID(_ context.Context, orderID string) (*entity.Payment, error) {
	p, ok := r.s.payments[orderID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

type fakeCartRepo struct{ s *memStore }

func (r fakeCartRepo) ClearByUserID(_ context.Context, userID string) error {
	delete(r.s.carts, userID)
	return nil
}

type fakeInventoryRepo struct{ s *memStore }

func (r fakeInventoryRepo) Create(_ context.Context, t *entity.InventoryTransaction) error {
	r.s.inventory = append(r.s.inventory, *t)
	return nil
}
func (r fakeInventoryRepo) ListByOrderID(_ context.Context, orderID string) ([]*entity.InventoryTransaction, error) {
	var out []*entity.InventoryTransaction
	for _, t := range r.s.inventory {
		if t.OrderID == orderID {
			t := t
			out = append(out, &t)
		}
	}
	return out, nil
}

// fakeTxRunner restaura el snapshot si fn falla (rollback).
type fakeTxRunner struct{ s *memStore }

func (r fakeTxRunner) RunCheckout(_ context.Context, fn func(repos checkout.TxRepos) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	snap := r.s.snapshot()
	err := fn(checkout.TxRepos{
		Orders:    fakeOrderRepo{r.s},
		Payments:  fakePaymentRepo{r.s},
		Carts:     fakeCartRepo{r.s},
		Books:     fakeBookRepo{r.s},
		Inventory: fakeInventoryRepo{r.s},
	})
	if err != nil {
		r.s.restore(snap)
	}
	return err
}

// ──────────────────────────────────────────────────────────────────────────────
// Colaboradores de salida
// ──────────────────────────────────────────────────────────────────────────────

type publishedEvent struct {
	Type string
	Key  string
}

type fakePublisher struct {
	events []publishedEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, eventType, key string, _ any) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{Type: eventType, Key: key})
	return nil
}
func (p *fakePublisher) Close() error { return nil }

type fakeIdempotency struct{ keys map[string]bool }

func newFakeIdempotency() *fakeIdempotency { return &fakeIdempotency{keys: map[string]bool{}} }

func (f *fakeIdempotency) Reserve(_ context.Context, key string) (bool, error) {
	if f.keys[key] {
		return false, nil
	}
	f.keys[key] = true
	return true, nil
}
func (f *fakeIdempotency) Release(_ context.Context, key string) error {
	delete(f.keys, key)
	return nil
}

type fakeMetrics struct {
	completed int
	failed    map[string]int
	cancelled int
	changed   map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{failed: map[string]int{}, changed: map[string]int{}}
}

func (m *fakeMetrics) CheckoutCompleted(time.Duration)  { m.completed++ }
func (m *fakeMetrics) CheckoutFailed(reason string)     { m.failed[reason]++ }
func (m *fakeMetrics) OrderCancelled()                  { m.cancelled++ }
func (m *fakeMetrics) OrderStatusChanged(status string) { m.changed[status]++ }

var errBoom = errors.New("boom")
