package services

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/models"
	"storefront/repository"
)

// mockProductRepository keeps products in memory with the same conditional
// decrement semantics as the Mongo implementation. Guarded by a mutex so the
// concurrency tests exercise real contention.
type mockProductRepository struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]*models.Product
	restocks []restockCall

	getErr       error
	decrementErr error

	// afterDecrement runs after each successful decrement, outside the lock;
	// tests use it to cancel the request context mid-order.
	afterDecrement func()
}

type restockCall struct {
	productID primitive.ObjectID
	quantity  int
}

func newMockProductRepository(products ...*models.Product) *mockProductRepository {
	m := &mockProductRepository{products: map[primitive.ObjectID]*models.Product{}}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockProductRepository) List(_ context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Product{}
	for _, p := range m.products {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockProductRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockProductRepository) Create(_ context.Context, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Update(_ context.Context, id primitive.ObjectID, _ repository.ProductUpdate) (*models.Product, error) {
	return m.GetByID(context.Background(), id)
}

func (m *mockProductRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.decrementErr != nil {
		return m.decrementErr
	}
	m.mu.Lock()
	p, ok := m.products[id]
	if !ok || p.Stock < quantity {
		m.mu.Unlock()
		return repository.ErrInsufficientStock
	}
	p.Stock -= quantity
	m.mu.Unlock()

	if m.afterDecrement != nil {
		m.afterDecrement()
	}
	return nil
}

func (m *mockProductRepository) Restock(ctx context.Context, id primitive.ObjectID, quantity int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.products[id]; ok {
		p.Stock += quantity
	}
	m.restocks = append(m.restocks, restockCall{productID: id, quantity: quantity})
	return nil
}

func (m *mockProductRepository) stockOf(id primitive.ObjectID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[id].Stock
}

type mockOrderRepository struct {
	mu     sync.Mutex
	orders map[primitive.ObjectID]*models.Order

	createErr error
	// staleReads makes the next N GetByID calls report staleStatus instead
	// of the stored one, simulating a racing transition between the service's
	// read and its conditional write.
	staleReads  int
	staleStatus string
}

func newMockOrderRepository(orders ...*models.Order) *mockOrderRepository {
	m := &mockOrderRepository{orders: map[primitive.ObjectID]*models.Order{}}
	for _, o := range orders {
		m.orders[o.ID] = o
	}
	return m
}

func (m *mockOrderRepository) Create(_ context.Context, order *models.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	copied := *o
	if m.staleReads > 0 {
		m.staleReads--
		copied.Status = m.staleStatus
	}
	return &copied, nil
}

func (m *mockOrderRepository) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Order{}
	for _, o := range m.orders {
		if o.User == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOrderRepository) ListAll(_ context.Context) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Order{}
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (m *mockOrderRepository) UpdateStatus(_ context.Context, id primitive.ObjectID, from, to string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.Status != from {
		return nil, repository.ErrOrderNotFound
	}
	o.Status = to
	copied := *o
	return &copied, nil
}

func (m *mockOrderRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}
