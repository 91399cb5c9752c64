package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/logger"
	"storefront/models"
	"storefront/repository"
)

// OrderLine is one proposed line of an order as submitted by the client.
// Name rides along only so error messages can name the product the way the
// customer saw it.
type OrderLine struct {
	ProductID primitive.ObjectID
	Name      string
	Quantity  int
}

type OrderService struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	log      *logger.Logger
}

func NewOrderService(products repository.ProductRepository, orders repository.OrderRepository, log *logger.Logger) *OrderService {
	return &OrderService{
		products: products,
		orders:   orders,
		log:      log,
	}
}

// PlaceOrder validates every line against live catalog stock, reserves the
// inventory all-or-nothing, and persists a pending order. The total price is
// recomputed from catalog prices; any client-submitted total is ignored.
//
// Reservation is per line via an atomic conditional decrement. When a later
// line fails, every earlier decrement of the same request is restocked before
// the error is returned, so a failed order never holds inventory.
func (s *OrderService) PlaceOrder(ctx context.Context, userID primitive.ObjectID, lines []OrderLine, shipping models.ShippingInfo) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, &InvalidQuantityError{Product: line.Name}
		}
	}

	type reserved struct {
		productID primitive.ObjectID
		quantity  int
	}

	var decremented []reserved
	rollback := func() {
		// The abort may be the request context dying; the compensating
		// restocks must still go through or the reservation leaks.
		restockCtx := context.WithoutCancel(ctx)
		for _, r := range decremented {
			if err := s.products.Restock(restockCtx, r.productID, r.quantity); err != nil {
				s.log.Error("failed to restock after aborted order",
					"productId", r.productID.Hex(), "quantity", r.quantity, "error", err)
			}
		}
	}

	items := make([]models.OrderItem, 0, len(lines))
	var total float64

	for _, line := range lines {
		product, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			rollback()
			if errors.Is(err, repository.ErrProductNotFound) {
				return nil, &ProductNotFoundError{Product: line.Name}
			}
			return nil, err
		}

		if err := s.products.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
			rollback()
			if errors.Is(err, repository.ErrInsufficientStock) {
				return nil, &InsufficientStockError{Product: product.Name}
			}
			return nil, err
		}
		decremented = append(decremented, reserved{productID: line.ProductID, quantity: line.Quantity})

		items = append(items, models.OrderItem{ProductID: line.ProductID, Quantity: line.Quantity})
		total += product.Price * float64(line.Quantity)
	}

	order := &models.Order{
		User:         userID,
		Products:     items,
		ShippingInfo: shipping,
		TotalPrice:   total,
		Status:       models.StatusPending,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		rollback()
		return nil, err
	}

	s.log.Info("order placed",
		"orderId", order.ID.Hex(), "userId", userID.Hex(),
		"lines", len(items), "total", total)
	return order, nil
}

// statusTransitions is the allowed lifecycle: pending orders can be delivered
// or cancelled, terminal states admit no further change.
var statusTransitions = map[string][]string{
	models.StatusPending:   {models.StatusDelivered, models.StatusCancelled},
	models.StatusDelivered: {},
	models.StatusCancelled: {},
}

// UpdateStatus moves an order through its status lifecycle, rejecting values
// outside the enum and transitions outside the table.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID primitive.ObjectID, status string) (*models.Order, error) {
	if !models.ValidStatus(status) {
		return nil, &InvalidStatusError{Status: status}
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, next := range statusTransitions[order.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, &InvalidTransitionError{From: order.Status, To: status}
	}

	updated, err := s.orders.UpdateStatus(ctx, orderID, order.Status, status)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			// Lost a race with another transition; re-read and report against
			// the status that actually won.
			fresh, freshErr := s.orders.GetByID(ctx, orderID)
			if freshErr != nil {
				return nil, freshErr
			}
			return nil, &InvalidTransitionError{From: fresh.Status, To: status}
		}
		return nil, err
	}

	s.log.Info("order status updated",
		"orderId", orderID.Hex(), "from", order.Status, "to", status)
	return updated, nil
}

// OrdersForUser returns the caller's own orders.
func (s *OrderService) OrdersForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// AllOrders returns every order, for the admin view.
func (s *OrderService) AllOrders(ctx context.Context) ([]models.Order, error) {
	return s.orders.ListAll(ctx)
}
