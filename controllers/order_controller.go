package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/logger"
	"storefront/middleware"
	"storefront/models"
	"storefront/repository"
	"storefront/services"
)

type OrderController struct {
	orders   *services.OrderService
	products repository.ProductRepository
	users    repository.UserRepository
	log      *logger.Logger
}

func NewOrderController(orders *services.OrderService, products repository.ProductRepository, users repository.UserRepository, log *logger.Logger) *OrderController {
	return &OrderController{orders: orders, products: products, users: users, log: log}
}

type orderItemInput struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

type createOrderInput struct {
	OrderItems   []orderItemInput    `json:"orderItems"`
	ShippingInfo models.ShippingInfo `json:"shippingInfo" binding:"required"`
	// TotalPrice is accepted for wire compatibility but ignored; the total
	// is recomputed from catalog prices.
	TotalPrice float64 `json:"totalPrice"`
}

func callerID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, _ := c.Get(middleware.ContextUserID)
	idStr, _ := userID.(string)
	objID, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return objID, true
}

func (o *OrderController) Create(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
		return
	}

	var input createOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please fill in all shipping information fields."})
		return
	}
	if len(input.OrderItems) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No order items"})
		return
	}

	lines := make([]services.OrderLine, 0, len(input.OrderItems))
	for _, item := range input.OrderItems {
		objID, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product id"})
			return
		}
		lines = append(lines, services.OrderLine{
			ProductID: objID,
			Name:      item.Name,
			Quantity:  item.Quantity,
		})
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	order, err := o.orders.PlaceOrder(ctx, userID, lines, input.ShippingInfo)
	if err != nil {
		var notFound *services.ProductNotFoundError
		var outOfStock *services.InsufficientStockError
		var badQuantity *services.InvalidQuantityError
		switch {
		case errors.Is(err, services.ErrEmptyOrder):
			c.JSON(http.StatusBadRequest, gin.H{"message": "No order items"})
		case errors.As(err, &notFound):
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		case errors.As(err, &outOfStock), errors.As(err, &badQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		default:
			o.log.Error("failed to place order", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to place order"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order":   order,
		"message": "Order placed",
	})
}

// expandItems resolves each line's product reference to {name, price, image}.
// Products deleted since the order was placed are skipped, matching the
// behavior of an unresolvable populate; any other lookup failure aborts the
// expansion so a transient error cannot shrink an order.
func (o *OrderController) expandItems(ctx context.Context, items []models.OrderItem) ([]gin.H, error) {
	expanded := []gin.H{}
	for _, item := range items {
		product, err := o.products.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				continue
			}
			return nil, err
		}
		expanded = append(expanded, gin.H{
			"productId": gin.H{
				"_id":   product.ID.Hex(),
				"name":  product.Name,
				"price": product.Price,
				"image": product.Image,
			},
			"quantity": item.Quantity,
		})
	}
	return expanded, nil
}

// ListMine returns the caller's orders with product references expanded.
func (o *OrderController) ListMine(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	orders, err := o.orders.OrdersForUser(ctx, userID)
	if err != nil {
		o.log.Error("failed to list orders", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch orders"})
		return
	}

	resp := []gin.H{}
	for _, order := range orders {
		products, err := o.expandItems(ctx, order.Products)
		if err != nil {
			o.log.Error("failed to expand order products", "orderId", order.ID.Hex(), "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch orders"})
			return
		}
		resp = append(resp, gin.H{
			"_id":          order.ID.Hex(),
			"user":         order.User.Hex(),
			"products":     products,
			"shippingInfo": order.ShippingInfo,
			"totalPrice":   order.TotalPrice,
			"status":       order.Status,
			"createdAt":    order.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, resp)
}

// ListAll is the admin view: every order, with the owning user expanded to
// {name, email} alongside the product expansion.
func (o *OrderController) ListAll(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	orders, err := o.orders.AllOrders(ctx)
	if err != nil {
		o.log.Error("failed to list all orders", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch orders"})
		return
	}

	resp := []gin.H{}
	for _, order := range orders {
		var userField interface{} = order.User.Hex()
		if user, err := o.users.GetByID(ctx, order.User); err == nil {
			userField = gin.H{"name": user.Name, "email": user.Email}
		}

		products, err := o.expandItems(ctx, order.Products)
		if err != nil {
			o.log.Error("failed to expand order products", "orderId", order.ID.Hex(), "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch orders"})
			return
		}
		resp = append(resp, gin.H{
			"_id":          order.ID.Hex(),
			"user":         userField,
			"products":     products,
			"shippingInfo": order.ShippingInfo,
			"totalPrice":   order.TotalPrice,
			"status":       order.Status,
			"createdAt":    order.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, resp)
}

func (o *OrderController) UpdateStatus(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found."})
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	order, err := o.orders.UpdateStatus(ctx, objID, body.Status)
	if err != nil {
		var invalidStatus *services.InvalidStatusError
		var invalidTransition *services.InvalidTransitionError
		switch {
		case errors.As(err, &invalidStatus), errors.As(err, &invalidTransition):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		case errors.Is(err, repository.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found."})
		default:
			o.log.Error("failed to update order status", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update order status"})
		}
		return
	}

	c.JSON(http.StatusOK, order)
}
