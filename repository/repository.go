package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/models"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("email already in use")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductUpdate carries the admin-editable fields; nil means "leave as is".
type ProductUpdate struct {
	Name        *string
	Description *string
	Category    *string
	Price       *float64
	Stock       *int
	Image       *string
}

type ProductRepository interface {
	List(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id primitive.ObjectID, update ProductUpdate) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error

	// DecrementStock atomically reserves quantity units, failing with
	// ErrInsufficientStock when fewer than quantity units remain.
	DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error
	// Restock returns previously reserved units, compensating a failed order.
	Restock(ctx context.Context, id primitive.ObjectID, quantity int) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	// UpdateStatus sets the order's status only while it still holds from,
	// failing with ErrOrderNotFound when no such order matches. A concurrent
	// transition therefore cannot slip past the caller's lifecycle check.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to string) (*models.Order, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	EnsureIndexes(ctx context.Context) error
}
