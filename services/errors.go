package services

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyOrder = errors.New("no order items")
)

// ProductNotFoundError names the offending order line the way the client
// shows it to the user.
type ProductNotFoundError struct {
	Product string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("Product %s not found", e.Product)
}

type InvalidQuantityError struct {
	Product string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("Quantity must be at least 1 for product %s", e.Product)
}

type InsufficientStockError struct {
	Product string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for product %s", e.Product)
}

type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("Invalid status value: %s", e.Status)
}

type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("Cannot change status from %s to %s", e.From, e.To)
}
