// Package cart is the client-local cart: a value object owned by one
// profile, written through to durable local storage on every mutation and
// never shared with the server. Prices on its lines are snapshots taken at
// add-to-cart time; checkout re-validates against the live catalog.
package cart

import (
	"storefront/models"
)

// Line is one product/quantity pairing held before purchase.
type Line struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

type Cart struct {
	store Store
	lines []Line
}

// Load reads the persisted lines from the store. A store with nothing saved
// yields an empty cart.
func Load(store Store) (*Cart, error) {
	lines, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &Cart{store: store, lines: lines}, nil
}

// AddItem merges quantity into an existing line for the product or appends a
// new line snapshotting the product's current name, price and image.
func (c *Cart) AddItem(product models.Product, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	for i := range c.lines {
		if c.lines[i].ProductID == product.ID.Hex() {
			c.lines[i].Quantity += quantity
			return c.store.Save(c.lines)
		}
	}

	c.lines = append(c.lines, Line{
		ProductID: product.ID.Hex(),
		Name:      product.Name,
		Price:     product.Price,
		Image:     product.Image,
		Quantity:  quantity,
	})
	return c.store.Save(c.lines)
}

// RemoveItem deletes the line for the product; removing an absent product is
// a no-op.
func (c *Cart) RemoveItem(productID string) error {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return c.store.Save(c.lines)
		}
	}
	return nil
}

// UpdateQuantity sets the line's quantity; zero or below removes the line.
// No stock clamp here: checkout-time validation is the authority.
func (c *Cart) UpdateQuantity(productID string, quantity int) error {
	if quantity <= 0 {
		return c.RemoveItem(productID)
	}
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity = quantity
			return c.store.Save(c.lines)
		}
	}
	return nil
}

// Clear empties the cart.
func (c *Cart) Clear() error {
	c.lines = nil
	return c.store.Save(c.lines)
}

// TotalPrice sums price x quantity over the snapshot prices on the lines.
func (c *Cart) TotalPrice() float64 {
	var total float64
	for _, line := range c.lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

// Lines returns a copy of the current lines.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}
