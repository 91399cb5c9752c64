// Command storefront is a terminal client for the shop: browse the catalog,
// manage the local cart, check out, and (for admins) move orders through
// their lifecycle. The cart and session token live under the user's config
// directory, the way a browser profile would hold them.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"storefront/cart"
	"storefront/client"
	"storefront/config"
	"storefront/models"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: storefront <command> [args]

commands:
  register <name> <email> <password>
  login <email> <password>
  products
  add <productId> [quantity]
  cart
  set-quantity <productId> <quantity>
  remove <productId>
  checkout <address> <city> <state> <postalCode>
  orders
  all-orders                         (admin)
  set-status <orderId> <status>      (admin; pending|fulfilled|delivered|cancelled)`)
	os.Exit(2)
}

func profileDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "storefront")
}

func loadCart() (*cart.Cart, error) {
	store := cart.NewFileStore(filepath.Join(profileDir(), "cartItems.json"))
	return cart.Load(store)
}

func tokenPath() string {
	return filepath.Join(profileDir(), "token")
}

func saveToken(token string) error {
	if err := os.MkdirAll(profileDir(), 0o755); err != nil {
		return err
	}
	return os.WriteFile(tokenPath(), []byte(token), 0o600)
}

func newClient() *client.Client {
	c := client.New(config.GetEnv("STOREFRONT_API", "http://localhost:8080"))
	if data, err := os.ReadFile(tokenPath()); err == nil {
		c.SetToken(strings.TrimSpace(string(data)))
	}
	return c
}

// The admin dashboard labels the delivered state "fulfilled"; the persisted
// enum does not know that word, so map it before it reaches the API.
func normalizeStatus(status string) string {
	if status == "fulfilled" {
		return models.StatusDelivered
	}
	return status
}

func main() {
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
	}

	ctx := context.Background()
	c := newClient()

	var err error
	switch args[0] {
	case "register":
		if len(args) != 4 {
			usage()
		}
		var session *client.Session
		session, err = c.Register(ctx, args[1], args[2], args[3])
		if err == nil {
			err = saveToken(session.Token)
			fmt.Println(session.Message)
		}
	case "login":
		if len(args) != 3 {
			usage()
		}
		var session *client.Session
		session, err = c.Login(ctx, args[1], args[2])
		if err == nil {
			err = saveToken(session.Token)
			fmt.Println(session.Message)
		}
	case "products":
		var products []models.Product
		products, err = c.Products(ctx)
		for _, p := range products {
			fmt.Printf("%s  %-30s  $%.2f  stock=%d\n", p.ID.Hex(), p.Name, p.Price, p.Stock)
		}
	case "add":
		if len(args) < 2 {
			usage()
		}
		quantity := 1
		if len(args) > 2 {
			quantity, err = strconv.Atoi(args[2])
			if err != nil {
				usage()
			}
		}
		var crt *cart.Cart
		if crt, err = loadCart(); err == nil {
			err = c.AddToCart(ctx, crt, args[1], quantity)
		}
	case "cart":
		var crt *cart.Cart
		if crt, err = loadCart(); err == nil {
			for _, line := range crt.Lines() {
				fmt.Printf("%s  %-30s  $%.2f x %d\n", line.ProductID, line.Name, line.Price, line.Quantity)
			}
			fmt.Printf("total: $%.2f\n", crt.TotalPrice())
		}
	case "set-quantity":
		if len(args) != 3 {
			usage()
		}
		var quantity int
		if quantity, err = strconv.Atoi(args[2]); err != nil {
			usage()
		}
		var crt *cart.Cart
		if crt, err = loadCart(); err == nil {
			err = crt.UpdateQuantity(args[1], quantity)
		}
	case "remove":
		if len(args) != 2 {
			usage()
		}
		var crt *cart.Cart
		if crt, err = loadCart(); err == nil {
			err = crt.RemoveItem(args[1])
		}
	case "checkout":
		if len(args) != 5 {
			usage()
		}
		var crt *cart.Cart
		if crt, err = loadCart(); err == nil {
			var placed *client.PlacedOrder
			placed, err = c.Checkout(ctx, crt, models.ShippingInfo{
				Address:    args[1],
				City:       args[2],
				State:      args[3],
				PostalCode: args[4],
			})
			if err == nil {
				fmt.Printf("%s (order %s, total $%.2f)\n",
					placed.Message, placed.Order.ID.Hex(), placed.Order.TotalPrice)
			}
		}
	case "orders":
		var orders []map[string]interface{}
		if orders, err = c.MyOrders(ctx); err == nil {
			printOrders(orders)
		}
	case "all-orders":
		var orders []map[string]interface{}
		if orders, err = c.AllOrders(ctx); err == nil {
			printOrders(orders)
		}
	case "set-status":
		if len(args) != 3 {
			usage()
		}
		var order *models.Order
		order, err = c.UpdateOrderStatus(ctx, args[1], normalizeStatus(args[2]))
		if err == nil {
			fmt.Printf("order %s is now %s\n", order.ID.Hex(), order.Status)
		}
	default:
		usage()
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func printOrders(orders []map[string]interface{}) {
	for _, order := range orders {
		fmt.Printf("%v  status=%v  total=$%v\n", order["_id"], order["status"], order["totalPrice"])
	}
}
