// Command uploader bulk-loads products from a JSON file through the admin
// API. The file is an array of products; image is a path or URL reference,
// stored as-is.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"storefront/client"
	"storefront/config"
	"storefront/models"
)

func main() {
	file := flag.String("file", "products.json", "path to the products JSON file")
	flag.Parse()

	config.LoadEnv()

	email := config.GetEnv("ADMIN_EMAIL", "")
	password := config.GetEnv("ADMIN_PASSWORD", "")
	if email == "" || password == "" {
		fmt.Fprintln(os.Stderr, "ADMIN_EMAIL and ADMIN_PASSWORD must be set")
		os.Exit(1)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		fmt.Fprintln(os.Stderr, "error: failed to parse products file:", err)
		os.Exit(1)
	}

	ctx := context.Background()
	c := client.New(config.GetEnv("STOREFRONT_API", "http://localhost:8080"))
	if _, err := c.Login(ctx, email, password); err != nil {
		fmt.Fprintln(os.Stderr, "login failed:", err)
		os.Exit(1)
	}

	failed := 0
	for _, product := range products {
		created, err := c.CreateProduct(ctx, product)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "error uploading %s: %v\n", product.Name, err)
			continue
		}
		fmt.Printf("uploaded: %s - ID: %s\n", created.Name, created.ID.Hex())
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d products failed\n", failed, len(products))
		os.Exit(1)
	}
}
