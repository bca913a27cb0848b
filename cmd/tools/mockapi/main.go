// Command mockapi serves an in-memory store API for local development of
// the web front end.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"tienda.shop/app/internal/storeapi"
	"tienda.shop/app/internal/storeapi/storeapitest"
)

func main() {
	addr := flag.String("addr", ":5000", "Listen address")
	seed := flag.Bool("seed", true, "Seed a demo user and products")
	email := flag.String("email", "demo@tienda.com", "Demo user email")
	password := flag.String("password", "demo123", "Demo user password")
	flag.Parse()

	backend := storeapitest.New()
	if *seed {
		uid := backend.AddUser("Usuario Demo", *email, *password)
		for _, p := range demoProducts() {
			backend.AddProduct(p)
		}
		fmt.Printf("Seeded user %s (id %s) and %d products\n", *email, uid, len(backend.Products()))
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           backend.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	fmt.Printf("Mock store API listening on %s\n", *addr)
	if err := srv.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func demoProducts() []storeapi.Product {
	return []storeapi.Product{
		{Name: "Taza de cerámica", Description: "350 ml, apta para microondas", Price: decimal.RequireFromString("9.99"), Stock: 12},
		{Name: "Lámpara de escritorio", Description: "Luz cálida regulable", Price: decimal.RequireFromString("34.50"), Stock: 3},
		{Name: "Cuaderno A5", Price: decimal.RequireFromString("4.25"), Stock: 40},
		{Name: "Auriculares", Description: "Edición limitada", Price: decimal.RequireFromString("79"), Stock: 0},
	}
}
