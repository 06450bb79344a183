// Fires concurrent orders for a small shared product set against a
// running instance. Useful for watching stock contention: totals of
// accepted orders plus the remaining stock must add up, and no request
// may oversell.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

type orderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type orderRequest struct {
	Items []orderItem `json:"items"`
}

type product struct {
	ID        string `json:"id"`
	Available int    `json:"available"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "service base url")
	workers := flag.Int("workers", 16, "concurrent buyers")
	orders := flag.Int("orders", 200, "orders to attempt")
	maxQty := flag.Int("max-qty", 3, "max quantity per line")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	products, err := fetchProducts(ctx, *baseURL)
	if err != nil {
		log.Fatalf("failed to fetch products: %v", err)
	}
	if len(products) == 0 {
		log.Fatal("no products to order, seed the catalog first")
	}
	log.Printf("ordering against %d products with %d workers", len(products), *workers)

	var placed, rejected, failed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(*workers)

	start := time.Now()
	for i := 0; i < *orders; i++ {
		g.Go(func() error {
			status, err := placeOrder(ctx, *baseURL, randomOrder(products, *maxQty))
			switch {
			case err != nil:
				failed.Add(1)
				log.Printf("request error: %v", err)
			case status == http.StatusCreated:
				placed.Add(1)
			case status == http.StatusConflict:
				rejected.Add(1)
			default:
				failed.Add(1)
				log.Printf("unexpected status %d", status)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("run aborted: %v", err)
	}

	log.Printf("done in %s: placed=%d rejected=%d failed=%d",
		time.Since(start).Round(time.Millisecond), placed.Load(), rejected.Load(), failed.Load())
}

func fetchProducts(ctx context.Context, baseURL string) ([]product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/products", nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var products []product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, err
	}
	return products, nil
}

func randomOrder(products []product, maxQty int) orderRequest {
	// one or two lines, occasionally the same popular product to force
	// contention on its row
	lines := 1 + rand.Intn(2)
	items := make([]orderItem, 0, lines)
	for i := 0; i < lines; i++ {
		p := products[rand.Intn(len(products))]
		if rand.Intn(3) == 0 {
			p = products[0]
		}
		items = append(items, orderItem{ProductID: p.ID, Quantity: 1 + rand.Intn(maxQty)})
	}
	return orderRequest{Items: items}
}

func placeOrder(ctx context.Context, baseURL string, order orderRequest) (int, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", randomUserID())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

func randomUserID() string {
	const hex = "0123456789abcdef"
	var b strings.Builder
	for _, n := range []int{8, 4, 4, 4, 12} {
		if b.Len() > 0 {
			b.WriteByte('-')
		}
		for j := 0; j < n; j++ {
			b.WriteByte(hex[rand.Intn(len(hex))])
		}
	}
	return b.String()
}
