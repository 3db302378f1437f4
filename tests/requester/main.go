package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/entities"
	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/handler"
	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/middleware"

	"github.com/google/uuid"
)

// Fires concurrent buy-now orders for one product and reports how many were
// accepted. With stock N no more than N orders of quantity 1 may succeed.
func main() {
	baseURL := flag.String("url", "http://localhost:8080", "order service base url")
	secret := flag.String("secret", "", "jwt secret shared with the service")
	product := flag.String("product", "", "product id to buy")
	buyers := flag.Int("buyers", 50, "concurrent buyers")
	flag.Parse()

	if *secret == "" || *product == "" {
		log.Fatal("secret and product are required")
	}

	client := &http.Client{Timeout: 10 * time.Second}
	var accepted, rejected, failed atomic.Int64

	var wg sync.WaitGroup
	for i := 0; i < *buyers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, err := middleware.IssueToken(*secret, fmt.Sprintf("load-user-%d", i), entities.RoleCustomer, time.Hour)
			if err != nil {
				log.Fatal(err)
			}

			status, err := createOrder(client, *baseURL, token, *product)
			switch {
			case err != nil:
				failed.Add(1)
				log.Println("request failed:", err)
			case status == http.StatusCreated:
				accepted.Add(1)
			case status == http.StatusUnprocessableEntity:
				rejected.Add(1)
			default:
				failed.Add(1)
				log.Println("unexpected status:", status)
			}
		}()
	}
	wg.Wait()

	log.Printf("accepted=%d out_of_stock=%d failed=%d", accepted.Load(), rejected.Load(), failed.Load())
}

func createOrder(client *http.Client, baseURL, token, productID string) (int, error) {
	body, err := json.Marshal(handler.CreateOrderRequest{
		Source: string(entities.SourceBuyNow),
		Items:  []handler.LineItem{{ProductID: productID, Quantity: 1}},
		ShippingAddress: handler.Address{
			FullName: "Load Test",
			Phone:    "0900000000",
			Province: "HCM",
			District: "Q1",
			Ward:     "Ben Nghe",
			Street:   "1 Le Loi",
		},
		PaymentMethod: string(entities.MethodCOD),
	})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}
