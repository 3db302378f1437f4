package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/handler"

	"github.com/segmentio/kafka-go"
)

func main() {
	brokers := flag.String("brokers", "localhost:9092", "comma separated kafka brokers")
	topic := flag.String("topic", "inventory-restock", "restock topic")
	products := flag.String("products", "", "comma separated product ids to restock")
	every := flag.Duration("every", 2*time.Second, "interval between messages")
	flag.Parse()

	ids := strings.Split(*products, ",")
	if *products == "" {
		log.Fatal("at least one product id is required")
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(strings.Split(*brokers, ",")...),
		Topic:    *topic,
		Balancer: &kafka.Hash{},
	}
	defer writer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	ticker := time.NewTicker(*every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			msg := handler.RestockMessage{
				ProductID: ids[rand.Intn(len(ids))],
				Quantity:  rand.Intn(5) + 1,
			}
			// lands in the dead letter queue
			if rand.Intn(10) == 0 {
				msg.Quantity = 0
			}
			data, _ := json.Marshal(msg)
			if err := writer.WriteMessages(ctx, kafka.Message{Key: []byte(msg.ProductID), Value: data}); err != nil {
				log.Println("failed to write restock:", err)
				continue
			}
			log.Println("restock sent", msg.ProductID, msg.Quantity)
		case <-ctx.Done():
			return
		}
	}
}
