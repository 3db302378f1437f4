package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/config"
	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/entities"

	"github.com/segmentio/kafka-go"
)

type orderEventMessage struct {
	Type          string    `json:"type"`
	OrderID       string    `json:"order_id"`
	Code          string    `json:"code"`
	UserID        string    `json:"user_id"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	Total         int64     `json:"total"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher emits order lifecycle events keyed by order id, so every
// event of one order lands on the same partition.
type KafkaPublisher struct {
	w messageWriter
}

func NewKafkaPublisher(cfg config.Kafka) *KafkaPublisher {
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.EventsTopic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: cfg.BatchTimeout,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev entities.OrderEvent) error {
	value, err := json.Marshal(orderEventMessage{
		Type:          string(ev.Type),
		OrderID:       ev.OrderID,
		Code:          ev.Code,
		UserID:        ev.UserID,
		Status:        string(ev.Status),
		PaymentStatus: string(ev.PaymentStatus),
		Total:         ev.Total,
		OccurredAt:    ev.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:     []byte(ev.OrderID),
		Value:   value,
		Time:    ev.OccurredAt,
		Headers: []kafka.Header{{Key: "event_type", Value: []byte(ev.Type)}},
	})
	if err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}
