package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/config"

	"github.com/go-playground/validator/v10"
	"github.com/segmentio/kafka-go"
)

type Restocker interface {
	Restock(ctx context.Context, productID string, quantity int) (int, error)
}

// RestockMessage is published by the warehouse when units come back in.
type RestockMessage struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaHandler struct {
	dlq       MessageWriter
	reader    MessageReader
	logger    *slog.Logger
	validate  *validator.Validate
	restocker Restocker
}

func NewKafkaHandler(logger *slog.Logger, cfg config.Kafka, restocker Restocker) *KafkaHandler {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		GroupID: cfg.GroupID,
		Topic:   cfg.RestockTopic,
		MaxWait: cfg.ReaderMaxWait,
	})
	dlq := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: cfg.BatchTimeout,
	}
	return newKafkaHandler(logger, reader, dlq, restocker)
}

func newKafkaHandler(logger *slog.Logger, reader MessageReader, dlq MessageWriter, restocker Restocker) *KafkaHandler {
	return &KafkaHandler{
		logger:    logger.With(slog.String("handler", "kafka")),
		reader:    reader,
		dlq:       dlq,
		validate:  validator.New(),
		restocker: restocker,
	}
}

// Run consumes restock messages until ctx is cancelled. Messages that cannot
// be applied are parked in the dead letter topic and committed.
func (h *KafkaHandler) Run(ctx context.Context) error {
	for {
		m, err := h.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return nil
			}
			h.logger.Error("failed to fetch message", slog.Any("error", err))
			continue
		}

		h.process(ctx, m)

		if err := h.reader.CommitMessages(ctx, m); err != nil {
			commitErrors.Inc()
			h.logger.Error("failed to commit message", slog.Any("error", err))
		}
	}
}

func (h *KafkaHandler) process(ctx context.Context, m kafka.Message) {
	start := time.Now()
	msg, err := h.decode(m)
	if err == nil {
		_, err = h.restocker.Restock(ctx, msg.ProductID, msg.Quantity)
	}
	restockDuration.Observe(time.Since(start).Seconds())

	var malformed *malformedError
	switch {
	case err == nil:
		restockMessages.WithLabelValues(outcomeApplied).Inc()
		restockUnits.Add(float64(msg.Quantity))
		h.logger.Info("stock replenished", slog.String("product_id", msg.ProductID), slog.Int("quantity", msg.Quantity))
		return
	case errors.As(err, &malformed):
		restockMessages.WithLabelValues(outcomeMalformed).Inc()
	default:
		restockMessages.WithLabelValues(outcomeRejected).Inc()
	}
	h.logger.Error("failed to handle restock message", slog.Any("error", err), slog.Int64("offset", m.Offset))

	// The writer retries on its own.
	if err := h.WriteToDLQ(ctx, m); err != nil {
		restocksDLQ.WithLabelValues("error").Inc()
		h.logger.Error("failed to write message to DLQ", slog.Any("error", err))
		return
	}
	restocksDLQ.WithLabelValues("ok").Inc()
}

type malformedError struct{ err error }

func (e *malformedError) Error() string { return e.err.Error() }
func (e *malformedError) Unwrap() error { return e.err }

func (h *KafkaHandler) decode(m kafka.Message) (RestockMessage, error) {
	var msg RestockMessage
	if err := json.Unmarshal(m.Value, &msg); err != nil {
		return msg, &malformedError{fmt.Errorf("failed to unmarshal restock message: %w", err)}
	}
	if err := h.validate.Struct(msg); err != nil {
		return msg, &malformedError{fmt.Errorf("invalid restock message: %w", err)}
	}
	return msg, nil
}

func (h *KafkaHandler) WriteToDLQ(ctx context.Context, m kafka.Message) error {
	m.Topic = fmt.Sprintf("%s-dlq", m.Topic)
	return h.dlq.WriteMessages(ctx, m)
}

func (h *KafkaHandler) Close() error {
	if err := h.reader.Close(); err != nil {
		return err
	}
	return h.dlq.Close()
}
