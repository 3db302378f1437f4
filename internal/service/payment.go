package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/entities"
)

type CallbackVerifier interface {
	VerifyCallback(cb entities.GatewayCallback) error
}

type PaymentApplier interface {
	ApplyPaymentResult(ctx context.Context, orderID string, result entities.PaymentResult) (entities.Order, error)
}

type paymentService struct {
	logger   *slog.Logger
	verifier CallbackVerifier
	applier  PaymentApplier
}

func NewPaymentService(logger *slog.Logger, verifier CallbackVerifier, applier PaymentApplier) *paymentService {
	return &paymentService{
		logger:   logger.With(slog.String("service", "payment")),
		verifier: verifier,
		applier:  applier,
	}
}

// HandleCallback authenticates a gateway notification and applies it.
// Unauthenticated callbacks never reach order state.
func (s *paymentService) HandleCallback(ctx context.Context, cb entities.GatewayCallback) error {
	if err := s.verifier.VerifyCallback(cb); err != nil {
		reason := "invalid_signature"
		if errors.Is(err, entities.ErrMissingFields) {
			reason = "missing_fields"
		}
		paymentCallbacks.WithLabelValues(reason).Inc()
		s.logger.WarnContext(ctx, "rejected payment callback",
			slog.String("order_id", cb.OrderID), slog.String("reason", reason))
		return err
	}

	result := entities.PaymentResult{
		Success:       *cb.ResultCode == 0,
		TransactionID: strconv.FormatInt(cb.TransID, 10),
		Amount:        cb.Amount,
		Message:       cb.Message,
	}

	if _, err := s.applier.ApplyPaymentResult(ctx, cb.OrderID, result); err != nil {
		paymentCallbacks.WithLabelValues("error").Inc()
		s.logger.ErrorContext(ctx, "failed to apply payment result",
			slog.String("order_id", cb.OrderID), slog.Any("error", err))
		return err
	}

	if result.Success {
		paymentCallbacks.WithLabelValues("paid").Inc()
	} else {
		paymentCallbacks.WithLabelValues("failed").Inc()
	}
	return nil
}
