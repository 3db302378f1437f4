package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/config"
	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/entities"
)

type ExpiredOrderFinder interface {
	ListExpiredUnpaid(ctx context.Context, method entities.PaymentMethod, before time.Time, limit int) ([]entities.Order, error)
}

type OrderCanceller interface {
	Transition(ctx context.Context, orderID string, actor entities.Actor, next entities.OrderStatus) (entities.Order, error)
}

// Sweeper cancels online-payment orders left unpaid past the deadline.
// Cash on delivery orders are never swept.
type Sweeper struct {
	logger    *slog.Logger
	finder    ExpiredOrderFinder
	canceller OrderCanceller
	interval  time.Duration
	deadline  time.Duration
	batchSize int
	now       func() time.Time
}

func NewSweeper(logger *slog.Logger, cfg config.Sweeper, finder ExpiredOrderFinder, canceller OrderCanceller) *Sweeper {
	return &Sweeper{
		logger:    logger.With(slog.String("worker", "sweeper")),
		finder:    finder,
		canceller: canceller,
		interval:  cfg.Interval,
		deadline:  cfg.Deadline,
		batchSize: cfg.BatchSize,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Sweeper) Run(ctx context.Context) error {
	s.logger.Info("sweeper started", slog.Duration("interval", s.interval), slog.Duration("deadline", s.deadline))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
			s.logger.Error("sweep failed", slog.Any("error", err))
		}

		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Sweep runs one pass and returns how many orders were cancelled. A failure
// on one order does not stop the pass: the pass keeps paging past orders it
// already tried until the store runs out of expired orders.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	before := s.now().Add(-s.deadline)

	attempted := make(map[string]struct{})
	cancelled, failed := 0, 0
	for {
		// Failed orders stay expired and come back at the head of every page.
		limit := s.batchSize + failed
		orders, err := s.finder.ListExpiredUnpaid(ctx, entities.MethodMomo, before, limit)
		if err != nil {
			return cancelled, err
		}

		fresh := 0
		for _, o := range orders {
			if _, ok := attempted[o.ID]; ok {
				continue
			}
			attempted[o.ID] = struct{}{}
			fresh++

			if ctx.Err() != nil {
				return cancelled, ctx.Err()
			}
			if _, err := s.canceller.Transition(ctx, o.ID, entities.SystemActor, entities.StatusCancelled); err != nil {
				failed++
				sweeperErrors.Inc()
				s.logger.Warn("failed to cancel expired order", slog.String("order_id", o.ID), slog.Any("error", err))
				continue
			}
			cancelled++
			sweeperCancelled.Inc()
		}

		if len(orders) < limit || fresh == 0 {
			break
		}
	}

	if cancelled > 0 || failed > 0 {
		s.logger.Info("sweep finished", slog.Int("cancelled", cancelled), slog.Int("failed", failed))
	}
	return cancelled, nil
}
