package utils

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	// Jitter spreads each delay by up to this fraction, e.g. 0.2 for ±20%.
	Jitter float64
}

var DefaultRetryConfig = RetryConfig{
	InitialDelay: 50 * time.Millisecond,
	MaxDelay:     time.Second,
	MaxAttempts:  3,
	Multiplier:   2,
	Jitter:       0.2,
}

// Retry calls fn with exponential backoff until it succeeds, attempts run out,
// ctx is done, or fn returns an error matching one of stop.
func Retry(ctx context.Context, cfg RetryConfig, fn func() error, stop ...error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Multiplier <= 1 {
		cfg.Multiplier = 2.0
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = 100 * time.Millisecond
	}

	delay := cfg.InitialDelay
	var err error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if isStop(err, stop) || attempt == cfg.MaxAttempts {
			return err
		}

		timer := time.NewTimer(jittered(delay, cfg.Jitter))
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(err, ctx.Err())
		case <-timer.C:
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}
	return err
}

func isStop(err error, stop []error) bool {
	for _, s := range stop {
		if errors.Is(err, s) {
			return true
		}
	}
	return false
}

func jittered(d time.Duration, fraction float64) time.Duration {
	if fraction <= 0 {
		return d
	}
	spread := float64(d) * fraction
	return time.Duration(float64(d) - spread + rand.Float64()*2*spread)
}
