package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetry(t *testing.T) {
	errTemp := errors.New("temporary")
	errFatal := errors.New("fatal")
	cfg := RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond}

	tests := []struct {
		name      string
		results   []error
		stop      []error
		wantErr   error
		wantCalls int
	}{
		{name: "first attempt succeeds", results: []error{nil}, wantCalls: 1},
		{name: "succeeds after retry", results: []error{errTemp, nil}, wantCalls: 2},
		{name: "gives up after max attempts", results: []error{errTemp, errTemp, errTemp}, wantErr: errTemp, wantCalls: 3},
		{name: "stops on listed error", results: []error{errFatal, nil}, stop: []error{errFatal}, wantErr: errFatal, wantCalls: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), cfg, func() error {
				err := tc.results[calls]
				calls++
				return err
			}, tc.stop...)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.wantCalls, calls)
		})
	}
}

func TestRetry_ContextCancelled(t *testing.T) {
	errTemp := errors.New("temporary")
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := Retry(ctx, RetryConfig{MaxAttempts: 5, InitialDelay: time.Hour}, func() error {
		calls++
		cancel()
		return errTemp
	})

	assert.ErrorIs(t, err, errTemp)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestJittered(t *testing.T) {
	base := 100 * time.Millisecond
	assert.Equal(t, base, jittered(base, 0))
	for i := 0; i < 50; i++ {
		d := jittered(base, 0.2)
		assert.GreaterOrEqual(t, d, 80*time.Millisecond)
		assert.LessOrEqual(t, d, 120*time.Millisecond)
	}
}
