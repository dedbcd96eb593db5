package common

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/Veraticus/gradebook/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserError(t *testing.T) {
	inner := fmt.Errorf("%w: item 99", ErrNotFound)
	err := NewUserError("That item is not in the catalog", inner)

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "That item is not in the catalog", UserMessage(err))
	assert.Contains(t, err.Error(), "item 99")
	assert.Equal(t, "plain", UserMessage(errors.New("plain")))
}

func TestErrorKinds(t *testing.T) {
	assert.True(t, errors.Is(ErrEmptyGradebook, ErrValidation))
	assert.True(t, errors.Is(ErrInvalidRule, ErrValidation))
	assert.True(t, errors.Is(ErrNoGroups, ErrValidation))
	assert.False(t, errors.Is(ErrConflict, ErrValidation))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "io error", err: fmt.Errorf("%w: disk full", ErrIO), want: true},
		{name: "validation error", err: ErrInvalidRule, want: false},
		{name: "explicit retryable", err: &RetryableError{Err: errors.New("x"), Retryable: true}, want: true},
		{name: "explicit not retryable", err: &RetryableError{Err: ErrIO, Retryable: false}, want: false},
		{name: "canceled", err: context.Canceled, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestWithRetry(t *testing.T) {
	opts := service.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}

	t.Run("succeeds after transient io failures", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return fmt.Errorf("%w: busy", ErrIO)
			}
			return nil
		}, opts)
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return fmt.Errorf("%w: busy", ErrIO)
		}, opts)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMaxRetries))
		assert.True(t, errors.Is(err, ErrIO))
		assert.Equal(t, 3, calls)
	})

	t.Run("does not retry validation errors", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return ErrInvalidScale
		}, opts)
		assert.ErrorIs(t, err, ErrInvalidScale)
		assert.Equal(t, 1, calls)
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, slog.LevelInfo, "json")
	require.NoError(t, err)
	logger.Info("saved", "file", "default.csv")
	assert.Contains(t, buf.String(), `"file":"default.csv"`)

	_, err = NewLogger(&buf, slog.LevelInfo, "xml")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = ParseLevel("loud")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
