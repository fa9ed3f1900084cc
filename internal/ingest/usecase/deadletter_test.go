package usecase

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/matchpipe/internal/broker"
	apperrors "github.com/pitchside/matchpipe/internal/errors"
	"github.com/pitchside/matchpipe/internal/ingest/domain"
	"github.com/pitchside/matchpipe/internal/ingest/usecase/mocks"
)

func TestDeadLetterRouter_Quarantine(t *testing.T) {
	ctx := context.Background()
	delivery := broker.Delivery{ID: "1700000000000-0", Payload: []byte(`{}`)}

	t.Run("Success", func(t *testing.T) {
		mockQueue := mocks.NewMockQueue(t)
		mockQueue.EXPECT().
			Quarantine(mock.Anything, delivery, "key-1", "teams_distinct", "same team").
			Return("q-1", nil).
			Once()

		router := NewDeadLetterRouter(mockQueue, slog.New(slog.DiscardHandler))
		id, err := router.Quarantine(ctx, delivery, "key-1", "teams_distinct", "same team")

		require.NoError(t, err)
		assert.Equal(t, "q-1", id)
	})

	t.Run("RetriesThenSucceeds", func(t *testing.T) {
		mockQueue := mocks.NewMockQueue(t)
		mockQueue.EXPECT().
			Quarantine(mock.Anything, delivery, "key-1", "max_retries_exceeded", "timeout").
			Return("", apperrors.New("connection refused")).
			Twice()
		mockQueue.EXPECT().
			Quarantine(mock.Anything, delivery, "key-1", "max_retries_exceeded", "timeout").
			Return("q-2", nil).
			Once()

		router := NewDeadLetterRouter(mockQueue, slog.New(slog.DiscardHandler))
		id, err := router.Quarantine(ctx, delivery, "key-1", "max_retries_exceeded", "timeout")

		require.NoError(t, err)
		assert.Equal(t, "q-2", id)
	})

	t.Run("ExhaustedRetriesReturnQuarantineError", func(t *testing.T) {
		mockQueue := mocks.NewMockQueue(t)
		mockQueue.EXPECT().
			Quarantine(mock.Anything, delivery, "key-1", "decode_error", "bad json").
			Return("", apperrors.New("connection refused")).
			Times(3)

		router := NewDeadLetterRouter(mockQueue, slog.New(slog.DiscardHandler))
		_, err := router.Quarantine(ctx, delivery, "key-1", "decode_error", "bad json")

		require.Error(t, err)
		var quarantineErr *domain.QuarantineError
		require.ErrorAs(t, err, &quarantineErr)
	})

	t.Run("ContextCancelledBetweenRetries", func(t *testing.T) {
		cancelCtx, cancel := context.WithCancel(ctx)

		mockQueue := mocks.NewMockQueue(t)
		mockQueue.EXPECT().
			Quarantine(mock.Anything, delivery, "key-1", "decode_error", "bad json").
			Run(func(ctx context.Context, delivery broker.Delivery, key, reason, lastError string) {
				cancel()
			}).
			Return("", apperrors.New("connection refused")).
			Once()

		router := NewDeadLetterRouter(mockQueue, slog.New(slog.DiscardHandler))

		start := time.Now()
		_, err := router.Quarantine(cancelCtx, delivery, "key-1", "decode_error", "bad json")

		require.Error(t, err)
		var quarantineErr *domain.QuarantineError
		require.ErrorAs(t, err, &quarantineErr)
		assert.ErrorIs(t, quarantineErr.Err, context.Canceled)
		assert.Less(t, time.Since(start), time.Second)
	})
}
