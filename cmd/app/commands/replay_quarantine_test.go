package commands

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/matchpipe/internal/broker"
)

type mockQuarantineReplayer struct {
	mock.Mock
}

func (m *mockQuarantineReplayer) ListQuarantined(ctx context.Context, limit, offset int) ([]broker.QuarantinedMessage, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]broker.QuarantinedMessage), args.Error(1)
}

func (m *mockQuarantineReplayer) ReplayQuarantined(ctx context.Context, id string) (*broker.QuarantinedMessage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*broker.QuarantinedMessage), args.Error(1)
}

func TestRunReplayQuarantine(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("single-entry", func(t *testing.T) {
		store := &mockQuarantineReplayer{}
		store.On("ReplayQuarantined", ctx, "1700000000000-0").
			Return(&broker.QuarantinedMessage{ID: "1700000000000-0", Key: "key-1"}, nil)

		var out bytes.Buffer
		err := RunReplayQuarantine(ctx, store, logger, &out, "1700000000000-0", false)

		require.NoError(t, err)
		require.Contains(t, out.String(), "Replayed 1 quarantined message")
		store.AssertExpectations(t)
	})

	t.Run("all-entries", func(t *testing.T) {
		store := &mockQuarantineReplayer{}
		store.On("ListQuarantined", ctx, replayBatchSize, 0).
			Return([]broker.QuarantinedMessage{{ID: "a-0"}, {ID: "b-0"}}, nil).Once()
		store.On("ListQuarantined", ctx, replayBatchSize, 0).
			Return([]broker.QuarantinedMessage{}, nil).Once()
		store.On("ReplayQuarantined", ctx, "a-0").Return(&broker.QuarantinedMessage{ID: "a-0"}, nil)
		store.On("ReplayQuarantined", ctx, "b-0").Return(&broker.QuarantinedMessage{ID: "b-0"}, nil)

		var out bytes.Buffer
		err := RunReplayQuarantine(ctx, store, logger, &out, "", true)

		require.NoError(t, err)
		require.Contains(t, out.String(), "Replayed 2 quarantined message(s)")
		store.AssertExpectations(t)
	})

	t.Run("missing-arguments", func(t *testing.T) {
		store := &mockQuarantineReplayer{}
		err := RunReplayQuarantine(ctx, store, logger, &bytes.Buffer{}, "", false)

		require.Error(t, err)
		require.Contains(t, err.Error(), "either --id or --all is required")
	})

	t.Run("conflicting-arguments", func(t *testing.T) {
		store := &mockQuarantineReplayer{}
		err := RunReplayQuarantine(ctx, store, logger, &bytes.Buffer{}, "a-0", true)

		require.Error(t, err)
		require.Contains(t, err.Error(), "mutually exclusive")
	})

	t.Run("replay-error", func(t *testing.T) {
		store := &mockQuarantineReplayer{}
		store.On("ReplayQuarantined", ctx, "a-0").Return(nil, errors.New("entry not found"))

		err := RunReplayQuarantine(ctx, store, logger, &bytes.Buffer{}, "a-0", false)

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to replay quarantined message a-0")
		store.AssertExpectations(t)
	})
}
