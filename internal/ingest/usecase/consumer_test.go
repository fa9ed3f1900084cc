package usecase

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pitchside/matchpipe/internal/broker"
	apperrors "github.com/pitchside/matchpipe/internal/errors"
	"github.com/pitchside/matchpipe/internal/ingest/domain"
	"github.com/pitchside/matchpipe/internal/ingest/usecase/mocks"
	"github.com/pitchside/matchpipe/internal/metrics"
	"github.com/pitchside/matchpipe/internal/status"
)

// stubProcessor returns a fixed result, error, or panics.
type stubProcessor struct {
	result   ProcessResult
	err      error
	panicMsg string
}

func (s *stubProcessor) Process(ctx context.Context, delivery broker.Delivery) (ProcessResult, error) {
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	return s.result, s.err
}

func newTestConsumer(
	processor MatchProcessor,
	queue Queue,
	router DeadLetterRouter,
	reporter StatusReporter,
) *Consumer {
	return NewConsumer(
		processor,
		queue,
		router,
		NewRetryPolicy(time.Millisecond, 10*time.Millisecond, 3),
		reporter,
		metrics.NewNoOpBusinessMetrics(),
		slog.New(slog.DiscardHandler),
		ConsumerConfig{Workers: 1, ProcessTimeout: time.Second},
	)
}

// runOne feeds a single delivery through the consumer and waits for the pool
// to drain.
func runOne(t *testing.T, consumer *Consumer, delivery broker.Delivery) {
	t.Helper()
	deliveries := make(chan broker.Delivery, 1)
	deliveries <- delivery
	close(deliveries)
	require.NoError(t, consumer.Run(context.Background(), deliveries))
}

func TestConsumer_Run(t *testing.T) {
	defer goleak.VerifyNone(t)

	delivery := broker.Delivery{ID: "1700000000000-0", Payload: []byte(`{}`), Attempt: 0}

	t.Run("Success_Acks", func(t *testing.T) {
		mockQueue := mocks.NewMockQueue(t)
		mockQueue.EXPECT().Ack(mock.Anything, delivery).Return(nil).Once()

		mockReporter := mocks.NewMockStatusReporter(t)
		mockReporter.EXPECT().
			Report(mock.Anything, "key-1", status.StatePersisted, 0, "").
			Return(nil).Once()

		consumer := newTestConsumer(
			&stubProcessor{result: ProcessResult{Key: "key-1", Outcome: domain.OutcomeCreated}},
			mockQueue,
			mocks.NewMockDeadLetterRouter(t),
			mockReporter,
		)
		runOne(t, consumer, delivery)
	})

	t.Run("Transient_Requeues", func(t *testing.T) {
		mockQueue := mocks.NewMockQueue(t)
		mockQueue.EXPECT().
			Requeue(mock.Anything, delivery, mock.Anything).
			Return(nil).Once()

		mockReporter := mocks.NewMockStatusReporter(t)
		mockReporter.EXPECT().
			Report(mock.Anything, "key-1", status.StateRetryScheduled, 1, "connection refused").
			Return(nil).Once()

		consumer := newTestConsumer(
			&stubProcessor{result: ProcessResult{Key: "key-1"}, err: apperrors.New("connection refused")},
			mockQueue,
			mocks.NewMockDeadLetterRouter(t),
			mockReporter,
		)
		runOne(t, consumer, delivery)
	})

	t.Run("Terminal_DeadLetters", func(t *testing.T) {
		procErr := &domain.ValidationError{Rule: domain.RuleTeamsDistinct, Reason: "same team"}

		mockRouter := mocks.NewMockDeadLetterRouter(t)
		mockRouter.EXPECT().
			Quarantine(mock.Anything, delivery, "key-1", domain.RuleTeamsDistinct, procErr.Error()).
			Return("q-1", nil).Once()

		mockReporter := mocks.NewMockStatusReporter(t)
		mockReporter.EXPECT().
			Report(mock.Anything, "key-1", status.StateInvalid, 0, procErr.Error()).
			Return(nil).Once()
		mockReporter.EXPECT().
			Report(mock.Anything, "key-1", status.StateDeadLettered, 0, procErr.Error()).
			Return(nil).Once()

		consumer := newTestConsumer(
			&stubProcessor{result: ProcessResult{Key: "key-1"}, err: procErr},
			mocks.NewMockQueue(t),
			mockRouter,
			mockReporter,
		)
		runOne(t, consumer, delivery)
	})

	t.Run("MaxAttempts_DeadLetters", func(t *testing.T) {
		lastAttempt := broker.Delivery{ID: delivery.ID, Payload: delivery.Payload, Attempt: 2}

		mockRouter := mocks.NewMockDeadLetterRouter(t)
		mockRouter.EXPECT().
			Quarantine(mock.Anything, lastAttempt, "key-1", ReasonMaxRetries, "connection refused").
			Return("q-2", nil).Once()

		mockReporter := mocks.NewMockStatusReporter(t)
		mockReporter.EXPECT().
			Report(mock.Anything, "key-1", status.StateDeadLettered, 2, "connection refused").
			Return(nil).Once()

		consumer := newTestConsumer(
			&stubProcessor{result: ProcessResult{Key: "key-1"}, err: apperrors.New("connection refused")},
			mocks.NewMockQueue(t),
			mockRouter,
			mockReporter,
		)
		runOne(t, consumer, lastAttempt)
	})

	t.Run("QuarantineFailure_LeavesDeliveryPending", func(t *testing.T) {
		procErr := &domain.DecodeError{Reason: "malformed payload"}

		// No Ack expectation: the delivery must stay pending when quarantine
		// fails.
		mockRouter := mocks.NewMockDeadLetterRouter(t)
		mockRouter.EXPECT().
			Quarantine(mock.Anything, delivery, "key-1", "decode_error", procErr.Error()).
			Return("", &domain.QuarantineError{Err: apperrors.New("redis down")}).Once()

		mockReporter := mocks.NewMockStatusReporter(t)
		mockReporter.EXPECT().
			Report(mock.Anything, "key-1", status.StateInvalid, 0, procErr.Error()).
			Return(nil).Once()

		consumer := newTestConsumer(
			&stubProcessor{result: ProcessResult{Key: "key-1"}, err: procErr},
			mocks.NewMockQueue(t),
			mockRouter,
			mockReporter,
		)
		runOne(t, consumer, delivery)
	})

	t.Run("Panic_TreatedAsTransient", func(t *testing.T) {
		mockQueue := mocks.NewMockQueue(t)
		mockQueue.EXPECT().
			Requeue(mock.Anything, delivery, mock.Anything).
			Return(nil).Once()

		mockReporter := mocks.NewMockStatusReporter(t)
		mockReporter.EXPECT().
			Report(mock.Anything, delivery.ID, status.StateRetryScheduled, 1, mock.Anything).
			Return(nil).Once()

		consumer := newTestConsumer(
			&stubProcessor{panicMsg: "boom"},
			mockQueue,
			mocks.NewMockDeadLetterRouter(t),
			mockReporter,
		)
		runOne(t, consumer, delivery)
	})

	t.Run("UndecodableKeyFallsBackToDeliveryID", func(t *testing.T) {
		procErr := &domain.DecodeError{Reason: "malformed payload"}

		mockRouter := mocks.NewMockDeadLetterRouter(t)
		mockRouter.EXPECT().
			Quarantine(mock.Anything, delivery, delivery.ID, "decode_error", procErr.Error()).
			Return("q-3", nil).Once()

		mockReporter := mocks.NewMockStatusReporter(t)
		mockReporter.EXPECT().
			Report(mock.Anything, delivery.ID, mock.Anything, 0, procErr.Error()).
			Return(nil)

		consumer := newTestConsumer(
			&stubProcessor{err: procErr},
			mocks.NewMockQueue(t),
			mockRouter,
			mockReporter,
		)
		runOne(t, consumer, delivery)
	})

	t.Run("ContextCancelStopsWorkers", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		deliveries := make(chan broker.Delivery)

		consumer := newTestConsumer(
			&stubProcessor{result: ProcessResult{Key: "key-1"}},
			mocks.NewMockQueue(t),
			mocks.NewMockDeadLetterRouter(t),
			mocks.NewMockStatusReporter(t),
		)

		done := make(chan error, 1)
		go func() { done <- consumer.Run(ctx, deliveries) }()

		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("consumer did not stop after cancellation")
		}
	})
}
