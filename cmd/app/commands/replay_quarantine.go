package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pitchside/matchpipe/internal/broker"
)

// QuarantineReplayer lists and replays dead-lettered messages.
type QuarantineReplayer interface {
	ListQuarantined(ctx context.Context, limit, offset int) ([]broker.QuarantinedMessage, error)
	ReplayQuarantined(ctx context.Context, id string) (*broker.QuarantinedMessage, error)
}

// replayBatchSize is how many quarantine entries are fetched per page when
// replaying everything.
const replayBatchSize = 100

// RunReplayQuarantine republishes quarantined messages onto the processing
// stream with their attempt counters reset. Replays a single entry by ID, or
// every entry with all set.
func RunReplayQuarantine(
	ctx context.Context,
	store QuarantineReplayer,
	logger *slog.Logger,
	w io.Writer,
	id string,
	all bool,
) error {
	if id == "" && !all {
		return fmt.Errorf("either --id or --all is required")
	}
	if id != "" && all {
		return fmt.Errorf("--id and --all are mutually exclusive")
	}

	if id != "" {
		message, err := store.ReplayQuarantined(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to replay quarantined message %s: %w", id, err)
		}
		logger.Info("quarantined message replayed",
			slog.String("quarantine_id", id),
			slog.String("idempotency_key", message.Key),
		)
		fmt.Fprintf(w, "Replayed 1 quarantined message\n")
		return nil
	}

	// Replay newest-first pages until the quarantine stream is empty. Each
	// replay removes the entry, so the next page is always fetched from
	// offset zero.
	replayed := 0
	for {
		messages, err := store.ListQuarantined(ctx, replayBatchSize, 0)
		if err != nil {
			return fmt.Errorf("failed to list quarantined messages: %w", err)
		}
		if len(messages) == 0 {
			break
		}
		for i := range messages {
			if _, err := store.ReplayQuarantined(ctx, messages[i].ID); err != nil {
				return fmt.Errorf("failed to replay quarantined message %s: %w", messages[i].ID, err)
			}
			replayed++
		}
	}

	logger.Info("quarantine replayed", slog.Int("count", replayed))
	fmt.Fprintf(w, "Replayed %d quarantined message(s)\n", replayed)
	return nil
}
