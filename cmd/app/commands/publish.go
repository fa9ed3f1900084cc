package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Publisher adds a message to the processing stream.
type Publisher interface {
	Publish(ctx context.Context, payload []byte) (string, error)
}

// RunPublish publishes one message payload onto the processing stream and
// prints the assigned entry ID. The payload is passed through verbatim;
// validation happens in the pipeline, not here.
func RunPublish(
	ctx context.Context,
	publisher Publisher,
	logger *slog.Logger,
	w io.Writer,
	payload []byte,
) error {
	if len(payload) == 0 {
		return fmt.Errorf("payload cannot be empty")
	}

	id, err := publisher.Publish(ctx, payload)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	logger.Info("message published", slog.String("entry_id", id))
	fmt.Fprintf(w, "Published message with entry ID %s\n", id)
	return nil
}
