package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/pitchside/matchpipe/internal/status"
)

// StatusGetter reads per-message status records.
type StatusGetter interface {
	Get(ctx context.Context, key string) (*status.Record, error)
}

// RunStatus prints the processing status of a message identified by its
// idempotency key. Supports text and JSON output formats.
func RunStatus(
	ctx context.Context,
	store StatusGetter,
	logger *slog.Logger,
	w io.Writer,
	key string,
	format string,
) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	record, err := store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to get status for key %s: %w", key, err)
	}

	if format == "json" {
		return outputStatusJSON(w, record)
	}
	outputStatusText(w, record)
	return nil
}

// outputStatusText outputs the record in human-readable text format.
func outputStatusText(w io.Writer, record *status.Record) {
	fmt.Fprintf(w, "Key:        %s\n", record.Key)
	fmt.Fprintf(w, "State:      %s\n", record.State)
	fmt.Fprintf(w, "Attempts:   %d\n", record.Attempts)
	if record.LastError != "" {
		fmt.Fprintf(w, "Last error: %s\n", record.LastError)
	}
	fmt.Fprintf(w, "First seen: %s\n", record.FirstSeenAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Updated:    %s\n", record.UpdatedAt.Format("2006-01-02 15:04:05 MST"))
}

// outputStatusJSON outputs the record in JSON format for machine consumption.
func outputStatusJSON(w io.Writer, record *status.Record) error {
	jsonBytes, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(jsonBytes))
	return nil
}
