package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/pitchside/matchpipe/cmd/app/commands"
	"github.com/pitchside/matchpipe/internal/app"
	"github.com/pitchside/matchpipe/internal/config"
)

func getPipelineCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "publish",
			Usage: "Publish a match message onto the processing stream",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "payload",
					Aliases: []string{"p"},
					Usage:   "Message payload as a JSON string",
				},
				&cli.StringFlag{
					Name:    "file",
					Aliases: []string{"f"},
					Usage:   "Read the message payload from a file ('-' for stdin)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				payload, err := resolvePayload(cmd.String("payload"), cmd.String("file"))
				if err != nil {
					return err
				}

				stream, err := container.Stream()
				if err != nil {
					return err
				}

				return commands.RunPublish(
					ctx,
					stream,
					container.Logger(),
					commands.DefaultIO().Writer,
					payload,
				)
			},
		},
		{
			Name:  "status",
			Usage: "Show the processing status of a message by idempotency key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "key",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "Idempotency key of the message",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				reporter, err := container.StatusReporter()
				if err != nil {
					return err
				}

				return commands.RunStatus(
					ctx,
					reporter,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("key"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "replay-quarantine",
			Usage: "Republish quarantined messages onto the processing stream",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "id",
					Aliases: []string{"i"},
					Usage:   "Quarantine entry ID (omit with --all to replay everything)",
				},
				&cli.BoolFlag{
					Name:    "all",
					Aliases: []string{"a"},
					Value:   false,
					Usage:   "Replay every quarantined message",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				stream, err := container.Stream()
				if err != nil {
					return err
				}

				return commands.RunReplayQuarantine(
					ctx,
					stream,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("id"),
					cmd.Bool("all"),
				)
			},
		},
	}
}

// resolvePayload picks the message payload from the --payload flag, a file,
// or stdin.
func resolvePayload(payload, file string) ([]byte, error) {
	if payload != "" && file != "" {
		return nil, fmt.Errorf("--payload and --file are mutually exclusive")
	}
	if payload != "" {
		return []byte(payload), nil
	}
	switch file {
	case "":
		return nil, fmt.Errorf("either --payload or --file is required")
	case "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read payload from stdin: %w", err)
		}
		return data, nil
	default:
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read payload file: %w", err)
		}
		return data, nil
	}
}
