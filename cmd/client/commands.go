package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-field-sync/internal/client"
	"github.com/spf13/cobra"
)

// withApp opens the client, runs fn and closes the client again.
func withApp(ctx context.Context, open appFactory, fn func(client.Client) error) (err error) {
	app, err := open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, app.Close())
	}()

	return fn(app)
}

func newRunCommand(open appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Log in, sync and keep syncing in the background until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return withApp(ctx, open, func(app client.Client) error {
				return app.Run(ctx)
			})
		},
	}
}

func newSyncCommand(open appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "sync [entity]",
		Short: "Run one sync pass over every entity type or a single one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var entity string
			if len(args) == 1 {
				entity = args[0]
			}

			return withApp(cmd.Context(), open, func(app client.Client) error {
				result, err := app.Sync(cmd.Context(), entity)
				if printErr := printJSON(cmd.OutOrStdout(), result); printErr != nil {
					return errors.Join(err, printErr)
				}
				return err
			})
		},
	}
}

func newQueueCommand(open appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "queue",
		Short: "List writes waiting in the offline queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), open, func(app client.Client) error {
				return printJSON(cmd.OutOrStdout(), app.Pending())
			})
		},
	}
}

func newPingCommand(open appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), open, func(app client.Client) error {
				report := app.Ping(cmd.Context())
				fmt.Fprintln(cmd.OutOrStdout(), report.Message)
				if !report.OK {
					return errServerUnreachable
				}
				return nil
			})
		},
	}
}

var errServerUnreachable = errors.New("server is not reachable")
