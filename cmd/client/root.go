package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/MKhiriev/go-field-sync/internal/client"
	"github.com/MKhiriev/go-field-sync/internal/config"
	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/spf13/cobra"
)

// appFactory opens the client runtime for one command.
type appFactory func(ctx context.Context) (client.Client, error)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "field-sync",
		Short:         "Offline-first field service sync client",
		Version:       buildInfo(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := config.NewFlags(cmd.PersistentFlags())
	open := func(ctx context.Context) (client.Client, error) {
		cfg, err := config.GetClientConfig(flags.Config())
		if err != nil {
			return nil, fmt.Errorf("error getting configs: %w", err)
		}

		log := logger.NewClientLogger("field-sync-client", cfg.App.LogFile)
		if err = logger.SetLevel(cfg.App.LogLevel); err != nil {
			return nil, err
		}

		return client.NewApp(log.WithContext(ctx), cfg, log)
	}

	cmd.AddCommand(
		newRunCommand(open),
		newSyncCommand(open),
		newCreateCommand(open),
		newUpdateCommand(open),
		newArchiveCommand(open),
		newQueueCommand(open),
		newPingCommand(open),
	)

	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
