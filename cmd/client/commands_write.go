package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MKhiriev/go-field-sync/internal/client"
	"github.com/MKhiriev/go-field-sync/internal/service"
	"github.com/MKhiriev/go-field-sync/models"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

var errInvalidRecord = errors.New("record is not a JSON object")

const recordArgHelp = `The record is inline JSON, @path to read it from a file, or - for stdin.`

func newCreateCommand(open appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "create <entity> <json|@file|->",
		Short: "Create a record, queueing it when the server is unreachable",
		Long:  "Create a record on the server and store the accepted copy locally.\n" + recordArgHelp,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := readRecord(cmd.InOrStdin(), args[1])
			if err != nil {
				return err
			}

			return withApp(cmd.Context(), open, func(app client.Client) error {
				stored, err := app.Create(cmd.Context(), args[0], record)
				return reportWrite(cmd.OutOrStdout(), app, stored, err)
			})
		},
	}
}

func newUpdateCommand(open appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "update <entity> <id> <json|@file|->",
		Short: "Overwrite a record, queueing it when the server is unreachable",
		Long: "Overwrite a record on the server. The record must carry the updatedAt it was based on;\n" +
			"a newer server copy rejects the write with a conflict.\n" + recordArgHelp,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := readRecord(cmd.InOrStdin(), args[2])
			if err != nil {
				return err
			}

			return withApp(cmd.Context(), open, func(app client.Client) error {
				stored, err := app.Update(cmd.Context(), args[0], args[1], record)
				return reportWrite(cmd.OutOrStdout(), app, stored, err)
			})
		},
	}
}

func newArchiveCommand(open appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <entity> <id>",
		Short: "Archive a record, queueing it when the server is unreachable",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), open, func(app client.Client) error {
				err := app.Archive(cmd.Context(), args[0], args[1])
				if err == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "archived %s %s\n", args[0], args[1])
					return nil
				}
				return reportWrite(cmd.OutOrStdout(), app, models.LocalRecord{}, err)
			})
		},
	}
}

// reportWrite prints the stored record. A write that went to the offline
// queue is reported as such and is not a command failure.
func reportWrite(w io.Writer, app client.Client, stored models.LocalRecord, err error) error {
	if errors.Is(err, service.ErrQueuedOffline) {
		fmt.Fprintf(w, "server unreachable, write queued for replay (%d pending)\n", len(app.Pending()))
		return nil
	}
	if err != nil {
		return err
	}
	return printJSON(w, stored)
}

// readRecord resolves a record argument: inline JSON, @path or - for stdin.
func readRecord(stdin io.Reader, arg string) (json.RawMessage, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case arg == "-":
		data, err = io.ReadAll(stdin)
	case strings.HasPrefix(arg, "@"):
		data, err = os.ReadFile(strings.TrimPrefix(arg, "@"))
	default:
		data = []byte(arg)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading record: %w", err)
	}

	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return nil, errInvalidRecord
	}
	return json.RawMessage(strings.TrimSpace(string(data))), nil
}
