package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	httpclient "tour-backoffice/internal/common/http"
	"tour-backoffice/internal/spreadsheet"
)

const (
	defaultServer  = "http://localhost:8080"
	requestTimeout = 30 * time.Second
)

// ParseCmd prints the rows of an .xlsx or .xls workbook as JSON.
func ParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a quote schedule workbook into JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read workbook: %v", err)
			}
			rows, err := spreadsheet.Parse(data)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		},
	}
}

// RenderCmd writes JSON rows to a workbook.
func RenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <rows.json>",
		Short: "Render JSON rows into a quote schedule workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")

			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			var rows []spreadsheet.QuoteScheduleRow
			if err := json.Unmarshal(raw, &rows); err != nil {
				return fmt.Errorf("failed to decode rows: %v", err)
			}
			data, err := spreadsheet.Render(rows)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write workbook: %v", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", len(rows), output)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "Quote_Schedule.xlsx", "Workbook to write")
	return cmd
}

// PullCmd downloads the stored schedule from a running server.
func PullCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Download the stored quote schedule as a workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server, _ := cmd.Flags().GetString("server")
			output, _ := cmd.Flags().GetString("output")

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			client := httpclient.NewClient(strings.TrimRight(server, "/"), requestTimeout)
			data, err := client.Download(ctx, "/api/quote-schedule/export")
			if err != nil {
				return fmt.Errorf("failed to pull schedule: %v", err)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write workbook: %v", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", output, len(data))
			return nil
		},
	}
	cmd.Flags().String("server", defaultServer, "Back office base URL")
	cmd.Flags().StringP("output", "o", "Quote_Schedule.xlsx", "Workbook to write")
	return cmd
}

// PushCmd uploads a workbook to the server's import endpoint. With --dry-run
// the server only parses it.
func PushCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push <file>",
		Short: "Import a quote schedule workbook into the back office",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			server, _ := cmd.Flags().GetString("server")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read workbook: %v", err)
			}

			path := "/api/quote-schedule/import"
			if dryRun {
				path = "/api/quote-schedule/parse"
			}
			base := strings.TrimRight(server, "/")

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			req, err := http.NewRequest(http.MethodPost, base+path, bytes.NewReader(data))
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/octet-stream")

			client := httpclient.NewClient(base, requestTimeout)
			resp, err := client.DoWithContext(ctx, req)
			if err != nil {
				return fmt.Errorf("failed to push schedule: %v", err)
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			if resp.StatusCode >= 300 {
				return fmt.Errorf("server rejected workbook: status %d: %s", resp.StatusCode, string(body))
			}
			_, err = cmd.OutOrStdout().Write(body)
			return err
		},
	}
	cmd.Flags().String("server", defaultServer, "Back office base URL")
	cmd.Flags().Bool("dry-run", false, "Parse on the server without storing")
	return cmd
}

// readInput reads path, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %v", path, err)
	}
	return data, nil
}
