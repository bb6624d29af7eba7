package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/willay-edu/willay-cli/internal/export"
)

var (
	exportFormat  string
	exportOutput  string
	exportSession string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sessions to files",
	Long: `Export saved sessions in a chosen format.

By default every session is exported; use --session to export just one.
One file is written per session, named session_<id>.<ext>.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := openEnv()
		if err != nil {
			return err
		}
		defer cleanup()

		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		sessions := env.store.Sessions()
		if exportSession != "" {
			session, ok := env.store.Get(exportSession)
			if !ok {
				return fmt.Errorf("session not found: %s", exportSession)
			}
			sessions = sessions[:0]
			sessions = append(sessions, session)
		}

		if err := os.MkdirAll(exportOutput, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		for i := range sessions {
			path := filepath.Join(exportOutput, fmt.Sprintf("session_%s.%s", sessions[i].ID, exporter.Extension()))
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
			if err := exporter.Export(&sessions[i], f); err != nil {
				f.Close()
				return fmt.Errorf("failed to export %s: %w", sessions[i].ID, err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Export format (json, jsonl, md, yaml)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", ".", "Output directory")
	exportCmd.Flags().StringVar(&exportSession, "session", "", "Export a single session by id")
}
