package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
)

// ragCmd groups the document-indexing commands
var ragCmd = &cobra.Command{
	Use:   "rag",
	Short: "Manage the backend's document index",
	Long: `Manage the backend's document index used for retrieval-augmented
replies. Indexing runs server-side; these commands only drive it.
Use --rag on the chat command to have replies draw on the index.`,
}

var ragUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a document to the backend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := openEnv()
		if err != nil {
			return err
		}
		defer cleanup()

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		if err := env.client.RAG().Upload(cmd.Context(), filepath.Base(args[0]), f); err != nil {
			return err
		}
		fmt.Printf("Uploaded %s\n", filepath.Base(args[0]))
		return nil
	},
}

var ragIndexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the document index",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := openEnv()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := env.client.RAG().Index(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Index rebuilt")
		return nil
	},
}

var ragClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop the document index",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := openEnv()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := env.client.RAG().Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Index cleared")
		return nil
	},
}

var ragStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show document index statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := openEnv()
		if err != nil {
			return err
		}
		defer cleanup()

		stats, err := env.client.RAG().Stats(cmd.Context())
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(stats))
		for key := range stats {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Printf("%s: %v\n", key, stats[key])
		}
		return nil
	},
}

var ragDocumentCmd = &cobra.Command{
	Use:   "document <name>",
	Short: "Fetch an indexed document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := openEnv()
		if err != nil {
			return err
		}
		defer cleanup()

		data, err := env.client.RAG().Document(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

func init() {
	ragCmd.AddCommand(ragUploadCmd, ragIndexCmd, ragClearCmd, ragStatsCmd, ragDocumentCmd)
	rootCmd.AddCommand(ragCmd)
}
