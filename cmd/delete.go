package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/willay-edu/willay-cli/internal"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session",
	Long: `Delete a session and its messages. Deleting the active session
immediately creates and activates a fresh one, so there is always an
active session to chat in.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := openEnv()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := env.store.Delete(args[0]); err != nil {
			return err
		}
		internal.LoadStats(env.db).SetTotalSessions(env.store.Len())

		fmt.Printf("Deleted session %s\n", idStyle.Render(args[0]))
		fmt.Printf("Active session: %s\n", idStyle.Render(env.store.ActiveID()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
