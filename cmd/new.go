package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/willay-edu/willay-cli/internal"
)

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a new conversation",
	Long: `Create and activate a fresh session. Prior sessions are kept and stay
available through list/switch. The backend is asked to drop its
per-client context; if it is unreachable the new session is still
created locally.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := openEnv()
		if err != nil {
			return err
		}
		defer cleanup()

		ctrl := newController(env)
		ctrl.SetStatusFunc(func(text string) {
			if text != "" {
				fmt.Println(statusStyle.Render(text))
			}
		})

		session, err := ctrl.NewConversation(cmd.Context())
		if err != nil {
			return fmt.Errorf("%s", internal.StatusMessage(err))
		}
		fmt.Printf("Created session %s\n", idStyle.Render(session.ID))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
