package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// switchCmd represents the switch command
var switchCmd = &cobra.Command{
	Use:   "switch <session-id>",
	Short: "Make another session active",
	Long:  `Set the active session. Subsequent chats continue that conversation.`,
	Args:  cobra.ExactArgs(1),
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

		session, err := ctrl.SwitchSession(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Active session: %s (%s)\n", titleStyle.Render(session.Title), idStyle.Render(session.ID))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(switchCmd)
}
