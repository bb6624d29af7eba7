package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/willay-edu/willay-cli/internal"
)

var (
	// Styles for the show command
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show messages for a session",
	Long:  `Display the messages of a session. Without an argument, shows the active session.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := openEnv()
		if err != nil {
			return err
		}
		defer cleanup()

		session := env.store.Active()
		if len(args) == 1 {
			found, ok := env.store.Get(args[0])
			if !ok {
				return fmt.Errorf("session not found: %s", args[0])
			}
			session = found
		}

		fmt.Println(sessionHeaderStyle.Render(session.Title))
		fmt.Println(sessionMetaStyle.Render(fmt.Sprintf("%s · %d messages · updated %s",
			session.ID, len(session.Messages), formatSessionDate(session.UpdatedAt))))

		for _, msg := range session.Messages {
			label := userMessageStyle.Render("tú")
			if msg.Role == internal.RoleAssistant {
				label = assistantMessageStyle.Render("willay")
			}
			fmt.Println(label)
			fmt.Println(messageContentStyle.Render(msg.Content))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
