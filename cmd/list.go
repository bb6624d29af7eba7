package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	// Styles shared by the session listing commands
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved sessions",
	Long:  `List all saved chat sessions, most recently updated first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := openEnv()
		if err != nil {
			return err
		}
		defer cleanup()

		sessions := env.store.Sessions()
		fmt.Println(headerStyle.Render(fmt.Sprintf("Sessions (%d)", len(sessions))))
		fmt.Println()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "\tID\tTITLE\tMESSAGES\tUPDATED")
		for _, session := range sessions {
			marker := ""
			if session.ID == env.store.ActiveID() {
				marker = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				marker,
				idStyle.Render(session.ID),
				titleStyle.Render(session.Title),
				countStyle.Render(fmt.Sprintf("%d", len(session.Messages))),
				dateStyle.Render(formatSessionDate(session.UpdatedAt)),
			)
		}
		return w.Flush()
	},
}

func formatSessionDate(unixMilli int64) string {
	return time.UnixMilli(unixMilli).Format("02 Jan 15:04")
}

func init() {
	rootCmd.AddCommand(listCmd)
}
