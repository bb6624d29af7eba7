package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/willay-edu/willay-cli/internal"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthCmd represents the health command
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check local state and backend reachability",
	Long: `Verify that the client can reach its local state database and that the
backend (and the inference engine behind it) responds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(sectionStyle.Render("Willay Health Check"))
		fmt.Println()

		fmt.Println(infoStyle.Render("Checking local state..."))
		env, cleanup, err := openEnv()
		if err != nil {
			fmt.Println(errorStyle.Render("✗ State database unavailable:"), err)
			return err
		}
		defer cleanup()
		fmt.Println(successStyle.Render("✓ State database open"), idStyle.Render(filepath.Join(env.dir, "willay.db")))
		fmt.Printf("  %d session(s), active %s\n", env.store.Len(), env.store.ActiveID())
		fmt.Println()

		fmt.Println(infoStyle.Render("Checking backend..."))
		if err := env.client.Health(cmd.Context()); err != nil {
			fmt.Println(errorStyle.Render("✗ Backend unreachable:"), internal.StatusMessage(err))
			return err
		}
		fmt.Println(successStyle.Render("✓ Backend healthy"), idStyle.Render(env.client.BaseURL()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
