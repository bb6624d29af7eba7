package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/willay-edu/willay-cli/internal"
)

var logsClear bool

// logsCmd represents the logs command
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the client activity log",
	Long: `Print the client activity log: user messages, assistant replies,
session events, and errors, oldest first. The log keeps the most recent
300 entries.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := openEnv()
		if err != nil {
			return err
		}
		defer cleanup()

		activityLog := internal.LoadActivityLog(env.db)

		if logsClear {
			activityLog.Clear()
			fmt.Println("Activity log cleared")
			return nil
		}

		exported := activityLog.Export()
		if exported == "" {
			fmt.Println("Activity log is empty")
			return nil
		}
		fmt.Println(exported)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.Flags().BoolVar(&logsClear, "clear", false, "Clear the activity log")
}
