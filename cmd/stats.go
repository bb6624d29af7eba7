package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/willay-edu/willay-cli/internal"
)

var statsReset bool

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show usage statistics",
	Long:  `Show lifetime usage counters: messages, sessions, per-model usage, and response times.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := openEnv()
		if err != nil {
			return err
		}
		defer cleanup()

		stats := internal.LoadStats(env.db)
		stats.SetTotalSessions(env.store.Len())

		if statsReset {
			stats.Reset()
			fmt.Println("Counters reset")
		}

		data := stats.Snapshot()
		fmt.Println(headerStyle.Render("Usage"))
		fmt.Println()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Messages\t%d\n", data.TotalMessages)
		fmt.Fprintf(w, "Sessions\t%d\n", data.TotalSessions)
		fmt.Fprintf(w, "Responses completed\t%d\n", data.ResponsesCompleted)
		if data.ResponsesCompleted > 0 {
			avg := time.Duration(data.TotalResponseTimeMs/int64(data.ResponsesCompleted)) * time.Millisecond
			fmt.Fprintf(w, "Average response time\t%s\n", avg)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if len(data.ModelUsage) > 0 {
			fmt.Println()
			fmt.Println(headerStyle.Render("Model usage"))
			models := make([]string, 0, len(data.ModelUsage))
			for model := range data.ModelUsage {
				models = append(models, model)
			}
			sort.Strings(models)
			for _, model := range models {
				fmt.Printf("  %s\t%d\n", model, data.ModelUsage[model])
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsReset, "reset", false, "Zero the counters")
}
