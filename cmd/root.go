package cmd

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/willay-edu/willay-cli/internal"
)

var (
	verbose   bool
	dataDir   string
	serverURL string
	version   string = "dev"
	commit    string = "unknown"
	date      string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "willay",
	Short: "Chat with the Willay study assistant from the terminal",
	Long: `Willay is a terminal client for the Willay study assistant.

It keeps every conversation as a local session, streams replies from the
backend as they are generated, and bounds the context sent per exchange
so long conversations stay coherent.

Quick Start:
  willay chat                    # Start chatting in the active session
  willay list                    # List saved sessions
  willay show <session-id>       # View a session's messages
  willay export --format md      # Export sessions as Markdown

Sessions, usage counters, and the activity log live in a local SQLite
database under the data directory (default ~/.willay).`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "Data directory for sessions and settings (default ~/.willay)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Backend base URL (overrides config)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// stateDir resolves the data directory, creating it if needed.
func stateDir() (string, error) {
	dir := dataDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".willay")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return dir, nil
}

// appEnv bundles the resources most commands need.
type appEnv struct {
	dir    string
	cfg    internal.Config
	db     *sql.DB
	store  *internal.Store
	client *internal.Client
}

// openEnv opens the state database, loads the configuration, and wires
// the backend client. The returned cleanup closes the database.
func openEnv() (*appEnv, func(), error) {
	dir, err := stateDir()
	if err != nil {
		return nil, nil, err
	}

	cfg := internal.LoadConfig(dir)
	if serverURL != "" {
		cfg.Server = serverURL
	}

	db, err := internal.OpenDatabase(filepath.Join(dir, "willay.db"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open state database: %w", err)
	}

	env := &appEnv{
		dir:    dir,
		cfg:    cfg,
		db:     db,
		store:  internal.OpenStore(db),
		client: internal.NewClient(cfg.Server),
	}
	cleanup := func() {
		if err := db.Close(); err != nil {
			internal.LogWarn("close state database: %v", err)
		}
	}
	return env, cleanup, nil
}

// newController wires a session controller over the environment.
func newController(env *appEnv) *internal.Controller {
	clientID := internal.EnsureClientID(env.db)
	stats := internal.LoadStats(env.db)
	stats.SetTotalSessions(env.store.Len())
	activityLog := internal.LoadActivityLog(env.db)
	return internal.NewController(env.store, env.client, stats, activityLog, clientID)
}
