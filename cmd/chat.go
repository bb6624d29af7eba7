package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/willay-edu/willay-cli/internal"
)

var (
	chatModel       string
	chatTemperature float64
	chatUseRag      bool
	chatRagResults  int
	chatTimeout     time.Duration
)

var (
	// Styles for the chat REPL
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Padding(0, 1)

	userLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	assistantLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("135"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)

	chatErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat in the active session",
	Long: `Start an interactive chat with the Willay assistant.

Replies stream into the terminal as they are generated. The active
session picks up where it left off; use /new inside the REPL or the
new/switch commands to change sessions.

REPL commands:
  /new             Start a new conversation
  /sessions        List saved sessions
  /switch <id>     Switch to another session
  /prompts         List starter prompt templates
  /prompt <name>   Send a starter prompt
  /quit            Leave the chat`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := openEnv()
		if err != nil {
			return err
		}
		defer cleanup()

		if !cmd.Flags().Changed("model") {
			chatModel = env.cfg.Model
		}
		if !cmd.Flags().Changed("temperature") {
			chatTemperature = env.cfg.Temperature
		}

		ctrl := newController(env)
		ctrl.SetStatusFunc(func(text string) {
			if text != "" {
				fmt.Println(statusStyle.Render(text))
			}
		})

		active := env.store.Active()
		fmt.Println(bannerStyle.Render("Willay — " + active.Title))
		fmt.Println(statusStyle.Render(fmt.Sprintf("model %s · temperature %.1f · %s", chatModel, chatTemperature, env.client.BaseURL())))
		replayMessages(active.Messages)

		return runChatLoop(cmd, env, ctrl)
	},
}

func runChatLoop(cmd *cobra.Command, env *appEnv, ctrl *internal.Controller) error {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print(userLabelStyle.Render("tú") + " > ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := runReplCommand(cmd.Context(), env, ctrl, line); quit {
				return nil
			}
			continue
		}

		sendMessage(cmd.Context(), ctrl, line)
	}
}

// runReplCommand handles slash commands and reports whether the REPL
// should exit.
func runReplCommand(ctx context.Context, env *appEnv, ctrl *internal.Controller, line string) bool {
	fields := strings.Fields(line)
	command, arg := fields[0], ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch command {
	case "/quit", "/exit":
		return true

	case "/new":
		if session, err := ctrl.NewConversation(ctx); err == nil {
			fmt.Println(bannerStyle.Render("Willay — " + session.Title))
		}

	case "/sessions":
		for _, session := range env.store.Sessions() {
			marker := "  "
			if session.ID == env.store.ActiveID() {
				marker = "* "
			}
			fmt.Printf("%s%s  %s\n", marker, idStyle.Render(session.ID), session.Title)
		}

	case "/switch":
		if arg == "" {
			fmt.Println(chatErrorStyle.Render("usage: /switch <session-id>"))
			return false
		}
		session, err := ctrl.SwitchSession(ctx, arg)
		if err != nil {
			fmt.Println(chatErrorStyle.Render(internal.StatusMessage(err)))
			return false
		}
		fmt.Println(bannerStyle.Render("Willay — " + session.Title))
		replayMessages(session.Messages)

	case "/prompts":
		names := make([]string, 0, len(env.cfg.Prompts))
		for name := range env.cfg.Prompts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %s  %s\n", userLabelStyle.Render(name), env.cfg.Prompts[name])
		}

	case "/prompt":
		template, ok := env.cfg.Prompts[arg]
		if !ok {
			fmt.Println(chatErrorStyle.Render("unknown prompt: " + arg))
			return false
		}
		fmt.Println(statusStyle.Render(template))
		sendMessage(ctx, ctrl, template)

	default:
		fmt.Println(chatErrorStyle.Render("unknown command: " + command))
	}
	return false
}

func sendMessage(parent context.Context, ctrl *internal.Controller, input string) {
	ctx := parent
	if ctx == nil {
		ctx = context.Background()
	}
	if chatTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, chatTimeout)
		defer cancel()
	}

	opts := internal.SendOptions{
		Model:       chatModel,
		Temperature: chatTemperature,
		UseRag:      chatUseRag,
		RagNResults: chatRagResults,
	}

	started := false
	_, err := ctrl.Send(ctx, input, opts, func(delta string) {
		if !started {
			fmt.Print(assistantLabelStyle.Render("willay") + " > ")
			started = true
		}
		fmt.Print(delta)
	})
	if started {
		fmt.Println()
	}
	if err != nil {
		fmt.Println(chatErrorStyle.Render(internal.StatusMessage(err)))
	}
}

// replayMessages re-renders a session's stored turns, the way the
// working history is reloaded on a session switch.
func replayMessages(messages []internal.Message) {
	for _, msg := range messages {
		label := userLabelStyle.Render("tú")
		if msg.Role == internal.RoleAssistant {
			label = assistantLabelStyle.Render("willay")
		}
		fmt.Printf("%s > %s\n", label, msg.Content)
	}
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVar(&chatModel, "model", internal.DefaultModel, "Model to request")
	chatCmd.Flags().Float64Var(&chatTemperature, "temperature", internal.DefaultTemperature, "Sampling temperature")
	chatCmd.Flags().BoolVar(&chatUseRag, "rag", false, "Ask the backend to augment replies with indexed documents")
	chatCmd.Flags().IntVar(&chatRagResults, "rag-results", 4, "How many retrieved chunks to request with --rag")
	chatCmd.Flags().DurationVar(&chatTimeout, "timeout", 0, "Per-exchange timeout (0 waits indefinitely)")
}
