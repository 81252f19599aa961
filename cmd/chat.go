/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"

	"github.com/longkey1/omnichat/internal/omnichat/config"
	"github.com/longkey1/omnichat/internal/omnichat/content"
	"github.com/longkey1/omnichat/internal/omnichat/image"
	"github.com/longkey1/omnichat/internal/omnichat/input"
	promptpkg "github.com/longkey1/omnichat/internal/omnichat/prompt"
	"github.com/longkey1/omnichat/internal/omnichat/session"
	"github.com/longkey1/omnichat/internal/openai"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	model       string
	prompt      string
	argFlags    []string
	useEditor   bool
	noStream    bool
	interactive bool
	showUsage   bool
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Chat with the model",
	Long: `Chat with the configured model.

Without a message and with a terminal on stdin, an interactive session starts.
Each message may span several lines and ends with the end marker ('</end>' by
default) on a line of its own. Ctrl+D exits, Ctrl+C aborts the running reply.
Lines starting with '/' are commands, type '/help' to list them.

With a message argument, --editor, or piped stdin, a single turn is sent and
the reply printed.

Images are embedded with ![](path_or_url):
  omnichat chat "What is in this picture? ![](photos/cat.jpg)"

A prompt template supplies the system prompt:
system = "You are a {{role}}."   # {{key}} is replaced by --arg key:value
model = "optional-model-name"    # Optional: overrides the configured model`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		systemPrompt, err := resolveSystemPrompt(cmd, cfg)
		if err != nil {
			return err
		}

		conv := newConversation(cfg, systemPrompt)
		stream := cfg.Stream && !noStream
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		if interactive || (len(args) == 0 && !useEditor && isTerminal(os.Stdin)) {
			return runInteractiveMode(ctx, conv, input.NewReader(os.Stdin, cfg.EndMarker), cfg.EndMarker, stream)
		}

		message, err := readOneShotMessage(args)
		if err != nil {
			return err
		}
		if strings.TrimSpace(message) == "" {
			return fmt.Errorf("empty message")
		}

		if _, err := runTurn(ctx, conv, message, stream); err != nil {
			return fmt.Errorf("chat request failed: %w", err)
		}
		fmt.Println()
		return nil
	},
}

// resolveSystemPrompt applies the prompt template and picks the model.
// Model priority: flag > env > prompt template > config file.
func resolveSystemPrompt(cmd *cobra.Command, cfg *config.Config) (string, error) {
	systemPrompt := cfg.SystemPrompt

	if prompt != "" {
		sp, promptModel, err := promptpkg.SystemPrompt(afero.NewOsFs(), prompt, cfg.PromptDirs, argFlags)
		if err != nil {
			return "", fmt.Errorf("loading prompt template: %w", err)
		}
		systemPrompt = sp
		if promptModel != nil {
			cfg.Model = *promptModel
			logger.Debugw("Using model from prompt file", "model", cfg.Model)
		}
	}

	if cmd.Flags().Changed("model") {
		cfg.Model = model
	} else if envModel := os.Getenv("OMNICHAT_MODEL"); envModel != "" {
		cfg.Model = envModel
	}

	if strings.TrimSpace(cfg.Model) == "" {
		return "", fmt.Errorf("model must not be empty")
	}
	return systemPrompt, nil
}

func newConversation(cfg *config.Config, systemPrompt string) *session.Conversation {
	client := openai.NewClient(cfg, logger)
	assembler := content.NewAssembler(image.NewOsResolver(), logger)

	conv := session.NewConversation(cfg.Model, systemPrompt, assembler, client, logger)
	conv.SetIncludeUsage(cfg.IncludeUsage)
	conv.SetOutput(os.Stdout)
	if showUsage {
		conv.SetUsageHandler(func(usage string) {
			fmt.Fprintf(os.Stderr, "\n\nUsage: %s\n", usage)
		})
	}
	return conv
}

// runTurn runs one turn. SIGINT while it runs cancels only this turn.
func runTurn(ctx context.Context, conv *session.Conversation, message string, stream bool) (session.Reply, error) {
	turnCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if stream {
		return conv.Turn(turnCtx, message)
	}
	return conv.CompleteTurn(turnCtx, message)
}

// readOneShotMessage gets the message from arguments, editor, or stdin
func readOneShotMessage(args []string) (string, error) {
	if useEditor {
		message, err := getMessageFromEditor()
		if err != nil {
			return "", fmt.Errorf("getting message from editor: %w", err)
		}
		return message, nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading from stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// runInteractiveMode starts an interactive chat session
func runInteractiveMode(ctx context.Context, conv *session.Conversation, reader *input.Reader, endMarker string, stream bool) error {
	sess := conv.Session()
	fmt.Fprintf(os.Stderr, "\n=== Interactive Session [%s] ===\n", sess.GetShortID())
	fmt.Fprintf(os.Stderr, "Model: %s\n", sess.Model)
	fmt.Fprintf(os.Stderr, "End each message with '%s' on a new line.\n", endMarker)
	fmt.Fprintf(os.Stderr, "To include images, use the syntax: ![](path_or_url_to_image)\n")
	fmt.Fprintf(os.Stderr, "Type '/help' for commands, '/exit' or 'Ctrl+D' to quit\n")
	fmt.Fprintf(os.Stderr, "===================================\n")

	for {
		fmt.Fprint(os.Stderr, "\nYou> ")

		msg, err := reader.ReadMessage()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(os.Stderr, "\nGoodbye!")
			return nil
		}
		if err != nil {
			return err
		}

		if msg.Command != "" {
			if handleSpecialCommand(msg.Command, conv) {
				continue
			}
			return nil
		}

		if strings.TrimSpace(msg.Text) == "" {
			continue
		}

		fmt.Fprintln(os.Stderr, "\nAssistant>")
		spin := startSpinner(os.Stderr, isTerminal(os.Stderr))
		conv.SetOutput(spin.Writer(os.Stdout))

		_, err = runTurn(ctx, conv, msg.Text, stream)
		spin.Stop()

		switch {
		case errors.Is(err, context.Canceled):
			fmt.Fprintln(os.Stderr, "\nInterrupted, reply discarded.")
		case err != nil:
			fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
		default:
			fmt.Println()
		}
	}
}

// handleSpecialCommand processes special commands in interactive mode
// Returns true to continue the loop, false to exit
func handleSpecialCommand(command string, conv *session.Conversation) bool {
	command = strings.ToLower(strings.TrimSpace(command))

	switch command {
	case "/help", "/h":
		fmt.Fprintln(os.Stderr, "\nAvailable commands:")
		fmt.Fprintln(os.Stderr, "  /help, /h     - Show this help message")
		fmt.Fprintln(os.Stderr, "  /info, /i     - Show session information")
		fmt.Fprintln(os.Stderr, "  /history      - Show the conversation so far")
		fmt.Fprintln(os.Stderr, "  /reset        - Start a new session")
		fmt.Fprintln(os.Stderr, "  /clear, /c    - Clear screen (Unix/Linux only)")
		fmt.Fprintln(os.Stderr, "  /exit, /quit  - Exit interactive mode")
		fmt.Fprintln(os.Stderr, "  Ctrl+D        - Exit interactive mode")
		return true

	case "/info", "/i":
		sess := conv.Session()
		fmt.Fprintln(os.Stderr, "\nSession Information:")
		fmt.Fprintf(os.Stderr, "  ID: %s\n", sess.GetShortID())
		fmt.Fprintf(os.Stderr, "  Full ID: %s\n", sess.ID)
		fmt.Fprintf(os.Stderr, "  Model: %s\n", sess.Model)
		fmt.Fprintf(os.Stderr, "  Messages: %d\n", sess.MessageCount())
		fmt.Fprintf(os.Stderr, "  Created: %s\n", sess.CreatedAt.Format("2006-01-02 15:04:05"))
		return true

	case "/history":
		for _, m := range conv.History() {
			fmt.Fprintf(os.Stderr, "\n[%s]\n%s\n", m.Role, m.PlainText())
		}
		return true

	case "/reset":
		conv.Reset()
		fmt.Fprintf(os.Stderr, "New session started: %s\n", conv.Session().GetShortID())
		return true

	case "/clear", "/c":
		fmt.Print("\033[H\033[2J")
		return true

	case "/exit", "/quit", "/q":
		fmt.Fprintln(os.Stderr, "Goodbye!")
		return false

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s (type '/help' for available commands)\n", command)
		return true
	}
}

// getMessageFromEditor opens the default editor and returns the edited message
func getMessageFromEditor() (string, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		return "", fmt.Errorf("EDITOR environment variable is not set")
	}

	tmpFile, err := os.CreateTemp("", "omnichat-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpFile.Close()
	defer os.Remove(tmpFile.Name())

	cmd := exec.Command(editor, tmpFile.Name())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to open editor: %w", err)
	}

	data, err := os.ReadFile(tmpFile.Name())
	if err != nil {
		return "", fmt.Errorf("failed to read edited content: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// isTerminal reports whether f is a character device
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVarP(&model, "model", "m", "", "Model to use (e.g., qwen-omni-turbo)")
	chatCmd.Flags().StringVarP(&prompt, "prompt", "p", "", "Name of the prompt template (without .toml extension)")
	chatCmd.Flags().StringArrayVar(&argFlags, "arg", []string{}, "Key-value pairs for prompt template (format: key:value)")
	chatCmd.Flags().BoolVarP(&useEditor, "editor", "e", false, "Use default editor (from EDITOR environment variable) to compose message")
	chatCmd.Flags().BoolVar(&noStream, "no-stream", false, "Wait for the complete reply instead of streaming it")
	chatCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Start an interactive session even when stdin is not a terminal")
	chatCmd.Flags().BoolVar(&showUsage, "usage", false, "Print token usage reported by the endpoint to stderr")
}
