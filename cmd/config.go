package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/longkey1/omnichat/internal/omnichat/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const configFields = "configfile, model, base_url, token, system_prompt, prompt_dirs, end_marker, include_usage, stream, request_timeout"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config [field]",
	Short: "Display current configuration",
	Long: `Display the current configuration values.
This command shows all configuration values loaded from the config file and environment variables.

If a field name is specified, only that field's value is displayed.
Available fields: ` + configFields + `

Examples:
  omnichat config             # Show all configuration
  omnichat config model       # Show only model
  omnichat config token       # Show only the (masked) token`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if len(args) > 0 {
			value, ok := configField(cfg, args[0])
			if !ok {
				fmt.Fprintf(os.Stderr, "Available fields: %s\n", configFields)
				return fmt.Errorf("unknown field: %s", args[0])
			}
			fmt.Println(value)
			return nil
		}

		fmt.Printf("ConfigFile: %s\n", viper.ConfigFileUsed())
		fmt.Printf("Model: %s\n", cfg.Model)
		fmt.Printf("BaseURL: %s\n", cfg.BaseURL)
		fmt.Printf("Token: %s\n", maskToken(cfg.Token))
		fmt.Printf("SystemPrompt: %s\n", cfg.SystemPrompt)
		fmt.Printf("PromptDirectories: %s\n", strings.Join(cfg.PromptDirs, ","))
		fmt.Printf("EndMarker: %s\n", cfg.EndMarker)
		fmt.Printf("IncludeUsage: %v\n", cfg.IncludeUsage)
		fmt.Printf("Stream: %v\n", cfg.Stream)
		fmt.Printf("RequestTimeout: %s\n", cfg.GetRequestTimeout())
		return nil
	},
}

// configField returns the printable value of a single field
func configField(cfg *config.Config, field string) (string, bool) {
	switch strings.ToLower(field) {
	case "configfile":
		return viper.ConfigFileUsed(), true
	case "model":
		return cfg.Model, true
	case "base_url", "baseurl":
		return cfg.BaseURL, true
	case "token":
		return maskToken(cfg.Token), true
	case "system_prompt", "systemprompt":
		return cfg.SystemPrompt, true
	case "prompt_dirs", "promptdirs":
		return strings.Join(cfg.PromptDirs, ","), true
	case "end_marker", "endmarker":
		return cfg.EndMarker, true
	case "include_usage", "includeusage":
		return fmt.Sprint(cfg.IncludeUsage), true
	case "stream":
		return fmt.Sprint(cfg.Stream), true
	case "request_timeout", "requesttimeout":
		return cfg.GetRequestTimeout().String(), true
	default:
		return "", false
	}
}

// maskToken returns a masked version of the token for security
func maskToken(token string) string {
	if len(token) <= 8 {
		return "********"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func init() {
	rootCmd.AddCommand(configCmd)
}
