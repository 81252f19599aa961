/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/longkey1/omnichat/internal/omnichat/config"
	promptpkg "github.com/longkey1/omnichat/internal/omnichat/prompt"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var withDir bool

// promptCmd represents the prompt command
var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "List available prompt templates",
	Long: `List all available system prompt templates from the configured prompt directories.
This command recursively scans all prompt directories specified in the configuration and displays
the names of available .toml prompt files, including those in subdirectories.

The prompt files should be in TOML format with the following structure:
system = "System prompt with optional {{key}} placeholders"
model = "optional-model-name"

Prompt names are displayed as relative paths from the prompt directory root.
For example, a file at ${prompt_dir}/foo/bar.toml will be displayed as "foo/bar".
When a name exists in several directories, the later directory wins.

If you want to see which directory each prompt comes from, use the --with-dir option.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		entries := promptpkg.List(afero.NewOsFs(), cfg.PromptDirs, logger)
		if len(entries) == 0 {
			fmt.Println("No prompt templates found.")
			fmt.Println("Create .toml files in the following directories:")
			for _, promptDir := range cfg.PromptDirs {
				fmt.Printf("  - %s\n", promptDir)
			}
			return nil
		}

		fmt.Printf("Available prompt templates (%d found):\n\n", len(entries))
		for _, e := range entries {
			if withDir {
				fmt.Printf("  %s (from %s)\n", e.Name, e.Dir)
			} else {
				fmt.Printf("  %s\n", e.Name)
			}
		}

		fmt.Printf("\nUse a prompt template with: omnichat chat --prompt <name> [message]\n")
		fmt.Printf("Example: omnichat chat --prompt foo/bar --arg lang:English\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(promptCmd)
	promptCmd.Flags().BoolVar(&withDir, "with-dir", false, "Show the directory each prompt was found in")
}
