/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/longkey1/omnichat/internal/openai"
	"github.com/spf13/cobra"
)

// modelsCmd represents the models command
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models available at the configured endpoint",
	Long: `List all models reported by the endpoint's /models API.
The configured model is marked in the DEFAULT column.

Example:
  omnichat models`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		models, err := openai.NewClient(cfg, logger).ListModels(ctx)
		if err != nil {
			return fmt.Errorf("failed to list models: %w", err)
		}
		if len(models) == 0 {
			return fmt.Errorf("no models returned from API")
		}

		// Calculate column widths
		maxIDWidth := 15
		for _, m := range models {
			maxIDWidth = max(maxIDWidth, len(m.ID))
		}

		fmt.Printf("Available models at %s:\n\n", cfg.GetBaseURL())
		fmt.Printf("%-*s  %-10s  %s\n", maxIDWidth, "MODEL ID", "DEFAULT", "OWNED BY")
		fmt.Printf("%s  %s  %s\n", strings.Repeat("-", maxIDWidth), strings.Repeat("-", 10), strings.Repeat("-", 20))
		for _, m := range models {
			defaultMark := ""
			if m.ID == cfg.Model {
				defaultMark = "Yes"
			}
			fmt.Printf("%-*s  %-10s  %s\n", maxIDWidth, m.ID, defaultMark, m.OwnedBy)
		}

		fmt.Printf("\nUse a model with: omnichat chat --model <model> [message]\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
