package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models [id]",
	Short: "List available models",
	Long: `List the models the account can use, or describe a single model.

Examples:
  # List everything
  gigachat models

  # Describe one model
  gigachat models GigaChat-Pro`,
	Args: cobra.MaximumNArgs(1),
	RunE: runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	out := cmd.OutOrStdout()

	if len(args) == 1 {
		model, err := client.Model(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\towned by %s\n", model.ID, model.OwnedBy)
		return nil
	}

	models, err := client.Models(ctx)
	if err != nil {
		return err
	}
	for _, model := range models.Data {
		fmt.Fprintf(out, "%s\towned by %s\n", model.ID, model.OwnedBy)
	}
	return nil
}
