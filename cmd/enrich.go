package cmd

import (
	"fmt"

	"github.com/example/flashdrill/internal/ai"
	"github.com/example/flashdrill/internal/database"
	"github.com/spf13/cobra"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Generate usage examples for items that have none",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := connect(cmd)
		if err != nil {
			return err
		}
		defer database.Close()

		chatGPT, err := ai.New(cfg.OpenAIKey, cfg.OpenAIModel, "")
		if err != nil {
			return err
		}

		limit, _ := cmd.Flags().GetInt("limit")
		n, err := ai.Enrich(cmd.Context(), chatGPT, database.NewItemRepository(), limit)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Generated %d examples\n", n)
		return nil
	},
}

func init() {
	enrichCmd.Flags().Int("limit", 0, "Generate at most this many examples (0 for all)")
}
