package cmd

import (
	"fmt"

	"github.com/example/flashdrill/internal/database"
	"github.com/example/flashdrill/internal/excel"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import catalog items from an .xlsx or .csv file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := connect(cmd); err != nil {
			return err
		}
		defer database.Close()

		config := excel.DefaultImportConfig()
		config.FilePath = args[0]
		config.SheetName, _ = cmd.Flags().GetString("sheet")
		config.StartRow, _ = cmd.Flags().GetInt("start-row")

		result, err := excel.ImportItems(config, database.NewItemRepository())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Processed %d rows: %d imported, %d skipped\n", result.TotalProcessed, result.Imported, result.Skipped)
		for _, e := range result.Errors {
			fmt.Fprintf(out, "  %s\n", e)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().String("sheet", "", "Sheet to read from an Excel file (default: first sheet)")
	importCmd.Flags().Int("start-row", 2, "First row to import, 1-based")
}
