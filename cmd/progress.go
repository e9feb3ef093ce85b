package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/example/flashdrill/internal/database"
	"github.com/example/flashdrill/pkg/models"
	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Export or import the progress snapshot as JSON",
}

var progressExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the progress store as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := connect(cmd); err != nil {
			return err
		}
		defer database.Close()

		data, err := database.NewProgressRepository().ExportJSON()
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "" || out == "-" {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		}
		return os.WriteFile(out, append(data, '\n'), 0o644)
	},
}

var progressImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Replace the progress store with a JSON snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read snapshot: %w", err)
		}

		if _, err := connect(cmd); err != nil {
			return err
		}
		defer database.Close()

		n, err := database.NewProgressRepository().ImportJSON(data)
		if errors.Is(err, models.ErrCorruptProgressState) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Rejected records:\n%v\n", err)
		} else if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d progress records\n", n)
		return nil
	},
}

func init() {
	progressExportCmd.Flags().StringP("out", "o", "", "Output file (default: stdout)")

	progressCmd.AddCommand(progressExportCmd)
	progressCmd.AddCommand(progressImportCmd)
}
