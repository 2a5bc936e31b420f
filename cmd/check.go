package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mac-bootstrap/internal/config"
	"mac-bootstrap/internal/provision"
)

var (
	present = color.New(color.FgGreen).SprintFunc()
	missing = color.New(color.FgRed).SprintFunc()
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report which catalog entries are installed, without changing anything",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := config.Load(configPath)
		if err != nil {
			return err
		}
		deps, err := hostDeps()
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		last := ""
		for _, row := range provision.Check(cmd.Context(), cat, deps) {
			if row.Category != last {
				fmt.Fprintf(w, "%s:\n", row.Category)
				last = row.Category
			}
			fmt.Fprintf(w, "  %s\n", formatRow(row))
		}
		return nil
	},
}

func formatRow(row provision.CheckRow) string {
	switch {
	case row.Err != nil:
		return fmt.Sprintf("%s %s (%v)", missing("?"), row.Name, row.Err)
	case row.Installed:
		return fmt.Sprintf("%s %s", present("✓"), row.Name)
	default:
		return fmt.Sprintf("%s %s", missing("✗"), row.Name)
	}
}
