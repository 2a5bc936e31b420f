package cmd

import (
	"github.com/spf13/cobra"

	"mac-bootstrap/internal/config"
)

func init() {
	rootCmd.AddCommand(catalogCmd)
}

// catalogCmd prints the catalog a run would use, --config applied.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the effective catalog as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := config.Load(configPath)
		if err != nil {
			return err
		}
		out, err := config.Marshal(cat)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}
