package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the known survey sources",
	RunE:  runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, _ []string) error {
	if registry == nil {
		return errors.New("source registry not configured")
	}

	cmd.Printf("%-24s %-32s %s\n", "ID", "NAME", "OBSCODE")
	for _, source := range registry.All() {
		cmd.Printf("%-24s %-32s %s\n", source.ID(), source.DisplayName(), source.Obscode())
	}
	return nil
}
