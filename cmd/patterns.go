package cmd

import (
	"fmt"

	"github.com/KaramelBytes/csvtype-cli/internal/patterns"
	"github.com/spf13/cobra"
)

var patPatternsFile string

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Print the effective type patterns as YAML",
	Long: `Print the type families used by infer, in attempt order. The output is
a valid --patterns file and a starting point for custom sets.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := effectiveConfig().PatternsFile
		if cmd.Flags().Changed("patterns") {
			path = patPatternsFile
		}
		reg, err := loadRegistry(path)
		if err != nil {
			return err
		}
		b, err := patterns.Encode(reg.Sources())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(b))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(patternsCmd)
	patternsCmd.Flags().StringVar(&patPatternsFile, "patterns", "", "YAML pattern file to validate and print")
}
