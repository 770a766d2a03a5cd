package cmd

import (
	"fmt"

	"github.com/KaramelBytes/csvtype-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	infSettings   engineSettings
	infOutputPath string
	infFormat     string
	infRatios     bool
)

var inferCmd = &cobra.Command{
	Use:   "infer <file>",
	Short: "Infer per-column type candidates of a CSV/TSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		inf, err := infSettings.build(cmd)
		if err != nil {
			return err
		}
		res, err := inf.InferFile(cmd.Context(), path)
		if err != nil {
			return err
		}
		out, err := renderResult(res, infFormat, infRatios)
		if err != nil {
			return err
		}

		if infOutputPath != "" {
			if err := utils.SafeWriteFile(infOutputPath, []byte(out)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote type report to %s\n", infOutputPath)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), out)
		}
		if inf.Options().SaveTypesFile {
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote types file to %s\n", inf.TypesPath(path))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inferCmd)
	infSettings.bind(inferCmd, true)
	inferCmd.Flags().StringVarP(&infOutputPath, "output", "o", "", "optional path to write the report")
	inferCmd.Flags().StringVar(&infFormat, "format", "markdown", "report format: markdown | json")
	inferCmd.Flags().BoolVar(&infRatios, "ratios", false, "include per-label ratios in JSON reports")
}
