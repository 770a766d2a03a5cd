package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/csvtype-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	ibSettings  engineSettings
	ibOutputDir string
	ibFormat    string
	ibRatios    bool
	ibQuiet     bool
)

var inferBatchCmd = &cobra.Command{
	Use:   "infer-batch <files...>",
	Short: "Infer column types for multiple CSV/TSV files with progress",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		seen := map[string]struct{}{}
		for _, arg := range args {
			matches, _ := filepath.Glob(arg)
			if len(matches) == 0 {
				// treat as literal path if exists
				if _, err := os.Stat(arg); err == nil {
					matches = []string{arg}
				}
			}
			for _, m := range matches {
				if _, ok := seen[m]; ok {
					continue
				}
				seen[m] = struct{}{}
				files = append(files, m)
			}
		}
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		sort.Strings(files)

		inf, err := ibSettings.build(cmd)
		if err != nil {
			return err
		}
		ext := ".types.md"
		if strings.EqualFold(ibFormat, "json") {
			ext = ".types.json"
		}

		out := cmd.OutOrStdout()
		total := len(files)
		for i, path := range files {
			if !ibQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			res, err := inf.InferFile(cmd.Context(), path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			report, err := renderResult(res, ibFormat, ibRatios)
			if err != nil {
				return err
			}

			if ibOutputDir != "" {
				base := filepath.Base(path)
				safe := strings.TrimSuffix(base, filepath.Ext(base))
				outFile := filepath.Join(ibOutputDir, safe+ext)
				if _, statErr := os.Stat(outFile); statErr == nil {
					idx := 2
					for {
						cand := filepath.Join(ibOutputDir, fmt.Sprintf("%s__%d%s", safe, idx, ext))
						if _, err := os.Stat(cand); os.IsNotExist(err) {
							if !ibQuiet {
								fmt.Fprintf(out, "⚠ Detected existing report, writing to %s to avoid overwrite.\n", filepath.Base(cand))
							}
							outFile = cand
							break
						}
						idx++
					}
				}
				if err := utils.SafeWriteFile(outFile, []byte(report)); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				if !ibQuiet {
					fmt.Fprintf(out, "✓ Wrote %s\n", outFile)
				}
				continue
			}
			if !ibQuiet {
				fmt.Fprintln(out, report)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inferBatchCmd)
	ibSettings.bind(inferBatchCmd, false)
	inferBatchCmd.Flags().StringVar(&ibOutputDir, "output-dir", "", "directory for per-file reports (stdout if omitted)")
	inferBatchCmd.Flags().StringVar(&ibFormat, "format", "markdown", "report format: markdown | json")
	inferBatchCmd.Flags().BoolVar(&ibRatios, "ratios", false, "include per-label ratios in JSON reports")
	inferBatchCmd.Flags().BoolVar(&ibQuiet, "quiet", false, "suppress progress and non-essential output")
}
