package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/csvtype-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set csvtype configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "delimiter: %q\n", cfg.Delimiter)
		fmt.Fprintf(out, "na_values: %q\n", cfg.NAValues)
		if cfg.PatternsFile != "" {
			fmt.Fprintf(out, "patterns_file: %s\n", cfg.PatternsFile)
		} else {
			fmt.Fprintln(out, "patterns_file: (built-in)")
		}
		fmt.Fprintf(out, "multithreading: %t\n", cfg.Multithreading)
		fmt.Fprintf(out, "save_types_file: %t\n", cfg.SaveTypesFile)
		fmt.Fprintf(out, "rolling_cache_window: %d\n", cfg.RollingCacheWindow)
		fmt.Fprintf(out, "reorder_on_cache_hit: %t\n", cfg.ReorderOnCacheHit)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long: `Set a config value and save to disk. na_values takes a comma-separated
list; an empty item keeps empty cells as NA (e.g. ",NULL,NA").`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "delimiter":
			if _, err := parseDelimiter(val); err != nil {
				return err
			}
			cfg.Delimiter = val
		case "na_values":
			cfg.NAValues = strings.Split(val, ",")
		case "patterns_file":
			if val != "" {
				if _, err := loadRegistry(val); err != nil {
					return fmt.Errorf("invalid patterns_file: %w", err)
				}
			}
			cfg.PatternsFile = val
		case "multithreading", "save_types_file", "reorder_on_cache_hit":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for %s: %v", key, val)
			}
			switch key {
			case "multithreading":
				cfg.Multithreading = b
			case "save_types_file":
				cfg.SaveTypesFile = b
			default:
				cfg.ReorderOnCacheHit = b
			}
		case "rolling_cache_window":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid positive int for rolling_cache_window: %v", val)
			}
			cfg.RollingCacheWindow = i
		case "log_level":
			cfg.LogLevel = val
		case "log_format":
			switch val {
			case "text", "json":
				cfg.LogFormat = val
			default:
				return fmt.Errorf("invalid log_format: %s (use text or json)", val)
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
