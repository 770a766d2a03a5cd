package cmd

import (
	"fmt"
	"strings"
	"unicode/utf8"

	cfgpkg "github.com/KaramelBytes/csvtype-cli/internal/config"
	"github.com/KaramelBytes/csvtype-cli/internal/inference"
	"github.com/KaramelBytes/csvtype-cli/internal/patterns"
	"github.com/KaramelBytes/csvtype-cli/internal/utils"
	"github.com/spf13/cobra"
)

// engineSettings holds the engine flags shared by infer and infer-batch.
// Flags only override the loaded config when explicitly set.
type engineSettings struct {
	delimiter    string
	patternsFile string
	naValues     []string
	multithread  bool
	saveTypes    bool
	typesOutput  string
	window       int
	reorderOnHit bool
}

func (s *engineSettings) bind(c *cobra.Command, withTypesOutput bool) {
	f := c.Flags()
	f.StringVar(&s.delimiter, "delimiter", "", "field delimiter: ',' | ';' | '|' | 'tab' | any single character")
	f.StringVar(&s.patternsFile, "patterns", "", "YAML file mapping type names to regex patterns (built-in set if omitted)")
	f.StringArrayVar(&s.naValues, "na", nil, "NA token (repeatable; replaces the configured set; --na '' for empty cells)")
	f.BoolVar(&s.multithread, "multithreading", false, "classify the cells of each row in parallel")
	f.BoolVar(&s.saveTypes, "save-types", false, "write a file of per-cell type labels")
	f.IntVar(&s.window, "window", 0, "clear the value cache every N data rows")
	f.BoolVar(&s.reorderOnHit, "reorder-on-hit", false, "also reorder type attempts on value cache hits")
	if withTypesOutput {
		f.StringVar(&s.typesOutput, "types-output", "", "types file path (default <file>.ctypes)")
	}
}

// build merges config and flags into an Inferencer.
func (s *engineSettings) build(c *cobra.Command) (*inference.Inferencer, error) {
	g := effectiveConfig()
	f := c.Flags()
	if f.Changed("delimiter") {
		g.Delimiter = s.delimiter
	}
	if f.Changed("patterns") {
		g.PatternsFile = s.patternsFile
	}
	if f.Changed("na") {
		g.NAValues = s.naValues
	}
	if f.Changed("multithreading") {
		g.Multithreading = s.multithread
	}
	if f.Changed("save-types") {
		g.SaveTypesFile = s.saveTypes
	}
	if f.Changed("window") {
		g.RollingCacheWindow = s.window
	}
	if f.Changed("reorder-on-hit") {
		g.ReorderOnCacheHit = s.reorderOnHit
	}

	delim, err := parseDelimiter(g.Delimiter)
	if err != nil {
		return nil, err
	}
	reg, err := loadRegistry(g.PatternsFile)
	if err != nil {
		return nil, err
	}
	opt := inference.Options{
		Delimiter:          delim,
		NAValues:           g.NAValues,
		Multithreading:     g.Multithreading,
		SaveTypesFile:      g.SaveTypesFile,
		TypesFilepath:      s.typesOutput,
		RollingCacheWindow: g.RollingCacheWindow,
		ReorderOnCacheHit:  g.ReorderOnCacheHit,
	}
	if logger != nil {
		opt.Logger = logger
	}
	return inference.New(reg, opt)
}

func effectiveConfig() cfgpkg.Global {
	if cfg == nil {
		return cfgpkg.Defaults()
	}
	g := *cfg
	g.NAValues = append([]string(nil), cfg.NAValues...)
	return g
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "", ",":
		return ',', nil
	case "\t", "tab", `\t`:
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("unsupported --delimiter: %q (use a single character or 'tab')", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

func loadRegistry(path string) (*patterns.Registry, error) {
	fams := patterns.Defaults()
	if strings.TrimSpace(path) != "" {
		f, err := patterns.LoadFile(path)
		if err != nil {
			return nil, err
		}
		fams = f
	}
	return patterns.New(fams)
}

// renderResult formats a result as markdown or JSON.
func renderResult(res *inference.Result, format string, ratios bool) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "markdown", "md":
		return res.Markdown(), nil
	case "json":
		doc := struct {
			*inference.Result
			Labels     []string                      `json:"labels"`
			MostLikely map[string]string             `json:"most_likely"`
			Ratios     map[string]map[string]float64 `json:"ratios,omitempty"`
		}{Result: res, Labels: res.Labels(), MostLikely: res.MostLikely()}
		if ratios {
			doc.Ratios = res.Ratios()
		}
		b, err := utils.PrettyJSON(doc)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("unsupported --format: %s (use markdown|json)", format)
	}
}
