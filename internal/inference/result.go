package inference

import (
	"fmt"
	"strings"
)

// Result is the outcome of a successful run.
type Result struct {
	RunID    string   `json:"run_id"`
	Name     string   `json:"file,omitempty"`
	NumRows  uint64   `json:"num_rows"`
	ColNames []string `json:"col_names"`
	Columns  []Column `json:"columns"`
	labels   []string
}

// Column is the tally for one column. AttemptOrder is the final order in
// which types were tried; it may differ between sequential and parallel runs.
type Column struct {
	Name         string            `json:"name"`
	Counts       map[string]uint64 `json:"counts"`
	AttemptOrder []string          `json:"attempt_order"`
}

func newResult(runID string, r *run, rows uint64) *Result {
	res := &Result{
		RunID:    runID,
		NumRows:  rows,
		ColNames: make([]string, 0, len(r.cols)),
		Columns:  make([]Column, 0, len(r.cols)),
		labels:   r.labels,
	}
	for _, c := range r.cols {
		counts := make(map[string]uint64, len(r.labels))
		for i, l := range r.labels {
			counts[l] = c.tally[i]
		}
		order := make([]string, len(c.order))
		for i, t := range c.order {
			order[i] = r.labels[t]
		}
		res.ColNames = append(res.ColNames, c.name)
		res.Columns = append(res.Columns, Column{Name: c.name, Counts: counts, AttemptOrder: order})
	}
	return res
}

// Labels returns the user types in registry order followed by "NA" and "other".
func (r *Result) Labels() []string { return append([]string(nil), r.labels...) }

// Candidates maps column name to label counts. Columns sharing a name
// collapse onto the last of them; use Columns for positional access.
func (r *Result) Candidates() map[string]map[string]uint64 {
	out := make(map[string]map[string]uint64, len(r.Columns))
	for _, c := range r.Columns {
		m := make(map[string]uint64, len(c.Counts))
		for k, v := range c.Counts {
			m[k] = v
		}
		out[c.Name] = m
	}
	return out
}

// Ratios maps column name to the share of data rows per label. All
// ratios are zero when no data rows were read.
func (r *Result) Ratios() map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(r.Columns))
	for _, c := range r.Columns {
		m := make(map[string]float64, len(c.Counts))
		for k, v := range c.Counts {
			if r.NumRows > 0 {
				m[k] = float64(v) / float64(r.NumRows)
			} else {
				m[k] = 0
			}
		}
		out[c.Name] = m
	}
	return out
}

// MostLikely maps column name to its most frequent label. Ties go to the
// label that comes first in Labels.
func (r *Result) MostLikely() map[string]string {
	out := make(map[string]string, len(r.Columns))
	for _, c := range r.Columns {
		out[c.Name] = r.mostLikely(c)
	}
	return out
}

func (r *Result) mostLikely(c Column) string {
	best := ""
	var bestN uint64
	for _, l := range r.labels {
		if n := c.Counts[l]; best == "" || n > bestN {
			best, bestN = l, n
		}
	}
	return best
}

// Markdown renders a compact report of counts, ratios and the likely type
// of each column.
func (r *Result) Markdown() string {
	var b strings.Builder
	b.WriteString("[TYPE INFERENCE]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.NumRows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(r.Columns)))
	if len(r.Columns) == 0 {
		return b.String()
	}

	b.WriteString("\n[CANDIDATES]\n")
	b.WriteString("| column")
	for _, l := range r.labels {
		b.WriteString(" | ")
		b.WriteString(l)
	}
	b.WriteString(" | likely |\n|---")
	for range r.labels {
		b.WriteString("|---")
	}
	b.WriteString("|---|\n")
	for _, c := range r.Columns {
		b.WriteString("| ")
		b.WriteString(safeCell(c.Name))
		for _, l := range r.labels {
			n := c.Counts[l]
			if r.NumRows > 0 {
				b.WriteString(fmt.Sprintf(" | %d (%.1f%%)", n, float64(n)*100/float64(r.NumRows)))
			} else {
				b.WriteString(fmt.Sprintf(" | %d", n))
			}
		}
		b.WriteString(" | ")
		if r.NumRows > 0 {
			b.WriteString(r.mostLikely(c))
		} else {
			b.WriteString("-")
		}
		b.WriteString(" |\n")
	}
	return b.String()
}

func safeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}
