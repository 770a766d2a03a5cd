package inference

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/csvtype-cli/internal/patterns"
)

func TestRatiosAndMostLikely(t *testing.T) {
	reg, err := patterns.New([]patterns.Family{
		{Name: "int", Patterns: []string{`^[-+]?\d+$`}},
		{Name: "alpha", Patterns: []string{`^[a-zA-Z]+$`}},
	})
	require.NoError(t, err)
	inf := newInferencer(t, reg, func(o *Options) {
		o.Delimiter = ';'
		o.NAValues = []string{"NA"}
	})
	res, _ := inferString(t, inf, "col_1;col_2\n1;a\nb;NA\nc;?\n2;NA\n")

	ratios := res.Ratios()
	assert.InDelta(t, 0.5, ratios["col_1"]["int"], 1e-9)
	assert.InDelta(t, 0.5, ratios["col_1"]["alpha"], 1e-9)
	assert.InDelta(t, 0.5, ratios["col_2"]["NA"], 1e-9)
	assert.InDelta(t, 0.25, ratios["col_2"]["other"], 1e-9)

	likely := res.MostLikely()
	// int and alpha tie on col_1; int is declared first.
	assert.Equal(t, "int", likely["col_1"])
	assert.Equal(t, "NA", likely["col_2"])
	assert.Equal(t, []string{"int", "alpha", "NA", "other"}, res.Labels())
}

func TestMarkdownReport(t *testing.T) {
	inf := newInferencer(t, intRegistry(t), nil)
	res, _ := inferString(t, inf, "a,b|c\n1,x\n2,\n")
	res.Name = "sample.csv"

	md := res.Markdown()
	assert.Contains(t, md, "[TYPE INFERENCE]")
	assert.Contains(t, md, "File: sample.csv")
	assert.Contains(t, md, "Rows: 2")
	assert.Contains(t, md, "| column | int | NA | other | likely |")
	assert.Contains(t, md, "| a | 2 (100.0%) | 0 (0.0%) | 0 (0.0%) | int |")
	assert.Contains(t, md, "| b/c | 0 (0.0%) | 1 (50.0%) | 1 (50.0%) | NA |")

	empty, _ := inferString(t, inf, "")
	assert.NotContains(t, empty.Markdown(), "[CANDIDATES]")
}

func TestResultJSON(t *testing.T) {
	inf := newInferencer(t, intRegistry(t), nil)
	res, err := inf.Infer(context.Background(), strings.NewReader("a\n1\n"), nil)
	require.NoError(t, err)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, res.RunID, decoded["run_id"])
	assert.EqualValues(t, 1, decoded["num_rows"])
	assert.Equal(t, []any{"a"}, decoded["col_names"])
}

func TestCandidatesAreCopies(t *testing.T) {
	inf := newInferencer(t, intRegistry(t), nil)
	res, _ := inferString(t, inf, "a\n1\n")
	res.Candidates()["a"]["int"] = 99
	assert.EqualValues(t, 1, res.Candidates()["a"]["int"])
}

func TestValueCacheConcurrentAccess(t *testing.T) {
	c := newValueCache()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				v := string(rune('a' + i%26))
				c.store(v, g)
				if l, ok := c.lookup(v); ok {
					assert.True(t, l >= 0 && l < 8)
				}
				if i%100 == 0 {
					c.reset()
				}
			}
		}(g)
	}
	wg.Wait()
	c.reset()
	assert.Equal(t, 0, c.len())
}

func TestTransposeAndPromote(t *testing.T) {
	cols := initColumns([]string{"x"}, 4)
	c := cols[0]
	assert.Equal(t, []int{0, 1, 2, 3}, c.order)
	c.transpose(0)
	assert.Equal(t, []int{0, 1, 2, 3}, c.order)
	c.transpose(2)
	assert.Equal(t, []int{2, 1, 0, 3}, c.order)
	c.promote(3)
	assert.Equal(t, []int{3, 1, 0, 2}, c.order)
	c.promote(9)
	assert.Equal(t, []int{3, 1, 0, 2}, c.order)
	assert.Len(t, c.tally, 6)
}
