package inference

import (
	"fmt"

	"github.com/KaramelBytes/csvtype-cli/internal/patterns"
)

// run is the mutable state of one inference pass.
type run struct {
	reg          *patterns.Registry
	na           map[string]struct{}
	reorderOnHit bool
	cache        *valueCache
	cols         []*column
	labels       []string
	labelNA      int
	labelOther   int
}

func newRun(reg *patterns.Registry, opt Options) *run {
	na := make(map[string]struct{}, len(opt.NAValues))
	for _, v := range opt.NAValues {
		na[v] = struct{}{}
	}
	n := reg.Len()
	return &run{
		reg:          reg,
		na:           na,
		reorderOnHit: opt.ReorderOnCacheHit,
		cache:        newValueCache(),
		labels:       reg.Labels(),
		labelNA:      n,
		labelOther:   n + 1,
	}
}

// classify resolves the label of value in column c and counts it.
// NA tokens bypass the cache. A cache miss walks the column's attempt
// order and moves the winning type to the front.
func (r *run) classify(value string, c int) (int, error) {
	if c < 0 || c >= len(r.cols) {
		return 0, fmt.Errorf("column %d of %d: %w", c, len(r.cols), ErrShapeMismatch)
	}
	col := r.cols[c]

	if _, ok := r.na[value]; ok {
		col.tally[r.labelNA]++
		return r.labelNA, nil
	}

	if label, ok := r.cache.lookup(value); ok {
		if r.reorderOnHit && label != r.labelOther {
			col.promote(label)
		}
		col.tally[label]++
		return label, nil
	}

	label := r.labelOther
	for i, typ := range col.order {
		ok, err := r.reg.MatchAt(typ, value)
		if err != nil {
			return 0, fmt.Errorf("column %q: %w", col.name, err)
		}
		if ok {
			label = typ
			col.transpose(i)
			break
		}
	}
	r.cache.store(value, label)
	col.tally[label]++
	return label, nil
}
