package inference

import "strconv"

// untitledPrefix names columns with an empty header. The spelling is kept
// because types files and reports written by earlier releases use it.
const untitledPrefix = "Unitled_"

// column holds the per-column tally and attempt order. Only the task for
// this column touches it during a row, so it needs no lock.
type column struct {
	name string
	// tally is indexed by label: user types, then NA, then other.
	tally []uint64
	// order lists user type indexes in the order they are tried.
	order []int
}

// initColumns builds one column per header field, synthesizing names for
// empty headers.
func initColumns(header []string, numTypes int) []*column {
	cols := make([]*column, len(header))
	untitled := 0
	for c, h := range header {
		name := h
		if name == "" {
			untitled++
			name = untitledPrefix + strconv.Itoa(untitled)
		}
		order := make([]int, numTypes)
		for i := range order {
			order[i] = i
		}
		cols[c] = &column{
			name:  name,
			tally: make([]uint64, numTypes+2),
			order: order,
		}
	}
	return cols
}

// transpose swaps position i with the head of the attempt order.
func (c *column) transpose(i int) {
	if i > 0 {
		c.order[0], c.order[i] = c.order[i], c.order[0]
	}
}

// promote transposes the given type index to the front, if present.
func (c *column) promote(typ int) {
	for i, t := range c.order {
		if t == typ {
			c.transpose(i)
			return
		}
	}
}
