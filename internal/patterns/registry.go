package patterns

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dlclark/regexp2"
)

const (
	// LabelNA is the reserved label for cells found in the NA token set.
	LabelNA = "NA"
	// LabelOther is the reserved label for cells no family matched.
	LabelOther = "other"
)

// ErrDuplicateType is returned when a type name is declared twice.
var ErrDuplicateType = errors.New("duplicate type name")

// BadPatternError reports a pattern source that failed to compile.
type BadPatternError struct {
	Type    string
	Index   int
	Pattern string
	Err     error
}

func (e *BadPatternError) Error() string {
	return fmt.Sprintf("bad pattern %d for type %q (%s): %v", e.Index, e.Type, e.Pattern, e.Err)
}

func (e *BadPatternError) Unwrap() error { return e.Err }

// ReservedLabelError reports a user type named after a reserved label.
type ReservedLabelError struct{ Label string }

func (e *ReservedLabelError) Error() string {
	return fmt.Sprintf("type name %q is reserved", e.Label)
}

// Family is a type name with its ordered pattern sources.
type Family struct {
	Name     string   `yaml:"name" json:"name"`
	Patterns []string `yaml:"patterns" json:"patterns"`
}

type compiledFamily struct {
	name    string
	sources []string
	res     []*regexp2.Regexp
}

// Registry holds compiled type families in declaration order. It is
// immutable once built and safe for concurrent use.
type Registry struct {
	families []compiledFamily
	index    map[string]int
}

// New compiles the families in the given order. Each source is matched
// against the whole cell, so "\d+" only accepts all-digit cells. The
// classes \d and \w and the \b boundary are ASCII-only.
func New(families []Family) (*Registry, error) {
	r := &Registry{
		families: make([]compiledFamily, 0, len(families)),
		index:    make(map[string]int, len(families)),
	}
	for _, f := range families {
		if f.Name == LabelNA || f.Name == LabelOther {
			return nil, &ReservedLabelError{Label: f.Name}
		}
		if _, dup := r.index[f.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateType, f.Name)
		}
		cf := compiledFamily{
			name:    f.Name,
			sources: append([]string(nil), f.Patterns...),
			res:     make([]*regexp2.Regexp, 0, len(f.Patterns)),
		}
		for i, src := range f.Patterns {
			re, err := regexp2.Compile(anchor(src), compileOptions)
			if err != nil {
				return nil, &BadPatternError{Type: f.Name, Index: i, Pattern: src, Err: err}
			}
			cf.res = append(cf.res, re)
		}
		r.index[f.Name] = len(r.families)
		r.families = append(r.families, cf)
	}
	return r, nil
}

// FromMap builds a registry from an unordered mapping. Type names are
// sorted so the initial attempt order is stable between runs.
func FromMap(m map[string][]string) (*Registry, error) {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	fams := make([]Family, 0, len(names))
	for _, n := range names {
		fams = append(fams, Family{Name: n, Patterns: m[n]})
	}
	return New(fams)
}

// ECMAScript mode keeps lookaround and backreferences but limits \d and
// \w to ASCII.
const compileOptions = regexp2.ECMAScript

// anchor wraps src so a match must span the entire input. \A and \z are
// used instead of ^ and $ because $ also matches before a final newline.
func anchor(src string) string {
	return `\A(?:` + src + `)\z`
}

// Len returns the number of user-declared types.
func (r *Registry) Len() int { return len(r.families) }

// Name returns the type name at position i.
func (r *Registry) Name(i int) string { return r.families[i].name }

// Lookup returns the position of a type name.
func (r *Registry) Lookup(name string) (int, bool) {
	i, ok := r.index[name]
	return i, ok
}

// Names returns the user type names in declaration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.families))
	for i, f := range r.families {
		out[i] = f.name
	}
	return out
}

// Labels returns the user type names followed by "NA" and "other".
func (r *Registry) Labels() []string {
	return append(r.Names(), LabelNA, LabelOther)
}

// Sources returns the families as declared, without compiled state.
func (r *Registry) Sources() []Family {
	out := make([]Family, len(r.families))
	for i, f := range r.families {
		out[i] = Family{Name: f.name, Patterns: append([]string(nil), f.sources...)}
	}
	return out
}

// MatchAt reports whether any pattern of the type at position i matches
// value in full. Patterns are tried in declaration order.
func (r *Registry) MatchAt(i int, value string) (bool, error) {
	f := &r.families[i]
	for j, re := range f.res {
		ok, err := re.MatchString(value)
		if err != nil {
			return false, fmt.Errorf("match %q pattern %d: %w", f.name, j, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
