package inference

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/KaramelBytes/csvtype-cli/internal/patterns"
)

// ErrInvalidOptions is wrapped by every option validation failure.
var ErrInvalidOptions = errors.New("invalid options")

// Options controls a type inference run.
type Options struct {
	// Delimiter separates input fields. If 0, ',' is used.
	Delimiter rune
	// NAValues are exact cell strings counted as "NA".
	NAValues []string
	// Multithreading classifies the cells of a row in parallel, one task per column.
	Multithreading bool
	// SaveTypesFile writes a parallel file of type labels.
	SaveTypesFile bool
	// TypesFilepath is the types file path. Empty means "<input>.ctypes".
	TypesFilepath string
	// RollingCacheWindow clears the value cache every W data rows.
	RollingCacheWindow int
	// ReorderOnCacheHit applies transpose-to-front on cache hits as well as misses.
	ReorderOnCacheHit bool
	// Logger receives run diagnostics. Nil discards them.
	Logger logrus.FieldLogger
}

// DefaultOptions returns comma-delimited, sequential options with the
// built-in NA tokens and a window of 5 rows.
func DefaultOptions() Options {
	return Options{
		Delimiter:          ',',
		NAValues:           patterns.DefaultNAValues(),
		RollingCacheWindow: 5,
	}
}

// Validate checks option values that would otherwise fail mid-run.
func (o Options) Validate() error {
	if o.RollingCacheWindow < 1 {
		return fmt.Errorf("%w: rolling cache window must be positive, got %d", ErrInvalidOptions, o.RollingCacheWindow)
	}
	switch d := o.Delimiter; {
	case d == 0:
	case d == '\r' || d == '\n' || d == '"' || d == utf8.RuneError || !utf8.ValidRune(d):
		return fmt.Errorf("%w: unusable delimiter %q", ErrInvalidOptions, d)
	}
	return nil
}

func (o Options) delimiter() rune {
	if o.Delimiter == 0 {
		return ','
	}
	return o.Delimiter
}
