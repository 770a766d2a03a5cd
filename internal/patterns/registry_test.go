package patterns

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKeepsDeclarationOrder(t *testing.T) {
	reg, err := New([]Family{
		{Name: "hex", Patterns: []string{`^[0-9a-f]+$`}},
		{Name: "int", Patterns: []string{`^-?\d+$`}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, []string{"hex", "int"}, reg.Names())
	assert.Equal(t, []string{"hex", "int", LabelNA, LabelOther}, reg.Labels())

	i, ok := reg.Lookup("int")
	require.True(t, ok)
	assert.Equal(t, 1, i)
	assert.Equal(t, "int", reg.Name(i))
}

func TestMatchAtIsAnchored(t *testing.T) {
	reg, err := New([]Family{
		{Name: "digits", Patterns: []string{`\d+`}},
		{Name: "word", Patterns: []string{`^[a-z]+$`}},
		{Name: "alt", Patterns: []string{`a|ab`}},
	})
	require.NoError(t, err)

	cases := []struct {
		typ   int
		value string
		want  bool
	}{
		{0, "123", true},
		{0, "a123", false},
		{0, "123b", false},
		{0, "", false},
		{1, "abc", true},
		{1, "abc\n", false},
		{1, "ab1", false},
		{2, "ab", true},
		{2, "abc", false},
	}
	for _, tc := range cases {
		got, err := reg.MatchAt(tc.typ, tc.value)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "type %s value %q", reg.Name(tc.typ), tc.value)
	}
}

func TestMatchAtTriesEveryPattern(t *testing.T) {
	reg, err := New([]Family{{Name: "yesno", Patterns: []string{`^yes$`, `^no$`}}})
	require.NoError(t, err)
	ok, err := reg.MatchAt(0, "no")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPerlFeatures(t *testing.T) {
	// Lookahead and backreferences are outside RE2 but valid Perl syntax.
	reg, err := New([]Family{
		{Name: "pw", Patterns: []string{`^(?=.*\d)[a-z\d]{4,}$`}},
		{Name: "dbl", Patterns: []string{`^(\w)\1$`}},
	})
	require.NoError(t, err)

	ok, _ := reg.MatchAt(0, "abc1")
	assert.True(t, ok)
	ok, _ = reg.MatchAt(0, "abcd")
	assert.False(t, ok)
	ok, _ = reg.MatchAt(1, "zz")
	assert.True(t, ok)
	ok, _ = reg.MatchAt(1, "zy")
	assert.False(t, ok)
}

func TestShorthandClassesAreASCII(t *testing.T) {
	reg, err := New([]Family{
		{Name: "int", Patterns: []string{`-?\d+`}},
		{Name: "word", Patterns: []string{`\w+`}},
		{Name: "edge", Patterns: []string{`.*\bx`}},
	})
	require.NoError(t, err)

	for _, v := range []string{"123", "-7"} {
		ok, err := reg.MatchAt(0, v)
		require.NoError(t, err)
		assert.True(t, ok, v)
	}
	// Arabic-Indic, full-width and Devanagari digits.
	for _, v := range []string{"١٢٣", "１２", "४२"} {
		ok, err := reg.MatchAt(0, v)
		require.NoError(t, err)
		assert.False(t, ok, v)
	}

	ok, _ := reg.MatchAt(1, "snake_case9")
	assert.True(t, ok)
	ok, _ = reg.MatchAt(1, "café")
	assert.False(t, ok)

	// é is not a word character, so a boundary falls between it and x.
	ok, _ = reg.MatchAt(2, "éx")
	assert.True(t, ok)
	ok, _ = reg.MatchAt(2, "ax")
	assert.False(t, ok)
}

func TestNewRejectsBadPattern(t *testing.T) {
	_, err := New([]Family{
		{Name: "ok", Patterns: []string{`^a$`}},
		{Name: "broken", Patterns: []string{`^b$`, `(unclosed`}},
	})
	require.Error(t, err)
	var bp *BadPatternError
	require.True(t, errors.As(err, &bp))
	assert.Equal(t, "broken", bp.Type)
	assert.Equal(t, 1, bp.Index)
	assert.Equal(t, "(unclosed", bp.Pattern)
}

func TestNewRejectsReservedLabels(t *testing.T) {
	for _, name := range []string{LabelNA, LabelOther} {
		_, err := New([]Family{{Name: name, Patterns: []string{`x`}}})
		var rl *ReservedLabelError
		require.True(t, errors.As(err, &rl), "label %s", name)
		assert.Equal(t, name, rl.Label)
	}
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New([]Family{{Name: "a"}, {Name: "a"}})
	assert.ErrorIs(t, err, ErrDuplicateType)
}

func TestFromMapSortsNames(t *testing.T) {
	reg, err := FromMap(map[string][]string{
		"int":   {`^\d+$`},
		"alpha": {`^[a-z]+$`},
		"hex":   {`^[0-9a-f]+$`},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "hex", "int"}, reg.Names())
}

func TestSourcesRoundTrip(t *testing.T) {
	fams := Defaults()
	reg, err := New(fams)
	require.NoError(t, err)
	assert.Equal(t, fams, reg.Sources())
}

func TestDefaultsCompileAndClassify(t *testing.T) {
	reg, err := New(Defaults())
	require.NoError(t, err)

	first := func(v string) string {
		for i := 0; i < reg.Len(); i++ {
			ok, err := reg.MatchAt(i, v)
			require.NoError(t, err)
			if ok {
				return reg.Name(i)
			}
		}
		return LabelOther
	}
	assert.Equal(t, "alpha", first("abc"))
	assert.Equal(t, "float", first("-1.5"))
	assert.Equal(t, "int", first("+42"))
	// alpha and int precede bool, so bool only wins once reordered.
	assert.Equal(t, "alpha", first("waar"))
	bi, _ := reg.Lookup("bool")
	ok, err := reg.MatchAt(bi, "waar")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "date", first("2024-01-31"))
	assert.Equal(t, "date", first("31/01/2024"))
	assert.Equal(t, LabelOther, first("1.2.3.4.5"))
	assert.Contains(t, DefaultNAValues(), "NULL")
}

func TestParsePreservesOrder(t *testing.T) {
	src := []byte("zeta:\n  - '^z+$'\nalpha: '^[a-z]+$'\nint:\n  - '^\\d+$'\n  - '^-\\d+$'\n")
	fams, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, fams, 3)
	assert.Equal(t, "zeta", fams[0].Name)
	assert.Equal(t, []string{`^[a-z]+$`}, fams[1].Patterns)
	assert.Equal(t, []string{`^\d+$`, `^-\d+$`}, fams[2].Patterns)
}

func TestParseRejectsNonMapping(t *testing.T) {
	_, err := Parse([]byte("- a\n- b\n"))
	assert.Error(t, err)
	_, err = Parse([]byte("int:\n  nested: x\n"))
	assert.Error(t, err)
}

func TestEncodeThenLoadFile(t *testing.T) {
	b, err := Encode(Defaults())
	require.NoError(t, err)
	p := filepath.Join(t.TempDir(), "patterns.yaml")
	require.NoError(t, os.WriteFile(p, b, 0o644))

	fams, err := LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), fams)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
