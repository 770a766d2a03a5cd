package patterns

// Built-in families used when no pattern file is configured.
var (
	AlphaPatterns = []string{`^[a-zA-Z]+$`}
	FloatPatterns = []string{`^([-+]?\d*\.\d+)$`}
	IntPatterns   = []string{`^[-+]?\d+$`}
	BoolPatterns  = []string{`^(true|false|yes|no|ja|nee|y|n|j|0|1|t|f|waar|onwaar)$`}
	DatePatterns  = []string{
		`^(\d{1,2})(-|\.|/)(\d{1,2})(-|\.|/)(\d{2}|\d{4})(\s\d{1,2}:\d{1,2}:\d{1,2})?(\d{1,2}:\d{1,2})?$`,
		`^(\d{1,2})/(\d{1,2})/(\d{2}|\d{4})(\s\d{1,2}:\d{1,2}:\d{1,2})?(\d{1,2}:\d{1,2})?$`,
		`^(\d{2}|\d{4})(-|\.|/)(\d{1,2})(-|\.|/)(\d{1,2})(\s\d{1,2}:\d{1,2}:\d{1,2})?(\d{1,2}:\d{1,2})?`,
	}
)

// Defaults returns the built-in families: alpha, float, int, bool, date.
func Defaults() []Family {
	return []Family{
		{Name: "alpha", Patterns: append([]string(nil), AlphaPatterns...)},
		{Name: "float", Patterns: append([]string(nil), FloatPatterns...)},
		{Name: "int", Patterns: append([]string(nil), IntPatterns...)},
		{Name: "bool", Patterns: append([]string(nil), BoolPatterns...)},
		{Name: "date", Patterns: append([]string(nil), DatePatterns...)},
	}
}

// DefaultNAValues returns the common null tokens, including the ones
// spreadsheet tools write.
func DefaultNAValues() []string {
	return []string{
		"",
		"#N/A",
		"N/A",
		"#NA",
		"NA",
		"-1.#IND",
		"-1.#QNAN",
		"-NaN",
		"-nan",
		"1.#IND",
		"1.#QNAN",
		"NULL",
		"NaN",
		"n/a",
		"nan",
		"null",
	}
}
