package review

import (
	"strings"
	"unicode/utf8"
)

var disciplineCodes = map[string]string{
	"Architectural":           "AR",
	"Civil & Structural":      "CS",
	"Electrical":              "EL",
	"Mechanical":              "ME",
	"Piping":                  "PI",
	"Project Management":      "PM",
	"Process":                 "PR",
	"Instrumentation":         "IC",
	"Building Services":       "BS",
	"Construction Management": "CO",
	"QAQC":                    "QA",
	"Safety":                  "SF",
}

// DisciplineCode maps a discipline name to its two-letter code. Unknown names
// fall back to the uppercased initials of their words, truncated to two.
func DisciplineCode(name string) string {
	if name == "" {
		return ""
	}
	if code, ok := disciplineCodes[name]; ok {
		return code
	}
	var b strings.Builder
	n := 0
	for _, w := range strings.Fields(name) {
		if n == 2 {
			break
		}
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(r)
		n++
	}
	return strings.ToUpper(b.String())
}
