package questiongen

import "strings"

// explanationReplacer rewrites explanation text in order: escape sequences
// are unescaped first, then quote characters are folded into the Japanese
// closing bracket, then doubled brackets are collapsed.
var explanationReplacements = []struct{ from, to string }{
	{`\"`, `"`},
	{`\'`, `'`},
	{`\\`, `\`},
	{`"`, "」"},
	{`'`, "」"},
	{"`", "」"},
	{"「「", "「"},
	{"」」", "」"},
}

// NormalizeExplanation strips stray escapes and quote characters from a
// Japanese explanation. The result contains no double quotes, single
// quotes, backticks, or backslash escapes, and is trimmed. Applying it
// twice yields the same output.
func NormalizeExplanation(text string) string {
	if text == "" {
		return text
	}
	s := text
	for _, r := range explanationReplacements {
		s = strings.ReplaceAll(s, r.from, r.to)
	}
	return strings.TrimSpace(s)
}
