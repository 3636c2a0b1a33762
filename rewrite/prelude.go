package rewrite

import (
	"sort"
	"strings"

	"github.com/caboodle-tech/jhp-go/value"
)

// buildPrelude implements Phase C: one binding per registered constant,
// followed by one binding per current context variable, each rendered via
// the value serializer. Constants render with `const`; Phase D later
// rewrites every lexical declaration (including these) to a rebindable
// form, so the keyword choice here only documents intent.
func buildPrelude(constants, context map[string]any) string {
	var b strings.Builder
	for _, name := range sortedKeys(constants) {
		b.WriteString("const ")
		b.WriteString(name)
		b.WriteString(" = ")
		b.WriteString(value.Serialize(constants[name]))
		b.WriteString(";\n")
	}
	for _, name := range sortedKeys(context) {
		if _, isConst := constants[name]; isConst {
			continue
		}
		b.WriteString("let ")
		b.WriteString(name)
		b.WriteString(" = ")
		b.WriteString(value.Serialize(context[name]))
		b.WriteString(";\n")
	}
	return b.String()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
