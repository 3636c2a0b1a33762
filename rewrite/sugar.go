package rewrite

import "strings"

// dollarMethods is the set of names recognized as `$`-methods for the
// purpose of Phase A sugar expansion; ReservedMethodNames also returns it as
// the set of names $.extend refuses. Kept in sync with the runtime object's
// reserved method names.
var dollarMethods = map[string]bool{
	"context": true, "define": true, "echo": true, "include": true,
	"obOpen": true, "obClose": true, "obStatus": true,
	"if": true, "elseif": true, "else": true, "end": true,
	"version": true, "extend": true, "conditionalScope": true,
}

// expandSugar rewrites every occurrence of `$ident` where ident names a
// known `$`-method into `$.ident`. An unrecognized `$ident` (including a
// bare `$` used as an ordinary identifier, or `$` already followed by `.`)
// is left untouched. Occurrences inside string, template, regex, and
// comment literals are never touched. On a scan failure the source is
// returned unmodified.
func expandSugar(src string) string {
	toks, err := scan(src)
	if err != nil {
		return src
	}
	var b strings.Builder
	b.Grow(len(src) + 16)
	pos := 0
	for _, t := range toks {
		b.WriteString(src[pos:t.start])
		if t.kind == tokIdent && len(t.text) > 1 && t.text[0] == '$' {
			name := t.text[1:]
			if dollarMethods[name] {
				b.WriteString("$.")
				b.WriteString(name)
				pos = t.end
				continue
			}
		}
		b.WriteString(t.text)
		pos = t.end
	}
	b.WriteString(src[pos:])
	return b.String()
}
