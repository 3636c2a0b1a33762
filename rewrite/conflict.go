package rewrite

// declaratorNamesInRange scans a declarator list starting at index start
// (just past a const/let/var keyword) and returns the top-level
// (non-destructured) declared names together with the index of the token
// ending the list (a top-level ";", a closing bracket with no opener inside
// the list, or end of stream). Shared by Phase D's
// declared-name bookkeeping and Phase E's conflict check below.
func declaratorNamesInRange(toks []token, start int) ([]string, int) {
	var names []string
	depth := 0
	expectIdent := true
	i := start
	for i < len(toks) {
		t := toks[i]
		if t.kind == tokPunct {
			switch t.text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				depth--
				if depth < 0 {
					return names, i
				}
			case ";":
				if depth == 0 {
					return names, i
				}
			case ",":
				if depth == 0 {
					expectIdent = true
				}
			case "=":
				if depth == 0 {
					expectIdent = false
				}
			}
		} else if t.kind == tokIdent && depth == 0 && expectIdent {
			names = append(names, t.text)
			expectIdent = false
		}
		i++
	}
	return names, i
}

// lexicalDeclConflictsWithContext implements Phase E: a lexical
// declaration (const/let) whose declared names overlap with an
// already-bound context variable must not re-declare that name (the
// prelude already bound it); the declaration keyword is dropped entirely,
// turning the statement into a plain assignment to the pre-bound binding.
func lexicalDeclConflictsWithContext(names []string, context map[string]any) bool {
	for _, n := range names {
		if _, ok := context[n]; ok {
			return true
		}
	}
	return false
}
