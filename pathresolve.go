package jhp

import (
	"errors"
	"path/filepath"
	"strings"
)

var errNoReadFile = errors.New("no ReadFile function configured on Engine")

// resolved is what resolveInclude returns on success: the concrete path it
// settled on, and the bytes read from it (read once, not re-read by the
// caller).
type resolved struct {
	path string
	data []byte
}

// resolveInclude implements the three-tier include path search (§4.2).
// Rules are tried in order and the first applicable one wins outright --
// rules 1 and 2 do not fall through to the cwd/root tiers on failure, only
// rules 3 and 4 form a fallback chain between themselves.
func resolveInclude(ref, cwd, root string, readFile func(string) ([]byte, error)) (resolved, bool) {
	try := func(p string) (resolved, bool) {
		data, err := readFile(p)
		if err != nil {
			return resolved{}, false
		}
		return resolved{path: p, data: data}, true
	}

	if strings.HasPrefix(ref, "/") {
		return try(filepath.Join(root, strings.TrimPrefix(ref, "/")))
	}
	if isOSAbsolute(ref) {
		return try(ref)
	}
	if r, ok := try(filepath.Join(cwd, ref)); ok {
		return r, true
	}
	if cwd != root {
		if r, ok := try(filepath.Join(root, ref)); ok {
			return r, true
		}
	}
	return resolved{}, false
}

// isOSAbsolute reports whether ref is absolute in a platform's own notation
// that rule 1 does not already claim: a Windows drive letter (C:\...) or a
// UNC path (\\...). filepath.IsAbs is not usable here -- on POSIX it is true
// exactly when ref starts with "/", which rule 1 always matches first, so a
// naive filepath.IsAbs check makes this rule permanently unreachable on a
// POSIX host. isDriveLetter is shared with driver.go's looksLikePath check.
func isOSAbsolute(ref string) bool {
	if strings.HasPrefix(ref, `\\`) {
		return true
	}
	return len(ref) >= 3 && isDriveLetter(ref[0]) && ref[1] == ':' && (ref[2] == '\\' || ref[2] == '/')
}
