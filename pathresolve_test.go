package jhp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fakeReadFile(files map[string]string) func(string) ([]byte, error) {
	return func(path string) ([]byte, error) {
		if data, ok := files[path]; ok {
			return []byte(data), nil
		}
		return nil, errors.New("not found")
	}
}

func TestResolveIncludeRootRelative(t *testing.T) {
	read := fakeReadFile(map[string]string{"/root/partials/a.jhp": "A"})
	r, ok := resolveInclude("/partials/a.jhp", "/root/pages", "/root", read)
	assert.True(t, ok)
	assert.Equal(t, "/root/partials/a.jhp", r.path)
	assert.Equal(t, "A", string(r.data))
}

func TestResolveIncludeRootRelativeFailsWithoutFallback(t *testing.T) {
	read := fakeReadFile(map[string]string{"/root/pages/partials/a.jhp": "A"})
	_, ok := resolveInclude("/partials/a.jhp", "/root/pages", "/root", read)
	assert.False(t, ok, "rule 1 must not fall through to cwd/root tiers")
}

func TestResolveIncludeOSAbsolute(t *testing.T) {
	// A leading "/" is always rule 1 (root-relative), even on a POSIX host,
	// so rule 2's OS-absolute form has to be exercised with a reference that
	// is absolute in its own notation without starting with "/": a Windows
	// drive letter or UNC path.
	read := fakeReadFile(map[string]string{`C:\sites\a.jhp`: "A"})
	r, ok := resolveInclude(`C:\sites\a.jhp`, "/root/pages", "/root", read)
	assert.True(t, ok)
	assert.Equal(t, `C:\sites\a.jhp`, r.path)
}

func TestResolveIncludeCwdRelative(t *testing.T) {
	read := fakeReadFile(map[string]string{"/root/pages/a.jhp": "A"})
	r, ok := resolveInclude("a.jhp", "/root/pages", "/root", read)
	assert.True(t, ok)
	assert.Equal(t, "/root/pages/a.jhp", r.path)
}

func TestResolveIncludeFallsBackToRoot(t *testing.T) {
	read := fakeReadFile(map[string]string{"/root/a.jhp": "A"})
	r, ok := resolveInclude("a.jhp", "/root/pages", "/root", read)
	assert.True(t, ok)
	assert.Equal(t, "/root/a.jhp", r.path)
}

func TestResolveIncludeDoesNotFallBackWhenCwdEqualsRoot(t *testing.T) {
	read := fakeReadFile(map[string]string{})
	_, ok := resolveInclude("missing.jhp", "/root", "/root", read)
	assert.False(t, ok)
}

func TestResolveIncludeNotFound(t *testing.T) {
	read := fakeReadFile(map[string]string{})
	_, ok := resolveInclude("nowhere.jhp", "/root/pages", "/root", read)
	assert.False(t, ok)
}
