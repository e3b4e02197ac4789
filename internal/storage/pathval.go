package storage

import (
	"path"
	"path/filepath"
	"strings"
)

// ValidatePath reports whether a caller-supplied relative path is safe to
// resolve inside a namespace root. The path is normalized first; anything
// whose cleaned form is absolute or escapes upward through a ".." segment is
// rejected. The empty string cleans to "." and is allowed, since it denotes
// the namespace root for listing.
func ValidatePath(p string) bool {
	cleaned := path.Clean(filepath.ToSlash(p))
	if cleaned == "." {
		return true
	}
	if path.IsAbs(cleaned) {
		return false
	}
	return cleaned != ".." && !strings.HasPrefix(cleaned, "../")
}
