package index

import "strings"

// Extension returns the extension of a bare file name without the leading
// dot. A name without a dot, a dot-file such as ".gitignore" and a name
// ending in a dot have no extension.
func Extension(name string) string {
	if name == "" || name == "." || name == ".." {
		return ""
	}
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return ""
	}
	return name[i+1:]
}

// HasExtension reports whether name has a non-empty extension.
func HasExtension(name string) bool {
	return Extension(name) != ""
}
