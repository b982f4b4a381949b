package compdb

import "strings"

// pathSeparators are recognised on every host: build logs from Windows
// carry backslash paths even when converted elsewhere.
const pathSeparators = `/\`

// SplitPath splits p at its last separator. Trailing separators are
// ignored, so "src/a.cpp/" splits like "src/a.cpp". dir is everything
// before the separator with repeated separators dropped (a lone leading
// separator is kept, so "/a.c" has dir "/"), name is everything after it.
// A path without separators has an empty dir.
func SplitPath(p string) (dir, name string) {
	trimmed := strings.TrimRight(p, pathSeparators)
	if trimmed == "" {
		// пусто или одни разделители
		if p == "" {
			return "", ""
		}
		return p[:1], ""
	}
	i := strings.LastIndexAny(trimmed, pathSeparators)
	if i < 0 {
		return "", trimmed
	}
	dir, name = strings.TrimRight(trimmed[:i], pathSeparators), trimmed[i+1:]
	if dir == "" {
		dir = trimmed[:1]
	}
	return dir, name
}

// validFileName reports whether name can be the final component of a file
// path: "." and ".." name directories.
func validFileName(name string) bool {
	return name != "" && name != "." && name != ".."
}
