package index

import (
	"os"
	"strings"
	"time"

	"github.com/zeebo/xxh3"
)

// racyWindow covers filesystems with coarse timestamps: an mtime this close
// to the walk may hide a later change with the same mtime.
const racyWindow = 2 * time.Second

// dirState identifies the listing of one directory as the walk saw it.
// ModTime 0 means the mtime was too fresh to trust.
type dirState struct {
	ModTime int64  `msgpack:"mtime"`
	Hi      uint64 `msgpack:"hi"`
	Lo      uint64 `msgpack:"lo"`
}

// isScratch matches the temporary files left by atomic replacement, such as
// ".compile_commands.json.123.tmp". They come and go between runs.
func isScratch(name string) bool {
	return strings.HasPrefix(name, ".") && strings.HasSuffix(name, ".tmp")
}

// listingHash fingerprints the entry names of a directory. entries must be
// sorted, as os.ReadDir returns them.
func listingHash(entries []os.DirEntry) xxh3.Uint128 {
	h := xxh3.New()
	for _, e := range entries {
		if isScratch(e.Name()) {
			continue
		}
		_, _ = h.WriteString(e.Name())
		_, _ = h.Write([]byte{0})
	}
	return h.Sum128()
}

func newDirState(modTime, walkStart time.Time, entries []os.DirEntry) dirState {
	sum := listingHash(entries)
	st := dirState{Hi: sum.Hi, Lo: sum.Lo}
	if modTime.Before(walkStart.Add(-racyWindow)) {
		st.ModTime = modTime.UnixNano()
	}
	return st
}

// current reports whether dir still lists the same names. An unchanged
// mtime settles it; otherwise the directory is read again and hashed, so
// rewriting a file in place does not count as a change.
func (s dirState) current(dir string) bool {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}
	if s.ModTime != 0 && info.ModTime().UnixNano() == s.ModTime {
		return true
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	return listingHash(entries) == xxh3.Uint128{Hi: s.Hi, Lo: s.Lo}
}
