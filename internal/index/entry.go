package index

// State is the resolution state of a file name in the index.
type State uint8

const (
	// Unseen: no file with this name was found under the root.
	Unseen State = iota
	// Unique: exactly one file with this name was found.
	Unique
	// Ambiguous: two or more files share this name.
	Ambiguous
)

func (s State) String() string {
	switch s {
	case Unseen:
		return "unseen"
	case Unique:
		return "unique"
	case Ambiguous:
		return "ambiguous"
	}
	return "unknown"
}

// Entry is the value stored for one file name. Dir is set only when State
// is Unique; an empty Dir never stands for "ambiguous".
type Entry struct {
	State State
	Dir   string
}

// Resolved returns the directory for a Unique entry.
func (e Entry) Resolved() (string, bool) {
	if e.State != Unique {
		return "", false
	}
	return e.Dir, true
}
