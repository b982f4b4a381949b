package logscan

import "strings"

// Sanitize removes every double quote from line. Quoted arguments lose
// their quotes and quoted paths with spaces fall apart at the next step;
// both are known and accepted.
func Sanitize(line string) string {
	return strings.ReplaceAll(line, `"`, "")
}

// Tokenize splits line on runs of whitespace. A blank line yields an empty,
// non-nil slice.
func Tokenize(line string) []string {
	fields := strings.Fields(line)
	if fields == nil {
		return []string{}
	}
	return fields
}

// Tokens is the token list of one log line. The last token is expected to
// be the compiled file.
type Tokens struct {
	Line int
	Args []string
}
