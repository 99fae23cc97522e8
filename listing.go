package treeftp

import "strings"

// Entry is one parsed line of a directory listing. It carries only what the
// traversal needs: the entry name and its directory/file classification.
type Entry struct {
	Name  string
	IsDir bool
}

// ListingParser classifies one raw listing line. Implementations are not
// expected to validate lines beyond tokenization; callers skip entries whose
// extracted name is blank.
type ListingParser interface {
	// IsDir reports whether the line describes a directory.
	IsDir(line string) bool

	// Name extracts the entry name from the line. It returns the line
	// unchanged when it contains no whitespace, and "" for blank lines.
	Name(line string) string
}

// UnixListParser parses Unix-style LIST lines of the form
//
//	-rw-r--r-- 1 user group 1024 Jan 28 11:00 fileName.txt
//
// Classification looks only at the first byte of the permission string, and
// the name is the token after the last whitespace run. Lines that do not
// follow the fixed-width permission convention are classified as files, and
// names containing whitespace are truncated to their last token; both are
// known limitations of the LIST format, not corrected here.
type UnixListParser struct{}

// IsDir reports whether the line's first character marks a directory.
func (UnixListParser) IsDir(line string) bool {
	return strings.HasPrefix(line, "d")
}

// Name returns the token after the last whitespace run.
func (UnixListParser) Name(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
