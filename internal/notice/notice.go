// Package notice holds the diagnostic store used across the lexer, parser,
// and code generator. Notices are appended, never thrown; fatal severity
// only ever aborts the enclosing unit of work (a parser branch, a
// top-level statement), never the whole session.
package notice

import (
	"fmt"
	"strings"
)

// Severity is the level of a Notice. Ordering matters: it is used to decide
// whether a notice should affect a session's exit status.
type Severity int

const (
	Note Severity = iota
	Warning
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Note:
		return "note"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Location is a source position, optionally spanning to an end position.
type Location struct {
	File   string
	Line   int
	Col    int
	EndLine int
	EndCol  int
}

func (l Location) hasEnd() bool {
	return l.EndLine != 0 || l.EndCol != 0
}

// Code is a short, stable identifier for a kind of diagnostic, e.g.
// "unrecognized-char" or "cycle-detected". Codes are namespaced loosely by
// the taxonomy in spec.md §7 (lexical/syntactic/semantic/generator/runtime)
// but are otherwise just strings; new codes may be added additively without
// changing existing ones.
type Code string

// Notice is a single diagnostic.
type Notice struct {
	Severity Severity
	Code     Code
	Location Location
	Message  string

	// Includers records an includer stack (e.g. import chain) from
	// outermost to innermost, rendered as "\n  from " lines per spec.md
	// §6.3.
	Includers []Location
}

// String renders the notice as "severity:code:file:line:column: message",
// with any includer stack appended as "\n  from file:line:column".
func (n Notice) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s:%s:%s:%d:%d: %s",
		n.Severity, n.Code, n.Location.File, n.Location.Line, n.Location.Col, n.Message))
	for _, inc := range n.Includers {
		sb.WriteString(fmt.Sprintf("\n  from %s:%d:%d", inc.File, inc.Line, inc.Col))
	}
	return sb.String()
}

// SourceLineWithCursor returns line along with a cursor line pointing at
// Location.Col, for user-facing rendering. Grounded on
// tunascript.SyntaxError.SourceLineWithCursor.
func (n Notice) SourceLineWithCursor(line string) string {
	if line == "" {
		return ""
	}
	cursor := strings.Repeat(" ", maxInt(n.Location.Col-1, 0))
	return line + "\n" + cursor + "^"
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Store is an ordered sequence of notices with support for tentative,
// speculative accumulation: notices added to a tentative child store are
// committed to the parent only if that child's owning branch survives
// pruning (spec.md §3.6).
type Store struct {
	parent   *Store
	notices  []Notice
	children []*Store
}

// NewStore returns an empty, committed (non-tentative) root store.
func NewStore() *Store {
	return &Store{}
}

// Add appends n to the store.
func (s *Store) Add(n Notice) {
	s.notices = append(s.notices, n)
}

// Addf is a convenience wrapper that builds a Notice from a format string.
func (s *Store) Addf(sev Severity, code Code, loc Location, format string, args ...any) {
	s.Add(Notice{Severity: sev, Code: code, Location: loc, Message: fmt.Sprintf(format, args...)})
}

// Tentative returns a new child store. Notices added to the child are held
// apart from the parent until Commit or Discard is called.
func (s *Store) Tentative() *Store {
	child := &Store{parent: s}
	s.children = append(s.children, child)
	return child
}

// Commit appends this tentative store's own notices onto its parent. Notices
// held by its still-uncommitted children are not included; each child is
// committed on its own first. It is a no-op on a root store (one with no
// parent).
func (s *Store) Commit() {
	if s.parent == nil {
		return
	}
	s.parent.notices = append(s.parent.notices, s.notices...)
	s.notices = nil
}

// Discard drops all of this tentative store's notices without committing
// them to the parent. It is a no-op on a root store.
func (s *Store) Discard() {
	if s.parent == nil {
		return
	}
	s.notices = nil
	s.children = nil
}

// All returns every notice currently held directly by this store, in the
// order they were added. It does not recurse into uncommitted children.
func (s *Store) All() []Notice {
	out := make([]Notice, len(s.notices))
	copy(out, s.notices)
	return out
}

// HasErrorOrFatal returns whether any notice in this store (not counting
// uncommitted children) is of Error or Fatal severity. Used to determine a
// session's exit status per spec.md §7.
func (s *Store) HasErrorOrFatal() bool {
	for _, n := range s.notices {
		if n.Severity >= Error {
			return true
		}
	}
	return false
}

// Len returns the number of notices currently held directly by this store.
func (s *Store) Len() int {
	return len(s.notices)
}
