// Package corelog renders notices and decision narration to a console
// using github.com/pterm/pterm, the way
// npillmayer-gorgo/terex/terexlang/trepl renders its own REPL output
// (pterm.Info/pterm.Error prefixed printers, pterm.DefaultTree for
// structured dumps). Generalized from one-off pterm.Info.Println calls to
// an injectable Logger so a caller can direct output anywhere (a real
// terminal, a captured buffer in a test, the inspect package's HTTP
// responses) rather than writing through pterm's process-global default
// writer.
package corelog

import (
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"

	"github.com/alusus-go/corelang/internal/astnode"
	"github.com/alusus-go/corelang/internal/notice"
)

// Logger writes styled notice and trace output to an io.Writer.
type Logger struct {
	w         io.Writer
	showNotes bool
}

// NewLogger returns a Logger writing to w (os.Stdout if w is nil).
func NewLogger(w io.Writer) *Logger {
	if w == nil {
		w = os.Stdout
	}
	return &Logger{w: w}
}

// SetVerbose controls whether Note-severity notices are rendered at all;
// they are suppressed by default the way pterm.EnableDebugMessages gates
// pterm.Debug in the trepl REPL.
func (l *Logger) SetVerbose(v bool) { l.showNotes = v }

func printerFor(sev notice.Severity) pterm.PrefixPrinter {
	switch sev {
	case notice.Note:
		return pterm.Debug
	case notice.Warning:
		return pterm.Warning
	case notice.Fatal:
		return pterm.Fatal
	case notice.Error:
		return pterm.Error
	default:
		return pterm.Info
	}
}

// LogNotice renders one notice at its severity's styled prefix. Fatal
// severity here means "aborted the enclosing unit of work" (spec.md §6.3),
// never the whole process, so this always uses pterm's Sprint form rather
// than the Print form that would call os.Exit.
func (l *Logger) LogNotice(n notice.Notice) {
	if n.Severity == notice.Note && !l.showNotes {
		return
	}
	p := printerFor(n.Severity)
	fmt.Fprintln(l.w, p.Sprint(n.String()))
}

// LogNotices renders every notice currently in store, in order.
func (l *Logger) LogNotices(store *notice.Store) {
	for _, n := range store.All() {
		l.LogNotice(n)
	}
}

// Sink is the narration-callback shape internal/ictiobus/parse.lrParser
// calls its trace listener with: one line per traced event.
type Sink func(s string)

// TraceSink returns a Sink rendering each line at debug severity, suitable
// for parser.Forest.RegisterTraceListener.
func (l *Logger) TraceSink() Sink {
	return func(s string) {
		fmt.Fprintln(l.w, pterm.Debug.Sprint(s))
	}
}

// RenderTree renders root and its descendants as an indented tree, grounded
// on trepl's indentedListFrom/pterm.DefaultTree.WithRoot(...).Render usage,
// generalized from an s-expression list to an astnode.Node.
func (l *Logger) RenderTree(root *astnode.Node) error {
	rendered, err := pterm.DefaultTree.WithRoot(treeNodeFor(root)).Srender()
	if err != nil {
		return fmt.Errorf("corelog: rendering tree: %w", err)
	}
	fmt.Fprintln(l.w, rendered)
	return nil
}

func treeNodeFor(n *astnode.Node) pterm.TreeNode {
	if n == nil {
		return pterm.TreeNode{Text: "<nil>"}
	}
	text := n.Kind.String()
	if n.Name != "" {
		text = fmt.Sprintf("%s %q", text, n.Name)
	}
	tn := pterm.TreeNode{Text: text}
	for _, c := range n.Children {
		tn.Children = append(tn.Children, treeNodeFor(c))
	}
	for _, slot := range n.ChildPointers() {
		if *slot == nil {
			continue
		}
		already := false
		for _, c := range n.Children {
			if c == *slot {
				already = true
				break
			}
		}
		if !already {
			tn.Children = append(tn.Children, treeNodeFor(*slot))
		}
	}
	return tn
}
