// Package charstream supplies the character-level input sources that feed
// the lexer: a batch source reading an entire file or buffer at once, and
// an interactive source prompting for input line-by-line over a TTY
// (spec.md §6.4).
//
// Generalized from internal/input's DirectCommandReader/InteractiveCommandReader
// pair, which drew one whole line per ReadCommand call; here both sources
// hand back the complete accumulated source text at once (batch lexing
// wants the whole buffer up front), but the interactive source still
// reads and echoes a prompt per physical line, numbering prompts the way
// a REPL does.
package charstream

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// Source produces the full source text to be lexed.
type Source interface {
	// ReadAll blocks until the source is fully consumed (EOF for a batch
	// source; a terminating blank line, or Close, for an interactive one)
	// and returns the accumulated text.
	ReadAll() (string, error)

	// Close releases any resources (terminal state, history file) held by
	// the source.
	Close() error
}

// BatchSource reads an entire io.Reader up front. It does not sanitize
// control or escape sequences; use it for files and other non-TTY input.
type BatchSource struct {
	r io.Reader
}

// NewBatchSource wraps r as a Source.
func NewBatchSource(r io.Reader) *BatchSource {
	return &BatchSource{r: r}
}

// ReadAll reads r to completion.
func (b *BatchSource) ReadAll() (string, error) {
	var sb strings.Builder
	buf := bufio.NewReader(b.r)
	if _, err := io.Copy(&sb, buf); err != nil {
		return "", fmt.Errorf("charstream: reading batch input: %w", err)
	}
	return sb.String(), nil
}

// Close is a no-op for BatchSource; it owns no external resources.
func (b *BatchSource) Close() error { return nil }

// InteractiveSource reads source text line-by-line from a TTY using the
// GNU-readline-alike github.com/chzyer/readline, prompting with the
// current line number each time, e.g. "1>> ", "2>> ". Input ends at the
// first blank line.
type InteractiveSource struct {
	rl       *readline.Instance
	lineNum  int
	promptFn func(line int) string
}

// NewInteractiveSource initializes readline for interactive input.
func NewInteractiveSource() (*InteractiveSource, error) {
	is := &InteractiveSource{
		lineNum:  1,
		promptFn: defaultPrompt,
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt: is.promptFn(is.lineNum),
	})
	if err != nil {
		return nil, fmt.Errorf("charstream: initializing readline: %w", err)
	}
	is.rl = rl
	return is, nil
}

func defaultPrompt(line int) string {
	return fmt.Sprintf("%d>> ", line)
}

// SetPromptFunc overrides how the per-line prompt is rendered.
func (is *InteractiveSource) SetPromptFunc(f func(line int) string) {
	is.promptFn = f
}

// Close tears down the readline instance.
func (is *InteractiveSource) Close() error {
	return is.rl.Close()
}

// ReadAll reads lines, updating the prompt's line number each time, until
// a blank line is entered or the underlying terminal reports EOF.
func (is *InteractiveSource) ReadAll() (string, error) {
	var sb strings.Builder
	for {
		is.rl.SetPrompt(is.promptFn(is.lineNum))
		line, err := is.rl.Readline()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				break
			}
			return "", fmt.Errorf("charstream: reading interactive input: %w", err)
		}
		if strings.TrimSpace(line) == "" {
			break
		}
		sb.WriteString(line)
		sb.WriteRune('\n')
		is.lineNum++
	}
	return sb.String(), nil
}
