// Package session bundles the process-wide/single-owner state spec.md §5's
// Shared-resource policy describes (grammar repository, identifier table,
// target-generator module) behind one façade, plus the state that genuinely
// is per-session (template-instantiation cache, notice store, cancellation
// flag). There is no single teacher file this is grounded on line-for-line
// — dekarrin-tunaq has no equivalent "one struct owns everything" object —
// but the shape itself (a struct gathering the pieces other packages were
// built to depend on only through narrow interfaces: handler.ImportResolver,
// astproc.Manager, astproc.PreprocessRunner) is exactly the DESIGN NOTE
// "global identifier table / plug-in global constructors" this package was
// written to resolve.
package session

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/alusus-go/corelang/internal/astnode"
	"github.com/alusus-go/corelang/internal/astproc"
	"github.com/alusus-go/corelang/internal/codegen"
	"github.com/alusus-go/corelang/internal/config"
	"github.com/alusus-go/corelang/internal/corelog"
	"github.com/alusus-go/corelang/internal/grammar"
	"github.com/alusus-go/corelang/internal/identity"
	"github.com/alusus-go/corelang/internal/lex"
	"github.com/alusus-go/corelang/internal/notice"
	"github.com/alusus-go/corelang/internal/parser"
	"github.com/alusus-go/corelang/internal/seeker"
	"github.com/alusus-go/corelang/internal/snapshot"
	"github.com/alusus-go/corelang/internal/targetgen"
)

// NoticeImportFailed is raised when an Import handler's path cannot be
// resolved and parsed.
const NoticeImportFailed notice.Code = "session.import-failed"

// FileReader abstracts the filesystem lookup an Import statement triggers.
// Real file I/O and import-path search-path resolution are an explicit
// Non-goal (spec.md §1); the default implementation here is the minimal
// os.ReadFile-backed one a driver needs to exercise the Import handler at
// all, not a fully worked-out module resolver.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// Session is one compilation run: a grammar repository, the identifier
// table it's built against, a notice store, the compiled lexer (rebuilt
// lazily whenever the grammar's Version() advances), the parser handler
// registry, the AST processor (its template-instantiation cache is owned
// per-Session, per spec.md §5's "to avoid cross-session leakage of freshly
// minted types"), and the code generator wired to one target backend.
type Session struct {
	ID uuid.UUID

	Identity *identity.Table
	Grammar  *grammar.Repository
	Notices  *notice.Store
	Handlers *parser.Registry

	StartSymbol    string
	MaxLiveStates  int
	MaxTokenLength int

	lexCompiler *lex.Compiler
	compiledAt  uint64
	scanner     *lex.Scanner

	Processor *astproc.Processor
	Target    targetgen.Generator
	Codegen   *codegen.Codegen

	Files     FileReader
	Logger    *corelog.Logger
	Snapshots *snapshot.Store

	plugins     []loadedPlugin
	cancelBuild bool
}

// Config collects the construction-time parameters a session needs.
// FromFileConfig builds one from a TOML-loaded internal/config Config
// (SPEC_FULL.md §3.3).
type Config struct {
	StartSymbol    string
	MaxLiveStates  int
	MaxTokenLength int
	Files          FileReader
	Target         targetgen.Generator
	Logger         *corelog.Logger
}

// FromFileConfig builds a session Config from a loaded internal/config
// Config (already FillDefaults-applied). The caller still supplies Files,
// Target, and Logger, since those are wiring decisions config.Config does
// not (and for Target, cannot yet) make on its own.
func FromFileConfig(fc config.Config, files FileReader, target targetgen.Generator, logger *corelog.Logger) Config {
	// forest.NewForest and lex.Compiler.SetMaxTokenLength both already treat
	// <= 0 as "no cap" / "use the built-in default", matching config.Config's
	// own negative-means-uncapped, zero-means-default conventions.
	return Config{
		StartSymbol:    fc.StartModule,
		MaxLiveStates:  fc.MaxLiveStates,
		MaxTokenLength: fc.MaxTokenLength,
		Files:          files,
		Target:         target,
		Logger:         logger,
	}
}

// New builds a Session with fresh identity table, grammar repository,
// notice store, handler registry, and AST processor. Codegen is wired to
// cfg.Target when one is given and left nil otherwise; callers construct
// the backend (e.g. a treewalk.Backend) themselves so this package doesn't
// have to import a concrete one.
func New(cfg Config) *Session {
	s := &Session{
		ID:             uuid.New(),
		Identity:       identity.NewTable(),
		Grammar:        grammar.NewRepository(),
		Notices:        notice.NewStore(),
		Handlers:       parser.NewRegistry(),
		StartSymbol:    cfg.StartSymbol,
		MaxLiveStates:  cfg.MaxLiveStates,
		MaxTokenLength: cfg.MaxTokenLength,
		lexCompiler:    lex.NewCompiler(),
		Target:         cfg.Target,
		Files:          cfg.Files,
		Logger:         cfg.Logger,
	}
	s.lexCompiler.SetMaxTokenLength(cfg.MaxTokenLength)
	s.Processor = astproc.NewProcessor(s.Notices, s, s)
	if s.Target != nil {
		s.Codegen = codegen.NewCodegen(s.Target, s.Notices)
	}
	return s
}

// Cancel sets the cooperative cancellation flag polled at suspension
// points (spec.md §5). CancelRequested reports it.
func (s *Session) Cancel()             { s.cancelBuild = true }
func (s *Session) CancelRequested() bool { return s.cancelBuild }

// LexCompiler returns the Compiler new token definitions (typically
// installed by a plug-in's Initialize) register against.
func (s *Session) LexCompiler() *lex.Compiler { return s.lexCompiler }

// Scanner returns a Scanner compiled from the current lexer definitions,
// recompiling only when the grammar's Version() has advanced since the
// last compile (SPEC_FULL.md §6.2: "token definitions compile to a
// lexmachine.Lexer per grammar version").
func (s *Session) Scanner() (*lex.Scanner, error) {
	v := s.Grammar.Version()
	if s.scanner != nil && s.compiledAt == v {
		return s.scanner, nil
	}
	sc, err := s.lexCompiler.Compile()
	if err != nil {
		return nil, fmt.Errorf("session: compiling lexer: %w", err)
	}
	s.scanner = sc
	s.compiledAt = v
	return sc, nil
}

// Parse lexes src under filename and parses it against startSymbol,
// running the token stream through a fresh parser.Forest built from the
// session's current grammar/handlers/notices.
func (s *Session) Parse(filename, startSymbol, src string) (*astnode.Node, error) {
	sc, err := s.Scanner()
	if err != nil {
		return nil, err
	}
	stream, err := sc.Tokens(filename, src, s.Notices)
	if err != nil {
		return nil, fmt.Errorf("session: lexing %s: %w", filename, err)
	}
	forest := parser.NewForest(s.Grammar, s.Handlers, s.Notices, filename, s.MaxLiveStates)
	if s.Logger != nil {
		forest.RegisterTraceListener(s.Logger.TraceSink())
	}
	return forest.Parse(startSymbol, stream.All())
}

// ProcessAST runs the AST processor's fixed-point macro/template/
// preprocess/pre-gen pass over root.
func (s *Session) ProcessAST(root *astnode.Node) {
	s.Processor.Process(root, seeker.NewContext())
}
