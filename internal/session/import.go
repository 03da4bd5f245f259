package session

import (
	"fmt"

	"github.com/alusus-go/corelang/internal/astnode"
	"github.com/alusus-go/corelang/internal/notice"
)

// ResolveAndParse implements handler.ImportResolver: read path through the
// session's FileReader, parse it against the session's own StartSymbol
// (an imported file is itself a complete program, spliced into the
// importer's scope), and return its top-level definitions.
//
// File I/O and import-path search-path resolution are explicit Non-goals
// (spec.md §1); this is deliberately the minimal implementation needed to
// exercise the Import handler, not a module-resolution system.
func (s *Session) ResolveAndParse(path string) ([]*astnode.Node, error) {
	if s.Files == nil {
		err := fmt.Errorf("session: no FileReader configured, cannot import %q", path)
		s.Notices.Addf(notice.Error, NoticeImportFailed, notice.Location{}, "%s", err)
		return nil, err
	}
	src, err := s.Files.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("session: reading import %q: %w", path, err)
		s.Notices.Addf(notice.Error, NoticeImportFailed, notice.Location{}, "%s", err)
		return nil, err
	}

	root, err := s.Parse(path, s.StartSymbol, string(src))
	if err != nil {
		return nil, fmt.Errorf("session: parsing import %q: %w", path, err)
	}
	return root.Children, nil
}
