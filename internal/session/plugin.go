package session

import "github.com/alusus-go/corelang/internal/parser"

// Plugin is the library-gateway contract spec.md §6.1 describes: an
// external library (Spp relative to the Core, in the spec's own example)
// installs additional productions and handlers into the grammar repository
// and may register runtime services on Initialize, and reverses exactly
// those changes on Uninitialize, "restoring the repository to its pre-init
// state by name". rootManager here is the Session itself — Plugin doesn't
// depend on a narrower interface because a plug-in legitimately needs the
// same surface the driver does (grammar, handlers, lexer, notices).
type Plugin interface {
	Initialize(s *Session) error
	Uninitialize(s *Session) error
}

// loadedPlugin records one successfully initialized plug-in so
// UnloadPlugins can reverse them in the right order.
type loadedPlugin struct {
	plugin Plugin
}

// LoadPlugin installs p's grammar productions, handlers, and runtime
// services by calling its Initialize. Plug-ins are loaded before any
// source input is consumed (spec.md §6.1); nothing here prevents calling
// it later, but doing so invalidates any parser state already built from
// the grammar's prior Version.
func (s *Session) LoadPlugin(p Plugin) error {
	if err := p.Initialize(s); err != nil {
		return err
	}
	s.plugins = append(s.plugins, loadedPlugin{plugin: p})
	return nil
}

// UnloadPlugins reverses every currently loaded plug-in's changes, most
// recently loaded first (so a plug-in built on top of an earlier one's
// productions is removed before the productions it depended on are).
func (s *Session) UnloadPlugins() error {
	for i := len(s.plugins) - 1; i >= 0; i-- {
		if err := s.plugins[i].plugin.Uninitialize(s); err != nil {
			return err
		}
	}
	s.plugins = nil
	return nil
}

// RegisterHandler is a convenience a Plugin's Initialize typically calls:
// installs h under symbol in the session's handler registry.
func (s *Session) RegisterHandler(symbol string, h parser.Handler) {
	s.Handlers.Register(symbol, h)
}
