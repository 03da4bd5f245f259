// Package inspect serves a read-only HTTP introspection view of a running
// session's notice store and grammar repository tree (SPEC_FULL.md §4
// domain stack: "debug aid, not a compiler driver"). Grounded on
// server/api/api.go's router/EndpointFunc/httpEndpoint/panicTo500 shape,
// trimmed to the read-only subset this package needs: no auth, no JWT, no
// request bodies, GET routes only.
package inspect

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5"

	"github.com/alusus-go/corelang/internal/grammar"
	"github.com/alusus-go/corelang/internal/session"
	"github.com/alusus-go/corelang/internal/version"
)

// PathPrefix is the prefix every route in this package is mounted under.
const PathPrefix = "/inspect/v1"

// Server holds the session an inspect router reads from.
type Server struct {
	Session *session.Session
}

// NewRouter builds a chi.Router exposing s's notice store and grammar
// repository tree under PathPrefix. The returned router has no other
// middleware attached; a caller mounting it alongside an authenticated API
// should wrap it itself (SPEC_FULL.md names this a debug aid, not a
// production-facing endpoint).
func NewRouter(s *session.Session) chi.Router {
	srv := &Server{Session: s}

	r := chi.NewRouter()
	r.Route(PathPrefix, func(r chi.Router) {
		r.Get("/health", endpoint(srv.epHealth))
		r.Get("/notices", endpoint(srv.epNotices))
		r.Get("/grammar", endpoint(srv.epGrammarTree))
		r.Get("/grammar/{module}", endpoint(srv.epGrammarModule))
	})
	return r
}

// endpointFunc returns an (httpStatus, body, error) triple; endpoint wraps
// it as an http.HandlerFunc that marshals body as JSON on success and a
// plain-text error otherwise, recovering from panics the way
// api.httpEndpoint's panicTo500 does.
type endpointFunc func(req *http.Request) (int, interface{}, error)

func endpoint(ep endpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer recoverTo500(w, req)

		status, body, err := ep(req)
		if err != nil {
			log.Printf("inspect: %s %s: %s", req.Method, req.URL.Path, err)
			http.Error(w, err.Error(), status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if body != nil {
			if encErr := json.NewEncoder(w).Encode(body); encErr != nil {
				log.Printf("inspect: encoding response: %s", encErr)
			}
		}
	}
}

func recoverTo500(w http.ResponseWriter, req *http.Request) {
	if p := recover(); p != nil {
		log.Printf("inspect: panic handling %s %s: %v\n%s", req.Method, req.URL.Path, p, debug.Stack())
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (s *Server) epHealth(req *http.Request) (int, interface{}, error) {
	return http.StatusOK, map[string]string{
		"status":         "ok",
		"version":        version.Current,
		"session_id":     s.Session.ID.String(),
		"grammar_version": fmt.Sprintf("%d", s.Session.Grammar.Version()),
	}, nil
}

// noticeView is the JSON-facing projection of a notice.Notice.
type noticeView struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	File     string `json:"file"`
	Line     int    `json:"line"`
	Col      int    `json:"col"`
	Message  string `json:"message"`
}

func (s *Server) epNotices(req *http.Request) (int, interface{}, error) {
	all := s.Session.Notices.All()
	out := make([]noticeView, len(all))
	for i, n := range all {
		out[i] = noticeView{
			Severity: n.Severity.String(),
			Code:     string(n.Code),
			File:     n.Location.File,
			Line:     n.Location.Line,
			Col:      n.Location.Col,
			Message:  n.Message,
		}
	}
	return http.StatusOK, out, nil
}

// moduleView is the JSON-facing projection of a grammar.Module, recursively
// including its submodules.
type moduleView struct {
	Name       string       `json:"name"`
	Symbols    []string     `json:"symbols"`
	CharGroups []string     `json:"char_groups"`
	Modules    []moduleView `json:"modules"`
}

func buildModuleView(m *grammar.Module) moduleView {
	names := m.ModuleNames()
	children := make([]moduleView, 0, len(names))
	for _, name := range names {
		if child, ok := m.SubModule(name); ok {
			children = append(children, buildModuleView(child))
		}
	}
	return moduleView{
		Name:       m.Name,
		Symbols:    m.SymbolNames(),
		CharGroups: m.CharGroupNames(),
		Modules:    children,
	}
}

func (s *Server) epGrammarTree(req *http.Request) (int, interface{}, error) {
	return http.StatusOK, buildModuleView(s.Session.Grammar.Root()), nil
}

func (s *Server) epGrammarModule(req *http.Request) (int, interface{}, error) {
	name := chi.URLParam(req, "module")
	if name == "" {
		return http.StatusBadRequest, nil, fmt.Errorf("module name not given")
	}

	root := s.Session.Grammar.Root()
	child, ok := root.SubModule(name)
	if !ok {
		return http.StatusNotFound, nil, fmt.Errorf("no such module: %q", name)
	}
	return http.StatusOK, buildModuleView(child), nil
}
