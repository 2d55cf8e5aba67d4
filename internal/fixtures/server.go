// internal/fixtures/server.go
package fixtures

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/mux"
)

// document is a registered servable page.
type document struct {
	body        []byte
	contentType string
}

// Server serves generated test documents on two origins: a primary origin and
// an alternate origin for cross-origin scenarios. Both origins share the same
// document registry, so a URL minted for either origin resolves on that origin
// only through its own base URL.
type Server struct {
	mu          sync.RWMutex
	docs        map[string]*document
	seq         int64
	primaryBase string
	altBase     string

	router  *mux.Router
	servers []*http.Server
}

// NewServer creates a fixture server with an empty document registry.
// Origins must be assigned with Start or SetOrigins before minting URLs.
func NewServer() *Server {
	s := &Server{
		docs: make(map[string]*document),
	}

	r := mux.NewRouter()
	r.HandleFunc("/inline/{id}", s.handleDocument).Methods(http.MethodGet)
	r.HandleFunc("/inline", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router = r

	return s
}

// Handler returns the shared HTTP handler. Tests mount it on httptest servers
// and assign the resulting base URLs with SetOrigins.
func (s *Server) Handler() http.Handler {
	return s.router
}

// SetOrigins assigns the base URLs documents are minted under.
func (s *Server) SetOrigins(primary, alt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.primaryBase = strings.TrimRight(primary, "/")
	s.altBase = strings.TrimRight(alt, "/")
}

// PrimaryOrigin returns the primary origin base URL.
func (s *Server) PrimaryOrigin() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.primaryBase
}

// AltOrigin returns the alternate origin base URL.
func (s *Server) AltOrigin() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.altBase
}

// Start listens on the two given addresses and serves documents on both.
// Passing ":0" style addresses is supported; the bound origins are derived
// from the actual listener addresses.
func (s *Server) Start(addr, altAddr string) error {
	primary, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on primary address %s: %w", addr, err)
	}

	alt, err := net.Listen("tcp", altAddr)
	if err != nil {
		primary.Close()
		return fmt.Errorf("failed to listen on alternate address %s: %w", altAddr, err)
	}

	s.SetOrigins("http://"+primary.Addr().String(), "http://"+alt.Addr().String())

	for _, l := range []net.Listener{primary, alt} {
		srv := &http.Server{Handler: s.router}
		s.servers = append(s.servers, srv)
		go srv.Serve(l)
	}

	return nil
}

// Stop shuts down both origin listeners.
func (s *Server) Stop(ctx context.Context) error {
	var firstErr error
	for _, srv := range s.servers {
		if err := srv.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.servers = nil
	return firstErr
}

// handleDocument serves a registered document by id.
func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.RLock()
	doc, ok := s.docs[id]
	s.mu.RUnlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", doc.contentType)
	// History-sensitive fixtures must never be satisfied from cache.
	w.Header().Set("Cache-Control", "no-store")
	w.Write(doc.body)
}

// handleRegister lets an out-of-process client mint document URLs over HTTP.
// The response body is the minted URL.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	content, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	var opts []InlineOption
	q := r.URL.Query()
	if domain := q.Get("domain"); domain != "" {
		opts = append(opts, WithDomain(domain))
	}
	if charset := q.Get("charset"); charset != "" {
		if !CharsetSupported(charset) {
			http.Error(w, fmt.Sprintf("unsupported charset %q", charset), http.StatusBadRequest)
			return
		}
		opts = append(opts, WithCharset(charset))
	}

	url := s.Inline(string(content), opts...)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, url)
}

// handleHealth reports liveness of the fixture server.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"status":"ok"}`)
}
