// internal/browser/sim.go
package browser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/valpere/BiDiConformer/internal/session"
)

const aboutBlank = "about:blank"

// Sim is an in-memory browsing-context model implementing session.Client.
// It keeps a per-context history stack with an independent pointer, fetches
// documents over HTTP from the fixture server, and materializes nested
// contexts from the iframes a fetched document embeds. It exists so the
// harness and its checks can be exercised without a real browser.
type Sim struct {
	mu       sync.Mutex
	client   *http.Client
	contexts map[string]*simContext
	tops     []*simContext
	seq      int
	closed   bool
}

type historyEntry struct {
	url string
}

type simContext struct {
	id       string
	parent   *simContext
	children []*simContext
	history  []historyEntry
	// index is the history pointer; -1 means no entry has loaded yet.
	index int
}

// NewSim creates an in-memory session.
func NewSim(config *SimConfig) *Sim {
	if config == nil {
		config = DefaultSimConfig()
	}

	return &Sim{
		client:   &http.Client{Timeout: config.HTTPTimeout},
		contexts: make(map[string]*simContext),
	}
}

// NewContext creates a new top-level browsing context at about:blank.
func (s *Sim) NewContext(ctx context.Context, typ session.ContextType) (string, error) {
	if typ != session.TypeTab && typ != session.TypeWindow {
		return "", session.InvalidArgument("unsupported context type %q", typ)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", fmt.Errorf("session is closed")
	}

	sc := &simContext{
		id:      s.nextID(),
		history: []historyEntry{{url: aboutBlank}},
		index:   0,
	}
	s.contexts[sc.id] = sc
	s.tops = append(s.tops, sc)

	return sc.id, nil
}

// Navigate loads a document in the given context. The initial about:blank
// entry is replaced rather than pushed; any forward entries are discarded.
func (s *Sim) Navigate(ctx context.Context, contextID, target string, wait session.ReadinessState) (*session.NavigateResult, error) {
	switch wait {
	case session.ReadinessNone, session.ReadinessInteractive, session.ReadinessComplete:
	default:
		return nil, session.InvalidArgument("unsupported readiness state %q", wait)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.contexts[contextID]
	if !ok {
		return nil, session.NoSuchFrame(contextID)
	}

	if err := s.navigateLocked(ctx, sc, target); err != nil {
		return nil, err
	}

	return &session.NavigateResult{URL: target}, nil
}

// TraverseHistory moves the context's history pointer by delta entries and
// restores the document at the target entry. Forward entries survive backward
// traversal. Delta zero reloads the current entry.
func (s *Sim) TraverseHistory(ctx context.Context, contextID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.contexts[contextID]
	if !ok {
		return session.NoSuchFrame(contextID)
	}

	target := sc.index + delta
	if target < 0 || target >= len(sc.history) {
		return session.NoSuchHistoryEntry(delta, sc.index, len(sc.history))
	}

	sc.index = target
	return s.restoreLocked(ctx, sc)
}

// GetTree returns a snapshot of the browsing-context tree.
func (s *Sim) GetTree(ctx context.Context, root string) ([]*session.ContextInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if root == "" {
		infos := make([]*session.ContextInfo, 0, len(s.tops))
		for _, sc := range s.tops {
			infos = append(infos, snapshot(sc, ""))
		}
		return infos, nil
	}

	sc, ok := s.contexts[root]
	if !ok {
		return nil, session.NoSuchFrame(root)
	}

	parent := ""
	if sc.parent != nil {
		parent = sc.parent.id
	}
	return []*session.ContextInfo{snapshot(sc, parent)}, nil
}

// CloseContext closes a top-level browsing context and its frame subtree.
func (s *Sim) CloseContext(ctx context.Context, contextID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.contexts[contextID]
	if !ok {
		return session.NoSuchFrame(contextID)
	}
	if sc.parent != nil {
		return session.InvalidArgument("context %s is not a top-level context", contextID)
	}

	s.detachLocked(sc)
	for i, top := range s.tops {
		if top == sc {
			s.tops = append(s.tops[:i], s.tops[i+1:]...)
			break
		}
	}
	delete(s.contexts, contextID)

	return nil
}

// Close releases the session and every context it owns.
func (s *Sim) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.contexts = make(map[string]*simContext)
	s.tops = nil
	s.closed = true
	return nil
}

// navigateLocked records a new history entry and loads the document.
func (s *Sim) navigateLocked(ctx context.Context, sc *simContext, target string) error {
	doc, err := s.fetch(ctx, target)
	if err != nil {
		return err
	}

	if sc.index >= 0 {
		// A new navigation discards any forward entries.
		sc.history = sc.history[:sc.index+1]
	}

	if len(sc.history) == 1 && sc.history[0].url == aboutBlank && sc.index == 0 {
		// The initial empty document is replaced, not pushed.
		sc.history[0] = historyEntry{url: target}
	} else {
		sc.history = append(sc.history, historyEntry{url: target})
		sc.index = len(sc.history) - 1
	}

	return s.loadChildrenLocked(ctx, sc, target, doc)
}

// restoreLocked reloads the document at the current history entry without
// touching the history stack.
func (s *Sim) restoreLocked(ctx context.Context, sc *simContext) error {
	target := sc.history[sc.index].url
	doc, err := s.fetch(ctx, target)
	if err != nil {
		return err
	}
	return s.loadChildrenLocked(ctx, sc, target, doc)
}

// loadChildrenLocked replaces the context's frame subtree with the iframes the
// document embeds. Each child context starts its own history with the frame's
// initial load.
func (s *Sim) loadChildrenLocked(ctx context.Context, sc *simContext, baseURL, doc string) error {
	for _, child := range sc.children {
		s.detachLocked(child)
	}
	sc.children = nil

	frames, err := frameSources(baseURL, doc)
	if err != nil {
		return err
	}

	for _, src := range frames {
		child := &simContext{
			id:     s.nextID(),
			parent: sc,
			index:  -1,
		}
		s.contexts[child.id] = child
		sc.children = append(sc.children, child)

		if err := s.navigateLocked(ctx, child, src); err != nil {
			return fmt.Errorf("failed to load frame %s: %w", src, err)
		}
	}

	return nil
}

// detachLocked removes a context subtree from the registry.
func (s *Sim) detachLocked(sc *simContext) {
	for _, child := range sc.children {
		s.detachLocked(child)
	}
	sc.children = nil
	delete(s.contexts, sc.id)
}

// fetch retrieves a document body. about:blank is the empty document.
func (s *Sim) fetch(ctx context.Context, target string) (string, error) {
	if target == aboutBlank {
		return "", nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", session.InvalidArgument("malformed url %q: %v", target, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to load %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("failed to load %s: status %d", target, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", target, err)
	}

	return string(body), nil
}

// frameSources extracts absolute iframe source URLs from a document, in
// document order.
func frameSources(baseURL, doc string) ([]string, error) {
	if strings.TrimSpace(doc) == "" {
		return nil, nil
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("malformed document url %q: %w", baseURL, err)
	}

	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document from %s: %w", baseURL, err)
	}

	var sources []string
	parsed.Find("iframe[src]").Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok || src == "" {
			return
		}
		ref, err := url.Parse(src)
		if err != nil {
			return
		}
		sources = append(sources, base.ResolveReference(ref).String())
	})

	return sources, nil
}

func (s *Sim) nextID() string {
	s.seq++
	return fmt.Sprintf("context-%d", s.seq)
}

// snapshot converts a context subtree into descriptor form.
func snapshot(sc *simContext, parent string) *session.ContextInfo {
	info := &session.ContextInfo{
		Context:  sc.id,
		URL:      currentURL(sc),
		Parent:   parent,
		Children: make([]*session.ContextInfo, 0, len(sc.children)),
	}
	for _, child := range sc.children {
		info.Children = append(info.Children, snapshot(child, sc.id))
	}
	return info
}

func currentURL(sc *simContext) string {
	if sc.index < 0 || sc.index >= len(sc.history) {
		return aboutBlank
	}
	return sc.history[sc.index].url
}
