// internal/browser/chrome.go
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/valpere/BiDiConformer/internal/session"
)

// Chrome implements session.Client on top of a real Chrome instance driven
// through chromedp. Each top-level browsing context maps to a chromedp tab
// context; nested contexts are resolved through the page frame tree.
type Chrome struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	config      *Config

	mu    sync.Mutex
	tabs  map[string]*chromeTab
	order []string
}

type chromeTab struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
}

// NewChrome launches a browser and returns a session backed by it.
func NewChrome(config *Config) (*Chrome, error) {
	if config == nil {
		config = DefaultConfig()
	}

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
		chromedp.NoSandbox, // Required for Docker environments
	}

	if config.Headless {
		opts = append(opts, chromedp.Headless)
	}
	if config.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(config.UserDataDir))
	}
	if config.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(config.UserAgent))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Chrome{
		allocCtx:    allocCtx,
		allocCancel: cancel,
		config:      config,
		tabs:        make(map[string]*chromeTab),
	}, nil
}

// NewContext opens a new tab and returns its target id as the context id.
func (c *Chrome) NewContext(ctx context.Context, typ session.ContextType) (string, error) {
	if typ != session.TypeTab && typ != session.TypeWindow {
		return "", session.InvalidArgument("unsupported context type %q", typ)
	}

	tabCtx, cancel := chromedp.NewContext(c.allocCtx)

	actions := []chromedp.Action{
		chromedp.EmulateViewport(int64(c.config.ViewportWidth), int64(c.config.ViewportHeight)),
	}
	if err := chromedp.Run(tabCtx, actions...); err != nil {
		cancel()
		return "", fmt.Errorf("failed to open tab: %w", err)
	}

	target := chromedp.FromContext(tabCtx).Target
	if target == nil {
		cancel()
		return "", fmt.Errorf("failed to resolve tab target")
	}

	tab := &chromeTab{
		id:     string(target.TargetID),
		ctx:    tabCtx,
		cancel: cancel,
	}

	c.mu.Lock()
	c.tabs[tab.id] = tab
	c.order = append(c.order, tab.id)
	c.mu.Unlock()

	return tab.id, nil
}

// Navigate loads url in the given context. Top-level navigations block until
// the load event; frame navigations additionally wait for the frame tree to
// report the target URL when wait is "complete".
func (c *Chrome) Navigate(ctx context.Context, contextID, url string, wait session.ReadinessState) (*session.NavigateResult, error) {
	tab, frameID, top, err := c.resolve(contextID)
	if err != nil {
		return nil, err
	}

	if top {
		if err := chromedp.Run(tab.ctx, chromedp.Navigate(url)); err != nil {
			return nil, fmt.Errorf("navigation to %s failed: %w", url, err)
		}
		return &session.NavigateResult{URL: url}, nil
	}

	err = chromedp.Run(tab.ctx, chromedp.ActionFunc(func(cctx context.Context) error {
		_, _, errText, _, err := page.Navigate(url).WithFrameID(frameID).Do(cctx)
		if err != nil {
			return err
		}
		if errText != "" {
			return fmt.Errorf("%s", errText)
		}
		return nil
	}))
	if err != nil {
		return nil, fmt.Errorf("frame navigation to %s failed: %w", url, err)
	}

	if wait == session.ReadinessComplete {
		if err := c.waitFrameURL(tab, frameID, url); err != nil {
			return nil, err
		}
	}

	return &session.NavigateResult{URL: url}, nil
}

// TraverseHistory moves the context's history pointer by delta entries. Tabs
// use the navigation history of their target; frames traverse through their
// own window history, evaluated in an isolated world scoped to the frame.
func (c *Chrome) TraverseHistory(ctx context.Context, contextID string, delta int) error {
	tab, frameID, top, err := c.resolve(contextID)
	if err != nil {
		return err
	}

	if top {
		return chromedp.Run(tab.ctx, chromedp.ActionFunc(func(cctx context.Context) error {
			index, entries, err := page.GetNavigationHistory().Do(cctx)
			if err != nil {
				return fmt.Errorf("failed to read navigation history: %w", err)
			}

			target := int(index) + delta
			if target < 0 || target >= len(entries) {
				return session.NoSuchHistoryEntry(delta, int(index), len(entries))
			}

			return page.NavigateToHistoryEntry(entries[target].ID).Do(cctx)
		}))
	}

	return chromedp.Run(tab.ctx, chromedp.ActionFunc(func(cctx context.Context) error {
		world, err := page.CreateIsolatedWorld(frameID).Do(cctx)
		if err != nil {
			return fmt.Errorf("failed to create frame execution context: %w", err)
		}

		expr := fmt.Sprintf("history.go(%d)", delta)
		_, exc, err := runtime.Evaluate(expr).WithContextID(world).Do(cctx)
		if err != nil {
			return fmt.Errorf("frame history traversal failed: %w", err)
		}
		if exc != nil {
			return fmt.Errorf("frame history traversal threw: %s", exc.Text)
		}
		return nil
	}))
}

// GetTree returns the browsing-context tree across all open tabs.
func (c *Chrome) GetTree(ctx context.Context, root string) ([]*session.ContextInfo, error) {
	c.mu.Lock()
	order := append([]string(nil), c.order...)
	tabs := make(map[string]*chromeTab, len(c.tabs))
	for id, tab := range c.tabs {
		tabs[id] = tab
	}
	c.mu.Unlock()

	infos := make([]*session.ContextInfo, 0, len(order))
	for _, id := range order {
		tree, err := frameTree(tabs[id])
		if err != nil {
			return nil, err
		}
		infos = append(infos, convertFrameTree(tree, ""))
	}

	if root == "" {
		return infos, nil
	}

	if info := session.FindContext(infos, root); info != nil {
		return []*session.ContextInfo{info}, nil
	}
	return nil, session.NoSuchFrame(root)
}

// CloseContext closes a tab.
func (c *Chrome) CloseContext(ctx context.Context, contextID string) error {
	c.mu.Lock()
	tab, ok := c.tabs[contextID]
	if ok {
		delete(c.tabs, contextID)
		for i, id := range c.order {
			if id == contextID {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
	}
	c.mu.Unlock()

	if !ok {
		return session.InvalidArgument("context %s is not a top-level context", contextID)
	}

	tab.cancel()
	return nil
}

// Close shuts down every tab and the browser process.
func (c *Chrome) Close() error {
	c.mu.Lock()
	tabs := c.tabs
	c.tabs = make(map[string]*chromeTab)
	c.order = nil
	c.mu.Unlock()

	for _, tab := range tabs {
		tab.cancel()
	}
	c.allocCancel()
	return nil
}

// resolve maps a context id to its owning tab and, for nested contexts, the
// frame id within that tab.
func (c *Chrome) resolve(contextID string) (*chromeTab, cdp.FrameID, bool, error) {
	c.mu.Lock()
	if tab, ok := c.tabs[contextID]; ok {
		c.mu.Unlock()
		return tab, cdp.FrameID(contextID), true, nil
	}
	tabs := make([]*chromeTab, 0, len(c.order))
	for _, id := range c.order {
		tabs = append(tabs, c.tabs[id])
	}
	c.mu.Unlock()

	for _, tab := range tabs {
		tree, err := frameTree(tab)
		if err != nil {
			return nil, "", false, err
		}
		if findFrame(tree, cdp.FrameID(contextID)) {
			return tab, cdp.FrameID(contextID), false, nil
		}
	}

	return nil, "", false, session.NoSuchFrame(contextID)
}

// waitFrameURL polls the frame tree until the frame reports the expected URL.
func (c *Chrome) waitFrameURL(tab *chromeTab, frameID cdp.FrameID, url string) error {
	deadline := time.Now().Add(c.config.Timeout)
	for {
		tree, err := frameTree(tab)
		if err != nil {
			return err
		}
		if u, ok := frameURL(tree, frameID); ok && u == url {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("frame %s did not reach %s within %s", frameID, url, c.config.Timeout)
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func frameTree(tab *chromeTab) (*page.FrameTree, error) {
	var tree *page.FrameTree
	err := chromedp.Run(tab.ctx, chromedp.ActionFunc(func(cctx context.Context) error {
		t, err := page.GetFrameTree().Do(cctx)
		if err != nil {
			return err
		}
		tree = t
		return nil
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to read frame tree: %w", err)
	}
	return tree, nil
}

func convertFrameTree(tree *page.FrameTree, parent string) *session.ContextInfo {
	info := &session.ContextInfo{
		Context:  string(tree.Frame.ID),
		URL:      tree.Frame.URL + tree.Frame.URLFragment,
		Parent:   parent,
		Children: make([]*session.ContextInfo, 0, len(tree.ChildFrames)),
	}
	for _, child := range tree.ChildFrames {
		info.Children = append(info.Children, convertFrameTree(child, info.Context))
	}
	return info
}

func findFrame(tree *page.FrameTree, frameID cdp.FrameID) bool {
	if tree.Frame.ID == frameID {
		return true
	}
	for _, child := range tree.ChildFrames {
		if findFrame(child, frameID) {
			return true
		}
	}
	return false
}

func frameURL(tree *page.FrameTree, frameID cdp.FrameID) (string, bool) {
	if tree.Frame.ID == frameID {
		return tree.Frame.URL + tree.Frame.URLFragment, true
	}
	for _, child := range tree.ChildFrames {
		if u, ok := frameURL(child, frameID); ok {
			return u, true
		}
	}
	return "", false
}
