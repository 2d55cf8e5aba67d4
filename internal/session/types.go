// internal/session/types.go
package session

import (
	"context"
)

// ReadinessState controls how long a navigation blocks before returning.
type ReadinessState string

const (
	// ReadinessNone returns as soon as the navigation is initiated.
	ReadinessNone ReadinessState = "none"
	// ReadinessInteractive returns once the document is interactive.
	ReadinessInteractive ReadinessState = "interactive"
	// ReadinessComplete returns once the document has fully loaded.
	ReadinessComplete ReadinessState = "complete"
)

// ContextType identifies the kind of top-level browsing context to create.
type ContextType string

const (
	TypeTab    ContextType = "tab"
	TypeWindow ContextType = "window"
)

// ContextInfo describes a browsing context and its nested children.
// Children are reported in document order.
type ContextInfo struct {
	Context  string         `json:"context"`
	URL      string         `json:"url"`
	Parent   string         `json:"parent,omitempty"`
	Children []*ContextInfo `json:"children"`
}

// NavigateResult reports the outcome of a completed navigation.
type NavigateResult struct {
	URL        string `json:"url"`
	Navigation string `json:"navigation,omitempty"`
}

// Client is the remote-control session surface the harness drives. Implementations
// wrap a pre-existing automation client or an in-memory model; they do not speak
// the wire protocol themselves.
type Client interface {
	// NewContext creates a new top-level browsing context and returns its id.
	NewContext(ctx context.Context, typ ContextType) (string, error)

	// Navigate loads url in the given browsing context, blocking per wait.
	Navigate(ctx context.Context, contextID, url string, wait ReadinessState) (*NavigateResult, error)

	// TraverseHistory moves the context's history pointer by delta entries.
	// Negative deltas move backward. A delta outside the history bounds
	// fails with a no-such-history-entry error.
	TraverseHistory(ctx context.Context, contextID string, delta int) error

	// GetTree returns the browsing-context tree. An empty root returns all
	// top-level contexts; a context id returns the subtree rooted there.
	GetTree(ctx context.Context, root string) ([]*ContextInfo, error)

	// CloseContext closes a top-level browsing context.
	CloseContext(ctx context.Context, contextID string) error

	// Close releases the session and every context it owns.
	Close() error
}

// FindContext locates a context by id within a descriptor tree.
func FindContext(tree []*ContextInfo, contextID string) *ContextInfo {
	for _, info := range tree {
		if info.Context == contextID {
			return info
		}
		if found := FindContext(info.Children, contextID); found != nil {
			return found
		}
	}
	return nil
}
