// internal/conformance/checks.go
package conformance

import (
	"context"
	"fmt"

	"github.com/valpere/BiDiConformer/internal/errors"
	"github.com/valpere/BiDiConformer/internal/fixtures"
	"github.com/valpere/BiDiConformer/internal/session"
)

// Checks returns the full history-traversal check suite in execution order.
func Checks() []Check {
	return []Check{
		{
			Name:        "top_level_contexts",
			Description: "history traversal in one tab leaves sibling tabs untouched",
			Run:         checkTopLevelContexts,
		},
		{
			Name:        "iframe_same_origin",
			Description: "history traversal inside a same-origin iframe",
			Run:         checkIframeSameOrigin,
		},
		{
			Name:        "iframe_cross_origin",
			Description: "history traversal inside a cross-origin iframe",
			Run:         checkIframeCrossOrigin,
		},
		{
			Name:        "back_then_forward",
			Description: "a backward traversal can be undone by a forward one",
			Run:         checkBackThenForward,
		},
		{
			Name:        "delta_zero_reloads_current",
			Description: "traversing by zero reloads the current entry",
			Run:         checkDeltaZero,
		},
		{
			Name:        "beyond_history_bounds",
			Description: "traversing past either end of history is rejected",
			Run:         checkBeyondBounds,
		},
		{
			Name:        "unknown_context",
			Description: "traversal on an unknown context is rejected",
			Run:         checkUnknownContext,
		},
	}
}

// FindCheck returns the named check, or nil when no such check exists.
func FindCheck(name string) *Check {
	for _, c := range Checks() {
		if c.Name == name {
			check := c
			return &check
		}
	}
	return nil
}

// assertURL reads the live URL of a context and compares it to expected.
func assertURL(ctx context.Context, env *Env, check, contextID, expected string) error {
	url, err := fixtures.CurrentURL(ctx, env.Session, contextID)
	if err != nil {
		return fmt.Errorf("failed to read url of %s: %w", contextID, err)
	}
	if url != expected {
		return errors.NewAssertion(check, "context %s url = %q, want %q", contextID, url, expected)
	}
	return nil
}

// checkTopLevelContexts navigates two independent tabs through the same two
// pages, traverses one tab back, and verifies the other tab kept its place.
func checkTopLevelContexts(ctx context.Context, env *Env) error {
	pages := []string{
		env.Fixtures.Inline("page 1"),
		env.Fixtures.Inline("page 2"),
	}

	var tabs []string
	for i := 0; i < 2; i++ {
		tab, cleanup, err := env.newTab(ctx)
		if err != nil {
			return fmt.Errorf("failed to open tab %d: %w", i+1, err)
		}
		defer cleanup()
		tabs = append(tabs, tab)
	}

	// Both tabs walk the same page sequence, pages outer so the histories
	// interleave the way independent windows would under a real user. Every
	// seed navigation is asserted to have landed before the next one.
	for _, page := range pages {
		for _, tab := range tabs {
			if err := env.navigate(ctx, tab, page); err != nil {
				return fmt.Errorf("failed to navigate %s: %w", tab, err)
			}
			if err := assertURL(ctx, env, "top_level_contexts", tab, page); err != nil {
				return err
			}
		}
	}

	if err := env.traverse(ctx, tabs[1], -1); err != nil {
		return fmt.Errorf("failed to traverse history: %w", err)
	}

	if err := env.waitForURL(ctx, tabs[1], pages[0]); err != nil {
		return errors.NewAssertion("top_level_contexts",
			"traversed tab did not reach %q: %v", pages[0], err)
	}

	// The converged URL must hold on a fresh read, and the sibling tab must
	// not have moved.
	if err := assertURL(ctx, env, "top_level_contexts", tabs[1], pages[0]); err != nil {
		return err
	}
	return assertURL(ctx, env, "top_level_contexts", tabs[0], pages[1])
}

func checkIframeSameOrigin(ctx context.Context, env *Env) error {
	return runIframeScenario(ctx, env, "iframe_same_origin")
}

func checkIframeCrossOrigin(ctx context.Context, env *Env) error {
	return runIframeScenario(ctx, env, "iframe_cross_origin", fixtures.WithAltDomain())
}

// runIframeScenario embeds an iframe, navigates the child context to a second
// document, traverses the child back, and verifies the child returned to the
// first document. Parent-page options control the embedding origin.
func runIframeScenario(ctx context.Context, env *Env, name string, pageOpts ...fixtures.InlineOption) error {
	frameURL1 := env.Fixtures.Inline("frame page 1")
	pageURL := env.Fixtures.Inline(
		fmt.Sprintf("<iframe src=%q></iframe>", frameURL1), pageOpts...)

	tab, cleanup, err := env.newTab(ctx)
	if err != nil {
		return fmt.Errorf("failed to open tab: %w", err)
	}
	defer cleanup()

	if err := env.navigate(ctx, tab, pageURL); err != nil {
		return fmt.Errorf("failed to navigate to embedding page: %w", err)
	}

	tree, err := env.Session.GetTree(ctx, tab)
	if err != nil {
		return fmt.Errorf("failed to read context tree: %w", err)
	}
	if len(tree) == 0 || len(tree[0].Children) == 0 {
		return errors.NewAssertion(name, "embedding page has no child context")
	}
	frame := tree[0].Children[0]
	if frame.URL != frameURL1 {
		return errors.NewAssertion(name,
			"frame loaded %q, want %q", frame.URL, frameURL1)
	}

	frameURL2 := env.Fixtures.Inline("frame page 2")
	if err := env.navigate(ctx, frame.Context, frameURL2); err != nil {
		return fmt.Errorf("failed to navigate frame: %w", err)
	}
	if err := assertURL(ctx, env, name, frame.Context, frameURL2); err != nil {
		return err
	}

	if err := env.traverse(ctx, frame.Context, -1); err != nil {
		return fmt.Errorf("failed to traverse frame history: %w", err)
	}

	if err := env.waitForURL(ctx, frame.Context, frameURL1); err != nil {
		return errors.NewAssertion(name,
			"frame did not return to %q: %v", frameURL1, err)
	}

	// The frame URL must hold on a fresh read, and the parent must not have
	// moved.
	if err := assertURL(ctx, env, name, frame.Context, frameURL1); err != nil {
		return err
	}
	return assertURL(ctx, env, name, tab, pageURL)
}

// checkBackThenForward verifies that forward entries survive a backward
// traversal and are reachable with a positive delta.
func checkBackThenForward(ctx context.Context, env *Env) error {
	pages := []string{
		env.Fixtures.Inline("page 1"),
		env.Fixtures.Inline("page 2"),
	}

	tab, cleanup, err := env.newTab(ctx)
	if err != nil {
		return fmt.Errorf("failed to open tab: %w", err)
	}
	defer cleanup()

	for _, page := range pages {
		if err := env.navigate(ctx, tab, page); err != nil {
			return fmt.Errorf("failed to navigate: %w", err)
		}
		if err := assertURL(ctx, env, "back_then_forward", tab, page); err != nil {
			return err
		}
	}

	if err := env.traverse(ctx, tab, -1); err != nil {
		return fmt.Errorf("failed to traverse backward: %w", err)
	}
	if err := env.waitForURL(ctx, tab, pages[0]); err != nil {
		return errors.NewAssertion("back_then_forward",
			"backward traversal did not reach %q: %v", pages[0], err)
	}

	if err := env.traverse(ctx, tab, 1); err != nil {
		return fmt.Errorf("failed to traverse forward: %w", err)
	}
	if err := env.waitForURL(ctx, tab, pages[1]); err != nil {
		return errors.NewAssertion("back_then_forward",
			"forward traversal did not reach %q: %v", pages[1], err)
	}

	return nil
}

// checkDeltaZero verifies that a zero delta reloads the current entry without
// moving the history position.
func checkDeltaZero(ctx context.Context, env *Env) error {
	pages := []string{
		env.Fixtures.Inline("page 1"),
		env.Fixtures.Inline("page 2"),
	}

	tab, cleanup, err := env.newTab(ctx)
	if err != nil {
		return fmt.Errorf("failed to open tab: %w", err)
	}
	defer cleanup()

	for _, page := range pages {
		if err := env.navigate(ctx, tab, page); err != nil {
			return fmt.Errorf("failed to navigate: %w", err)
		}
	}

	if err := env.traverse(ctx, tab, 0); err != nil {
		return fmt.Errorf("failed to traverse with zero delta: %w", err)
	}
	if err := env.waitForURL(ctx, tab, pages[1]); err != nil {
		return errors.NewAssertion("delta_zero_reloads_current",
			"context left %q after zero-delta traversal: %v", pages[1], err)
	}

	// Forward entries must still be absent: position did not move backward.
	if err := env.Session.TraverseHistory(ctx, tab, 1); !session.IsCode(err, session.CodeNoSuchHistoryEntry) {
		return errors.NewAssertion("delta_zero_reloads_current",
			"forward traversal after zero delta returned %v, want no such history entry", err)
	}

	return nil
}

// checkBeyondBounds verifies that deltas past either end of history fail with
// the history-entry error and leave the context in place.
func checkBeyondBounds(ctx context.Context, env *Env) error {
	page := env.Fixtures.Inline("page 1")

	tab, cleanup, err := env.newTab(ctx)
	if err != nil {
		return fmt.Errorf("failed to open tab: %w", err)
	}
	defer cleanup()

	if err := env.navigate(ctx, tab, page); err != nil {
		return fmt.Errorf("failed to navigate: %w", err)
	}

	for _, delta := range []int{-2, 2} {
		err := env.Session.TraverseHistory(ctx, tab, delta)
		if !session.IsCode(err, session.CodeNoSuchHistoryEntry) {
			return errors.NewAssertion("beyond_history_bounds",
				"traversal by %d returned %v, want no such history entry", delta, err)
		}
	}

	url, err := fixtures.CurrentURL(ctx, env.Session, tab)
	if err != nil {
		return fmt.Errorf("failed to read url: %w", err)
	}
	if url != page {
		return errors.NewAssertion("beyond_history_bounds",
			"rejected traversal moved context to %q, want %q", url, page)
	}

	return nil
}

// checkUnknownContext verifies that traversal on a context id the session has
// never issued fails with the frame error.
func checkUnknownContext(ctx context.Context, env *Env) error {
	err := env.Session.TraverseHistory(ctx, "no-such-context-id", -1)
	if !session.IsCode(err, session.CodeNoSuchFrame) {
		return errors.NewAssertion("unknown_context",
			"traversal on unknown context returned %v, want no such frame", err)
	}
	return nil
}
