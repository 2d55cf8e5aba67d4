// internal/browser/sim_test.go
package browser

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/valpere/BiDiConformer/internal/fixtures"
	"github.com/valpere/BiDiConformer/internal/session"
)

func newTestFixtures(t *testing.T) *fixtures.Server {
	t.Helper()

	fx := fixtures.NewServer()
	primary := httptest.NewServer(fx.Handler())
	alt := httptest.NewServer(fx.Handler())
	t.Cleanup(primary.Close)
	t.Cleanup(alt.Close)
	fx.SetOrigins(primary.URL, alt.URL)

	return fx
}

func mustNewTab(t *testing.T, sim *Sim) string {
	t.Helper()

	id, err := sim.NewContext(context.Background(), session.TypeTab)
	if err != nil {
		t.Fatalf("failed to create context: %v", err)
	}
	return id
}

func currentURLOf(t *testing.T, sim *Sim, contextID string) string {
	t.Helper()

	url, err := fixtures.CurrentURL(context.Background(), sim, contextID)
	if err != nil {
		t.Fatalf("failed to read current url of %s: %v", contextID, err)
	}
	return url
}

func TestSimNewContextStartsBlank(t *testing.T) {
	sim := NewSim(nil)
	defer sim.Close()

	id := mustNewTab(t, sim)
	if url := currentURLOf(t, sim, id); url != "about:blank" {
		t.Errorf("expected about:blank, got %s", url)
	}

	if _, err := sim.NewContext(context.Background(), session.ContextType("popup")); !session.IsCode(err, session.CodeInvalidArgument) {
		t.Errorf("expected invalid argument for unknown context type, got %v", err)
	}
}

func TestSimNavigateReplacesInitialEntry(t *testing.T) {
	fx := newTestFixtures(t)
	sim := NewSim(nil)
	defer sim.Close()

	id := mustNewTab(t, sim)
	page := fx.Inline("<div>page 1</div>")

	if _, err := sim.Navigate(context.Background(), id, page, session.ReadinessComplete); err != nil {
		t.Fatalf("navigation failed: %v", err)
	}
	if url := currentURLOf(t, sim, id); url != page {
		t.Errorf("expected %s, got %s", page, url)
	}

	// about:blank was replaced, so there is nothing to go back to.
	err := sim.TraverseHistory(context.Background(), id, -1)
	if !session.IsCode(err, session.CodeNoSuchHistoryEntry) {
		t.Errorf("expected no such history entry, got %v", err)
	}
}

func TestSimBackwardTraversal(t *testing.T) {
	fx := newTestFixtures(t)
	sim := NewSim(nil)
	defer sim.Close()

	id := mustNewTab(t, sim)
	ctx := context.Background()

	pages := []string{
		fx.Inline("<div>page 1</div>"),
		fx.Inline("<div>page 2</div>"),
		fx.Inline("<div>page 3</div>"),
	}
	for _, page := range pages {
		if _, err := sim.Navigate(ctx, id, page, session.ReadinessComplete); err != nil {
			t.Fatalf("navigation to %s failed: %v", page, err)
		}
	}

	if err := sim.TraverseHistory(ctx, id, -2); err != nil {
		t.Fatalf("traversal failed: %v", err)
	}
	if url := currentURLOf(t, sim, id); url != pages[0] {
		t.Errorf("expected %s after going back two entries, got %s", pages[0], url)
	}
}

func TestSimForwardEntriesSurviveBackwardTraversal(t *testing.T) {
	fx := newTestFixtures(t)
	sim := NewSim(nil)
	defer sim.Close()

	id := mustNewTab(t, sim)
	ctx := context.Background()

	first := fx.Inline("<div>first</div>")
	second := fx.Inline("<div>second</div>")
	for _, page := range []string{first, second} {
		if _, err := sim.Navigate(ctx, id, page, session.ReadinessComplete); err != nil {
			t.Fatalf("navigation failed: %v", err)
		}
	}

	if err := sim.TraverseHistory(ctx, id, -1); err != nil {
		t.Fatalf("backward traversal failed: %v", err)
	}
	if err := sim.TraverseHistory(ctx, id, 1); err != nil {
		t.Fatalf("forward traversal failed: %v", err)
	}
	if url := currentURLOf(t, sim, id); url != second {
		t.Errorf("expected %s after forward traversal, got %s", second, url)
	}
}

func TestSimNavigationTruncatesForwardEntries(t *testing.T) {
	fx := newTestFixtures(t)
	sim := NewSim(nil)
	defer sim.Close()

	id := mustNewTab(t, sim)
	ctx := context.Background()

	first := fx.Inline("<div>first</div>")
	second := fx.Inline("<div>second</div>")
	third := fx.Inline("<div>third</div>")

	for _, page := range []string{first, second} {
		if _, err := sim.Navigate(ctx, id, page, session.ReadinessComplete); err != nil {
			t.Fatalf("navigation failed: %v", err)
		}
	}
	if err := sim.TraverseHistory(ctx, id, -1); err != nil {
		t.Fatalf("backward traversal failed: %v", err)
	}
	if _, err := sim.Navigate(ctx, id, third, session.ReadinessComplete); err != nil {
		t.Fatalf("navigation failed: %v", err)
	}

	// The entry for second was discarded by the new navigation.
	if err := sim.TraverseHistory(ctx, id, 1); !session.IsCode(err, session.CodeNoSuchHistoryEntry) {
		t.Errorf("expected no such history entry after truncation, got %v", err)
	}
}

func TestSimDeltaZeroReloadsCurrentEntry(t *testing.T) {
	fx := newTestFixtures(t)
	sim := NewSim(nil)
	defer sim.Close()

	id := mustNewTab(t, sim)
	ctx := context.Background()

	page := fx.Inline("<div>page</div>")
	if _, err := sim.Navigate(ctx, id, page, session.ReadinessComplete); err != nil {
		t.Fatalf("navigation failed: %v", err)
	}

	if err := sim.TraverseHistory(ctx, id, 0); err != nil {
		t.Fatalf("delta zero traversal failed: %v", err)
	}
	if url := currentURLOf(t, sim, id); url != page {
		t.Errorf("expected %s after reload, got %s", page, url)
	}
}

func TestSimIframeContextsFromDocument(t *testing.T) {
	fx := newTestFixtures(t)
	sim := NewSim(nil)
	defer sim.Close()

	id := mustNewTab(t, sim)
	ctx := context.Background()

	frameURL := fx.Inline("frame content")
	pageURL := fx.Inline(fmt.Sprintf("<iframe src='%s'></iframe>", frameURL))

	if _, err := sim.Navigate(ctx, id, pageURL, session.ReadinessComplete); err != nil {
		t.Fatalf("navigation failed: %v", err)
	}

	tree, err := sim.GetTree(ctx, id)
	if err != nil {
		t.Fatalf("get tree failed: %v", err)
	}
	if len(tree) != 1 || len(tree[0].Children) != 1 {
		t.Fatalf("expected one child context, got %+v", tree)
	}

	frame := tree[0].Children[0]
	if frame.URL != frameURL {
		t.Errorf("expected frame at %s, got %s", frameURL, frame.URL)
	}
	if frame.Parent != id {
		t.Errorf("expected frame parent %s, got %s", id, frame.Parent)
	}
}

func TestSimNestedIframes(t *testing.T) {
	fx := newTestFixtures(t)
	sim := NewSim(nil)
	defer sim.Close()

	id := mustNewTab(t, sim)
	ctx := context.Background()

	inner := fx.Inline("innermost")
	middle := fx.Inline(fmt.Sprintf("<iframe src='%s'></iframe>", inner))
	outer := fx.Inline(fmt.Sprintf("<iframe src='%s'></iframe>", middle))

	if _, err := sim.Navigate(ctx, id, outer, session.ReadinessComplete); err != nil {
		t.Fatalf("navigation failed: %v", err)
	}

	tree, err := sim.GetTree(ctx, id)
	if err != nil {
		t.Fatalf("get tree failed: %v", err)
	}
	if len(tree[0].Children) != 1 || len(tree[0].Children[0].Children) != 1 {
		t.Fatalf("expected two nested frame levels, got %+v", tree)
	}
	if got := tree[0].Children[0].Children[0].URL; got != inner {
		t.Errorf("expected innermost frame at %s, got %s", inner, got)
	}
}

func TestSimUnknownContext(t *testing.T) {
	sim := NewSim(nil)
	defer sim.Close()

	ctx := context.Background()

	if _, err := sim.Navigate(ctx, "missing", "about:blank", session.ReadinessComplete); !session.IsCode(err, session.CodeNoSuchFrame) {
		t.Errorf("expected no such frame on navigate, got %v", err)
	}
	if err := sim.TraverseHistory(ctx, "missing", -1); !session.IsCode(err, session.CodeNoSuchFrame) {
		t.Errorf("expected no such frame on traversal, got %v", err)
	}
	if _, err := sim.GetTree(ctx, "missing"); !session.IsCode(err, session.CodeNoSuchFrame) {
		t.Errorf("expected no such frame on get tree, got %v", err)
	}
}

func TestSimCloseContext(t *testing.T) {
	fx := newTestFixtures(t)
	sim := NewSim(nil)
	defer sim.Close()

	id := mustNewTab(t, sim)
	ctx := context.Background()

	frameURL := fx.Inline("frame")
	pageURL := fx.Inline(fmt.Sprintf("<iframe src='%s'></iframe>", frameURL))
	if _, err := sim.Navigate(ctx, id, pageURL, session.ReadinessComplete); err != nil {
		t.Fatalf("navigation failed: %v", err)
	}

	tree, err := sim.GetTree(ctx, id)
	if err != nil {
		t.Fatalf("get tree failed: %v", err)
	}
	frameID := tree[0].Children[0].Context

	// Closing a nested context is rejected.
	if err := sim.CloseContext(ctx, frameID); !session.IsCode(err, session.CodeInvalidArgument) {
		t.Errorf("expected invalid argument closing a frame, got %v", err)
	}

	if err := sim.CloseContext(ctx, id); err != nil {
		t.Fatalf("close context failed: %v", err)
	}
	if _, err := sim.GetTree(ctx, id); !session.IsCode(err, session.CodeNoSuchFrame) {
		t.Errorf("expected no such frame after close, got %v", err)
	}
	// The frame subtree went away with its tab.
	if _, err := sim.GetTree(ctx, frameID); !session.IsCode(err, session.CodeNoSuchFrame) {
		t.Errorf("expected frame to be gone after tab close, got %v", err)
	}
}
