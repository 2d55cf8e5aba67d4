// internal/fixtures/fixtures.go
package fixtures

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/valpere/BiDiConformer/internal/session"
)

// Default wait behavior for URL convergence.
const (
	DefaultWaitTimeout  = 5 * time.Second
	DefaultPollInterval = 100 * time.Millisecond
)

// WaitOptions controls WaitForURL polling.
type WaitOptions struct {
	Timeout  time.Duration
	Interval time.Duration
}

func (o *WaitOptions) timeout() time.Duration {
	if o == nil || o.Timeout <= 0 {
		return DefaultWaitTimeout
	}
	return o.Timeout
}

func (o *WaitOptions) interval() time.Duration {
	if o == nil || o.Interval <= 0 {
		return DefaultPollInterval
	}
	return o.Interval
}

// CurrentURL returns the live URL of a browsing context.
func CurrentURL(ctx context.Context, client session.Client, contextID string) (string, error) {
	tree, err := client.GetTree(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to read context tree: %w", err)
	}

	info := session.FindContext(tree, contextID)
	if info == nil {
		return "", session.NoSuchFrame(contextID)
	}

	return info.URL, nil
}

// WaitForURL polls until the context's URL equals expected, or fails once the
// wait deadline passes. Polls are paced by a rate limiter so a slow session is
// never hammered.
func WaitForURL(ctx context.Context, client session.Client, contextID, expected string, opts *WaitOptions) error {
	waitCtx, cancel := context.WithTimeout(ctx, opts.timeout())
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(opts.interval()), 1)

	var last string
	for {
		if err := limiter.Wait(waitCtx); err != nil {
			return fmt.Errorf("timed out waiting for context %s to reach %q (last url %q): %w",
				contextID, expected, last, err)
		}

		url, err := CurrentURL(waitCtx, client, contextID)
		if err != nil {
			return err
		}
		if url == expected {
			return nil
		}
		last = url
	}
}

// NewTab provisions a fresh top-level browsing context.
func NewTab(ctx context.Context, client session.Client) (string, error) {
	return client.NewContext(ctx, session.TypeTab)
}
