// Package api provides the public interface for running history-traversal
// conformance suites programmatically.
package api

import (
	"context"
	"fmt"
	"time"

	"github.com/valpere/BiDiConformer/internal/browser"
	"github.com/valpere/BiDiConformer/internal/config"
	"github.com/valpere/BiDiConformer/internal/conformance"
	"github.com/valpere/BiDiConformer/internal/errors"
	"github.com/valpere/BiDiConformer/internal/fixtures"
	"github.com/valpere/BiDiConformer/internal/monitoring"
	"github.com/valpere/BiDiConformer/internal/output"
	"github.com/valpere/BiDiConformer/internal/session"
	"github.com/valpere/BiDiConformer/internal/utils"
	"github.com/valpere/BiDiConformer/pkg/types"
)

const defaultMetricsNamespace = "bidiconformer"

// Client runs conformance suites from a validated configuration.
type Client struct {
	config *config.SuiteConfig
	log    utils.Logger
}

// Option customizes client construction.
type Option func(*Client)

// WithLogger replaces the default logger.
func WithLogger(log utils.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a conformance client from a configuration.
func NewClient(cfg *config.SuiteConfig, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.WrapConfig(fmt.Errorf("configuration is required"))
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.WrapConfig(err)
	}

	client := &Client{
		config: cfg,
		log:    utils.NewLoggerWithLevel(utils.ParseLevel(cfg.LogLevel)),
	}
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Run executes the configured suite end to end: it starts the fixture
// origins, provisions the session backend, runs the selected checks, and
// writes results to the configured sink.
func (c *Client) Run(ctx context.Context) (*types.SuiteSummary, error) {
	fx := fixtures.NewServer()
	if err := fx.Start(c.config.Fixtures.ListenAddr, c.config.Fixtures.AltListenAddr); err != nil {
		return nil, fmt.Errorf("failed to start fixture origins: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := fx.Stop(stopCtx); err != nil {
			c.log.Warnf("failed to stop fixture origins: %v", err)
		}
	}()

	metrics, err := c.startMetrics()
	if err != nil {
		return nil, err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metrics.Shutdown(stopCtx); err != nil {
			c.log.Warnf("failed to stop metrics endpoint: %v", err)
		}
	}()

	sess, err := c.newSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create %s session: %w", c.config.Backend, err)
	}
	defer func() {
		if err := sess.Close(); err != nil {
			c.log.Warnf("failed to close session: %v", err)
		}
	}()

	env := &conformance.Env{
		Session:      sess,
		Fixtures:     fx,
		Log:          c.log,
		Metrics:      metrics,
		WaitTimeout:  c.config.WaitTimeoutDuration(),
		PollInterval: c.config.PollIntervalDuration(),
	}

	runner := conformance.NewRunner(c.config.Name, env)
	if err := runner.Filter(c.config.Checks); err != nil {
		return nil, errors.WrapConfig(err)
	}

	c.log.WithFields(map[string]interface{}{
		"suite":   c.config.Name,
		"backend": c.config.Backend,
		"checks":  len(runner.CheckNames()),
	}).Info("starting conformance suite")

	summary, err := runner.Run(ctx)
	if err != nil {
		return summary, err
	}

	if err := c.writeResults(summary); err != nil {
		return summary, err
	}

	return summary, nil
}

// CheckNames returns the names of the checks the configuration selects.
func (c *Client) CheckNames() ([]string, error) {
	runner := conformance.NewRunner(c.config.Name, &conformance.Env{})
	if err := runner.Filter(c.config.Checks); err != nil {
		return nil, errors.WrapConfig(err)
	}
	return runner.CheckNames(), nil
}

func (c *Client) newSession() (session.Client, error) {
	switch c.config.Backend {
	case config.BackendSim:
		return browser.NewSim(nil), nil
	case config.BackendChrome:
		b := c.config.Browser
		return browser.NewChrome(&browser.Config{
			Headless:       b.Headless,
			UserDataDir:    b.UserDataDir,
			UserAgent:      b.UserAgent,
			Timeout:        b.TimeoutDuration(),
			ViewportWidth:  b.ViewportWidth,
			ViewportHeight: b.ViewportHeight,
		})
	default:
		return nil, fmt.Errorf("unsupported backend %q", c.config.Backend)
	}
}

func (c *Client) startMetrics() (*monitoring.Collector, error) {
	namespace := defaultMetricsNamespace
	if c.config.Metrics != nil && c.config.Metrics.Namespace != "" {
		namespace = c.config.Metrics.Namespace
	}

	collector := monitoring.NewCollector(namespace)
	if c.config.Metrics != nil && c.config.Metrics.Enabled {
		if err := collector.Serve(c.config.Metrics.ListenAddress); err != nil {
			return nil, fmt.Errorf("failed to serve metrics: %w", err)
		}
		c.log.Infof("metrics available at http://%s/metrics", c.config.Metrics.ListenAddress)
	}

	return collector, nil
}

func (c *Client) writeResults(summary *types.SuiteSummary) error {
	if c.config.Output.Format == "" {
		return nil
	}

	manager, err := output.NewManager(&c.config.Output)
	if err != nil {
		return fmt.Errorf("failed to create output manager: %w", err)
	}
	if err := manager.WriteResults(summary.Results); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	c.log.WithField("format", c.config.Output.Format).Info("results written")
	return nil
}
