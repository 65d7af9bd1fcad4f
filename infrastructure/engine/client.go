// Package engine provides the client for the external chromatography
// simulation service, with built-in support for rate limiting, retries,
// metrics, and tracing.
//
// The external engine owns all transport physics. This package only
// serializes a configured process, submits it, and decodes the returned
// solution arrays; operational concerns are layered on through a middleware
// pattern so applications can add retry policies or observability without
// changing client code.
//
// Basic usage:
//
//	client, err := engine.NewClient(engine.ClientConfig{
//	    BaseURL: "http://localhost:8841",
//	    Timeout: 5 * time.Minute,
//	})
//	result, err := client.Simulate(ctx, process)
//
// Usage with middleware:
//
//	client, err := engine.NewClient(engine.ClientConfig{
//	    BaseURL: "http://localhost:8841",
//	    Middleware: []engine.Middleware{
//	        engine.RateLimitMiddleware(2, 4),
//	        engine.RetryMiddleware(3, time.Second, 30*time.Second),
//	        engine.MetricsMiddleware(collector),
//	        engine.TracingMiddleware(),
//	    },
//	})
package engine

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/chromaflow/chromaflow/internal/domain"
	"github.com/chromaflow/chromaflow/internal/ports"
)

// CoreEngine is the minimal interface an engine transport must implement.
// The middleware system wraps any conforming implementation.
type CoreEngine interface {
	// Simulate submits the process and blocks until the engine returns
	// its solution or fails.
	Simulate(ctx context.Context, process *domain.Process) (*domain.SimulationResult, error)

	// Endpoint returns the engine endpoint for diagnostics and tracing.
	Endpoint() string
}

// Middleware wraps a CoreEngine with additional behavior such as rate
// limiting, retries, metrics, or tracing. Middleware compose in the order
// given: the first middleware in a list is the outermost wrapper.
type Middleware func(CoreEngine) CoreEngine

// ClientConfig holds all configuration options for creating an engine client.
type ClientConfig struct {
	// BaseURL is the root URL of the simulation service.
	BaseURL string

	// Timeout bounds a single Simulate call end to end, including every
	// retry a retry middleware performs. Zero means no timeout.
	Timeout time.Duration

	// HTTPClient overrides the transport used for requests.
	// If nil, http.DefaultClient is used.
	HTTPClient *http.Client

	// Middleware is applied around the transport in the order specified.
	Middleware []Middleware
}

// Client invokes the external simulation engine. It implements
// ports.Simulator and is safe for concurrent use.
type Client struct {
	core    CoreEngine
	timeout time.Duration
}

var _ ports.Simulator = (*Client)(nil)

// NewClient creates an engine client for the given service, applying the
// configured middleware chain around the HTTP transport.
func NewClient(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("engine client: base URL is required")
	}

	var core CoreEngine = newRemoteEngine(config.BaseURL, config.HTTPClient)
	// Apply in reverse so the first listed middleware is outermost.
	for i := len(config.Middleware) - 1; i >= 0; i-- {
		core = config.Middleware[i](core)
	}

	return &Client{core: core, timeout: config.Timeout}, nil
}

// Simulate runs the process on the external engine and returns its solution.
// The process must pass Validate before submission; invalid processes are
// rejected locally without a round trip.
func (c *Client) Simulate(ctx context.Context, process *domain.Process) (*domain.SimulationResult, error) {
	if process == nil {
		return nil, fmt.Errorf("engine client: process is nil: %w", ErrConfiguration)
	}
	if err := process.Validate(); err != nil {
		return nil, fmt.Errorf("engine client: %v: %w", err, ErrConfiguration)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.core.Simulate(ctx, process)
}

// Endpoint returns the engine endpoint the client submits to.
func (c *Client) Endpoint() string { return c.core.Endpoint() }
