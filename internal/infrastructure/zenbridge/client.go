// Package zenbridge delivers EDI-810 invoices to the trading partner's HTTP API.
package zenbridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/erp/edigateway/internal/domain/integration"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// maxResponseSize caps how much of the partner's reply is read (1MiB)
const maxResponseSize = 1 << 20

// Client implements integration.InvoiceDispatcher over HTTP
type Client struct {
	config     Config
	httpClient *http.Client
}

var _ integration.InvoiceDispatcher = (*Client)(nil)

// Option customises a Client
type Option func(*Client)

// WithTransport replaces the base round tripper. It is still wrapped for tracing.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = otelhttp.NewTransport(rt)
	}
}

// noRedirects makes a partner's 3xx the final response of a delivery.
func noRedirects(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}

// NewClient creates a client for the configured partner endpoint
func NewClient(config Config, opts ...Option) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		config: config,
		httpClient: &http.Client{
			Timeout:       config.Timeout,
			Transport:     otelhttp.NewTransport(http.DefaultTransport),
			CheckRedirect: noRedirects,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Dispatch POSTs invoices as a JSON array in a single attempt.
// Any 2xx answer is success; other statuses yield *integration.DispatchError.
func (c *Client) Dispatch(ctx context.Context, invoices []integration.Invoice810) (*integration.DispatchResult, error) {
	payload, err := json.Marshal(invoices)
	if err != nil {
		return nil, fmt.Errorf("zenbridge: encode invoices: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("zenbridge: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrPartnerUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", integration.ErrPartnerUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &integration.DispatchError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	return &integration.DispatchResult{
		StatusCode: resp.StatusCode,
		Payload:    payload,
	}, nil
}

// Disabled returns a dispatcher for deployments without a partner endpoint.
// Every call fails with integration.ErrPartnerNotConfigured.
func Disabled() integration.InvoiceDispatcher {
	return disabled{}
}

type disabled struct{}

func (disabled) Dispatch(context.Context, []integration.Invoice810) (*integration.DispatchResult, error) {
	return nil, integration.ErrPartnerNotConfigured
}
