// Package woocommerce is a minimal client for the WooCommerce REST API
// order listing endpoint. It only depends on the endpoint's pagination
// contract: pages are requested in sequence and an empty page ends the
// listing.
package woocommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"gstledger/internal/ledger"
	"gstledger/internal/logger"
)

// maxResponseSize caps a single page body (10MB).
const maxResponseSize = 10 * 1024 * 1024

// TransportError is an HTTP or network failure while talking to the
// commerce platform. It aborts the whole fetch; there is no retry and no
// partial result.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("woocommerce: %s returned HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("woocommerce: request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Window is an inclusive calendar date range. The fetch covers
// [start 00:00:00, end 23:59:59].
type Window struct {
	Start time.Time
	End   time.Time
}

// After returns the window's lower bound in the API's timestamp format.
func (w Window) After() string {
	return w.Start.Format("2006-01-02") + "T00:00:00"
}

// Before returns the window's upper bound in the API's timestamp format.
func (w Window) Before() string {
	return w.End.Format("2006-01-02") + "T23:59:59"
}

// Label names the window for artifact file names.
func (w Window) Label() string {
	return w.Start.Format("2006-01-02") + "_" + w.End.Format("2006-01-02")
}

// Client talks to one WooCommerce store using consumer key/secret basic
// auth.
type Client struct {
	baseURL    string
	key        string
	secret     string
	pageSize   int
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithPageSize overrides the per_page parameter (default 100).
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithTimeout bounds each page request (default 30s). Exceeding it is a
// transport error and aborts the run.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient swaps the underlying http.Client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a client for the store at baseURL, e.g.
// "https://shop.example.com/wp-json/wc/v3".
func NewClient(baseURL, consumerKey, consumerSecret string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		key:        consumerKey,
		secret:     consumerSecret,
		pageSize:   100,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchOrders returns every order created inside the window, optionally
// restricted to one status. Pages are fetched sequentially until the API
// returns an empty page; the first failure aborts with a *TransportError
// and no partial result.
func (c *Client) FetchOrders(ctx context.Context, window Window, status string) ([]ledger.Order, error) {
	started := time.Now()
	var all []ledger.Order
	for page := 1; ; page++ {
		orders, err := c.fetchPage(ctx, window, status, page)
		if err != nil {
			return nil, err
		}
		if len(orders) == 0 {
			break
		}
		all = append(all, orders...)
		logger.Debug("fetched orders page",
			zap.Int("page", page),
			zap.Int("count", len(orders)))
	}
	logger.Info("order fetch complete",
		zap.Int("orders", len(all)),
		zap.String("window", window.Label()),
		zap.Duration("duration", time.Since(started)))
	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, window Window, status string, page int) ([]ledger.Order, error) {
	params := url.Values{}
	params.Set("after", window.After())
	params.Set("before", window.Before())
	params.Set("per_page", strconv.Itoa(c.pageSize))
	params.Set("page", strconv.Itoa(page))
	if status != "" {
		params.Set("status", ledger.NormalizeStatus(status))
	}
	endpoint := c.baseURL + "/orders?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &TransportError{URL: endpoint, Err: err}
	}
	req.SetBasicAuth(c.key, c.secret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return nil, &TransportError{URL: endpoint, StatusCode: resp.StatusCode}
	}

	var orders []ledger.Order
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&orders); err != nil {
		return nil, &TransportError{URL: endpoint, Err: fmt.Errorf("decode orders page: %w", err)}
	}
	return orders, nil
}
