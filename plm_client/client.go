package plm_client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"resty.dev/v3"

	"github.com/relplan/plm-proxy/config"
	"github.com/relplan/plm-proxy/request_queue"
)

// maxErrorBody bounds the response body kept in a StatusError
const maxErrorBody = 512

// Client performs single HTTP attempts against the PLM OData services.
// Retries, de-duplication and caching are left to request_queue.
type Client struct {
	http          *resty.Client
	config        config.PLMConfig
	statusHandler IHttpStatusHandler
	limiters      IRateLimiterManager
	nonces        *NonceProvider
}

var _ request_queue.Transport = (*Client)(nil)

// NewClient creates a PLM client. handler and limiters may be nil.
func NewClient(cfg config.PLMConfig, handler IHttpStatusHandler, limiters IRateLimiterManager) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.RequestTimeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "plm-proxy")

	switch {
	case cfg.Token != "":
		httpClient.SetAuthToken(cfg.Token)
	case cfg.Username != "":
		httpClient.SetBasicAuth(cfg.Username, cfg.Password)
	}

	c := &Client{
		http:          httpClient,
		config:        cfg,
		statusHandler: handler,
		limiters:      limiters,
	}
	c.nonces = NewNonceProvider(cfg.CSRF.TTL, c.fetchNonce)
	return c
}

// Start implements core.Interface
func (c *Client) Start(ctx context.Context) error {
	log.Infof("PLMClient: Using %s", c.config.BaseURL)
	return nil
}

// Stop implements core.Interface
func (c *Client) Stop() {
	if err := c.Close(); err != nil {
		log.Warnf("PLMClient: Error closing client: %v", err)
	}
}

// Close releases the underlying HTTP client and stops the nonce cache
func (c *Client) Close() error {
	c.nonces.Stop()
	return c.http.Close()
}

// Do implements request_queue.Transport. path is relative to the configured base URL.
// A mutating request rejected with 403 is sent once more with a fresh CSRF nonce.
func (c *Client) Do(ctx context.Context, method, path string, params map[string]string, body any) ([]byte, error) {
	data, err := c.do(ctx, method, path, params, body)
	if !isMutating(method) || !isForbidden(err) {
		return data, err
	}

	log.Debugf("PLMClient: %s %s was forbidden, retrying with a new nonce", method, path)
	return c.do(ctx, method, path, params, body)
}

func (c *Client) do(ctx context.Context, method, path string, params map[string]string, body any) ([]byte, error) {
	if err := c.waitLimiter(ctx, path); err != nil {
		c.onRequest(StatusError)
		return nil, err
	}

	req := c.http.R().
		SetContext(ctx).
		SetQueryParams(params)

	mutating := isMutating(method)
	if mutating {
		nonce, err := c.nonces.Get(ctx)
		if err != nil {
			c.onRequest(StatusError)
			return nil, err
		}
		req.SetHeader(nonce.Key, nonce.Value)
		if body != nil {
			req.SetHeader("Content-Type", "application/json").SetBody(body)
		}
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			c.onRequest(StatusNetworkError)
			return nil, ctxErr
		}
		log.Warnf("PLMClient: %s %s failed: %v", method, path, err)
		c.onRequest(StatusNetworkError)
		return nil, &request_queue.NetworkError{Err: err}
	}

	if c.statusHandler != nil {
		c.statusHandler.RecordRequestLatency(path, time.Since(start))
	}

	statusCode := resp.StatusCode()
	if statusCode < http.StatusOK || statusCode >= http.StatusMultipleChoices {
		if statusCode == http.StatusTooManyRequests {
			c.onRequest(StatusRateLimited)
		} else {
			c.onRequest(StatusError)
		}
		if mutating && statusCode == http.StatusForbidden {
			c.nonces.Invalidate()
		}
		log.Debugf("PLMClient: %s %s returned status %d", method, path, statusCode)
		return nil, &request_queue.StatusError{
			Method:     method,
			URL:        path,
			StatusCode: statusCode,
			Body:       truncate(strings.TrimSpace(resp.String()), maxErrorBody),
		}
	}

	c.onRequest(StatusSuccess)
	return resp.Bytes(), nil
}

func isMutating(method string) bool {
	return method != http.MethodGet && method != http.MethodHead
}

func isForbidden(err error) bool {
	var statusErr *request_queue.StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusForbidden
}

func (c *Client) waitLimiter(ctx context.Context, path string) error {
	if c.limiters == nil {
		return nil
	}

	u, err := url.Parse(c.resolve(path))
	if err != nil {
		return errors.Wrapf(err, "invalid request path %s", path)
	}

	limiter := c.limiters.GetLimiterForURL(u)
	if limiter == nil {
		return nil
	}
	if err := limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return errors.Wrap(err, "rate limiter wait failed")
	}
	return nil
}

func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return joinURL(c.config.BaseURL, path)
}

func (c *Client) fetchNonce(ctx context.Context) (Nonce, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(c.config.CSRF.Path)
	if err != nil {
		return Nonce{}, &request_queue.NetworkError{Err: err}
	}
	if resp.IsError() {
		return Nonce{}, &request_queue.StatusError{
			Method:     http.MethodGet,
			URL:        c.config.CSRF.Path,
			StatusCode: resp.StatusCode(),
		}
	}

	var nonce Nonce
	if err := json.Unmarshal(resp.Bytes(), &nonce); err != nil {
		return Nonce{}, errors.Wrap(err, "failed to decode csrf nonce")
	}
	return nonce, nil
}

func (c *Client) onRequest(status string) {
	if c.statusHandler != nil {
		c.statusHandler.OnRequest(status)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
