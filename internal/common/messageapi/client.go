// Package messageapi fetches the member message collection from the upstream
// service, optionally through a redis cache.
package messageapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	apperrors "github.com/BalRam15/Assignment-qa-services/internal/common/errors"
	httpclient "github.com/BalRam15/Assignment-qa-services/internal/common/http"
	"github.com/BalRam15/Assignment-qa-services/internal/common/logger"
	"github.com/BalRam15/Assignment-qa-services/internal/common/metrics"
	"github.com/BalRam15/Assignment-qa-services/internal/models"
)

// Cache stores the raw collection between requests. *database.RedisClient
// satisfies it.
type Cache interface {
	Lookup(ctx context.Context, key string) ([]byte, bool, error)
	Store(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type Config struct {
	URL        string
	Timeout    time.Duration
	MaxRetries int // 0 uses the MESSAGE_FETCH_FAILED retry budget
	PageSize   int // 0 fetches the collection in a single request
	MaxPages   int
	CacheTTL   time.Duration
}

type Client struct {
	config Config
	http   *httpclient.Client
	cache  Cache
	logger logger.Logger
}

type Option func(*Client)

// WithCache enables the fetch cache.
func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *httpclient.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func NewClient(cfg Config, log logger.Logger, opts ...Option) *Client {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = apperrors.GetRetryCount(apperrors.ErrCodeMessageFetchFailed)
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 1
	}

	c := &Client{
		config: cfg,
		http:   httpclient.NewClient(cfg.Timeout, httpclient.WithRetries(cfg.MaxRetries)),
		logger: log.WithFields(map[string]interface{}{"component": "messageapi"}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CacheKey is the redis key a collection URL is cached under.
func CacheKey(rawURL string) string {
	return "messages:" + rawURL
}

type requestIDKey struct{}

// ContextWithRequestID attaches a request ID forwarded as X-Request-ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// FetchMessages returns the current collection, normalized.
func (c *Client) FetchMessages(ctx context.Context) ([]models.Message, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	if messages, ok := c.fromCache(ctx); ok {
		metrics.MessageFetches.WithLabelValues(metrics.SourceCache, "hit").Inc()
		return messages, nil
	}

	items, err := c.fetchAll(ctx)
	if err != nil {
		metrics.MessageFetches.WithLabelValues(metrics.SourceUpstream, "error").Inc()
		return nil, c.classify(err)
	}
	metrics.MessageFetches.WithLabelValues(metrics.SourceUpstream, "ok").Inc()

	messages := make([]models.Message, 0, len(items))
	for _, item := range items {
		var msg models.Message
		if err := json.Unmarshal(item, &msg); err != nil {
			msg = models.Message{Kind: models.KindUnknown}
		}
		messages = append(messages, msg)
	}

	c.toCache(ctx, items)

	c.logger.Debug("Fetched messages", map[string]interface{}{
		"url":   c.config.URL,
		"count": len(messages),
	})
	return messages, nil
}

func (c *Client) fetchAll(ctx context.Context) ([]json.RawMessage, error) {
	header := http.Header{}
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		header.Set("X-Request-ID", id)
	}

	if c.config.PageSize <= 0 {
		body, err := c.http.GetBytes(ctx, c.config.URL, header)
		if err != nil {
			return nil, err
		}
		items, _, err := models.DecodeEnvelope(body)
		if err != nil {
			return nil, &decodeError{err: err}
		}
		return items, nil
	}

	var all []json.RawMessage
	for page := 0; page < c.config.MaxPages; page++ {
		pageURL, err := pagedURL(c.config.URL, len(all), c.config.PageSize)
		if err != nil {
			return nil, err
		}
		body, err := c.http.GetBytes(ctx, pageURL, header)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		items, total, err := models.DecodeEnvelope(body)
		if err != nil {
			return nil, &decodeError{err: fmt.Errorf("page %d: %w", page, err)}
		}
		all = append(all, items...)

		if len(items) < c.config.PageSize || (total >= 0 && len(all) >= total) {
			return all, nil
		}
	}

	c.logger.Warn("Stopped paging at max_pages", map[string]interface{}{
		"url":      c.config.URL,
		"maxPages": c.config.MaxPages,
		"fetched":  len(all),
	})
	return all, nil
}

func pagedURL(base string, skip, limit int) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

type decodeError struct {
	err error
}

func (e *decodeError) Error() string { return e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

func (c *Client) classify(err error) error {
	var decodeErr *decodeError
	if errors.As(err, &decodeErr) {
		return apperrors.NewMessageDecodeFailedError(c.config.URL, decodeErr.err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewMessageFetchTimeoutError(c.config.URL, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperrors.NewMessageFetchTimeoutError(c.config.URL, err)
	}
	return apperrors.NewMessageFetchFailedError(c.config.URL, err)
}

func (c *Client) fromCache(ctx context.Context) ([]models.Message, bool) {
	if c.cache == nil {
		return nil, false
	}
	raw, found, err := c.cache.Lookup(ctx, CacheKey(c.config.URL))
	if err != nil {
		c.logCacheError("lookup", err)
		return nil, false
	}
	if !found {
		metrics.MessageFetches.WithLabelValues(metrics.SourceCache, "miss").Inc()
		return nil, false
	}
	messages, err := models.DecodeMessages(raw)
	if err != nil {
		c.logCacheError("decode", err)
		return nil, false
	}
	return messages, true
}

func (c *Client) toCache(ctx context.Context, items []json.RawMessage) {
	if c.cache == nil || c.config.CacheTTL <= 0 {
		return
	}
	if items == nil {
		items = []json.RawMessage{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		c.logCacheError("encode", err)
		return
	}
	if err := c.cache.Store(ctx, CacheKey(c.config.URL), raw, c.config.CacheTTL); err != nil {
		c.logCacheError("store", err)
	}
}

func (c *Client) logCacheError(op string, err error) {
	stdErr := apperrors.NewCacheUnavailableError(op, err)
	c.logger.Warn("Message cache unavailable, continuing without it", map[string]interface{}{
		"errorCode": string(stdErr.Code),
		"operation": op,
		"error":     err.Error(),
	})
}
