package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"guitarlots/internal/observability"
)

const defaultUserAgent = "Mozilla/5.0"

// Cache stores fetched pages by absolute URL.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, val string) error
}

// Client fetches auction pages relative to BaseURL.
type Client struct {
	HTTP      *http.Client
	Cache     Cache
	BaseURL   string
	UserAgent string
	Logger    *zap.Logger
}

// NewClient returns a Client with the default user agent. cache may be nil.
func NewClient(baseURL string, timeout time.Duration, cache Cache, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		HTTP:      &http.Client{Timeout: timeout},
		Cache:     cache,
		BaseURL:   baseURL,
		UserAgent: defaultUserAgent,
		Logger:    log,
	}
}

// Resolve turns ref into an absolute URL against BaseURL.
func (c *Client) Resolve(ref string) (string, error) {
	return resolve(c.BaseURL, ref)
}

func resolve(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", base, err)
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", ref, err)
	}
	return b.ResolveReference(r).String(), nil
}

// Fetch returns the body of the page at rawURL, from the cache when it has
// been seen before.
func (c *Client) Fetch(ctx context.Context, rawURL string) (string, error) {
	full, err := c.Resolve(rawURL)
	if err != nil {
		return "", err
	}

	if c.Cache != nil {
		body, ok, err := c.Cache.Get(ctx, full)
		switch {
		case err != nil:
			c.Logger.Warn("page cache read failed", zap.String("url", full), zap.Error(err))
		case ok:
			observability.PageCacheTotal.WithLabelValues("hit").Inc()
			c.Logger.Debug("using cached page", zap.String("url", full))
			return body, nil
		default:
			observability.PageCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request for %s: %w", full, err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", full, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d for %s", resp.StatusCode, full)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", full, err)
	}
	body := string(b)

	if c.Cache != nil {
		if err := c.Cache.Set(ctx, full, body); err != nil {
			c.Logger.Warn("page cache write failed", zap.String("url", full), zap.Error(err))
		}
	}
	return body, nil
}

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	mu    sync.RWMutex
	pages map[string]string
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{pages: make(map[string]string)}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.pages[key]
	return v, ok, nil
}

func (m *MemoryCache) Set(_ context.Context, key, val string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[key] = val
	return nil
}
