// Package lavalink implements the search provider contract against the
// REST interface of a Lavalink-style audio node.
package lavalink

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"playlink/internal/core"
)

const defaultSearchCacheSize = 512

// Client queries a node's /loadtracks endpoint. Successful search results
// are cached per identifier so repeated queries skip the node.
type Client struct {
	baseURL string
	prefix  string
	auth    string
	http    *http.Client
	cache   *lru.Cache[string, *core.SearchResult]
	logger  *zap.Logger
}

func NewClient(cfg *core.NodeConfig, logger *zap.Logger) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: node config", core.ErrMissingArgument)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	node := core.NewNode(core.NodeOptions{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		Secure:   cfg.Secure,
	})

	cacheSize := defaultSearchCacheSize
	cache, err := lru.New[string, *core.SearchResult](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create search cache: %w", err)
	}

	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: node.RestAddress(),
		prefix:  cfg.SearchPrefix,
		auth:    cfg.Password,
		http:    &http.Client{Timeout: timeout},
		cache:   cache,
		logger:  logger,
	}, nil
}

// Search implements core.SearchProvider. Bare queries get the configured
// search prefix ("ytsearch:" by default); URLs pass through untouched.
// The requester is not part of the wire protocol; it is attached to the
// built track downstream.
func (c *Client) Search(ctx context.Context, query string, _ any) (*core.SearchResult, error) {
	identifier := query
	if c.prefix != "" && !strings.Contains(query, "://") {
		identifier = c.prefix + query
	}

	if cached, ok := c.cache.Get(identifier); ok {
		c.logger.Debug("search cache hit", zap.String("identifier", identifier))
		return cached, nil
	}

	endpoint := fmt.Sprintf("%s/loadtracks?identifier=%s", c.baseURL, url.QueryEscape(identifier))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create load request: %w", err)
	}
	if c.auth != "" {
		req.Header.Set("Authorization", c.auth)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("node request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("node returned status %d for %q", resp.StatusCode, identifier)
	}

	var result core.SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode load result: %w", err)
	}

	c.logger.Debug("loaded tracks",
		zap.String("identifier", identifier),
		zap.String("load_type", string(result.LoadType)),
		zap.Int("tracks", len(result.Tracks)),
		zap.Duration("took", time.Since(start)))

	// Only rankable search responses are worth replaying from cache;
	// failures should hit the node again.
	if result.LoadType == core.LoadTypeSearchResult && len(result.Tracks) > 0 {
		c.cache.Add(identifier, &result)
	}

	return &result, nil
}
