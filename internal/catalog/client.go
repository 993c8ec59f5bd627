package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopexplorer/storefront/pkg/config"
	pkgerrors "github.com/shopexplorer/storefront/pkg/errors"
	"github.com/shopexplorer/storefront/pkg/logger"
	"github.com/shopexplorer/storefront/pkg/types"
)

const (
	scopeProducts   = "products"
	scopeCategories = "categories"
)

// Cache is the read-through surface the client uses for list responses.
// pkg/redis.Client satisfies it; a nil cache disables caching entirely.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// KeyFunc builds namespaced cache keys per scope.
type KeyFunc func(scope, id string) string

// Client speaks to the remote product API.
type Client struct {
	baseURL  string
	http     *http.Client
	logg     *logger.Logger
	cache    Cache
	cacheKey KeyFunc
	cacheTTL time.Duration
	cfg      config.CatalogConfig
}

// ClientParams collects the client dependencies.
type ClientParams struct {
	Config     config.CatalogConfig
	Logger     *logger.Logger
	HTTPClient *http.Client

	// Cache, CacheKey, and CacheTTL are optional; leave Cache nil to skip caching.
	Cache    Cache
	CacheKey KeyFunc
	CacheTTL time.Duration
}

// NewClient builds a catalog client backed by the provided stack.
func NewClient(params ClientParams) (*Client, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("catalog logger required")
	}
	baseURL := strings.TrimRight(params.Config.BaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("catalog base url required")
	}
	httpClient := params.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: params.Config.RequestTimeout}
	}
	cacheKey := params.CacheKey
	if cacheKey == nil {
		cacheKey = func(scope, id string) string { return scope + ":" + id }
	}
	return &Client{
		baseURL:  baseURL,
		http:     httpClient,
		logg:     params.Logger,
		cache:    params.Cache,
		cacheKey: cacheKey,
		cacheTTL: params.CacheTTL,
		cfg:      params.Config,
	}, nil
}

// ListProducts fetches products matching the filter, newest-listing order as
// returned by the API. Responses are served from the cache when possible.
func (c *Client) ListProducts(ctx context.Context, filter ListFilter) ([]types.Product, error) {
	filter, err := filter.normalize(c.cfg)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/products"
	if query := filter.query().Encode(); query != "" {
		endpoint += "?" + query
	}

	var products []types.Product
	if err := c.getJSON(ctx, endpoint, c.cacheKeyFor(scopeProducts, filter.cacheID()), &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches a single product by id.
func (c *Client) GetProduct(ctx context.Context, id int) (*types.Product, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive")
	}

	var product types.Product
	// Detail lookups skip the cache: the detail page is where staleness shows.
	if err := c.getJSON(ctx, c.baseURL+"/products/"+strconv.Itoa(id), "", &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ListCategories fetches every category.
func (c *Client) ListCategories(ctx context.Context) ([]types.Category, error) {
	var categories []types.Category
	if err := c.getJSON(ctx, c.baseURL+"/categories", c.cacheKeyFor(scopeCategories, "all"), &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) cacheKeyFor(scope, id string) string {
	if c.cache == nil {
		return ""
	}
	return c.cacheKey(scope, id)
}

// getJSON performs a GET, decoding the body into out. When cacheKey is
// non-empty the cache is consulted first and populated after a fetch; cache
// failures only log, they never fail the call.
func (c *Client) getJSON(ctx context.Context, endpoint, cacheKey string, out any) error {
	ctx = c.logg.WithRequestID(ctx, uuid.NewString())

	if cacheKey != "" {
		if payload, ok, err := c.cache.Get(ctx, cacheKey); err != nil {
			c.logg.Warn(c.logg.WithField(ctx, "cache_key", cacheKey), "catalog cache read failed")
		} else if ok {
			if err := json.Unmarshal([]byte(payload), out); err == nil {
				c.logg.Debug(c.logg.WithField(ctx, "cache_key", cacheKey), "catalog cache hit")
				return nil
			}
			// Undecodable entries are treated as misses and overwritten below.
		}
	}

	body, err := c.fetch(ctx, endpoint)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, "decoding catalog response")
	}

	if cacheKey != "" {
		if err := c.cache.Set(ctx, cacheKey, string(body), c.cacheTTL); err != nil {
			c.logg.Warn(c.logg.WithField(ctx, "cache_key", cacheKey), "catalog cache write failed")
		}
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building catalog request")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logg.Error(c.logg.WithField(ctx, "url", endpoint), "catalog request failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeTransport, err, "catalog unreachable")
	}
	defer resp.Body.Close()

	ctx = c.logg.WithFields(ctx, map[string]any{
		"url":         endpoint,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode == http.StatusNotFound {
		c.logg.Warn(ctx, "catalog resource not found")
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "catalog resource not found")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logg.Warn(ctx, "catalog returned non-success status")
		return nil, pkgerrors.New(pkgerrors.CodeTransport, fmt.Sprintf("catalog returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeTransport, err, "reading catalog response")
	}

	c.logg.Debug(ctx, "catalog request completed")
	return body, nil
}
