package catalog

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopexplorer/storefront/pkg/config"
	pkgerrors "github.com/shopexplorer/storefront/pkg/errors"
	"github.com/shopexplorer/storefront/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func testConfig(baseURL string) config.CatalogConfig {
	return config.CatalogConfig{
		BaseURL:        baseURL,
		RequestTimeout: 5 * time.Second,
		DefaultLimit:   50,
		MaxLimit:       100,
	}
}

func newTestClient(t *testing.T, server *httptest.Server, cache Cache) *Client {
	t.Helper()

	client, err := NewClient(ClientParams{
		Config:   testConfig(server.URL),
		Logger:   testLogger(),
		Cache:    cache,
		CacheTTL: time.Minute,
	})
	if err != nil {
		t.Fatalf("building client: %v", err)
	}
	return client
}

func TestListProductsBuildsQuery(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"title":"Shoe","price":39.99,"images":[],"category":{"id":4,"name":"Shoes"}}]`))
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)
	products, err := client.ListProducts(context.Background(), ListFilter{Title: "shoe", CategoryID: 4, Offset: 10, Limit: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 1 || products[0].Title != "Shoe" {
		t.Fatalf("unexpected products %+v", products)
	}
	if gotQuery != "categoryId=4&limit=20&offset=10&title=shoe" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
}

func TestListProductsAppliesDefaultLimit(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)
	if _, err := client.ListProducts(context.Background(), ListFilter{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "limit=50" {
		t.Fatalf("expected default limit in query, got %q", gotQuery)
	}
}

func TestListProductsRejectsBadFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request should not reach the server")
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)

	_, err := client.ListProducts(context.Background(), ListFilter{Offset: -1})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative offset, got %v", err)
	}

	_, err = client.ListProducts(context.Background(), ListFilter{Limit: 500})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for oversized limit, got %v", err)
	}
}

func TestListProductsServerErrorIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)
	_, err := client.ListProducts(context.Background(), ListFilter{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeTransport {
		t.Fatalf("expected transport error, got %v", err)
	}
	if !pkgerrors.Retryable(err) {
		t.Fatal("transport errors must surface as retryable")
	}
}

func TestListProductsMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"`))
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)
	_, err := client.ListProducts(context.Background(), ListFilter{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeTransport {
		t.Fatalf("expected transport error for malformed body, got %v", err)
	}
}

func TestGetProductNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)
	_, err := client.GetProduct(context.Background(), 999)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestGetProductRejectsNonPositiveID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request should not reach the server")
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)
	_, err := client.GetProduct(context.Background(), 0)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetProductSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/7" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":7,"title":"Mug","price":12.5,"images":[],"category":{"id":2,"name":"Kitchen"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)
	product, err := client.GetProduct(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.ID != 7 || product.Category.Name != "Kitchen" {
		t.Fatalf("unexpected product %+v", product)
	}
}

func TestListCategories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/categories" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[{"id":1,"name":"Clothes","image":"https://img.example.com/c.png"}]`))
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)
	categories, err := client.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(categories) != 1 || categories[0].Name != "Clothes" {
		t.Fatalf("unexpected categories %+v", categories)
	}
}

type stubCache struct {
	values   map[string]string
	getErr   error
	setErr   error
	setCalls int
}

func (s *stubCache) Get(ctx context.Context, key string) (string, bool, error) {
	if s.getErr != nil {
		return "", false, s.getErr
	}
	val, ok := s.values[key]
	return val, ok, nil
}

func (s *stubCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	s.setCalls++
	if s.setErr != nil {
		return s.setErr
	}
	s.values[key] = value
	return nil
}

func TestListProductsServedFromCache(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	cache := &stubCache{values: map[string]string{
		"products:limit=50": `[{"id":3,"title":"Cached","price":1,"images":[],"category":{"id":1,"name":"C"}}]`,
	}}
	client := newTestClient(t, server, cache)

	products, err := client.ListProducts(context.Background(), ListFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if requests != 0 {
		t.Fatalf("expected cache hit to skip the network, saw %d requests", requests)
	}
	if len(products) != 1 || products[0].Title != "Cached" {
		t.Fatalf("unexpected products %+v", products)
	}
}

func TestListProductsPopulatesCacheAfterFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":5,"title":"Fresh","price":2,"images":[],"category":{"id":1,"name":"C"}}]`))
	}))
	defer server.Close()

	cache := &stubCache{values: map[string]string{}}
	client := newTestClient(t, server, cache)

	if _, err := client.ListProducts(context.Background(), ListFilter{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cache.values["products:limit=50"]; !ok {
		t.Fatalf("expected cache to hold the fetched payload, got %v", cache.values)
	}
}

func TestCacheFailuresNeverFailTheCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	cache := &stubCache{
		values: map[string]string{},
		getErr: context.DeadlineExceeded,
		setErr: context.DeadlineExceeded,
	}
	client := newTestClient(t, server, cache)

	if _, err := client.ListProducts(context.Background(), ListFilter{}); err != nil {
		t.Fatalf("cache failure leaked into the call: %v", err)
	}
}
