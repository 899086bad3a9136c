package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/salesfolio/src/logger"
	"github.com/username/salesfolio/src/models"
)

const ckProductMapping = "catalog_product_mapping"

// dummyJSONProductsResponse mirrors the DummyJSON /products payload shape.
type dummyJSONProductsResponse struct {
	Products []struct {
		ID       int     `json:"id"`
		Title    string  `json:"title"`
		Category string  `json:"category"`
		Brand    string  `json:"brand"`
		Price    float64 `json:"price"`
		Rating   float64 `json:"rating"`
	} `json:"products"`
	Total int `json:"total"`
}

// catalogServiceImpl implements CatalogService against a DummyJSON-shaped
// HTTP endpoint. The mapping is cached with a TTL so repeated uploads do not
// refetch the catalog.
type catalogServiceImpl struct {
	httpClient http.Client
	apiURL     string
	cacheTTL   time.Duration
	cache      *cache.Cache
}

// NewCatalogService creates a catalog service with a bounded HTTP timeout.
func NewCatalogService(apiURL string, timeout, cacheTTL time.Duration, c *cache.Cache) CatalogService {
	return &catalogServiceImpl{
		httpClient: http.Client{Timeout: timeout},
		apiURL:     apiURL,
		cacheTTL:   cacheTTL,
		cache:      c,
	}
}

// FetchProducts retrieves the full product collection from the catalog API,
// reduced to the fields the enrichment join consumes.
func (s *catalogServiceImpl) FetchProducts() ([]models.CatalogProduct, error) {
	req, err := http.NewRequest("GET", s.apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "salesfolio/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog API returned status %d", resp.StatusCode)
	}

	var payload dummyJSONProductsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	products := make([]models.CatalogProduct, 0, len(payload.Products))
	for _, p := range payload.Products {
		products = append(products, models.CatalogProduct{
			ID:       p.ID,
			Title:    p.Title,
			Category: p.Category,
			Brand:    p.Brand,
			Price:    p.Price,
			Rating:   p.Rating,
		})
	}

	logger.L.Info("Catalog fetch successful", "products", len(products))
	return products, nil
}

// ProductMapping returns the id → attributes lookup, from cache when fresh.
// A failed fetch logs a warning and returns an empty mapping: every join
// attempt then reports no match, which the pipeline treats as a normal
// outcome rather than an error. Failures are not cached, so the next call
// retries the fetch.
func (s *catalogServiceImpl) ProductMapping() map[int]models.CatalogAttributes {
	if cached, found := s.cache.Get(ckProductMapping); found {
		logger.L.Debug("Cache hit for catalog product mapping")
		return cached.(map[int]models.CatalogAttributes)
	}

	products, err := s.FetchProducts()
	if err != nil {
		logger.L.Warn("Catalog fetch failed, proceeding with empty product mapping", "error", err)
		return map[int]models.CatalogAttributes{}
	}

	mapping := make(map[int]models.CatalogAttributes, len(products))
	for _, p := range products {
		mapping[p.ID] = models.CatalogAttributes{
			Title:    p.Title,
			Category: p.Category,
			Brand:    p.Brand,
			Rating:   p.Rating,
		}
	}

	s.cache.Set(ckProductMapping, mapping, s.cacheTTL)
	return mapping
}
