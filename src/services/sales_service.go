package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/username/salesfolio/src/exports"
	"github.com/username/salesfolio/src/logger"
	"github.com/username/salesfolio/src/models"
	"github.com/username/salesfolio/src/parsers"
	"github.com/username/salesfolio/src/processors"
	"github.com/username/salesfolio/src/reports"
	"github.com/username/salesfolio/src/utils"
)

const (
	ckDataset   = "dataset_%s"
	ckAnalytics = "res_analytics_%s_%s"

	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute

	defaultTopProducts  = 5
	defaultLowThreshold = 10
)

type salesServiceImpl struct {
	parser    parsers.Parser
	validator *processors.TransactionValidator
	analytics *processors.AnalyticsProcessor
	enricher  *processors.EnrichmentProcessor
	catalog   CatalogService
	reporter  *reports.ReportWriter
	store     *cache.Cache

	enrichedOutputPath string
	reportOutputPath   string

	mu       sync.RWMutex
	latestID string
}

func NewSalesService(
	parser parsers.Parser,
	validator *processors.TransactionValidator,
	analytics *processors.AnalyticsProcessor,
	enricher *processors.EnrichmentProcessor,
	catalog CatalogService,
	store *cache.Cache,
	enrichedOutputPath string,
	reportOutputPath string,
) SalesService {
	return &salesServiceImpl{
		parser:             parser,
		validator:          validator,
		analytics:          analytics,
		enricher:           enricher,
		catalog:            catalog,
		reporter:           reports.NewReportWriter(),
		store:              store,
		enrichedOutputPath: enrichedOutputPath,
		reportOutputPath:   reportOutputPath,
	}
}

func (s *salesServiceImpl) ProcessUpload(file io.Reader, sourceName string) (*ProcessResult, error) {
	overallStartTime := time.Now()
	logger.L.Info("ProcessUpload START", "source", sourceName)

	parsed, err := s.parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	valid, invalidCount, summary := s.validator.ValidateAndFilter(parsed, processors.Filter{})
	logger.L.Info("Validation complete", "source", sourceName,
		"parsed", len(parsed), "valid", len(valid), "invalid", invalidCount)

	mapping := s.catalog.ProductMapping()
	enriched := s.enricher.Enrich(valid, mapping)

	matched := 0
	for _, e := range enriched {
		if e.APIMatch {
			matched++
		}
	}
	logger.L.Info("Enrichment complete", "source", sourceName,
		"matched", matched, "total", len(enriched), "catalogSize", len(mapping))

	dataset := &Dataset{
		ID:           uuid.NewString(),
		SourceName:   sourceName,
		CreatedAt:    time.Now(),
		Transactions: valid,
		Enriched:     enriched,
		Summary:      summary,
	}
	s.store.Set(fmt.Sprintf(ckDataset, dataset.ID), dataset, cache.NoExpiration)
	s.setLatest(dataset.ID)

	result := &ProcessResult{
		DatasetID:     dataset.ID,
		ParsedCount:   len(parsed),
		ValidCount:    len(valid),
		InvalidCount:  invalidCount,
		Summary:       summary,
		MatchedCount:  matched,
		EnrichedCount: len(enriched),
	}

	// Snapshots are best-effort: a full disk must not fail the upload.
	if s.enrichedOutputPath != "" {
		if err := writeSnapshot(s.enrichedOutputPath, exports.Render(enriched)); err != nil {
			logger.L.Error("Failed to write enriched snapshot", "path", s.enrichedOutputPath, "error", err)
		} else {
			result.EnrichedPath = s.enrichedOutputPath
			logger.L.Info("Enriched data saved", "path", s.enrichedOutputPath)
		}
	}
	if s.reportOutputPath != "" {
		if err := writeSnapshot(s.reportOutputPath, s.reporter.Generate(valid, enriched)); err != nil {
			logger.L.Error("Failed to write report snapshot", "path", s.reportOutputPath, "error", err)
		} else {
			result.ReportPath = s.reportOutputPath
			logger.L.Info("Sales report saved", "path", s.reportOutputPath)
		}
	}

	logger.L.Info("ProcessUpload END", "source", sourceName, "datasetID", dataset.ID,
		"duration", time.Since(overallStartTime))
	return result, nil
}

// ProcessFile ingests a sales log from disk, used for the startup autoload.
func (s *salesServiceImpl) ProcessFile(path string) (*ProcessResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sales data file '%s': %w", path, err)
	}
	defer file.Close()
	return s.ProcessUpload(file, filepath.Base(path))
}

func (s *salesServiceImpl) LatestDatasetID() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latestID == "" {
		return "", ErrNoDataset
	}
	return s.latestID, nil
}

func (s *salesServiceImpl) setLatest(id string) {
	s.mu.Lock()
	s.latestID = id
	s.mu.Unlock()
}

// getDataset resolves a dataset id ("" means latest) to the stored dataset.
func (s *salesServiceImpl) getDataset(datasetID string) (*Dataset, error) {
	if datasetID == "" {
		latest, err := s.LatestDatasetID()
		if err != nil {
			return nil, err
		}
		datasetID = latest
	}

	if cached, found := s.store.Get(fmt.Sprintf(ckDataset, datasetID)); found {
		return cached.(*Dataset), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, datasetID)
}

func (s *salesServiceImpl) Analytics(datasetID string, f processors.Filter) (*AnalyticsResult, error) {
	dataset, err := s.getDataset(datasetID)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf(ckAnalytics, dataset.ID, filterKey(f))
	if cached, found := s.store.Get(cacheKey); found {
		logger.L.Debug("Cache hit for analytics result", "datasetID", dataset.ID)
		return cached.(*AnalyticsResult), nil
	}

	filtered, _, filterSummary := s.validator.ValidateAndFilter(dataset.Transactions, f)

	totalRevenue := s.analytics.TotalRevenue(filtered)
	result := &AnalyticsResult{
		DatasetID:        dataset.ID,
		FilterSummary:    filterSummary,
		TotalRevenue:     totalRevenue,
		TransactionCount: len(filtered),
		Regions:          s.analytics.RegionWiseSales(filtered),
		TopProducts:      s.analytics.TopSellingProducts(filtered, defaultTopProducts),
		Customers:        s.analytics.CustomerAnalysis(filtered),
		Daily:            s.analytics.DailySalesTrend(filtered),
		PeakDay:          s.analytics.FindPeakSalesDay(filtered),
		LowPerformers:    s.analytics.LowPerformingProducts(filtered, defaultLowThreshold),
	}
	if len(filtered) > 0 {
		result.AverageOrderValue = utils.RoundFloat(totalRevenue/float64(len(filtered)), 2)
		result.FirstDate, result.LastDate = dateRange(filtered)
	}

	s.store.Set(cacheKey, result, DefaultCacheExpiration)
	return result, nil
}

func (s *salesServiceImpl) TopProducts(datasetID string, f processors.Filter, n int) ([]models.ProductRank, error) {
	dataset, err := s.getDataset(datasetID)
	if err != nil {
		return nil, err
	}
	filtered, _, _ := s.validator.ValidateAndFilter(dataset.Transactions, f)
	return s.analytics.TopSellingProducts(filtered, n), nil
}

func (s *salesServiceImpl) LowPerformers(datasetID string, f processors.Filter, threshold int) ([]models.ProductRank, error) {
	dataset, err := s.getDataset(datasetID)
	if err != nil {
		return nil, err
	}
	filtered, _, _ := s.validator.ValidateAndFilter(dataset.Transactions, f)
	return s.analytics.LowPerformingProducts(filtered, threshold), nil
}

func (s *salesServiceImpl) Enriched(datasetID string) ([]models.EnrichedTransaction, error) {
	dataset, err := s.getDataset(datasetID)
	if err != nil {
		return nil, err
	}
	return dataset.Enriched, nil
}

func (s *salesServiceImpl) EnrichedSnapshot(datasetID string) ([]byte, error) {
	enriched, err := s.Enriched(datasetID)
	if err != nil {
		return nil, err
	}
	return exports.Render(enriched), nil
}

func (s *salesServiceImpl) Report(datasetID string) ([]byte, error) {
	dataset, err := s.getDataset(datasetID)
	if err != nil {
		return nil, err
	}
	return s.reporter.Generate(dataset.Transactions, dataset.Enriched), nil
}

// filterKey builds a stable cache key fragment for a filter combination.
func filterKey(f processors.Filter) string {
	min, max := "-", "-"
	if f.MinAmount != nil {
		min = fmt.Sprintf("%g", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		max = fmt.Sprintf("%g", *f.MaxAmount)
	}
	return fmt.Sprintf("%s|%s|%s", f.Region, min, max)
}

// dateRange returns the lexicographic min and max date of the collection.
func dateRange(transactions []models.Transaction) (string, string) {
	first, last := transactions[0].Date, transactions[0].Date
	for _, tx := range transactions[1:] {
		if tx.Date < first {
			first = tx.Date
		}
		if tx.Date > last {
			last = tx.Date
		}
	}
	return first, last
}

func writeSnapshot(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create snapshot directory '%s': %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
