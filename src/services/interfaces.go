package services

import (
	"errors"
	"io"
	"time"

	"github.com/username/salesfolio/src/models"
	"github.com/username/salesfolio/src/processors"
)

var (
	ErrParsingFailed   = errors.New("sales file parsing failed")
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrNoDataset       = errors.New("no dataset has been processed yet")
)

// Dataset is one fully materialized sales upload: the validated transaction
// collection plus its catalog-enriched counterpart. Datasets are immutable
// after construction so aggregations need no locking.
type Dataset struct {
	ID           string
	SourceName   string
	CreatedAt    time.Time
	Transactions []models.Transaction
	Enriched     []models.EnrichedTransaction
	Summary      models.FilterSummary
}

// ProcessResult summarizes one processed sales upload.
type ProcessResult struct {
	DatasetID     string               `json:"dataset_id"`
	ParsedCount   int                  `json:"parsed_count"`
	ValidCount    int                  `json:"valid_count"`
	InvalidCount  int                  `json:"invalid_count"`
	Summary       models.FilterSummary `json:"summary"`
	MatchedCount  int                  `json:"matched_count"`
	EnrichedCount int                  `json:"enriched_count"`
	EnrichedPath  string               `json:"enriched_path,omitempty"`
	ReportPath    string               `json:"report_path,omitempty"`
}

// AnalyticsResult bundles every aggregation for one dataset + filter view.
// Top products use n=5 and low performers threshold=10; handlers needing
// other values call the dedicated service methods.
type AnalyticsResult struct {
	DatasetID         string                `json:"dataset_id"`
	FilterSummary     models.FilterSummary  `json:"filter_summary"`
	TotalRevenue      float64               `json:"total_revenue"`
	TransactionCount  int                   `json:"transaction_count"`
	AverageOrderValue float64               `json:"average_order_value"`
	FirstDate         string                `json:"first_date"`
	LastDate          string                `json:"last_date"`
	Regions           []models.RegionStat   `json:"regions"`
	TopProducts       []models.ProductRank  `json:"top_products"`
	Customers         []models.CustomerStat `json:"customers"`
	Daily             []models.DailyStat    `json:"daily"`
	PeakDay           models.PeakDay        `json:"peak_day"`
	LowPerformers     []models.ProductRank  `json:"low_performers"`
}

// SalesService is the core orchestration: parse, validate, aggregate,
// enrich, snapshot and serve datasets.
type SalesService interface {
	ProcessUpload(file io.Reader, sourceName string) (*ProcessResult, error)
	ProcessFile(path string) (*ProcessResult, error)
	LatestDatasetID() (string, error)
	Analytics(datasetID string, f processors.Filter) (*AnalyticsResult, error)
	TopProducts(datasetID string, f processors.Filter, n int) ([]models.ProductRank, error)
	LowPerformers(datasetID string, f processors.Filter, threshold int) ([]models.ProductRank, error)
	Enriched(datasetID string) ([]models.EnrichedTransaction, error)
	EnrichedSnapshot(datasetID string) ([]byte, error)
	Report(datasetID string) ([]byte, error)
}

// CatalogService fetches the external product catalog and exposes the
// id → attributes lookup used by the enrichment join. A failed fetch
// degrades to an empty lookup, never an abort.
type CatalogService interface {
	FetchProducts() ([]models.CatalogProduct, error)
	ProductMapping() map[int]models.CatalogAttributes
}
