package models

// Transaction is one cleaned sales record parsed from the pipe-delimited log.
// Records are immutable once parsed; the monetary amount is always derived
// from quantity and unit price, never stored.
type Transaction struct {
	TransactionID string  `json:"transaction_id"`
	Date          string  `json:"date"` // YYYY-MM-DD, sorts lexicographically
	ProductID     string  `json:"product_id"`
	ProductName   string  `json:"product_name"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	CustomerID    string  `json:"customer_id"`
	Region        string  `json:"region"`
}

// Amount returns the derived monetary value of the transaction.
func (t Transaction) Amount() float64 {
	return float64(t.Quantity) * t.UnitPrice
}

// EnrichedTransaction is a Transaction copied and extended with attributes
// from the product catalog. APIRating is nil when the lookup missed so the
// snapshot serializes it as an empty value rather than a fake zero.
type EnrichedTransaction struct {
	Transaction
	APICategory string   `json:"api_category"`
	APIBrand    string   `json:"api_brand"`
	APIRating   *float64 `json:"api_rating"`
	APIMatch    bool     `json:"api_match"`
}

// FilterSummary accounts for every record that entered the validator and
// where the discarded ones went.
type FilterSummary struct {
	TotalInput       int `json:"total_input"`
	Invalid          int `json:"invalid"`
	FilteredByRegion int `json:"filtered_by_region"`
	FilteredByAmount int `json:"filtered_by_amount"`
	FinalCount       int `json:"final_count"`
}

// RegionStat is one region's share of total sales.
type RegionStat struct {
	Region           string  `json:"region"`
	TotalSales       float64 `json:"total_sales"`
	TransactionCount int     `json:"transaction_count"`
	Percentage       float64 `json:"percentage"`
}

// ProductRank is one product's aggregated sales position, used both for top
// sellers and low performers.
type ProductRank struct {
	ProductName   string  `json:"product_name"`
	TotalQuantity int     `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
}

// CustomerStat aggregates one customer's purchase behaviour.
type CustomerStat struct {
	CustomerID     string   `json:"customer_id"`
	TotalSpent     float64  `json:"total_spent"`
	PurchaseCount  int      `json:"purchase_count"`
	AvgOrderValue  float64  `json:"avg_order_value"`
	ProductsBought []string `json:"products_bought"`
}

// DailyStat aggregates one date's sales activity.
type DailyStat struct {
	Date             string  `json:"date"`
	Revenue          float64 `json:"revenue"`
	TransactionCount int     `json:"transaction_count"`
	UniqueCustomers  int     `json:"unique_customers"`
}

// PeakDay is the single date with the highest revenue.
type PeakDay struct {
	Date             string  `json:"date"`
	Revenue          float64 `json:"revenue"`
	TransactionCount int     `json:"transaction_count"`
}
