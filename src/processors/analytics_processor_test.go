package processors

import (
	"math"
	"reflect"
	"testing"

	"github.com/username/salesfolio/src/models"
)

func tx(id, date, productID, productName string, quantity int, unitPrice float64, customerID, region string) models.Transaction {
	return models.Transaction{
		TransactionID: id,
		Date:          date,
		ProductID:     productID,
		ProductName:   productName,
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		CustomerID:    customerID,
		Region:        region,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTotalRevenue(t *testing.T) {
	analytics := NewAnalyticsProcessor()

	if got := analytics.TotalRevenue(nil); got != 0 {
		t.Errorf("expected 0 revenue for empty input, got %v", got)
	}

	transactions := []models.Transaction{
		tx("T001", "2024-12-01", "P101", "Laptop", 2, 45000, "C001", "North"),
		tx("T002", "2024-12-01", "P102", "Mouse", 4, 250, "C002", "South"),
	}
	if got := analytics.TotalRevenue(transactions); !almostEqual(got, 91000) {
		t.Errorf("expected revenue 91000, got %v", got)
	}
}

func TestRegionWiseSales(t *testing.T) {
	analytics := NewAnalyticsProcessor()
	transactions := []models.Transaction{
		tx("T001", "2024-12-01", "P101", "Laptop", 2, 45000, "C001", "North"),
		tx("T002", "2024-12-01", "P102", "Mouse", 4, 2500, "C002", "South"),
	}

	stats := analytics.RegionWiseSales(transactions)
	if len(stats) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(stats))
	}

	// Ordered by total sales descending.
	if stats[0].Region != "North" || !almostEqual(stats[0].TotalSales, 90000) {
		t.Errorf("unexpected first region: %+v", stats[0])
	}
	if !almostEqual(stats[0].Percentage, 90.0) || !almostEqual(stats[1].Percentage, 10.0) {
		t.Errorf("unexpected percentages: %v / %v", stats[0].Percentage, stats[1].Percentage)
	}
	if stats[0].TransactionCount != 1 {
		t.Errorf("expected 1 transaction in North, got %d", stats[0].TransactionCount)
	}
}

func TestRegionWiseSalesSingleRegionIsFullShare(t *testing.T) {
	analytics := NewAnalyticsProcessor()
	stats := analytics.RegionWiseSales([]models.Transaction{
		tx("T001", "2024-12-01", "P101", "Laptop", 2, 45000, "C001", "North"),
	})
	if len(stats) != 1 || !almostEqual(stats[0].Percentage, 100.0) {
		t.Errorf("expected single region at 100%%, got %+v", stats)
	}
}

func TestRegionWiseSalesTieBrokenByName(t *testing.T) {
	analytics := NewAnalyticsProcessor()
	stats := analytics.RegionWiseSales([]models.Transaction{
		tx("T001", "2024-12-01", "P101", "Laptop", 1, 100, "C001", "South"),
		tx("T002", "2024-12-01", "P102", "Mouse", 1, 100, "C002", "North"),
	})
	if stats[0].Region != "North" || stats[1].Region != "South" {
		t.Errorf("expected name-ascending tie break, got %s then %s", stats[0].Region, stats[1].Region)
	}
}

func TestTopSellingProducts(t *testing.T) {
	analytics := NewAnalyticsProcessor()
	transactions := []models.Transaction{
		tx("T001", "2024-12-01", "P101", "Laptop", 2, 45000, "C001", "North"),
		tx("T002", "2024-12-01", "P102", "Mouse", 10, 250, "C002", "South"),
		tx("T003", "2024-12-02", "P102", "Mouse", 5, 250, "C001", "North"),
		tx("T004", "2024-12-02", "P103", "Keyboard", 5, 1200, "C003", "East"),
	}

	ranks := analytics.TopSellingProducts(transactions, 2)
	if len(ranks) != 2 {
		t.Fatalf("expected 2 ranks, got %d", len(ranks))
	}
	if ranks[0].ProductName != "Mouse" || ranks[0].TotalQuantity != 15 {
		t.Errorf("unexpected top product: %+v", ranks[0])
	}
	if !almostEqual(ranks[0].TotalRevenue, 3750) {
		t.Errorf("expected Mouse revenue 3750, got %v", ranks[0].TotalRevenue)
	}

	if ranks[1].ProductName != "Keyboard" {
		t.Errorf("expected Keyboard second, got %s", ranks[1].ProductName)
	}
}

func TestTopSellingProductsLargerNThanProducts(t *testing.T) {
	analytics := NewAnalyticsProcessor()
	ranks := analytics.TopSellingProducts([]models.Transaction{
		tx("T001", "2024-12-01", "P101", "Laptop", 2, 45000, "C001", "North"),
	}, 10)
	if len(ranks) != 1 {
		t.Errorf("expected all products when n exceeds count, got %d", len(ranks))
	}
}

func TestLowPerformingProducts(t *testing.T) {
	analytics := NewAnalyticsProcessor()
	transactions := []models.Transaction{
		tx("T001", "2024-12-01", "P101", "Laptop", 2, 45000, "C001", "North"),
		tx("T002", "2024-12-01", "P102", "Mouse", 10, 250, "C002", "South"),
		tx("T003", "2024-12-02", "P103", "Keyboard", 4, 1200, "C003", "East"),
	}

	low := analytics.LowPerformingProducts(transactions, 10)
	if len(low) != 2 {
		t.Fatalf("expected 2 low performers, got %d", len(low))
	}
	// Quantity ascending: Laptop (2) before Keyboard (4). Mouse sits
	// exactly on the threshold and is excluded.
	if low[0].ProductName != "Laptop" || low[1].ProductName != "Keyboard" {
		t.Errorf("unexpected order: %s then %s", low[0].ProductName, low[1].ProductName)
	}
}

func TestCustomerAnalysis(t *testing.T) {
	analytics := NewAnalyticsProcessor()
	transactions := []models.Transaction{
		tx("T001", "2024-12-01", "P101", "Laptop", 2, 45000, "C001", "North"),
		tx("T002", "2024-12-01", "P102", "Mouse", 4, 250, "C001", "North"),
		tx("T003", "2024-12-02", "P102", "Mouse", 1, 250, "C002", "South"),
	}

	stats := analytics.CustomerAnalysis(transactions)
	if len(stats) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(stats))
	}

	top := stats[0]
	if top.CustomerID != "C001" || !almostEqual(top.TotalSpent, 91000) || top.PurchaseCount != 2 {
		t.Errorf("unexpected top customer: %+v", top)
	}
	if !almostEqual(top.AvgOrderValue, 45500) {
		t.Errorf("expected avg order value 45500, got %v", top.AvgOrderValue)
	}
	if !reflect.DeepEqual(top.ProductsBought, []string{"Laptop", "Mouse"}) {
		t.Errorf("expected sorted distinct products, got %v", top.ProductsBought)
	}
}

func TestDailySalesTrend(t *testing.T) {
	analytics := NewAnalyticsProcessor()
	transactions := []models.Transaction{
		tx("T003", "2024-12-02", "P103", "Keyboard", 1, 1200, "C003", "East"),
		tx("T001", "2024-12-01", "P101", "Laptop", 2, 45000, "C001", "North"),
		tx("T002", "2024-12-01", "P102", "Mouse", 4, 250, "C001", "North"),
	}

	daily := analytics.DailySalesTrend(transactions)
	if len(daily) != 2 {
		t.Fatalf("expected 2 days, got %d", len(daily))
	}
	if daily[0].Date != "2024-12-01" || daily[1].Date != "2024-12-02" {
		t.Errorf("expected chronological order, got %s then %s", daily[0].Date, daily[1].Date)
	}
	if daily[0].TransactionCount != 2 || daily[0].UniqueCustomers != 1 {
		t.Errorf("unexpected first day stats: %+v", daily[0])
	}
	if !almostEqual(daily[0].Revenue, 91000) {
		t.Errorf("expected day revenue 91000, got %v", daily[0].Revenue)
	}
}

func TestFindPeakSalesDay(t *testing.T) {
	analytics := NewAnalyticsProcessor()

	if peak := analytics.FindPeakSalesDay(nil); peak.Date != "" || peak.Revenue != 0 {
		t.Errorf("expected zero peak for empty input, got %+v", peak)
	}

	transactions := []models.Transaction{
		tx("T001", "2024-12-01", "P101", "Laptop", 1, 100, "C001", "North"),
		tx("T002", "2024-12-02", "P102", "Mouse", 1, 500, "C002", "South"),
		tx("T003", "2024-12-03", "P103", "Keyboard", 1, 200, "C003", "East"),
	}
	peak := analytics.FindPeakSalesDay(transactions)
	if peak.Date != "2024-12-02" || !almostEqual(peak.Revenue, 500) || peak.TransactionCount != 1 {
		t.Errorf("unexpected peak: %+v", peak)
	}
}

func TestFindPeakSalesDayFirstSeenWinsTies(t *testing.T) {
	analytics := NewAnalyticsProcessor()
	transactions := []models.Transaction{
		tx("T001", "2024-12-05", "P101", "Laptop", 1, 300, "C001", "North"),
		tx("T002", "2024-12-01", "P102", "Mouse", 1, 300, "C002", "South"),
	}
	peak := analytics.FindPeakSalesDay(transactions)
	if peak.Date != "2024-12-05" {
		t.Errorf("expected the first tied date in input order, got %s", peak.Date)
	}
}
