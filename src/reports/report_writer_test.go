package reports

import (
	"strings"
	"testing"

	"github.com/username/salesfolio/src/models"
)

func sampleTransactions() []models.Transaction {
	return []models.Transaction{
		{TransactionID: "T001", Date: "2024-12-01", ProductID: "P101", ProductName: "Laptop",
			Quantity: 2, UnitPrice: 45000, CustomerID: "C001", Region: "North"},
		{TransactionID: "T002", Date: "2024-12-02", ProductID: "P102", ProductName: "Mouse",
			Quantity: 4, UnitPrice: 250, CustomerID: "C002", Region: "South"},
	}
}

func sampleEnriched(transactions []models.Transaction) []models.EnrichedTransaction {
	rating := 4.5
	return []models.EnrichedTransaction{
		{Transaction: transactions[0], APICategory: "electronics", APIBrand: "Acme", APIRating: &rating, APIMatch: true},
		{Transaction: transactions[1]},
	}
}

func TestGenerateReportSections(t *testing.T) {
	transactions := sampleTransactions()
	report := string(NewReportWriter().Generate(transactions, sampleEnriched(transactions)))

	for _, section := range []string{
		"SALES ANALYTICS REPORT",
		"OVERALL SUMMARY",
		"REGION-WISE PERFORMANCE",
		"TOP 5 PRODUCTS",
		"TOP 5 CUSTOMERS",
		"DAILY SALES TREND",
		"PRODUCT PERFORMANCE ANALYSIS",
		"API ENRICHMENT SUMMARY",
	} {
		if !strings.Contains(report, section) {
			t.Errorf("report missing section %q", section)
		}
	}
}

func TestGenerateReportFigures(t *testing.T) {
	transactions := sampleTransactions()
	report := string(NewReportWriter().Generate(transactions, sampleEnriched(transactions)))

	if !strings.Contains(report, "Total Revenue:        ₹91,000.00") {
		t.Error("expected grouped total revenue figure")
	}
	if !strings.Contains(report, "Total Transactions:   2") {
		t.Error("expected transaction count line")
	}
	if !strings.Contains(report, "Date Range:           2024-12-01 to 2024-12-02") {
		t.Error("expected date range line")
	}
	if !strings.Contains(report, "Best Selling Day: 2024-12-01") {
		t.Error("expected best selling day line")
	}
	if !strings.Contains(report, "Records Processed: 2") {
		t.Error("expected records processed line")
	}
}

func TestGenerateReportEnrichmentSummary(t *testing.T) {
	transactions := sampleTransactions()
	report := string(NewReportWriter().Generate(transactions, sampleEnriched(transactions)))

	if !strings.Contains(report, "Successful Enrichments: 1") {
		t.Error("expected 1 successful enrichment")
	}
	if !strings.Contains(report, "Failed Enrichments:     1") {
		t.Error("expected 1 failed enrichment")
	}
	if !strings.Contains(report, "Success Rate:           50.00%") {
		t.Error("expected 50.00% success rate")
	}
	if !strings.Contains(report, "- Mouse") {
		t.Error("expected unmatched product listed by name")
	}
}

func TestGenerateReportAllEnriched(t *testing.T) {
	transactions := sampleTransactions()
	rating := 4.5
	enriched := []models.EnrichedTransaction{
		{Transaction: transactions[0], APIMatch: true, APIRating: &rating},
		{Transaction: transactions[1], APIMatch: true, APIRating: &rating},
	}

	report := string(NewReportWriter().Generate(transactions, enriched))
	if !strings.Contains(report, "All products were successfully enriched.") {
		t.Error("expected the all-enriched message")
	}
}

func TestGenerateReportEmptyDataset(t *testing.T) {
	report := string(NewReportWriter().Generate(nil, nil))

	if !strings.Contains(report, "Date Range:           N/A") {
		t.Error("expected N/A date range for empty dataset")
	}
	if !strings.Contains(report, "Best Selling Day: N/A") {
		t.Error("expected N/A best selling day for empty dataset")
	}
	if !strings.Contains(report, "Low Performing Products: None") {
		t.Error("expected no low performers for empty dataset")
	}
	if !strings.Contains(report, "Success Rate:           0.00%") {
		t.Error("expected 0.00% success rate for empty dataset")
	}
}

func TestFormatMoney(t *testing.T) {
	testCases := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{999.5, "999.50"},
		{1000, "1,000.00"},
		{91000, "91,000.00"},
		{1234567.8, "1,234,567.80"},
		{-4500, "-4,500.00"},
	}
	for _, tc := range testCases {
		if got := formatMoney(tc.in); got != tc.want {
			t.Errorf("formatMoney(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
