package reports

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/username/salesfolio/src/models"
	"github.com/username/salesfolio/src/processors"
	"github.com/username/salesfolio/src/utils"
)

const (
	reportWidth  = 44
	topListLimit = 5
)

// ReportWriter renders the formatted text report over a validated dataset
// and its enriched counterpart. The layout is fixed; every figure is
// recomputed from the transaction collection at render time.
type ReportWriter struct {
	analytics *processors.AnalyticsProcessor
}

func NewReportWriter() *ReportWriter {
	return &ReportWriter{analytics: processors.NewAnalyticsProcessor()}
}

func (w *ReportWriter) Generate(transactions []models.Transaction, enriched []models.EnrichedTransaction) []byte {
	var b strings.Builder
	rule := strings.Repeat("=", reportWidth)
	line := strings.Repeat("-", reportWidth)

	// Header
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "          SALES ANALYTICS REPORT")
	fmt.Fprintf(&b, "    Generated: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "    Records Processed: %d\n", len(transactions))
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b)

	// Overall summary
	fmt.Fprintln(&b, "OVERALL SUMMARY")
	fmt.Fprintln(&b, line)

	totalRevenue := w.analytics.TotalRevenue(transactions)
	avgOrderValue := 0.0
	if len(transactions) > 0 {
		avgOrderValue = totalRevenue / float64(len(transactions))
	}
	fmt.Fprintf(&b, "Total Revenue:        ₹%s\n", formatMoney(totalRevenue))
	fmt.Fprintf(&b, "Total Transactions:   %d\n", len(transactions))
	fmt.Fprintf(&b, "Average Order Value:  ₹%s\n", formatMoney(avgOrderValue))
	fmt.Fprintf(&b, "Date Range:           %s\n", formatDateRange(transactions))
	fmt.Fprintln(&b)

	// Region-wise performance
	fmt.Fprintln(&b, "REGION-WISE PERFORMANCE")
	fmt.Fprintln(&b, line)
	fmt.Fprintln(&b, "Region    Sales           % of Total   Transactions")
	for _, stat := range w.analytics.RegionWiseSales(transactions) {
		fmt.Fprintf(&b, "%-9s ₹%12s   %8.2f%%       %d\n",
			stat.Region, formatMoney(stat.TotalSales), stat.Percentage, stat.TransactionCount)
	}
	fmt.Fprintln(&b)

	// Top products
	fmt.Fprintf(&b, "TOP %d PRODUCTS\n", topListLimit)
	fmt.Fprintln(&b, line)
	fmt.Fprintln(&b, "Rank  Product Name                 Quantity   Revenue")
	for i, product := range w.analytics.TopSellingProducts(transactions, topListLimit) {
		fmt.Fprintf(&b, "%-5d %-28s %8d   ₹%10s\n",
			i+1, product.ProductName, product.TotalQuantity, formatMoney(product.TotalRevenue))
	}
	fmt.Fprintln(&b)

	// Top customers
	fmt.Fprintf(&b, "TOP %d CUSTOMERS\n", topListLimit)
	fmt.Fprintln(&b, line)
	fmt.Fprintln(&b, "Rank  Customer ID   Total Spent      Orders")
	customers := w.analytics.CustomerAnalysis(transactions)
	for i, customer := range customers[:utils.MinInt(topListLimit, len(customers))] {
		fmt.Fprintf(&b, "%-5d %-13s ₹%12s   %d\n",
			i+1, customer.CustomerID, formatMoney(customer.TotalSpent), customer.PurchaseCount)
	}
	fmt.Fprintln(&b)

	// Daily trend
	fmt.Fprintln(&b, "DAILY SALES TREND")
	fmt.Fprintln(&b, line)
	fmt.Fprintln(&b, "Date         Revenue          Transactions   Customers")
	for _, day := range w.analytics.DailySalesTrend(transactions) {
		fmt.Fprintf(&b, "%-12s ₹%12s   %12d   %d\n",
			day.Date, formatMoney(day.Revenue), day.TransactionCount, day.UniqueCustomers)
	}
	fmt.Fprintln(&b)

	// Product performance analysis
	fmt.Fprintln(&b, "PRODUCT PERFORMANCE ANALYSIS")
	fmt.Fprintln(&b, line)

	peak := w.analytics.FindPeakSalesDay(transactions)
	if peak.Date != "" {
		fmt.Fprintf(&b, "Best Selling Day: %s (₹%s, %d transactions)\n\n",
			peak.Date, formatMoney(peak.Revenue), peak.TransactionCount)
	} else {
		fmt.Fprintf(&b, "Best Selling Day: N/A\n\n")
	}

	lowProducts := w.analytics.LowPerformingProducts(transactions, 10)
	if len(lowProducts) > 0 {
		fmt.Fprintln(&b, "Low Performing Products:")
		for _, product := range lowProducts {
			fmt.Fprintf(&b, "- %s: %d units sold, ₹%s\n",
				product.ProductName, product.TotalQuantity, formatMoney(product.TotalRevenue))
		}
	} else {
		fmt.Fprintln(&b, "Low Performing Products: None")
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Average Transaction Value per Region:")
	for _, stat := range w.analytics.RegionWiseSales(transactions) {
		avg := 0.0
		if stat.TransactionCount > 0 {
			avg = stat.TotalSales / float64(stat.TransactionCount)
		}
		fmt.Fprintf(&b, "- %s: ₹%s\n", stat.Region, formatMoney(avg))
	}
	fmt.Fprintln(&b)

	// API enrichment summary
	fmt.Fprintln(&b, "API ENRICHMENT SUMMARY")
	fmt.Fprintln(&b, line)

	matched := 0
	failedProducts := make(map[string]struct{})
	for _, tx := range enriched {
		if tx.APIMatch {
			matched++
		} else {
			failedProducts[tx.ProductName] = struct{}{}
		}
	}
	failed := len(enriched) - matched
	successRate := 0.0
	if len(enriched) > 0 {
		successRate = float64(matched) / float64(len(enriched)) * 100
	}

	fmt.Fprintf(&b, "Total Records Enriched: %d\n", len(enriched))
	fmt.Fprintf(&b, "Successful Enrichments: %d\n", matched)
	fmt.Fprintf(&b, "Failed Enrichments:     %d\n", failed)
	fmt.Fprintf(&b, "Success Rate:           %.2f%%\n\n", successRate)

	if failed > 0 {
		fmt.Fprintln(&b, "Products That Could Not Be Enriched:")
		names := make([]string, 0, len(failedProducts))
		for name := range failedProducts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "- %s\n", name)
		}
	} else {
		fmt.Fprintln(&b, "All products were successfully enriched.")
	}
	fmt.Fprintln(&b)

	return []byte(b.String())
}

// formatDateRange reports the lexicographic min/max of the date column.
func formatDateRange(transactions []models.Transaction) string {
	if len(transactions) == 0 {
		return "N/A"
	}
	first, last := transactions[0].Date, transactions[0].Date
	for _, tx := range transactions[1:] {
		if tx.Date < first {
			first = tx.Date
		}
		if tx.Date > last {
			last = tx.Date
		}
	}
	return fmt.Sprintf("%s to %s", first, last)
}

// formatMoney renders a monetary value with two decimals and
// thousands-separator commas, e.g. 1234567.8 → "1,234,567.80".
func formatMoney(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}

	out := grouped.String() + "." + fracPart
	if negative {
		out = "-" + out
	}
	return out
}
