package processors

import (
	"sort"

	"github.com/username/salesfolio/src/models"
	"github.com/username/salesfolio/src/utils"
)

// AnalyticsProcessor computes read-only aggregates over a validated
// transaction collection. Every method is a pure reduction: it allocates its
// own accumulators, never mutates its input and returns zero-valued results
// for an empty collection.
type AnalyticsProcessor struct{}

func NewAnalyticsProcessor() *AnalyticsProcessor {
	return &AnalyticsProcessor{}
}

// TotalRevenue sums quantity × unit price over all transactions.
func (p *AnalyticsProcessor) TotalRevenue(transactions []models.Transaction) float64 {
	total := 0.0
	for _, tx := range transactions {
		total += tx.Amount()
	}
	return total
}

// RegionWiseSales aggregates sales per region and, in a second pass, each
// region's percentage of the grand total. Regions are ordered by total sales
// descending (ties broken by region name). A zero grand total yields 0% for
// every region.
func (p *AnalyticsProcessor) RegionWiseSales(transactions []models.Transaction) []models.RegionStat {
	totals := make(map[string]*models.RegionStat)
	grandTotal := 0.0

	for _, tx := range transactions {
		amount := tx.Amount()
		grandTotal += amount

		stat, ok := totals[tx.Region]
		if !ok {
			stat = &models.RegionStat{Region: tx.Region}
			totals[tx.Region] = stat
		}
		stat.TotalSales += amount
		stat.TransactionCount++
	}

	stats := make([]models.RegionStat, 0, len(totals))
	for _, stat := range totals {
		if grandTotal > 0 {
			stat.Percentage = utils.RoundFloat(stat.TotalSales/grandTotal*100, 2)
		}
		stats = append(stats, *stat)
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TotalSales != stats[j].TotalSales {
			return stats[i].TotalSales > stats[j].TotalSales
		}
		return stats[i].Region < stats[j].Region
	})

	return stats
}

// TopSellingProducts returns at most n products ranked by total quantity
// sold, descending. Equal quantities are broken by product name ascending so
// the ranking is deterministic.
func (p *AnalyticsProcessor) TopSellingProducts(transactions []models.Transaction, n int) []models.ProductRank {
	ranks := p.productTotals(transactions)

	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].TotalQuantity != ranks[j].TotalQuantity {
			return ranks[i].TotalQuantity > ranks[j].TotalQuantity
		}
		return ranks[i].ProductName < ranks[j].ProductName
	})

	if n >= 0 && n < len(ranks) {
		ranks = ranks[:n]
	}
	return ranks
}

// LowPerformingProducts returns products whose total quantity sold stayed
// below the threshold, ordered by total quantity ascending (ties broken by
// product name).
func (p *AnalyticsProcessor) LowPerformingProducts(transactions []models.Transaction, threshold int) []models.ProductRank {
	low := make([]models.ProductRank, 0)
	for _, rank := range p.productTotals(transactions) {
		if rank.TotalQuantity < threshold {
			low = append(low, rank)
		}
	}

	sort.Slice(low, func(i, j int) bool {
		if low[i].TotalQuantity != low[j].TotalQuantity {
			return low[i].TotalQuantity < low[j].TotalQuantity
		}
		return low[i].ProductName < low[j].ProductName
	})

	return low
}

// productTotals aggregates quantity and revenue per product name, unsorted.
func (p *AnalyticsProcessor) productTotals(transactions []models.Transaction) []models.ProductRank {
	totals := make(map[string]*models.ProductRank)
	for _, tx := range transactions {
		rank, ok := totals[tx.ProductName]
		if !ok {
			rank = &models.ProductRank{ProductName: tx.ProductName}
			totals[tx.ProductName] = rank
		}
		rank.TotalQuantity += tx.Quantity
		rank.TotalRevenue += tx.Amount()
	}

	ranks := make([]models.ProductRank, 0, len(totals))
	for _, rank := range totals {
		ranks = append(ranks, *rank)
	}
	return ranks
}

// CustomerAnalysis aggregates spending per customer, ordered by total spent
// descending (ties broken by customer id). ProductsBought lists the distinct
// product names sorted ascending.
func (p *AnalyticsProcessor) CustomerAnalysis(transactions []models.Transaction) []models.CustomerStat {
	type customerAcc struct {
		totalSpent    float64
		purchaseCount int
		products      map[string]struct{}
	}

	accs := make(map[string]*customerAcc)
	for _, tx := range transactions {
		acc, ok := accs[tx.CustomerID]
		if !ok {
			acc = &customerAcc{products: make(map[string]struct{})}
			accs[tx.CustomerID] = acc
		}
		acc.totalSpent += tx.Amount()
		acc.purchaseCount++
		acc.products[tx.ProductName] = struct{}{}
	}

	stats := make([]models.CustomerStat, 0, len(accs))
	for customerID, acc := range accs {
		products := make([]string, 0, len(acc.products))
		for product := range acc.products {
			products = append(products, product)
		}
		sort.Strings(products)

		stats = append(stats, models.CustomerStat{
			CustomerID:     customerID,
			TotalSpent:     acc.totalSpent,
			PurchaseCount:  acc.purchaseCount,
			AvgOrderValue:  utils.RoundFloat(acc.totalSpent/float64(acc.purchaseCount), 2),
			ProductsBought: products,
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TotalSpent != stats[j].TotalSpent {
			return stats[i].TotalSpent > stats[j].TotalSpent
		}
		return stats[i].CustomerID < stats[j].CustomerID
	})

	return stats
}

// DailySalesTrend aggregates revenue, transaction count and distinct
// customers per date, ordered chronologically. The YYYY-MM-DD date strings
// sort lexicographically, so no calendar parsing is needed.
func (p *AnalyticsProcessor) DailySalesTrend(transactions []models.Transaction) []models.DailyStat {
	type dailyAcc struct {
		revenue   float64
		count     int
		customers map[string]struct{}
	}

	accs := make(map[string]*dailyAcc)
	for _, tx := range transactions {
		acc, ok := accs[tx.Date]
		if !ok {
			acc = &dailyAcc{customers: make(map[string]struct{})}
			accs[tx.Date] = acc
		}
		acc.revenue += tx.Amount()
		acc.count++
		acc.customers[tx.CustomerID] = struct{}{}
	}

	dates := make([]string, 0, len(accs))
	for date := range accs {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	stats := make([]models.DailyStat, 0, len(dates))
	for _, date := range dates {
		acc := accs[date]
		stats = append(stats, models.DailyStat{
			Date:             date,
			Revenue:          acc.revenue,
			TransactionCount: acc.count,
			UniqueCustomers:  len(acc.customers),
		})
	}

	return stats
}

// FindPeakSalesDay returns the date with the strictly highest revenue.
// A candidate replaces the current peak only when its revenue is strictly
// greater, so the first date encountered in input order wins ties. An empty
// collection yields a zero-valued PeakDay.
func (p *AnalyticsProcessor) FindPeakSalesDay(transactions []models.Transaction) models.PeakDay {
	type dayTotal struct {
		revenue float64
		count   int
	}

	totals := make(map[string]*dayTotal)
	firstSeen := make([]string, 0)

	for _, tx := range transactions {
		total, ok := totals[tx.Date]
		if !ok {
			total = &dayTotal{}
			totals[tx.Date] = total
			firstSeen = append(firstSeen, tx.Date)
		}
		total.revenue += tx.Amount()
		total.count++
	}

	var peak models.PeakDay
	for _, date := range firstSeen {
		total := totals[date]
		if total.revenue > peak.Revenue {
			peak = models.PeakDay{
				Date:             date,
				Revenue:          total.revenue,
				TransactionCount: total.count,
			}
		}
	}

	return peak
}
