package exports

import (
	"strconv"
	"strings"

	"github.com/username/salesfolio/src/models"
)

// enrichedHeader is the fixed column order of the enriched snapshot file.
// Downstream reporting and storage both depend on it.
var enrichedHeader = []string{
	"TransactionID", "Date", "ProductID", "ProductName",
	"Quantity", "UnitPrice", "CustomerID", "Region",
	"API_Category", "API_Brand", "API_Rating", "API_Match",
}

// Render serializes enriched transactions to the pipe-delimited snapshot
// format. Missing enrichment values serialize as empty strings and API_Match
// as a literal boolean token.
func Render(transactions []models.EnrichedTransaction) []byte {
	var b strings.Builder
	b.WriteString(strings.Join(enrichedHeader, "|"))
	b.WriteByte('\n')

	for _, tx := range transactions {
		fields := []string{
			tx.TransactionID,
			tx.Date,
			tx.ProductID,
			tx.ProductName,
			strconv.Itoa(tx.Quantity),
			strconv.FormatFloat(tx.UnitPrice, 'f', -1, 64),
			tx.CustomerID,
			tx.Region,
			tx.APICategory,
			tx.APIBrand,
			formatRating(tx.APIRating),
			strconv.FormatBool(tx.APIMatch),
		}
		b.WriteString(strings.Join(fields, "|"))
		b.WriteByte('\n')
	}

	return []byte(b.String())
}

func formatRating(rating *float64) string {
	if rating == nil {
		return ""
	}
	return strconv.FormatFloat(*rating, 'f', -1, 64)
}
