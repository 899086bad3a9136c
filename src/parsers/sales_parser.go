package parsers

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/username/salesfolio/src/logger"
	"github.com/username/salesfolio/src/models"
	"github.com/username/salesfolio/src/utils"
)

const (
	// headerToken marks the optional header row of a sales export.
	headerToken = "TransactionID"
	fieldCount  = 8
)

// SalesParser parses the pipe-delimited sales log format:
//
//	TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region
//
// Numeric fields may carry thousands-separator commas. Malformed rows (wrong
// field count, unparseable numbers) are dropped, not errors: dropped-row
// accounting belongs to the caller's I/O layer.
type SalesParser struct{}

func NewSalesParser() *SalesParser {
	return &SalesParser{}
}

func (p *SalesParser) Parse(file io.Reader) ([]models.Transaction, error) {
	lines, err := utils.ReadTextLines(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read sales data: %w", err)
	}
	return p.ParseLines(lines), nil
}

// ParseLines converts raw lines into transactions, preserving input order.
// Header and blank lines are skipped defensively even though the I/O layer
// usually strips them already.
func (p *SalesParser) ParseLines(lines []string) []models.Transaction {
	transactions := make([]models.Transaction, 0, len(lines))

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, headerToken) {
			continue
		}

		parts := strings.Split(line, "|")
		if len(parts) != fieldCount {
			logger.L.Debug("Skipping row with unexpected field count", "line", i+1, "fields", len(parts))
			continue
		}

		quantity, err := strconv.Atoi(strings.ReplaceAll(parts[4], ",", ""))
		if err != nil {
			logger.L.Debug("Skipping row with invalid quantity", "line", i+1, "quantity", parts[4])
			continue
		}

		unitPrice, err := strconv.ParseFloat(strings.ReplaceAll(parts[5], ",", ""), 64)
		if err != nil {
			logger.L.Debug("Skipping row with invalid unit price", "line", i+1, "unitPrice", parts[5])
			continue
		}

		transactions = append(transactions, models.Transaction{
			TransactionID: parts[0],
			Date:          parts[1],
			ProductID:     parts[2],
			ProductName:   strings.ReplaceAll(parts[3], ",", ""),
			Quantity:      quantity,
			UnitPrice:     unitPrice,
			CustomerID:    parts[6],
			Region:        parts[7],
		})
	}

	return transactions
}
