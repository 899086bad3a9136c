package processors

import (
	"strings"

	"github.com/username/salesfolio/src/logger"
	"github.com/username/salesfolio/src/models"
)

// Filter holds the optional predicates applied to records that already
// passed validation. A zero Filter keeps everything. Amount bounds are
// inclusive; a nil bound leaves that side unbounded.
type Filter struct {
	Region    string
	MinAmount *float64
	MaxAmount *float64
}

// TransactionValidator enforces the per-record business rules and applies
// the optional region/amount filters on top of the validated set.
type TransactionValidator struct{}

func NewTransactionValidator() *TransactionValidator {
	return &TransactionValidator{}
}

// ValidateAndFilter runs the validation pass over every record, then the
// region filter, then the amount filter. Records keep their relative order
// throughout. The summary tracks each stage's removals separately.
func (v *TransactionValidator) ValidateAndFilter(records []models.Transaction, f Filter) ([]models.Transaction, int, models.FilterSummary) {
	totalInput := len(records)

	valid := make([]models.Transaction, 0, len(records))
	invalidCount := 0
	for _, tx := range records {
		if reason := validateTransaction(tx); reason != "" {
			invalidCount++
			logger.L.Debug("Rejecting invalid transaction", "transactionID", tx.TransactionID, "reason", reason)
			continue
		}
		valid = append(valid, tx)
	}

	filteredByRegion := 0
	if f.Region != "" {
		before := len(valid)
		kept := make([]models.Transaction, 0, len(valid))
		for _, tx := range valid {
			if tx.Region == f.Region {
				kept = append(kept, tx)
			}
		}
		valid = kept
		filteredByRegion = before - len(valid)
	}

	filteredByAmount := 0
	if f.MinAmount != nil || f.MaxAmount != nil {
		before := len(valid)
		kept := make([]models.Transaction, 0, len(valid))
		for _, tx := range valid {
			amount := tx.Amount()
			if f.MinAmount != nil && amount < *f.MinAmount {
				continue
			}
			if f.MaxAmount != nil && amount > *f.MaxAmount {
				continue
			}
			kept = append(kept, tx)
		}
		valid = kept
		filteredByAmount = before - len(valid)
	}

	summary := models.FilterSummary{
		TotalInput:       totalInput,
		Invalid:          invalidCount,
		FilteredByRegion: filteredByRegion,
		FilteredByAmount: filteredByAmount,
		FinalCount:       len(valid),
	}

	return valid, invalidCount, summary
}

// validateTransaction returns an empty string when the record satisfies all
// business rules, otherwise the reason it was rejected.
func validateTransaction(tx models.Transaction) string {
	switch {
	case tx.TransactionID == "", tx.Date == "", tx.ProductID == "",
		tx.ProductName == "", tx.CustomerID == "", tx.Region == "":
		return "missing required field"
	case tx.Quantity <= 0:
		return "non-positive quantity"
	case tx.UnitPrice <= 0:
		return "non-positive unit price"
	case !strings.HasPrefix(tx.TransactionID, "T"):
		return "transaction id must start with T"
	case !strings.HasPrefix(tx.ProductID, "P"):
		return "product id must start with P"
	case !strings.HasPrefix(tx.CustomerID, "C"):
		return "customer id must start with C"
	}
	return ""
}
