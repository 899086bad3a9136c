package processors

import (
	"strconv"
	"strings"

	"github.com/username/salesfolio/src/models"
)

// EnrichmentProcessor left-joins transactions against the product catalog
// lookup. The join key is the numeric part of the ProductID ("P101" → 101).
type EnrichmentProcessor struct{}

func NewEnrichmentProcessor() *EnrichmentProcessor {
	return &EnrichmentProcessor{}
}

// Enrich copies every transaction and appends the catalog attributes on a
// lookup hit, or empty values with APIMatch=false on a miss. The join never
// drops or reorders transactions: one enriched record per input record, for
// any catalog including the empty one.
func (p *EnrichmentProcessor) Enrich(transactions []models.Transaction, catalog map[int]models.CatalogAttributes) []models.EnrichedTransaction {
	enriched := make([]models.EnrichedTransaction, 0, len(transactions))

	for _, tx := range transactions {
		e := models.EnrichedTransaction{Transaction: tx}

		if id, err := strconv.Atoi(strings.TrimPrefix(tx.ProductID, "P")); err == nil {
			if attrs, ok := catalog[id]; ok {
				rating := attrs.Rating
				e.APICategory = attrs.Category
				e.APIBrand = attrs.Brand
				e.APIRating = &rating
				e.APIMatch = true
			}
		}

		enriched = append(enriched, e)
	}

	return enriched
}
