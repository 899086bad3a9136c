package models

// CatalogProduct is one entry fetched from the external product catalog.
type CatalogProduct struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Brand    string  `json:"brand"`
	Price    float64 `json:"price"`
	Rating   float64 `json:"rating"`
}

// CatalogAttributes is the reduced attribute set kept in the id lookup used
// by the enrichment join.
type CatalogAttributes struct {
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Brand    string  `json:"brand"`
	Rating   float64 `json:"rating"`
}
