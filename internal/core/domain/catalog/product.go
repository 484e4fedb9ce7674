package catalog

import (
	"strconv"

	"github.com/google/uuid"
)

type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	Currency    string    `json:"currency"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"image_url"`
	InStock     bool      `json:"in_stock"`
}

// ProductList is the snapshot shape returned by the product listing
// endpoint. The cache stores it verbatim.
type ProductList struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}

// ListFilter narrows a product listing request.
type ListFilter struct {
	Category string
	Search   string
	Page     int
	PageSize int
}

// Query renders the filter as request query parameters. Zero-valued
// fields are omitted so that equivalent filters produce equal maps.
func (f ListFilter) Query() map[string]string {
	q := map[string]string{}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.Search != "" {
		q["search"] = f.Search
	}
	if f.Page > 0 {
		q["page"] = strconv.Itoa(f.Page)
	}
	if f.PageSize > 0 {
		q["page_size"] = strconv.Itoa(f.PageSize)
	}
	return q
}
