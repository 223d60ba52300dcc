package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Product is a search hit summary. Only display fields are decoded.
type Product struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	ThumbnailRef string  `json:"image,omitempty"`
	CategorySlug string  `json:"category,omitempty"`
}

// UnmarshalJSON accepts ids and prices sent either as strings or as numbers.
// A price that is not numeric decodes as zero.
func (p *Product) UnmarshalJSON(data []byte) error {
	type plain Product
	var raw struct {
		plain
		ID    json.RawMessage `json:"id"`
		Price json.RawMessage `json:"price"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := scalarText(raw.ID)
	if err != nil {
		return fmt.Errorf("product id: %w", err)
	}

	*p = Product(raw.plain)
	p.ID = id
	p.Price = 0

	price, err := scalarText(raw.Price)
	if err == nil && price != "" {
		if v, err := strconv.ParseFloat(strings.TrimSpace(price), 64); err == nil {
			p.Price = v
		}
	}
	return nil
}

// scalarText returns a JSON string or number as text. null and absent
// values are empty.
func scalarText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("expected string or number, got %s", raw)
	}
	return n.String(), nil
}

// ProductSearchResponse is the body of the product search endpoint.
type ProductSearchResponse struct {
	Products []Product `json:"products"`
}

// SearchResultSet is an ordered list of products tagged with the query that
// produced it.
type SearchResultSet struct {
	Query    string    `json:"query"`
	Products []Product `json:"products"`
}

// Empty reports whether the set has no products.
func (s SearchResultSet) Empty() bool {
	return len(s.Products) == 0
}
