package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PlaceholderImage stands in when a product carries no usable image URL.
const PlaceholderImage = "https://via.placeholder.com/600"

// Product mirrors the remote catalog payload. The embedded Category is a
// snapshot taken at fetch time, not a live reference.
type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Images      []string        `json:"images"`
	Category    Category        `json:"category"`
	CreationAt  string          `json:"creationAt,omitempty"`
	UpdatedAt   string          `json:"updatedAt,omitempty"`
}

// Category identifies a catalog grouping.
type Category struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Image      string `json:"image"`
	CreationAt string `json:"creationAt,omitempty"`
	UpdatedAt  string `json:"updatedAt,omitempty"`
}

// DisplayPrice renders the price with two decimals.
func (p Product) DisplayPrice() string {
	return "$" + p.Price.StringFixed(2)
}

// SanitizedImages strips the stray bracket/quote characters the upstream API
// sometimes leaves in image URLs and drops empty entries. When nothing
// survives, a placeholder is returned so callers always have something to show.
func (p Product) SanitizedImages() []string {
	cleaned := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		img = strings.NewReplacer("[", "", "]", "", `"`, "").Replace(img)
		img = strings.TrimSpace(img)
		if img != "" {
			cleaned = append(cleaned, img)
		}
	}
	if len(cleaned) == 0 {
		return []string{PlaceholderImage}
	}
	return cleaned
}
