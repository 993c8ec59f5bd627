package types

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSanitizedImages(t *testing.T) {
	p := Product{Images: []string{`["https://img.example.com/a.png"`, `"https://img.example.com/b.png"]`, "  "}}

	got := p.SanitizedImages()
	if len(got) != 2 {
		t.Fatalf("expected 2 images, got %v", got)
	}
	if got[0] != "https://img.example.com/a.png" || got[1] != "https://img.example.com/b.png" {
		t.Fatalf("unexpected sanitized urls %v", got)
	}
}

func TestSanitizedImagesFallsBackToPlaceholder(t *testing.T) {
	p := Product{Images: []string{`["]`, ""}}

	got := p.SanitizedImages()
	if len(got) != 1 || got[0] != PlaceholderImage {
		t.Fatalf("expected placeholder, got %v", got)
	}
}

func TestDisplayPrice(t *testing.T) {
	p := Product{Price: decimal.NewFromFloat(10.5)}
	if got := p.DisplayPrice(); got != "$10.50" {
		t.Fatalf("unexpected display price %q", got)
	}
}

func TestProductDecodesRemotePayload(t *testing.T) {
	payload := `{
		"id": 9,
		"title": "Classic Sneakers",
		"price": 39.99,
		"description": "Everyday shoes",
		"images": ["https://img.example.com/shoe.png"],
		"category": {"id": 4, "name": "Shoes", "image": "https://img.example.com/shoes.png"}
	}`

	var p Product
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if p.ID != 9 || p.Category.Name != "Shoes" {
		t.Fatalf("unexpected product %+v", p)
	}
	if !p.Price.Equal(decimal.NewFromFloat(39.99)) {
		t.Fatalf("unexpected price %s", p.Price)
	}
}

func TestCartItemLineTotal(t *testing.T) {
	item := CartItem{Product: Product{Price: decimal.NewFromFloat(10.10)}, Quantity: 3}
	if !item.LineTotal().Equal(decimal.NewFromFloat(30.30)) {
		t.Fatalf("unexpected line total %s", item.LineTotal())
	}
}
