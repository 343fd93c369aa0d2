package search

import (
	"testing"
)

func TestDefaultSKUPattern(t *testing.T) {
	matcher, err := NewRegexMatcher("")
	if err != nil {
		t.Fatalf("NewRegexMatcher failed: %v", err)
	}

	tests := []struct {
		name    string
		query   string
		wantSKU string
		wantOK  bool
	}{
		{
			name:    "plain product question",
			query:   "do you sell garden hoses",
			wantSKU: "",
			wantOK:  false,
		},
		{
			name:    "dashed SKU",
			query:   "what is the price of SKU-001234",
			wantSKU: "SKU-001234",
			wantOK:  true,
		},
		{
			name:    "underscore SKU",
			query:   "is AB_5500X in stock",
			wantSKU: "AB_5500X",
			wantOK:  true,
		},
		{
			name:    "no separator",
			query:   "looking for PN12345",
			wantSKU: "PN12345",
			wantOK:  true,
		},
		{
			name:    "trailing question mark stripped",
			query:   "price of SKU-001234?",
			wantSKU: "SKU-001234",
			wantOK:  true,
		},
		{
			name:    "wrapped in quotes",
			query:   `details for "HW-9000" please`,
			wantSKU: "HW-9000",
			wantOK:  true,
		},
		{
			name:    "bare number is not a SKU",
			query:   "order 123456 status",
			wantSKU: "",
			wantOK:  false,
		},
		{
			name:    "too few digits",
			query:   "model AB-12",
			wantSKU: "",
			wantOK:  false,
		},
		{
			name:    "first matching token wins",
			query:   "compare SKU-100 with SKU-200",
			wantSKU: "SKU-100",
			wantOK:  true,
		},
		{
			name:    "empty query",
			query:   "",
			wantSKU: "",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sku, ok := matcher.Match(tt.query)
			if ok != tt.wantOK {
				t.Errorf("Match(%q) ok = %v, want %v", tt.query, ok, tt.wantOK)
			}
			if sku != tt.wantSKU {
				t.Errorf("Match(%q) = %q, want %q", tt.query, sku, tt.wantSKU)
			}
		})
	}
}

func TestNewRegexMatcherCustomPattern(t *testing.T) {
	matcher, err := NewRegexMatcher(`^ITEM[0-9]{4}$`)
	if err != nil {
		t.Fatalf("NewRegexMatcher failed: %v", err)
	}

	if sku, ok := matcher.Match("where is ITEM1234"); !ok || sku != "ITEM1234" {
		t.Errorf("custom pattern Match = (%q, %v), want (ITEM1234, true)", sku, ok)
	}

	// The default shape must not match under a custom pattern
	if _, ok := matcher.Match("price of SKU-001234"); ok {
		t.Error("custom pattern should not match default SKU shape")
	}
}

func TestNewRegexMatcherInvalidPattern(t *testing.T) {
	if _, err := NewRegexMatcher(`[unclosed`); err == nil {
		t.Error("NewRegexMatcher with invalid pattern should error")
	}
}
