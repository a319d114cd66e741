package catalog

import (
	"encoding/json"
	"testing"
)

func TestProductUnmarshal_StringAndNumericIDs(t *testing.T) {
	var a, b Product
	if err := json.Unmarshal([]byte(`{"id": "42", "name": "Urea"}`), &a); err != nil {
		t.Fatalf("string id: %v", err)
	}
	if err := json.Unmarshal([]byte(`{"id": 42, "name": "Urea"}`), &b); err != nil {
		t.Fatalf("numeric id: %v", err)
	}
	if a.ID != b.ID {
		t.Errorf("ids did not normalize to the same value: %q vs %q", a.ID, b.ID)
	}
}

func TestProductUnmarshal_SourceAliases(t *testing.T) {
	raw := `{
		"_id": "elec1",
		"name": "Smart Irrigation Controller",
		"category": "Electronics",
		"brand": "AgroTech",
		"price": 8500,
		"original_price": 9500,
		"stock": 25,
		"averageRating": 4.6,
		"images": ["https://img.example/a.jpg", "https://img.example/b.jpg"],
		"created_at": "2024-05-01T00:00:00Z"
	}`
	var p Product
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.ID != "elec1" {
		t.Errorf("ID = %q", p.ID)
	}
	if p.OriginalPrice != 9500 {
		t.Errorf("OriginalPrice = %v", p.OriginalPrice)
	}
	if p.Rating != 4.6 {
		t.Errorf("Rating = %v", p.Rating)
	}
	if p.ImageURL != "https://img.example/a.jpg" {
		t.Errorf("ImageURL = %q", p.ImageURL)
	}
	if !p.InStock {
		t.Error("expected InStock from positive stock")
	}
	if p.CreatedAt.IsZero() {
		t.Error("CreatedAt not parsed")
	}
}

func TestProductUnmarshal_FormattedPriceString(t *testing.T) {
	var p Product
	if err := json.Unmarshal([]byte(`{"id": 1, "name": "DAP", "price": "₹1,200"}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Price != 1200 {
		t.Errorf("Price = %v, want 1200", p.Price)
	}
}

func TestDiscountPercentage(t *testing.T) {
	cases := []struct {
		price, original float64
		want            int
	}{
		{850, 950, 11}, // round(10.52...) = 11
		{1000, 1200, 17},
		{500, 0, 0},    // no original price
		{500, 500, 0},  // no actual discount
		{500, 450, 0},  // original below current
		{750, 1000, 25},
	}
	for _, c := range cases {
		if got := discountPercentage(c.price, c.original); got != c.want {
			t.Errorf("discountPercentage(%v, %v) = %d, want %d", c.price, c.original, got, c.want)
		}
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Premium Urea", "premium-urea"},
		{"NPK 20:20:20", "npk-202020"},
		{"  Soil pH Meter (Digital)  ", "soil-ph-meter-digital"},
		{"Multi - Dash -- Name", "multi-dash-name"},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSearchKeywords_DedupAndMinLength(t *testing.T) {
	p := &Product{
		Name:        "Urea",
		Category:    "Fertilizers",
		Brand:       "Agro",
		Description: "urea is a top top pick",
	}
	p.derive()

	seen := make(map[string]int)
	for _, k := range p.SearchKeywords {
		seen[k]++
		if len([]rune(k)) <= 2 {
			t.Errorf("keyword %q shorter than 3 runes", k)
		}
	}
	for k, n := range seen {
		if n > 1 {
			t.Errorf("keyword %q appears %d times", k, n)
		}
	}
	if seen["urea"] != 1 {
		t.Error("expected deduplicated keyword 'urea'")
	}
}

func TestConfigForCategory_UnknownFallsBack(t *testing.T) {
	known := ConfigForCategory("Seeds")
	if known.Icon == "" {
		t.Fatal("expected config for known category")
	}
	fallback := ConfigForCategory("Unheard Of")
	if fallback != ConfigForCategory("Fertilizers") {
		t.Error("unknown category should fall back to the default config")
	}
}
