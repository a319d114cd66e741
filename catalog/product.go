package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/agrokart/storefront/core"
)

// ProductID is the canonical product identifier. Upstream data carries
// ids as both JSON numbers and strings (a documented inconsistency);
// decoding coerces both to the string form so lookups match either.
type ProductID string

// UnmarshalJSON accepts string and numeric ids
func (id *ProductID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ProductID(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*id = NormalizeID(n)
		return nil
	}
	return fmt.Errorf("product id must be a string or number: %w", core.ErrInvalidInput)
}

// NormalizeID coerces a string or numeric id into its canonical form.
func NormalizeID(v interface{}) ProductID {
	switch t := v.(type) {
	case string:
		return ProductID(t)
	case int:
		return ProductID(strconv.Itoa(t))
	case int64:
		return ProductID(strconv.FormatInt(t, 10))
	case float64:
		if t == math.Trunc(t) {
			return ProductID(strconv.FormatInt(int64(t), 10))
		}
		return ProductID(strconv.FormatFloat(t, 'f', -1, 64))
	case ProductID:
		return t
	default:
		return ProductID(fmt.Sprintf("%v", v))
	}
}

// CategoryConfig is the curated display configuration for a category.
type CategoryConfig struct {
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// categoryConfigs is the curated display table. Unknown categories
// fall back to the Fertilizers entry.
var categoryConfigs = map[string]CategoryConfig{
	"Fertilizers": {
		Icon:        "🌱",
		Color:       "#4CAF50",
		Description: "Nutrient-rich fertilizers for healthy crop growth",
	},
	"Seeds": {
		Icon:        "🌾",
		Color:       "#FF9800",
		Description: "High-quality seeds for various crops",
	},
	"Pesticides": {
		Icon:        "🛡️",
		Color:       "#F44336",
		Description: "Crop protection solutions and pesticides",
	},
	"Farm Implements": {
		Icon:        "🚜",
		Color:       "#2196F3",
		Description: "Modern farming tools and equipment",
	},
	"Farm Equipment": {
		Icon:        "⚙️",
		Color:       "#FF5722",
		Description: "Advanced agricultural machinery and equipment",
	},
	"Organic": {
		Icon:        "🍃",
		Color:       "#8BC34A",
		Description: "Organic and eco-friendly farming products",
	},
}

// ConfigForCategory returns the display config for a category, falling
// back to the default when the category is unknown.
func ConfigForCategory(category string) CategoryConfig {
	if cfg, ok := categoryConfigs[category]; ok {
		return cfg
	}
	return categoryConfigs["Fertilizers"]
}

// Product is one catalog entry. The catalog is loaded once at startup
// and immutable afterwards; the derived fields (Slug,
// DiscountPercentage, SearchKeywords, Config, DisplayPrice) are
// computed at load time.
type Product struct {
	ID          ProductID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Brand       string    `json:"brand"`

	// Price is the canonical numeric value used for all arithmetic.
	Price float64 `json:"price"`
	// OriginalPrice is the pre-discount price; 0 means absent.
	OriginalPrice float64 `json:"originalPrice,omitempty"`

	Stock int `json:"stock"`
	// Availability is the upstream availability label ("In Stock");
	// when empty, stock count decides availability.
	Availability string    `json:"availability,omitempty"`
	Unit         string    `json:"unit,omitempty"`
	Rating    float64   `json:"rating,omitempty"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`

	// Derived at load time
	Slug               string         `json:"slug,omitempty"`
	DiscountPercentage int            `json:"discountPercentage"`
	SearchKeywords     []string       `json:"-"`
	Config             CategoryConfig `json:"-"`
	DisplayPrice       string         `json:"displayPrice,omitempty"`
	InStock            bool           `json:"inStock"`
}

// productJSON tolerates the field spellings the various data sources
// use (snake_case bundles, Mongo-style _id, averageRating, images
// arrays).
type productJSON struct {
	ID            json.RawMessage `json:"id"`
	MongoID       string          `json:"_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Brand         string          `json:"brand"`
	Price         json.RawMessage `json:"price"`
	OriginalPrice json.RawMessage `json:"originalPrice"`
	OriginalSnake json.RawMessage `json:"original_price"`
	Stock         int             `json:"stock"`
	Unit          string          `json:"unit"`
	Rating        float64         `json:"rating"`
	AverageRating float64         `json:"averageRating"`
	ImageURL      string          `json:"imageUrl"`
	ImageSnake    string          `json:"image_url"`
	Images        []string        `json:"images"`
	Availability  string          `json:"availability"`
	CreatedAt     string          `json:"createdAt"`
	CreatedSnake  string          `json:"created_at"`
}

// UnmarshalJSON decodes a product from any of the known source shapes.
func (p *Product) UnmarshalJSON(data []byte) error {
	var raw productJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if len(raw.ID) > 0 {
		if err := p.ID.UnmarshalJSON(raw.ID); err != nil {
			return err
		}
	} else if raw.MongoID != "" {
		p.ID = ProductID(raw.MongoID)
	}

	p.Name = raw.Name
	p.Description = raw.Description
	p.Category = raw.Category
	p.Brand = raw.Brand
	p.Stock = raw.Stock
	p.Unit = raw.Unit

	var err error
	if p.Price, err = decodePrice(raw.Price); err != nil {
		return err
	}
	orig := raw.OriginalPrice
	if len(orig) == 0 {
		orig = raw.OriginalSnake
	}
	if p.OriginalPrice, err = decodePrice(orig); err != nil {
		return err
	}

	p.Rating = raw.Rating
	if p.Rating == 0 {
		p.Rating = raw.AverageRating
	}

	p.ImageURL = raw.ImageURL
	if p.ImageURL == "" {
		p.ImageURL = raw.ImageSnake
	}
	if p.ImageURL == "" && len(raw.Images) > 0 {
		p.ImageURL = raw.Images[0]
	}

	p.Availability = raw.Availability

	created := raw.CreatedAt
	if created == "" {
		created = raw.CreatedSnake
	}
	if created != "" {
		if ts, perr := time.Parse(time.RFC3339, created); perr == nil {
			p.CreatedAt = ts
		}
	}

	p.derive()
	return nil
}

// decodePrice accepts numeric prices and display-formatted strings,
// routing the string form through ParsePrice.
func decodePrice(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("price must be a number or string: %w", core.ErrInvalidInput)
	}
	return ParsePrice(s)
}

// derive fills in the computed fields. It is a pure function of the
// decoded fields, so loading the same input twice yields the same
// catalog.
func (p *Product) derive() {
	p.Slug = Slugify(p.Name)
	p.DiscountPercentage = discountPercentage(p.Price, p.OriginalPrice)
	p.SearchKeywords = searchKeywords(p)
	p.Config = ConfigForCategory(p.Category)
	p.DisplayPrice = FormatPrice(p.Price)
	if p.Availability != "" {
		p.InStock = strings.EqualFold(p.Availability, "In Stock")
	} else {
		p.InStock = p.Stock > 0
	}
}

// discountPercentage is 0 when there is no original price or no actual
// discount, otherwise the rounded percentage saved.
func discountPercentage(price, originalPrice float64) int {
	if originalPrice <= 0 || originalPrice <= price {
		return 0
	}
	return int(math.Round((originalPrice - price) / originalPrice * 100))
}

// Slugify produces a URL-safe slug from a product name.
func Slugify(name string) string {
	lower := strings.ToLower(name)
	var b strings.Builder
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	slug := strings.Join(strings.Fields(b.String()), "-")
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return strings.Trim(slug, "-")
}

// searchKeywords builds the deduplicated lowercase token set used for
// substring search. Tokens shorter than three characters are dropped.
func searchKeywords(p *Product) []string {
	candidates := []string{
		strings.ToLower(p.Name),
		strings.ToLower(p.Category),
		strings.ToLower(p.Brand),
	}
	candidates = append(candidates, strings.Fields(strings.ToLower(p.Description))...)

	seen := make(map[string]struct{}, len(candidates))
	keywords := make([]string, 0, len(candidates))
	for _, k := range candidates {
		if len([]rune(k)) <= 2 {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keywords = append(keywords, k)
	}
	return keywords
}
