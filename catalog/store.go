// Package catalog owns the immutable in-memory product list and
// answers filter, sort and search queries over it. The list is loaded
// once from a static source at startup; all queries are synchronous
// and read-only, so the store needs no locking after construction.
package catalog

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/agrokart/storefront/core"
)

// SortKey selects a product ordering.
type SortKey string

const (
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
	SortName      SortKey = "name"
	SortNewest    SortKey = "newest"
)

// Filters narrows a search. Zero values mean "not provided", matching
// the upstream contract where absent filters are skipped.
type Filters struct {
	Category  string
	Brand     string
	MinPrice  float64
	MaxPrice  float64
	MinRating float64
	InStock   bool
	SortBy    SortKey
}

/// CategoryInfo is one derived category grouping: the distinct category
// value, how many products carry it, its curated display config and up
// to six preview products.
type CategoryInfo struct {
	Name    string
	Count   int
	Config  CategoryConfig
	Preview []Product
}

// BrandInfo is one derived brand grouping.
type BrandInfo struct {
	Name  string
	Count int
}

// Statistics summarizes the loaded catalog.
type Statistics struct {
	TotalProducts    int
	TotalCategories  int
	TotalBrands      int
	AverageRating    float64
	InStockPercent   int
	TopBrands        []BrandInfo
	CategoriesCounts map[string]int
}

const categoryPreviewLimit = 6

// Store holds the loaded catalog. Construct it once with New (or
// NewFromJSON) and share it; it is immutable and safe for concurrent
// readers.
type Store struct {
	products []Product
	byID     map[ProductID]int
	logger   core.Logger
}

// New builds a Store from decoded products, computing the derived
// fields on each. It is a pure function of its input: loading the same
// products twice yields the same catalog.
func New(products []Product) (*Store, error) {
	s := &Store{
		products: make([]Product, len(products)),
		byID:     make(map[ProductID]int, len(products)),
		logger:   &core.NoOpLogger{},
	}
	for i, p := range products {
		if p.Name == "" {
			return nil, fmt.Errorf("product %d has no name: %w", i, core.ErrInvalidInput)
		}
		p.derive()
		s.products[i] = p
		if p.ID != "" {
			s.byID[p.ID] = i
		}
	}
	return s, nil
}

// NewFromJSON builds a Store from a raw JSON bundle. The bundle may be
// either a bare array or an object with a "products" array.
func NewFromJSON(data []byte) (*Store, error) {
	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		var wrapper struct {
			Products []Product `json:"products"`
		}
		if werr := json.Unmarshal(data, &wrapper); werr != nil {
			return nil, fmt.Errorf("malformed product bundle: %w", core.ErrInvalidInput)
		}
		products = wrapper.Products
	}
	return New(products)
}

// SetLogger configures the logger for this store
func (s *Store) SetLogger(logger core.Logger) {
	if logger != nil {
		s.logger = logger
		s.logger.Info("Catalog loaded", map[string]interface{}{
			"products":   len(s.products),
			"categories": len(s.GetCategories()),
			"brands":     len(s.GetBrands()),
		})
	}
}

// loaded reports whether the store holds a catalog. Queries on an
// unconstructed store fail loudly instead of answering from nothing.
func (s *Store) loaded() bool {
	return s != nil && s.products != nil
}

// GetAll returns the full product list in source order.
func (s *Store) GetAll() []Product {
	if !s.loaded() {
		return nil
	}
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// Len reports the number of loaded products.
func (s *Store) Len() int {
	if !s.loaded() {
		return 0
	}
	return len(s.products)
}

// GetByCategory returns products whose category matches
// case-insensitively.
func (s *Store) GetByCategory(category string) []Product {
	if !s.loaded() {
		return nil
	}
	out := make([]Product, 0)
	for _, p := range s.products {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

// GetByID looks up a single product. The id may arrive in string or
// numeric form; both match the same product. Absence is reported with
// core.ErrNotFound, never a panic.
func (s *Store) GetByID(id interface{}) (Product, error) {
	if !s.loaded() {
		return Product{}, core.ErrCatalogNotLoaded
	}
	key := NormalizeID(id)
	idx, ok := s.byID[key]
	if !ok {
		return Product{}, fmt.Errorf("product %s: %w", key, core.ErrNotFound)
	}
	return s.products[idx], nil
}

// Search matches the query against the precomputed search keywords
// (substring containment on the lowercase query) and applies every
// provided filter with AND semantics, then sorts if requested.
func (s *Store) Search(query string, filters Filters) []Product {
	if !s.loaded() {
		return nil
	}

	results := make([]Product, 0, len(s.products))
	term := strings.ToLower(strings.TrimSpace(query))

	for _, p := range s.products {
		if term != "" && !matchesKeywords(p.SearchKeywords, term) {
			continue
		}
		if filters.Category != "" && !strings.EqualFold(p.Category, filters.Category) {
			continue
		}
		if filters.Brand != "" && !strings.EqualFold(p.Brand, filters.Brand) {
			continue
		}
		if filters.MinPrice > 0 || filters.MaxPrice > 0 {
			min := filters.MinPrice
			max := filters.MaxPrice
			if max <= 0 {
				max = maxPrice
			}
			if p.Price < min || p.Price > max {
				continue
			}
		}
		if filters.MinRating > 0 && p.Rating < filters.MinRating {
			continue
		}
		if filters.InStock && !p.InStock {
			continue
		}
		results = append(results, p)
	}

	if filters.SortBy != "" {
		results = SortProducts(results, filters.SortBy)
	}

	s.logger.Debug("Catalog search", map[string]interface{}{
		"query":   query,
		"results": len(results),
	})
	return results
}

// maxPrice stands in for an open upper bound when only a minimum was
// provided.
const maxPrice = float64(1 << 53)

func matchesKeywords(keywords []string, term string) bool {
	for _, k := range keywords {
		if strings.Contains(k, term) {
			return true
		}
	}
	return false
}

// SortProducts returns a sorted copy of the list. Unknown keys return
// the input order unchanged rather than failing.
func SortProducts(list []Product, key SortKey) []Product {
	out := make([]Product, len(list))
	copy(out, list)

	switch key {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case SortName:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out
}

// GetCategories returns one entry per distinct category with its
// product count and up to six preview products, in first-seen order.
func (s *Store) GetCategories() []CategoryInfo {
	if !s.loaded() {
		return nil
	}

	order := make([]string, 0)
	counts := make(map[string]int)
	previews := make(map[string][]Product)

	for _, p := range s.products {
		if _, seen := counts[p.Category]; !seen {
			order = append(order, p.Category)
		}
		counts[p.Category]++
		if len(previews[p.Category]) < categoryPreviewLimit {
			previews[p.Category] = append(previews[p.Category], p)
		}
	}

	out := make([]CategoryInfo, 0, len(order))
	for _, name := range order {
		out = append(out, CategoryInfo{
			Name:    name,
			Count:   counts[name],
			Config:  ConfigForCategory(name),
			Preview: previews[name],
		})
	}
	return out
}

// GetBrands returns one entry per distinct brand sorted by descending
// product count.
func (s *Store) GetBrands() []BrandInfo {
	if !s.loaded() {
		return nil
	}

	counts := make(map[string]int)
	for _, p := range s.products {
		if p.Brand != "" {
			counts[p.Brand]++
		}
	}

	out := make([]BrandInfo, 0, len(counts))
	for name, count := range counts {
		out = append(out, BrandInfo{Name: name, Count: count})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// GetFeaturedProducts returns products rated 4.0 or higher, best
// first, capped at limit.
func (s *Store) GetFeaturedProducts(limit int) []Product {
	if !s.loaded() {
		return nil
	}

	featured := make([]Product, 0)
	for _, p := range s.products {
		if p.Rating >= 4.0 {
			featured = append(featured, p)
		}
	}
	featured = SortProducts(featured, SortRating)
	return capList(featured, limit)
}

// GetSaleProducts returns discounted products, deepest discount first,
// capped at limit.
func (s *Store) GetSaleProducts(limit int) []Product {
	if !s.loaded() {
		return nil
	}

	onSale := make([]Product, 0)
	for _, p := range s.products {
		if p.DiscountPercentage > 0 {
			onSale = append(onSale, p)
		}
	}
	sort.SliceStable(onSale, func(i, j int) bool {
		return onSale[i].DiscountPercentage > onSale[j].DiscountPercentage
	})
	return capList(onSale, limit)
}

// GetRelatedProducts returns other products sharing the category or
// brand of the given product, excluding the product itself, capped at
// limit. The order is the stable source order, so repeated calls
// agree.
func (s *Store) GetRelatedProducts(id interface{}, limit int) []Product {
	if !s.loaded() {
		return nil
	}

	self, err := s.GetByID(id)
	if err != nil {
		return []Product{}
	}

	related := make([]Product, 0)
	for _, p := range s.products {
		if p.ID == self.ID {
			continue
		}
		if p.Category == self.Category || (p.Brand != "" && p.Brand == self.Brand) {
			related = append(related, p)
		}
	}
	return capList(related, limit)
}

// GetStatistics summarizes the catalog for dashboards.
func (s *Store) GetStatistics() Statistics {
	if !s.loaded() || len(s.products) == 0 {
		return Statistics{}
	}

	var ratingSum float64
	inStock := 0
	categoryCounts := make(map[string]int)
	for _, p := range s.products {
		ratingSum += p.Rating
		if p.InStock {
			inStock++
		}
		categoryCounts[p.Category]++
	}

	brands := s.GetBrands()
	top := brands
	if len(top) > 5 {
		top = top[:5]
	}

	n := len(s.products)
	return Statistics{
		TotalProducts:    n,
		TotalCategories:  len(categoryCounts),
		TotalBrands:      len(brands),
		AverageRating:    roundTo1(ratingSum / float64(n)),
		InStockPercent:   int(float64(inStock)/float64(n)*100 + 0.5),
		TopBrands:        top,
		CategoriesCounts: categoryCounts,
	}
}

func capList(list []Product, limit int) []Product {
	if limit > 0 && len(list) > limit {
		return list[:limit]
	}
	return list
}

func roundTo1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
