package api

import (
	_ "embed"
	"fmt"

	"github.com/agrokart/storefront/catalog"
)

// The bundled dataset backing degraded mode. It is a small but
// representative slice of the real catalog so filtering and sorting
// behave the same against it as against the backend.
//
//go:embed mockdata/products.json
var mockProductsJSON []byte

// mockBackend answers read operations from the bundled dataset with
// the same query semantics as the real backend.
type mockBackend struct {
	catalog *catalog.Store
}

func newMockBackend() (*mockBackend, error) {
	store, err := catalog.NewFromJSON(mockProductsJSON)
	if err != nil {
		return nil, fmt.Errorf("bundled dataset: %w", err)
	}
	return &mockBackend{catalog: store}, nil
}

// listProducts applies the remote query's filters to the bundled
// catalog. Unknown sort fields leave the order untouched, matching the
// catalog contract.
func (m *mockBackend) listProducts(q ProductQuery) []catalog.Product {
	filters := catalog.Filters{
		Category: q.Category,
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		SortBy:   fallbackSortKey(q.SortBy, q.SortOrder),
	}
	if filters.Category == "all" {
		filters.Category = ""
	}
	products := m.catalog.Search(q.Search, filters)
	return paginate(products, q.Page, q.Limit)
}

func (m *mockBackend) product(id string) (catalog.Product, error) {
	return m.catalog.GetByID(id)
}

// categories derives the category listing from the bundled catalog,
// reusing the curated display config for icons.
func (m *mockBackend) categories() []CategorySummary {
	infos := m.catalog.GetCategories()
	out := make([]CategorySummary, 0, len(infos))
	for _, info := range infos {
		out = append(out, CategorySummary{
			ID:          catalog.Slugify(info.Name),
			Name:        info.Name,
			Icon:        info.Config.Icon,
			Description: info.Config.Description,
			Count:       info.Count,
		})
	}
	return out
}

func (m *mockBackend) featured(limit int) []catalog.Product {
	return m.catalog.GetFeaturedProducts(limit)
}

func (m *mockBackend) byCategory(category string, q ProductQuery) CategoryProducts {
	q.Category = category
	q.Search = ""
	products := m.listProducts(q)
	return CategoryProducts{
		Category: category,
		Products: products,
		Pagination: &Pagination{
			CurrentPage:   1,
			TotalPages:    1,
			TotalProducts: len(products),
		},
	}
}

// fallbackSortKey maps the backend's sortBy/sortOrder pair onto the
// catalog sort keys. Catalog keys pass through unchanged so callers
// can use either vocabulary.
func fallbackSortKey(sortBy, sortOrder string) catalog.SortKey {
	switch sortBy {
	case "price":
		if sortOrder == "desc" {
			return catalog.SortPriceHigh
		}
		return catalog.SortPriceLow
	case "rating", "averageRating":
		return catalog.SortRating
	case "name":
		return catalog.SortName
	case "createdAt", "newest":
		return catalog.SortNewest
	}
	return catalog.SortKey(sortBy)
}

// paginate slices one page out of the filtered list. Page 0 or limit 0
// means "everything".
func paginate(products []catalog.Product, page, limit int) []catalog.Product {
	if limit <= 0 {
		return products
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(products) {
		return []catalog.Product{}
	}
	end := start + limit
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}
