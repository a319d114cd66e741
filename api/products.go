package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/agrokart/storefront/catalog"
)

// ListProducts fetches the product listing. The backend may answer
// with a paginated envelope or a bare array; both decode the same
// here. On any backend failure the bundled dataset is filtered with
// the same query instead.
func (c *Client) ListProducts(ctx context.Context, q ProductQuery) ([]catalog.Product, error) {
	return withFallback(ctx, c, "list_products",
		func(ctx context.Context) ([]catalog.Product, error) {
			var raw json.RawMessage
			err := c.do(ctx, "list_products", requestOptions{
				method: http.MethodGet,
				path:   "/products",
				query:  q.values(),
			}, &raw)
			if err != nil {
				return nil, err
			}
			return decodeProductList(raw)
		},
		func() ([]catalog.Product, error) {
			return c.mock.listProducts(q), nil
		})
}

// GetProduct fetches one product by id. In degraded mode an id absent
// from the bundled dataset is still a not-found error.
func (c *Client) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	return withFallback(ctx, c, "get_product",
		func(ctx context.Context) (catalog.Product, error) {
			var p catalog.Product
			err := c.do(ctx, "get_product", requestOptions{
				method: http.MethodGet,
				path:   "/products/" + url.PathEscape(id),
			}, &p)
			return p, err
		},
		func() (catalog.Product, error) {
			return c.mock.product(id)
		})
}

// ListCategories fetches the category listing with product counts.
func (c *Client) ListCategories(ctx context.Context) ([]CategorySummary, error) {
	return withFallback(ctx, c, "list_categories",
		func(ctx context.Context) ([]CategorySummary, error) {
			var out []CategorySummary
			err := c.do(ctx, "list_categories", requestOptions{
				method: http.MethodGet,
				path:   "/products/categories/all",
			}, &out)
			return out, err
		},
		func() ([]CategorySummary, error) {
			return c.mock.categories(), nil
		})
}

// SearchProducts runs a keyword search, optionally narrowed further by
// the query's filters.
func (c *Client) SearchProducts(ctx context.Context, query string, q ProductQuery) ([]catalog.Product, error) {
	q.Search = query
	return c.ListProducts(ctx, q)
}

// GetFeaturedProducts fetches the highest-rated products, capped at
// limit.
func (c *Client) GetFeaturedProducts(ctx context.Context, limit int) ([]catalog.Product, error) {
	return withFallback(ctx, c, "featured_products",
		func(ctx context.Context) ([]catalog.Product, error) {
			query := url.Values{}
			if limit > 0 {
				query.Set("limit", strconv.Itoa(limit))
			}
			var out []catalog.Product
			err := c.do(ctx, "featured_products", requestOptions{
				method: http.MethodGet,
				path:   "/products/featured/all",
				query:  query,
			}, &out)
			return out, err
		},
		func() ([]catalog.Product, error) {
			return c.mock.featured(limit), nil
		})
}

// GetProductsByCategory fetches one category's products with its
// paging envelope.
func (c *Client) GetProductsByCategory(ctx context.Context, category string, q ProductQuery) (CategoryProducts, error) {
	return withFallback(ctx, c, "products_by_category",
		func(ctx context.Context) (CategoryProducts, error) {
			var out CategoryProducts
			err := c.do(ctx, "products_by_category", requestOptions{
				method: http.MethodGet,
				path:   "/products/category/" + url.PathEscape(category),
				query:  q.values(),
			}, &out)
			return out, err
		},
		func() (CategoryProducts, error) {
			return c.mock.byCategory(category, q), nil
		})
}

// values renders the query, leaving zero-valued filters off.
func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	if q.SortOrder != "" {
		v.Set("sortOrder", q.SortOrder)
	}
	if q.MinPrice > 0 {
		v.Set("minPrice", strconv.FormatFloat(q.MinPrice, 'f', -1, 64))
	}
	if q.MaxPrice > 0 {
		v.Set("maxPrice", strconv.FormatFloat(q.MaxPrice, 'f', -1, 64))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// decodeProductList handles both response shapes the listing endpoint
// produces: a bare array or {"products": [...]}.
func decodeProductList(raw json.RawMessage) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := json.Unmarshal(raw, &products); err == nil {
		return products, nil
	}
	var envelope struct {
		Products []catalog.Product `json:"products"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode product list: %w", err)
	}
	return envelope.Products, nil
}
