package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/agrokart/storefront/core"
)

// DocumentFile is one file in a verification document upload.
type DocumentFile struct {
	Field    string
	Filename string
	Content  io.Reader
}

// VendorRegister creates a vendor account pending verification.
func (c *Client) VendorRegister(ctx context.Context, reg VendorRegistration) (*AuthResponse, error) {
	if reg.Name == "" || reg.Email == "" || reg.Password == "" || reg.ShopName == "" {
		return nil, &core.StorefrontError{
			Op:      "vendor_register",
			Kind:    "validation",
			Message: "Name, email, password, and shop name are required.",
			Err:     core.ErrInvalidInput,
		}
	}
	var result AuthResponse
	if err := c.do(ctx, "vendor_register", requestOptions{
		method: http.MethodPost,
		path:   "/vendor/register",
		body:   reg,
	}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// VendorUploadDocuments sends verification documents as a multipart
// form. The credential source decides which auth header carries the
// token; document uploads normally ride the firebase flow.
func (c *Client) VendorUploadDocuments(ctx context.Context, files []DocumentFile) error {
	return c.uploadDocuments(ctx, "vendor_upload_documents", "/vendor/upload-documents", files)
}

// GetVendorDashboard fetches the vendor home-screen summary.
func (c *Client) GetVendorDashboard(ctx context.Context) (*VendorDashboard, error) {
	var dash VendorDashboard
	if err := c.do(ctx, "vendor_dashboard", requestOptions{
		method: http.MethodGet,
		path:   "/vendor/dashboard",
		auth:   true,
	}, &dash); err != nil {
		return nil, err
	}
	return &dash, nil
}

// GetVendorInventory fetches a page of the vendor's inventory.
func (c *Client) GetVendorInventory(ctx context.Context, q InventoryQuery) (*InventoryPage, error) {
	query := url.Values{}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}

	var page InventoryPage
	if err := c.do(ctx, "vendor_inventory", requestOptions{
		method: http.MethodGet,
		path:   "/vendor/inventory",
		query:  query,
		auth:   true,
	}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// AddToVendorInventory adds a product to the vendor's inventory.
func (c *Client) AddToVendorInventory(ctx context.Context, update InventoryUpdate) error {
	return c.do(ctx, "vendor_inventory_add", requestOptions{
		method: http.MethodPost,
		path:   "/vendor/inventory",
		body:   update,
		auth:   true,
	}, nil)
}

// UpdateVendorInventory updates an existing inventory entry.
func (c *Client) UpdateVendorInventory(ctx context.Context, id string, update InventoryUpdate) error {
	return c.do(ctx, "vendor_inventory_update", requestOptions{
		method: http.MethodPut,
		path:   "/vendor/inventory/" + url.PathEscape(id),
		body:   update,
		auth:   true,
	}, nil)
}

// GetVendorOrders fetches orders routed to this vendor.
func (c *Client) GetVendorOrders(ctx context.Context, status string) ([]Order, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	var orders []Order
	if err := c.do(ctx, "vendor_orders", requestOptions{
		method: http.MethodGet,
		path:   "/vendor/orders",
		query:  query,
		auth:   true,
	}, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// RespondToVendorOrder accepts or rejects an order assignment.
func (c *Client) RespondToVendorOrder(ctx context.Context, orderID string, response OrderResponse) error {
	if response.Action == "" {
		return &core.StorefrontError{
			Op:      "vendor_order_respond",
			Kind:    "validation",
			ID:      orderID,
			Message: "Response action is required.",
			Err:     core.ErrInvalidInput,
		}
	}
	return c.do(ctx, "vendor_order_respond", requestOptions{
		method: http.MethodPost,
		path:   "/vendor/orders/" + url.PathEscape(orderID) + "/respond",
		body:   response,
		auth:   true,
	}, nil)
}

// uploadDocuments builds and sends a multipart form with the caller's
// files. Shared by the vendor and delivery verification flows.
func (c *Client) uploadDocuments(ctx context.Context, op, path string, files []DocumentFile) error {
	if len(files) == 0 {
		return &core.StorefrontError{
			Op:      op,
			Kind:    "validation",
			Message: "At least one document is required.",
			Err:     core.ErrInvalidInput,
		}
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := writer.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return fmt.Errorf("%s: build form: %w", op, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return fmt.Errorf("%s: read document %s: %w", op, f.Filename, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("%s: finalize form: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := c.attachCredential(ctx, req); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(op, resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}
