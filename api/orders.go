package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/agrokart/storefront/core"
)

// CreateOrder places an order. Failures propagate with the server's
// message; there is no mock fallback for writes.
func (c *Client) CreateOrder(ctx context.Context, order OrderRequest) (*OrderResult, error) {
	if len(order.Items) == 0 {
		return nil, &core.StorefrontError{
			Op:      "create_order",
			Kind:    "validation",
			Message: "Order must contain at least one item.",
			Err:     core.ErrInvalidInput,
		}
	}
	for _, line := range order.Items {
		if line.Quantity < 1 {
			return nil, &core.StorefrontError{
				Op:      "create_order",
				Kind:    "validation",
				ID:      line.ProductID,
				Message: "Item quantity must be at least 1.",
				Err:     core.ErrInvalidInput,
			}
		}
	}

	var result OrderResult
	if err := c.do(ctx, "create_order", requestOptions{
		method: http.MethodPost,
		path:   "/orders",
		body:   order,
		auth:   true,
	}, &result); err != nil {
		return nil, err
	}

	c.logger.Info("Order created", map[string]interface{}{
		"items": len(order.Items),
	})
	return &result, nil
}

// MyOrders fetches the authenticated account's order history.
func (c *Client) MyOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, "my_orders", requestOptions{
		method: http.MethodGet,
		path:   "/orders/my-orders",
		auth:   true,
	}, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder fetches one order by id.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	// Some deployments wrap the order in a data envelope.
	var envelope struct {
		Data  *Order `json:"data"`
		Order *Order `json:"order"`
	}
	if err := c.do(ctx, "get_order", requestOptions{
		method: http.MethodGet,
		path:   "/orders/" + url.PathEscape(orderID),
		auth:   true,
	}, &envelope); err != nil {
		return nil, err
	}
	switch {
	case envelope.Data != nil:
		return envelope.Data, nil
	case envelope.Order != nil:
		return envelope.Order, nil
	}
	return nil, &core.StorefrontError{
		Op:      "get_order",
		Kind:    "not_found",
		ID:      orderID,
		Message: "Order not found.",
		Err:     core.ErrNotFound,
	}
}

// DeleteOrder removes an order. Fail loud: no offline shortcut.
func (c *Client) DeleteOrder(ctx context.Context, orderID string) (*OrderResult, error) {
	var result OrderResult
	if err := c.do(ctx, "delete_order", requestOptions{
		method: http.MethodDelete,
		path:   "/orders/" + url.PathEscape(orderID),
		auth:   true,
	}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CancelOrder cancels an order. By default a failed call propagates
// like any other write. With the offline-cancel fallback enabled in
// configuration, an unreachable backend reports a local "cancelled"
// result instead; the cancellation is NOT guaranteed to have reached
// the server, which is why the option is off unless asked for.
func (c *Client) CancelOrder(ctx context.Context, orderID string) (*OrderResult, error) {
	var result OrderResult
	err := c.do(ctx, "cancel_order", requestOptions{
		method: http.MethodPost,
		path:   "/orders/" + url.PathEscape(orderID) + "/cancel",
		auth:   true,
	}, &result)
	if err == nil {
		return &result, nil
	}

	if c.offlineCancelFallback && core.IsRetryable(err) {
		c.logger.Warn("Cancel order unreachable, reporting offline success", map[string]interface{}{
			"order_id": orderID,
		})
		return &OrderResult{
			Success: true,
			Message: "Order cancelled successfully (offline mode)",
			Order: &Order{
				ID:          orderID,
				OrderStatus: "cancelled",
			},
		}, nil
	}
	return nil, err
}
