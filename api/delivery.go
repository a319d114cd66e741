package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/agrokart/storefront/core"
)

// DeliveryRegister creates a delivery partner account pending
// verification.
func (c *Client) DeliveryRegister(ctx context.Context, reg DeliveryRegistration) (*AuthResponse, error) {
	if reg.Name == "" || reg.Email == "" || reg.Password == "" || reg.VehicleNumber == "" {
		return nil, &core.StorefrontError{
			Op:      "delivery_register",
			Kind:    "validation",
			Message: "Name, email, password, and vehicle number are required.",
			Err:     core.ErrInvalidInput,
		}
	}
	var result AuthResponse
	if err := c.do(ctx, "delivery_register", requestOptions{
		method: http.MethodPost,
		path:   "/delivery/register",
		body:   reg,
	}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeliveryUploadDocuments sends verification documents as a multipart
// form, same flow as the vendor side.
func (c *Client) DeliveryUploadDocuments(ctx context.Context, files []DocumentFile) error {
	return c.uploadDocuments(ctx, "delivery_upload_documents", "/delivery/upload-documents", files)
}

// GetDeliveryDashboard fetches the delivery partner home-screen
// summary.
func (c *Client) GetDeliveryDashboard(ctx context.Context) (*DeliveryDashboard, error) {
	var dash DeliveryDashboard
	if err := c.do(ctx, "delivery_dashboard", requestOptions{
		method: http.MethodGet,
		path:   "/delivery/dashboard",
		auth:   true,
	}, &dash); err != nil {
		return nil, err
	}
	return &dash, nil
}

// GetAvailableAssignments fetches delivery jobs open for pickup.
func (c *Client) GetAvailableAssignments(ctx context.Context) ([]Assignment, error) {
	var assignments []Assignment
	if err := c.do(ctx, "available_assignments", requestOptions{
		method: http.MethodGet,
		path:   "/delivery/assignments/available",
		auth:   true,
	}, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// AcceptAssignment claims an open delivery job.
func (c *Client) AcceptAssignment(ctx context.Context, assignmentID string) error {
	return c.do(ctx, "accept_assignment", requestOptions{
		method: http.MethodPost,
		path:   "/delivery/assignments/" + url.PathEscape(assignmentID) + "/accept",
		auth:   true,
	}, nil)
}

// UpdateDeliveryStatus moves an assignment through its lifecycle.
func (c *Client) UpdateDeliveryStatus(ctx context.Context, assignmentID string, update DeliveryStatusUpdate) error {
	if update.Status == "" {
		return &core.StorefrontError{
			Op:      "update_delivery_status",
			Kind:    "validation",
			ID:      assignmentID,
			Message: "Delivery status is required.",
			Err:     core.ErrInvalidInput,
		}
	}
	return c.do(ctx, "update_delivery_status", requestOptions{
		method: http.MethodPost,
		path:   "/delivery/assignments/" + url.PathEscape(assignmentID) + "/status",
		body:   update,
		auth:   true,
	}, nil)
}

// UpdateDeliveryAvailability toggles whether the partner accepts new
// assignments.
func (c *Client) UpdateDeliveryAvailability(ctx context.Context, availability Availability) error {
	return c.do(ctx, "update_availability", requestOptions{
		method: http.MethodPut,
		path:   "/delivery/availability",
		body:   availability,
		auth:   true,
	}, nil)
}
