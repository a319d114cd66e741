package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/agrokart/storefront/core"
)

// portalNames maps role values to how the portals name themselves in
// user-facing messages.
var portalNames = map[string]string{
	RoleCustomer:        "customer",
	RoleVendor:          "vendor",
	RoleDeliveryPartner: "delivery partner",
}

func portalName(role string) string {
	if name, ok := portalNames[role]; ok {
		return name
	}
	return role
}

// Login authenticates against the customer portal. When expectedRole
// is non-empty the response's account role must match it; valid
// credentials on the wrong portal are rejected with a message naming
// where the account actually belongs.
func (c *Client) Login(ctx context.Context, creds Credentials, expectedRole string) (*AuthResponse, error) {
	return c.login(ctx, "login", "/auth/login", creds, expectedRole)
}

// VendorLogin authenticates against the vendor portal.
func (c *Client) VendorLogin(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	return c.login(ctx, "vendor_login", "/vendor/login", creds, RoleVendor)
}

// DeliveryLogin authenticates against the delivery partner portal.
func (c *Client) DeliveryLogin(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	return c.login(ctx, "delivery_login", "/delivery/login", creds, RoleDeliveryPartner)
}

func (c *Client) login(ctx context.Context, op, path string, creds Credentials, expectedRole string) (*AuthResponse, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, &core.StorefrontError{
			Op:      op,
			Kind:    "validation",
			Message: "Email and password are required.",
			Err:     core.ErrInvalidInput,
		}
	}

	var result AuthResponse
	if err := c.do(ctx, op, requestOptions{
		method: http.MethodPost,
		path:   path,
		body:   creds,
	}, &result); err != nil {
		return nil, err
	}

	if expectedRole != "" && result.User.Role != expectedRole {
		return nil, &core.StorefrontError{
			Op:   op,
			Kind: "role_mismatch",
			Message: fmt.Sprintf(
				"Access denied. This account is registered as %s, not %s. Please use the %s login page for your account type.",
				portalName(result.User.Role), portalName(expectedRole), portalName(result.User.Role)),
			Err: core.ErrRoleMismatch,
		}
	}

	c.logger.Info("Login succeeded", map[string]interface{}{
		"operation": op,
		"role":      result.User.Role,
	})
	return &result, nil
}

// Register creates a customer account. Required fields are validated
// locally before any network call.
func (c *Client) Register(ctx context.Context, reg Registration) (*AuthResponse, error) {
	if reg.Name == "" || reg.Email == "" || reg.Password == "" {
		return nil, &core.StorefrontError{
			Op:      "register",
			Kind:    "validation",
			Message: "Name, email, and password are required.",
			Err:     core.ErrInvalidInput,
		}
	}

	var result AuthResponse
	if err := c.do(ctx, "register", requestOptions{
		method: http.MethodPost,
		path:   "/auth/register",
		body:   reg,
	}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetUserProfile fetches the authenticated account's profile.
func (c *Client) GetUserProfile(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, "user_profile", requestOptions{
		method: http.MethodGet,
		path:   "/users/profile",
		auth:   true,
	}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
