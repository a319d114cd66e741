package api

import (
	"time"

	"github.com/agrokart/storefront/catalog"
)

// Role values the backend reports on login responses.
const (
	RoleCustomer        = "customer"
	RoleVendor          = "vendor"
	RoleDeliveryPartner = "delivery_partner"
)

// User is the account profile embedded in auth responses.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the customer signup request body.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// AuthResponse is what the auth endpoints return on success.
type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// ProductQuery carries the list-products filters. Zero values mean
// "not set" and are left off the query string.
type ProductQuery struct {
	Category  string
	Search    string
	SortBy    string
	SortOrder string
	MinPrice  float64
	MaxPrice  float64
	Page      int
	Limit     int
}

// CategorySummary is one entry from the categories endpoint.
type CategorySummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	Count       int    `json:"count"`
}

// Address is a delivery address.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// OrderLine is one line of a create-order request.
type OrderLine struct {
	ProductID string  `json:"product"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// OrderRequest is the create-order request body.
type OrderRequest struct {
	Items           []OrderLine `json:"items"`
	DeliveryAddress Address     `json:"deliveryAddress"`
	DeliverySlot    string      `json:"deliverySlot"`
	PaymentMethod   string      `json:"paymentMethod"`
}

// OrderProduct is the product snapshot inside an order item.
type OrderProduct struct {
	Name   string   `json:"name"`
	Unit   string   `json:"unit"`
	Images []string `json:"images"`
}

// OrderItem is one fulfilled line of an order.
type OrderItem struct {
	Product  OrderProduct `json:"product"`
	Quantity int          `json:"quantity"`
	Price    float64      `json:"price"`
}

// Order is a placed order as the backend reports it.
type Order struct {
	ID              string      `json:"_id"`
	OrderStatus     string      `json:"orderStatus"`
	TotalAmount     float64     `json:"totalAmount"`
	DeliveryFee     float64     `json:"deliveryFee"`
	PaymentMethod   string      `json:"paymentMethod"`
	CreatedAt       time.Time   `json:"createdAt"`
	Items           []OrderItem `json:"items"`
	DeliveryAddress *Address    `json:"deliveryAddress,omitempty"`
}

// OrderResult is the response envelope for single-order operations.
type OrderResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Order   *Order `json:"order,omitempty"`
}

// VendorRegistration is the vendor signup request body.
type VendorRegistration struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Phone        string `json:"phone"`
	ShopName     string `json:"shopName"`
	ShopAddress  string `json:"shopAddress"`
	GSTNumber    string `json:"gstNumber,omitempty"`
	BusinessType string `json:"businessType,omitempty"`
}

// DeliveryRegistration is the delivery partner signup request body.
type DeliveryRegistration struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Phone         string `json:"phone"`
	VehicleType   string `json:"vehicleType"`
	VehicleNumber string `json:"vehicleNumber"`
	LicenseNumber string `json:"licenseNumber"`
}

// VendorDashboard is the vendor home-screen summary.
type VendorDashboard struct {
	TotalProducts int     `json:"totalProducts"`
	TotalOrders   int     `json:"totalOrders"`
	PendingOrders int     `json:"pendingOrders"`
	Revenue       float64 `json:"revenue"`
}

// InventoryQuery filters the vendor inventory listing.
type InventoryQuery struct {
	Search string
	Page   int
	Limit  int
}

// InventoryUpdate adds or updates a vendor inventory entry.
type InventoryUpdate struct {
	ProductID string  `json:"product,omitempty"`
	Name      string  `json:"name,omitempty"`
	Category  string  `json:"category,omitempty"`
	Price     float64 `json:"price,omitempty"`
	Stock     int     `json:"stock,omitempty"`
	Unit      string  `json:"unit,omitempty"`
}

// InventoryPage is a page of vendor inventory.
type InventoryPage struct {
	Products   []catalog.Product `json:"products"`
	Pagination *Pagination       `json:"pagination,omitempty"`
}

// OrderResponse is a vendor's accept/reject decision on an order.
type OrderResponse struct {
	Action string `json:"action"`
	Reason string `json:"reason,omitempty"`
}

// DeliveryDashboard is the delivery partner home-screen summary.
type DeliveryDashboard struct {
	ActiveAssignments    int     `json:"activeAssignments"`
	CompletedDeliveries  int     `json:"completedDeliveries"`
	TotalEarnings        float64 `json:"totalEarnings"`
	AvailableAssignments int     `json:"availableAssignments"`
}

// Assignment is a delivery job offered to or held by a partner.
type Assignment struct {
	ID        string    `json:"_id"`
	Order     *Order    `json:"order,omitempty"`
	Status    string    `json:"status"`
	Distance  float64   `json:"distance,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// DeliveryStatusUpdate moves an assignment through its lifecycle.
type DeliveryStatusUpdate struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

// Availability toggles whether a partner accepts new assignments.
type Availability struct {
	Available bool `json:"available"`
}

// Pagination is the paging envelope backend list endpoints use.
type Pagination struct {
	CurrentPage   int  `json:"currentPage"`
	TotalPages    int  `json:"totalPages"`
	TotalProducts int  `json:"totalProducts"`
	HasNext       bool `json:"hasNext"`
	HasPrev       bool `json:"hasPrev"`
}

// CategoryProducts is the response for a category product listing.
type CategoryProducts struct {
	Category   string            `json:"category"`
	Products   []catalog.Product `json:"products"`
	Pagination *Pagination       `json:"pagination,omitempty"`
}
