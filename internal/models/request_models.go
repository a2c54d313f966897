package models

// RedeemRequest is the request body for redeeming a point code.
type RedeemRequest struct {
	Code string `json:"code" binding:"required"`
}

// PurchaseRequest is the request body for buying a product with points.
// ReceiptID is optional; when absent the server generates one. Quantity
// defaults to 1.
type PurchaseRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity"`
	ReceiptID string `json:"receiptId,omitempty"`
}

// GrantPointsRequest is the admin request body for awarding points by email.
type GrantPointsRequest struct {
	Email  string `json:"email" binding:"required"`
	Amount int64  `json:"amount" binding:"required"`
	Note   string `json:"note,omitempty"`
}

// AdjustPointsRequest is the admin request body for a signed balance
// correction. Delta may be negative but must not take the balance below zero.
type AdjustPointsRequest struct {
	Email string `json:"email" binding:"required"`
	Delta int64  `json:"delta" binding:"required"`
	Note  string `json:"note,omitempty"`
}

// CreateProductRequest is the admin request body for adding a product.
type CreateProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Price       int64    `json:"price" binding:"required"`
	Stock       int64    `json:"stock"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Active      *bool    `json:"active,omitempty"`
}

// UpdateProductRequest is the admin request body for editing a product.
// Pointers distinguish "not provided" from explicit zero values.
type UpdateProductRequest struct {
	Name        *string   `json:"name,omitempty"`
	Price       *int64    `json:"price,omitempty"`
	Stock       *int64    `json:"stock,omitempty"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	Description *string   `json:"description,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Active      *bool     `json:"active,omitempty"`
}
