package core

import "errors"

// Typed errors surfaced by the core services. Every validation failure aborts
// its transaction with zero side effects; callers must not retry these.
var (
	// Code redemption.
	ErrCodeNotFound      = errors.New("code not found")
	ErrCodeAlreadyUsed   = errors.New("code already used")
	ErrCodeInactive      = errors.New("code inactive")
	ErrCodeExpired       = errors.New("code expired")
	ErrInvalidCodeAmount = errors.New("code has an invalid amount")
	ErrAlreadyRedeemed   = errors.New("code already redeemed by this user")
	ErrEmptyCode         = errors.New("code cannot be empty")

	// Purchases.
	ErrProductNotFound    = errors.New("product not found")
	ErrProductInactive    = errors.New("product inactive")
	ErrInvalidPrice       = errors.New("product has an invalid price")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrDuplicateReceipt   = errors.New("receipt already processed")

	// Admin grants and adjustments.
	ErrUserNotFound    = errors.New("no user found with that email")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrWouldGoNegative = errors.New("adjustment would make the balance negative")
	ErrEmailRequired   = errors.New("email is required")

	// Shared.
	ErrNotAuthenticated = errors.New("user not authenticated")
	ErrInvalidProduct   = errors.New("invalid product")
)
