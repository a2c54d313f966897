package core

import (
	"context"

	"wallet-backend-go/internal/models"
)

// RedeemResult is returned by a successful code redemption.
type RedeemResult struct {
	Amount int64 `json:"amount"`
}

// PurchaseResult is returned by a successful purchase.
type PurchaseResult struct {
	Total     int64  `json:"total"`
	ReceiptID string `json:"receiptId"`
}

// GrantResult is returned by a successful manual award.
type GrantResult struct {
	Email  string `json:"email"`
	Amount int64  `json:"amount"`
	UserID string `json:"userId"`
}

// AdjustResult is returned by a successful manual adjustment.
type AdjustResult struct {
	Email  string `json:"email"`
	Delta  int64  `json:"delta"`
	UserID string `json:"userId"`
}

// LedgerService is the transaction engine mutating balances, stock and
// redemption state. Every operation is atomic and idempotent under retry;
// failures carry one of the typed errors from this package.
type LedgerService interface {
	PreviewCode(ctx context.Context, code string) (*models.CodeInfo, error)
	Redeem(ctx context.Context, userID, code, email string) (*RedeemResult, error)
	Purchase(ctx context.Context, userID, productID string, quantity int64, email, receiptID string) (*PurchaseResult, error)
	Grant(ctx context.Context, email string, amount int64, grantedBy, note string) (*GrantResult, error)
	Adjust(ctx context.Context, email string, delta int64, grantedBy, note string) (*AdjustResult, error)
}

// WalletService reads a user's balance and audit history.
type WalletService interface {
	Balance(ctx context.Context, userID string) (*models.UserPoints, error)
	Redemptions(ctx context.Context, userID string, max int) ([]*models.Redemption, error)
	Purchases(ctx context.Context, userID string, max int) ([]*models.Purchase, error)
	AdminGrants(ctx context.Context, userID string, max int) ([]*models.AdminGrant, error)
}

// ProductService manages the marketplace catalog.
type ProductService interface {
	List(ctx context.Context, includeInactive bool) ([]*models.Product, error)
	Get(ctx context.Context, productID string) (*models.Product, error)
	Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error)
	Update(ctx context.Context, productID string, req models.UpdateProductRequest) (*models.Product, error)
	Delete(ctx context.Context, productID string) error
}

// AdminService resolves the admin capability and serves the admin user views.
type AdminService interface {
	IsAdminEmail(ctx context.Context, email string) (bool, error)
	ListUsers(ctx context.Context, max int) ([]*models.UserSummary, error)
	SearchUsers(ctx context.Context, term string, max int) ([]*models.UserSummary, error)
}

// CertificateService reads a user's earned certificates.
type CertificateService interface {
	GetByEmail(ctx context.Context, email string) ([]*models.Certificate, error)
}
