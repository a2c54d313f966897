package db

import (
	"context"

	"wallet-backend-go/internal/models"
)

// CodeRef is the canonical handle for a resolved point code. DocID is the
// backing Firestore document ID, which may differ from the code string for
// externally-provisioned datasets.
type CodeRef struct {
	DocID string
}

// LedgerTx is the set of reads and writes available inside one atomic ledger
// transaction. Implementations must guarantee that all reads observe a
// consistent snapshot and that writes are applied all-or-nothing; callers
// must issue every read before the first write.
type LedgerTx interface {
	// Reads.
	GetCode(ref CodeRef) (*models.PointCode, error)
	GetCodeUse(ref CodeRef, userID string) (bool, error)
	GetBalance(userID string) (*models.UserPoints, error)
	GetProduct(productID string) (*models.Product, error)
	HasPurchase(userID, receiptID string) (bool, error)

	// Writes.
	MarkCodeUsed(ref CodeRef, userID, email string) error
	RecordCodeUse(ref CodeRef, userID, email string) error
	CreateBalance(userID, email string, balance int64) error
	AddToBalance(userID, email string, delta int64) error
	SetBalance(userID, email string, balance int64) error
	DecrementStock(productID string, quantity int64) error
	AppendRedemption(userID, codeID string, entry *models.Redemption) error
	AppendPurchase(userID, receiptID string, entry *models.Purchase) error
	AppendGrant(userID string, entry *models.AdminGrant) error
}

// LedgerStore provides code resolution, balance lookup by email, and the
// transaction primitive the ledger service runs its operations in.
// RunLedgerTx retries transparently on write conflicts; any error returned by
// fn aborts the transaction with zero side effects and is returned as-is.
type LedgerStore interface {
	ResolveCode(ctx context.Context, code string) (CodeRef, error)
	GetCode(ctx context.Context, ref CodeRef) (*models.PointCode, error)
	FindBalanceByEmail(ctx context.Context, email string) (*models.UserPoints, error)
	RunLedgerTx(ctx context.Context, fn func(tx LedgerTx) error) error
}

// ProductRepository defines product catalog storage operations. Stock is
// deliberately absent here: it is mutated only through LedgerTx.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) (string, error)
	GetByID(ctx context.Context, productID string) (*models.Product, error)
	List(ctx context.Context, includeInactive bool) ([]*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, productID string) error
}

// AdminRepository resolves the admin capability flag and lists wallet users.
type AdminRepository interface {
	IsAdminEmail(ctx context.Context, email string) (bool, error)
	ListUsers(ctx context.Context, max int) ([]*models.UserPoints, error)
	ListUsersByEmailPrefix(ctx context.Context, prefix string, max int) ([]*models.UserPoints, error)
}

// CertificateRepository reads earned certificates.
type CertificateRepository interface {
	GetByEmail(ctx context.Context, email string) ([]*models.Certificate, error)
}

// HistoryRepository reads the per-user audit trail, newest first.
type HistoryRepository interface {
	Balance(ctx context.Context, userID string) (*models.UserPoints, error)
	Redemptions(ctx context.Context, userID string, max int) ([]*models.Redemption, error)
	Purchases(ctx context.Context, userID string, max int) ([]*models.Purchase, error)
	AdminGrants(ctx context.Context, userID string, max int) ([]*models.AdminGrant, error)
}
