package models

import "time"

// UserPoints is the per-user balance record, stored at userPoints/{uid}.
// It is created lazily on the first balance-affecting operation and never
// deleted. The balance must never go negative; the ledger service enforces
// this before every write.
type UserPoints struct {
	UserID      string    `json:"userId" firestore:"-"` // Document ID (Firebase Auth UID)
	Email       string    `json:"email" firestore:"email"`
	DisplayName string    `json:"displayName,omitempty" firestore:"displayName,omitempty"`
	Balance     int64     `json:"balance" firestore:"balance"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// Redemption is an immutable audit entry stored at
// userPoints/{uid}/redemptions/{code}. The document ID is the code string the
// user entered, which doubles as the idempotency key for the redemption.
type Redemption struct {
	ID         string    `json:"id" firestore:"-"`
	Code       string    `json:"code" firestore:"code"`
	Amount     int64     `json:"amount" firestore:"amount"`
	RedeemedAt time.Time `json:"redeemedAt" firestore:"redeemedAt,serverTimestamp"`
	UserEmail  string    `json:"userEmail,omitempty" firestore:"userEmail,omitempty"`
}

// Purchase is an immutable audit entry stored at
// userPoints/{uid}/purchases/{receiptId}. The receipt ID is caller-supplied
// (or generated server-side) and acts as the idempotency key: re-submitting
// the same receipt is rejected rather than applied twice.
type Purchase struct {
	ID          string    `json:"id" firestore:"-"`
	ReceiptID   string    `json:"receiptId" firestore:"receiptId"`
	ProductID   string    `json:"productId" firestore:"productId"`
	Name        string    `json:"name" firestore:"name"`
	Price       int64     `json:"price" firestore:"price"`
	Quantity    int64     `json:"quantity" firestore:"quantity"`
	Total       int64     `json:"total" firestore:"total"`
	ImageURL    string    `json:"imageUrl,omitempty" firestore:"imageUrl,omitempty"`
	PurchasedAt time.Time `json:"purchasedAt" firestore:"purchasedAt,serverTimestamp"`
	UserEmail   string    `json:"userEmail,omitempty" firestore:"userEmail,omitempty"`
}

// Admin grant types.
const (
	GrantTypeManualAward  = "manual-award"
	GrantTypeManualAdjust = "manual-adjust"
)

// AdminGrant is an immutable audit entry stored at
// userPoints/{uid}/adminGrants/{autoId}, covering both manual awards
// (positive amounts only) and manual adjustments (signed amounts, with the
// resulting balance recorded).
type AdminGrant struct {
	ID           string    `json:"id" firestore:"-"`
	Amount       int64     `json:"amount" firestore:"amount"`
	BalanceAfter *int64    `json:"balanceAfter,omitempty" firestore:"balanceAfter,omitempty"` // manual-adjust only
	Email        string    `json:"email" firestore:"email"`
	Note         string    `json:"note" firestore:"note"`
	GrantedAt    time.Time `json:"grantedAt" firestore:"grantedAt,serverTimestamp"`
	GrantedBy    string    `json:"grantedBy,omitempty" firestore:"grantedBy,omitempty"`
	Type         string    `json:"type" firestore:"type"` // GrantTypeManualAward or GrantTypeManualAdjust
}
