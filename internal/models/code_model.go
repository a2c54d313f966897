package models

import "time"

// PointCode is a redeemable code stored in the pointCodes collection.
//
// Identity is polymorphic to support externally-provisioned datasets (e.g.
// Rowy, where document IDs are random): either the document ID is the code
// string itself, or the `code`/`id` fields carry it. Resolution order is
// document ID, then `code`, then `id`.
//
// Active is a pointer because the datasets treat an absent field as active;
// only an explicit false deactivates a code.
type PointCode struct {
	DocID         string     `json:"-" firestore:"-"`
	Code          string     `json:"code,omitempty" firestore:"code,omitempty"`
	AltID         string     `json:"id,omitempty" firestore:"id,omitempty"`
	Amount        int64      `json:"amount" firestore:"amount"`
	Used          bool       `json:"used" firestore:"used"`
	Active        *bool      `json:"active,omitempty" firestore:"active"`
	MultiUse      bool       `json:"multiUse" firestore:"multiUse"`
	RedeemedCount int64      `json:"redeemedCount,omitempty" firestore:"redeemedCount,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty" firestore:"expiresAt,omitempty"`
	UsedBy        string     `json:"usedBy,omitempty" firestore:"usedBy,omitempty"` // single-use only
	UsedAt        *time.Time `json:"usedAt,omitempty" firestore:"usedAt,omitempty"`
	UserEmail     string     `json:"userEmail,omitempty" firestore:"userEmail,omitempty"`
	LastUsedAt    *time.Time `json:"lastUsedAt,omitempty" firestore:"lastUsedAt,omitempty"` // multi-use only
}

// Inactive reports whether the code has been explicitly deactivated.
func (c *PointCode) Inactive() bool {
	return c.Active != nil && !*c.Active
}

// ExpiredAt reports whether the code's optional expiry has passed at t.
func (c *PointCode) ExpiredAt(t time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(t)
}

// CodeUse is the per-user use record for a multi-use code, stored at
// pointCodes/{docId}/uses/{uid}. Its existence is what prevents the same user
// redeeming the same multi-use code twice.
type CodeUse struct {
	UID       string    `json:"uid" firestore:"uid"`
	UsedAt    time.Time `json:"usedAt" firestore:"usedAt,serverTimestamp"`
	UserEmail string    `json:"userEmail,omitempty" firestore:"userEmail,omitempty"`
}

// CodeInfo is the read-only preview of a code returned before redemption.
// ID is the code string the user entered, not the backing document ID.
type CodeInfo struct {
	ID        string     `json:"id"`
	Amount    int64      `json:"amount"`
	Used      bool       `json:"used"`
	Active    bool       `json:"active"`
	MultiUse  bool       `json:"multiUse"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Expired   bool       `json:"expired"`
}
