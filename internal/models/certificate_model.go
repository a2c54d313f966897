package models

import "time"

// Certificate is an earned certificate in the certificados collection. The
// dataset predates this backend and keeps its original Spanish field names;
// user email appears under either `userEmail` or the legacy `correoUsuario`,
// so lookups query both.
type Certificate struct {
	ID           string     `json:"id" firestore:"-"`
	UserName     string     `json:"userName,omitempty" firestore:"nombreUsuario"`
	UserEmail    string     `json:"userEmail,omitempty" firestore:"userEmail"`
	LegacyEmail  string     `json:"-" firestore:"correoUsuario"`
	EventName    string     `json:"eventName,omitempty" firestore:"nombreEvento"`
	ValidationID string     `json:"validationId,omitempty" firestore:"idValidacion"`
	IssuedAt     *time.Time `json:"issuedAt,omitempty" firestore:"fechaEmision"`
	PDFURL       string     `json:"pdfUrl,omitempty" firestore:"urlPdf"`
	DownloadURL  string     `json:"downloadUrl,omitempty" firestore:"downloadURL"`
}

// AdminFlag is a row of the isAdmin collection. Matching is by the `email`
// field first, falling back to document ID == normalized email for older
// records; an explicit active=false revokes the capability.
type AdminFlag struct {
	ID     string `json:"id" firestore:"-"`
	Email  string `json:"email" firestore:"email"`
	Active *bool  `json:"active,omitempty" firestore:"active"`
}

// UserSummary is the admin-facing listing row for a wallet user. DisplayName
// falls back to the certificate holder name, then the email local part.
type UserSummary struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Balance     int64  `json:"balance"`
}
