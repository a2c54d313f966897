package models

import "time"

// Product is a marketplace item stored in the productos collection. Stock is
// only ever mutated by the purchase transaction; everything else is managed
// through the admin CRUD endpoints.
//
// Active follows the same convention as PointCode.Active: absent means active.
type Product struct {
	ID              string     `json:"id" firestore:"-"`
	Name            string     `json:"name" firestore:"name"`
	Price           int64      `json:"price" firestore:"price"`
	Stock           int64      `json:"stock" firestore:"stock"`
	Active          *bool      `json:"active,omitempty" firestore:"active"`
	ImageURL        string     `json:"imageUrl,omitempty" firestore:"imageUrl"`
	Description     string     `json:"description,omitempty" firestore:"description"`
	Tags            []string   `json:"tags,omitempty" firestore:"tags"`
	CreatedAt       time.Time  `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	LastPurchasedAt *time.Time `json:"lastPurchasedAt,omitempty" firestore:"lastPurchasedAt,omitempty"`
}

// Inactive reports whether the product has been explicitly deactivated.
func (p *Product) Inactive() bool {
	return p.Active != nil && !*p.Active
}
