package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"wallet-backend-go/internal/models"
)

// firestoreAdminRepository implements the AdminRepository interface using
// Firestore. The admin capability itself lives in the isAdmin collection and
// is provisioned out of band; this repository only resolves it.
type firestoreAdminRepository struct {
	client *firestore.Client
}

// NewFirestoreAdminRepository creates a new instance of firestoreAdminRepository.
func NewFirestoreAdminRepository(client *firestore.Client) AdminRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for AdminRepository.")
	}
	return &firestoreAdminRepository{client: client}
}

// IsAdminEmail reports whether the email holds the admin capability. It
// queries the `email` field first (random document IDs), then falls back to
// document ID == normalized email for older records. An explicit active=false
// revokes the flag.
func (r *firestoreAdminRepository) IsAdminEmail(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}

	query := r.client.Collection(isAdminCollection).Where("email", "==", email).Limit(1)
	iter := query.Documents(ctx)
	doc, err := iter.Next()
	iter.Stop()
	if err == nil {
		return decodeAdminActive(doc)
	}
	if err != iterator.Done {
		return false, fmt.Errorf("failed to query admin flag for '%s': %w", email, err)
	}

	docSnap, err := r.client.Collection(isAdminCollection).Doc(email).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to get admin flag document '%s': %w", email, err)
	}
	return decodeAdminActive(docSnap)
}

// ListUsers retrieves up to max balance records ordered by email.
func (r *firestoreAdminRepository) ListUsers(ctx context.Context, max int) ([]*models.UserPoints, error) {
	if max <= 0 {
		return nil, errors.New("max must be positive for ListUsers operation")
	}
	query := r.client.Collection(userPointsCollection).OrderBy("email", firestore.Asc).Limit(max)
	return r.collectUsers(ctx, query)
}

// ListUsersByEmailPrefix retrieves balance records whose email starts with
// prefix, using an ordered range query. "" is the conventional
// high-codepoint upper bound for Firestore prefix scans.
func (r *firestoreAdminRepository) ListUsersByEmailPrefix(ctx context.Context, prefix string, max int) ([]*models.UserPoints, error) {
	if prefix == "" {
		return nil, errors.New("prefix cannot be empty for ListUsersByEmailPrefix operation")
	}
	if max <= 0 {
		return nil, errors.New("max must be positive for ListUsersByEmailPrefix operation")
	}
	query := r.client.Collection(userPointsCollection).
		OrderBy("email", firestore.Asc).
		StartAt(prefix).
		EndAt(prefix + "").
		Limit(max)
	return r.collectUsers(ctx, query)
}

func (r *firestoreAdminRepository) collectUsers(ctx context.Context, query firestore.Query) ([]*models.UserPoints, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var users []*models.UserPoints
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate balance records: %w", err)
		}

		var up models.UserPoints
		if err := doc.DataTo(&up); err != nil {
			log.Printf("Error decoding balance record (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		up.UserID = doc.Ref.ID
		users = append(users, &up)
	}
	return users, nil
}

func decodeAdminActive(snap *firestore.DocumentSnapshot) (bool, error) {
	var flag models.AdminFlag
	if err := snap.DataTo(&flag); err != nil {
		return false, fmt.Errorf("failed to decode admin flag document '%s': %w", snap.Ref.ID, err)
	}
	return flag.Active == nil || *flag.Active, nil
}
