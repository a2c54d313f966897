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

// firestoreHistoryRepository implements the HistoryRepository interface using
// Firestore. All listings are newest-first with a caller-provided limit,
// matching the wallet client's history views.
type firestoreHistoryRepository struct {
	client *firestore.Client
}

// NewFirestoreHistoryRepository creates a new instance of firestoreHistoryRepository.
func NewFirestoreHistoryRepository(client *firestore.Client) HistoryRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for HistoryRepository.")
	}
	return &firestoreHistoryRepository{client: client}
}

// Balance reads the balance record for a user. An absent record is reported
// as ErrNotFound; callers present it as a zero balance.
func (r *firestoreHistoryRepository) Balance(ctx context.Context, userID string) (*models.UserPoints, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for Balance operation")
	}
	docSnap, err := r.client.Collection(userPointsCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("balance record '%s': %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get balance record '%s': %w", userID, err)
	}

	var up models.UserPoints
	if err := docSnap.DataTo(&up); err != nil {
		return nil, fmt.Errorf("failed to decode balance record '%s': %w", userID, err)
	}
	up.UserID = docSnap.Ref.ID
	return &up, nil
}

// Redemptions lists the user's redemption audit entries, newest first.
func (r *firestoreHistoryRepository) Redemptions(ctx context.Context, userID string, max int) ([]*models.Redemption, error) {
	query, err := r.auditQuery(userID, redemptionsSubcollection, "redeemedAt", max)
	if err != nil {
		return nil, err
	}

	var entries []*models.Redemption
	err = iterate(ctx, query, func(doc *firestore.DocumentSnapshot) error {
		var entry models.Redemption
		if err := doc.DataTo(&entry); err != nil {
			log.Printf("Error decoding redemption (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			return nil
		}
		entry.ID = doc.Ref.ID
		entries = append(entries, &entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list redemptions for '%s': %w", userID, err)
	}
	return entries, nil
}

// Purchases lists the user's purchase audit entries, newest first.
func (r *firestoreHistoryRepository) Purchases(ctx context.Context, userID string, max int) ([]*models.Purchase, error) {
	query, err := r.auditQuery(userID, purchasesSubcollection, "purchasedAt", max)
	if err != nil {
		return nil, err
	}

	var entries []*models.Purchase
	err = iterate(ctx, query, func(doc *firestore.DocumentSnapshot) error {
		var entry models.Purchase
		if err := doc.DataTo(&entry); err != nil {
			log.Printf("Error decoding purchase (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			return nil
		}
		entry.ID = doc.Ref.ID
		entries = append(entries, &entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases for '%s': %w", userID, err)
	}
	return entries, nil
}

// AdminGrants lists the user's manual grant/adjust audit entries, newest first.
func (r *firestoreHistoryRepository) AdminGrants(ctx context.Context, userID string, max int) ([]*models.AdminGrant, error) {
	query, err := r.auditQuery(userID, adminGrantsSubcollection, "grantedAt", max)
	if err != nil {
		return nil, err
	}

	var entries []*models.AdminGrant
	err = iterate(ctx, query, func(doc *firestore.DocumentSnapshot) error {
		var entry models.AdminGrant
		if err := doc.DataTo(&entry); err != nil {
			log.Printf("Error decoding admin grant (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			return nil
		}
		entry.ID = doc.Ref.ID
		entries = append(entries, &entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list admin grants for '%s': %w", userID, err)
	}
	return entries, nil
}

func (r *firestoreHistoryRepository) auditQuery(userID, sub, orderField string, max int) (firestore.Query, error) {
	if userID == "" {
		return firestore.Query{}, errors.New("userID cannot be empty for audit listing")
	}
	if max <= 0 {
		return firestore.Query{}, errors.New("max must be positive for audit listing")
	}
	return r.client.Collection(userPointsCollection).Doc(userID).Collection(sub).
		OrderBy(orderField, firestore.Desc).Limit(max), nil
}

func iterate(ctx context.Context, query firestore.Query, visit func(*firestore.DocumentSnapshot) error) error {
	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return err
		}
		if err := visit(doc); err != nil {
			return err
		}
	}
}
