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

// firestoreLedgerStore implements the LedgerStore interface on Firestore.
// RunLedgerTx maps directly onto firestore.Client.RunTransaction, which gives
// serializable isolation and automatic retry on write conflicts; an error
// returned from the callback aborts the transaction with no writes applied.
type firestoreLedgerStore struct {
	client *firestore.Client
}

// NewFirestoreLedgerStore creates a new Firestore-backed LedgerStore.
func NewFirestoreLedgerStore(client *firestore.Client) LedgerStore {
	if client == nil {
		log.Fatal("Firestore client is not initialized for LedgerStore.")
	}
	return &firestoreLedgerStore{client: client}
}

// ResolveCode resolves a human-entered code to its backing document.
// Lookup priority: document ID == code, then the indexed `code` field, then
// the indexed `id` field. The field lookups exist for externally-provisioned
// datasets (e.g. Rowy) whose document IDs are random.
func (s *firestoreLedgerStore) ResolveCode(ctx context.Context, code string) (CodeRef, error) {
	if code == "" {
		return CodeRef{}, errors.New("code cannot be empty for ResolveCode operation")
	}

	directSnap, err := s.client.Collection(pointCodesCollection).Doc(code).Get(ctx)
	if err == nil && directSnap.Exists() {
		return CodeRef{DocID: directSnap.Ref.ID}, nil
	}
	if err != nil && status.Code(err) != codes.NotFound {
		return CodeRef{}, fmt.Errorf("failed to look up code document '%s': %w", code, err)
	}

	for _, field := range []string{"code", "id"} {
		query := s.client.Collection(pointCodesCollection).Where(field, "==", code).Limit(1)
		iter := query.Documents(ctx)
		doc, err := iter.Next()
		iter.Stop()
		if err == iterator.Done {
			continue
		}
		if err != nil {
			return CodeRef{}, fmt.Errorf("failed to query codes by field '%s': %w", field, err)
		}
		return CodeRef{DocID: doc.Ref.ID}, nil
	}

	return CodeRef{}, fmt.Errorf("code '%s': %w", code, ErrNotFound)
}

// GetCode reads a resolved code outside of a transaction, for previews.
func (s *firestoreLedgerStore) GetCode(ctx context.Context, ref CodeRef) (*models.PointCode, error) {
	docSnap, err := s.client.Collection(pointCodesCollection).Doc(ref.DocID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("code document '%s': %w", ref.DocID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get code document '%s': %w", ref.DocID, err)
	}
	return decodeCode(docSnap)
}

// FindBalanceByEmail retrieves the balance record indexed under a normalized
// email. Email is not uniqueness-enforced by the store, so the first match
// wins, mirroring the admin tooling this backend replaces.
func (s *firestoreLedgerStore) FindBalanceByEmail(ctx context.Context, email string) (*models.UserPoints, error) {
	if email == "" {
		return nil, errors.New("email cannot be empty for FindBalanceByEmail operation")
	}
	query := s.client.Collection(userPointsCollection).Where("email", "==", email).Limit(1)
	iter := query.Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, fmt.Errorf("balance record for email '%s': %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query balance by email: %w", err)
	}

	var up models.UserPoints
	if err := doc.DataTo(&up); err != nil {
		return nil, fmt.Errorf("failed to decode balance record '%s': %w", doc.Ref.ID, err)
	}
	up.UserID = doc.Ref.ID
	return &up, nil
}

// RunLedgerTx executes fn inside a Firestore transaction.
func (s *firestoreLedgerStore) RunLedgerTx(ctx context.Context, fn func(tx LedgerTx) error) error {
	return s.client.RunTransaction(ctx, func(ctx context.Context, t *firestore.Transaction) error {
		return fn(&firestoreLedgerTx{client: s.client, tx: t})
	})
}

// firestoreLedgerTx adapts a *firestore.Transaction to the LedgerTx
// interface. Firestore requires every read to happen before the first
// buffered write; the ledger service is structured to honor that.
type firestoreLedgerTx struct {
	client *firestore.Client
	tx     *firestore.Transaction
}

func (t *firestoreLedgerTx) codeDoc(ref CodeRef) *firestore.DocumentRef {
	return t.client.Collection(pointCodesCollection).Doc(ref.DocID)
}

func (t *firestoreLedgerTx) balanceDoc(userID string) *firestore.DocumentRef {
	return t.client.Collection(userPointsCollection).Doc(userID)
}

func (t *firestoreLedgerTx) productDoc(productID string) *firestore.DocumentRef {
	return t.client.Collection(productsCollection).Doc(productID)
}

func (t *firestoreLedgerTx) GetCode(ref CodeRef) (*models.PointCode, error) {
	snap, err := t.tx.Get(t.codeDoc(ref))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("code document '%s': %w", ref.DocID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read code '%s' in transaction: %w", ref.DocID, err)
	}
	return decodeCode(snap)
}

func (t *firestoreLedgerTx) GetCodeUse(ref CodeRef, userID string) (bool, error) {
	useDoc := t.codeDoc(ref).Collection(usesSubcollection).Doc(userID)
	snap, err := t.tx.Get(useDoc)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to read use record for code '%s': %w", ref.DocID, err)
	}
	return snap.Exists(), nil
}

func (t *firestoreLedgerTx) GetBalance(userID string) (*models.UserPoints, error) {
	snap, err := t.tx.Get(t.balanceDoc(userID))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("balance record '%s': %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read balance '%s' in transaction: %w", userID, err)
	}
	var up models.UserPoints
	if err := snap.DataTo(&up); err != nil {
		return nil, fmt.Errorf("failed to decode balance record '%s': %w", userID, err)
	}
	up.UserID = snap.Ref.ID
	return &up, nil
}

func (t *firestoreLedgerTx) GetProduct(productID string) (*models.Product, error) {
	snap, err := t.tx.Get(t.productDoc(productID))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("product '%s': %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read product '%s' in transaction: %w", productID, err)
	}
	var p models.Product
	if err := snap.DataTo(&p); err != nil {
		return nil, fmt.Errorf("failed to decode product '%s': %w", productID, err)
	}
	p.ID = snap.Ref.ID
	return &p, nil
}

func (t *firestoreLedgerTx) HasPurchase(userID, receiptID string) (bool, error) {
	doc := t.balanceDoc(userID).Collection(purchasesSubcollection).Doc(receiptID)
	snap, err := t.tx.Get(doc)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to read purchase receipt '%s': %w", receiptID, err)
	}
	return snap.Exists(), nil
}

func (t *firestoreLedgerTx) MarkCodeUsed(ref CodeRef, userID, email string) error {
	return t.tx.Update(t.codeDoc(ref), []firestore.Update{
		{Path: "used", Value: true},
		{Path: "active", Value: false},
		{Path: "usedBy", Value: userID},
		{Path: "usedAt", Value: firestore.ServerTimestamp},
		{Path: "userEmail", Value: email},
	})
}

func (t *firestoreLedgerTx) RecordCodeUse(ref CodeRef, userID, email string) error {
	useDoc := t.codeDoc(ref).Collection(usesSubcollection).Doc(userID)
	if err := t.tx.Set(useDoc, map[string]interface{}{
		"uid":       userID,
		"usedAt":    firestore.ServerTimestamp,
		"userEmail": email,
	}); err != nil {
		return fmt.Errorf("failed to record code use for '%s': %w", ref.DocID, err)
	}
	return t.tx.Update(t.codeDoc(ref), []firestore.Update{
		{Path: "redeemedCount", Value: firestore.Increment(1)},
		{Path: "lastUsedAt", Value: firestore.ServerTimestamp},
	})
}

func (t *firestoreLedgerTx) CreateBalance(userID, email string, balance int64) error {
	return t.tx.Set(t.balanceDoc(userID), map[string]interface{}{
		"balance":   balance,
		"email":     email,
		"updatedAt": firestore.ServerTimestamp,
	})
}

func (t *firestoreLedgerTx) AddToBalance(userID, email string, delta int64) error {
	return t.tx.Update(t.balanceDoc(userID), []firestore.Update{
		{Path: "balance", Value: firestore.Increment(delta)},
		{Path: "email", Value: email},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
}

func (t *firestoreLedgerTx) SetBalance(userID, email string, balance int64) error {
	return t.tx.Update(t.balanceDoc(userID), []firestore.Update{
		{Path: "balance", Value: balance},
		{Path: "email", Value: email},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
}

func (t *firestoreLedgerTx) DecrementStock(productID string, quantity int64) error {
	return t.tx.Update(t.productDoc(productID), []firestore.Update{
		{Path: "stock", Value: firestore.Increment(-quantity)},
		{Path: "lastPurchasedAt", Value: firestore.ServerTimestamp},
	})
}

func (t *firestoreLedgerTx) AppendRedemption(userID, codeID string, entry *models.Redemption) error {
	doc := t.balanceDoc(userID).Collection(redemptionsSubcollection).Doc(codeID)
	return t.tx.Set(doc, entry)
}

func (t *firestoreLedgerTx) AppendPurchase(userID, receiptID string, entry *models.Purchase) error {
	doc := t.balanceDoc(userID).Collection(purchasesSubcollection).Doc(receiptID)
	return t.tx.Set(doc, entry)
}

func (t *firestoreLedgerTx) AppendGrant(userID string, entry *models.AdminGrant) error {
	doc := t.balanceDoc(userID).Collection(adminGrantsSubcollection).NewDoc()
	return t.tx.Set(doc, entry)
}

// decodeCode decodes a code snapshot and stamps the document ID.
func decodeCode(snap *firestore.DocumentSnapshot) (*models.PointCode, error) {
	var code models.PointCode
	if err := snap.DataTo(&code); err != nil {
		return nil, fmt.Errorf("failed to decode code document '%s': %w", snap.Ref.ID, err)
	}
	code.DocID = snap.Ref.ID
	return &code, nil
}
