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

// firestoreProductRepository implements the ProductRepository interface using
// Firestore. Stock mutation is deliberately not exposed here; purchases go
// through the ledger transaction.
type firestoreProductRepository struct {
	client *firestore.Client
}

// NewFirestoreProductRepository creates a new instance of firestoreProductRepository.
func NewFirestoreProductRepository(client *firestore.Client) ProductRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for ProductRepository.")
	}
	return &firestoreProductRepository{client: client}
}

// Create adds a new product document with an auto-generated ID and sets
// product.ID before saving. CreatedAt is handled by serverTimestamp.
func (r *firestoreProductRepository) Create(ctx context.Context, product *models.Product) (string, error) {
	docRef := r.client.Collection(productsCollection).NewDoc()
	product.ID = docRef.ID

	if _, err := docRef.Create(ctx, product); err != nil {
		return "", fmt.Errorf("failed to create product: %w", err)
	}
	return docRef.ID, nil
}

// GetByID retrieves a product document by its ID.
func (r *firestoreProductRepository) GetByID(ctx context.Context, productID string) (*models.Product, error) {
	if productID == "" {
		return nil, errors.New("productID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(productsCollection).Doc(productID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("product with ID '%s' not found: %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product with ID '%s': %w", productID, err)
	}

	var product models.Product
	if err := docSnap.DataTo(&product); err != nil {
		return nil, fmt.Errorf("failed to decode product data for ID '%s': %w", productID, err)
	}
	product.ID = docSnap.Ref.ID
	return &product, nil
}

// List retrieves all products ordered by name. Inactive products (explicit
// active=false) are filtered out unless includeInactive is set; filtering is
// client-side because absent `active` fields must count as active.
func (r *firestoreProductRepository) List(ctx context.Context, includeInactive bool) ([]*models.Product, error) {
	query := r.client.Collection(productsCollection).OrderBy("name", firestore.Asc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var products []*models.Product
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate products: %w", err)
		}

		var product models.Product
		if err := doc.DataTo(&product); err != nil {
			log.Printf("Error decoding product data (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		product.ID = doc.Ref.ID
		if !includeInactive && product.Inactive() {
			continue
		}
		products = append(products, &product)
	}

	return products, nil
}

// Update overwrites an existing product document with the full model. The
// service layer fetches the product and applies the allowlisted changes first,
// so a plain Set is a complete representation of the desired state.
func (r *firestoreProductRepository) Update(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		return errors.New("product ID cannot be empty for Update operation")
	}
	_, err := r.client.Collection(productsCollection).Doc(product.ID).Set(ctx, product)
	if err != nil {
		return fmt.Errorf("failed to update product with ID '%s': %w", product.ID, err)
	}
	return nil
}

// Delete removes a product document.
func (r *firestoreProductRepository) Delete(ctx context.Context, productID string) error {
	if productID == "" {
		return errors.New("productID cannot be empty for Delete operation")
	}
	_, err := r.client.Collection(productsCollection).Doc(productID).Delete(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("product with ID '%s' not found for deletion: %w", productID, ErrNotFound)
		}
		return fmt.Errorf("failed to delete product with ID '%s': %w", productID, err)
	}
	return nil
}
