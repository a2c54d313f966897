package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"wallet-backend-go/internal/models"
)

// firestoreCertificateRepository implements the CertificateRepository
// interface using Firestore.
type firestoreCertificateRepository struct {
	client *firestore.Client
}

// NewFirestoreCertificateRepository creates a new instance of firestoreCertificateRepository.
func NewFirestoreCertificateRepository(client *firestore.Client) CertificateRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for CertificateRepository.")
	}
	return &firestoreCertificateRepository{client: client}
}

// GetByEmail retrieves all certificates issued to an email. The dataset
// stores the holder email under either `userEmail` or the legacy
// `correoUsuario` field, so both are queried and the results merged by
// document ID.
func (r *firestoreCertificateRepository) GetByEmail(ctx context.Context, email string) ([]*models.Certificate, error) {
	if email == "" {
		return nil, errors.New("email cannot be empty for GetByEmail operation")
	}

	col := r.client.Collection(certificatesCollection)
	seen := make(map[string]*models.Certificate)
	var ordered []*models.Certificate

	for _, field := range []string{"userEmail", "correoUsuario"} {
		iter := col.Where(field, "==", email).Documents(ctx)
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				iter.Stop()
				return nil, fmt.Errorf("failed to query certificates by '%s': %w", field, err)
			}
			if _, ok := seen[doc.Ref.ID]; ok {
				continue
			}

			var cert models.Certificate
			if err := doc.DataTo(&cert); err != nil {
				log.Printf("Error decoding certificate (ID: %s): %v. Skipping.", doc.Ref.ID, err)
				continue
			}
			cert.ID = doc.Ref.ID
			seen[doc.Ref.ID] = &cert
			ordered = append(ordered, &cert)
		}
		iter.Stop()
	}

	return ordered, nil
}
