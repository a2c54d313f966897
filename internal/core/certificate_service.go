package core

import (
	"context"
	"fmt"

	"wallet-backend-go/internal/db"
	"wallet-backend-go/internal/models"
)

// certificateService implements the CertificateService interface.
type certificateService struct {
	certRepo db.CertificateRepository
}

// NewCertificateService creates a new CertificateService instance.
func NewCertificateService(certRepo db.CertificateRepository) CertificateService {
	return &certificateService{certRepo: certRepo}
}

// GetByEmail returns the certificates issued to the normalized email. An
// empty email has no certificates.
func (s *certificateService) GetByEmail(ctx context.Context, email string) ([]*models.Certificate, error) {
	normalized := normalizeEmail(email)
	if normalized == "" {
		return []*models.Certificate{}, nil
	}
	certs, err := s.certRepo.GetByEmail(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to get certificates for '%s': %w", normalized, err)
	}
	return certs, nil
}
