package core

import (
	"context"
	"fmt"
	"strings"

	"wallet-backend-go/internal/db"
	"wallet-backend-go/internal/models"
)

// Listing bounds for the admin user views.
const (
	defaultUserListLimit  = 50
	searchFallbackFetch   = 120
	defaultSearchMaxUsers = 20
)

// adminService implements the AdminService interface. It resolves the admin
// capability flag and serves the admin panel's user listings, hydrating
// display names from the certificates collection where available.
type adminService struct {
	adminRepo db.AdminRepository
	certRepo  db.CertificateRepository
}

// NewAdminService creates a new AdminService instance.
func NewAdminService(adminRepo db.AdminRepository, certRepo db.CertificateRepository) AdminService {
	return &adminService{
		adminRepo: adminRepo,
		certRepo:  certRepo,
	}
}

// IsAdminEmail reports whether the normalized email holds the admin
// capability. An empty email never does.
func (s *adminService) IsAdminEmail(ctx context.Context, email string) (bool, error) {
	normalized := normalizeEmail(email)
	if normalized == "" {
		return false, nil
	}
	isAdmin, err := s.adminRepo.IsAdminEmail(ctx, normalized)
	if err != nil {
		return false, fmt.Errorf("failed to resolve admin flag for '%s': %w", normalized, err)
	}
	return isAdmin, nil
}

// ListUsers returns up to max wallet users ordered by email.
func (s *adminService) ListUsers(ctx context.Context, max int) ([]*models.UserSummary, error) {
	if max <= 0 {
		max = defaultUserListLimit
	}
	users, err := s.adminRepo.ListUsers(ctx, max)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return s.summarize(ctx, users), nil
}

// SearchUsers finds wallet users by partial email or display name. Terms that
// look like an email use an indexed prefix query; everything else fetches a
// bounded page and filters locally, which is also the fallback when the
// prefix query fails (typically a missing index).
func (s *adminService) SearchUsers(ctx context.Context, term string, max int) ([]*models.UserSummary, error) {
	text := strings.ToLower(strings.TrimSpace(term))
	if text == "" {
		return []*models.UserSummary{}, nil
	}
	if max <= 0 {
		max = defaultSearchMaxUsers
	}

	var users []*models.UserPoints
	var err error
	if strings.Contains(text, "@") {
		users, err = s.adminRepo.ListUsersByEmailPrefix(ctx, text, max)
		if err != nil {
			users, err = s.adminRepo.ListUsers(ctx, searchFallbackFetch)
		}
	} else {
		users, err = s.adminRepo.ListUsers(ctx, searchFallbackFetch)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	summaries := s.summarize(ctx, users)
	matched := make([]*models.UserSummary, 0, len(summaries))
	for _, u := range summaries {
		if strings.Contains(u.Email, text) || strings.Contains(strings.ToLower(u.DisplayName), text) {
			matched = append(matched, u)
			if len(matched) >= max {
				break
			}
		}
	}
	return matched, nil
}

// summarize converts balance records into listing rows, filling display
// names from the certificate holder name, then the email local part.
func (s *adminService) summarize(ctx context.Context, users []*models.UserPoints) []*models.UserSummary {
	summaries := make([]*models.UserSummary, 0, len(users))
	for _, up := range users {
		email := strings.ToLower(up.Email)
		summary := &models.UserSummary{
			UID:         up.UserID,
			Email:       email,
			DisplayName: up.DisplayName,
			Balance:     up.Balance,
		}
		if summary.DisplayName == "" && email != "" {
			if name := s.nameFromCertificates(ctx, email); name != "" {
				summary.DisplayName = name
			}
		}
		if summary.DisplayName == "" && email != "" {
			summary.DisplayName = strings.SplitN(email, "@", 2)[0]
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// nameFromCertificates looks up an authoritative holder name. Best effort:
// lookup failures just leave the fallback name in place.
func (s *adminService) nameFromCertificates(ctx context.Context, email string) string {
	certs, err := s.certRepo.GetByEmail(ctx, email)
	if err != nil || len(certs) == 0 {
		return ""
	}
	return certs[0].UserName
}
