package core

import (
	"context"
	"errors"
	"fmt"

	"wallet-backend-go/internal/db"
	"wallet-backend-go/internal/models"
)

// defaultHistoryLimit caps history listings when the caller does not provide
// a limit, matching the wallet client's default page size.
const defaultHistoryLimit = 20

// walletService implements the WalletService interface.
type walletService struct {
	historyRepo db.HistoryRepository
}

// NewWalletService creates a new WalletService instance.
func NewWalletService(historyRepo db.HistoryRepository) WalletService {
	return &walletService{historyRepo: historyRepo}
}

// Balance returns the user's balance record. A user who has never earned or
// spent points has no record yet; that reads as a zero balance, not an error.
func (s *walletService) Balance(ctx context.Context, userID string) (*models.UserPoints, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	up, err := s.historyRepo.Balance(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return &models.UserPoints{UserID: userID, Balance: 0}, nil
		}
		return nil, fmt.Errorf("failed to read balance for '%s': %w", userID, err)
	}
	return up, nil
}

// Redemptions lists the user's redemption history, newest first.
func (s *walletService) Redemptions(ctx context.Context, userID string, max int) ([]*models.Redemption, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	entries, err := s.historyRepo.Redemptions(ctx, userID, clampLimit(max))
	if err != nil {
		return nil, fmt.Errorf("failed to list redemptions for '%s': %w", userID, err)
	}
	return entries, nil
}

// Purchases lists the user's purchase history, newest first.
func (s *walletService) Purchases(ctx context.Context, userID string, max int) ([]*models.Purchase, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	entries, err := s.historyRepo.Purchases(ctx, userID, clampLimit(max))
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases for '%s': %w", userID, err)
	}
	return entries, nil
}

// AdminGrants lists manual awards and adjustments made to the user's balance,
// newest first.
func (s *walletService) AdminGrants(ctx context.Context, userID string, max int) ([]*models.AdminGrant, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	entries, err := s.historyRepo.AdminGrants(ctx, userID, clampLimit(max))
	if err != nil {
		return nil, fmt.Errorf("failed to list admin grants for '%s': %w", userID, err)
	}
	return entries, nil
}

func clampLimit(max int) int {
	if max <= 0 || max > 100 {
		return defaultHistoryLimit
	}
	return max
}
