package core_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet-backend-go/internal/core"
	"wallet-backend-go/internal/db"
	"wallet-backend-go/internal/models"
)

// fakeHistoryRepo records the limit each listing was called with.
type fakeHistoryRepo struct {
	balances  map[string]*models.UserPoints
	lastLimit int
}

func (r *fakeHistoryRepo) Balance(_ context.Context, userID string) (*models.UserPoints, error) {
	up, ok := r.balances[userID]
	if !ok {
		return nil, fmt.Errorf("balance record '%s': %w", userID, db.ErrNotFound)
	}
	return up, nil
}

func (r *fakeHistoryRepo) Redemptions(_ context.Context, _ string, max int) ([]*models.Redemption, error) {
	r.lastLimit = max
	return []*models.Redemption{}, nil
}

func (r *fakeHistoryRepo) Purchases(_ context.Context, _ string, max int) ([]*models.Purchase, error) {
	r.lastLimit = max
	return []*models.Purchase{}, nil
}

func (r *fakeHistoryRepo) AdminGrants(_ context.Context, _ string, max int) ([]*models.AdminGrant, error) {
	r.lastLimit = max
	return []*models.AdminGrant{}, nil
}

func newTestWalletService() (core.WalletService, *fakeHistoryRepo) {
	repo := &fakeHistoryRepo{balances: make(map[string]*models.UserPoints)}
	return core.NewWalletService(repo), repo
}

func TestWalletService_Balance_AbsentRecordReadsAsZero(t *testing.T) {
	// GIVEN: A user who has never earned or spent points
	// WHEN: Reading their balance
	// THEN: They get a zero balance, not an error

	service, _ := newTestWalletService()

	up, err := service.Balance(context.Background(), "user-new")

	require.NoError(t, err)
	assert.Equal(t, "user-new", up.UserID)
	assert.Equal(t, int64(0), up.Balance)
}

func TestWalletService_Balance_ExistingRecord(t *testing.T) {
	service, repo := newTestWalletService()
	repo.balances["user-1"] = &models.UserPoints{UserID: "user-1", Balance: 80}

	up, err := service.Balance(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, int64(80), up.Balance)
}

func TestWalletService_Balance_RequiresUser(t *testing.T) {
	service, _ := newTestWalletService()

	_, err := service.Balance(context.Background(), "")

	assert.ErrorIs(t, err, core.ErrNotAuthenticated)
}

func TestWalletService_HistoryLimitClamping(t *testing.T) {
	service, repo := newTestWalletService()
	ctx := context.Background()

	_, err := service.Redemptions(ctx, "user-1", 0)
	require.NoError(t, err)
	assert.Equal(t, 20, repo.lastLimit, "missing limit falls back to the default")

	_, err = service.Purchases(ctx, "user-1", 500)
	require.NoError(t, err)
	assert.Equal(t, 20, repo.lastLimit, "oversized limit falls back to the default")

	_, err = service.AdminGrants(ctx, "user-1", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, repo.lastLimit)
}
