package core_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wallet-backend-go/internal/core"
	"wallet-backend-go/internal/db"
	"wallet-backend-go/internal/models"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestLedger(t *testing.T) (core.LedgerService, *db.MemoryLedger) {
	t.Helper()
	store := db.NewMemoryLedger()
	service := core.NewLedgerService(store, nil, zap.NewNop())
	return service, store
}

func boolPtr(b bool) *bool { return &b }

func timePtr(t time.Time) *time.Time { return &t }

func singleUseCode(amount int64) *models.PointCode {
	return &models.PointCode{Amount: amount}
}

func multiUseCode(amount int64) *models.PointCode {
	return &models.PointCode{Amount: amount, MultiUse: true}
}

func activeProduct(name string, price, stock int64) *models.Product {
	return &models.Product{Name: name, Price: price, Stock: stock}
}

// =============================================================================
// CODE REDEMPTION TESTS
// =============================================================================

func TestRedeem_FreshCode_CreditsBalance(t *testing.T) {
	// GIVEN: An unused 50-point code and a user with no balance record
	// WHEN: The user redeems it
	// THEN: Balance becomes 50, the code is consumed, and one redemption
	//       entry is recorded under the entered code

	service, store := newTestLedger(t)
	store.SeedCode("WELCOME50", singleUseCode(50))

	result, err := service.Redeem(context.Background(), "user-1", "WELCOME50", "User-1@Example.com")

	require.NoError(t, err)
	assert.Equal(t, int64(50), result.Amount)

	balance := store.Balance("user-1")
	require.NotNil(t, balance)
	assert.Equal(t, int64(50), balance.Balance)
	assert.Equal(t, "user-1@example.com", balance.Email, "email should be normalized")

	code := store.Code("WELCOME50")
	require.NotNil(t, code)
	assert.True(t, code.Used)
	require.NotNil(t, code.Active)
	assert.False(t, *code.Active)
	assert.Equal(t, "user-1", code.UsedBy)

	redemptions := store.Redemptions("user-1")
	require.Len(t, redemptions, 1)
	assert.Equal(t, "WELCOME50", redemptions[0].Code)
	assert.Equal(t, int64(50), redemptions[0].Amount)
}

func TestRedeem_ExistingBalance_Accumulates(t *testing.T) {
	// GIVEN: A user with 30 points
	// WHEN: They redeem a 50-point code
	// THEN: The balance is 80

	service, store := newTestLedger(t)
	store.SeedBalance("user-1", "user-1@example.com", 30)
	store.SeedCode("BONUS", singleUseCode(50))

	_, err := service.Redeem(context.Background(), "user-1", "BONUS", "user-1@example.com")

	require.NoError(t, err)
	assert.Equal(t, int64(80), store.Balance("user-1").Balance)
}

func TestRedeem_UsedCode_Rejected(t *testing.T) {
	// GIVEN: A single-use code already consumed by someone else
	// WHEN: A second user tries to redeem it
	// THEN: The redemption fails and their balance is untouched

	service, store := newTestLedger(t)
	store.SeedCode("TAKEN", &models.PointCode{Amount: 50, Used: true})

	_, err := service.Redeem(context.Background(), "user-2", "TAKEN", "user-2@example.com")

	assert.ErrorIs(t, err, core.ErrCodeAlreadyUsed)
	assert.Nil(t, store.Balance("user-2"))
	assert.Empty(t, store.Redemptions("user-2"))
}

func TestRedeem_DeactivatedSingleUseCode_Rejected(t *testing.T) {
	// GIVEN: A single-use code with active explicitly false
	// WHEN: A user redeems it
	// THEN: It is treated the same as a used code

	service, store := newTestLedger(t)
	store.SeedCode("DISABLED", &models.PointCode{Amount: 50, Active: boolPtr(false)})

	_, err := service.Redeem(context.Background(), "user-1", "DISABLED", "")

	assert.ErrorIs(t, err, core.ErrCodeAlreadyUsed)
}

func TestRedeem_DeactivatedMultiUseCode_Rejected(t *testing.T) {
	service, store := newTestLedger(t)
	store.SeedCode("EVENT", &models.PointCode{Amount: 10, MultiUse: true, Active: boolPtr(false)})

	_, err := service.Redeem(context.Background(), "user-1", "EVENT", "")

	assert.ErrorIs(t, err, core.ErrCodeInactive)
}

func TestRedeem_ExpiredCode_Rejected(t *testing.T) {
	// GIVEN: A code whose expiresAt is in the past
	// WHEN: A user redeems it
	// THEN: The redemption fails with the expiry error, not "already used"

	service, store := newTestLedger(t)
	store.SeedCode("OLD", &models.PointCode{
		Amount:    50,
		ExpiresAt: timePtr(time.Now().UTC().Add(-time.Hour)),
	})

	_, err := service.Redeem(context.Background(), "user-1", "OLD", "")

	assert.ErrorIs(t, err, core.ErrCodeExpired)
	code := store.Code("OLD")
	assert.False(t, code.Used, "expired code must not be consumed")
}

func TestRedeem_FutureExpiry_Succeeds(t *testing.T) {
	service, store := newTestLedger(t)
	store.SeedCode("FRESH", &models.PointCode{
		Amount:    25,
		ExpiresAt: timePtr(time.Now().UTC().Add(time.Hour)),
	})

	result, err := service.Redeem(context.Background(), "user-1", "FRESH", "")

	require.NoError(t, err)
	assert.Equal(t, int64(25), result.Amount)
}

func TestRedeem_UnknownCode_NotFound(t *testing.T) {
	service, _ := newTestLedger(t)

	_, err := service.Redeem(context.Background(), "user-1", "NOPE", "")

	assert.ErrorIs(t, err, core.ErrCodeNotFound)
}

func TestRedeem_EmptyCode_Rejected(t *testing.T) {
	service, _ := newTestLedger(t)

	_, err := service.Redeem(context.Background(), "user-1", "   ", "")

	assert.ErrorIs(t, err, core.ErrEmptyCode)
}

func TestRedeem_MissingUser_Rejected(t *testing.T) {
	service, store := newTestLedger(t)
	store.SeedCode("CODE", singleUseCode(10))

	_, err := service.Redeem(context.Background(), "", "CODE", "")

	assert.ErrorIs(t, err, core.ErrNotAuthenticated)
}

func TestRedeem_NonPositiveAmount_Rejected(t *testing.T) {
	// GIVEN: A malformed code document with amount 0
	// WHEN: A user redeems it
	// THEN: The redemption fails and the code stays unconsumed

	service, store := newTestLedger(t)
	store.SeedCode("ZERO", singleUseCode(0))

	_, err := service.Redeem(context.Background(), "user-1", "ZERO", "")

	assert.ErrorIs(t, err, core.ErrInvalidCodeAmount)
	assert.False(t, store.Code("ZERO").Used)
}

func TestRedeem_ResolvesByCodeField(t *testing.T) {
	// GIVEN: A code document with a random ID carrying the code in its
	//        `code` field (externally provisioned dataset)
	// WHEN: The user enters the code string
	// THEN: Resolution finds the backing document and the audit entry is
	//       keyed by the entered string

	service, store := newTestLedger(t)
	store.SeedCode("rowy-8f3a", &models.PointCode{Code: "SUMMER25", Amount: 25})

	result, err := service.Redeem(context.Background(), "user-1", "SUMMER25", "")

	require.NoError(t, err)
	assert.Equal(t, int64(25), result.Amount)
	assert.True(t, store.Code("rowy-8f3a").Used)

	redemptions := store.Redemptions("user-1")
	require.Len(t, redemptions, 1)
	assert.Equal(t, "SUMMER25", redemptions[0].ID)
}

func TestRedeem_ResolvesByAltIDField(t *testing.T) {
	service, store := newTestLedger(t)
	store.SeedCode("rowy-77b1", &models.PointCode{AltID: "LEGACY10", Amount: 10})

	_, err := service.Redeem(context.Background(), "user-1", "LEGACY10", "")

	require.NoError(t, err)
	assert.True(t, store.Code("rowy-77b1").Used)
}

// =============================================================================
// MULTI-USE CODE TESTS
// =============================================================================

func TestRedeem_MultiUse_OncePerUser(t *testing.T) {
	// GIVEN: A multi-use 10-point code
	// WHEN: User A redeems, A retries, then user B redeems
	// THEN: A's retry is rejected, both users end with 10 points, and the
	//       code records two uses

	service, store := newTestLedger(t)
	store.SeedCode("EVENT10", multiUseCode(10))
	ctx := context.Background()

	_, err := service.Redeem(ctx, "user-a", "EVENT10", "a@example.com")
	require.NoError(t, err)

	_, err = service.Redeem(ctx, "user-a", "EVENT10", "a@example.com")
	assert.ErrorIs(t, err, core.ErrAlreadyRedeemed)

	_, err = service.Redeem(ctx, "user-b", "EVENT10", "b@example.com")
	require.NoError(t, err)

	assert.Equal(t, int64(10), store.Balance("user-a").Balance, "retry must not double-credit")
	assert.Equal(t, int64(10), store.Balance("user-b").Balance)

	code := store.Code("EVENT10")
	assert.Equal(t, int64(2), code.RedeemedCount)
	assert.False(t, code.Used, "multi-use codes are never globally consumed")
}

// =============================================================================
// CODE PREVIEW TESTS
// =============================================================================

func TestPreviewCode_ReportsStatusWithoutMutation(t *testing.T) {
	service, store := newTestLedger(t)
	store.SeedCode("PEEK", singleUseCode(75))

	info, err := service.PreviewCode(context.Background(), "PEEK")

	require.NoError(t, err)
	assert.Equal(t, "PEEK", info.ID)
	assert.Equal(t, int64(75), info.Amount)
	assert.False(t, info.Used)
	assert.True(t, info.Active)
	assert.False(t, info.Expired)

	assert.False(t, store.Code("PEEK").Used, "preview must not consume the code")
}

func TestPreviewCode_ExpiredCode(t *testing.T) {
	service, store := newTestLedger(t)
	store.SeedCode("STALE", &models.PointCode{
		Amount:    40,
		ExpiresAt: timePtr(time.Now().UTC().Add(-time.Minute)),
	})

	info, err := service.PreviewCode(context.Background(), "STALE")

	require.NoError(t, err)
	assert.True(t, info.Expired)
	assert.False(t, info.Used)
}

func TestPreviewCode_Unknown_NotFound(t *testing.T) {
	service, _ := newTestLedger(t)

	_, err := service.PreviewCode(context.Background(), "MISSING")

	assert.ErrorIs(t, err, core.ErrCodeNotFound)
}

// =============================================================================
// PURCHASE TESTS
// =============================================================================

func TestPurchase_DecrementsStockAndBalance(t *testing.T) {
	// GIVEN: A user with 100 points and a 40-point product with 5 in stock
	// WHEN: They buy one
	// THEN: Balance 60, stock 4, one purchase entry under the receipt

	service, store := newTestLedger(t)
	store.SeedBalance("user-1", "user-1@example.com", 100)
	store.SeedProduct("mug", activeProduct("Mug", 40, 5))

	result, err := service.Purchase(context.Background(), "user-1", "mug", 1, "user-1@example.com", "receipt-1")

	require.NoError(t, err)
	assert.Equal(t, int64(40), result.Total)
	assert.Equal(t, "receipt-1", result.ReceiptID)

	assert.Equal(t, int64(60), store.Balance("user-1").Balance)
	assert.Equal(t, int64(4), store.Product("mug").Stock)

	purchases := store.Purchases("user-1")
	require.Len(t, purchases, 1)
	assert.Equal(t, "receipt-1", purchases[0].ReceiptID)
	assert.Equal(t, int64(40), purchases[0].Total)
	assert.Equal(t, int64(1), purchases[0].Quantity)
}

func TestPurchase_QuantityMultipliesTotal(t *testing.T) {
	service, store := newTestLedger(t)
	store.SeedBalance("user-1", "user-1@example.com", 100)
	store.SeedProduct("sticker", activeProduct("Sticker", 10, 10))

	result, err := service.Purchase(context.Background(), "user-1", "sticker", 3, "user-1@example.com", "receipt-3")

	require.NoError(t, err)
	assert.Equal(t, int64(30), result.Total)
	assert.Equal(t, int64(70), store.Balance("user-1").Balance)
	assert.Equal(t, int64(7), store.Product("sticker").Stock)
}

func TestPurchase_GeneratesReceiptWhenAbsent(t *testing.T) {
	service, store := newTestLedger(t)
	store.SeedBalance("user-1", "user-1@example.com", 100)
	store.SeedProduct("mug", activeProduct("Mug", 40, 5))

	result, err := service.Purchase(context.Background(), "user-1", "mug", 1, "user-1@example.com", "")

	require.NoError(t, err)
	assert.NotEmpty(t, result.ReceiptID)
}

func TestPurchase_InsufficientStock_NothingChanges(t *testing.T) {
	// GIVEN: A product with 1 in stock
	// WHEN: A user tries to buy 2
	// THEN: The purchase fails and stock and balance are untouched

	service, store := newTestLedger(t)
	store.SeedBalance("user-1", "user-1@example.com", 100)
	store.SeedProduct("mug", activeProduct("Mug", 40, 1))

	_, err := service.Purchase(context.Background(), "user-1", "mug", 2, "user-1@example.com", "receipt-1")

	assert.ErrorIs(t, err, core.ErrInsufficientStock)
	assert.Equal(t, int64(100), store.Balance("user-1").Balance)
	assert.Equal(t, int64(1), store.Product("mug").Stock)
	assert.Empty(t, store.Purchases("user-1"))
}

func TestPurchase_InsufficientPoints_NothingChanges(t *testing.T) {
	service, store := newTestLedger(t)
	store.SeedBalance("user-1", "user-1@example.com", 20)
	store.SeedProduct("mug", activeProduct("Mug", 40, 5))

	_, err := service.Purchase(context.Background(), "user-1", "mug", 1, "user-1@example.com", "receipt-1")

	assert.ErrorIs(t, err, core.ErrInsufficientPoints)
	assert.Equal(t, int64(20), store.Balance("user-1").Balance)
	assert.Equal(t, int64(5), store.Product("mug").Stock)
}

func TestPurchase_NoBalanceRecord_InsufficientPoints(t *testing.T) {
	// A user who never earned points has an implicit zero balance.
	service, store := newTestLedger(t)
	store.SeedProduct("mug", activeProduct("Mug", 40, 5))

	_, err := service.Purchase(context.Background(), "user-new", "mug", 1, "new@example.com", "receipt-1")

	assert.ErrorIs(t, err, core.ErrInsufficientPoints)
}

func TestPurchase_InactiveProduct_Rejected(t *testing.T) {
	service, store := newTestLedger(t)
	store.SeedBalance("user-1", "user-1@example.com", 100)
	store.SeedProduct("retired", &models.Product{Name: "Retired", Price: 40, Stock: 5, Active: boolPtr(false)})

	_, err := service.Purchase(context.Background(), "user-1", "retired", 1, "user-1@example.com", "receipt-1")

	assert.ErrorIs(t, err, core.ErrProductInactive)
}

func TestPurchase_NonPositivePrice_Rejected(t *testing.T) {
	service, store := newTestLedger(t)
	store.SeedBalance("user-1", "user-1@example.com", 100)
	store.SeedProduct("freebie", activeProduct("Freebie", 0, 5))

	_, err := service.Purchase(context.Background(), "user-1", "freebie", 1, "user-1@example.com", "receipt-1")

	assert.ErrorIs(t, err, core.ErrInvalidPrice)
}

func TestPurchase_UnknownProduct_NotFound(t *testing.T) {
	service, store := newTestLedger(t)
	store.SeedBalance("user-1", "user-1@example.com", 100)

	_, err := service.Purchase(context.Background(), "user-1", "ghost", 1, "user-1@example.com", "receipt-1")

	assert.ErrorIs(t, err, core.ErrProductNotFound)
}

func TestPurchase_DuplicateReceipt_AppliedOnce(t *testing.T) {
	// GIVEN: A committed purchase under receipt-1
	// WHEN: The same receipt is submitted again (client retry after a
	//       dropped response)
	// THEN: The retry is rejected and the first purchase stands alone

	service, store := newTestLedger(t)
	store.SeedBalance("user-1", "user-1@example.com", 100)
	store.SeedProduct("mug", activeProduct("Mug", 40, 5))
	ctx := context.Background()

	_, err := service.Purchase(ctx, "user-1", "mug", 1, "user-1@example.com", "receipt-1")
	require.NoError(t, err)

	_, err = service.Purchase(ctx, "user-1", "mug", 1, "user-1@example.com", "receipt-1")
	assert.ErrorIs(t, err, core.ErrDuplicateReceipt)

	assert.Equal(t, int64(60), store.Balance("user-1").Balance)
	assert.Equal(t, int64(4), store.Product("mug").Stock)
	assert.Len(t, store.Purchases("user-1"), 1)
}

// =============================================================================
// ADMIN GRANT AND ADJUST TESTS
// =============================================================================

func TestGrant_CreditsBalanceByEmail(t *testing.T) {
	// GIVEN: A user whose balance record carries their email
	// WHEN: An admin grants 100 points to that email
	// THEN: The balance is credited and a manual-award entry records who
	//       granted it

	service, store := newTestLedger(t)
	store.SeedBalance("user-1", "user-1@example.com", 25)

	result, err := service.Grant(context.Background(), "User-1@Example.com ", 100, "admin@example.com", "raffle prize")

	require.NoError(t, err)
	assert.Equal(t, "user-1@example.com", result.Email)
	assert.Equal(t, "user-1", result.UserID)
	assert.Equal(t, int64(125), store.Balance("user-1").Balance)

	grants := store.Grants("user-1")
	require.Len(t, grants, 1)
	assert.Equal(t, models.GrantTypeManualAward, grants[0].Type)
	assert.Equal(t, int64(100), grants[0].Amount)
	assert.Equal(t, "admin@example.com", grants[0].GrantedBy)
	assert.Equal(t, "raffle prize", grants[0].Note)
}

func TestGrant_UnknownEmail_Rejected(t *testing.T) {
	service, _ := newTestLedger(t)

	_, err := service.Grant(context.Background(), "nobody@example.com", 100, "admin@example.com", "")

	assert.ErrorIs(t, err, core.ErrUserNotFound)
}

func TestGrant_NonPositiveAmount_Rejected(t *testing.T) {
	service, store := newTestLedger(t)
	store.SeedBalance("user-1", "user-1@example.com", 25)

	_, err := service.Grant(context.Background(), "user-1@example.com", 0, "admin@example.com", "")
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	_, err = service.Grant(context.Background(), "user-1@example.com", -5, "admin@example.com", "")
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
}

func TestAdjust_AppliesSignedDelta(t *testing.T) {
	// GIVEN: A user with 100 points
	// WHEN: An admin adjusts by -30
	// THEN: The balance is 70 and the manual-adjust entry records the
	//       resulting balance

	service, store := newTestLedger(t)
	store.SeedBalance("user-1", "user-1@example.com", 100)

	result, err := service.Adjust(context.Background(), "user-1@example.com", -30, "admin@example.com", "correction")

	require.NoError(t, err)
	assert.Equal(t, int64(-30), result.Delta)
	assert.Equal(t, int64(70), store.Balance("user-1").Balance)

	grants := store.Grants("user-1")
	require.Len(t, grants, 1)
	assert.Equal(t, models.GrantTypeManualAdjust, grants[0].Type)
	require.NotNil(t, grants[0].BalanceAfter)
	assert.Equal(t, int64(70), *grants[0].BalanceAfter)
}

func TestAdjust_WouldGoNegative_Rejected(t *testing.T) {
	service, store := newTestLedger(t)
	store.SeedBalance("user-1", "user-1@example.com", 20)

	_, err := service.Adjust(context.Background(), "user-1@example.com", -30, "admin@example.com", "")

	assert.ErrorIs(t, err, core.ErrWouldGoNegative)
	assert.Equal(t, int64(20), store.Balance("user-1").Balance)
	assert.Empty(t, store.Grants("user-1"))
}

func TestAdjust_ZeroDelta_Rejected(t *testing.T) {
	service, store := newTestLedger(t)
	store.SeedBalance("user-1", "user-1@example.com", 20)

	_, err := service.Adjust(context.Background(), "user-1@example.com", 0, "admin@example.com", "")

	assert.ErrorIs(t, err, core.ErrInvalidAmount)
}

func TestGrantThenAdjust_RoundTrip(t *testing.T) {
	// GIVEN: A fresh user with a balance record at 0
	// WHEN: An admin grants 100 then adjusts by -100
	// THEN: The balance returns to 0 with both audit entries in order

	service, store := newTestLedger(t)
	store.SeedBalance("user-1", "user-1@example.com", 0)
	ctx := context.Background()

	_, err := service.Grant(ctx, "user-1@example.com", 100, "admin@example.com", "")
	require.NoError(t, err)

	_, err = service.Adjust(ctx, "user-1@example.com", -100, "admin@example.com", "")
	require.NoError(t, err)

	assert.Equal(t, int64(0), store.Balance("user-1").Balance)

	grants := store.Grants("user-1")
	require.Len(t, grants, 2)
	assert.Equal(t, models.GrantTypeManualAward, grants[0].Type)
	assert.Equal(t, models.GrantTypeManualAdjust, grants[1].Type)
}

// =============================================================================
// CONCURRENCY TESTS
// =============================================================================

func TestRedeem_ConcurrentSingleUse_ExactlyOneWins(t *testing.T) {
	// GIVEN: One single-use 50-point code and 20 users racing for it
	// WHEN: All redeem concurrently
	// THEN: Exactly one succeeds; every loser sees "already used" and no
	//       points are credited to them

	service, store := newTestLedger(t)
	store.SeedCode("RACE50", singleUseCode(50))

	const racers = 20
	errs := make([]error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userID := "racer-" + string(rune('a'+i))
			_, errs[i] = service.Redeem(context.Background(), userID, "RACE50", "")
		}(i)
	}
	wg.Wait()

	winners := 0
	for i, err := range errs {
		if err == nil {
			winners++
			continue
		}
		assert.ErrorIs(t, err, core.ErrCodeAlreadyUsed, "racer %d", i)
	}
	assert.Equal(t, 1, winners, "exactly one racer should win the code")

	var credited int64
	for i := 0; i < racers; i++ {
		if up := store.Balance("racer-" + string(rune('a'+i))); up != nil {
			credited += up.Balance
		}
	}
	assert.Equal(t, int64(50), credited, "the code must be credited exactly once")
}

func TestPurchase_ConcurrentBuyers_NeverOversold(t *testing.T) {
	// GIVEN: A product with 3 in stock and 10 funded buyers
	// WHEN: All buy one unit concurrently
	// THEN: Exactly 3 purchases commit and stock ends at 0, never negative

	service, store := newTestLedger(t)
	store.SeedProduct("limited", activeProduct("Limited", 10, 3))

	const buyers = 10
	for i := 0; i < buyers; i++ {
		store.SeedBalance("buyer-"+string(rune('a'+i)), "", 100)
	}

	errs := make([]error, buyers)
	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userID := "buyer-" + string(rune('a'+i))
			_, errs[i] = service.Purchase(context.Background(), userID, "limited", 1, "", "")
		}(i)
	}
	wg.Wait()

	committed := 0
	for i, err := range errs {
		if err == nil {
			committed++
			continue
		}
		assert.ErrorIs(t, err, core.ErrInsufficientStock, "buyer %d", i)
	}
	assert.Equal(t, 3, committed)
	assert.Equal(t, int64(0), store.Product("limited").Stock)
}

func TestRedeem_ConcurrentMultiUseSameUser_CreditedOnce(t *testing.T) {
	// GIVEN: A multi-use code and one user firing 10 parallel redeems
	// WHEN: All run concurrently
	// THEN: The user is credited exactly once

	service, store := newTestLedger(t)
	store.SeedCode("EVENT", multiUseCode(10))

	const attempts = 10
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.Redeem(context.Background(), "user-1", "EVENT", "user-1@example.com")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, core.ErrAlreadyRedeemed)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, int64(10), store.Balance("user-1").Balance)
}
