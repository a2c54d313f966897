package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wallet-backend-go/internal/db"
	"wallet-backend-go/internal/models"
	"wallet-backend-go/pkg/events"
)

// ledgerService implements the LedgerService interface. Every operation runs
// as one store transaction scoped to exactly the records it touches, with all
// reads issued before the first write. Validation failures abort the
// transaction, so a failed operation has zero side effects; conflict retries
// are handled inside the store and never surface here.
type ledgerService struct {
	store     db.LedgerStore
	publisher events.Publisher
	logger    *zap.Logger
}

// NewLedgerService creates a new LedgerService instance. The publisher may be
// a NopPublisher when no message queue is configured.
func NewLedgerService(store db.LedgerStore, publisher events.Publisher, logger *zap.Logger) LedgerService {
	if publisher == nil {
		publisher = events.NewNopPublisher()
	}
	return &ledgerService{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// PreviewCode resolves and reads a code without mutating anything. The
// returned ID is the code string the user entered, preserving the client UX
// even when the backing document ID is random.
func (s *ledgerService) PreviewCode(ctx context.Context, code string) (*models.CodeInfo, error) {
	codeID := strings.TrimSpace(code)
	if codeID == "" {
		return nil, ErrEmptyCode
	}

	ref, err := s.resolveCode(ctx, codeID)
	if err != nil {
		return nil, err
	}
	pc, err := s.store.GetCode(ctx, ref)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, fmt.Errorf("failed to read code '%s': %w", codeID, err)
	}

	return &models.CodeInfo{
		ID:        codeID,
		Amount:    pc.Amount,
		Used:      pc.Used,
		Active:    !pc.Inactive(),
		MultiUse:  pc.MultiUse,
		ExpiresAt: pc.ExpiresAt,
		Expired:   pc.ExpiredAt(time.Now().UTC()),
	}, nil
}

// Redeem redeems a code for the user, atomically marking the code used (or
// recording the per-user use for multi-use codes) and crediting the balance,
// with one redemption audit entry keyed by the entered code.
//
// Concurrent redeems of the same single-use code serialize on the code
// document: exactly one transaction commits, the rest fail ErrCodeAlreadyUsed.
func (s *ledgerService) Redeem(ctx context.Context, userID, code, email string) (*RedeemResult, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	codeID := strings.TrimSpace(code)
	if codeID == "" {
		return nil, ErrEmptyCode
	}

	ref, err := s.resolveCode(ctx, codeID)
	if err != nil {
		return nil, err
	}
	safeEmail := normalizeEmail(email)

	var amount int64
	err = s.store.RunLedgerTx(ctx, func(tx db.LedgerTx) error {
		pc, err := tx.GetCode(ref)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return ErrCodeNotFound
			}
			return err
		}
		balance, err := readBalance(tx, userID)
		if err != nil {
			return err
		}

		if !pc.MultiUse && (pc.Used || pc.Inactive()) {
			return ErrCodeAlreadyUsed
		}
		if pc.MultiUse && pc.Inactive() {
			return ErrCodeInactive
		}
		amount = pc.Amount
		if amount <= 0 {
			return ErrInvalidCodeAmount
		}
		if pc.ExpiredAt(time.Now().UTC()) {
			return ErrCodeExpired
		}
		if pc.MultiUse {
			used, err := tx.GetCodeUse(ref, userID)
			if err != nil {
				return err
			}
			if used {
				return ErrAlreadyRedeemed
			}
		}

		// All reads done; writes from here on.
		if pc.MultiUse {
			if err := tx.RecordCodeUse(ref, userID, safeEmail); err != nil {
				return err
			}
		} else {
			if err := tx.MarkCodeUsed(ref, userID, safeEmail); err != nil {
				return err
			}
		}

		if balance == nil {
			if err := tx.CreateBalance(userID, safeEmail, amount); err != nil {
				return err
			}
		} else {
			if err := tx.AddToBalance(userID, safeEmail, amount); err != nil {
				return err
			}
		}

		return tx.AppendRedemption(userID, codeID, &models.Redemption{
			Code:      codeID,
			Amount:    amount,
			UserEmail: safeEmail,
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(events.LedgerEvent{
		Type:   events.TypeRedemption,
		UserID: userID,
		Email:  safeEmail,
		Amount: amount,
		Code:   codeID,
	})
	return &RedeemResult{Amount: amount}, nil
}

// Purchase spends points on a product, atomically decrementing stock and
// balance and appending one purchase audit entry under receiptID. The receipt
// ID is the idempotency key: re-submitting a committed receipt fails with
// ErrDuplicateReceipt instead of double-applying. Concurrent purchases of the
// same product serialize on the product document, so stock can never be
// collectively oversold.
func (s *ledgerService) Purchase(ctx context.Context, userID, productID string, quantity int64, email, receiptID string) (*PurchaseResult, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	if productID == "" {
		return nil, ErrInvalidProduct
	}
	if quantity < 1 {
		quantity = 1
	}
	if receiptID == "" {
		receiptID = uuid.NewString()
	}
	safeEmail := normalizeEmail(email)

	var total int64
	err := s.store.RunLedgerTx(ctx, func(tx db.LedgerTx) error {
		product, err := tx.GetProduct(productID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		balance, err := readBalance(tx, userID)
		if err != nil {
			return err
		}
		duplicate, err := tx.HasPurchase(userID, receiptID)
		if err != nil {
			return err
		}

		if product.Inactive() {
			return ErrProductInactive
		}
		if product.Price <= 0 {
			return ErrInvalidPrice
		}
		if product.Stock < quantity {
			return ErrInsufficientStock
		}
		total = product.Price * quantity

		var current int64
		if balance != nil {
			current = balance.Balance
		}
		if current < total {
			return ErrInsufficientPoints
		}
		if duplicate {
			return ErrDuplicateReceipt
		}

		// All reads done; writes from here on.
		if err := tx.DecrementStock(productID, quantity); err != nil {
			return err
		}
		if balance == nil {
			if err := tx.CreateBalance(userID, safeEmail, current-total); err != nil {
				return err
			}
		} else {
			if err := tx.AddToBalance(userID, safeEmail, -total); err != nil {
				return err
			}
		}

		return tx.AppendPurchase(userID, receiptID, &models.Purchase{
			ReceiptID: receiptID,
			ProductID: productID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  quantity,
			Total:     total,
			ImageURL:  product.ImageURL,
			UserEmail: safeEmail,
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(events.LedgerEvent{
		Type:      events.TypePurchase,
		UserID:    userID,
		Email:     safeEmail,
		Amount:    -total,
		ProductID: productID,
		ReceiptID: receiptID,
	})
	return &PurchaseResult{Total: total, ReceiptID: receiptID}, nil
}

// Grant awards points to the user whose balance record is indexed under
// email. The caller is responsible for admin authorization.
func (s *ledgerService) Grant(ctx context.Context, email string, amount int64, grantedBy, note string) (*GrantResult, error) {
	target := normalizeEmail(email)
	if target == "" {
		return nil, ErrEmailRequired
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	up, err := s.store.FindBalanceByEmail(ctx, target)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s' has not signed in yet", ErrUserNotFound, target)
		}
		return nil, fmt.Errorf("failed to find balance record by email: %w", err)
	}
	userID := up.UserID

	err = s.store.RunLedgerTx(ctx, func(tx db.LedgerTx) error {
		balance, err := readBalance(tx, userID)
		if err != nil {
			return err
		}

		if balance == nil {
			if err := tx.CreateBalance(userID, target, amount); err != nil {
				return err
			}
		} else {
			if err := tx.AddToBalance(userID, target, amount); err != nil {
				return err
			}
		}

		return tx.AppendGrant(userID, &models.AdminGrant{
			Amount:    amount,
			Email:     target,
			Note:      note,
			GrantedBy: grantedBy,
			Type:      models.GrantTypeManualAward,
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(events.LedgerEvent{
		Type:   events.TypeGrant,
		UserID: userID,
		Email:  target,
		Amount: amount,
	})
	return &GrantResult{Email: target, Amount: amount, UserID: userID}, nil
}

// Adjust applies a signed correction to the balance indexed under email,
// refusing any delta that would take it below zero. The caller is responsible
// for admin authorization.
func (s *ledgerService) Adjust(ctx context.Context, email string, delta int64, grantedBy, note string) (*AdjustResult, error) {
	target := normalizeEmail(email)
	if target == "" {
		return nil, ErrEmailRequired
	}
	if delta == 0 {
		return nil, ErrInvalidAmount
	}

	up, err := s.store.FindBalanceByEmail(ctx, target)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s' has not signed in yet", ErrUserNotFound, target)
		}
		return nil, fmt.Errorf("failed to find balance record by email: %w", err)
	}
	userID := up.UserID

	err = s.store.RunLedgerTx(ctx, func(tx db.LedgerTx) error {
		balance, err := readBalance(tx, userID)
		if err != nil {
			return err
		}

		var current int64
		if balance != nil {
			current = balance.Balance
		}
		nextBalance := current + delta
		if nextBalance < 0 {
			return ErrWouldGoNegative
		}

		if balance == nil {
			if err := tx.CreateBalance(userID, target, nextBalance); err != nil {
				return err
			}
		} else {
			if err := tx.SetBalance(userID, target, nextBalance); err != nil {
				return err
			}
		}

		return tx.AppendGrant(userID, &models.AdminGrant{
			Amount:       delta,
			BalanceAfter: &nextBalance,
			Email:        target,
			Note:         note,
			GrantedBy:    grantedBy,
			Type:         models.GrantTypeManualAdjust,
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(events.LedgerEvent{
		Type:   events.TypeAdjust,
		UserID: userID,
		Email:  target,
		Amount: delta,
	})
	return &AdjustResult{Email: target, Delta: delta, UserID: userID}, nil
}

func (s *ledgerService) resolveCode(ctx context.Context, codeID string) (db.CodeRef, error) {
	ref, err := s.store.ResolveCode(ctx, codeID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return db.CodeRef{}, ErrCodeNotFound
		}
		return db.CodeRef{}, fmt.Errorf("failed to resolve code '%s': %w", codeID, err)
	}
	return ref, nil
}

// publish emits a ledger event after a successful commit. Publishing is
// best-effort: the audit trail is the source of truth, so failures are
// logged and swallowed.
func (s *ledgerService) publish(event events.LedgerEvent) {
	event.OccurredAt = time.Now().UTC()
	if err := s.publisher.Publish(event); err != nil && s.logger != nil {
		s.logger.Warn("Failed to publish ledger event",
			zap.String("type", event.Type),
			zap.String("userID", event.UserID),
			zap.Error(err),
		)
	}
}

// readBalance reads the balance record inside a transaction, translating an
// absent record into nil so callers can lazily create it.
func readBalance(tx db.LedgerTx, userID string) (*models.UserPoints, error) {
	balance, err := tx.GetBalance(userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return balance, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
