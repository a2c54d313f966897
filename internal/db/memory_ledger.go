package db

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"wallet-backend-go/internal/models"
)

// MemoryLedger is an in-memory LedgerStore used by tests and local runs
// without Firestore credentials. Transactions take the store mutex for their
// whole duration, which serializes them; writes are buffered and applied only
// if the callback succeeds, so an aborted transaction has zero side effects.
// That reproduces the observable contract of the Firestore implementation.
type MemoryLedger struct {
	mu          sync.Mutex
	codes       map[string]*models.PointCode          // by document ID
	codeUses    map[string]map[string]*models.CodeUse // document ID -> userID
	balances    map[string]*models.UserPoints         // by userID
	products    map[string]*models.Product            // by product ID
	redemptions map[string]map[string]*models.Redemption
	purchases   map[string]map[string]*models.Purchase
	grants      map[string][]*models.AdminGrant
}

// NewMemoryLedger creates an empty MemoryLedger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		codes:       make(map[string]*models.PointCode),
		codeUses:    make(map[string]map[string]*models.CodeUse),
		balances:    make(map[string]*models.UserPoints),
		products:    make(map[string]*models.Product),
		redemptions: make(map[string]map[string]*models.Redemption),
		purchases:   make(map[string]map[string]*models.Purchase),
		grants:      make(map[string][]*models.AdminGrant),
	}
}

// ResolveCode mirrors the Firestore lookup priority: document ID first, then
// the `code` field, then the `id` field.
func (m *MemoryLedger) ResolveCode(_ context.Context, code string) (CodeRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.codes[code]; ok {
		return CodeRef{DocID: code}, nil
	}
	for _, field := range []func(*models.PointCode) string{
		func(c *models.PointCode) string { return c.Code },
		func(c *models.PointCode) string { return c.AltID },
	} {
		for _, id := range m.sortedCodeIDs() {
			if field(m.codes[id]) == code {
				return CodeRef{DocID: id}, nil
			}
		}
	}
	return CodeRef{}, fmt.Errorf("code '%s': %w", code, ErrNotFound)
}

// GetCode reads a resolved code outside of a transaction.
func (m *MemoryLedger) GetCode(_ context.Context, ref CodeRef) (*models.PointCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	code, ok := m.codes[ref.DocID]
	if !ok {
		return nil, fmt.Errorf("code document '%s': %w", ref.DocID, ErrNotFound)
	}
	return copyCode(code), nil
}

// FindBalanceByEmail returns the first balance record carrying the email,
// lowest user ID first for determinism.
func (m *MemoryLedger) FindBalanceByEmail(_ context.Context, email string) (*models.UserPoints, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.balances))
	for id := range m.balances {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if m.balances[id].Email == email {
			return copyBalance(m.balances[id]), nil
		}
	}
	return nil, fmt.Errorf("balance record for email '%s': %w", email, ErrNotFound)
}

// RunLedgerTx executes fn under the store mutex with buffered writes.
func (m *MemoryLedger) RunLedgerTx(_ context.Context, fn func(tx LedgerTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memoryLedgerTx{store: m}
	if err := fn(tx); err != nil {
		return err
	}
	for _, apply := range tx.writes {
		apply()
	}
	return nil
}

func (m *MemoryLedger) sortedCodeIDs() []string {
	ids := make([]string, 0, len(m.codes))
	for id := range m.codes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// memoryLedgerTx buffers writes until commit. Reads see committed state,
// which is a consistent snapshot because the store mutex is held throughout.
type memoryLedgerTx struct {
	store  *MemoryLedger
	writes []func()
}

func (t *memoryLedgerTx) GetCode(ref CodeRef) (*models.PointCode, error) {
	code, ok := t.store.codes[ref.DocID]
	if !ok {
		return nil, fmt.Errorf("code document '%s': %w", ref.DocID, ErrNotFound)
	}
	return copyCode(code), nil
}

func (t *memoryLedgerTx) GetCodeUse(ref CodeRef, userID string) (bool, error) {
	uses, ok := t.store.codeUses[ref.DocID]
	if !ok {
		return false, nil
	}
	_, used := uses[userID]
	return used, nil
}

func (t *memoryLedgerTx) GetBalance(userID string) (*models.UserPoints, error) {
	up, ok := t.store.balances[userID]
	if !ok {
		return nil, fmt.Errorf("balance record '%s': %w", userID, ErrNotFound)
	}
	return copyBalance(up), nil
}

func (t *memoryLedgerTx) GetProduct(productID string) (*models.Product, error) {
	p, ok := t.store.products[productID]
	if !ok {
		return nil, fmt.Errorf("product '%s': %w", productID, ErrNotFound)
	}
	return copyProduct(p), nil
}

func (t *memoryLedgerTx) HasPurchase(userID, receiptID string) (bool, error) {
	purchases, ok := t.store.purchases[userID]
	if !ok {
		return false, nil
	}
	_, exists := purchases[receiptID]
	return exists, nil
}

func (t *memoryLedgerTx) MarkCodeUsed(ref CodeRef, userID, email string) error {
	t.writes = append(t.writes, func() {
		code, ok := t.store.codes[ref.DocID]
		if !ok {
			return
		}
		now := time.Now().UTC()
		inactive := false
		code.Used = true
		code.Active = &inactive
		code.UsedBy = userID
		code.UsedAt = &now
		code.UserEmail = email
	})
	return nil
}

func (t *memoryLedgerTx) RecordCodeUse(ref CodeRef, userID, email string) error {
	t.writes = append(t.writes, func() {
		now := time.Now().UTC()
		if t.store.codeUses[ref.DocID] == nil {
			t.store.codeUses[ref.DocID] = make(map[string]*models.CodeUse)
		}
		t.store.codeUses[ref.DocID][userID] = &models.CodeUse{UID: userID, UsedAt: now, UserEmail: email}
		if code, ok := t.store.codes[ref.DocID]; ok {
			code.RedeemedCount++
			code.LastUsedAt = &now
		}
	})
	return nil
}

func (t *memoryLedgerTx) CreateBalance(userID, email string, balance int64) error {
	t.writes = append(t.writes, func() {
		t.store.balances[userID] = &models.UserPoints{
			UserID:    userID,
			Email:     email,
			Balance:   balance,
			UpdatedAt: time.Now().UTC(),
		}
	})
	return nil
}

func (t *memoryLedgerTx) AddToBalance(userID, email string, delta int64) error {
	t.writes = append(t.writes, func() {
		if up, ok := t.store.balances[userID]; ok {
			up.Balance += delta
			up.Email = email
			up.UpdatedAt = time.Now().UTC()
		}
	})
	return nil
}

func (t *memoryLedgerTx) SetBalance(userID, email string, balance int64) error {
	t.writes = append(t.writes, func() {
		if up, ok := t.store.balances[userID]; ok {
			up.Balance = balance
			up.Email = email
			up.UpdatedAt = time.Now().UTC()
		}
	})
	return nil
}

func (t *memoryLedgerTx) DecrementStock(productID string, quantity int64) error {
	t.writes = append(t.writes, func() {
		if p, ok := t.store.products[productID]; ok {
			now := time.Now().UTC()
			p.Stock -= quantity
			p.LastPurchasedAt = &now
		}
	})
	return nil
}

func (t *memoryLedgerTx) AppendRedemption(userID, codeID string, entry *models.Redemption) error {
	e := *entry
	t.writes = append(t.writes, func() {
		e.ID = codeID
		e.RedeemedAt = time.Now().UTC()
		if t.store.redemptions[userID] == nil {
			t.store.redemptions[userID] = make(map[string]*models.Redemption)
		}
		t.store.redemptions[userID][codeID] = &e
	})
	return nil
}

func (t *memoryLedgerTx) AppendPurchase(userID, receiptID string, entry *models.Purchase) error {
	e := *entry
	t.writes = append(t.writes, func() {
		e.ID = receiptID
		e.PurchasedAt = time.Now().UTC()
		if t.store.purchases[userID] == nil {
			t.store.purchases[userID] = make(map[string]*models.Purchase)
		}
		t.store.purchases[userID][receiptID] = &e
	})
	return nil
}

func (t *memoryLedgerTx) AppendGrant(userID string, entry *models.AdminGrant) error {
	e := *entry
	t.writes = append(t.writes, func() {
		e.GrantedAt = time.Now().UTC()
		t.store.grants[userID] = append(t.store.grants[userID], &e)
	})
	return nil
}

// --- Seeding and inspection helpers ---

// SeedCode stores a code under docID.
func (m *MemoryLedger) SeedCode(docID string, code *models.PointCode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *code
	c.DocID = docID
	m.codes[docID] = &c
}

// SeedProduct stores a product under productID.
func (m *MemoryLedger) SeedProduct(productID string, product *models.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := *product
	p.ID = productID
	m.products[productID] = &p
}

// SeedBalance stores a balance record for userID.
func (m *MemoryLedger) SeedBalance(userID, email string, balance int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[userID] = &models.UserPoints{
		UserID:    userID,
		Email:     email,
		Balance:   balance,
		UpdatedAt: time.Now().UTC(),
	}
}

// Balance returns the committed balance record for userID, or nil.
func (m *MemoryLedger) Balance(userID string) *models.UserPoints {
	m.mu.Lock()
	defer m.mu.Unlock()
	up, ok := m.balances[userID]
	if !ok {
		return nil
	}
	return copyBalance(up)
}

// Code returns the committed code stored under docID, or nil.
func (m *MemoryLedger) Code(docID string) *models.PointCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	code, ok := m.codes[docID]
	if !ok {
		return nil
	}
	return copyCode(code)
}

// Product returns the committed product stored under productID, or nil.
func (m *MemoryLedger) Product(productID string) *models.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok {
		return nil
	}
	return copyProduct(p)
}

// Redemptions returns the committed redemption entries for userID.
func (m *MemoryLedger) Redemptions(userID string) []*models.Redemption {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Redemption
	for _, e := range m.redemptions[userID] {
		entry := *e
		out = append(out, &entry)
	}
	return out
}

// Purchases returns the committed purchase entries for userID.
func (m *MemoryLedger) Purchases(userID string) []*models.Purchase {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Purchase
	for _, e := range m.purchases[userID] {
		entry := *e
		out = append(out, &entry)
	}
	return out
}

// Grants returns the committed admin grant entries for userID, in order.
func (m *MemoryLedger) Grants(userID string) []*models.AdminGrant {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.AdminGrant
	for _, e := range m.grants[userID] {
		entry := *e
		out = append(out, &entry)
	}
	return out
}

func copyCode(c *models.PointCode) *models.PointCode {
	out := *c
	if c.Active != nil {
		v := *c.Active
		out.Active = &v
	}
	if c.ExpiresAt != nil {
		v := *c.ExpiresAt
		out.ExpiresAt = &v
	}
	return &out
}

func copyBalance(up *models.UserPoints) *models.UserPoints {
	out := *up
	return &out
}

func copyProduct(p *models.Product) *models.Product {
	out := *p
	if p.Active != nil {
		v := *p.Active
		out.Active = &v
	}
	if p.Tags != nil {
		out.Tags = append([]string(nil), p.Tags...)
	}
	return &out
}
