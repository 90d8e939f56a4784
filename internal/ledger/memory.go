package ledger

import (
	"context"
	"sync"

	id "namereg/pkg/domain"
	dErrors "namereg/pkg/domain-errors"
)

// InMemory is a mutex-guarded balance ledger. Transfers are all-or-nothing:
// balances and allowances are checked before any debit.
type InMemory struct {
	mu         sync.RWMutex
	admin      id.AccountID
	balances   map[id.AccountID]uint64
	allowances map[id.AccountID]map[id.AccountID]uint64
}

// NewInMemory creates a ledger administered by admin (the only account
// allowed to mint).
func NewInMemory(admin id.AccountID) *InMemory {
	return &InMemory{
		admin:      admin,
		balances:   make(map[id.AccountID]uint64),
		allowances: make(map[id.AccountID]map[id.AccountID]uint64),
	}
}

func (l *InMemory) BalanceOf(_ context.Context, account id.AccountID) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[account]
}

func (l *InMemory) Allowance(_ context.Context, owner, spender id.AccountID) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.allowances[owner][spender]
}

func (l *InMemory) Transfer(_ context.Context, from, to id.AccountID, amount uint64) error {
	if to.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "transfer to the zero account is not allowed")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balances[from] < amount {
		return dErrors.New(dErrors.CodeResourceExhausted, "insufficient balance")
	}
	l.balances[from] -= amount
	l.balances[to] += amount
	return nil
}

func (l *InMemory) TransferFrom(_ context.Context, spender, from, to id.AccountID, amount uint64) error {
	if to.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "transfer to the zero account is not allowed")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.allowances[from][spender] < amount {
		return dErrors.New(dErrors.CodeResourceExhausted, "insufficient allowance")
	}
	if l.balances[from] < amount {
		return dErrors.New(dErrors.CodeResourceExhausted, "insufficient balance")
	}
	l.allowances[from][spender] -= amount
	l.balances[from] -= amount
	l.balances[to] += amount
	return nil
}

func (l *InMemory) Approve(_ context.Context, owner, spender id.AccountID, amount uint64) error {
	if spender.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "spender account is required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.allowances[owner] == nil {
		l.allowances[owner] = make(map[id.AccountID]uint64)
	}
	l.allowances[owner][spender] = amount
	return nil
}

func (l *InMemory) Mint(_ context.Context, caller, to id.AccountID, amount uint64) error {
	if caller != l.admin {
		return dErrors.New(dErrors.CodeForbidden, "only the ledger administrator may mint")
	}
	if to.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "mint to the zero account is not allowed")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[to] += amount
	return nil
}

func (l *InMemory) Burn(_ context.Context, caller id.AccountID, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balances[caller] < amount {
		return dErrors.New(dErrors.CodeResourceExhausted, "insufficient balance")
	}
	l.balances[caller] -= amount
	return nil
}
