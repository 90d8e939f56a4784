// Package ledger provides the transferable-balance capability the registry
// consumes for fee settlement. The registry only needs the pull/push/read
// surface; minting and burning belong to the ledger's own administration.
package ledger

import (
	"context"

	id "namereg/pkg/domain"
)

// Ledger is the balance capability consumed by the registry: check
// allowance, pull funds, push funds, read balance.
type Ledger interface {
	BalanceOf(ctx context.Context, account id.AccountID) uint64
	Allowance(ctx context.Context, owner, spender id.AccountID) uint64

	// Transfer pushes amount from the caller's own account.
	Transfer(ctx context.Context, from, to id.AccountID, amount uint64) error

	// TransferFrom pulls amount from `from` into `to` on behalf of spender,
	// consuming allowance. Fails on insufficient balance or allowance with
	// no partial movement.
	TransferFrom(ctx context.Context, spender, from, to id.AccountID, amount uint64) error

	// Approve grants spender an allowance over the owner's balance.
	Approve(ctx context.Context, owner, spender id.AccountID, amount uint64) error
}

// Issuer extends Ledger with owner-gated supply management.
type Issuer interface {
	Ledger

	// Mint credits newly issued units to an account. Gated to the ledger
	// administrator.
	Mint(ctx context.Context, caller, to id.AccountID, amount uint64) error

	// Burn destroys units from the caller's own balance.
	Burn(ctx context.Context, caller id.AccountID, amount uint64) error
}
