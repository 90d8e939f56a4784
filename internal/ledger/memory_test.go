package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "namereg/pkg/domain-errors"
)

type LedgerSuite struct {
	suite.Suite
	ledger *InMemory
	ctx    context.Context
}

func (s *LedgerSuite) SetupTest() {
	s.ledger = NewInMemory("mint-admin")
	s.ctx = context.Background()
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

func (s *LedgerSuite) TestMintIsAdminGated() {
	s.Require().NoError(s.ledger.Mint(s.ctx, "mint-admin", "acct-a", 100))
	s.Equal(uint64(100), s.ledger.BalanceOf(s.ctx, "acct-a"))

	err := s.ledger.Mint(s.ctx, "acct-a", "acct-a", 100)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *LedgerSuite) TestTransfer() {
	s.Require().NoError(s.ledger.Mint(s.ctx, "mint-admin", "acct-a", 100))

	s.Require().NoError(s.ledger.Transfer(s.ctx, "acct-a", "acct-b", 40))
	s.Equal(uint64(60), s.ledger.BalanceOf(s.ctx, "acct-a"))
	s.Equal(uint64(40), s.ledger.BalanceOf(s.ctx, "acct-b"))

	err := s.ledger.Transfer(s.ctx, "acct-a", "acct-b", 100)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeResourceExhausted))
	s.Equal(uint64(60), s.ledger.BalanceOf(s.ctx, "acct-a"), "failed transfer moves nothing")
}

func (s *LedgerSuite) TestTransferFromConsumesAllowance() {
	s.Require().NoError(s.ledger.Mint(s.ctx, "mint-admin", "acct-a", 100))
	s.Require().NoError(s.ledger.Approve(s.ctx, "acct-a", "spender", 50))

	s.Require().NoError(s.ledger.TransferFrom(s.ctx, "spender", "acct-a", "treasury", 30))
	s.Equal(uint64(70), s.ledger.BalanceOf(s.ctx, "acct-a"))
	s.Equal(uint64(30), s.ledger.BalanceOf(s.ctx, "treasury"))
	s.Equal(uint64(20), s.ledger.Allowance(s.ctx, "acct-a", "spender"))

	err := s.ledger.TransferFrom(s.ctx, "spender", "acct-a", "treasury", 30)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeResourceExhausted))
}

func (s *LedgerSuite) TestTransferFromRequiresBalance() {
	s.Require().NoError(s.ledger.Mint(s.ctx, "mint-admin", "acct-a", 10))
	s.Require().NoError(s.ledger.Approve(s.ctx, "acct-a", "spender", 50))

	err := s.ledger.TransferFrom(s.ctx, "spender", "acct-a", "treasury", 30)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeResourceExhausted))
	s.Equal(uint64(10), s.ledger.BalanceOf(s.ctx, "acct-a"))
	s.Equal(uint64(50), s.ledger.Allowance(s.ctx, "acct-a", "spender"), "failed pull keeps the allowance")
}

func (s *LedgerSuite) TestBurn() {
	s.Require().NoError(s.ledger.Mint(s.ctx, "mint-admin", "acct-a", 100))
	s.Require().NoError(s.ledger.Burn(s.ctx, "acct-a", 60))
	s.Equal(uint64(40), s.ledger.BalanceOf(s.ctx, "acct-a"))

	err := s.ledger.Burn(s.ctx, "acct-a", 60)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeResourceExhausted))
}

func (s *LedgerSuite) TestZeroAccountRejected() {
	s.Require().NoError(s.ledger.Mint(s.ctx, "mint-admin", "acct-a", 100))

	err := s.ledger.Transfer(s.ctx, "acct-a", "", 10)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	err = s.ledger.Mint(s.ctx, "mint-admin", "", 10)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}
