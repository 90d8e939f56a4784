package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"namereg/internal/events"
	"namereg/internal/events/publisher"
	"namereg/internal/ledger"
	"namereg/internal/registry/models"
	"namereg/internal/registry/store"
	id "namereg/pkg/domain"
	dErrors "namereg/pkg/domain-errors"
	"namereg/pkg/testutil"
)

const (
	adminAccount    = id.AccountID("registry-admin")
	treasuryAccount = id.AccountID("registry-treasury")
	testFee         = uint64(5)
)

type RegistryServiceSuite struct {
	suite.Suite
	registry *store.InMemory
	bank     *ledger.InMemory
	events   *events.InMemoryStore
	pub      *publisher.Publisher
	service  *Service
}

func (s *RegistryServiceSuite) setup(freeRegistrations uint64) {
	s.registry = store.NewInMemory(freeRegistrations, testFee)
	s.bank = ledger.NewInMemory(adminAccount)
	s.events = events.NewInMemoryStore()
	s.pub = publisher.NewPublisher(s.events)
	s.service = New(s.registry, s.bank, adminAccount, treasuryAccount, WithEmitter(s.pub))
}

func (s *RegistryServiceSuite) SetupTest() {
	s.setup(2)
}

func TestRegistryServiceSuite(t *testing.T) {
	suite.Run(t, new(RegistryServiceSuite))
}

func (s *RegistryServiceSuite) as(caller id.AccountID) context.Context {
	return testutil.ContextAs(caller)
}

// fund mints balance for an account and approves the treasury to pull fees.
func (s *RegistryServiceSuite) fund(account id.AccountID, amount, allowance uint64) {
	ctx := context.Background()
	s.Require().NoError(s.bank.Mint(ctx, adminAccount, account, amount))
	s.Require().NoError(s.bank.Approve(ctx, account, treasuryAccount, allowance))
}

func (s *RegistryServiceSuite) TestAvailabilityFlipsOnRegistration() {
	ctx := s.as("acct-a")
	s.True(s.service.IsNameAvailable(ctx, "alice"))

	record, err := s.service.Register(ctx, "alice")
	s.Require().NoError(err)
	s.Equal(id.RecordID(1), record.ID)

	s.False(s.service.IsNameAvailable(ctx, "alice"))
	s.Equal(id.AccountID("acct-a"), s.service.ResolveName(ctx, "alice"))
	s.Equal(uint64(1), s.service.OwnedCount(ctx, "acct-a"))
}

func (s *RegistryServiceSuite) TestRegisterRequiresCaller() {
	_, err := s.service.Register(context.Background(), "alice")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *RegistryServiceSuite) TestDuplicateNameIsConflict() {
	_, err := s.service.Register(s.as("acct-a"), "alice")
	s.Require().NoError(err)

	_, err = s.service.Register(s.as("acct-b"), "alice")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *RegistryServiceSuite) TestInvalidNameLeavesStateUntouched() {
	before := s.service.FreeRegistrationsLeft(context.Background())

	_, err := s.service.Register(s.as("acct-a"), "Not Valid")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	s.Equal(before, s.service.FreeRegistrationsLeft(context.Background()))
	s.True(s.service.IsNameAvailable(context.Background(), "Not Valid"))
}

func (s *RegistryServiceSuite) TestPaidRegistrationDebitsFee() {
	// Exhaust the quota of 2.
	_, err := s.service.Register(s.as("acct-a"), "one")
	s.Require().NoError(err)
	_, err = s.service.Register(s.as("acct-a"), "two")
	s.Require().NoError(err)

	s.fund("acct-b", 20, testFee)
	_, err = s.service.Register(s.as("acct-b"), "paid")
	s.Require().NoError(err)

	ctx := context.Background()
	s.Equal(uint64(20-testFee), s.bank.BalanceOf(ctx, "acct-b"))
	s.Equal(testFee, s.bank.BalanceOf(ctx, treasuryAccount))
}

func (s *RegistryServiceSuite) TestFailedPullFailsAtomically() {
	_, err := s.service.Register(s.as("acct-a"), "one")
	s.Require().NoError(err)
	_, err = s.service.Register(s.as("acct-a"), "two")
	s.Require().NoError(err)

	// Balance but no allowance.
	s.Require().NoError(s.bank.Mint(context.Background(), adminAccount, "acct-c", 100))

	_, err = s.service.Register(s.as("acct-c"), "broke")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeResourceExhausted))

	ctx := context.Background()
	s.True(s.service.IsNameAvailable(ctx, "broke"))
	s.Equal(uint64(0), s.service.OwnedCount(ctx, "acct-c"))
	s.Equal(uint64(100), s.bank.BalanceOf(ctx, "acct-c"))
	s.Equal(uint64(0), s.service.FreeRegistrationsLeft(ctx))
}

func (s *RegistryServiceSuite) TestProfileRoundTrip() {
	record, err := s.service.Register(s.as("acct-a"), "alice")
	s.Require().NoError(err)

	update := models.ProfileUpdate{Twitter: "@alice", Telegram: "tg", Discord: "dc", Image: "img", Bio: "bio"}
	_, err = s.service.UpdateProfile(s.as("acct-a"), record.ID, update)
	s.Require().NoError(err)

	profile, err := s.service.ProfileByName(context.Background(), "alice")
	s.Require().NoError(err)
	s.Equal("@alice", profile.Twitter)
	s.Equal("bio", profile.Bio)
}

func (s *RegistryServiceSuite) TestProfileUpdateGuard() {
	record, err := s.service.Register(s.as("acct-a"), "alice")
	s.Require().NoError(err)

	_, err = s.service.UpdateProfile(s.as("acct-m"), record.ID, models.ProfileUpdate{Twitter: "@evil"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

	profile, err := s.service.ProfileByName(context.Background(), "alice")
	s.Require().NoError(err)
	s.Empty(profile.Twitter)
}

func (s *RegistryServiceSuite) TestProfileByUnknownNameNotFound() {
	_, err := s.service.ProfileByName(context.Background(), "ghost")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *RegistryServiceSuite) TestResolveUnknownIsZero() {
	s.Equal(id.ZeroAccount, s.service.ResolveName(context.Background(), "ghost"))
}

func (s *RegistryServiceSuite) TestTransferMovesEverything() {
	record, err := s.service.Register(s.as("acct-a"), "alice")
	s.Require().NoError(err)

	s.Require().NoError(s.service.VerifyAccount(s.as(adminAccount), "acct-b"))

	moved, err := s.service.Transfer(s.as("acct-a"), "acct-a", "acct-b", record.ID)
	s.Require().NoError(err)
	s.Equal(id.AccountID("acct-b"), moved.Owner)
	s.True(moved.Profile.Verified, "verified recomputed from the set at transfer")

	ctx := context.Background()
	s.Equal(id.AccountID("acct-b"), s.service.ResolveName(ctx, "alice"))
	s.Equal(uint64(0), s.service.OwnedCount(ctx, "acct-a"))
	s.Equal(uint64(1), s.service.OwnedCount(ctx, "acct-b"))
}

func (s *RegistryServiceSuite) TestVerifyStampsCurrentHoldings() {
	_, err := s.service.Register(s.as("acct-a"), "one")
	s.Require().NoError(err)
	_, err = s.service.Register(s.as("acct-a"), "two")
	s.Require().NoError(err)

	s.Require().NoError(s.service.VerifyAccount(s.as(adminAccount), "acct-a"))

	for _, name := range []string{"one", "two"} {
		profile, err := s.service.ProfileByName(context.Background(), name)
		s.Require().NoError(err)
		s.True(profile.Verified, "record %s should be stamped", name)
	}

	// A registration after the call consults the set at creation time.
	s.fund("acct-a", 20, testFee)
	later, err := s.service.Register(s.as("acct-a"), "three")
	s.Require().NoError(err)
	s.True(later.Profile.Verified)
}

func (s *RegistryServiceSuite) TestVerifyRequiresAdmin() {
	err := s.service.VerifyAccount(s.as("acct-a"), "acct-a")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *RegistryServiceSuite) TestUpdateFee() {
	s.Require().NoError(s.service.UpdateFee(s.as(adminAccount), 42))
	s.Equal(uint64(42), s.service.Fee(context.Background()))

	err := s.service.UpdateFee(s.as("acct-a"), 7)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	s.Equal(uint64(42), s.service.Fee(context.Background()))
}

func (s *RegistryServiceSuite) TestWithdraw() {
	s.Run("fails on empty treasury", func() {
		_, err := s.service.Withdraw(s.as(adminAccount))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeResourceExhausted))
	})

	s.Run("moves the full held balance", func() {
		_, err := s.service.Register(s.as("acct-a"), "one")
		s.Require().NoError(err)
		_, err = s.service.Register(s.as("acct-a"), "two")
		s.Require().NoError(err)

		s.fund("acct-b", 20, testFee)
		_, err = s.service.Register(s.as("acct-b"), "paid")
		s.Require().NoError(err)

		amount, err := s.service.Withdraw(s.as(adminAccount))
		s.Require().NoError(err)
		s.Equal(testFee, amount)

		ctx := context.Background()
		s.Equal(uint64(0), s.bank.BalanceOf(ctx, treasuryAccount))
		s.Equal(testFee, s.bank.BalanceOf(ctx, adminAccount))
	})

	s.Run("requires admin", func() {
		_, err := s.service.Withdraw(s.as("acct-a"))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func (s *RegistryServiceSuite) TestTokenURI() {
	record, err := s.service.Register(s.as("acct-a"), "alice")
	s.Require().NoError(err)

	uri, err := s.service.TokenURI(context.Background(), record.ID)
	s.Require().NoError(err)
	s.Contains(uri, "data:application/json;base64,")

	_, err = s.service.TokenURI(context.Background(), 999)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *RegistryServiceSuite) TestOwnedRecordAtOutOfRange() {
	_, err := s.service.OwnedRecordAt(context.Background(), "acct-a", 0)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeOutOfRange))
}

func (s *RegistryServiceSuite) TestEventsEmitted() {
	record, err := s.service.Register(testutil.ContextWithRequestID(s.as("acct-a"), "req-42"), "alice")
	s.Require().NoError(err)
	_, err = s.service.UpdateProfile(s.as("acct-a"), record.ID, models.ProfileUpdate{Bio: "hi"})
	s.Require().NoError(err)
	s.Require().NoError(s.service.VerifyAccount(s.as(adminAccount), "acct-b"))
	_, err = s.service.Transfer(s.as("acct-a"), "acct-a", "acct-b", record.ID)
	s.Require().NoError(err)

	for _, eventType := range []events.Type{
		events.TypeNameRegistered,
		events.TypeProfileUpdated,
		events.TypeAccountVerified,
		events.TypeRecordTransferred,
	} {
		got, err := s.events.List(context.Background(), eventType)
		s.Require().NoError(err)
		s.Len(got, 1, "expected one %s event", eventType)
	}

	registered, err := s.events.List(context.Background(), events.TypeNameRegistered)
	s.Require().NoError(err)
	s.Equal("req-42", registered[0].RequestID)
}

// The bootstrap scenario: a full quota of free registrations, then the next
// one debits exactly the fee into the treasury.
func (s *RegistryServiceSuite) TestBootstrapQuotaEndToEnd() {
	s.setup(100)

	for i := 0; i < 100; i++ {
		account := id.AccountID(fmt.Sprintf("acct-%d", i))
		_, err := s.service.Register(s.as(account), fmt.Sprintf("name-%d", i))
		s.Require().NoError(err)
	}
	s.Equal(uint64(0), s.service.FreeRegistrationsLeft(context.Background()))

	s.fund("acct-rich", 50, 50)
	_, err := s.service.Register(s.as("acct-rich"), "the-101st")
	s.Require().NoError(err)

	ctx := context.Background()
	s.Equal(uint64(50-testFee), s.bank.BalanceOf(ctx, "acct-rich"))
	s.Equal(testFee, s.bank.BalanceOf(ctx, treasuryAccount))
	s.Equal(uint64(1), s.service.OwnedCount(ctx, "acct-rich"))
}
