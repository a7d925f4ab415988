//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"loyalty-core/internal/domain/ledger"
	"loyalty-core/internal/domain/rule"
	"loyalty-core/internal/domain/scope"
	"loyalty-core/internal/pkg/clock"
	"loyalty-core/internal/usecase/commands"
	"loyalty-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type PointsCommandsTestSuite struct {
	suite.Suite
	rules   *MockRuleRepository
	ledger  *MockLedgerRepository
	persons *MockPersonRepository
	stores  *MockStoreRepository
	orders  *MockOrderRepository
	outbox  *MockOutboxRepository
	clock   *clock.MockClock
	sut     commands.PointsCommands

	personID uuid.UUID
	storeID  uuid.UUID
}

func TestPointsCommandsTestSuite(t *testing.T) {
	suite.Run(t, new(PointsCommandsTestSuite))
}

func (s *PointsCommandsTestSuite) SetupTest() {
	s.rules = new(MockRuleRepository)
	s.ledger = new(MockLedgerRepository)
	s.persons = new(MockPersonRepository)
	s.stores = new(MockStoreRepository)
	s.orders = new(MockOrderRepository)
	s.outbox = new(MockOutboxRepository)
	s.clock = clock.NewMockClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	tx := &stubTx{
		rules:   s.rules,
		ledger:  s.ledger,
		persons: s.persons,
		stores:  s.stores,
		orders:  s.orders,
		outbox:  s.outbox,
	}
	s.sut = commands.NewPointsCommands(&stubUoW{tx: tx}, s.clock)

	s.personID = uuid.New()
	s.storeID = uuid.New()
}

func (s *PointsCommandsTestSuite) stubStore() shared.StoreSnapshot {
	return shared.StoreSnapshot{
		ID:          s.storeID,
		FranchiseID: uuid.New(),
		CustomerID:  uuid.New(),
		Name:        "Loja Centro",
	}
}

func (s *PointsCommandsTestSuite) earnInput(total string) commands.EarnPointsInput {
	return commands.EarnPointsInput{
		PersonID: &s.personID,
		StoreID:  s.storeID,
		Order: commands.OrderInput{
			TotalBRL: decimal.RequireFromString(total),
		},
	}
}

func (s *PointsCommandsTestSuite) TestEarnPoints() {
	s.Run("earns floored points through the store rule", func() {
		s.SetupTest()
		ctx := context.Background()
		store := s.stubStore()
		orderID := uuid.New()

		rate := decimal.RequireFromString("1.5")
		storeRule, err := rule.NewPointRule(scope.Store, &s.storeID, &rate, nil)
		require.NoError(s.T(), err)

		s.persons.On("FindByID", mock.Anything, s.personID).Return(&shared.PersonSnapshot{ID: s.personID}, nil)
		s.stores.On("FindByID", mock.Anything, s.storeID).Return(&store, nil)
		s.rules.On("ForStore", mock.Anything, s.storeID).Return(storeRule, nil)
		s.orders.On("Create", mock.Anything, mock.Anything).Return(orderID, nil)

		var appended *ledger.Entry
		s.ledger.On("Append", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			appended = args.Get(1).(*ledger.Entry)
		}).Return(int64(1), nil)
		s.outbox.On("Enqueue", mock.Anything, "points.earned", mock.Anything).Return(nil)
		s.ledger.On("TotalBalance", mock.Anything, s.personID, s.clock.Now()).Return(int64(149), nil)

		result, err := s.sut.EarnPoints(ctx, s.earnInput("99.99"))
		require.NoError(s.T(), err)

		assert.Equal(s.T(), orderID, result.OrderID)
		assert.Equal(s.T(), int64(149), result.PointsEarned)
		assert.Equal(s.T(), int64(149), result.WalletTotal)

		require.NotNil(s.T(), appended)
		assert.Equal(s.T(), int64(149), appended.Delta())
		assert.Equal(s.T(), scope.Store, appended.Scope())
		s.rules.AssertNotCalled(s.T(), "ForFranchise", mock.Anything, mock.Anything)
	})

	s.Run("identifies the person by cpf", func() {
		s.SetupTest()
		store := s.stubStore()
		cpf := "12345678901"

		rate := decimal.RequireFromString("1")
		globalRule, err := rule.NewPointRule(scope.Global, nil, &rate, nil)
		require.NoError(s.T(), err)

		s.persons.On("FindByCPF", mock.Anything, cpf).Return(&shared.PersonSnapshot{ID: s.personID, CPF: cpf}, nil)
		s.stores.On("FindByID", mock.Anything, s.storeID).Return(&store, nil)
		s.rules.On("ForStore", mock.Anything, s.storeID).Return(nil, nil)
		s.rules.On("ForFranchise", mock.Anything, store.FranchiseID).Return(nil, nil)
		s.rules.On("ForCustomer", mock.Anything, store.CustomerID).Return(nil, nil)
		s.rules.On("Global", mock.Anything).Return(globalRule, nil)
		s.orders.On("Create", mock.Anything, mock.Anything).Return(uuid.New(), nil)
		s.ledger.On("Append", mock.Anything, mock.Anything).Return(int64(2), nil)
		s.outbox.On("Enqueue", mock.Anything, "points.earned", mock.Anything).Return(nil)
		s.ledger.On("TotalBalance", mock.Anything, s.personID, mock.Anything).Return(int64(100), nil)

		in := commands.EarnPointsInput{
			CPF:     &cpf,
			StoreID: s.storeID,
			Order:   commands.OrderInput{TotalBRL: decimal.RequireFromString("100.00")},
		}
		result, err := s.sut.EarnPoints(context.Background(), in)
		require.NoError(s.T(), err)
		assert.Equal(s.T(), int64(100), result.PointsEarned)
	})

	s.Run("unknown person", func() {
		s.SetupTest()
		s.persons.On("FindByID", mock.Anything, s.personID).Return(nil, notFoundErr())

		_, err := s.sut.EarnPoints(context.Background(), s.earnInput("10.00"))
		assert.ErrorIs(s.T(), err, commands.ErrPersonNotFound)
	})

	s.Run("no identity at all", func() {
		s.SetupTest()
		in := commands.EarnPointsInput{StoreID: s.storeID}
		_, err := s.sut.EarnPoints(context.Background(), in)
		assert.ErrorIs(s.T(), err, commands.ErrPersonNotFound)
	})

	s.Run("unknown store", func() {
		s.SetupTest()
		s.persons.On("FindByID", mock.Anything, s.personID).Return(&shared.PersonSnapshot{ID: s.personID}, nil)
		s.stores.On("FindByID", mock.Anything, s.storeID).Return(nil, notFoundErr())

		_, err := s.sut.EarnPoints(context.Background(), s.earnInput("10.00"))
		assert.ErrorIs(s.T(), err, commands.ErrStoreNotFound)
	})

	s.Run("no rule anywhere in the chain", func() {
		s.SetupTest()
		store := s.stubStore()

		s.persons.On("FindByID", mock.Anything, s.personID).Return(&shared.PersonSnapshot{ID: s.personID}, nil)
		s.stores.On("FindByID", mock.Anything, s.storeID).Return(&store, nil)
		s.rules.On("ForStore", mock.Anything, s.storeID).Return(nil, nil)
		s.rules.On("ForFranchise", mock.Anything, store.FranchiseID).Return(nil, nil)
		s.rules.On("ForCustomer", mock.Anything, store.CustomerID).Return(nil, nil)
		s.rules.On("Global", mock.Anything).Return(nil, nil)

		_, err := s.sut.EarnPoints(context.Background(), s.earnInput("10.00"))
		assert.ErrorIs(s.T(), err, commands.ErrNoApplicableRule)
	})

	s.Run("expiry-only rule cannot earn", func() {
		s.SetupTest()
		store := s.stubStore()
		days := 30
		expiryOnly, err := rule.NewPointRule(scope.Store, &s.storeID, nil, &days)
		require.NoError(s.T(), err)

		s.persons.On("FindByID", mock.Anything, s.personID).Return(&shared.PersonSnapshot{ID: s.personID}, nil)
		s.stores.On("FindByID", mock.Anything, s.storeID).Return(&store, nil)
		s.rules.On("ForStore", mock.Anything, s.storeID).Return(expiryOnly, nil)

		_, err = s.sut.EarnPoints(context.Background(), s.earnInput("10.00"))
		assert.ErrorIs(s.T(), err, commands.ErrNoApplicableRule)
	})

	s.Run("order too small to earn a single point", func() {
		s.SetupTest()
		store := s.stubStore()
		rate := decimal.RequireFromString("0.5")
		storeRule, err := rule.NewPointRule(scope.Store, &s.storeID, &rate, nil)
		require.NoError(s.T(), err)

		s.persons.On("FindByID", mock.Anything, s.personID).Return(&shared.PersonSnapshot{ID: s.personID}, nil)
		s.stores.On("FindByID", mock.Anything, s.storeID).Return(&store, nil)
		s.rules.On("ForStore", mock.Anything, s.storeID).Return(storeRule, nil)
		s.orders.On("Create", mock.Anything, mock.Anything).Return(uuid.New(), nil)

		_, err = s.sut.EarnPoints(context.Background(), s.earnInput("0.99"))
		assert.ErrorIs(s.T(), err, commands.ErrAmountTooSmall)
		s.ledger.AssertNotCalled(s.T(), "Append", mock.Anything, mock.Anything)
	})
}

func (s *PointsCommandsTestSuite) TestSpendPoints() {
	s.Run("appends a negative entry and returns the new balance", func() {
		s.SetupTest()
		scopeID := uuid.New()

		var appended *ledger.Entry
		s.ledger.On("Append", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			appended = args.Get(1).(*ledger.Entry)
		}).Return(int64(5), nil)
		s.ledger.On("Balance", mock.Anything, s.personID, scope.Customer, &scopeID, s.clock.Now()).Return(int64(70), nil)

		balance, err := s.sut.SpendPoints(context.Background(), commands.SpendPointsInput{
			PersonID: s.personID,
			Scope:    scope.Customer,
			ScopeID:  &scopeID,
			Amount:   30,
			Reason:   "manual adjustment",
		})
		require.NoError(s.T(), err)
		assert.Equal(s.T(), int64(70), balance)
		require.NotNil(s.T(), appended)
		assert.Equal(s.T(), int64(-30), appended.Delta())
	})

	s.Run("zero amount is rejected", func() {
		s.SetupTest()
		_, err := s.sut.SpendPoints(context.Background(), commands.SpendPointsInput{
			PersonID: s.personID,
			Scope:    scope.Global,
		})
		assert.ErrorIs(s.T(), err, commands.ErrInvalidAdjustment)
	})
}
