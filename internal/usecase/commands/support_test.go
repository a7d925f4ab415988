//go:build unit

package commands_test

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"loyalty-core/internal/domain/coupon"
	"loyalty-core/internal/domain/ledger"
	"loyalty-core/internal/domain/offer"
	"loyalty-core/internal/domain/rule"
	"loyalty-core/internal/domain/scope"
	"loyalty-core/internal/infra"
	"loyalty-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// stubUoW executes the transaction function directly; retry and isolation
// concerns belong to the postgres implementation.
type stubUoW struct {
	tx shared.Tx
}

func (s *stubUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, s.tx)
}

func (s *stubUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, s.tx)
}

type stubTx struct {
	rules   shared.RuleRepository
	ledger  shared.LedgerRepository
	offers  shared.OfferRepository
	coupons shared.CouponRepository
	persons shared.PersonRepository
	stores  shared.StoreRepository
	orders  shared.OrderRepository
	outbox  shared.OutboxRepository
	users   shared.UserRepository
}

func (s *stubTx) Rules() shared.RuleRepository     { return s.rules }
func (s *stubTx) Ledger() shared.LedgerRepository  { return s.ledger }
func (s *stubTx) Offers() shared.OfferRepository   { return s.offers }
func (s *stubTx) Coupons() shared.CouponRepository { return s.coupons }
func (s *stubTx) Persons() shared.PersonRepository { return s.persons }
func (s *stubTx) Stores() shared.StoreRepository   { return s.stores }
func (s *stubTx) Orders() shared.OrderRepository   { return s.orders }
func (s *stubTx) Outbox() shared.OutboxRepository  { return s.outbox }
func (s *stubTx) Users() shared.UserRepository     { return s.users }

func notFoundErr() error {
	return infra.WrapRepoErr("no rows", errors.New("no rows in result set"), infra.KindNotFound)
}

type MockRuleRepository struct {
	mock.Mock
}

func (m *MockRuleRepository) ForStore(ctx context.Context, storeID uuid.UUID) (*rule.PointRule, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rule.PointRule), args.Error(1)
}

func (m *MockRuleRepository) ForFranchise(ctx context.Context, franchiseID uuid.UUID) (*rule.PointRule, error) {
	args := m.Called(ctx, franchiseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rule.PointRule), args.Error(1)
}

func (m *MockRuleRepository) ForCustomer(ctx context.Context, customerID uuid.UUID) (*rule.PointRule, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rule.PointRule), args.Error(1)
}

func (m *MockRuleRepository) Global(ctx context.Context) (*rule.PointRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rule.PointRule), args.Error(1)
}

func (m *MockRuleRepository) Create(ctx context.Context, r *rule.PointRule) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Append(ctx context.Context, e *ledger.Entry) (int64, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) Balance(ctx context.Context, personID uuid.UUID, sc scope.Scope, scopeID *uuid.UUID, asOf time.Time) (int64, error) {
	args := m.Called(ctx, personID, sc, scopeID, asOf)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) TotalBalance(ctx context.Context, personID uuid.UUID, asOf time.Time) (int64, error) {
	args := m.Called(ctx, personID, asOf)
	return args.Get(0).(int64), args.Error(1)
}

type MockOfferRepository struct {
	mock.Mock
}

func (m *MockOfferRepository) FindByID(ctx context.Context, id uuid.UUID) (*offer.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*offer.Offer), args.Error(1)
}

func (m *MockOfferRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*offer.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*offer.Offer), args.Error(1)
}

func (m *MockOfferRepository) UpdateStock(ctx context.Context, o *offer.Offer) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOfferRepository) Create(ctx context.Context, o *offer.Offer) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOfferRepository) FindTypeByID(ctx context.Context, id uuid.UUID) (*offer.CouponType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*offer.CouponType), args.Error(1)
}

func (m *MockOfferRepository) CreateType(ctx context.Context, t *offer.CouponType) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) Create(ctx context.Context, c *coupon.Coupon) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCouponRepository) ActiveCodeHashes(ctx context.Context) ([]shared.CodeHashRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shared.CodeHashRow), args.Error(1)
}

func (m *MockCouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coupon.Coupon), args.Error(1)
}

func (m *MockCouponRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coupon.Coupon), args.Error(1)
}

func (m *MockCouponRepository) Save(ctx context.Context, c *coupon.Coupon) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCouponRepository) FindLiveByOffer(ctx context.Context, offerID uuid.UUID) ([]*coupon.Coupon, error) {
	args := m.Called(ctx, offerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*coupon.Coupon), args.Error(1)
}

func (m *MockCouponRepository) CountHeldByPerson(ctx context.Context, offerID, personID uuid.UUID) (int, error) {
	args := m.Called(ctx, offerID, personID)
	return args.Int(0), args.Error(1)
}

type MockPersonRepository struct {
	mock.Mock
}

func (m *MockPersonRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.PersonSnapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.PersonSnapshot), args.Error(1)
}

func (m *MockPersonRepository) FindByCPF(ctx context.Context, cpf string) (*shared.PersonSnapshot, error) {
	args := m.Called(ctx, cpf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.PersonSnapshot), args.Error(1)
}

func (m *MockPersonRepository) ListIDsForSegment(ctx context.Context, segment json.RawMessage, limit int) ([]uuid.UUID, error) {
	args := m.Called(ctx, segment, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.StoreSnapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.StoreSnapshot), args.Error(1)
}

func (m *MockStoreRepository) AncestryForScope(ctx context.Context, sc scope.Scope, ownerID uuid.UUID) (*uuid.UUID, *uuid.UUID, *uuid.UUID, error) {
	args := m.Called(ctx, sc, ownerID)
	var storeID, franchiseID, customerID *uuid.UUID
	if args.Get(0) != nil {
		storeID = args.Get(0).(*uuid.UUID)
	}
	if args.Get(1) != nil {
		franchiseID = args.Get(1).(*uuid.UUID)
	}
	if args.Get(2) != nil {
		customerID = args.Get(2).(*uuid.UUID)
	}
	return storeID, franchiseID, customerID, args.Error(3)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, o shared.OrderRecord) (uuid.UUID, error) {
	args := m.Called(ctx, o)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Enqueue(ctx context.Context, topic string, payload []byte) error {
	args := m.Called(ctx, topic, payload)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*shared.UserSnapshot, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.UserSnapshot), args.Error(1)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
