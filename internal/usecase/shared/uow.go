package shared

import (
	"context"
	"encoding/json"
	"time"

	"loyalty-core/internal/domain/coupon"
	"loyalty-core/internal/domain/ledger"
	"loyalty-core/internal/domain/offer"
	"loyalty-core/internal/domain/rule"
	"loyalty-core/internal/domain/scope"

	"github.com/google/uuid"
)

// UnitOfWork runs command flows inside one storage transaction. Within
// retries serialization failures; all row locks taken by the repositories
// live until commit.
type UnitOfWork interface {
	// Within: full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Rules() RuleRepository
	Ledger() LedgerRepository
	Offers() OfferRepository
	Coupons() CouponRepository
	Persons() PersonRepository
	Stores() StoreRepository
	Orders() OrderRepository
	Outbox() OutboxRepository
	Users() UserRepository
}

// RuleRepository doubles as the resolver's rule.Source; lookups return
// (nil, nil) on no match so the resolver can fall through.
type RuleRepository interface {
	rule.Source
	Create(ctx context.Context, r *rule.PointRule) error
}

type LedgerRepository interface {
	// Append inserts one immutable entry and returns its monotonic id.
	Append(ctx context.Context, e *ledger.Entry) (int64, error)
	// Balance sums non-expired deltas for one (person, scope, owner) tuple.
	Balance(ctx context.Context, personID uuid.UUID, sc scope.Scope, scopeID *uuid.UUID, asOf time.Time) (int64, error)
	// TotalBalance sums non-expired deltas across all scopes for a person.
	TotalBalance(ctx context.Context, personID uuid.UUID, asOf time.Time) (int64, error)
}

type OfferRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*offer.Offer, error)
	// FindByIDForUpdate acquires the per-offer exclusive row lock. The lock
	// is scoped to the single offer so unrelated offers issue independently.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*offer.Offer, error)
	UpdateStock(ctx context.Context, o *offer.Offer) error
	Create(ctx context.Context, o *offer.Offer) error
	FindTypeByID(ctx context.Context, id uuid.UUID) (*offer.CouponType, error)
	CreateType(ctx context.Context, t *offer.CouponType) error
}

type CouponRepository interface {
	Create(ctx context.Context, c *coupon.Coupon) error
	// ActiveCodeHashes lists (id, hash) for ISSUED/RESERVED coupons; the
	// caller matches the presented code in constant time per candidate.
	ActiveCodeHashes(ctx context.Context) ([]CodeHashRow, error)
	FindByID(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error)
	// FindByIDForUpdate acquires the per-coupon exclusive row lock so the
	// pre-state can be re-validated before any status write.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error)
	// Save persists status, reservation and redemption stamps.
	Save(ctx context.Context, c *coupon.Coupon) error
	// FindLiveByOffer locks and returns ISSUED/RESERVED coupons of one offer.
	FindLiveByOffer(ctx context.Context, offerID uuid.UUID) ([]*coupon.Coupon, error)
	CountHeldByPerson(ctx context.Context, offerID, personID uuid.UUID) (int, error)
}

type PersonRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PersonSnapshot, error)
	FindByCPF(ctx context.Context, cpf string) (*PersonSnapshot, error)
	// ListIDsForSegment returns up to limit person ids matching the opaque
	// segment filter (empty filter matches everyone).
	ListIDsForSegment(ctx context.Context, segment json.RawMessage, limit int) ([]uuid.UUID, error)
}

type StoreRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StoreSnapshot, error)
	// AncestryForScope resolves the (store, franchise, customer) chain for
	// an arbitrary scope owner so balances can be converted to currency.
	AncestryForScope(ctx context.Context, sc scope.Scope, ownerID uuid.UUID) (storeID, franchiseID, customerID *uuid.UUID, err error)
}

type OrderRepository interface {
	Create(ctx context.Context, o OrderRecord) (uuid.UUID, error)
}

// OutboxRepository enqueues fire-and-forget events in the same transaction
// as the state change they describe. Delivery is an external concern.
type OutboxRepository interface {
	Enqueue(ctx context.Context, topic string, payload []byte) error
}

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*UserSnapshot, error)
	UpdateLastLogin(ctx context.Context, userID uuid.UUID) error
}
