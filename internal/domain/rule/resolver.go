package rule

import (
	"context"

	"github.com/google/uuid"
)

// Source is the lookup boundary the resolver walks. Each method returns
// (nil, nil) when no rule exists at that level.
type Source interface {
	ForStore(ctx context.Context, storeID uuid.UUID) (*PointRule, error)
	ForFranchise(ctx context.Context, franchiseID uuid.UUID) (*PointRule, error)
	ForCustomer(ctx context.Context, customerID uuid.UUID) (*PointRule, error)
	Global(ctx context.Context) (*PointRule, error)
}

// Resolver finds the single applicable rule for a store's ancestry by
// trying lookups most-specific-first. The chain is an ordered slice so a
// fifth tenancy level is a one-entry change, not a rewrite.
type Resolver struct {
	source Source
}

func NewResolver(source Source) *Resolver {
	return &Resolver{source: source}
}

type lookup func(ctx context.Context) (*PointRule, error)

// Resolve walks STORE -> FRANCHISE -> CUSTOMER -> GLOBAL and returns the
// first match. GLOBAL is a mandatory backstop: exhausting the chain yields
// ErrNoApplicableRule.
func (r *Resolver) Resolve(ctx context.Context, storeID, franchiseID, customerID uuid.UUID) (*PointRule, error) {
	chain := []lookup{
		func(ctx context.Context) (*PointRule, error) { return r.source.ForStore(ctx, storeID) },
		func(ctx context.Context) (*PointRule, error) { return r.source.ForFranchise(ctx, franchiseID) },
		func(ctx context.Context) (*PointRule, error) { return r.source.ForCustomer(ctx, customerID) },
		func(ctx context.Context) (*PointRule, error) { return r.source.Global(ctx) },
	}

	for _, find := range chain {
		matched, err := find(ctx)
		if err != nil {
			return nil, err
		}
		if matched != nil {
			return matched, nil
		}
	}
	return nil, ErrNoApplicableRule
}
