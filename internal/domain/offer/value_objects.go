package offer

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidRedeemType = errors.New("invalid redeem type")
	ErrAmbiguousDiscount = errors.New("discount must populate exactly the field its redeem type declares")
	ErrNegativeDiscount  = errors.New("discount amount cannot be negative")
	ErrInvalidPercentage = errors.New("percentage discount must be between 0 and 100")
	ErrEmptySKUList      = errors.New("free-sku discount requires at least one SKU")
	ErrNoEligibleItems   = errors.New("no eligible items for this coupon")
)

// RedeemType selects the discount shape: fixed currency, percentage of the
// order total, or a free item from a fixed SKU list.
type RedeemType string

const (
	RedeemBRL        RedeemType = "BRL"
	RedeemPercentage RedeemType = "PERCENTAGE"
	RedeemFreeSKU    RedeemType = "FREE_SKU"
)

func (t RedeemType) String() string {
	return string(t)
}

func (t RedeemType) IsValid() bool {
	switch t {
	case RedeemBRL, RedeemPercentage, RedeemFreeSKU:
		return true
	default:
		return false
	}
}

// DiscountSpec is the mutually exclusive discount definition of a coupon
// type. Exactly one of amount / percentage / SKU list is set, matching the
// declared redeem type.
type DiscountSpec struct {
	redeemType RedeemType
	amountBRL  *decimal.Decimal
	percentage *decimal.Decimal
	validSKUs  []string
}

func NewFixedDiscount(amountBRL decimal.Decimal) (DiscountSpec, error) {
	if amountBRL.IsNegative() {
		return DiscountSpec{}, ErrNegativeDiscount
	}
	return DiscountSpec{redeemType: RedeemBRL, amountBRL: &amountBRL}, nil
}

func NewPercentageDiscount(percentage decimal.Decimal) (DiscountSpec, error) {
	if percentage.IsNegative() || percentage.GreaterThan(decimal.NewFromInt(100)) {
		return DiscountSpec{}, ErrInvalidPercentage
	}
	return DiscountSpec{redeemType: RedeemPercentage, percentage: &percentage}, nil
}

func NewFreeSKUDiscount(validSKUs []string) (DiscountSpec, error) {
	if len(validSKUs) == 0 {
		return DiscountSpec{}, ErrEmptySKUList
	}
	skus := make([]string, len(validSKUs))
	copy(skus, validSKUs)
	return DiscountSpec{redeemType: RedeemFreeSKU, validSKUs: skus}, nil
}

// NewDiscountSpec validates the raw storage shape against the declared type.
func NewDiscountSpec(t RedeemType, amountBRL, percentage *decimal.Decimal, validSKUs []string) (DiscountSpec, error) {
	switch t {
	case RedeemBRL:
		if amountBRL == nil || percentage != nil || len(validSKUs) > 0 {
			return DiscountSpec{}, ErrAmbiguousDiscount
		}
		return NewFixedDiscount(*amountBRL)
	case RedeemPercentage:
		if percentage == nil || amountBRL != nil || len(validSKUs) > 0 {
			return DiscountSpec{}, ErrAmbiguousDiscount
		}
		return NewPercentageDiscount(*percentage)
	case RedeemFreeSKU:
		if len(validSKUs) == 0 || amountBRL != nil || percentage != nil {
			return DiscountSpec{}, ErrAmbiguousDiscount
		}
		return NewFreeSKUDiscount(validSKUs)
	default:
		return DiscountSpec{}, ErrInvalidRedeemType
	}
}

func (d DiscountSpec) RedeemType() RedeemType       { return d.redeemType }
func (d DiscountSpec) AmountBRL() *decimal.Decimal  { return d.amountBRL }
func (d DiscountSpec) Percentage() *decimal.Decimal { return d.percentage }
func (d DiscountSpec) ValidSKUs() []string          { return d.validSKUs }
func (d DiscountSpec) IsSKURestricted() bool        { return d.redeemType == RedeemFreeSKU }

// Discount is the computed result presented to the point of sale. For
// FREE_SKU the amount resolution is deferred to the caller's pricing, so
// only the eligible SKUs are returned.
type Discount struct {
	Type       RedeemType
	AmountBRL  *decimal.Decimal
	Percentage *decimal.Decimal
	FreeSKUs   []string
}

// Compute applies the spec to an order. SKU-restricted coupons require at
// least one submitted item on the eligible list.
func (d DiscountSpec) Compute(orderTotalBRL decimal.Decimal, itemSKUs []string) (Discount, error) {
	switch d.redeemType {
	case RedeemBRL:
		amount := *d.amountBRL
		return Discount{Type: RedeemBRL, AmountBRL: &amount}, nil

	case RedeemPercentage:
		pct := *d.percentage
		amount := orderTotalBRL.Mul(pct).Div(decimal.NewFromInt(100))
		return Discount{Type: RedeemPercentage, Percentage: &pct, AmountBRL: &amount}, nil

	case RedeemFreeSKU:
		eligible := d.eligibleItems(itemSKUs)
		if len(eligible) == 0 {
			return Discount{}, ErrNoEligibleItems
		}
		return Discount{Type: RedeemFreeSKU, FreeSKUs: d.validSKUs}, nil

	default:
		return Discount{}, ErrInvalidRedeemType
	}
}

func (d DiscountSpec) eligibleItems(itemSKUs []string) []string {
	var matched []string
	for _, sku := range itemSKUs {
		for _, valid := range d.validSKUs {
			if sku == valid {
				matched = append(matched, sku)
				break
			}
		}
	}
	return matched
}
