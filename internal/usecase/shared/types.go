package shared

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Minimal snapshots for command-side reads.

type PersonSnapshot struct {
	ID   uuid.UUID
	CPF  string
	Name string
}

// StoreSnapshot carries the store's full ancestry so the rule resolver can
// walk STORE -> FRANCHISE -> CUSTOMER without extra round trips.
type StoreSnapshot struct {
	ID          uuid.UUID
	FranchiseID uuid.UUID
	CustomerID  uuid.UUID
	Name        string
}

type UserSnapshot struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	PersonID     *uuid.UUID
	IsActive     bool
}

// CodeHashRow is one candidate for constant-time code matching.
type CodeHashRow struct {
	CouponID uuid.UUID
	CodeHash []byte
}

// OrderRecord is the linked order persisted alongside earns/redemptions.
type OrderRecord struct {
	StoreID     uuid.UUID
	PersonID    uuid.UUID
	TotalBRL    decimal.Decimal
	TaxBRL      decimal.Decimal
	Items       []byte
	Shipping    []byte
	CheckoutRef *string
	ExternalID  *string
}

type OutboxEvent struct {
	Topic   string
	Payload []byte
}
