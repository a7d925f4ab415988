package scope

import "errors"

var ErrInvalidScope = errors.New("invalid scope")

// Scope is the tenancy level a rule, ledger entry or offer applies to.
// Priority during resolution is STORE > FRANCHISE > CUSTOMER > GLOBAL.
type Scope string

const (
	Global    Scope = "GLOBAL"
	Customer  Scope = "CUSTOMER"
	Franchise Scope = "FRANCHISE"
	Store     Scope = "STORE"
)

func (s Scope) String() string {
	return string(s)
}

func (s Scope) IsValid() bool {
	switch s {
	case Global, Customer, Franchise, Store:
		return true
	default:
		return false
	}
}

// RequiresOwner reports whether the scope must reference an owning entity.
// GLOBAL is the only ownerless level.
func (s Scope) RequiresOwner() bool {
	return s != Global
}

func New(s string) (Scope, error) {
	sc := Scope(s)
	if !sc.IsValid() {
		return "", ErrInvalidScope
	}
	return sc, nil
}
