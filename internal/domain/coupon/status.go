package coupon

// Status is the coupon lifecycle state. REDEEMED, CANCELLED and EXPIRED are
// terminal. A RESERVED coupon past its reservation deadline is still stored
// as RESERVED; staleness is a read-time predicate, never a sweep.
type Status string

const (
	StatusIssued    Status = "ISSUED"
	StatusReserved  Status = "RESERVED"
	StatusRedeemed  Status = "REDEEMED"
	StatusCancelled Status = "CANCELLED"
	StatusExpired   Status = "EXPIRED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusIssued, StatusReserved, StatusRedeemed, StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	switch s {
	case StatusRedeemed, StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}

// IsHeld reports whether the coupon still counts against per-person caps
// and wallet availability.
func (s Status) IsHeld() bool {
	return s == StatusIssued || s == StatusReserved
}
