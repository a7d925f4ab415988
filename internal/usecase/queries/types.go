package queries

import "loyalty-core/internal/pkg/errs"

// Shared read-side errors; handlers translate these to HTTP statuses.
var (
	ErrNotFound    = errs.New("record not found")
	ErrQueryFailed = errs.New("query failed")
)
