package quota

import "errors"

// ErrInsufficientCredits is returned when a user has no generation credits left for the current month.
var ErrInsufficientCredits = errors.New("insufficient generation credits")

// DefaultMonthlyCredits is the allowance used when none is configured.
const DefaultMonthlyCredits = 20

// monthKey formats the bucket a credit belongs to.
const monthKey = "2006-01"
