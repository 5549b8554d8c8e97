package matcher

import (
	"github.com/shopspring/decimal"

	"github.com/eshaffer321/splitwise-sync/internal/adapters/splitwise"
)

// Config holds matcher configuration. Both tolerances are exclusive.
type Config struct {
	DayTolerance    int             // Default: 2 (0 or 1 day apart match)
	AmountTolerance decimal.Decimal // Default: 1.00 currency units
}

// DefaultConfig returns the tolerances the sync tool has always used
func DefaultConfig() Config {
	return Config{
		DayTolerance:    2,
		AmountTolerance: decimal.NewFromInt(1),
	}
}

// MatchKind says which rule found the duplicate
type MatchKind string

const (
	MatchExact MatchKind = "exact" // provenance tag in details
	MatchFuzzy MatchKind = "fuzzy" // date and amount within tolerance
)

// MatchResult contains match information
type MatchResult struct {
	Expense     splitwise.Expense
	Kind        MatchKind
	DaysDelta   int             // Zero for exact matches
	AmountDelta decimal.Decimal // Zero for exact matches
}
