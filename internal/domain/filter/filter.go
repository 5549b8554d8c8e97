// Package filter narrows a transaction export down to the candidates a sync
// run should consider.
//
// Predicates are applied in a fixed order (date range, expense/income,
// account pattern, description pattern) and the limit is a prefix cap taken
// after them. Relative order is always preserved.
package filter

import (
	"fmt"
	"regexp"
	"time"
	"unicode"

	"github.com/eshaffer321/splitwise-sync/internal/adapters/providers"
)

// Criteria holds the filters for one run. The zero value keeps every
// expense and drops income.
type Criteria struct {
	After         *time.Time     // Inclusive; nil = unbounded
	Before        *time.Time     // Inclusive; nil = unbounded
	IncludeIncome bool           // Keep transactions with IsExpense == false
	Account       *regexp.Regexp // Matched against AccountName; nil = any
	Description   *regexp.Regexp // Matched against Description; nil = any
	Limit         int            // Keep at most this many; 0 = no cap
}

// CompileSmartCase compiles pattern case-insensitively unless it contains an
// uppercase letter. Matching is unanchored.
func CompileSmartCase(pattern string) (*regexp.Regexp, error) {
	expr := pattern
	if !hasUpper(pattern) {
		expr = "(?i)" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return re, nil
}

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// Apply returns the transactions that pass every predicate, in their
// original order, capped at c.Limit
func Apply(txns []providers.Transaction, c Criteria) []providers.Transaction {
	out := make([]providers.Transaction, 0, len(txns))
	for _, txn := range txns {
		if c.Limit > 0 && len(out) >= c.Limit {
			break
		}
		if c.Matches(txn) {
			out = append(out, txn)
		}
	}
	return out
}

// Matches applies the per-item predicates (everything except Limit)
func (c Criteria) Matches(txn providers.Transaction) bool {
	date := providers.CalendarDate(txn.Date)
	if c.After != nil && date.Before(providers.CalendarDate(*c.After)) {
		return false
	}
	if c.Before != nil && date.After(providers.CalendarDate(*c.Before)) {
		return false
	}
	if !txn.IsExpense && !c.IncludeIncome {
		return false
	}
	if c.Account != nil && !c.Account.MatchString(txn.AccountName) {
		return false
	}
	if c.Description != nil && !c.Description.MatchString(txn.Description) {
		return false
	}
	return true
}
