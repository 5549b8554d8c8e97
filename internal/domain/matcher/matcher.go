// Package matcher decides whether a transaction already has a Splitwise
// expense.
//
// Two rules are applied in order:
//   - Exact: an expense's details contain "source:<transaction id>"
//   - Fuzzy: date within DayTolerance days and amount within
//     AmountTolerance, both strict
//
// The fuzzy scan stops at the first expense inside the window; it does not
// look for the closest one.
//
// Example usage:
//
//	m := matcher.NewMatcher(matcher.DefaultConfig())
//	if m.Exists(snapshot, txn) {
//		// already synced or entered by hand
//	}
package matcher

import (
	"github.com/eshaffer321/splitwise-sync/internal/adapters/providers"
	"github.com/eshaffer321/splitwise-sync/internal/adapters/splitwise"
)

// Matcher matches transactions against a snapshot of Splitwise expenses
type Matcher struct {
	config Config
}

// NewMatcher creates a new matcher with the given config
func NewMatcher(config Config) *Matcher {
	return &Matcher{
		config: config,
	}
}

// Config returns the tolerances in use
func (m *Matcher) Config() Config {
	return m.config
}

// Exists reports whether txn already has a corresponding expense
func (m *Matcher) Exists(snapshot []splitwise.Expense, txn providers.Transaction) bool {
	return m.FindMatch(snapshot, txn) != nil
}

// FindMatch returns the expense that makes txn a duplicate, or nil
func (m *Matcher) FindMatch(snapshot []splitwise.Expense, txn providers.Transaction) *MatchResult {
	for _, expense := range snapshot {
		if HasProvenanceTag(expense.DetailsText(), txn.ID) {
			return &MatchResult{
				Expense: expense,
				Kind:    MatchExact,
			}
		}
	}

	txnDate := providers.CalendarDate(txn.Date)
	// Transactions are negative for money out, expenses are positive costs
	txnCost := txn.Amount.Neg()

	for _, expense := range snapshot {
		expenseDate, ok := expense.CalendarDate()
		if !ok {
			continue
		}
		cost, ok := expense.CostAmount()
		if !ok {
			continue
		}

		daysDelta := absDays(txnDate.Sub(expenseDate).Hours() / 24)
		amountDelta := txnCost.Sub(cost).Abs()

		if daysDelta < m.config.DayTolerance && amountDelta.LessThan(m.config.AmountTolerance) {
			return &MatchResult{
				Expense:     expense,
				Kind:        MatchFuzzy,
				DaysDelta:   daysDelta,
				AmountDelta: amountDelta,
			}
		}
	}

	return nil
}

func absDays(days float64) int {
	if days < 0 {
		days = -days
	}
	return int(days)
}
