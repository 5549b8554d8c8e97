package splitwise

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a Splitwise expense. Every field is optional on the wire.
type Expense struct {
	ID             *int64     `json:"id,omitempty"`
	GroupID        *int64     `json:"group_id,omitempty"`
	Description    *string    `json:"description,omitempty"`
	Details        *string    `json:"details,omitempty"`
	Cost           *string    `json:"cost,omitempty"`
	CurrencyCode   *string    `json:"currency_code,omitempty"`
	Date           *time.Time `json:"date,omitempty"`
	RepeatInterval *string    `json:"repeat_interval,omitempty"`
	Payment        *bool      `json:"payment,omitempty"`
	CreationMethod *string    `json:"creation_method,omitempty"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
	Category       *Category  `json:"category,omitempty"`
}

// CalendarDate returns the UTC calendar day of the expense date
func (e Expense) CalendarDate() (time.Time, bool) {
	if e.Date == nil {
		return time.Time{}, false
	}
	y, m, d := e.Date.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
}

// CostAmount parses the cost string. ok is false when cost is missing or
// not a number.
func (e Expense) CostAmount() (decimal.Decimal, bool) {
	if e.Cost == nil {
		return decimal.Decimal{}, false
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(*e.Cost))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return amount, true
}

// DetailsText returns the notes field, or "" when unset
func (e Expense) DetailsText() string {
	if e.Details == nil {
		return ""
	}
	return *e.Details
}

// IDValue returns the expense ID, or 0 when unset
func (e Expense) IDValue() int64 {
	if e.ID == nil {
		return 0
	}
	return *e.ID
}

// Category is an expense category. Parent categories carry subcategories.
type Category struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Subcategories []Category `json:"subcategories,omitempty"`
}

// Currency is a currency supported by Splitwise
type Currency struct {
	CurrencyCode string `json:"currency_code"`
	Unit         string `json:"unit"`
}

// ListExpensesRequest filters get_expenses. Nil fields are omitted.
type ListExpensesRequest struct {
	GroupID       *int64
	FriendID      *int64
	DatedAfter    *time.Time
	DatedBefore   *time.Time
	UpdatedAfter  *time.Time
	UpdatedBefore *time.Time
	Limit         *int
	Offset        *int
}

// CreateExpenseRequest is the body of create_expense when splitting
// equally within a group. The authenticated user is the payer.
type CreateExpenseRequest struct {
	Cost           string    `json:"cost"` // decimal with 2 places, e.g. "45.00"
	Description    string    `json:"description"`
	Details        *string   `json:"details,omitempty"`
	Date           time.Time `json:"date"`
	RepeatInterval string    `json:"repeat_interval"`
	CurrencyCode   string    `json:"currency_code"`
	CategoryID     int64     `json:"category_id,omitempty"`
	GroupID        int64     `json:"group_id"`
	SplitEqually   bool      `json:"split_equally"`
}

// ErrorMap is the "errors" object Splitwise attaches to write responses.
// The API sometimes sends an empty array instead of an empty object.
type ErrorMap map[string][]string

// UnmarshalJSON accepts an object of string lists, a list of strings, or null
func (m *ErrorMap) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*m = nil
		return nil
	}

	if trimmed[0] == '[' {
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return fmt.Errorf("decode errors list: %w", err)
		}
		if len(list) == 0 {
			*m = ErrorMap{}
			return nil
		}
		*m = ErrorMap{"base": list}
		return nil
	}

	var obj map[string][]string
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return fmt.Errorf("decode errors object: %w", err)
	}
	*m = obj
	return nil
}

// String joins the errors as "key: [a; b];" with keys sorted
func (m ErrorMap) String() string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: [%s];", k, strings.Join(m[k], "; "))
	}
	return b.String()
}

type expensesWrapper struct {
	Expenses []Expense `json:"expenses"`
	Errors   ErrorMap  `json:"errors"`
}

type currenciesWrapper struct {
	Currencies []Currency `json:"currencies"`
}

type categoriesWrapper struct {
	Categories []Category `json:"categories"`
}

type errorUnauthorized struct {
	Error string `json:"error"`
}

type errorForbiddenOrNotFound struct {
	Errors struct {
		Base []string `json:"base"`
	} `json:"errors"`
}
