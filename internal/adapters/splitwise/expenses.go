package splitwise

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ListExpenses returns the current user's expenses matching req.
// A single page is fetched; callers pass a large Limit when they need
// everything.
func (c *Client) ListExpenses(ctx context.Context, req ListExpensesRequest) ([]Expense, error) {
	var response expensesWrapper
	if err := c.get(ctx, "get_expenses", req.query(), &response); err != nil {
		return nil, err
	}
	return response.Expenses, nil
}

// CreateExpense creates an expense in req.GroupID. The request is sent as
// given; an empty RepeatInterval is sent as "never". The call only succeeded
// when the response's errors object is empty.
func (c *Client) CreateExpense(ctx context.Context, req CreateExpenseRequest) ([]Expense, error) {
	if req.RepeatInterval == "" {
		req.RepeatInterval = "never"
	}

	var response expensesWrapper
	if err := c.post(ctx, "create_expense", req, &response); err != nil {
		return nil, err
	}
	if len(response.Errors) > 0 {
		return nil, &APIError{StatusCode: http.StatusOK, Message: response.Errors.String()}
	}
	return response.Expenses, nil
}

func (r ListExpensesRequest) query() url.Values {
	q := url.Values{}
	setInt64 := func(key string, v *int64) {
		if v != nil {
			q.Set(key, strconv.FormatInt(*v, 10))
		}
	}
	setInt := func(key string, v *int) {
		if v != nil {
			q.Set(key, strconv.Itoa(*v))
		}
	}
	setTime := func(key string, v *time.Time) {
		if v != nil {
			q.Set(key, v.UTC().Format(time.RFC3339))
		}
	}

	setInt64("group_id", r.GroupID)
	setInt64("friend_id", r.FriendID)
	setTime("dated_after", r.DatedAfter)
	setTime("dated_before", r.DatedBefore)
	setTime("updated_after", r.UpdatedAfter)
	setTime("updated_before", r.UpdatedBefore)
	setInt("limit", r.Limit)
	setInt("offset", r.Offset)
	return q
}
