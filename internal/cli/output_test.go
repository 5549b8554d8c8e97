package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/splitwise-sync/internal/adapters/splitwise"
)

type fakeLookup struct {
	currencies []splitwise.Currency
	categories []splitwise.Category
	err        error
}

func (f fakeLookup) GetCurrencies(ctx context.Context) ([]splitwise.Currency, error) {
	return f.currencies, f.err
}

func (f fakeLookup) GetCategories(ctx context.Context) ([]splitwise.Category, error) {
	return f.categories, f.err
}

func TestRunCurrencies(t *testing.T) {
	var out bytes.Buffer
	lookup := fakeLookup{currencies: []splitwise.Currency{
		{CurrencyCode: "USD", Unit: "$"},
		{CurrencyCode: "EUR", Unit: "€"},
	}}

	require.NoError(t, RunCurrencies(context.Background(), lookup, &out))

	assert.Equal(t, "USD   $\nEUR   €\n", out.String())
}

func TestRunCategories(t *testing.T) {
	var out bytes.Buffer
	lookup := fakeLookup{categories: []splitwise.Category{
		{ID: 1, Name: "Utilities", Subcategories: []splitwise.Category{{ID: 5, Name: "Electricity"}}},
		{ID: 2, Name: "Uncategorized"},
	}}

	require.NoError(t, RunCategories(context.Background(), lookup, &out))

	assert.Equal(t, "1\tUtilities\n  5\tElectricity\n2\tUncategorized\n", out.String())
}

func TestLookupErrors(t *testing.T) {
	lookup := fakeLookup{err: &splitwise.APIError{StatusCode: 401, Message: "Invalid API request: you are not logged in"}}

	err := RunCurrencies(context.Background(), lookup, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, splitwise.IsUnauthorized(err))

	err = RunCategories(context.Background(), lookup, &bytes.Buffer{})
	var apiErr *splitwise.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 401, apiErr.StatusCode)
}
