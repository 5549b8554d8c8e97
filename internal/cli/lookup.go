package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/eshaffer321/splitwise-sync/internal/adapters/splitwise"
)

// Lookup is the read-only reference data the Splitwise client serves
type Lookup interface {
	GetCurrencies(ctx context.Context) ([]splitwise.Currency, error)
	GetCategories(ctx context.Context) ([]splitwise.Category, error)
}

// RunCurrencies prints the currencies Splitwise supports
func RunCurrencies(ctx context.Context, client Lookup, out io.Writer) error {
	currencies, err := client.GetCurrencies(ctx)
	if err != nil {
		return fmt.Errorf("failed to get currencies: %w", err)
	}
	PrintCurrencies(out, currencies)
	return nil
}

// RunCategories prints the Splitwise category tree
func RunCategories(ctx context.Context, client Lookup, out io.Writer) error {
	categories, err := client.GetCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to get categories: %w", err)
	}
	PrintCategories(out, categories)
	return nil
}
