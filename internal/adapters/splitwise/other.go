package splitwise

import "context"

// GetCurrencies returns every currency Splitwise accepts. These are mostly
// ISO 4217 codes.
func (c *Client) GetCurrencies(ctx context.Context) ([]Currency, error) {
	var response currenciesWrapper
	if err := c.get(ctx, "get_currencies", nil, &response); err != nil {
		return nil, err
	}
	return response.Currencies, nil
}

// GetCategories returns the category tree. Expenses must use a
// subcategory, not a parent.
func (c *Client) GetCategories(ctx context.Context) ([]Category, error) {
	var response categoriesWrapper
	if err := c.get(ctx, "get_categories", nil, &response); err != nil {
		return nil, err
	}
	return response.Categories, nil
}
