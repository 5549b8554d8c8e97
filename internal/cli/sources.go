package cli

import (
	"log/slog"

	"github.com/eshaffer321/splitwise-sync/internal/adapters/providers"
	"github.com/eshaffer321/splitwise-sync/internal/adapters/providers/chase"
	"github.com/eshaffer321/splitwise-sync/internal/adapters/providers/mint"
)

// NewSourceRegistry registers every supported export format
func NewSourceRegistry(accountName string, logger *slog.Logger) (*providers.Registry, error) {
	registry := providers.NewRegistry(logger)

	for _, source := range []providers.TransactionSource{
		mint.NewSource(),
		chase.NewSource(accountName),
	} {
		if err := registry.Register(source); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
