package clients

import (
	"errors"
	"log/slog"
	"time"

	"github.com/eshaffer321/splitwise-sync/internal/adapters/splitwise"
	"github.com/eshaffer321/splitwise-sync/internal/infrastructure/config"
)

// ErrMissingAPIKey is returned when no Splitwise API key is configured
var ErrMissingAPIKey = errors.New("splitwise API key not configured (set splitwise.api_key or SPLITWISE_API_KEY)")

type Clients struct {
	Splitwise *splitwise.Client
}

func NewClients(cfg *config.Config, logger *slog.Logger) (*Clients, error) {
	// Get API key with fallback to env var
	apiKey := cfg.GetAPIKey(cfg.Splitwise.APIKey, "SPLITWISE_API_KEY")
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	baseURL := cfg.Splitwise.BaseURL
	if baseURL == "" {
		baseURL = cfg.GetAPIKey("", "SPLITWISE_BASE_URL")
	}

	sw, err := splitwise.NewClient(splitwise.Config{
		APIKey:   apiKey,
		BaseURL:  baseURL,
		Timeout:  time.Duration(cfg.Splitwise.TimeoutSeconds) * time.Second,
		RetryMax: cfg.Splitwise.RetryMax,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	return &Clients{
		Splitwise: sw,
	}, nil
}
