package providers

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Registry manages the transaction sources available to the CLI
type Registry struct {
	sources map[string]TransactionSource
	mu      sync.RWMutex
	logger  *slog.Logger
}

// NewRegistry creates a new source registry
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		sources: make(map[string]TransactionSource),
		logger:  logger,
	}
}

// Register adds a source to the registry
func (r *Registry) Register(source TransactionSource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := source.Name()
	if _, exists := r.sources[name]; exists {
		return fmt.Errorf("source %s already registered", name)
	}

	r.sources[name] = source
	r.logger.Debug("registered source",
		slog.String("source", name),
		slog.String("display_name", source.DisplayName()),
	)

	return nil
}

// Get returns a source by name
func (r *Registry) Get(name string) (TransactionSource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	source, exists := r.sources[name]
	if !exists {
		return nil, fmt.Errorf("source %s not found (available: %v)", name, r.namesLocked())
	}

	return source, nil
}

// List returns all registered source names, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
