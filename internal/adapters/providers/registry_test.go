package providers_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/splitwise-sync/internal/adapters/providers"
	"github.com/eshaffer321/splitwise-sync/internal/adapters/providers/chase"
	"github.com/eshaffer321/splitwise-sync/internal/adapters/providers/mint"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := providers.NewRegistry(nil)
	require.NoError(t, registry.Register(mint.NewSource()))
	require.NoError(t, registry.Register(chase.NewSource("")))

	source, err := registry.Get("mint")
	require.NoError(t, err)
	assert.Equal(t, "Mint", source.DisplayName())

	assert.Equal(t, []string{"chase", "mint"}, registry.List())
}

func TestRegistry_DuplicateRegistration(t *testing.T) {
	registry := providers.NewRegistry(nil)
	require.NoError(t, registry.Register(mint.NewSource()))

	err := registry.Register(mint.NewSource())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistry_UnknownSource(t *testing.T) {
	registry := providers.NewRegistry(nil)
	require.NoError(t, registry.Register(mint.NewSource()))

	_, err := registry.Get("ofx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source ofx not found")
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"tx1","date":"2024-03-01","amount":-45,"isExpense":true}]`), 0o600))

	txns, err := providers.ReadFile(context.Background(), mint.NewSource(), path)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "tx1", txns[0].ID)
}

func TestReadFile_MissingFile(t *testing.T) {
	_, err := providers.ReadFile(context.Background(), mint.NewSource(), filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open")
}

type failingSource struct{}

func (failingSource) Name() string        { return "failing" }
func (failingSource) DisplayName() string { return "Failing" }
func (failingSource) ReadTransactions(context.Context, io.Reader) ([]providers.Transaction, error) {
	return nil, io.ErrUnexpectedEOF
}

func TestReadFile_DecodeErrorIsWrapped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.json")
	require.NoError(t, os.WriteFile(path, []byte(`x`), 0o600))

	_, err := providers.ReadFile(context.Background(), failingSource{}, path)
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Contains(t, err.Error(), "failed to read Failing transactions")
}
