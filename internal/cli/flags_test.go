package cli

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/splitwise-sync/internal/application/sync"
	"github.com/eshaffer321/splitwise-sync/internal/infrastructure/config"
)

func TestParseSyncFlags_Defaults(t *testing.T) {
	defaults := config.Defaults().Sync
	defaults.GroupID = 42
	defaults.AccountName = "Sapphire"

	flags, err := ParseSyncFlags([]string{"-file", "tx.json"}, defaults, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "tx.json", flags.File)
	assert.Equal(t, "mint", flags.Format)
	assert.Equal(t, "Sapphire", flags.AccountName)
	assert.Equal(t, int64(42), flags.GroupID)
	assert.Empty(t, flags.Snapshot)
	assert.False(t, flags.All)
	assert.False(t, flags.Yes)
	assert.False(t, flags.DryRun)
	assert.Zero(t, flags.Limit)

	opts, err := flags.ToSyncOptions(0)
	require.NoError(t, err)
	assert.Equal(t, sync.SnapshotStatic, opts.SnapshotPolicy)
}

func TestParseSyncFlags_SnapshotPolicyFromConfig(t *testing.T) {
	defaults := config.Defaults().Sync
	defaults.GroupID = 42

	defaults.SnapshotPolicy = "append"
	flags, err := ParseSyncFlags([]string{"-file", "tx.json"}, defaults, io.Discard)
	require.NoError(t, err)
	opts, err := flags.ToSyncOptions(0)
	require.NoError(t, err)
	assert.Equal(t, sync.SnapshotAppendCreated, opts.SnapshotPolicy)

	// An unknown value in the config file is rejected by the same parser as the flag
	defaults.SnapshotPolicy = "refresh"
	flags, err = ParseSyncFlags([]string{"-file", "tx.json"}, defaults, io.Discard)
	require.NoError(t, err)
	_, err = flags.ToSyncOptions(0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown snapshot policy "refresh"`)
}

func TestParseSyncFlags_AllFlags(t *testing.T) {
	args := []string{
		"-file", "chase.csv",
		"-format", "chase",
		"-group", "7",
		"-after", "2024-03-01",
		"-before", "2024-03-31",
		"-account", "checking",
		"-description", "Market",
		"-all",
		"-limit", "5",
		"-yes",
		"-dry-run",
		"-snapshot", "append",
	}

	flags, err := ParseSyncFlags(args, config.Defaults().Sync, io.Discard)
	require.NoError(t, err)

	opts, err := flags.ToSyncOptions(500)
	require.NoError(t, err)

	assert.Equal(t, "chase.csv", opts.FilePath)
	assert.Equal(t, int64(7), opts.GroupID)
	assert.True(t, opts.AssumeYes)
	assert.True(t, opts.DryRun)
	assert.Equal(t, sync.SnapshotAppendCreated, opts.SnapshotPolicy)
	assert.Equal(t, 500, opts.ExpenseLimit)

	c := opts.Criteria
	assert.True(t, c.IncludeIncome)
	assert.Equal(t, 5, c.Limit)
	require.NotNil(t, c.After)
	require.NotNil(t, c.Before)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *c.After)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), *c.Before)

	// lowercase pattern ignores case, pattern with uppercase does not
	assert.True(t, c.Account.MatchString("Joint CHECKING"))
	assert.True(t, c.Description.MatchString("Farmers Market"))
	assert.False(t, c.Description.MatchString("farmers market"))
}

func TestParseSyncFlags_RejectsPositionalArgs(t *testing.T) {
	_, err := ParseSyncFlags([]string{"-file", "a.json", "extra"}, config.Defaults().Sync, io.Discard)
	assert.Error(t, err)
}

func TestParseSyncFlags_UnknownFlag(t *testing.T) {
	_, err := ParseSyncFlags([]string{"-bogus"}, config.Defaults().Sync, io.Discard)
	assert.Error(t, err)
}

func TestToSyncOptions_Errors(t *testing.T) {
	valid := SyncFlags{File: "tx.json", GroupID: 1, Snapshot: "static"}

	tests := []struct {
		name    string
		mutate  func(f *SyncFlags)
		wantErr string
	}{
		{name: "missing file", mutate: func(f *SyncFlags) { f.File = "" }, wantErr: "-file"},
		{name: "missing group", mutate: func(f *SyncFlags) { f.GroupID = 0 }, wantErr: "-group"},
		{name: "negative limit", mutate: func(f *SyncFlags) { f.Limit = -1 }, wantErr: "-limit"},
		{name: "bad after date", mutate: func(f *SyncFlags) { f.After = "03/01/2024" }, wantErr: "-after"},
		{name: "bad before date", mutate: func(f *SyncFlags) { f.Before = "2024-13-01" }, wantErr: "-before"},
		{name: "bad account pattern", mutate: func(f *SyncFlags) { f.Account = "(" }, wantErr: "-account"},
		{name: "bad description pattern", mutate: func(f *SyncFlags) { f.Description = "[a" }, wantErr: "-description"},
		{name: "bad snapshot policy", mutate: func(f *SyncFlags) { f.Snapshot = "rolling" }, wantErr: "snapshot policy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)

			_, err := f.ToSyncOptions(0)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseServeFlags(t *testing.T) {
	flags, err := ParseServeFlags(nil, config.APIConfig{Port: 8085}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 8085, flags.Port)

	flags, err = ParseServeFlags([]string{"-port", "9000"}, config.APIConfig{Port: 8085}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 9000, flags.Port)
}
