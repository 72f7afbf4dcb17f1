package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add movements table", "add_movements_table"},
		{"Add-Reservations", "add_reservations"},
		{"SEED_LOCATIONS", "seed_locations"},
		{"add__routing__steps", "add_routing_steps"},
		{"alter orders v2", "alter_orders_v2"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	tmpDir := t.TempDir()

	mf, err := CreateMigration(tmpDir, "add movements table", "signed stock movement ledger")
	require.NoError(t, err)

	// Version is a sortable second-resolution timestamp
	assert.Len(t, mf.Version, 14)

	upBase := strings.TrimSuffix(filepath.Base(mf.UpPath), ".up.sql")
	downBase := strings.TrimSuffix(filepath.Base(mf.DownPath), ".down.sql")
	assert.Equal(t, upBase, downBase)
	assert.Equal(t, mf.Version+"_add_movements_table", upBase)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "add movements table")
	assert.Contains(t, string(up), "signed stock movement ledger")

	_, err = os.Stat(mf.DownPath)
	require.NoError(t, err)
}

func TestListMigrations(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("empty for missing directory", func(t *testing.T) {
		migrations, err := ListMigrations(filepath.Join(tmpDir, "nope"))
		require.NoError(t, err)
		assert.Empty(t, migrations)
	})

	t.Run("lists pair base names once", func(t *testing.T) {
		for _, name := range []string{
			"20240101000000_init.up.sql",
			"20240101000000_init.down.sql",
			"20240102000000_add_reservations.up.sql",
			"20240102000000_add_reservations.down.sql",
			"notes.txt",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(tmpDir, name), nil, 0644))
		}

		migrations, err := ListMigrations(tmpDir)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"20240101000000_init",
			"20240102000000_add_reservations",
		}, migrations)
	})
}
