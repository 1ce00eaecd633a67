package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/mbvogue/storefront/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add users table", "add_users_table"},
		{"Add-Users-Table", "add_users_table"},
		{"add__users__table", "add_users_table"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreate_Sequential(t *testing.T) {
	dir := t.TempDir()

	first, err := Create(dir, "add gift cards", "Gift card balances")
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_add_gift_cards.up.sql"), first.UpPath)
	assert.Equal(t, filepath.Join(dir, "000001_add_gift_cards.down.sql"), first.DownPath)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "add_gift_cards")
	assert.Contains(t, string(up), "Gift card balances")

	second, err := Create(dir, "index-orders", "")
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Version)
}

func TestCreate_InvalidName(t *testing.T) {
	_, err := Create(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestCreate_MakesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "migrations")

	f, err := Create(dir, "init", "")
	require.NoError(t, err)
	_, err = os.Stat(f.UpPath)
	assert.NoError(t, err)
}

func TestList(t *testing.T) {
	fsys := fstest.MapFS{
		"000010_later.up.sql":     {},
		"000010_later.down.sql":   {},
		"000002_second.up.sql":    {},
		"000002_second.down.sql":  {},
		"README.md":               {},
		"notaversion_x.up.sql":    {},
		"nested/000003_x.up.sql":  {},
		"000001_first_one.up.sql": {},
	}

	got, err := List(fsys)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "000001_first_one", got[0].String())
	assert.Equal(t, Migration{Version: 2, Name: "second"}, got[1])
	assert.Equal(t, uint(10), got[2].Version)
}

func TestList_MissingDirectory(t *testing.T) {
	got, err := List(os.DirFS(filepath.Join(t.TempDir(), "absent")))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestList_EmbeddedSchema(t *testing.T) {
	got, err := List(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, got)

	for i, m := range got {
		assert.Equal(t, uint(i+1), m.Version, "embedded migrations must be contiguous")
		_, err := migrations.FS.Open(m.String() + ".down.sql")
		assert.NoError(t, err, "missing down file for %s", m)
	}
}
