package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	dir := t.TempDir()

	pair, err := Create(dir, "Add transactions table")
	require.NoError(t, err)

	assert.Contains(t, filepath.Base(pair.UpPath), "add_transactions_table.up.sql")
	assert.Contains(t, filepath.Base(pair.DownPath), "add_transactions_table.down.sql")
	assert.Len(t, pair.Version, 14)

	up, err := os.ReadFile(pair.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "Add transactions table")

	_, err = os.Stat(pair.DownPath)
	require.NoError(t, err)
}

func TestCreate_NestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db", "migrations")

	_, err := Create(dir, "init")
	require.NoError(t, err)
}

func TestList(t *testing.T) {
	dir := t.TempDir()

	names, err := List(dir)
	require.NoError(t, err)
	assert.Empty(t, names)

	for _, name := range []string{"users", "opname worksheets"} {
		_, err := Create(dir, name)
		require.NoError(t, err)
	}

	names, err = List(dir)
	require.NoError(t, err)
	require.Len(t, names, 2)
	for _, n := range names {
		assert.NotContains(t, n, ".sql")
	}
}

func TestList_MissingDirectory(t *testing.T) {
	names, err := List(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Add Users":             "add_users",
		"opname--worksheets":    "opname_worksheets",
		"  trim me  ":           "trim_me",
		"v2 schema (reports)":   "v2_schema_reports",
		"already_snake_case_01": "already_snake_case_01",
	}
	for in, want := range cases {
		assert.Equal(t, want, slugify(in), "input %q", in)
	}
}
