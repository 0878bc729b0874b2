package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/wanda-blog/internal/storage/pg"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestDeployEnv_CoversEveryVariable(t *testing.T) {
	out, err := run(t, "deploy-env", "--out", "-")
	require.NoError(t, err)

	vars, err := godotenv.Unmarshal(out)
	require.NoError(t, err)

	for _, key := range []string{
		"PORT", "USE_HTTP2", "CORS_ORIGINS", "API_PREFIX", "RATE_LIMIT_ENABLED", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
		"LOCALES", "DEFAULT_LOCALE", "PAGE_MAX_SIZE", "PAGE_DEFAULT_SIZE", "STORAGE_TYPE", "PG_CONNECTION_STRING",
		"ES_ADDRESSES", "ES_INDEX_NAME", "ES_USERNAME", "ES_PASSWORD", "API_TOKENS", "LOG_LEVEL",
	} {
		assert.Contains(t, vars, key)
	}
	assert.Equal(t, "pg", vars["STORAGE_TYPE"])
}

func TestDeployEnv_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env.production")

	_, err := run(t, "deploy-env", "--out", path)
	require.NoError(t, err)
	first, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(first), "# Production environment"))

	_, err = run(t, "deploy-env", "--out", path)
	assert.ErrorContains(t, err, "already exists")

	_, err = run(t, "deploy-env", "--out", path, "--force", "--cors-origins", "https://blog.example")
	require.NoError(t, err)
	vars, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "https://blog.example", vars["CORS_ORIGINS"])
}

func TestSeed_InMemory(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "in_mem")
	t.Setenv("ES_ADDRESSES", "")
	t.Setenv("LOCALES", "")
	t.Setenv("DEFAULT_LOCALE", "")

	out, err := run(t, "seed", "--file", filepath.Join("..", "..", "db", "seed", "sample.yaml"), "--publish")
	require.NoError(t, err)
	assert.Contains(t, out, "tags: 6 created, 0 skipped")
	assert.Contains(t, out, "articles: 4 created, 0 skipped")
}

func TestReindex_NeedsSearchMirror(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "in_mem")
	t.Setenv("ES_ADDRESSES", "")

	_, err := run(t, "reindex")
	assert.ErrorContains(t, err, "ES_ADDRESSES")
}

func TestExamine_NeedsPostgres(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "in_mem")

	_, err := run(t, "examine")
	assert.ErrorContains(t, err, "STORAGE_TYPE=pg")
}

func TestWriteTables(t *testing.T) {
	var out bytes.Buffer
	writeTables([]pg.TableInfo{{
		Name: "tags",
		Rows: 7,
		Columns: []pg.Column{
			{Name: "id", DataType: "uuid"},
			{Name: "description", DataType: "text", Nullable: true},
		},
	}}, &out)

	assert.Contains(t, out.String(), "=== tags (7 rows) ===")
	assert.Contains(t, out.String(), "description")
	assert.Contains(t, out.String(), "true")
}
