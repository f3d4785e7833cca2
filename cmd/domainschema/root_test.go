package main

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/domainschema/compiler/load"
	"github.com/syssam/domainschema/contrib/graphql"
	"github.com/syssam/domainschema/graph"
)

const shop = "testdata/shop.yaml"

// syncBuffer is a bytes.Buffer safe for concurrent use.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr syncBuffer
	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestNormalize(t *testing.T) {
	out, err := execute(t, "normalize", shop)
	require.NoError(t, err)
	cat, err := load.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, []string{"Category", "Product", "Details"}, cat.Names())

	out, err = execute(t, "normalize", shop, "--type", "Details")
	require.NoError(t, err)
	cat, err = load.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, []string{"Details"}, cat.Names())

	path := filepath.Join(t.TempDir(), "normalized.yaml")
	out, err = execute(t, "normalize", shop, "-o", path)
	require.NoError(t, err)
	assert.Empty(t, out)
	_, err = load.ParseFile(path)
	require.NoError(t, err)
}

func TestGraphQL(t *testing.T) {
	out, err := execute(t, "graphql", shop)
	require.NoError(t, err)
	assert.Contains(t, out, "type Category {")
	assert.Contains(t, out, "type Product {")
	assert.Contains(t, out, "price: Float\n")

	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.graphql")
	cfgPath := filepath.Join(dir, "gqlgen.yml")
	_, err = execute(t, "graphql", shop, "--out", schemaPath, "--gqlgen", cfgPath, "--model", "example.com/shop/models")
	require.NoError(t, err)
	sdl, err := os.ReadFile(schemaPath)
	require.NoError(t, err)
	assert.Contains(t, string(sdl), "type Details {")

	cfg, err := graphql.LoadGQLGenConfig(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"schema.graphql"}, []string(cfg.SchemaFilename))
	assert.Equal(t, []string{"example.com/shop/models.Product"}, []string(cfg.Models["Product"].Model))
}

func TestSQLPlan(t *testing.T) {
	out, err := execute(t, "sql", "plan", shop, "--dialect", "postgres")
	require.NoError(t, err)
	category := strings.Index(out, `CREATE TABLE "category"`)
	product := strings.Index(out, `CREATE TABLE "product"`)
	require.NotEqual(t, -1, category, out)
	require.NotEqual(t, -1, product, out)
	assert.Less(t, category, product)
	assert.NotContains(t, out, `"details"`)

	out, err = execute(t, "sql", "plan", shop, "--dialect", "mysql", "--drop")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "DROP TABLE `product`"), strings.Index(out, "DROP TABLE `category`"))

	_, err = execute(t, "sql", "plan", shop, "--dialect", "oracle")
	assert.ErrorContains(t, err, "unsupported dialect")
}

func TestSQLApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.db")
	dsn := "file:" + path + "?_pragma=foreign_keys(1)"

	_, err := execute(t, "sql", "apply", shop)
	assert.ErrorContains(t, err, "--dsn is required")

	out, err := execute(t, "sql", "apply", shop, "--dsn", dsn)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "created category, product ("), out)
	assert.Equal(t, []string{"category", "product"}, tables(t, path))

	out, err = execute(t, "sql", "drop", shop, "--dsn", dsn)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "dropped category, product ("), out)
	assert.Empty(t, tables(t, path))
}

func tables(t *testing.T, path string) []string {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	require.NoError(t, err)
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}

func TestGen(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "gen", shop, "--out", dir, "--package", "shop")
	require.NoError(t, err)
	paths := strings.Fields(out)
	assert.Contains(t, paths, filepath.Join(dir, "category.go"))
	assert.Contains(t, paths, filepath.Join(dir, "product.go"))

	src, err := os.ReadFile(filepath.Join(dir, "product.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "package shop")
	assert.Contains(t, string(src), "type Product struct")

	_, err = execute(t, "gen", shop, "--out", dir, "--package", "not-a-name")
	assert.Error(t, err)
	_, err = execute(t, "gen", shop, "--out", dir, "--workers", "0")
	assert.ErrorContains(t, err, "workers must be positive")
}

func TestSnapshot(t *testing.T) {
	out, err := execute(t, "snapshot", shop, "--format", "json")
	require.NoError(t, err)
	snap, err := graph.Decode(strings.NewReader(out), graph.FormatJSON)
	require.NoError(t, err)
	require.Len(t, snap.Types, 3)
	assert.Equal(t, "Category", snap.Types[0].Name)

	path := filepath.Join(t.TempDir(), "shop.msgpack")
	_, err = execute(t, "snapshot", shop, "-f", "msgpack", "-o", path)
	require.NoError(t, err)
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	snap, err = graph.Decode(f, graph.FormatMsgpack)
	require.NoError(t, err)
	assert.Len(t, snap.Types, 3)

	_, err = execute(t, "snapshot", shop, "--format", "xml")
	assert.Error(t, err)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing file", []string{"normalize", "testdata/missing.yaml"}, "no such file"},
		{"unknown type", []string{"normalize", shop, "--type", "Missing"}, `unknown type "Missing"`},
		{"no files", []string{"graphql"}, "requires at least 1 arg"},
		{"bad config", []string{"normalize", shop, "--config", "testdata/missing.yaml"}, "read config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "domainschema.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dialect: postgres\ntype: [Category]\n"), 0o644))
	out, err := execute(t, "sql", "plan", shop, "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, `CREATE TABLE "category"`)

	// Flags take precedence over the config file.
	out, err = execute(t, "sql", "plan", shop, "--config", path, "--dialect", "sqlite")
	require.NoError(t, err)
	assert.Contains(t, out, "CREATE TABLE `category`")

	t.Setenv("DOMAINSCHEMA_DIALECT", "mysql")
	out, err = execute(t, "sql", "plan", shop)
	require.NoError(t, err)
	assert.Contains(t, out, "CREATE TABLE `category`")
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shop.yaml")
	data, err := os.ReadFile(shop)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	var stdout, stderr syncBuffer
	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"watch", path})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(stdout.String(), "name: Category")
	}, 5*time.Second, 10*time.Millisecond)

	tag := "- __: Tag\n  label: String\n"
	require.NoError(t, os.WriteFile(path, append(data, tag...), 0o644))
	require.Eventually(t, func() bool {
		return strings.Contains(stdout.String(), "name: Tag")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
