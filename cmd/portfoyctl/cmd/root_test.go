package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ramazansancar/stock-cost-calculator/internal/snapshot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usdSnapshot = `{
  "user": "friend",
  "transactions": [
    {"id": "t1", "symbol": "USD", "symbolName": "Dolar", "assetType": "currency",
     "quantity": 100, "price": 30, "date": "2024-01-02", "type": "buy"},
    {"id": "t2", "symbol": "USD", "symbolName": "Dolar", "assetType": "currency",
     "quantity": 100, "price": 34, "date": "2024-02-02", "type": "buy"}
  ]
}`

const goldSnapshot = `{
  "user": "friend",
  "transactions": [
    {"id": "g1", "symbol": "GRAM", "symbolName": "Gram Altin", "assetType": "gold",
     "quantity": 5, "price": 2500, "date": "2024-03-01", "type": "buy"}
  ]
}`

type cli struct {
	t   *testing.T
	dir string
	db  string
}

func newCLI(t *testing.T) *cli {
	dir := t.TempDir()
	return &cli{t: t, dir: dir, db: filepath.Join(dir, "portfoy.db")}
}

func (c *cli) file(name, content string) string {
	path := filepath.Join(c.dir, name)
	require.NoError(c.t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (c *cli) run(stdin string, args ...string) (string, error) {
	root := New()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--db", c.db, "--config", filepath.Join(c.dir, "missing.yaml")}, args...))
	err := root.Execute()
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	out, err := c.run("", args...)
	require.NoError(c.t, err, out)
	return out
}

func TestImportAppend_SummaryAndReport(t *testing.T) {
	c := newCLI(t)
	path := c.file("usd.json", usdSnapshot)

	out := c.mustRun("import", path, "--mode", "append")
	assert.Contains(t, out, "imported 2 transactions (append)")

	out = c.mustRun("summary")
	assert.Contains(t, out, "SYMBOL")
	assert.Contains(t, out, "USD")
	assert.Contains(t, out, "TOTAL")

	out = c.mustRun("summary", "--json")
	assert.Contains(t, out, `"totalQuantity": 200`)
	assert.Contains(t, out, `"averageCost": 32`)

	out = c.mustRun("report")
	assert.Contains(t, out, "PORTFOLIO SUMMARY")
	assert.Contains(t, out, "[currency] USD")
	assert.Contains(t, out, "Transactions: 2")
}

func TestReport_Empty(t *testing.T) {
	c := newCLI(t)
	assert.Contains(t, c.mustRun("report"), "no active holdings")
}

func TestImportReplace_AsksBeforeOverwriting(t *testing.T) {
	c := newCLI(t)
	c.mustRun("import", c.file("usd.json", usdSnapshot), "--mode", "append")
	gold := c.file("gold.json", goldSnapshot)

	out, err := c.run("no\n", "import", gold)
	require.NoError(t, err)
	assert.Contains(t, out, "replaces 2 existing transactions with 1 incoming")
	assert.Contains(t, out, "import cancelled")
	assert.Contains(t, c.mustRun("summary"), "USD")

	out, err = c.run("yes\n", "import", gold)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 1 transactions (replace)")

	summary := c.mustRun("summary")
	assert.Contains(t, summary, "GRAM")
	assert.NotContains(t, summary, "USD")

	out = c.mustRun("import", c.file("usd2.json", usdSnapshot), "--yes")
	assert.Contains(t, out, "imported 2 transactions (replace)")
}

func TestImport_Errors(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("", "import", c.file("usd.json", usdSnapshot), "--mode", "merge")
	assert.Error(t, err)

	_, err = c.run("", "import", filepath.Join(c.dir, "nope.json"))
	assert.Error(t, err)

	_, err = c.run("", "import", c.file("bad.json", `{"user":"x","transactions":[{"id":1}]}`))
	assert.ErrorIs(t, err, snapshot.ErrMalformedSnapshot)
}

func TestImport_Stdin(t *testing.T) {
	c := newCLI(t)
	out, err := c.run(usdSnapshot, "import", "-", "--mode", "append")
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 transactions")
}

func TestImportReplace_StdinNeedsYes(t *testing.T) {
	c := newCLI(t)
	c.mustRun("import", c.file("usd.json", usdSnapshot), "--mode", "append")

	_, err := c.run(goldSnapshot, "import", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
	summary := c.mustRun("summary")
	assert.Contains(t, summary, "USD")
	assert.NotContains(t, summary, "GRAM")

	out, err := c.run(goldSnapshot, "import", "-", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "imported 1 transactions (replace)")
	assert.Contains(t, c.mustRun("summary"), "GRAM")
}

func TestExport(t *testing.T) {
	c := newCLI(t)
	c.mustRun("import", c.file("usd.json", usdSnapshot), "--mode", "append")

	s, err := snapshot.Parse([]byte(c.mustRun("export")))
	require.NoError(t, err)
	assert.Len(t, s.Transactions, 2)
	assert.NotEmpty(t, s.User)

	link := strings.TrimSpace(c.mustRun("export", "--share", "https://portfoy.example/app?lang=en"))
	assert.Contains(t, link, "lang=en")
	assert.Contains(t, link, snapshot.QueryParam+"=")

	shared, _, err := snapshot.ParseAndClear(link)
	require.NoError(t, err)
	assert.Equal(t, s.User, shared.User)
	assert.Len(t, shared.Transactions, 2)

	target := filepath.Join(c.dir, "out.json")
	assert.Contains(t, c.mustRun("export", "-o", target), "exported 2 transactions")
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	_, err = snapshot.Parse(data)
	assert.NoError(t, err)
}

func TestProfiles(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("import", c.file("usd.json", usdSnapshot), "--mode", "view")
	assert.Contains(t, out, "opened 2 transactions as profile friend")

	out = c.mustRun("profiles", "list")
	assert.Contains(t, out, "friend")
	assert.Contains(t, out, "*")

	out = c.mustRun("profiles", "use", "friend")
	assert.Contains(t, out, "profile friend")
	assert.Contains(t, out, "2 transactions")

	// the owner log was untouched by the view import
	assert.NotContains(t, c.mustRun("summary"), "USD")
	assert.Contains(t, c.mustRun("--profile", "friend", "summary"), "USD")

	_, err := c.run("", "profiles", "use", "ghost")
	assert.Error(t, err)
	_, err = c.run("", "--profile", "ghost", "summary")
	assert.Error(t, err)

	assert.Contains(t, c.mustRun("profiles", "remove", "friend"), "removed friend")
	assert.NotContains(t, c.mustRun("profiles", "list"), "friend")
}

func TestProfilesRemove_Owner(t *testing.T) {
	c := newCLI(t)
	c.mustRun("import", c.file("usd.json", usdSnapshot), "--mode", "append")

	s, err := snapshot.Parse([]byte(c.mustRun("export")))
	require.NoError(t, err)

	assert.Contains(t, c.mustRun("profiles", "remove", s.User), "cannot be removed")
	assert.Contains(t, c.mustRun("profiles", "list"), s.User)
}

func TestClear(t *testing.T) {
	c := newCLI(t)
	c.mustRun("import", c.file("usd.json", usdSnapshot), "--mode", "append")

	_, err := c.run("", "clear", "--confirm", "nope")
	assert.Error(t, err)
	assert.Contains(t, c.mustRun("summary"), "USD")

	assert.Contains(t, c.mustRun("clear", "--confirm", " DELETE "), "cleared 2 transactions")
	assert.NotContains(t, c.mustRun("summary"), "USD")
}
