// End-to-end tests that run the full cart CLI in-process against a
// temporary cart home. Output is captured via cobra's SetOut.
package rootcmd_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/yalp/jsonpath"

	rootcmd "github.com/go-ports/gomarketplace/cmd/cart/root"
	"github.com/go-ports/gomarketplace/internal/config"
	"github.com/go-ports/gomarketplace/internal/storage"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// runCmd executes the root command with args and returns captured stdout.
func runCmd(t testing.TB, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	root := rootcmd.New()
	root.SetOut(&buf)
	root.SetArgs(args)
	execErr := root.ExecuteContext(context.Background())

	return buf.String(), execErr
}

// extractID parses the product id from an add output line of the form
// "Added: <title> (id: <id>)".
func extractID(output string) string {
	for _, line := range strings.Split(output, "\n") {
		if !strings.HasPrefix(line, "Added: ") {
			continue
		}
		start := strings.Index(line, "(id: ")
		end := strings.LastIndex(line, ")")
		if start >= 0 && end > start+5 {
			return line[start+5 : end]
		}
	}
	return ""
}

// listJSON returns `cart list --json` parsed for jsonpath queries.
func listJSON(c *qt.C, home string) any {
	c.TB.Helper()
	out, err := runCmd(c.TB, "--home", home, "list", "--json")
	c.Assert(err, qt.IsNil)
	var v any
	c.Assert(json.Unmarshal([]byte(out), &v), qt.IsNil)
	return v
}

func jp(c *qt.C, doc any, path string) any {
	c.TB.Helper()
	got, err := jsonpath.Read(doc, path)
	c.Assert(err, qt.IsNil)
	return got
}

// ---------------------------------------------------------------------------
// Help / version
// ---------------------------------------------------------------------------

func TestHelp_HappyPath(t *testing.T) {
	c := qt.New(t)

	out, err := runCmd(t, "--help")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "GoMarketplace")
	c.Assert(out, qt.Contains, "increment")
	c.Assert(out, qt.Contains, "decrement")
}

func TestVersion_HappyPath(t *testing.T) {
	c := qt.New(t)

	out, err := runCmd(t, "version")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "cart dev")
}

// ---------------------------------------------------------------------------
// Init
// ---------------------------------------------------------------------------

func TestInit_HappyPath(t *testing.T) {
	c := qt.New(t)

	home := t.TempDir()
	out, err := runCmd(t, "--home", home, "init")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "Cart initialized at "+home)
	c.Assert(out, qt.Contains, "sqlite storage")

	_, err = os.Stat(filepath.Join(home, "cart.db"))
	c.Assert(err, qt.IsNil)
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestList_EmptyCart_HappyPath(t *testing.T) {
	c := qt.New(t)

	out, err := runCmd(t, "--home", t.TempDir(), "list")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "Cart is empty.")
}

func TestList_JSONEmpty_HappyPath(t *testing.T) {
	c := qt.New(t)

	out, err := runCmd(t, "--home", t.TempDir(), "list", "--json")
	c.Assert(err, qt.IsNil)
	c.Assert(strings.TrimSpace(out), qt.Equals, "[]")
}

// ---------------------------------------------------------------------------
// Add / increment / decrement
// ---------------------------------------------------------------------------

func TestAdd_HappyPath(t *testing.T) {
	c := qt.New(t)

	home := t.TempDir()
	out, err := runCmd(t, "--home", home, "add",
		"--id", "p1", "--title", "Shirt", "--image-url", "u", "--price", "10",
	)
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "Added: Shirt (id: p1)")
	c.Assert(out, qt.Contains, "1 item(s), 1 product(s)")

	doc := listJSON(c, home)
	c.Assert(jp(c, doc, "$[0].id"), qt.Equals, "p1")
	c.Assert(jp(c, doc, "$[0].title"), qt.Equals, "Shirt")
	c.Assert(jp(c, doc, "$[0].image_url"), qt.Equals, "u")
	c.Assert(jp(c, doc, "$[0].price"), qt.Equals, 10.0)
	c.Assert(jp(c, doc, "$[0].quantity"), qt.Equals, 1.0)
}

func TestAdd_GeneratesID_HappyPath(t *testing.T) {
	c := qt.New(t)

	home := t.TempDir()
	out, err := runCmd(t, "--home", home, "add", "--title", "Mug")
	c.Assert(err, qt.IsNil)

	id := extractID(out)
	c.Assert(id, qt.HasLen, 36)

	out, err = runCmd(t, "--home", home, "increment", id)
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "2 item(s)")
}

func TestAdd_FailurePath(t *testing.T) {
	c := qt.New(t)

	home := t.TempDir()

	c.Run("missing required --title flag returns error", func(c *qt.C) {
		_, err := runCmd(t, "--home", home, "add", "--id", "p1")
		c.Assert(err, qt.IsNotNil)
	})

	c.Run("negative price returns error", func(c *qt.C) {
		_, err := runCmd(t, "--home", home, "add", "--title", "X", "--price=-1")
		c.Assert(err, qt.ErrorMatches, `cart.AddToCart: invalid product: price -1`)
	})
}

func TestCartLifecycle_HappyPath(t *testing.T) {
	c := qt.New(t)

	home := t.TempDir()
	for i := 0; i < 2; i++ {
		_, err := runCmd(t, "--home", home, "add", "--id", "p1", "--title", "Shirt", "--price", "10")
		c.Assert(err, qt.IsNil)
	}
	_, err := runCmd(t, "--home", home, "add", "--id", "p2", "--title", "Mug", "--price", "4")
	c.Assert(err, qt.IsNil)

	out, err := runCmd(t, "--home", home, "increment", "p1")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "Incremented p1")

	doc := listJSON(c, home)
	c.Assert(jp(c, doc, "$[1].id"), qt.Equals, "p1")
	c.Assert(jp(c, doc, "$[1].quantity"), qt.Equals, 3.0)

	_, err = runCmd(t, "--home", home, "decrement", "p2")
	c.Assert(err, qt.IsNil)

	doc = listJSON(c, home)
	c.Assert(doc, qt.HasLen, 1)
	c.Assert(jp(c, doc, "$[0].id"), qt.Equals, "p1")

	out, err = runCmd(t, "--home", home, "list")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "Shirt")
	c.Assert(out, qt.Not(qt.Contains), "Mug")
}

func TestIncrementDecrement_NotFound_HappyPath(t *testing.T) {
	c := qt.New(t)

	home := t.TempDir()
	for _, op := range []string{"increment", "decrement"} {
		c.Run(op, func(c *qt.C) {
			out, err := runCmd(t, "--home", home, op, "ghost")
			c.Assert(err, qt.IsNil)
			c.Assert(out, qt.Contains, "No product found for ghost")
		})
	}
}

func TestIncrementDecrement_FailurePath(t *testing.T) {
	c := qt.New(t)

	home := t.TempDir()
	for _, op := range []string{"increment", "decrement"} {
		c.Run(op+" without id returns error", func(c *qt.C) {
			_, err := runCmd(t, "--home", home, op)
			c.Assert(err, qt.IsNotNil)
		})
	}
}

// ---------------------------------------------------------------------------
// Clear
// ---------------------------------------------------------------------------

func TestClear_HappyPath(t *testing.T) {
	c := qt.New(t)

	home := t.TempDir()
	_, err := runCmd(t, "--home", home, "add", "--id", "p1", "--title", "Shirt")
	c.Assert(err, qt.IsNil)
	_, err = runCmd(t, "--home", home, "add", "--id", "p1", "--title", "Shirt")
	c.Assert(err, qt.IsNil)

	out, err := runCmd(t, "--home", home, "clear")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "Cleared 2 item(s)")

	out, err = runCmd(t, "--home", home, "list")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "Cart is empty.")
}

// ---------------------------------------------------------------------------
// Backends
// ---------------------------------------------------------------------------

func TestMemoryBackend_DoesNotPersist(t *testing.T) {
	c := qt.New(t)

	home := t.TempDir()
	_, err := runCmd(t, "--home", home, "--backend", "memory", "add", "--id", "p1", "--title", "Shirt")
	c.Assert(err, qt.IsNil)

	out, err := runCmd(t, "--home", home, "--backend", "memory", "list")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "Cart is empty.")
}

func TestBackend_FailurePath(t *testing.T) {
	c := qt.New(t)

	_, err := runCmd(t, "--home", t.TempDir(), "--backend", "etcd", "list")
	c.Assert(err, qt.ErrorMatches, ".*unknown storage backend.*")
}

func TestMalformedStorage_LoadsEmpty(t *testing.T) {
	c := qt.New(t)

	home := t.TempDir()
	kv, err := storage.OpenSQLite(filepath.Join(home, "cart.db"))
	c.Assert(err, qt.IsNil)
	c.Assert(kv.Set(context.Background(), config.DefaultCartKey, "{corrupt"), qt.IsNil)
	c.Assert(kv.Close(), qt.IsNil)

	out, err := runCmd(t, "--home", home, "list")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "Cart is empty.")

	_, err = runCmd(t, "--home", home, "add", "--id", "p1", "--title", "Shirt")
	c.Assert(err, qt.IsNil)
	c.Assert(listJSON(c, home), qt.HasLen, 1)
}

// ---------------------------------------------------------------------------
// Config
// ---------------------------------------------------------------------------

func TestConfig_HappyPath(t *testing.T) {
	c := qt.New(t)

	home := t.TempDir()

	out, err := runCmd(t, "--home", home, "config")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "cart_home: "+home)
	c.Assert(out, qt.Contains, "cart_home_source: flag")
	c.Assert(out, qt.Contains, "backend: sqlite")

	out, err = runCmd(t, "--home", home, "config", "init")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "Created")

	out, err = runCmd(t, "--home", home, "config", "init")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "Config already exists")

	out, err = runCmd(t, "--home", home, "--backend", "memory", "config")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "backend: memory")
}

func TestConfigHome_HappyPath(t *testing.T) {
	c := qt.New(t)

	t.Setenv("HOME", t.TempDir())
	t.Setenv("CART_HOME", "")
	target := filepath.Join(t.TempDir(), "carts")

	out, err := runCmd(t, "config", "set-home", target)
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "Persisted cart home: "+target)

	out, err = runCmd(t, "config")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "cart_home_source: config")

	out, err = runCmd(t, "config", "clear-home")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "Cleared persisted cart home setting.")

	out, err = runCmd(t, "config", "clear-home")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "No persisted cart home setting was found.")
}
