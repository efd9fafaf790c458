// Package shared holds the context passed to all CLI commands.
package shared

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/go-ports/gomarketplace/internal/cart"
	"github.com/go-ports/gomarketplace/internal/models"
	"github.com/go-ports/gomarketplace/internal/service"
)

// Context carries global CLI state (flags set on the root command).
type Context struct {
	// CartHome overrides the cart home directory.
	// When empty, resolution falls through to CART_HOME env var → persisted config → ~/.gomarketplace.
	CartHome string
	// Backend overrides the storage backend from config.yaml.
	Backend string
}

// RunWithCart wraps run so that it executes with the session's loaded cart
// attached to the command context. The session is closed when run returns.
func (c *Context) RunWithCart(run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		svc, err := service.New(cmd.Context(), c.CartHome, service.WithBackend(c.Backend))
		if err != nil {
			return err
		}
		defer svc.Close()

		cmd.SetContext(cart.WithStore(cmd.Context(), svc.Cart()))
		return run(cmd, args)
	}
}

// PrintCart writes products as one line per entry followed by a total line.
func PrintCart(out io.Writer, products models.Cart) {
	if len(products) == 0 {
		fmt.Fprintln(out, "Cart is empty.")
		return
	}
	for _, p := range products {
		fmt.Fprintf(out, " %-3d x %s (id: %s, price: %.2f)\n", p.Quantity, p.Title, p.ID, p.Price)
	}
	fmt.Fprintf(out, "%d item(s), %d product(s)\n", products.Count(), len(products))
}
