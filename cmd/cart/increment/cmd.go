// Package incrementcmd implements the `cart increment` command.
package incrementcmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/gomarketplace/cmd/cart/shared"
	"github.com/go-ports/gomarketplace/internal/cart"
)

// Command implements `cart increment`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the increment command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "increment <product-id>",
		Short: "Raise the quantity of a product by one",
		Args:  cobra.ExactArgs(1),
		RunE:  ctx.RunWithCart(c.run),
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (*Command) run(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	products, err := cart.FromContext(cmd.Context()).Increment(cmd.Context(), args[0])
	if errors.Is(err, cart.ErrNotFound) {
		fmt.Fprintf(out, "No product found for %s\n", args[0])
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Incremented %s\n", args[0])
	shared.PrintCart(out, products)
	return nil
}
