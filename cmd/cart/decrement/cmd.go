// Package decrementcmd implements the `cart decrement` command.
package decrementcmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/gomarketplace/cmd/cart/shared"
	"github.com/go-ports/gomarketplace/internal/cart"
)

// Command implements `cart decrement`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the decrement command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "decrement <product-id>",
		Short: "Lower the quantity of a product by one, removing it at zero",
		Args:  cobra.ExactArgs(1),
		RunE:  ctx.RunWithCart(c.run),
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (*Command) run(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	products, err := cart.FromContext(cmd.Context()).Decrement(cmd.Context(), args[0])
	if errors.Is(err, cart.ErrNotFound) {
		fmt.Fprintf(out, "No product found for %s\n", args[0])
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Decremented %s\n", args[0])
	shared.PrintCart(out, products)
	return nil
}
