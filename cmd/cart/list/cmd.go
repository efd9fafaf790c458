// Package listcmd implements the `cart list` command.
package listcmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/gomarketplace/cmd/cart/shared"
	"github.com/go-ports/gomarketplace/internal/cart"
)

// Command implements `cart list`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	asJSON bool
}

// New creates the list command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "list",
		Short: "Show the products in the cart",
		Args:  cobra.NoArgs,
		RunE:  ctx.RunWithCart(c.run),
	}
	c.cmd.Flags().BoolVar(&c.asJSON, "json", false, "Print the stored JSON representation")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	products := cart.FromContext(cmd.Context()).Products()
	out := cmd.OutOrStdout()

	if c.asJSON {
		b, err := json.MarshalIndent(products, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(b))
		return nil
	}

	shared.PrintCart(out, products)
	return nil
}
