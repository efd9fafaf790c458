// Package addcmd implements the `cart add` command.
package addcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/gomarketplace/cmd/cart/shared"
	"github.com/go-ports/gomarketplace/internal/cart"
	"github.com/go-ports/gomarketplace/internal/models"
)

// Command implements `cart add`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	id       string
	title    string
	imageURL string
	price    float64
}

// New creates the add command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "add",
		Short: "Add one unit of a product to the cart",
		Args:  cobra.NoArgs,
		RunE:  ctx.RunWithCart(c.run),
	}

	f := c.cmd.Flags()
	f.StringVar(&c.id, "id", "", "Product ID (default: a new random ID)")
	f.StringVar(&c.title, "title", "", "Product title (required)")
	f.StringVar(&c.imageURL, "image-url", "", "Product image URL")
	f.Float64Var(&c.price, "price", 0, "Unit price")

	_ = c.cmd.MarkFlagRequired("title")

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	id := c.id
	if id == "" {
		id = models.NewProductID()
	}

	products, err := cart.FromContext(cmd.Context()).AddToCart(cmd.Context(), models.ProductInput{
		ID:       id,
		Title:    c.title,
		ImageURL: c.imageURL,
		Price:    c.price,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Added: %s (id: %s)\n", c.title, id)
	shared.PrintCart(out, products)
	return nil
}
