// Package rootcmd wires the root cobra.Command for the cart CLI binary.
package rootcmd

import (
	"github.com/spf13/cobra"

	addcmd "github.com/go-ports/gomarketplace/cmd/cart/add"
	clearcmd "github.com/go-ports/gomarketplace/cmd/cart/clear"
	configcmd "github.com/go-ports/gomarketplace/cmd/cart/config"
	decrementcmd "github.com/go-ports/gomarketplace/cmd/cart/decrement"
	incrementcmd "github.com/go-ports/gomarketplace/cmd/cart/increment"
	initcmd "github.com/go-ports/gomarketplace/cmd/cart/init"
	listcmd "github.com/go-ports/gomarketplace/cmd/cart/list"
	mcpcmd "github.com/go-ports/gomarketplace/cmd/cart/mcp"
	"github.com/go-ports/gomarketplace/cmd/cart/shared"
	versioncmd "github.com/go-ports/gomarketplace/cmd/cart/version"
)

// New creates and returns the root cobra.Command for the cart CLI.
func New() *cobra.Command {
	ctx := &shared.Context{}

	root := &cobra.Command{
		Use:           "cart",
		Short:         "GoMarketplace — a shopping cart kept on this device",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}

	pf := root.PersistentFlags()
	pf.StringVar(
		&ctx.CartHome, "home", "",
		"Override cart home directory (default: $CART_HOME env → persisted config → ~/.gomarketplace)",
	)
	pf.StringVar(&ctx.Backend, "backend", "", "Override storage backend: sqlite, redis, memory")

	root.AddCommand(
		initcmd.New(ctx).Cmd(),
		listcmd.New(ctx).Cmd(),
		addcmd.New(ctx).Cmd(),
		incrementcmd.New(ctx).Cmd(),
		decrementcmd.New(ctx).Cmd(),
		clearcmd.New(ctx).Cmd(),
		configcmd.New(ctx).Cmd(),
		mcpcmd.New(ctx).Cmd(),
		versioncmd.New(ctx).Cmd(),
	)

	return root
}
