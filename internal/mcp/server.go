// Package mcp provides the stdio MCP server exposing the cart as tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/go-ports/gomarketplace/internal/buildinfo"
	"github.com/go-ports/gomarketplace/internal/cart"
	"github.com/go-ports/gomarketplace/internal/models"
	"github.com/go-ports/gomarketplace/internal/service"
)

const addDescription = `Add one unit of a product to the cart. If the product is already in the cart its quantity is raised by one; otherwise it is added with quantity 1. Returns the full cart.`

const decrementDescription = `Remove one unit of a product from the cart. ` +
	`When the quantity reaches zero the product is removed entirely. Returns the full cart.`

// NewServer creates and registers all cart tools on a new MCP server.
// It is separate from Serve so tests can drive it without stdio.
func NewServer(store *cart.Store) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("gomarketplace-cart", buildinfo.Version)
	registerTools(s, store)
	return s
}

// Serve starts the stdio MCP server for the cart rooted at cartHome,
// blocking until stdin closes. opts are passed through to service.New.
func Serve(ctx context.Context, cartHome string, opts ...service.Option) error {
	svc, s, err := openSession(ctx, cartHome, opts...)
	if err != nil {
		return err
	}
	defer svc.Close()

	return mcpserver.ServeStdio(s)
}

// openSession opens the cart service and builds a server over its store.
func openSession(
	ctx context.Context,
	cartHome string,
	opts ...service.Option,
) (*service.Service, *mcpserver.MCPServer, error) {
	svc, err := service.New(ctx, cartHome, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("mcp: init service: %w", err)
	}
	return svc, NewServer(svc.Cart()), nil
}

func registerTools(s *mcpserver.MCPServer, store *cart.Store) {
	s.AddTool(mcp.NewTool("cart_list",
		mcp.WithDescription("List the products currently in the cart."),
	), func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return cartResult(store.Products())
	})

	s.AddTool(mcp.NewTool("cart_add",
		mcp.WithDescription(addDescription),
		mcp.WithString("id",
			mcp.Description("Product identifier, stable across sessions."),
			mcp.Required(),
		),
		mcp.WithString("title",
			mcp.Description("Display title."),
		),
		mcp.WithString("image_url",
			mcp.Description("Product image URL."),
		),
		mcp.WithNumber("price",
			mcp.Description("Unit price."),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleAdd(ctx, store, req)
	})

	s.AddTool(mcp.NewTool("cart_increment",
		mcp.WithDescription("Raise the quantity of a product already in the cart by one."),
		mcp.WithString("id", mcp.Description("Product identifier."), mcp.Required()),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleByID(ctx, req, store.Increment)
	})

	s.AddTool(mcp.NewTool("cart_decrement",
		mcp.WithDescription(decrementDescription),
		mcp.WithString("id", mcp.Description("Product identifier."), mcp.Required()),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleByID(ctx, req, store.Decrement)
	})

	s.AddTool(mcp.NewTool("cart_clear",
		mcp.WithDescription("Remove every product from the cart."),
	), func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		products, err := store.Clear(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return cartResult(products)
	})
}

// ---------------------------------------------------------------------------
// Tool handlers
// ---------------------------------------------------------------------------

func handleAdd(ctx context.Context, store *cart.Store, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in := models.ProductInput{
		ID:       req.GetString("id", ""),
		Title:    req.GetString("title", ""),
		ImageURL: req.GetString("image_url", ""),
		Price:    req.GetFloat("price", 0),
	}
	if in.ID == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	products, err := store.AddToCart(ctx, in)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return cartResult(products)
}

func handleByID(
	ctx context.Context,
	req mcp.CallToolRequest,
	op func(context.Context, string) (models.Cart, error),
) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	products, err := op(ctx, id)
	if errors.Is(err, cart.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("product %q is not in the cart", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return cartResult(products)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// cartResult renders products as {"products": [...], "count": n}.
func cartResult(products models.Cart) (*mcp.CallToolResult, error) {
	return jsonResult(map[string]any{
		"products": products.Clone(),
		"count":    products.Count(),
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
