package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/backloglabs/storefront-client/internal/api"
	"github.com/backloglabs/storefront-client/internal/domain"
)

// runWithApp builds the client stack, restores any saved session, runs fn,
// and persists session state on the way out.
func runWithApp(cmd *cobra.Command, fn func(ctx context.Context, app *App, out io.Writer) error) error {
	app, err := NewApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	// Best effort: a missing or expired refresh cookie just leaves the
	// session signed out.
	_ = app.Auth.Init(ctx)

	return fn(ctx, app, cmd.OutOrStdout())
}

// resultError converts a failed operation outcome into a command error so
// cobra reports it and sets a non-zero exit code.
func resultError(res api.Result) error {
	if res.Success {
		return nil
	}
	return fmt.Errorf("%s", res.Message)
}

func derefOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

func printCart(out io.Writer, cart *domain.Cart) {
	if cart == nil || len(cart.Items) == 0 {
		fmt.Fprintln(out, "Your cart is empty.")
		return
	}
	for _, item := range cart.Items {
		variant := item.Variant.SKU
		if size := derefOr(item.Variant.Size, ""); size != "" {
			variant += " / " + size
		}
		if color := derefOr(item.Variant.ColorName, ""); color != "" {
			variant += " / " + color
		}
		fmt.Fprintf(out, "#%d  %s (%s)  x%d  @ %s\n",
			item.ID, item.Product.Name, variant, item.Quantity, item.Product.BasePrice)
	}
	fmt.Fprintf(out, "\n%d item(s), subtotal %s\n", cart.TotalItems, cart.Subtotal)
}
