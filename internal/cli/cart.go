package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

// NewCartCmd creates the "cart" command group.
func NewCartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect and mutate the shopping cart",
	}

	cmd.AddCommand(
		newCartShowCmd(),
		newCartAddCmd(),
		newCartUpdateCmd(),
		newCartRemoveCmd(),
		newCartClearCmd(),
	)

	return cmd
}

func newCartShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				cart, err := app.Cart.GetCart(ctx)
				if err != nil {
					return err
				}
				printCart(out, cart)
				return nil
			})
		},
	}
}

func newCartAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <variant-id>",
		Short: "Add a product variant to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			variantID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid variant id %q", args[0])
			}
			quantity, _ := cmd.Flags().GetInt("quantity")
			return runWithApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				res := app.Cart.AddToCart(ctx, variantID, quantity)
				if !res.Success {
					return resultError(res.Result)
				}
				printCart(out, res.Cart)
				return nil
			})
		},
	}

	cmd.Flags().IntP("quantity", "q", 1, "Quantity to add")

	return cmd
}

func newCartUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <item-id> <quantity>",
		Short: "Change the quantity of a cart line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			return runWithApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				if _, err := app.Cart.GetCart(ctx); err != nil {
					return err
				}
				res := app.Cart.UpdateQuantity(ctx, itemID, quantity)
				if !res.Success {
					return resultError(res.Result)
				}
				printCart(out, res.Cart)
				return nil
			})
		},
	}
}

func newCartRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <item-id>",
		Short: "Remove a line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}
			return runWithApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				if _, err := app.Cart.GetCart(ctx); err != nil {
					return err
				}
				res := app.Cart.RemoveItem(ctx, itemID)
				if !res.Success {
					return resultError(res.Result)
				}
				printCart(out, res.Cart)
				return nil
			})
		},
	}
}

func newCartClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every item from the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				if res := app.Cart.ClearCart(ctx); !res.Success {
					return resultError(res)
				}
				fmt.Fprintln(out, "Cart cleared.")
				return nil
			})
		},
	}
}
