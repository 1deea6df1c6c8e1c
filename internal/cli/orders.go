package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/backloglabs/storefront-client/internal/domain"
)

// NewOrdersCmd creates the "orders" command group.
func NewOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Place and inspect orders",
	}

	cmd.AddCommand(
		newOrdersListCmd(),
		newOrdersGetCmd(),
		newOrdersCreateCmd(),
		newOrdersCancelCmd(),
	)

	return cmd
}

func newOrdersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				orders, err := app.Orders.List(ctx)
				if err != nil {
					return err
				}
				if len(orders) == 0 {
					fmt.Fprintln(out, "No orders yet.")
					return nil
				}
				for _, order := range orders {
					fmt.Fprintf(out, "%s  %-10s  %s  (%d line(s))\n",
						order.OrderNumber, order.Status, order.TotalAmount, len(order.Items))
				}
				return nil
			})
		},
	}
}

func newOrdersGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <order-id>",
		Short: "Show one order in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orderID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid order id %q", args[0])
			}
			return runWithApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				order, err := app.Orders.Get(ctx, orderID)
				if err != nil {
					return err
				}
				printOrder(out, order)
				return nil
			})
		},
	}
}

func newOrdersCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Place an order from the current cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addressID, _ := cmd.Flags().GetInt("address-id")
			payment, _ := cmd.Flags().GetString("payment-method")
			notes, _ := cmd.Flags().GetString("notes")
			if addressID <= 0 {
				return fmt.Errorf("--address-id is required")
			}
			return runWithApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				res := app.Orders.Create(ctx, domain.CreateOrderInput{
					AddressID:   &addressID,
					PaymentInfo: domain.PaymentInfo{PaymentMethod: payment},
					Notes:       notes,
				})
				if !res.Success {
					return resultError(res.Result)
				}
				fmt.Fprintf(out, "Order %s placed, total %s\n", res.Order.OrderNumber, res.Order.TotalAmount)
				return nil
			})
		},
	}

	cmd.Flags().Int("address-id", 0, "Saved address to ship to")
	cmd.Flags().String("payment-method", "COD", "Payment method")
	cmd.Flags().String("notes", "", "Delivery notes")

	return cmd
}

func newOrdersCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <order-id>",
		Short: "Cancel a pending order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orderID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid order id %q", args[0])
			}
			return runWithApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				if res := app.Orders.Cancel(ctx, orderID); !res.Success {
					return resultError(res)
				}
				fmt.Fprintln(out, "Order cancelled.")
				return nil
			})
		},
	}
}

func printOrder(out io.Writer, order *domain.Order) {
	fmt.Fprintf(out, "%s  %s  %s\n", order.OrderNumber, order.Status, order.TotalAmount)
	for _, item := range order.Items {
		fmt.Fprintf(out, "  %s (%s)  x%d  @ %s\n",
			item.ProductName, item.VariantSKU, item.Quantity, item.PriceAtPurchase)
	}
	addr := order.ShippingAddress
	fmt.Fprintf(out, "Ship to: %s, %s, %s %s %s\n",
		addr.FullName, addr.AddressLine1, addr.City, addr.State, addr.PostalCode)
	if order.TrackingNumber != nil {
		fmt.Fprintf(out, "Tracking: %s\n", *order.TrackingNumber)
	}
}
