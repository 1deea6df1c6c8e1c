package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewAdminCmd creates the "admin" command group.
func NewAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin console session and listings",
	}

	cmd.AddCommand(
		newAdminLoginCmd(),
		newAdminWhoamiCmd(),
		newAdminOrdersCmd(),
		newAdminLogoutCmd(),
	)

	return cmd
}

func newAdminLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Sign in to the admin console",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				res := app.Admin.Login(ctx, args[0], args[1])
				if !res.Success {
					return resultError(res)
				}
				fmt.Fprintf(out, "Admin signed in as %s\n", args[0])
				return nil
			})
		},
	}
}

func newAdminWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				admin, res := app.Admin.GetProfile(ctx)
				if admin == nil {
					return resultError(res)
				}
				fmt.Fprintf(out, "%s (%s)\n", admin.Email, admin.Role)
				return nil
			})
		},
	}
}

func newAdminOrdersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List all orders in the system",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				orders, err := app.Admin.ListOrders(ctx)
				if err != nil {
					return err
				}
				if len(orders) == 0 {
					fmt.Fprintln(out, "No orders.")
					return nil
				}
				for _, order := range orders {
					fmt.Fprintf(out, "%s  %-10s  %s\n", order.OrderNumber, order.Status, order.TotalAmount)
				}
				return nil
			})
		},
	}
}

func newAdminLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the persisted admin session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				app.Admin.Logout()
				fmt.Fprintln(out, "Admin signed out.")
				return nil
			})
		},
	}
}
