package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/backloglabs/storefront-client/internal/domain"
)

// NewAddressesCmd creates the "addresses" command group.
func NewAddressesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addresses",
		Short: "Manage saved shipping addresses",
	}

	cmd.AddCommand(
		newAddressesListCmd(),
		newAddressesCreateCmd(),
		newAddressesDefaultCmd(),
		newAddressesDeleteCmd(),
	)

	return cmd
}

func newAddressesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved addresses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				addresses, err := app.Addresses.List(ctx)
				if err != nil {
					return err
				}
				if len(addresses) == 0 {
					fmt.Fprintln(out, "No saved addresses.")
					return nil
				}
				for _, addr := range addresses {
					marker := " "
					if addr.IsDefault {
						marker = "*"
					}
					fmt.Fprintf(out, "%s #%-4d %s, %s, %s %s %s\n",
						marker, addr.ID, addr.FullName, addr.AddressLine1,
						addr.City, addr.State, addr.PostalCode)
				}
				return nil
			})
		},
	}
}

func newAddressesCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Save a new shipping address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := domain.AddressInput{}
			input.Label, _ = cmd.Flags().GetString("label")
			input.FullName, _ = cmd.Flags().GetString("full-name")
			input.AddressLine1, _ = cmd.Flags().GetString("line1")
			input.AddressLine2, _ = cmd.Flags().GetString("line2")
			input.City, _ = cmd.Flags().GetString("city")
			input.State, _ = cmd.Flags().GetString("state")
			input.PostalCode, _ = cmd.Flags().GetString("postal-code")
			input.Country, _ = cmd.Flags().GetString("country")
			input.PhoneNumber, _ = cmd.Flags().GetString("phone")
			input.IsDefault, _ = cmd.Flags().GetBool("default")
			return runWithApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				res, addr := app.Addresses.Create(ctx, input)
				if !res.Success {
					return resultError(res)
				}
				fmt.Fprintf(out, "Address #%d saved.\n", addr.ID)
				return nil
			})
		},
	}

	cmd.Flags().String("label", "", "Label (Home, Work, ...)")
	cmd.Flags().String("full-name", "", "Recipient full name")
	cmd.Flags().String("line1", "", "Address line 1")
	cmd.Flags().String("line2", "", "Address line 2")
	cmd.Flags().String("city", "", "City")
	cmd.Flags().String("state", "", "State or province")
	cmd.Flags().String("postal-code", "", "Postal code")
	cmd.Flags().String("country", "", "Country")
	cmd.Flags().String("phone", "", "Phone number")
	cmd.Flags().Bool("default", false, "Make this the default address")

	_ = cmd.MarkFlagRequired("full-name")
	_ = cmd.MarkFlagRequired("line1")
	_ = cmd.MarkFlagRequired("city")
	_ = cmd.MarkFlagRequired("state")
	_ = cmd.MarkFlagRequired("postal-code")
	_ = cmd.MarkFlagRequired("country")
	_ = cmd.MarkFlagRequired("phone")

	return cmd
}

func newAddressesDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "default <address-id>",
		Short: "Make a saved address the default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addressID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid address id %q", args[0])
			}
			return runWithApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				if res := app.Addresses.SetDefault(ctx, addressID); !res.Success {
					return resultError(res)
				}
				fmt.Fprintln(out, "Default address updated.")
				return nil
			})
		},
	}
}

func newAddressesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <address-id>",
		Short: "Delete a saved address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addressID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid address id %q", args[0])
			}
			return runWithApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				if res := app.Addresses.Delete(ctx, addressID); !res.Success {
					return resultError(res)
				}
				fmt.Fprintln(out, "Address deleted.")
				return nil
			})
		},
	}
}
