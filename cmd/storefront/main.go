package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/backloglabs/storefront-client/internal/cli"
)

// Set via ldflags at build time.
var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Backlog storefront client",
	Long:  "Command-line client for the Backlog commerce API: browse the catalog, manage a cart as a guest or signed-in customer, and place orders.",
	// SilenceUsage prevents printing usage on every error
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("storefront version %s\n", version))

	rootCmd.AddCommand(cli.NewLoginCmd())
	rootCmd.AddCommand(cli.NewSignupCmd())
	rootCmd.AddCommand(cli.NewLogoutCmd())
	rootCmd.AddCommand(cli.NewWhoamiCmd())
	rootCmd.AddCommand(cli.NewForgotPasswordCmd())
	rootCmd.AddCommand(cli.NewResetPasswordCmd())
	rootCmd.AddCommand(cli.NewCartCmd())
	rootCmd.AddCommand(cli.NewOrdersCmd())
	rootCmd.AddCommand(cli.NewProductsCmd())
	rootCmd.AddCommand(cli.NewAddressesCmd())
	rootCmd.AddCommand(cli.NewAdminCmd())
}
