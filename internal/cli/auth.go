package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewLoginCmd creates the "login" subcommand.
func NewLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Sign in to the storefront",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				res := app.Auth.Login(ctx, args[0], args[1])
				if !res.Success {
					return resultError(res)
				}
				user := app.Auth.User()
				fmt.Fprintf(out, "Signed in as %s\n", user.Email)
				return nil
			})
		},
	}
	return cmd
}

// NewSignupCmd creates the "signup" subcommand.
func NewSignupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup <email> <password>",
		Short: "Create a storefront account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			firstName, _ := cmd.Flags().GetString("first-name")
			lastName, _ := cmd.Flags().GetString("last-name")
			return runWithApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				res := app.Auth.Signup(ctx, args[0], args[1], firstName, lastName)
				if !res.Success {
					return resultError(res)
				}
				fmt.Fprintf(out, "Account created. Signed in as %s\n", args[0])
				return nil
			})
		},
	}

	cmd.Flags().String("first-name", "", "First name")
	cmd.Flags().String("last-name", "", "Last name")

	return cmd
}

// NewLogoutCmd creates the "logout" subcommand.
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and discard the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				app.Auth.Logout(ctx)
				fmt.Fprintln(out, "Signed out.")
				return nil
			})
		},
	}
}

// NewWhoamiCmd creates the "whoami" subcommand.
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				user, res := app.Auth.GetProfile(ctx)
				if user == nil {
					if guestID := app.Auth.Guest().Current(); guestID != "" {
						fmt.Fprintf(out, "Not signed in (guest session %s)\n", guestID)
						return nil
					}
					if res.Message != "" {
						return resultError(res)
					}
					fmt.Fprintln(out, "Not signed in.")
					return nil
				}
				name := derefOr(user.FirstName, "") + " " + derefOr(user.LastName, "")
				fmt.Fprintf(out, "%s <%s>\n", name, user.Email)
				return nil
			})
		},
	}
}

// NewForgotPasswordCmd creates the "forgot-password" subcommand.
func NewForgotPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forgot-password <email>",
		Short: "Request a password reset email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				res := app.Auth.ForgotPassword(ctx, args[0])
				if !res.Success {
					return resultError(res)
				}
				fmt.Fprintln(out, res.Message)
				return nil
			})
		},
	}
}

// NewResetPasswordCmd creates the "reset-password" subcommand.
func NewResetPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password <token> <new-password>",
		Short: "Reset a password with a reset token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				res := app.Auth.ResetPassword(ctx, args[0], args[1])
				if !res.Success {
					return resultError(res)
				}
				fmt.Fprintln(out, "Password updated.")
				return nil
			})
		},
	}
}
