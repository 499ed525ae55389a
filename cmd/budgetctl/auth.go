package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"budgetwise/internal/auth"
)

func signupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a BudgetWise account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, _ := cmd.Flags().GetString("email")
			name, _ := cmd.Flags().GetString("name")
			currency, _ := cmd.Flags().GetString("currency")
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}

			client := newAuthClient(cmd.Context())
			r := client.Signup(cmd.Context(), auth.SignupInput{
				Email:           email,
				Password:        password,
				Name:            name,
				DefaultCurrency: strings.ToUpper(currency),
			})
			if err := resultErr(r); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if r.Data.RequiresConfirmation {
				fmt.Fprintf(out, "Account %s created, confirm it before logging in\n", r.Data.User.Email)
				return nil
			}
			fmt.Fprintf(out, "Welcome, %s! You are logged in as %s\n", displayName(r.Data.User), r.Data.User.Email)
			return nil
		},
	}

	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("name", "", "display name")
	cmd.Flags().String("currency", "", "default currency (USD, EUR, GBP, JPY, INR, CAD)")
	cmd.Flags().String("password", "", "password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session locally",
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, _ := cmd.Flags().GetString("email")
			if email == "" {
				email = viper.GetString("email")
			}
			if email == "" {
				return fmt.Errorf("--email is required")
			}
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}

			client := newAuthClient(cmd.Context())
			r := client.Login(cmd.Context(), auth.LoginInput{Email: email, Password: password})
			if err := resultErr(r); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", r.Data.User.Email)
			return nil
		},
	}

	cmd.Flags().String("email", "", "account email (or BUDGETWISE_EMAIL)")
	cmd.Flags().String("password", "", "password (prompted when omitted)")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the stored tokens",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := newAuthClient(cmd.Context())
			if !client.IsAuthenticated() {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			r := client.Logout(cmd.Context())
			if r.Error != nil && r.Error.Code == auth.CodeNetworkError {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: server not reached (%s), local session removed\n", r.Error.Message)
				return nil
			}
			if err := resultErr(r); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := newAuthClient(cmd.Context())
			api := newAPIClient(client)

			var resp struct {
				User auth.User `json:"user"`
			}
			if err := api.getJSON(cmd.Context(), "/api/v1/profile", &resp); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s <%s>\n", displayName(resp.User), resp.User.Email)
			fmt.Fprintf(out, "Default currency: %s\n", resp.User.DefaultCurrency)
			return nil
		},
	}
}

func passwordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Reset a forgotten password",
	}

	forgot := &cobra.Command{
		Use:   "forgot EMAIL",
		Short: "Request a password reset token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAuthClient(cmd.Context())
			if err := resultErr(client.RequestPasswordReset(cmd.Context(), args[0])); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "If the account exists, a reset token has been issued")
			return nil
		},
	}

	reset := &cobra.Command{
		Use:   "reset TOKEN",
		Short: "Set a new password with a reset token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}
			client := newAuthClient(cmd.Context())
			if err := resultErr(client.ConfirmPasswordReset(cmd.Context(), args[0], password)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password updated, log in again")
			return nil
		},
	}
	reset.Flags().String("password", "", "new password (prompted when omitted)")

	cmd.AddCommand(forgot, reset)
	return cmd
}

// readPassword takes --password, then BUDGETWISE_PASSWORD, then prompts.
// Input that is not a terminal is read as a single line.
func readPassword(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("password"); p != "" {
		return p, nil
	}
	if p := viper.GetString("password"); p != "" {
		return p, nil
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(raw), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func displayName(u auth.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
