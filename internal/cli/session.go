// internal/cli/session.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatusCommand reports identity and collection counts.
func NewStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show current identity and collection sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.Engine()
			if err != nil {
				return err
			}

			ident := c.Tracker.Current()
			who := "guest"
			if ident.IsAuthenticated() {
				who = ident.Key()
			}

			fmt.Fprintf(cmd.OutOrStdout(), "identity:   %s\n", who)
			fmt.Fprintf(cmd.OutOrStdout(), "cart:       %d lines (%d items, total %d)\n",
				c.Cart.Count(), c.Cart.TotalItems(), c.Cart.TotalPrice())
			fmt.Fprintf(cmd.OutOrStdout(), "wishlist:   %d items\n", c.Wishlist.Count())
			fmt.Fprintf(cmd.OutOrStdout(), "comparison: %d items (%d slots left)\n",
				c.Comparison.Count(), c.Comparison.RemainingSlots())
			return nil
		},
	}
}

// NewLoginCommand signs in with a Firebase ID token.
func NewLoginCommand(opts *RootOptions) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with a Firebase ID token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				return fmt.Errorf("--token is required")
			}
			c, err := opts.Engine()
			if err != nil {
				return err
			}

			ident, err := c.Tracker.SignIn(cmd.Context(), token)
			if err != nil {
				return fmt.Errorf("sign in: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s\n", ident.Key())
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Firebase ID token")

	return cmd
}

// NewLogoutCommand clears the session.
func NewLogoutCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out (collections fall back to guest state)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.Engine()
			if err != nil {
				return err
			}
			c.Tracker.SignOut()
			fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		},
	}
}
