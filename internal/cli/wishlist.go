// internal/cli/wishlist.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	coll "mallsync/internal/domain/collection"
)

// NewWishlistCommand groups the wishlist operations.
func NewWishlistCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Operate the wishlist",
	}

	cmd.AddCommand(
		newWishlistLsCommand(opts),
		newWishlistAddCommand(opts),
		newWishlistRemoveCommand(opts),
		newWishlistClearCommand(opts),
	)

	return cmd
}

func newWishlistLsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List wishlist items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.Engine()
			if err != nil {
				return err
			}
			for _, it := range c.Wishlist.Items() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d\n", it.ProductID, it.Snapshot.Name, it.Snapshot.UnitPrice)
			}
			return nil
		},
	}
}

func newWishlistAddCommand(opts *RootOptions) *cobra.Command {
	var (
		name  string
		image string
		price int64
	)

	cmd := &cobra.Command{
		Use:   "add <productId>",
		Short: "Add a product to the wishlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.Engine()
			if err != nil {
				return err
			}
			snap := coll.Snapshot{Name: name, ImageURL: image, UnitPrice: price}
			return report(cmd, c.Wishlist.AddItem(args[0], snap))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "product display name")
	cmd.Flags().StringVar(&image, "image", "", "product image URL")
	cmd.Flags().Int64Var(&price, "price", 0, "unit price")

	return cmd
}

func newWishlistRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <productId>",
		Short: "Remove a product from the wishlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.Engine()
			if err != nil {
				return err
			}
			return report(cmd, c.Wishlist.Remove(args[0]))
		},
	}
}

func newWishlistClearCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the wishlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.Engine()
			if err != nil {
				return err
			}
			return report(cmd, c.Wishlist.Clear())
		},
	}
}
