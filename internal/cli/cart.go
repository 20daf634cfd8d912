// internal/cli/cart.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mallsync/internal/application/manager"
	coll "mallsync/internal/domain/collection"
)

// NewCartCommand groups the cart operations.
func NewCartCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Operate the cart",
	}

	cmd.AddCommand(
		newCartLsCommand(opts),
		newCartAddCommand(opts),
		newCartRemoveCommand(opts),
		newCartSetQtyCommand(opts),
		newCartClearCommand(opts),
	)

	return cmd
}

func newCartLsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List cart lines with totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.Engine()
			if err != nil {
				return err
			}
			for _, it := range c.Cart.Items() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\tx%d\t%s\t%d\n",
					it.ProductID, it.Quantity, it.Snapshot.Name, it.Snapshot.UnitPrice)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "total: %d items, %d\n", c.Cart.TotalItems(), c.Cart.TotalPrice())
			return nil
		},
	}
}

func newCartAddCommand(opts *RootOptions) *cobra.Command {
	var (
		qty   int
		name  string
		image string
		price int64
	)

	cmd := &cobra.Command{
		Use:   "add <productId>",
		Short: "Add a product to the cart (merges into an existing line)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.Engine()
			if err != nil {
				return err
			}
			snap := coll.Snapshot{Name: name, ImageURL: image, UnitPrice: price}
			return report(cmd, c.Cart.AddItemQty(args[0], qty, snap))
		},
	}

	cmd.Flags().IntVar(&qty, "qty", 1, "quantity to add")
	cmd.Flags().StringVar(&name, "name", "", "product display name")
	cmd.Flags().StringVar(&image, "image", "", "product image URL")
	cmd.Flags().Int64Var(&price, "price", 0, "unit price")

	return cmd
}

func newCartRemoveCommand(opts *RootOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "remove <productId>",
		Short: "Decrement a cart line by one (--all deletes the line)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.Engine()
			if err != nil {
				return err
			}
			if all {
				return report(cmd, c.Cart.RemoveAll(args[0]))
			}
			return report(cmd, c.Cart.Remove(args[0]))
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "delete the line regardless of quantity")

	return cmd
}

func newCartSetQtyCommand(opts *RootOptions) *cobra.Command {
	var qty int

	cmd := &cobra.Command{
		Use:   "set-qty <productId>",
		Short: "Set an absolute quantity (0 removes the line)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.Engine()
			if err != nil {
				return err
			}
			return report(cmd, c.Cart.SetQuantity(args[0], qty))
		},
	}

	cmd.Flags().IntVar(&qty, "qty", 1, "absolute quantity")
	_ = cmd.MarkFlagRequired("qty")

	return cmd
}

func newCartClearCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.Engine()
			if err != nil {
				return err
			}
			return report(cmd, c.Cart.Clear())
		},
	}
}

// report prints the outcome of a write operation.
func report(cmd *cobra.Command, res manager.Result) error {
	if res.Accepted {
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	}
	return fmt.Errorf("rejected: %s", res.Reason)
}
