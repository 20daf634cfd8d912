// internal/cli/compare.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	coll "mallsync/internal/domain/collection"
)

// NewCompareCommand groups the comparison-list operations.
func NewCompareCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Operate the comparison list",
	}

	cmd.AddCommand(
		newCompareLsCommand(opts),
		newCompareAddCommand(opts),
		newCompareRemoveCommand(opts),
		newCompareClearCommand(opts),
	)

	return cmd
}

func newCompareLsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List compared products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.Engine()
			if err != nil {
				return err
			}
			for _, it := range c.Comparison.Items() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d\n", it.ProductID, it.Snapshot.Name, it.Snapshot.UnitPrice)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "slots left: %d\n", c.Comparison.RemainingSlots())
			return nil
		},
	}
}

func newCompareAddCommand(opts *RootOptions) *cobra.Command {
	var (
		name  string
		image string
		price int64
	)

	cmd := &cobra.Command{
		Use:   "add <productId>",
		Short: "Add a product to the comparison list (max 4)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.Engine()
			if err != nil {
				return err
			}
			snap := coll.Snapshot{Name: name, ImageURL: image, UnitPrice: price}
			return report(cmd, c.Comparison.AddItem(args[0], snap))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "product display name")
	cmd.Flags().StringVar(&image, "image", "", "product image URL")
	cmd.Flags().Int64Var(&price, "price", 0, "unit price")

	return cmd
}

func newCompareRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <productId>",
		Short: "Remove a product from the comparison list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.Engine()
			if err != nil {
				return err
			}
			return report(cmd, c.Comparison.Remove(args[0]))
		},
	}
}

func newCompareClearCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the comparison list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.Engine()
			if err != nil {
				return err
			}
			return report(cmd, c.Comparison.Clear())
		},
	}
}
