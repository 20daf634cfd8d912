// internal/cli/root.go
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"mallsync/internal/platform/di"
)

// RootOptions holds state shared by all subcommands. The engine container is
// built once, on first use.
type RootOptions struct {
	ctx       context.Context
	container *di.Container
}

// Engine returns the running engine container, building it on first call.
func (o *RootOptions) Engine() (*di.Container, error) {
	if o.container != nil {
		return o.container, nil
	}
	c, err := di.NewContainer(o.ctx)
	if err != nil {
		return nil, fmt.Errorf("start engine: %w", err)
	}
	o.container = c
	return c, nil
}

// NewRootCommand creates the mallsync root command.
func NewRootCommand(ctx context.Context) *cobra.Command {
	opts := &RootOptions{ctx: ctx}

	cmd := &cobra.Command{
		Use:   "mallsync",
		Short: "Mall collection sync engine (cart / wishlist / comparison)",
		Long: `mallsync keeps the mall's user collections (cart, wishlist, comparison
list) consistent across local cache and the remote mall backend, surviving
guest sessions and sign-in transitions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.container != nil {
				// drain in-flight remote syncs before the process exits
				opts.container.WaitSync()
				opts.container.Close()
			}
		},
	}

	cmd.AddCommand(
		NewStatusCommand(opts),
		NewLoginCommand(opts),
		NewLogoutCommand(opts),
		NewCartCommand(opts),
		NewWishlistCommand(opts),
		NewCompareCommand(opts),
	)

	return cmd
}

// Execute runs the CLI.
func Execute(ctx context.Context) error {
	return NewRootCommand(ctx).ExecuteContext(ctx)
}
