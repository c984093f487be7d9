package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/annaglova/breedhub-sub002/internal/app"
	"github.com/annaglova/breedhub-sub002/internal/engine"
	"github.com/annaglova/breedhub-sub002/internal/model"
	"github.com/spf13/cobra"
)

func newSeedCommand(g *globalFlags, logW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "seed [path...]",
		Short: "Create the nodes declared in HCL seed files and rebuild the graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withApp(cmd, logW, func(ctx context.Context, a *app.App) error {
				res, err := a.Seed(ctx, args...)
				if err != nil {
					return err
				}
				printf(cmd, "created %d, skipped %d\n", len(res.Created), len(res.Skipped))
				return nil
			})
		},
	}
}

func newShowCommand(g *globalFlags, logW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a node as stored",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withApp(cmd, logW, func(ctx context.Context, a *app.App) error {
				n, err := a.Engine().GetNode(ctx, args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), n)
			})
		},
	}
}

func newDataCommand(g *globalFlags, logW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "data <id>",
		Short: "Compute and print the effective data of a node",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withApp(cmd, logW, func(ctx context.Context, a *app.App) error {
				data, err := a.Engine().ComputeData(ctx, args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), data)
			})
		},
	}
}

func newListCommand(g *globalFlags, logW io.Writer) *cobra.Command {
	var f engine.Filter
	var typ string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List node IDs",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.Type = model.NodeType(typ)
			return g.withApp(cmd, logW, func(ctx context.Context, a *app.App) error {
				nodes, err := a.Engine().ListNodes(ctx, f)
				if err != nil {
					return err
				}
				for _, n := range nodes {
					printf(cmd, "%s\t%s\n", n.ID, n.Type)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "Only nodes of this type.")
	cmd.Flags().StringVar(&f.Tag, "tag", "", "Only nodes carrying this tag.")
	cmd.Flags().BoolVar(&f.IncludeDeleted, "deleted", false, "Include soft-deleted nodes.")
	return cmd
}

func newRebuildCommand(g *globalFlags, logW io.Writer) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "rebuild [id]",
		Short: "Recompute a structural node from its children, or every node with --all",
		Args: func(cmd *cobra.Command, args []string) error {
			if all {
				return exactArgs(0)(cmd, args)
			}
			return exactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withApp(cmd, logW, func(ctx context.Context, a *app.App) error {
				if all {
					return a.Engine().RebuildAll(ctx)
				}
				return a.Engine().RebuildSelfData(ctx, args[0])
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Rebuild every live node bottom-up.")
	return cmd
}

func newCascadeCommand(g *globalFlags, logW io.Writer) *cobra.Command {
	var self bool
	cmd := &cobra.Command{
		Use:   "cascade <id>",
		Short: "Recompute every ancestor of a node",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withApp(cmd, logW, func(ctx context.Context, a *app.App) error {
				if self {
					return a.Engine().CascadeUpdate(ctx, args[0])
				}
				return a.Engine().CascadeUpdateUp(ctx, args[0])
			})
		},
	}
	cmd.Flags().BoolVar(&self, "self", false, "Also recompute the node itself.")
	return cmd
}

func newDepCommand(g *globalFlags, logW io.Writer, use string, add bool) *cobra.Command {
	var opts engine.MutationOptions
	short := "Remove a dependency from a node"
	if add {
		short = "Append a dependency to a node"
	}
	cmd := &cobra.Command{
		Use:   use + " <owner> <dep>",
		Short: short,
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withApp(cmd, logW, func(ctx context.Context, a *app.App) error {
				if add {
					return a.Engine().AddDependency(ctx, args[0], args[1], opts)
				}
				return a.Engine().RemoveDependency(ctx, args[0], args[1], opts)
			})
		},
	}
	cmd.Flags().BoolVar(&opts.SkipCascade, "skip-cascade", false, "Do not recompute ancestors of the owner.")
	return cmd
}

func newChildCommand(g *globalFlags, logW io.Writer, use string, add bool) *cobra.Command {
	short := "Detach a child from a structural parent"
	if add {
		short = "Attach a child to a structural parent"
	}
	return &cobra.Command{
		Use:   use + " <parent> <child>",
		Short: short,
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withApp(cmd, logW, func(ctx context.Context, a *app.App) error {
				if add {
					return a.Engine().AddChildToParent(ctx, args[0], args[1])
				}
				return a.Engine().RemoveChildFromParent(ctx, args[0], args[1])
			})
		},
	}
}

func newDeleteCommand(g *globalFlags, logW io.Writer) *cobra.Command {
	var opts engine.DeleteOptions
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Soft-delete a node and detach it from its parents",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withApp(cmd, logW, func(ctx context.Context, a *app.App) error {
				deleted, err := a.Engine().DeleteWithDependents(ctx, args[0], opts)
				if err != nil {
					return err
				}
				for _, id := range deleted {
					printf(cmd, "%s\n", id)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&opts.DeleteChildren, "children", false, "Also delete the non-shared subtree.")
	return cmd
}

func newCloneCommand(g *globalFlags, logW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "clone <id>",
		Short: "Copy a node and its non-shared subtree under fresh IDs",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withApp(cmd, logW, func(ctx context.Context, a *app.App) error {
				id, err := a.Engine().CloneSubtree(ctx, args[0])
				if err != nil {
					return err
				}
				printf(cmd, "%s\n", id)
				return nil
			})
		},
	}
}

func newInstantiateCommand(g *globalFlags, logW io.Writer) *cobra.Command {
	var parent string
	cmd := &cobra.Command{
		Use:   "instantiate <template>",
		Short: "Create a working copy of a template tree",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withApp(cmd, logW, func(ctx context.Context, a *app.App) error {
				id, err := a.Engine().InstantiateFromTemplate(ctx, args[0], parent)
				if err != nil {
					return err
				}
				printf(cmd, "%s\n", id)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "Structural node to attach the copy to.")
	return cmd
}

func newServeCommand(g *globalFlags, logW io.Writer) *cobra.Command {
	var port int
	var notifyURL, notifyNamespace string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve health and metrics, forwarding changes to a socket.io endpoint",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.config(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("healthcheck-port") {
				cfg.HealthcheckPort = port
			}
			if cmd.Flags().Changed("notify-url") {
				cfg.NotifyURL = notifyURL
			}
			if cmd.Flags().Changed("notify-namespace") {
				cfg.NotifyNamespace = notifyNamespace
			}
			if cfg, err = app.NewConfig(*cfg); err != nil {
				return usageError(err)
			}

			a, err := app.NewApp(logW, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.Serve(ctx)
		},
	}
	cmd.Flags().IntVar(&port, "healthcheck-port", 0, "Port for the health and metrics server. 0 is disabled.")
	cmd.Flags().StringVar(&notifyURL, "notify-url", "", "socket.io endpoint to forward changes to.")
	cmd.Flags().StringVar(&notifyNamespace, "notify-namespace", "", "socket.io namespace for forwarded changes.")
	return cmd
}
