package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-dataset-sync/internal/service"
	"github.com/spf13/cobra"
)

func (c *cli) newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <dataset> [key]",
		GroupID: "data",
		Short:   "Print a value, or every value of a dataset",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := c.app.Engine()

			if len(args) == 1 {
				values, err := engine.GetValues(args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd, values)
			}

			value, found, err := engine.GetValue(args[0], args[1])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("key %q not found in dataset %q", args[1], args[0])
			}
			return printJSON(cmd, value)
		},
	}
}

func (c *cli) newSetCmd() *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:     "set <dataset> <key> [value]",
		GroupID: "data",
		Short:   "Write a value locally",
		Long: `Write a value to the local dataset. The value is parsed as JSON and
taken as a plain string when it is not valid JSON. An empty value or
--remove deletes the key. The write is pushed on the next sync.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var value any
			if len(args) == 3 && !remove {
				value = parseValue(args[2])
			}

			if err := c.app.Engine().SetValueStrict(args[0], args[1], value); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d pending change(s) in %q\n", c.app.Engine().PendingCount(args[0]), args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&remove, "remove", false, "Remove the key")

	return cmd
}

func (c *cli) newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "sync [dataset...]",
		GroupID: "sync",
		Short:   "Push pending changes and merge the remote state",
		Long: `Sync the named datasets, or every dataset with pending changes.
A dataset rejected because of a conflicting remote change is refreshed;
run sync again to push the rebased changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			engine := c.app.Engine()

			if len(args) == 0 {
				return engine.SyncAll(ctx)
			}

			var errs []error
			for _, ds := range args {
				err := engine.Sync(ctx, ds)

				var failure *service.SyncFailure
				if errors.As(err, &failure) && failure.Conflict() {
					fmt.Fprintf(cmd.ErrOrStderr(), "conflict in %q, refreshing\n", ds)
					if refreshErr := engine.Refresh(ctx, ds); refreshErr != nil {
						err = errors.Join(err, refreshErr)
					}
				}
				if err != nil {
					errs = append(errs, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%q synced\n", ds)
			}
			return errors.Join(errs...)
		},
	}
}

func (c *cli) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		GroupID: "sync",
		Short:   "Show the identity and pending changes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			engine := c.app.Engine()

			if creds, ok := engine.Credentials(); ok {
				fmt.Fprintf(out, "identity: %s (authenticated: %t)\n", creds.IdentityID, creds.Authenticated)
			}
			if err := c.app.Offline(); err != nil {
				fmt.Fprintf(out, "offline: %v\n", err)
			}

			for _, ds := range engine.Datasets() {
				fmt.Fprintf(out, "%-24s %d pending\n", ds, engine.PendingCount(ds))
			}
			return nil
		},
	}
}

func (c *cli) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		GroupID: "sync",
		Short:   "Sync in the background until interrupted",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Fprintln(cmd.OutOrStdout(), "watching, press Ctrl+C to stop")
			return c.app.Watch(ctx)
		},
	}
}

// parseValue decodes raw as JSON, falling back to the raw string.
func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
