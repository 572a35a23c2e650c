package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-dataset-sync/internal/client"
	"github.com/MKhiriev/go-dataset-sync/internal/config"
	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/MKhiriev/go-dataset-sync/internal/service"
	"github.com/spf13/cobra"
)

// cli carries the app shared by the subcommands of one invocation.
type cli struct {
	flags *config.Flags
	app   *client.App
}

// execute runs the command line and persists the app state even when the
// command fails.
func execute() error {
	c := &cli{}
	err := c.rootCmd().Execute()
	return errors.Join(err, c.close(context.Background()))
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dataset-sync",
		Short: "Offline-first key/value dataset sync client",
		Long: `Read and write key/value datasets locally and sync them with a
remote record store.

Writes are kept in a local cache and pushed on "sync" or by "watch".
Without --identity-id and --identity-token the client works as a guest.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.start,
	}
	c.flags = config.BindFlags(root.PersistentFlags())

	root.AddGroup(&cobra.Group{ID: "data", Title: "Data Commands:"}, &cobra.Group{ID: "sync", Title: "Sync Commands:"})
	root.AddCommand(
		c.newGetCmd(),
		c.newSetCmd(),
		c.newSyncCmd(),
		c.newStatusCmd(),
		c.newWatchCmd(),
		newVersionCmd(),
	)

	return root
}

func (c *cli) start(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations["skipApp"] == "true" {
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
		cmd.SetContext(ctx)
	}

	cfg, err := config.GetClientConfig(c.flags)
	if err != nil {
		return fmt.Errorf("error getting configs: %w", err)
	}

	log := logger.NewClientLogger("dataset-sync-client", cfg.App.LogFile)

	services, err := service.NewClientServices(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("create client services: %w", err)
	}

	app, err := client.NewApp(services, cfg, log)
	if err != nil {
		services.Close()
		return fmt.Errorf("init client app: %w", err)
	}

	if err = app.Start(ctx); err != nil {
		app.Close(ctx)
		return err
	}

	c.app = app
	return nil
}

func (c *cli) close(ctx context.Context) error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close(ctx)
	c.app = nil
	return err
}

func newVersionCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:         "version",
		Short:       "Print build information",
		Annotations: map[string]string{"skipApp": "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if asJSON {
				return printJSON(cmd, buildInfo())
			}
			printBuildInfo(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	return cmd
}
