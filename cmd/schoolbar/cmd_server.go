package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var migrateOnServe bool

// schoolbar serve
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		db, err := application.Boot()
		if err != nil {
			return err
		}
		if migrateOnServe {
			if err := application.Migrate(db, os.Stdout); err != nil {
				return err
			}
		}
		return application.Serve(ctx, db)
	},
}

// schoolbar route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return application.RouteList(nil, cmd.OutOrStdout())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnServe, "migrate", false, "Apply pending migrations before serving")
}
