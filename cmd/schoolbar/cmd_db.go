package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/schoolbar/app/services/ledger"
)

// schoolbar migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := application.Boot()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Running migrations…")
		return application.Migrate(db, cmd.OutOrStdout())
	},
}

// schoolbar migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := application.Boot()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Rolling back last batch…")
		return application.Rollback(db, cmd.OutOrStdout())
	},
}

// schoolbar migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := application.Boot()
		if err != nil {
			return err
		}
		return application.Status(db, cmd.OutOrStdout())
	},
}

// schoolbar seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the demo catalog and one account per role",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := application.Boot()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Running seeders…")
		return application.Seed(db)
	},
}

var auditWorkers int

// schoolbar ledger:verify
var ledgerVerifyCmd = &cobra.Command{
	Use:   "ledger:verify",
	Short: "Check every stored balance against its transaction log",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := application.Boot()
		if err != nil {
			return err
		}

		drifts, err := ledger.Audit(cmd.Context(), db, auditWorkers)
		if err != nil {
			return err
		}
		for _, d := range drifts {
			fmt.Fprintf(cmd.OutOrStdout(), "  ✗ %s: %v\n", d.Username, d.Err)
		}
		if len(drifts) > 0 {
			return fmt.Errorf("%d balances out of line", len(drifts))
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All balances reconcile.")
		return nil
	},
}

func init() {
	ledgerVerifyCmd.Flags().IntVarP(&auditWorkers, "workers", "w", 4, "Number of concurrent checks")
}
