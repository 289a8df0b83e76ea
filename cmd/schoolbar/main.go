// Command schoolbar runs the school bar web app and its maintenance tasks.
//
//	schoolbar serve             # start the HTTP server
//	schoolbar migrate           # apply pending migrations
//	schoolbar migrate:rollback
//	schoolbar migrate:status
//	schoolbar seed              # demo catalog and accounts
//	schoolbar route:list
//	schoolbar ledger:verify     # recompute every balance from its ledger
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/schoolbar/app/events"
	"github.com/shashiranjanraj/schoolbar/app/repositories"
	"github.com/shashiranjanraj/schoolbar/app/routes"
	"github.com/shashiranjanraj/schoolbar/database/migrations"
	"github.com/shashiranjanraj/schoolbar/database/seeders"
	"github.com/shashiranjanraj/schoolbar/pkg/app"
	"github.com/shashiranjanraj/schoolbar/pkg/logger"
	"gorm.io/gorm"
)

var application = app.New().
	Migrations(migrations.All()...).
	Routes(routes.Register).
	Seeder(seeders.RunAll).
	OnBoot(func(db *gorm.DB) error {
		events.Register(func() (int64, error) {
			return repositories.NewProductRepository(db).CountNeedingRestock()
		})
		return nil
	})

func main() {
	err := rootCmd.Execute()
	logger.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "schoolbar",
	Short:         "School bar ordering and balance service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(ledgerVerifyCmd)
}
