package app

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shashiranjanraj/schoolbar/pkg/migration"
	"gorm.io/gorm"
)

func (a *Application) runner(db *gorm.DB, w io.Writer) *migration.Runner {
	return migration.New(db, a.migrations...).WithOutput(w)
}

// Migrate applies every pending migration.
func (a *Application) Migrate(db *gorm.DB, w io.Writer) error {
	return a.runner(db, w).Run()
}

// Rollback reverts the latest migration batch.
func (a *Application) Rollback(db *gorm.DB, w io.Writer) error {
	return a.runner(db, w).Rollback()
}

// Status prints one line per known migration.
func (a *Application) Status(db *gorm.DB, w io.Writer) error {
	rows, err := a.runner(db, w).Status()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "MIGRATION\tSTATUS\tBATCH")
	for _, s := range rows {
		status, batch := "pending", "-"
		if s.Ran {
			status, batch = "ran", fmt.Sprint(s.Batch)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name, status, batch)
	}
	return tw.Flush()
}

// Seed runs every seeder in order, stopping at the first failure.
func (a *Application) Seed(db *gorm.DB) error {
	for _, fn := range a.seeders {
		if err := fn(db); err != nil {
			return err
		}
	}
	return nil
}

// RouteList prints the named routes. Handlers
// are built against db but never invoked, so db may be nil.
func (a *Application) RouteList(db *gorm.DB, w io.Writer) error {
	infos := a.Router(db).Routes()
	if len(infos) == 0 {
		_, err := fmt.Fprintln(w, "No named routes registered.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATH\tNAME")
	fmt.Fprintln(tw, "------\t----\t----")
	for _, ri := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
	}
	return tw.Flush()
}
