// Package migration runs versioned schema changes and records them in the
// schema_migrations table, grouped in batches so the latest batch can be
// rolled back.
//
//	runner := migration.New(db, migrations.All()...)
//	runner.Run()        // apply pending, as one new batch
//	runner.Rollback()   // undo the latest batch
package migration

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/shashiranjanraj/schoolbar/pkg/logger"
	"gorm.io/gorm"
)

// Migration is one reversible schema change.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// Entry names a Migration. Names start with a sortable timestamp, e.g.
// "20260301000000_create_users".
type Entry struct {
	Name string
	Migration
}

// Func adapts two functions to Migration.
type Func struct {
	UpFn   func(db *gorm.DB) error
	DownFn func(db *gorm.DB) error
}

func (f Func) Up(db *gorm.DB) error   { return f.UpFn(db) }
func (f Func) Down(db *gorm.DB) error { return f.DownFn(db) }

type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "schema_migrations" }

// Status is one line of Runner.Status.
type Status struct {
	Name  string
	Ran   bool
	Batch int
}

type Runner struct {
	db      *gorm.DB
	entries []Entry
	out     io.Writer
}

func New(db *gorm.DB, entries ...Entry) *Runner {
	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &Runner{db: db, entries: sorted, out: io.Discard}
}

// WithOutput echoes progress lines to w (the CLI passes os.Stdout).
func (r *Runner) WithOutput(w io.Writer) *Runner {
	r.out = w
	return r
}

func (r *Runner) ensureTable() error {
	return r.db.AutoMigrate(&record{})
}

func (r *Runner) ran() (map[string]record, error) {
	var rows []record
	if err := r.db.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]record, len(rows))
	for _, row := range rows {
		out[row.Name] = row
	}
	return out, nil
}

// Run applies every pending migration as one batch. Each migration and its
// bookkeeping row commit together.
func (r *Runner) Run() error {
	if err := r.ensureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	done, err := r.ran()
	if err != nil {
		return fmt.Errorf("migration: load history: %w", err)
	}

	batch := r.lastBatch() + 1
	applied := 0
	for _, e := range r.entries {
		if _, ok := done[e.Name]; ok {
			continue
		}
		fmt.Fprintf(r.out, "  migrating  %s\n", e.Name)
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := e.Up(tx); err != nil {
				return err
			}
			return tx.Create(&record{Name: e.Name, Batch: batch}).Error
		})
		if err != nil {
			return fmt.Errorf("migration: %s up: %w", e.Name, err)
		}
		applied++
	}

	if applied == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return nil
	}
	logger.Info("migrations applied", "count", applied, "batch", batch)
	return nil
}

// Rollback reverts the latest batch, newest first.
func (r *Runner) Rollback() error {
	if err := r.ensureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	batch := r.lastBatch()
	if batch == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return nil
	}

	var rows []record
	if err := r.db.Where("batch = ?", batch).Order("id desc").Find(&rows).Error; err != nil {
		return err
	}

	byName := make(map[string]Migration, len(r.entries))
	for _, e := range r.entries {
		byName[e.Name] = e.Migration
	}

	for _, row := range rows {
		m, ok := byName[row.Name]
		if !ok {
			return fmt.Errorf("migration: cannot roll back unknown %s", row.Name)
		}
		fmt.Fprintf(r.out, "  rolling back  %s\n", row.Name)
		if err := m.Down(r.db); err != nil {
			return fmt.Errorf("migration: %s down: %w", row.Name, err)
		}
		if err := r.db.Delete(&record{}, row.ID).Error; err != nil {
			return err
		}
	}
	logger.Info("migrations rolled back", "count", len(rows), "batch", batch)
	return nil
}

// Status lists every known migration in order.
func (r *Runner) Status() ([]Status, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}
	done, err := r.ran()
	if err != nil {
		return nil, err
	}

	out := make([]Status, 0, len(r.entries))
	for _, e := range r.entries {
		row, ok := done[e.Name]
		out = append(out, Status{Name: e.Name, Ran: ok, Batch: row.Batch})
	}
	return out, nil
}

func (r *Runner) lastBatch() int {
	var max struct{ Max int }
	r.db.Model(&record{}).Select("COALESCE(MAX(batch), 0) AS max").Scan(&max)
	return max.Max
}
