package ledger

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/shashiranjanraj/schoolbar/app/models"
	"github.com/shashiranjanraj/schoolbar/pkg/workerpool"
	"gorm.io/gorm"
)

// Drift is one user whose stored balance disagrees with the log.
type Drift struct {
	UserID   uint
	Username string
	Err      error
}

// Audit runs Verify for every user on workers goroutines. Users out of
// balance are returned sorted by id; any other failure aborts the audit.
func Audit(ctx context.Context, db *gorm.DB, workers int) ([]Drift, error) {
	var users []models.User
	if err := db.WithContext(ctx).Select("id", "username").Order("id").Find(&users).Error; err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		drifts []Drift
	)
	pool := workerpool.New(ctx, workers)
	for _, u := range users {
		u := u
		err := pool.Submit(func(ctx context.Context) error {
			err := Verify(ctx, db, u.ID)
			if errors.Is(err, ErrOutOfBalance) {
				mu.Lock()
				drifts = append(drifts, Drift{UserID: u.ID, Username: u.Username, Err: err})
				mu.Unlock()
				return nil
			}
			return err
		})
		if err != nil {
			break
		}
	}
	if err := pool.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(drifts, func(i, j int) bool { return drifts[i].UserID < drifts[j].UserID })
	return drifts, nil
}
