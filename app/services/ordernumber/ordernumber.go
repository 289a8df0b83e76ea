// Package ordernumber issues short human-readable order numbers of the form
// BAR-YYMMDD-XXXXXX. Numbers are random rather than sequential, so
// concurrent checkouts never contend on a counter; the unique index on
// orders.order_number catches the rare collision and checkout retries.
package ordernumber

import (
	"crypto/rand"
	"sync"
	"time"
)

// Generator returns a candidate order number for an order placed at now.
type Generator func(now time.Time) string

// alphabet skips 0/O and 1/I so numbers read back reliably over the counter.
const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const suffixLen = 6

// Random is the production Generator.
func Random(now time.Time) string {
	b := make([]byte, suffixLen)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = alphabet[int(b[i])%len(alphabet)]
	}
	return Prefix(now) + string(b)
}

// Prefix is the date part shared by every number issued on now's day.
func Prefix(now time.Time) string {
	return "BAR-" + now.Format("060102") + "-"
}

// Sequence returns a Generator that yields suffixes in order, repeating
// the last one once exhausted. Tests use it to force collisions. It is safe
// for concurrent checkouts.
func Sequence(suffixes ...string) Generator {
	var (
		mu   sync.Mutex
		next int
	)
	return func(now time.Time) string {
		mu.Lock()
		defer mu.Unlock()

		if len(suffixes) == 0 {
			return Prefix(now)
		}
		s := suffixes[min(next, len(suffixes)-1)]
		next++
		return Prefix(now) + s
	}
}
