package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ErrStorageBusy is returned when a transaction keeps hitting the writer
// lock past the retry budget. Callers should surface it as a transient
// failure; retrying immediately is unlikely to help.
var ErrStorageBusy = errors.New("storage busy")

// RetryPolicy bounds how transactions wait out transient lock contention:
// up to MaxAttempts tries, sleeping InitialDelay after the first failure
// and multiplying the delay by Backoff after each subsequent one.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Backoff      float64
	BusyTimeout  time.Duration
}

// DefaultRetryPolicy mirrors the connection defaults: five attempts
// starting at 50ms with exponential backoff, 30s busy timeout.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  5,
		InitialDelay: 50 * time.Millisecond,
		Backoff:      2.0,
		BusyTimeout:  30 * time.Second,
	}
}

func (p RetryPolicy) BusyTimeoutMillis() int64 {
	return p.BusyTimeout.Milliseconds()
}

// InTransaction runs fn inside a database transaction: either every write in
// fn commits or none do. Transient busy/locked errors are retried under the
// configured policy; any other error rolls back and is returned as-is. Once
// the retry budget is exhausted the last error is wrapped in ErrStorageBusy.
func (d *Database) InTransaction(fn func(tx *gorm.DB) error) error {
	delay := d.retry.InitialDelay
	attempts := d.retry.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = d.DB.Transaction(fn)
		if err == nil || !isBusy(err) {
			return err
		}
		if attempt == attempts {
			break
		}
		log.Warn().
			Int("attempt", attempt).
			Dur("delay", delay).
			Msg("transaction hit writer lock, retrying")
		time.Sleep(delay)
		delay = time.Duration(float64(delay) * d.retry.Backoff)
	}
	return fmt.Errorf("%w: %v", ErrStorageBusy, err)
}

// isBusy reports whether the error chain is a transient SQLite lock
// condition worth retrying, as opposed to a logical failure.
func isBusy(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.Code == sqlite3.ErrBusy || serr.Code == sqlite3.ErrLocked
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "database is busy")
}
