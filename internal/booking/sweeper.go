package booking

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper purges bookings older than a retention window. It runs
// opportunistically before booking listings and can also be invoked
// explicitly through the admin maintenance endpoint, so retention does
// not depend solely on read traffic.
type Sweeper struct {
	bookings      BookingStore
	retentionDays int
	log           *zap.Logger
	now           func() time.Time
}

// NewSweeper constructs a Sweeper with the configured retention window
// in days.
func NewSweeper(bookings BookingStore, retentionDays int, log *zap.Logger) *Sweeper {
	return &Sweeper{
		bookings:      bookings,
		retentionDays: retentionDays,
		log:           log,
		now:           time.Now,
	}
}

// Purge removes bookings using the configured retention window.
func (s *Sweeper) Purge(ctx context.Context) (int64, error) {
	return s.PurgeOlderThan(ctx, s.retentionDays)
}

// PurgeOlderThan deletes every booking dated strictly before
// today − retentionDays (UTC) and returns the count removed. A booking
// dated exactly retentionDays ago sits on the cutoff and is preserved.
func (s *Sweeper) PurgeOlderThan(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := today(s.now()).AddDate(0, 0, -retentionDays)
	n, err := s.bookings.PurgeBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("purged expired bookings",
			zap.Int64("deleted", n),
			zap.String("cutoff", cutoff.Format(DateLayout)))
	}
	return n, nil
}
