package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/t1112000/seatly-fe/internal/model"
)

// OutcomeRecord is one row of booking_outcomes: the latest status observed for
// a booking and how often it was observed.
type OutcomeRecord struct {
	BookingID    string
	Status       model.BookingStatus
	Amount       float64
	Provider     string
	Observations int
	FirstSeenAt  time.Time
	LastSeenAt   time.Time
}

// OutcomeRepo provides access to the booking_outcomes table created by
// database.EnsureSchema.
type OutcomeRepo struct {
	db *sql.DB
}

// NewOutcomeRepo returns a new OutcomeRepo bound to the provided database.
func NewOutcomeRepo(db *sql.DB) *OutcomeRepo { return &OutcomeRepo{db: db} }

// Record stores an observed status for bookingID.  The existing row is locked
// while the transition is checked, so concurrent consumers cannot record two
// different terminal statuses.  Re-observing the current status only bumps
// the counters.  A transition the booking lifecycle forbids returns
// ErrConflict wrapping model.ErrInvalidTransition and leaves the row alone.
func (r *OutcomeRepo) Record(ctx context.Context, rec OutcomeRecord) (err error) {
	if !rec.Status.Valid() {
		return fmt.Errorf("record outcome %s: %w: status %q", rec.BookingID, model.ErrUnknownVariant, rec.Status)
	}
	seenAt := rec.LastSeenAt.UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM booking_outcomes WHERE booking_id = ? FOR UPDATE`,
		rec.BookingID,
	).Scan(&current)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx,
			`INSERT INTO booking_outcomes (booking_id, status, amount, provider, observations, first_seen_at, last_seen_at)
			 VALUES (?, ?, ?, ?, 1, ?, ?)`,
			rec.BookingID, string(rec.Status), rec.Amount, rec.Provider, seenAt, seenAt,
		)
	case err != nil:
		return err
	case model.BookingStatus(current) == rec.Status:
		_, err = tx.ExecContext(ctx,
			`UPDATE booking_outcomes SET observations = observations + 1, last_seen_at = ? WHERE booking_id = ?`,
			seenAt, rec.BookingID,
		)
	case model.BookingStatus(current).CanTransitionTo(rec.Status):
		_, err = tx.ExecContext(ctx,
			`UPDATE booking_outcomes SET status = ?, amount = ?, provider = ?, observations = observations + 1, last_seen_at = ? WHERE booking_id = ?`,
			string(rec.Status), rec.Amount, rec.Provider, seenAt, rec.BookingID,
		)
	default:
		err = fmt.Errorf("%w: %s %s -> %s: %w", ErrConflict, rec.BookingID, current, rec.Status, model.ErrInvalidTransition)
		return err
	}
	if err != nil {
		return err
	}
	return tx.Commit()
}

// Get returns the recorded outcome for bookingID or ErrOutcomeNotFound.
func (r *OutcomeRepo) Get(ctx context.Context, bookingID string) (*OutcomeRecord, error) {
	var rec OutcomeRecord
	var status string
	err := r.db.QueryRowContext(ctx,
		`SELECT booking_id, status, amount, provider, observations, first_seen_at, last_seen_at
		 FROM booking_outcomes WHERE booking_id = ?`,
		bookingID,
	).Scan(&rec.BookingID, &status, &rec.Amount, &rec.Provider, &rec.Observations, &rec.FirstSeenAt, &rec.LastSeenAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOutcomeNotFound
	}
	if err != nil {
		return nil, err
	}
	rec.Status = model.BookingStatus(status)
	return &rec, nil
}
