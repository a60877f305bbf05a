package repository

import (
	"context"
	"errors"

	"github.com/angeleo1/Emotional-Studio-sub001/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Constraint names from migrations/001_init.sql. The partial unique index is
// what enforces slot exclusivity under concurrent writers.
const (
	paymentRefConstraint = "reservations_payment_ref_key"
	activeSlotConstraint = "reservations_active_slot_idx"
)

type ReservationRepository interface {
	// CreateConfirmed inserts a confirmed reservation, or returns the existing
	// one when the payment reference was already written. created reports
	// whether a new row was inserted.
	CreateConfirmed(ctx context.Context, r *domain.Reservation) (created bool, err error)
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	GetByPaymentRef(ctx context.Context, ref string) (*domain.Reservation, error)
	// BookedTimes returns the slot times held by active reservations on date.
	BookedTimes(ctx context.Context, date string) ([]string, error)
	Complete(ctx context.Context, id string) (*domain.Reservation, error)
	Delete(ctx context.Context, id string) error
}

type PGReservationRepository struct {
	db *pgxpool.Pool
}

func NewReservationRepository(db *pgxpool.Pool) ReservationRepository {
	return &PGReservationRepository{db: db}
}

const reservationColumns = `id, name, email, phone, session_date, session_time, session_type,
	retouched_photos, original_films, extended_session, pet_friendly,
	total_cents, payment_ref, status, created_at, updated_at`

func (r *PGReservationRepository) CreateConfirmed(ctx context.Context, res *domain.Reservation) (bool, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	res.Status = domain.ReservationStatusConfirmed
	err = tx.QueryRow(ctx, `INSERT INTO reservations
		(id, name, email, phone, session_date, session_time, session_type,
		 retouched_photos, original_films, extended_session, pet_friendly,
		 total_cents, payment_ref, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at`,
		res.ID, res.Name, res.Email, res.Phone, res.SessionDate, res.SessionTime, res.SessionType,
		res.AddOns.RetouchedPhotos, res.AddOns.OriginalFilms, res.AddOns.ExtendedSession, res.AddOns.PetFriendly,
		res.TotalCents, res.PaymentRef, res.Status).
		Scan(&res.CreatedAt, &res.UpdatedAt)
	if err == nil {
		return true, tx.Commit(ctx)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return false, err
	}
	switch pgErr.ConstraintName {
	case paymentRefConstraint:
		// Duplicate delivery of the same payment: converge on the stored row.
		existing, getErr := r.GetByPaymentRef(ctx, res.PaymentRef)
		if getErr != nil {
			return false, getErr
		}
		*res = *existing
		return false, nil
	case activeSlotConstraint:
		return false, &domain.ConflictError{SessionDate: res.SessionDate, SessionTime: res.SessionTime}
	}
	return false, err
}

func (r *PGReservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	row := r.db.QueryRow(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id=$1`, id)
	return scanReservation(row)
}

func (r *PGReservationRepository) GetByPaymentRef(ctx context.Context, ref string) (*domain.Reservation, error) {
	row := r.db.QueryRow(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE payment_ref=$1`, ref)
	return scanReservation(row)
}

func (r *PGReservationRepository) BookedTimes(ctx context.Context, date string) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT session_time FROM reservations
		WHERE session_date=$1 AND status IN ($2, $3)
		ORDER BY session_time`,
		date, domain.ReservationStatusConfirmed, domain.ReservationStatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	times := make([]string, 0)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

func (r *PGReservationRepository) Complete(ctx context.Context, id string) (*domain.Reservation, error) {
	row := r.db.QueryRow(ctx, `UPDATE reservations SET status=$1, updated_at=now()
		WHERE id=$2 AND status=$3
		RETURNING `+reservationColumns,
		domain.ReservationStatusCompleted, id, domain.ReservationStatusConfirmed)
	res, err := scanReservation(row)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *PGReservationRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM reservations WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var res domain.Reservation
	err := row.Scan(&res.ID, &res.Name, &res.Email, &res.Phone,
		&res.SessionDate, &res.SessionTime, &res.SessionType,
		&res.AddOns.RetouchedPhotos, &res.AddOns.OriginalFilms, &res.AddOns.ExtendedSession, &res.AddOns.PetFriendly,
		&res.TotalCents, &res.PaymentRef, &res.Status, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

var _ ReservationRepository = (*PGReservationRepository)(nil)
