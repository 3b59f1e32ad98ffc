package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the subset of pgxpool.Pool the repository needs; pgxmock satisfies it
// in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores appointments in the appointments table.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository creates a repository backed by a pgx pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting mocks for tests.
func NewPostgresRepositoryWithDB(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `id, patient_name, email, phone, service, appointment_date,
	appointment_time, status, date_of_birth, dental_concern, patient_type,
	special_notes, insurance, created_at, updated_at, booked_at`

// Create inserts the appointment with status forced to Pending and timestamps
// set by the database.
func (r *PostgresRepository) Create(ctx context.Context, appt *Appointment) (*Appointment, error) {
	stored := *appt
	stored.Status = StatusPending
	err := r.db.QueryRow(ctx, `
		INSERT INTO appointments
			(patient_name, email, phone, service, appointment_date, appointment_time,
			 status, date_of_birth, dental_concern, patient_type, special_notes, insurance)
		VALUES ($1, $2, $3, $4, $5, $6, 'Pending', $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at, booked_at
	`, stored.PatientName, stored.Email, stored.Phone, stored.Service, stored.Date,
		stored.Time, stored.DateOfBirth, stored.DentalConcern, stored.PatientType,
		stored.SpecialNotes, stored.Insurance).
		Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt, &stored.BookedAt)
	if err != nil {
		return nil, fmt.Errorf("appointments: insert: %w", err)
	}
	return &stored, nil
}

// List returns every appointment, most recently created first.
func (r *PostgresRepository) List(ctx context.Context) ([]Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+selectColumns+`
		FROM appointments
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("appointments: list: %w", err)
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.PatientName, &a.Email, &a.Phone, &a.Service,
			&a.Date, &a.Time, &a.Status, &a.DateOfBirth, &a.DentalConcern,
			&a.PatientType, &a.SpecialNotes, &a.Insurance,
			&a.CreatedAt, &a.UpdatedAt, &a.BookedAt); err != nil {
			return nil, fmt.Errorf("appointments: scan: %w", err)
		}
		out = append(out, a)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("appointments: list rows: %w", rows.Err())
	}
	if out == nil {
		out = []Appointment{}
	}
	return out, nil
}

// UpdateStatus sets the status and bumps updated_at. Transitions are not
// validated against a state machine; any known status may replace any other.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE appointments
		SET status = $2, updated_at = now()
		WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("appointments: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes one appointment.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("appointments: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll removes every appointment.
func (r *PostgresRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM appointments`); err != nil {
		return fmt.Errorf("appointments: delete all: %w", err)
	}
	return nil
}

// DeleteByStatus removes every appointment in the given status.
func (r *PostgresRepository) DeleteByStatus(ctx context.Context, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM appointments WHERE status = $1`, status); err != nil {
		return fmt.Errorf("appointments: delete by status: %w", err)
	}
	return nil
}

// IsNotFound reports whether err is a missing-row error from this package or
// the driver.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, pgx.ErrNoRows)
}
