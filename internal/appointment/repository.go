package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no appointment matches.
var ErrNotFound = errors.New("appointment not found")

// Repository persists appointments.
type Repository interface {
	Create(ctx context.Context, a Appointment) error
	Get(ctx context.Context, id string) (Appointment, error)
	List(ctx context.Context, limit int) ([]Appointment, error)
}

// PostgresRepository stores appointments in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const appointmentColumns = `id, kind, first_name, last_name, email, phone, vehicle_id, preferred_at, notes, status, created_at`

// Create inserts an appointment.
func (r *PostgresRepository) Create(ctx context.Context, a Appointment) error {
	id, err := uuid.Parse(a.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO appointments (`+appointmentColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		id, a.Kind, a.FirstName, a.LastName, a.Email, a.Phone, a.VehicleID, a.PreferredAt.UTC(), a.Notes, a.Status, a.CreatedAt.UTC())
	return err
}

// Get fetches an appointment by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Appointment, error) {
	rowID, err := uuid.Parse(id)
	if err != nil {
		return Appointment{}, ErrNotFound
	}
	a, err := scanAppointment(r.db.QueryRow(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, rowID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Appointment{}, ErrNotFound
	}
	return a, err
}

// List returns the soonest requested visits first.
func (r *PostgresRepository) List(ctx context.Context, limit int) ([]Appointment, error) {
	rows, err := r.db.Query(ctx, `SELECT `+appointmentColumns+` FROM appointments ORDER BY preferred_at ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAppointment(row pgx.Row) (Appointment, error) {
	var (
		id          uuid.UUID
		preferredAt time.Time
		createdAt   time.Time
		a           Appointment
	)
	if err := row.Scan(&id, &a.Kind, &a.FirstName, &a.LastName, &a.Email, &a.Phone, &a.VehicleID, &preferredAt, &a.Notes, &a.Status, &createdAt); err != nil {
		return Appointment{}, err
	}
	a.ID = id.String()
	a.PreferredAt = preferredAt.UTC()
	a.CreatedAt = createdAt.UTC()
	return a, nil
}
