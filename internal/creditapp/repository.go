package creditapp

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no application matches.
var ErrNotFound = errors.New("credit application not found")

// Repository persists credit applications.
type Repository interface {
	Create(ctx context.Context, a Application) error
	Get(ctx context.Context, id string) (Application, error)
	List(ctx context.Context, limit int) ([]Application, error)
}

// PostgresRepository stores credit applications in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const applicationColumns = `id, first_name, last_name, email, phone, date_of_birth, annual_income, employer,
        housing_payment, vehicle_id, down_payment, status, created_at`

// Create inserts an application.
func (r *PostgresRepository) Create(ctx context.Context, a Application) error {
	id, err := uuid.Parse(a.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO credit_applications (`+applicationColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		id, a.FirstName, a.LastName, a.Email, a.Phone, a.DateOfBirth, a.AnnualIncome, a.Employer,
		a.HousingPayment, a.VehicleID, a.DownPayment, a.Status, a.CreatedAt.UTC())
	return err
}

// Get fetches an application by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Application, error) {
	rowID, err := uuid.Parse(id)
	if err != nil {
		return Application{}, ErrNotFound
	}
	a, err := scanApplication(r.db.QueryRow(ctx, `SELECT `+applicationColumns+` FROM credit_applications WHERE id = $1`, rowID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Application{}, ErrNotFound
	}
	return a, err
}

// List returns the newest applications first.
func (r *PostgresRepository) List(ctx context.Context, limit int) ([]Application, error) {
	rows, err := r.db.Query(ctx, `SELECT `+applicationColumns+` FROM credit_applications ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanApplication(row pgx.Row) (Application, error) {
	var (
		id        uuid.UUID
		createdAt time.Time
		a         Application
	)
	if err := row.Scan(&id, &a.FirstName, &a.LastName, &a.Email, &a.Phone, &a.DateOfBirth, &a.AnnualIncome, &a.Employer,
		&a.HousingPayment, &a.VehicleID, &a.DownPayment, &a.Status, &createdAt); err != nil {
		return Application{}, err
	}
	a.ID = id.String()
	a.CreatedAt = createdAt.UTC()
	return a, nil
}
