package consignment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no consignment matches.
var ErrNotFound = errors.New("consignment not found")

// Repository persists consignments.
type Repository interface {
	Create(ctx context.Context, c Consignment) error
	Get(ctx context.Context, id string) (Consignment, error)
	List(ctx context.Context, limit int) ([]Consignment, error)
}

// PostgresRepository stores consignments in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const consignmentColumns = `id, first_name, last_name, email, phone, vin, year, make, model, trim,
        mileage, condition, asking_price, notes, status, created_at`

// Create inserts a consignment record.
func (r *PostgresRepository) Create(ctx context.Context, c Consignment) error {
	id, err := uuid.Parse(c.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO consignments (`+consignmentColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		id, c.FirstName, c.LastName, c.Email, c.Phone, c.VIN, c.Year, c.Make, c.Model, c.Trim,
		c.Mileage, c.Condition, c.AskingPrice, c.Notes, c.Status, c.CreatedAt.UTC())
	return err
}

// Get fetches a consignment by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Consignment, error) {
	rowID, err := uuid.Parse(id)
	if err != nil {
		return Consignment{}, ErrNotFound
	}
	c, err := scanConsignment(r.db.QueryRow(ctx, `SELECT `+consignmentColumns+` FROM consignments WHERE id = $1`, rowID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Consignment{}, ErrNotFound
	}
	return c, err
}

// List returns the newest consignments first.
func (r *PostgresRepository) List(ctx context.Context, limit int) ([]Consignment, error) {
	rows, err := r.db.Query(ctx, `SELECT `+consignmentColumns+` FROM consignments ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Consignment
	for rows.Next() {
		c, err := scanConsignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanConsignment(row pgx.Row) (Consignment, error) {
	var (
		id        uuid.UUID
		createdAt time.Time
		c         Consignment
	)
	err := row.Scan(&id, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.VIN, &c.Year, &c.Make, &c.Model, &c.Trim,
		&c.Mileage, &c.Condition, &c.AskingPrice, &c.Notes, &c.Status, &createdAt)
	if err != nil {
		return Consignment{}, err
	}
	c.ID = id.String()
	c.CreatedAt = createdAt.UTC()
	return c, nil
}
