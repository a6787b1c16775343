package verification

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists verification rows.
type Repository interface {
	Insert(ctx context.Context, v PhoneVerification) error
	FindActive(ctx context.Context, phone, code string, now time.Time) (PhoneVerification, error)
	MarkVerified(ctx context.Context, id string, at time.Time) error
	IsPhoneVerified(ctx context.Context, phone string) (bool, error)
	ListByPhone(ctx context.Context, phone string) ([]PhoneVerification, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed verification repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const verificationColumns = `id, phone_normalized, code, external_contact_ref, created_at, expires_at, verified_at`

// Insert stores a freshly issued code.
func (r *PostgresRepository) Insert(ctx context.Context, v PhoneVerification) error {
	id, err := uuid.Parse(v.ID)
	if err != nil {
		return err
	}
	var contactRef *string
	if v.ContactRef != "" {
		contactRef = &v.ContactRef
	}
	_, err = r.db.Exec(ctx, `INSERT INTO phone_verifications (`+verificationColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, v.Phone, v.Code, contactRef, v.CreatedAt.UTC(), v.ExpiresAt.UTC(), v.VerifiedAt)
	return err
}

// FindActive returns the newest unexpired row for the phone/code pair.
func (r *PostgresRepository) FindActive(ctx context.Context, phone, code string, now time.Time) (PhoneVerification, error) {
	row := r.db.QueryRow(ctx, `SELECT `+verificationColumns+`
        FROM phone_verifications
        WHERE phone_normalized = $1 AND code = $2 AND expires_at > $3
        ORDER BY created_at DESC
        LIMIT 1`, phone, code, now.UTC())
	v, err := scanVerification(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return PhoneVerification{}, ErrNotFound
	}
	return v, err
}

// MarkVerified stamps verified_at once; later calls leave the first timestamp alone.
func (r *PostgresRepository) MarkVerified(ctx context.Context, id string, at time.Time) error {
	rowID, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `UPDATE phone_verifications SET verified_at = $1
        WHERE id = $2 AND verified_at IS NULL`, at.UTC(), rowID)
	return err
}

// IsPhoneVerified reports whether any row for phone has been verified.
func (r *PostgresRepository) IsPhoneVerified(ctx context.Context, phone string) (bool, error) {
	var verified bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (
        SELECT 1 FROM phone_verifications WHERE phone_normalized = $1 AND verified_at IS NOT NULL)`, phone).Scan(&verified)
	return verified, err
}

// ListByPhone returns every row issued for phone, newest first.
func (r *PostgresRepository) ListByPhone(ctx context.Context, phone string) ([]PhoneVerification, error) {
	rows, err := r.db.Query(ctx, `SELECT `+verificationColumns+`
        FROM phone_verifications WHERE phone_normalized = $1 ORDER BY created_at DESC`, phone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PhoneVerification
	for rows.Next() {
		v, err := scanVerification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func scanVerification(row pgx.Row) (PhoneVerification, error) {
	var (
		id         uuid.UUID
		contactRef *string
		verifiedAt *time.Time
		v          PhoneVerification
	)
	if err := row.Scan(&id, &v.Phone, &v.Code, &contactRef, &v.CreatedAt, &v.ExpiresAt, &verifiedAt); err != nil {
		return PhoneVerification{}, err
	}
	v.ID = id.String()
	if contactRef != nil {
		v.ContactRef = *contactRef
	}
	v.CreatedAt = v.CreatedAt.UTC()
	v.ExpiresAt = v.ExpiresAt.UTC()
	if verifiedAt != nil {
		at := verifiedAt.UTC()
		v.VerifiedAt = &at
	}
	return v, nil
}
