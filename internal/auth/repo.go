package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, fields NewUser) (*User, error)
	RecordLogin(ctx context.Context, entry LoginAudit) error
	DeleteExpiredAudit(ctx context.Context, before time.Time) (int64, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userColumns = "id, email, password_hash, name, role, created_at, updated_at"

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByEmail fetches a user by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// Create inserts a new user record. The unique constraint on email is the
// authority on uniqueness; a violation here is reported as ErrEmailTaken
// regardless of any earlier existence check.
func (r *PGRepository) Create(ctx context.Context, fields NewUser) (*User, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, name, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+userColumns,
		fields.Email, fields.PasswordHash, fields.Name, fields.Role)
	user, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// RecordLogin persists an audit row for an issued token.
func (r *PGRepository) RecordLogin(ctx context.Context, entry LoginAudit) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO auth_audit (id, user_id, token_id, ip, user_agent, issued_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.UserID, entry.TokenID, entry.IP, entry.UserAgent,
		entry.IssuedAt.UTC(), entry.ExpiresAt.UTC())
	return err
}

// DeleteExpiredAudit removes audit rows whose token expiry lies before the
// given instant and returns how many were deleted.
func (r *PGRepository) DeleteExpiredAudit(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		"DELETE FROM auth_audit WHERE expires_at < $1", before.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var _ Repository = (*PGRepository)(nil)
