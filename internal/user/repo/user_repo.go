package repo

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/internal/user/entity"
)

// ErrDuplicateKey is returned by Create and Update when the unique email
// index rejects the row.
var ErrDuplicateKey = errors.New("duplicate key")

// uniqueViolation is the Postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// UserRepo provides data access for users table using sqlx.
type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id, email, hash, first_name, last_name, created_at, updated_at`

// Create inserts a new user row and fills in the generated id and timestamps.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	q := `INSERT INTO users (email, hash, first_name, last_name)
		  VALUES (:email, :hash, :first_name, :last_name) RETURNING id, created_at, updated_at`
	rows, err := r.db.NamedQueryContext(ctx, q, u)
	if err != nil {
		return mapError(err)
	}
	defer rows.Close()
	if rows.Next() {
		return rows.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	}
	if err := rows.Err(); err != nil {
		return mapError(err)
	}
	return errors.New("no id returned")
}

// GetByEmail returns a user matched by exact email or sql.ErrNoRows.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	var u entity.User
	if err := r.db.GetContext(ctx, &u, q, email); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID fetches a full user row or sql.ErrNoRows.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	var u entity.User
	if err := r.db.GetContext(ctx, &u, q, id); err != nil {
		return nil, err
	}
	return &u, nil
}

// Update writes the editable profile fields and refreshes updated_at.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	const q = `UPDATE users SET email=$2, first_name=$3, last_name=$4, updated_at=NOW()
		WHERE id=$1 RETURNING updated_at`
	if err := r.db.GetContext(ctx, &u.UpdatedAt, q, u.ID, u.Email, u.FirstName, u.LastName); err != nil {
		return mapError(err)
	}
	return nil
}

func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrDuplicateKey
	}
	return err
}
