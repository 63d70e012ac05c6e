package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/internal/bookmark/entity"
)

// Repo is the bookmarks repository backed by PostgreSQL.
type Repo struct {
	db *sqlx.DB
}

// NewRepo constructs a new Repo with an existing *sqlx.DB connection.
func NewRepo(db *sqlx.DB) *Repo {
	return &Repo{db: db}
}

const columns = `id, user_id, title, description, link, created_at, updated_at`

// Create inserts b and fills in the generated id and timestamps.
func (r *Repo) Create(ctx context.Context, b *entity.Bookmark) error {
	q := `INSERT INTO bookmarks (user_id, title, description, link)
		  VALUES (:user_id, :title, :description, :link) RETURNING id, created_at, updated_at`
	rows, err := r.db.NamedQueryContext(ctx, q, b)
	if err != nil {
		return err
	}
	defer rows.Close()
	if rows.Next() {
		return rows.Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return errors.New("no id returned")
}

// ListByOwner returns every bookmark of ownerID, newest first.
func (r *Repo) ListByOwner(ctx context.Context, ownerID int64) ([]*entity.Bookmark, error) {
	q := `SELECT ` + columns + ` FROM bookmarks WHERE user_id=$1 ORDER BY id DESC`
	out := []*entity.Bookmark{}
	if err := r.db.SelectContext(ctx, &out, q, ownerID); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns a bookmark regardless of owner, or sql.ErrNoRows.
func (r *Repo) GetByID(ctx context.Context, id int64) (*entity.Bookmark, error) {
	q := `SELECT ` + columns + ` FROM bookmarks WHERE id=$1`
	var b entity.Bookmark
	if err := r.db.GetContext(ctx, &b, q, id); err != nil {
		return nil, err
	}
	return &b, nil
}

// Update writes title, description and link. The owner is part of the
// predicate so a row owned by someone else is never touched; in that case
// sql.ErrNoRows is returned.
func (r *Repo) Update(ctx context.Context, b *entity.Bookmark) error {
	const q = `UPDATE bookmarks SET title=$3, description=$4, link=$5, updated_at=NOW()
		WHERE id=$1 AND user_id=$2 RETURNING updated_at`
	return r.db.GetContext(ctx, &b.UpdatedAt, q, b.ID, b.OwnerID, b.Title, b.Description, b.Link)
}

// Delete removes the bookmark id owned by ownerID. It returns sql.ErrNoRows
// when no such row exists.
func (r *Repo) Delete(ctx context.Context, id, ownerID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id=$1 AND user_id=$2`, id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
