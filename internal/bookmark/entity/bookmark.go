package entity

import "time"

// Bookmark is a link saved by a single user. OwnerID is set on insert and
// never updated.
type Bookmark struct {
	ID          int64     `db:"id" json:"id"`
	OwnerID     int64     `db:"user_id" json:"userId"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description,omitempty"`
	Link        string    `db:"link" json:"link"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

func (b *Bookmark) GetOwnerID() int64 { return b.OwnerID }
