package entity

import "time"

// User represents an account row in the `users` table.
// PasswordHash never leaves the service: it is excluded from JSON.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"hash" json:"-"`
	FirstName    string    `db:"first_name" json:"firstName"`
	LastName     *string   `db:"last_name" json:"lastName"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// GetOwnerID lets a user record pass through the ownership gate: a user
// owns only itself.
func (u *User) GetOwnerID() int64 { return u.ID }
