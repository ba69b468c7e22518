package storage

import "time"

type sessionRow struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type turnRow struct {
	ID        string    `db:"id"`
	SessionID string    `db:"session_id"`
	Role      string    `db:"role"`
	Content   string    `db:"content"`
	Image     string    `db:"image"`
	Position  int       `db:"position"`
	CreatedAt time.Time `db:"created_at"`
}
