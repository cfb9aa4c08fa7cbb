package postgres

import "time"

type joinRequestTableModel struct {
	ID                int64     `db:"id"`
	PublicID          string    `db:"public_id"`
	Kind              string    `db:"kind"`
	RequesterPublicID string    `db:"requester_public_id"`
	TargetPublicID    string    `db:"target_public_id"`
	Status            string    `db:"status"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

type joinRequestInsertModel struct {
	PublicID          string    `db:"public_id"`
	Kind              string    `db:"kind"`
	RequesterPublicID string    `db:"requester_public_id"`
	TargetPublicID    string    `db:"target_public_id"`
	Status            string    `db:"status"`
	CreatedAt         time.Time `db:"created_at"`
}
