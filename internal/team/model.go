package team

import "time"

// Team represents a row in the teams table. A team is owned by exactly one
// user; the foreign key restricts deleting or re-keying that user.
type Team struct {
	ID         int64
	Name       string
	IsPersonal bool
	UserID     int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
