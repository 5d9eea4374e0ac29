package domain

import "time"

// Task is the domain entity for a single item on a user's list.
// It does not depend on Gin, Postgres or Redis.
type Task struct {
	ID      int64
	UserID  int64
	Name    string
	IsDone  bool
	DueDate time.Time

	CreatedAt time.Time
}
