package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// DueDate parses due_date from JSON as a calendar date ("2006-01-02"),
// stored as start of that day in UTC. Anything else is rejected.
type DueDate struct{ t time.Time }

func (d *DueDate) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("due_date: use a date string (YYYY-MM-DD)")
	}
	parsed, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("due_date: use a date (YYYY-MM-DD)")
	}
	d.t = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	return nil
}

func (d DueDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.t.Format(dateLayout))
}

// Time returns the parsed date for use in service/domain.
func (d DueDate) Time() time.Time { return d.t }

// AddTaskForm is the form body for POST /add-task.
type AddTaskForm struct {
	Name    string    `form:"name" binding:"required"`
	DueDate time.Time `form:"due_date" time_format:"2006-01-02" time_utc:"1" binding:"required"`
}

// UpdateTaskRequest is the JSON body for PUT /update-task/:id.
// Nil fields keep their current value.
type UpdateTaskRequest struct {
	Name    *string  `json:"name" binding:"omitempty,min=1,max=100"`
	DueDate *DueDate `json:"due_date"`
}

// UpdateTaskStatusRequest is the JSON body for PUT /update-task-status/:id.
type UpdateTaskStatusRequest struct {
	IsDone *bool `json:"is_done" binding:"required"`
}

type TaskResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	IsDone    bool      `json:"is_done"`
	DueDate   string    `json:"due_date"` // YYYY-MM-DD
	CreatedAt time.Time `json:"created_at"`
}

// TaskListPage is the non-XHR shape of GET / and GET /tasks.
type TaskListPage struct {
	Username string         `json:"username"`
	Tasks    []TaskResponse `json:"tasks"`
}

// FormatDate renders a due date the way the endpoints accept it.
func FormatDate(t time.Time) string { return t.Format(dateLayout) }
