package repo

import (
	"context"

	dom "taskbook/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Sort fields accepted by List. Anything else falls back to due date.
const (
	SortByName    = "name"
	SortByDueDate = "due_date"
	SortByIsDone  = "is_done"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

type TaskRepo interface {
	Create(ctx context.Context, t dom.Task) (dom.Task, error)
	GetByID(ctx context.Context, userID, id int64) (dom.Task, error)
	List(ctx context.Context, userID int64, sortBy, order string) ([]dom.Task, error)
	Update(ctx context.Context, userID, id int64, patch dom.Task) (dom.Task, error)
	SetDone(ctx context.Context, userID, id int64, done bool) (dom.Task, error)
	Delete(ctx context.Context, userID, id int64) error
}

type PGTaskRepo struct {
	db *pgxpool.Pool
}

func NewPGTaskRepo(db *pgxpool.Pool) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

func (r *PGTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		INSERT INTO tasks (user_id, name, due_date)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, name, is_done, due_date, created_at`
	var out dom.Task
	err := r.db.QueryRow(ctx, query, t.UserID, t.Name, t.DueDate).Scan(
		&out.ID, &out.UserID, &out.Name, &out.IsDone, &out.DueDate, &out.CreatedAt,
	)
	return out, err
}

func (r *PGTaskRepo) GetByID(ctx context.Context, userID, id int64) (dom.Task, error) {
	query := `
		SELECT id, user_id, name, is_done, due_date, created_at
		FROM tasks WHERE id = $1 AND user_id = $2`
	var t dom.Task
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&t.ID, &t.UserID, &t.Name, &t.IsDone, &t.DueDate, &t.CreatedAt,
	)
	return t, err
}

func (r *PGTaskRepo) List(ctx context.Context, userID int64, sortBy, order string) ([]dom.Task, error) {
	query := `
		SELECT id, user_id, name, is_done, due_date, created_at
		FROM tasks WHERE user_id = $1 ORDER BY ` + sortColumn(sortBy) + ` ` + sortDirection(order)
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Task
	for rows.Next() {
		var t dom.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.IsDone, &t.DueDate, &t.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTaskRepo) Update(ctx context.Context, userID, id int64, patch dom.Task) (dom.Task, error) {
	query := `
		UPDATE tasks SET name = $3, due_date = $4
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, name, is_done, due_date, created_at`
	var t dom.Task
	err := r.db.QueryRow(ctx, query, id, userID, patch.Name, patch.DueDate).Scan(
		&t.ID, &t.UserID, &t.Name, &t.IsDone, &t.DueDate, &t.CreatedAt,
	)
	return t, err
}

func (r *PGTaskRepo) SetDone(ctx context.Context, userID, id int64, done bool) (dom.Task, error) {
	query := `
		UPDATE tasks SET is_done = $3
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, name, is_done, due_date, created_at`
	var t dom.Task
	err := r.db.QueryRow(ctx, query, id, userID, done).Scan(
		&t.ID, &t.UserID, &t.Name, &t.IsDone, &t.DueDate, &t.CreatedAt,
	)
	return t, err
}

func (r *PGTaskRepo) Delete(ctx context.Context, userID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// sortColumn whitelists ORDER BY input. Unknown fields sort by due date,
// keeping whatever direction the caller asked for.
func sortColumn(sortBy string) string {
	switch sortBy {
	case SortByName, SortByDueDate, SortByIsDone:
		return sortBy
	default:
		return SortByDueDate
	}
}

func sortDirection(order string) string {
	if order == OrderDesc {
		return "DESC"
	}
	return "ASC"
}
