package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskbook/internal/cache"
	dom "taskbook/internal/domain"
	"taskbook/internal/repo"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNotFound  = errors.New("task not found")
	ErrEmptyName = errors.New("task name is required")
)

// TaskService owns the task CRUD and listing contract. Every operation is
// scoped to the owning user.
type TaskService struct {
	repo  repo.TaskRepo
	cache *cache.TaskCache
	sf    singleflight.Group
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(r repo.TaskRepo, c *cache.TaskCache) *TaskService {
	return &TaskService{repo: r, cache: c}
}

// Create persists a new task owned by userID.
func (s *TaskService) Create(ctx context.Context, userID int64, name string, dueDate time.Time) (dom.Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return dom.Task{}, ErrEmptyName
	}
	t, err := s.repo.Create(ctx, dom.Task{
		UserID:  userID,
		Name:    name,
		DueDate: dueDate,
	})
	if err != nil {
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// List returns the user's tasks ordered by sortBy/order. Unknown sort fields
// fall back to due date, keeping the requested order; unknown orders mean
// ascending.
func (s *TaskService) List(ctx context.Context, userID int64, sortBy, order string) ([]dom.Task, error) {
	sortBy, order = normalizeSort(sortBy, order)
	if s.cache != nil {
		key := fmt.Sprintf("list:%d:%s:%s", userID, sortBy, order)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx, userID, sortBy, order); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.List(ctx, userID, sortBy, order)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, userID, sortBy, order, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Task), nil
	}
	return s.repo.List(ctx, userID, sortBy, order)
}

// GetByID returns a single task owned by userID.
func (s *TaskService) GetByID(ctx context.Context, userID, id int64) (dom.Task, error) {
	t, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	return t, nil
}

// Update applies a partial update: non-nil fields replace current values,
// nil fields are retained.
func (s *TaskService) Update(ctx context.Context, userID, id int64, name *string, dueDate *time.Time) (dom.Task, error) {
	existing, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	patch := existing
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return dom.Task{}, ErrEmptyName
		}
		patch.Name = trimmed
	}
	if dueDate != nil {
		patch.DueDate = *dueDate
	}
	t, err := s.repo.Update(ctx, userID, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// UpdateStatus replaces the is_done flag only.
func (s *TaskService) UpdateStatus(ctx context.Context, userID, id int64, done bool) (dom.Task, error) {
	t, err := s.repo.SetDone(ctx, userID, id, done)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// Delete removes the task.
func (s *TaskService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateCache(ctx, userID)
	return nil
}

func (s *TaskService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, userID)
	}
}

func normalizeSort(sortBy, order string) (string, string) {
	switch sortBy {
	case repo.SortByName, repo.SortByDueDate, repo.SortByIsDone:
	default:
		sortBy = repo.SortByDueDate
	}
	if order != repo.OrderDesc {
		order = repo.OrderAsc
	}
	return sortBy, order
}
