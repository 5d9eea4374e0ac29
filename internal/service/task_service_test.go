package service

import (
	"context"
	"sort"
	"testing"
	"time"

	dom "taskbook/internal/domain"
	"taskbook/internal/repo"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTaskRepo struct {
	tasks  map[int64]dom.Task
	nextID int64
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[int64]dom.Task)}
}

func (r *fakeTaskRepo) Create(_ context.Context, t dom.Task) (dom.Task, error) {
	r.nextID++
	t.ID = r.nextID
	t.CreatedAt = time.Now().UTC()
	r.tasks[t.ID] = t
	return t, nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, userID, id int64) (dom.Task, error) {
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return dom.Task{}, pgx.ErrNoRows
	}
	return t, nil
}

func (r *fakeTaskRepo) List(_ context.Context, userID int64, sortBy, order string) ([]dom.Task, error) {
	var list []dom.Task
	for _, t := range r.tasks {
		if t.UserID == userID {
			list = append(list, t)
		}
	}
	less := func(a, b dom.Task) bool {
		switch sortBy {
		case repo.SortByName:
			return a.Name < b.Name
		case repo.SortByIsDone:
			return !a.IsDone && b.IsDone
		default:
			return a.DueDate.Before(b.DueDate)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if order == repo.OrderDesc {
			return less(list[j], list[i])
		}
		return less(list[i], list[j])
	})
	return list, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, userID, id int64, patch dom.Task) (dom.Task, error) {
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return dom.Task{}, pgx.ErrNoRows
	}
	t.Name = patch.Name
	t.DueDate = patch.DueDate
	r.tasks[id] = t
	return t, nil
}

func (r *fakeTaskRepo) SetDone(_ context.Context, userID, id int64, done bool) (dom.Task, error) {
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return dom.Task{}, pgx.ErrNoRows
	}
	t.IsDone = done
	r.tasks[id] = t
	return t, nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, userID, id int64) error {
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(r.tasks, id)
	return nil
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestTaskService_Create(t *testing.T) {
	r := newFakeTaskRepo()
	svc := NewTaskService(r, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, 7, "  Buy milk  ", date("2024-01-01"))
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.UserID)
	assert.Equal(t, "Buy milk", created.Name)
	assert.False(t, created.IsDone)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestTaskService_CreateEmptyName(t *testing.T) {
	r := newFakeTaskRepo()
	svc := NewTaskService(r, nil)

	_, err := svc.Create(context.Background(), 7, "   ", date("2024-01-01"))
	assert.ErrorIs(t, err, ErrEmptyName)
	assert.Empty(t, r.tasks)
}

func TestTaskService_ListNeverCrossesUsers(t *testing.T) {
	r := newFakeTaskRepo()
	svc := NewTaskService(r, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, "alice task", date("2024-01-01"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, 2, "bob task", date("2024-01-02"))
	require.NoError(t, err)

	listA, err := svc.List(ctx, 1, "", "")
	require.NoError(t, err)
	require.Len(t, listA, 1)
	assert.Equal(t, "alice task", listA[0].Name)

	listB, err := svc.List(ctx, 2, "", "")
	require.NoError(t, err)
	require.Len(t, listB, 1)
	assert.Equal(t, "bob task", listB[0].Name)
}

func TestTaskService_ListSorting(t *testing.T) {
	r := newFakeTaskRepo()
	svc := NewTaskService(r, nil)
	ctx := context.Background()

	seed := []struct {
		name string
		due  string
	}{
		{"banana", "2024-03-01"},
		{"apple", "2024-01-01"},
		{"cherry", "2024-02-01"},
	}
	for _, s := range seed {
		_, err := svc.Create(ctx, 1, s.name, date(s.due))
		require.NoError(t, err)
	}

	names := func(list []dom.Task) []string {
		out := make([]string, len(list))
		for i, t := range list {
			out[i] = t.Name
		}
		return out
	}

	tests := []struct {
		name   string
		sortBy string
		order  string
		want   []string
	}{
		{name: "name desc", sortBy: "name", order: "desc", want: []string{"cherry", "banana", "apple"}},
		{name: "name asc default order", sortBy: "name", order: "", want: []string{"apple", "banana", "cherry"}},
		{name: "default sort is due date asc", sortBy: "", order: "", want: []string{"apple", "cherry", "banana"}},
		{name: "unknown field falls back to due date, order kept", sortBy: "priority", order: "desc", want: []string{"banana", "cherry", "apple"}},
		{name: "unknown order means asc", sortBy: "due_date", order: "sideways", want: []string{"apple", "cherry", "banana"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := svc.List(ctx, 1, tt.sortBy, tt.order)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(list))
		})
	}
}

func TestTaskService_UpdatePartial(t *testing.T) {
	r := newFakeTaskRepo()
	svc := NewTaskService(r, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, "original", date("2024-05-01"))
	require.NoError(t, err)

	name := "renamed"
	updated, err := svc.Update(ctx, 1, created.ID, &name, nil)
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, date("2024-05-01"), updated.DueDate, "absent due date must be retained")

	due := date("2024-06-15")
	updated, err = svc.Update(ctx, 1, created.ID, nil, &due)
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name, "absent name must be retained")
	assert.Equal(t, due, updated.DueDate)
}

func TestTaskService_UpdateStatusOnlyFlipsFlag(t *testing.T) {
	r := newFakeTaskRepo()
	svc := NewTaskService(r, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, "task", date("2024-05-01"))
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, 1, created.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.IsDone)
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, created.DueDate, updated.DueDate)
}

func TestTaskService_MutationsOnMissingOrForeignTask(t *testing.T) {
	r := newFakeTaskRepo()
	svc := NewTaskService(r, nil)
	ctx := context.Background()

	theirs, err := svc.Create(ctx, 2, "not yours", date("2024-05-01"))
	require.NoError(t, err)

	name := "x"
	for _, id := range []int64{999, theirs.ID} {
		_, err = svc.Update(ctx, 1, id, &name, nil)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = svc.UpdateStatus(ctx, 1, id, true)
		assert.ErrorIs(t, err, ErrNotFound)

		err = svc.Delete(ctx, 1, id)
		assert.ErrorIs(t, err, ErrNotFound)
	}

	// None of the failed mutations touched the other user's row.
	kept, err := svc.GetByID(ctx, 2, theirs.ID)
	require.NoError(t, err)
	assert.Equal(t, "not yours", kept.Name)
	assert.False(t, kept.IsDone)
}

func TestTaskService_Delete(t *testing.T) {
	r := newFakeTaskRepo()
	svc := NewTaskService(r, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, "task", date("2024-05-01"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 1, created.ID))

	_, err = svc.GetByID(ctx, 1, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskService_DueDateRoundTrip(t *testing.T) {
	r := newFakeTaskRepo()
	svc := NewTaskService(r, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, "task", date("2024-05-01"))
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", got.DueDate.Format("2006-01-02"))
}
