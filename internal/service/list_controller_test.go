package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-console/internal/backend"
	"github.com/noah-isme/school-console/internal/models"
)

func classOptions(deletes *int, refetch bool) ListOptions[models.Class] {
	return ListOptions[models.Class]{
		Resource:           "classes",
		ID:                 func(c models.Class) models.ID { return c.ID },
		Display:            func(c models.Class) string { return c.ClassName },
		RefetchAfterDelete: refetch,
		Delete: func(context.Context, models.ID) error {
			*deletes++
			return nil
		},
	}
}

func sampleClasses() []models.Class {
	return []models.Class{
		{ID: "1", ClassName: "Grade 2"},
		{ID: "2", ClassName: "alpha"},
		{ID: "3", ClassName: "Beta"},
	}
}

func TestListControllerRendersRowsAndEmptyState(t *testing.T) {
	deletes := 0
	source := &countingSource[models.Class]{pages: map[int][]models.Class{1: sampleClasses()}, total: 1}
	list := NewListController[models.Class](classOptions(&deletes, false), source, testLogger())

	require.Equal(t, StateLoading, list.State().Kind())
	require.NoError(t, list.Load(context.Background(), 1))
	view := list.View("Classes")
	require.Equal(t, "ready", view.State)
	require.Equal(t, 3, view.Count)
	require.Empty(t, view.Empty)

	empty := NewListController[models.Class](classOptions(&deletes, false), &countingSource[models.Class]{total: 1}, testLogger())
	require.NoError(t, empty.Load(context.Background(), 1))
	view = empty.View("Classes")
	require.Zero(t, view.Count)
	require.Equal(t, "No classes found.", view.Empty)
}

func TestListControllerSearchIsCaseInsensitiveAndIdempotent(t *testing.T) {
	deletes := 0
	source := &countingSource[models.Class]{pages: map[int][]models.Class{1: sampleClasses()}, total: 1}
	list := NewListController[models.Class](classOptions(&deletes, false), source, testLogger())
	require.NoError(t, list.Load(context.Background(), 1))

	list.Search("BETA")
	first := list.Items()
	list.Search("BETA")
	require.Equal(t, first, list.Items())
	require.Equal(t, []string{"Beta"}, classNames(first))

	list.Search("")
	require.Len(t, list.Items(), 3)
	require.Equal(t, 1, source.Calls(), "search must not refetch")
}

func TestListControllerSortToggleIsInvolution(t *testing.T) {
	deletes := 0
	source := &countingSource[models.Class]{pages: map[int][]models.Class{1: sampleClasses()}, total: 1}
	list := NewListController[models.Class](classOptions(&deletes, false), source, testLogger())
	require.NoError(t, list.Load(context.Background(), 1))

	require.Equal(t, []string{"Grade 2", "alpha", "Beta"}, classNames(list.Items()), "unsorted keeps server order")

	list.SetSort(SortAsc)
	ascending := classNames(list.Items())
	require.Equal(t, []string{"alpha", "Beta", "Grade 2"}, ascending)

	require.Equal(t, SortDesc, list.ToggleSort())
	require.Equal(t, []string{"Grade 2", "Beta", "alpha"}, classNames(list.Items()))

	require.Equal(t, SortAsc, list.ToggleSort())
	require.Equal(t, ascending, classNames(list.Items()))
}

func TestListControllerDeleteConfirmsFirst(t *testing.T) {
	deletes := 0
	source := &countingSource[models.Class]{pages: map[int][]models.Class{1: sampleClasses()}, total: 1}
	list := NewListController[models.Class](classOptions(&deletes, false), source, testLogger())
	require.NoError(t, list.Load(context.Background(), 1))

	var prompt string
	confirmed, err := list.Delete(context.Background(), "2", ConfirmFunc(func(_ context.Context, p string) bool {
		prompt = p
		return false
	}))
	require.NoError(t, err)
	require.False(t, confirmed)
	require.Zero(t, deletes)
	require.Equal(t, "Are you sure you want to delete this class?", prompt)
	require.Len(t, list.Items(), 3)

	confirmed, err = list.Delete(context.Background(), "2", Answer(true))
	require.NoError(t, err)
	require.True(t, confirmed)
	require.Equal(t, 1, deletes)
	require.Equal(t, []string{"Grade 2", "Beta"}, classNames(list.Items()))
	require.Equal(t, 1, source.Calls(), "local removal must not refetch")
}

func TestListControllerDeleteRefetchesWhenConfigured(t *testing.T) {
	deletes := 0
	source := &countingSource[models.Class]{pages: map[int][]models.Class{1: sampleClasses()}, total: 1}
	list := NewListController[models.Class](classOptions(&deletes, true), source, testLogger())
	require.NoError(t, list.Load(context.Background(), 1))

	_, err := list.Delete(context.Background(), "1", Answer(true))
	require.NoError(t, err)
	require.Equal(t, 2, source.Calls())
}

func TestListControllerPaginationIsClamped(t *testing.T) {
	deletes := 0
	source := &countingSource[models.Class]{
		pages: map[int][]models.Class{1: {{ID: "1"}}, 2: {{ID: "2"}}},
		total: 2,
	}
	list := NewListController[models.Class](classOptions(&deletes, false), source, testLogger())
	require.NoError(t, list.Load(context.Background(), 1))

	require.False(t, list.CanPrev())
	moved, err := list.PrevPage(context.Background())
	require.NoError(t, err)
	require.False(t, moved)
	require.Equal(t, 1, source.Calls())

	moved, err = list.NextPage(context.Background())
	require.NoError(t, err)
	require.True(t, moved)
	require.Equal(t, 2, list.CurrentPage())

	require.False(t, list.CanNext())
	moved, err = list.NextPage(context.Background())
	require.NoError(t, err)
	require.False(t, moved)
	require.Equal(t, 2, source.Calls())
}

func TestListControllerFailureKeepsServerMessage(t *testing.T) {
	deletes := 0
	source := &countingSource[models.Class]{err: &backend.APIError{StatusCode: 500, Message: "database offline"}}
	list := NewListController[models.Class](classOptions(&deletes, false), source, testLogger())

	require.Error(t, list.Load(context.Background(), 1))
	require.Equal(t, StateFailed, list.State().Kind())
	require.Equal(t, "database offline", list.State().Message())

	source.err = errors.New("dial tcp: refused")
	require.Error(t, list.Load(context.Background(), 1))
	require.Equal(t, "Failed to fetch classes", list.State().Message())
}

func TestListControllerChangeStatusReplacesRowInPlace(t *testing.T) {
	calls := 0
	opts := ListOptions[models.Student]{
		Resource: "students",
		ID:       func(s models.Student) models.ID { return s.ID },
		Display:  func(s models.Student) string { return s.FullName() },
		UpdateStatus: func(context.Context, models.ID, string) (models.Student, error) {
			calls++
			return models.Student{}, nil
		},
		ApplyStatus: func(s models.Student, status string) models.Student {
			s.Status = models.StudentStatus(status)
			return s
		},
	}
	source := &countingSource[models.Student]{
		pages: map[int][]models.Student{1: {{ID: "1", FirstName: "Ada", Status: models.StudentStatusActive}, {ID: "2", FirstName: "Alan"}}},
		total: 1,
	}
	list := NewListController[models.Student](opts, source, testLogger())
	require.NoError(t, list.Load(context.Background(), 1))

	confirmed, err := list.ChangeStatus(context.Background(), "1", "suspended", Answer(false))
	require.NoError(t, err)
	require.False(t, confirmed)
	require.Zero(t, calls)

	confirmed, err = list.ChangeStatus(context.Background(), "1", "suspended", Answer(true))
	require.NoError(t, err)
	require.True(t, confirmed)
	items := list.Items()
	require.Equal(t, models.StudentStatusSuspended, items[0].Status)
	require.Equal(t, "Ada", items[0].FirstName)
	require.Equal(t, 1, source.Calls())
}

func TestListControllerUnsupportedActions(t *testing.T) {
	list := NewListController[models.Class](ListOptions[models.Class]{Resource: "classes"}, &countingSource[models.Class]{}, testLogger())
	_, err := list.Delete(context.Background(), "1", Answer(true))
	require.ErrorIs(t, err, ErrUnsupportedAction)
	_, err = list.ChangeStatus(context.Background(), "1", "active", Answer(true))
	require.ErrorIs(t, err, ErrUnsupportedAction)
}

func TestListControllerRefetchUsesPositionedPage(t *testing.T) {
	deletes := 0
	source := &countingSource[models.Class]{pages: map[int][]models.Class{3: {{ID: "9", ClassName: "Grade 9"}}}, total: 3}
	list := NewListController[models.Class](classOptions(&deletes, true), source, testLogger())

	list.SetPage(3)
	require.Equal(t, 3, list.CurrentPage())

	deleted, err := list.Delete(context.Background(), "8", Answer(true))
	require.NoError(t, err)
	require.True(t, deleted)
	require.Equal(t, 1, deletes)
	require.Equal(t, 3, list.CurrentPage())
	require.Equal(t, []string{"Grade 9"}, classNames(list.Items()))

	list.SetPage(0)
	require.Equal(t, 1, list.CurrentPage())
}
