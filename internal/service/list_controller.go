package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/noah-isme/school-console/internal/backend"
	"github.com/noah-isme/school-console/internal/dto"
	"github.com/noah-isme/school-console/internal/models"
)

// ErrUnsupportedAction is returned when a list has no handler for an action.
var ErrUnsupportedAction = errors.New("action not supported for this list")

// SortOrder is the sort applied to the display field.
type SortOrder string

// Sort orders. SortNone keeps server order.
const (
	SortNone SortOrder = ""
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder accepts "asc" and "desc"; anything else is SortNone.
func ParseSortOrder(raw string) SortOrder {
	switch SortOrder(strings.ToLower(strings.TrimSpace(raw))) {
	case SortAsc:
		return SortAsc
	case SortDesc:
		return SortDesc
	default:
		return SortNone
	}
}

// Toggled flips ascending and descending. An unsorted list becomes ascending.
func (o SortOrder) Toggled() SortOrder {
	if o == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// ListSource fetches one page of a resource.
type ListSource[T any] interface {
	Fetch(ctx context.Context, page int) (dto.Page[T], error)
}

// ListSourceFunc adapts a function into a ListSource.
type ListSourceFunc[T any] func(ctx context.Context, page int) (dto.Page[T], error)

// Fetch implements ListSource.
func (f ListSourceFunc[T]) Fetch(ctx context.Context, page int) (dto.Page[T], error) {
	return f(ctx, page)
}

// ListOptions describes how a resource list behaves.
type ListOptions[T any] struct {
	// Resource is the plural noun used in messages, e.g. "students".
	Resource string
	ID       func(T) models.ID
	Display  func(T) string
	// RefetchAfterDelete reloads the page after a delete instead of removing
	// the row locally.
	RefetchAfterDelete bool
	Delete             func(ctx context.Context, id models.ID) error
	UpdateStatus       func(ctx context.Context, id models.ID, status string) (T, error)
	// ApplyStatus patches the local row in place. Without it the row is
	// replaced by the backend's answer.
	ApplyStatus func(item T, status string) T
}

// ListController drives a paginated, searchable and sortable list screen.
type ListController[T any] struct {
	mu         sync.Mutex
	opts       ListOptions[T]
	source     ListSource[T]
	collator   *collate.Collator
	state      State[T]
	items      []T
	page       int
	totalPages int
	search     string
	order      SortOrder
	logger     zerolog.Logger
}

// NewListController constructs a list controller in the loading state.
func NewListController[T any](opts ListOptions[T], source ListSource[T], logger zerolog.Logger) *ListController[T] {
	return &ListController[T]{
		opts:       opts,
		source:     source,
		collator:   collate.New(language.English, collate.IgnoreCase),
		state:      Loading[T](),
		page:       1,
		totalPages: 1,
		logger:     logger.With().Str("component", "list_controller").Str("resource", opts.Resource).Logger(),
	}
}

// Load fetches the given page and replaces the held items.
func (l *ListController[T]) Load(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}

	l.mu.Lock()
	l.state = Loading[T]()
	l.page = page
	l.mu.Unlock()

	result, err := l.source.Fetch(ctx, page)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.state = Failed[T](backend.ErrorMessage(err, l.fetchFallback()))
		l.logger.Warn().Err(err).Int("page", page).Msg("failed to load list")
		return err
	}

	l.items = result.Items
	l.totalPages = result.Pagination.PageCount()
	if result.Pagination.Page > 0 {
		l.page = result.Pagination.Page
	}
	l.state = Ready(l.visibleLocked())
	return nil
}

// State returns the current state. Ready carries the filtered and sorted items.
func (l *ListController[T]) State() State[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state.Kind() == StateReady {
		return Ready(l.visibleLocked())
	}
	return l.state
}

// Items returns the visible rows after search and sort.
func (l *ListController[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.visibleLocked()
}

// CurrentPage returns the one-based page number.
func (l *ListController[T]) CurrentPage() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page
}

// SetPage positions the list on page without fetching it, so a refetch after
// a delete reloads the page the operator was looking at.
func (l *ListController[T]) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.page = page
}

// TotalPages returns the page count reported by the backend.
func (l *ListController[T]) TotalPages() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalPages
}

// Search filters rows by a case-insensitive substring of the display field.
func (l *ListController[T]) Search(term string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.search = strings.TrimSpace(term)
}

// SetSort sets the sort order of the display field.
func (l *ListController[T]) SetSort(order SortOrder) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.order = order
}

// ToggleSort flips between ascending and descending.
func (l *ListController[T]) ToggleSort() SortOrder {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.order = l.order.Toggled()
	return l.order
}

// Sort returns the active sort order.
func (l *ListController[T]) Sort() SortOrder {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.order
}

// CanPrev reports whether a previous page exists.
func (l *ListController[T]) CanPrev() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page > 1
}

// CanNext reports whether a following page exists.
func (l *ListController[T]) CanNext() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page < l.totalPages
}

// NextPage loads the following page. It is a no-op on the last page.
func (l *ListController[T]) NextPage(ctx context.Context) (bool, error) {
	if !l.CanNext() {
		return false, nil
	}
	return true, l.Load(ctx, l.CurrentPage()+1)
}

// PrevPage loads the previous page. It is a no-op on the first page.
func (l *ListController[T]) PrevPage(ctx context.Context) (bool, error) {
	if !l.CanPrev() {
		return false, nil
	}
	return true, l.Load(ctx, l.CurrentPage()-1)
}

// Delete asks for confirmation, then deletes id. It reports whether the
// operator confirmed. A cancelled delete makes no backend call.
func (l *ListController[T]) Delete(ctx context.Context, id models.ID, confirmer Confirmer) (bool, error) {
	if l.opts.Delete == nil {
		return false, ErrUnsupportedAction
	}
	if !confirmer.Confirm(ctx, fmt.Sprintf("Are you sure you want to delete this %s?", l.singular())) {
		return false, nil
	}

	if err := l.opts.Delete(ctx, id); err != nil {
		l.logger.Warn().Err(err).Str("id", id.String()).Msg("delete failed")
		return true, err
	}

	if l.opts.RefetchAfterDelete {
		return true, l.Load(ctx, l.CurrentPage())
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.items[:0:0]
	for _, item := range l.items {
		if l.opts.ID(item) != id {
			kept = append(kept, item)
		}
	}
	l.items = kept
	if l.state.Kind() == StateReady {
		l.state = Ready(l.visibleLocked())
	}
	return true, nil
}

// ChangeStatus asks for confirmation, then updates the status of one row in place.
func (l *ListController[T]) ChangeStatus(ctx context.Context, id models.ID, status string, confirmer Confirmer) (bool, error) {
	if l.opts.UpdateStatus == nil {
		return false, ErrUnsupportedAction
	}
	if !confirmer.Confirm(ctx, fmt.Sprintf("Change this %s's status to %s?", l.singular(), status)) {
		return false, nil
	}

	updated, err := l.opts.UpdateStatus(ctx, id, status)
	if err != nil {
		l.logger.Warn().Err(err).Str("id", id.String()).Msg("status change failed")
		return true, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for i, item := range l.items {
		if l.opts.ID(item) != id {
			continue
		}
		switch {
		case l.opts.ApplyStatus != nil:
			l.items[i] = l.opts.ApplyStatus(item, status)
		case !l.opts.ID(updated).IsZero():
			l.items[i] = updated
		}
		break
	}
	if l.state.Kind() == StateReady {
		l.state = Ready(l.visibleLocked())
	}
	return true, nil
}

// EmptyMessage is the placeholder rendered for an empty list.
func (l *ListController[T]) EmptyMessage() string {
	return fmt.Sprintf("No %s found.", l.opts.Resource)
}

// View renders the controller into a list view model.
func (l *ListController[T]) View(title string) dto.ListView[T] {
	state := l.State()
	view := dto.ListView[T]{
		Title:      title,
		State:      state.Kind().String(),
		Error:      state.Message(),
		Items:      state.Data(),
		Count:      len(state.Data()),
		Page:       l.CurrentPage(),
		TotalPages: l.TotalPages(),
		CanPrev:    l.CanPrev(),
		CanNext:    l.CanNext(),
		Sort:       string(l.Sort()),
	}
	if view.Items == nil {
		view.Items = []T{}
	}
	l.mu.Lock()
	view.Search = l.search
	l.mu.Unlock()
	if state.Kind() == StateReady && view.Count == 0 {
		view.Empty = l.EmptyMessage()
	}
	return view
}

func (l *ListController[T]) visibleLocked() []T {
	visible := make([]T, 0, len(l.items))
	needle := strings.ToLower(l.search)
	for _, item := range l.items {
		if needle == "" || l.opts.Display == nil || strings.Contains(strings.ToLower(l.opts.Display(item)), needle) {
			visible = append(visible, item)
		}
	}

	if l.order == SortNone || l.opts.Display == nil {
		return visible
	}
	sort.SliceStable(visible, func(i, j int) bool {
		cmp := l.collator.CompareString(l.opts.Display(visible[i]), l.opts.Display(visible[j]))
		if l.order == SortDesc {
			return cmp > 0
		}
		return cmp < 0
	})
	return visible
}

func (l *ListController[T]) fetchFallback() string {
	return fmt.Sprintf("Failed to fetch %s", l.opts.Resource)
}

func (l *ListController[T]) singular() string {
	if strings.HasSuffix(l.opts.Resource, "sses") {
		return strings.TrimSuffix(l.opts.Resource, "es")
	}
	return strings.TrimSuffix(l.opts.Resource, "s")
}
