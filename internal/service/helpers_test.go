package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/noah-isme/school-console/internal/dto"
	"github.com/noah-isme/school-console/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// countingSource serves fixed pages and counts fetches.
type countingSource[T any] struct {
	mu    sync.Mutex
	pages map[int][]T
	total int
	err   error
	calls int
}

func (s *countingSource[T]) Fetch(_ context.Context, page int) (dto.Page[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return dto.Page[T]{}, s.err
	}
	items := append([]T(nil), s.pages[page]...)
	return dto.Page[T]{Items: items, Pagination: dto.Pagination{Page: page, TotalPages: s.total}}, nil
}

func (s *countingSource[T]) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type recordingAuditor struct {
	mu      sync.Mutex
	entries []string
}

func (a *recordingAuditor) Mutated(_ context.Context, entityType, action string, id models.ID, _ map[string]interface{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entityType+"."+action+":"+id.String())
}

func (a *recordingAuditor) Entries() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.entries...)
}

func classNames(classes []models.Class) []string {
	names := make([]string, 0, len(classes))
	for _, class := range classes {
		names = append(names, class.ClassName)
	}
	return names
}
