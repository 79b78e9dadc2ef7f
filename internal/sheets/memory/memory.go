package memory

import (
	"context"
	"sync"

	ports "billing/internal/sheets"
)

// Store is an in-memory spreadsheet fake keyed by tab name.
type Store struct {
	mu   sync.Mutex
	tabs map[string][][]any
}

var (
	_ ports.RangeReader  = (*Store)(nil)
	_ ports.MirrorWriter = (*Store)(nil)
)

func New() *Store {
	return &Store{tabs: make(map[string][][]any)}
}

// ReadRows returns the rows of the named tab, or nil when it is empty.
func (s *Store) ReadRows(_ context.Context, sheet string) ([][]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.tabs[sheet]
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = append([]any(nil), r...)
	}
	return out, nil
}

// Overwrite replaces the named tab with rows.
func (s *Store) Overwrite(_ context.Context, sheet string, rows [][]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([][]any, len(rows))
	for i, r := range rows {
		copied[i] = append([]any(nil), r...)
	}
	s.tabs[sheet] = copied
	return nil
}
