package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"whitelist/internal/contractor/models"
	"whitelist/internal/sentinel"
)

// InMemory stores contractors in memory. It mirrors the PostgresStore
// contract (insertion-order paging, case-insensitive substring filter, unique
// tax ids) for unit tests and demo wiring without a database.
type InMemory struct {
	mu          sync.RWMutex
	contractors []*models.Contractor
	taxIDs      map[string]struct{}
	nextID      int64
}

// NewInMemory creates an in-memory contractor store.
func NewInMemory() *InMemory {
	return &InMemory{
		taxIDs: make(map[string]struct{}),
		nextID: 1,
	}
}

// Save stores the contractor with a copy of its account list.
func (s *InMemory) Save(_ context.Context, contractor *models.Contractor) error {
	if contractor == nil {
		return fmt.Errorf("contractor is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.taxIDs[contractor.TaxID]; exists {
		return fmt.Errorf("tax id must be unique: %w", sentinel.ErrAlreadyUsed)
	}

	stored := *contractor
	stored.ID = s.nextID
	stored.Accounts = append([]string{}, contractor.Accounts...)
	s.nextID++

	s.contractors = append(s.contractors, &stored)
	s.taxIDs[stored.TaxID] = struct{}{}
	contractor.ID = stored.ID
	return nil
}

// Search returns one page of contractors in insertion order, optionally
// filtered by a case-insensitive substring over name or tax id.
func (s *InMemory) Search(_ context.Context, page, pageSize uint, filter string) ([]*models.Contractor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(filter)
	matched := make([]*models.Contractor, 0)
	for _, c := range s.contractors {
		if needle == "" ||
			strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(strings.ToLower(c.TaxID), needle) {
			matched = append(matched, c)
		}
	}

	offset := uint(0)
	if page > 1 {
		offset = (page - 1) * pageSize
	}
	if offset >= uint(len(matched)) {
		return []*models.Contractor{}, nil
	}

	end := offset + pageSize
	if end > uint(len(matched)) {
		end = uint(len(matched))
	}

	out := make([]*models.Contractor, 0, end-offset)
	for _, c := range matched[offset:end] {
		copied := *c
		copied.Accounts = append([]string{}, c.Accounts...)
		out = append(out, &copied)
	}
	return out, nil
}
