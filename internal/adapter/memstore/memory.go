// Package memstore is an in-memory ProjectStore for tests and
// short-lived tooling that does not need a database file.
package memstore

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/arpitg1304/tessera/internal/domain"
	"github.com/arpitg1304/tessera/internal/port"
)

type MemoryStore struct {
	mu         sync.RWMutex
	projects   map[string]domain.Project
	selections map[string]map[uint64]domain.Selection
	summaries  map[string][]byte
	nextSelID  uint64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects:   make(map[string]domain.Project),
		selections: make(map[string]map[uint64]domain.Selection),
		summaries:  make(map[string][]byte),
	}
}

func (s *MemoryStore) CreateProject(p domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.projects[p.ID]; exists {
		return fmt.Errorf("project %s: %w", p.ID, port.ErrProjectExists)
	}
	s.projects[p.ID] = p
	return nil
}

func (s *MemoryStore) GetProject(id string) (domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return domain.Project{}, fmt.Errorf("project %s: %w", id, port.ErrNotFound)
	}
	return p, nil
}

func (s *MemoryStore) ListProjects() ([]domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	projects := make([]domain.Project, 0, len(s.projects))
	for _, p := range s.projects {
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	return projects, nil
}

func (s *MemoryStore) DeleteProject(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return false, nil
	}
	delete(s.projects, id)
	delete(s.selections, id)
	delete(s.summaries, id)
	return true, nil
}

func (s *MemoryStore) VerifyToken(id, token string) (bool, error) {
	p, err := s.GetProject(id)
	if err != nil {
		return false, err
	}
	return p.AccessToken == token, nil
}

func (s *MemoryStore) SaveSelection(sel domain.Selection) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[sel.ProjectID]; !ok {
		return 0, fmt.Errorf("project %s: %w", sel.ProjectID, port.ErrNotFound)
	}
	s.nextSelID++
	sel.ID = s.nextSelID
	if s.selections[sel.ProjectID] == nil {
		s.selections[sel.ProjectID] = make(map[uint64]domain.Selection)
	}
	s.selections[sel.ProjectID][sel.ID] = sel
	return sel.ID, nil
}

func (s *MemoryStore) GetSelection(projectID string, id uint64) (domain.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sel, ok := s.selections[projectID][id]
	if !ok {
		return domain.Selection{}, fmt.Errorf("selection %d: %w", id, port.ErrNotFound)
	}
	return sel, nil
}

func (s *MemoryStore) ListSelections(projectID string) ([]domain.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	selections := make([]domain.Selection, 0, len(s.selections[projectID]))
	for _, sel := range s.selections[projectID] {
		selections = append(selections, sel)
	}
	sort.Slice(selections, func(i, j int) bool { return selections[i].ID < selections[j].ID })
	return selections, nil
}

func (s *MemoryStore) DeleteSelection(projectID string, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.selections[projectID][id]; !ok {
		return fmt.Errorf("selection %d: %w", id, port.ErrNotFound)
	}
	delete(s.selections[projectID], id)
	return nil
}

func (s *MemoryStore) PutSummary(projectID string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[projectID] = data
	return nil
}

func (s *MemoryStore) GetSummary(projectID string, out any) (bool, error) {
	s.mu.RLock()
	data, ok := s.summaries[projectID]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, out)
}

func (s *MemoryStore) DeleteExpired(now time.Time) ([]domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed []domain.Project
	for id, p := range s.projects {
		if p.Expired(now) {
			removed = append(removed, p)
			delete(s.projects, id)
			delete(s.selections, id)
			delete(s.summaries, id)
		}
	}
	sort.Slice(removed, func(i, j int) bool { return removed[i].ID < removed[j].ID })
	return removed, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
