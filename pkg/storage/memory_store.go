package storage

import (
	"sync"

	"github.com/Sriram-PR/bizdna/pkg/models"
)

// MemoryStore is a map-backed RunStore
type MemoryStore struct {
	mu     sync.RWMutex
	pages  map[string]*models.PageDBEntry // nil entry = pending
	vision map[string]models.VisionResult
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		pages:  make(map[string]*models.PageDBEntry),
		vision: make(map[string]models.VisionResult),
	}
}

func (s *MemoryStore) MarkPageVisited(normalizedPageURL string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.pages[normalizedPageURL]; exists {
		return false, nil
	}
	s.pages[normalizedPageURL] = nil
	return true, nil
}

func (s *MemoryStore) CheckPageStatus(normalizedPageURL string) (models.PageStatus, *models.PageDBEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, exists := s.pages[normalizedPageURL]
	if !exists {
		return models.PageStatusNotFound, nil, nil
	}
	if entry == nil {
		return models.PageStatusPending, nil, nil
	}
	cp := *entry
	return cp.Status, &cp, nil
}

func (s *MemoryStore) UpdatePageStatus(normalizedPageURL string, entry *models.PageDBEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *entry
	s.pages[normalizedPageURL] = &cp
	return nil
}

func (s *MemoryStore) GetVisionResult(imageURL string) (*models.VisionResult, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.vision[imageURL]
	if !ok {
		return nil, false, nil
	}
	return &r, true, nil
}

func (s *MemoryStore) PutVisionResult(imageURL string, result *models.VisionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vision[imageURL] = *result
	return nil
}

func (s *MemoryStore) GetVisitedCount() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pages), nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = make(map[string]*models.PageDBEntry)
	s.vision = make(map[string]models.VisionResult)
	return nil
}
