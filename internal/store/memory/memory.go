package memory

import (
	"sync"

	"docsum/internal/domain"
)

// DefaultMaxDocuments bounds the store when no limit is configured.
const DefaultMaxDocuments = 32

// Storage is an in-memory document store. Once full, the oldest document is evicted.
type Storage struct {
	mu    sync.RWMutex
	max   int
	docs  map[string]domain.Document
	order []string
}

func NewStorage(maxDocuments int) *Storage {
	if maxDocuments <= 0 {
		maxDocuments = DefaultMaxDocuments
	}
	return &Storage{max: maxDocuments, docs: make(map[string]domain.Document)}
}

func (s *Storage) Put(doc domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[doc.ID]; ok {
		s.removeOrder(doc.ID)
	}
	s.docs[doc.ID] = doc
	s.order = append(s.order, doc.ID)
	for len(s.order) > s.max {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.docs, oldest)
	}
	return nil
}

func (s *Storage) Get(id string) (domain.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	return doc, ok
}

func (s *Storage) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return false
	}
	delete(s.docs, id)
	s.removeOrder(id)
	return true
}

func (s *Storage) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make(map[string]domain.Document)
	s.order = nil
}

func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func (s *Storage) removeOrder(id string) {
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
