package pipeline

import (
	"sync"

	"github.com/google/uuid"
)

// inflightSet is a counted set of document ids currently being processed.
// It is owned by the pipeline and read through Processing only.
type inflightSet struct {
	mu  sync.Mutex
	ids map[uuid.UUID]struct{}
	wg  sync.WaitGroup
}

func newInflightSet() *inflightSet {
	return &inflightSet{
		ids: make(map[uuid.UUID]struct{}),
	}
}

func (s *inflightSet) add(id uuid.UUID) {
	s.mu.Lock()
	s.ids[id] = struct{}{}
	s.mu.Unlock()
	s.wg.Add(1)
}

func (s *inflightSet) remove(id uuid.UUID) {
	s.mu.Lock()
	delete(s.ids, id)
	s.mu.Unlock()
	s.wg.Done()
}

func (s *inflightSet) snapshot() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]uuid.UUID, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	return ids
}

func (s *inflightSet) wait() {
	s.wg.Wait()
}
