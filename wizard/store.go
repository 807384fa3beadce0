package wizard

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store keeps authoring drafts in memory, keyed by draft id. Drafts live
// only for the length of an authoring session; the janitor sweeps the ones
// nobody touched within the TTL.
type Store struct {
	mu     sync.Mutex
	drafts map[string]*Draft
	ttl    time.Duration
}

// Sessions is the global draft store
var Sessions *Store

// InitStore creates the global store. Called once from main.
func InitStore(ttlHours int) {
	Sessions = NewStore(time.Duration(ttlHours) * time.Hour)
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		drafts: make(map[string]*Draft),
		ttl:    ttl,
	}
}

// NewDraft opens a blank create-mode draft at step 1.
func (s *Store) NewDraft() *Draft {
	d := &Draft{
		ID:        uuid.NewString(),
		Step:      StepLesson,
		UpdatedAt: time.Now(),
	}
	s.put(d)
	return d
}

// NewEditDraft opens an edit-mode draft hydrated from a persisted payload.
// The module roster is structurally locked and the dirty baseline captured.
func (s *Store) NewEditDraft(p *SubmitPayload) *Draft {
	d := &Draft{
		ID:        uuid.NewString(),
		EditMode:  true,
		Step:      StepLesson,
		UpdatedAt: time.Now(),
	}
	d.hydrate(p)
	s.put(d)
	return d
}

func (s *Store) put(d *Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[d.ID] = d
}

// Get returns the draft with the given id, if it exists.
func (s *Store) Get(id string) (*Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	return d, ok
}

// Delete removes a draft, typically after a successful submission.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
}

// Sweep drops drafts idle past the TTL and returns how many went.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-s.ttl)
	removed := 0
	for id, d := range s.drafts {
		if d.UpdatedAt.Before(cutoff) {
			delete(s.drafts, id)
			removed++
		}
	}
	return removed
}
