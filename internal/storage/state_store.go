package storage

import (
	"sync"

	"github.com/google/uuid"
	"github.com/veranemoloko/route-uploader/internal/domain"
)

const subscriberBuffer = 16

// StateStore holds one TaskState per category and notifies subscribers on change.
type StateStore struct {
	mu          sync.RWMutex
	states      map[domain.Category]domain.TaskState
	generation  uint64
	subscribers map[uuid.UUID]chan domain.StateChange
}

// NewStateStore creates a StateStore with every category set to idle.
func NewStateStore() *StateStore {
	store := &StateStore{
		states:      make(map[domain.Category]domain.TaskState, len(domain.AllCategories)),
		subscribers: make(map[uuid.UUID]chan domain.StateChange),
	}
	for _, c := range domain.AllCategories {
		store.states[c] = domain.TaskStateIdle
	}
	return store
}

// Get returns the state of a category. Unknown categories are idle.
func (s *StateStore) Get(c domain.Category) domain.TaskState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if state, ok := s.states[c]; ok {
		return state
	}
	return domain.TaskStateIdle
}

// Set assigns state to every given category and publishes one change.
func (s *StateStore) Set(categories []domain.Category, state domain.TaskState) {
	if len(categories) == 0 {
		return
	}

	s.mu.Lock()
	for _, c := range categories {
		s.states[c] = state
	}
	s.publishLocked()
	s.mu.Unlock()
}

// Reset assigns state to every known category and publishes one change.
func (s *StateStore) Reset(state domain.TaskState) {
	s.mu.Lock()
	for _, c := range domain.AllCategories {
		s.states[c] = state
	}
	s.publishLocked()
	s.mu.Unlock()
}

// Snapshot returns a copy of the current states.
func (s *StateStore) Snapshot() map[domain.Category]domain.TaskState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

// Subscribe registers a listener. The returned channel receives a snapshot after every
// change; a subscriber that falls behind misses intermediate snapshots.
func (s *StateStore) Subscribe() (uuid.UUID, <-chan domain.StateChange) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	ch := make(chan domain.StateChange, subscriberBuffer)
	s.subscribers[id] = ch
	return id, ch
}

// Unsubscribe removes a listener and closes its channel.
func (s *StateStore) Unsubscribe(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ch, ok := s.subscribers[id]; ok {
		delete(s.subscribers, id)
		close(ch)
	}
}

func (s *StateStore) copyLocked() map[domain.Category]domain.TaskState {
	out := make(map[domain.Category]domain.TaskState, len(s.states))
	for c, state := range s.states {
		out[c] = state
	}
	return out
}

func (s *StateStore) publishLocked() {
	s.generation++
	for _, ch := range s.subscribers {
		change := domain.StateChange{Generation: s.generation, States: s.copyLocked()}
		select {
		case ch <- change:
		default:
		}
	}
}
