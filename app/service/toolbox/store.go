package toolbox

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"respite/app/storage"

	"github.com/elliotchance/pie/v2"
	"github.com/google/uuid"
)

const (
	// maxEntries caps the caregiver's saved playbook. Oldest entries are
	// evicted first once over cap.
	maxEntries = 50

	// nearCapThreshold is where the UI starts nudging the caregiver to
	// prune before eviction kicks in.
	nearCapThreshold = 45

	// aiEntryCount bounds how many entries are handed to the suggestion
	// pipeline.
	aiEntryCount = 15

	storageKey = "toolbox.entries"
)

// Entry is one suggestion the caregiver marked as having worked.
type Entry struct {
	ID             string    `json:"id"`
	SuggestionText string    `json:"suggestionText"`
	SavedAt        time.Time `json:"savedAt"`
}

// Store is the capped, persisted toolbox. Unlike conversation threads, this
// survives restarts: it is the caregiver's accumulated personal playbook,
// persisted through the KV collaborator after every mutation.
type Store struct {
	mu      sync.RWMutex
	kv      storage.KV
	now     func() time.Time
	entries []Entry
}

func New(kv storage.KV) (*Store, error) {
	s := &Store{
		kv:  kv,
		now: time.Now,
	}

	raw, err := kv.Get(storageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load toolbox: %w", err)
	}

	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &s.entries); err != nil {
			// Corrupted state is unrecoverable; starting empty beats
			// refusing to start at all.
			slog.Warn("Discarding unreadable toolbox state", "error", err)
			s.entries = nil
		}
	}

	return s, nil
}

// Add appends a new entry. Past the cap the oldest entries are dropped
// first, keeping insertion order for the survivors.
func (s *Store) Add(text string) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := Entry{
		ID:             uuid.NewString(),
		SuggestionText: text,
		SavedAt:        s.now(),
	}

	s.entries = append(s.entries, entry)
	if len(s.entries) > maxEntries {
		s.entries = s.entries[len(s.entries)-maxEntries:]
	}

	s.persistLocked()

	return entry
}

// Remove deletes the entry with the given id. Removing an unknown id is a
// no-op, not an error.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.entries)
	s.entries = pie.Filter(s.entries, func(e Entry) bool {
		return e.ID != id
	})

	if len(s.entries) != before {
		s.persistLocked()
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

func (s *Store) NearCap() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries) >= nearCapThreshold
}

// Entries returns a copy of the full collection in insertion order.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)

	return out
}

// EntriesForAI returns the newest entries, capped, still in chronological
// order. The context assembler reverses them to most-recent-first.
func (s *Store) EntriesForAI() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.entries
	if len(entries) > aiEntryCount {
		entries = entries[len(entries)-aiEntryCount:]
	}

	out := make([]Entry, len(entries))
	copy(out, entries)

	return out
}

// persistLocked writes the current state through the KV collaborator. A
// write failure keeps the in-memory mutation: losing one save beats failing
// the caregiver's tap.
func (s *Store) persistLocked() {
	data, err := json.Marshal(s.entries)
	if err != nil {
		slog.Error("Failed to marshal toolbox state", "error", err)
		return
	}

	if err := s.kv.Set(storageKey, string(data)); err != nil {
		slog.Error("Failed to persist toolbox state", "error", err)
	}
}
