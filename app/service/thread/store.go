package thread

import (
	"fmt"
	"strings"
	"sync"

	"respite/app/model"
)

type Role string

const (
	RoleCaregiver Role = "caregiver"
	RoleAssistant Role = "assistant"
)

// Turn is one message in the ongoing conversation. Immutable once appended.
type Turn struct {
	Role         Role
	Content      string
	ResponseType model.ResponseType // set on assistant turns only
}

const (
	// History truncation keeps the first exchange and the last two
	// exchanges verbatim; everything between collapses into one marker.
	headTurns        = 2
	tailTurns        = 4
	maxVerbatimTurns = headTurns + tailTurns
)

// Store holds the ephemeral conversation thread for one app session.
// Deliberately not persisted: a crash or restart drops all turns, which is
// the documented privacy property of conversation state.
type Store struct {
	mu     sync.RWMutex
	turns  []Turn
	active bool
}

func New() *Store {
	return &Store{}
}

func (s *Store) AddCaregiverTurn(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns, Turn{Role: RoleCaregiver, Content: text})
	s.active = true
}

func (s *Store) AddAssistantTurn(text string, responseType model.ResponseType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns, Turn{Role: RoleAssistant, Content: text, ResponseType: responseType})
	s.active = true
}

// Clear resets to the empty, inactive state. Idempotent.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = nil
	s.active = false
}

func (s *Store) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.active
}

// TurnCount reports completed exchanges: one assistant turn closes one
// exchange.
func (s *Store) TurnCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, t := range s.turns {
		if t.Role == RoleAssistant {
			count++
		}
	}

	return count
}

// OutOfIdeas reports whether the most recent assistant turn declared the
// engine out of ideas. False when no assistant turn exists yet.
func (s *Store) OutOfIdeas() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.turns) - 1; i >= 0; i-- {
		if s.turns[i].Role == RoleAssistant {
			return s.turns[i].ResponseType == model.ResponseOutOfIdeas
		}
	}

	return false
}

// HistoryString renders the thread for inclusion in the LLM context. Up to
// six turns are rendered verbatim; beyond that, the first exchange and the
// last two exchanges survive and the middle collapses into a single
// omission marker.
func (s *Store) HistoryString() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.turns)
	if n == 0 {
		return ""
	}

	if n <= maxVerbatimTurns {
		return formatTurns(s.turns)
	}

	omitted := (n - headTurns - tailTurns) / 2

	var b strings.Builder
	b.WriteString(formatTurns(s.turns[:headTurns]))
	fmt.Fprintf(&b, "\n[%d earlier exchange(s) omitted]\n", omitted)
	b.WriteString(formatTurns(s.turns[n-tailTurns:]))

	return b.String()
}

func formatTurns(turns []Turn) string {
	lines := make([]string, 0, len(turns))

	for _, t := range turns {
		speaker := "Caregiver"
		if t.Role == RoleAssistant {
			speaker = "You"
		}

		lines = append(lines, fmt.Sprintf("%s: %s", speaker, t.Content))
	}

	return strings.Join(lines, "\n")
}
