package bot

import (
	"strings"
	"sync"

	"BiasDesk/internal/domain/models"
	"BiasDesk/internal/usecase"
)

// State is the position of a conversation in the two-stage dialogue.
type State int

const (
	StateAwaitingAsset State = iota
	StateAwaitingQuestion
)

// Session is one conversation's dialogue state.
type Session struct {
	State State
	Asset models.AssetSymbol
}

// NewSession returns the initial state.
func NewSession() Session {
	return Session{State: StateAwaitingAsset}
}

// WithAsset records the chosen asset and advances to the question stage.
func (s Session) WithAsset(a models.AssetSymbol) Session {
	return Session{State: StateAwaitingQuestion, Asset: a}
}

// Reset returns the session to the initial state.
func (s Session) Reset() Session {
	return NewSession()
}

// SessionStore maps conversation IDs to dialogue state.
type SessionStore struct {
	mu sync.Mutex
	m  map[string]Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{m: make(map[string]Session)}
}

// Get returns the session for id, creating the initial one if absent.
func (st *SessionStore) Get(id string) Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.m[id]; ok {
		return s
	}
	s := NewSession()
	st.m[id] = s
	return s
}

func (st *SessionStore) Put(id string, s Session) {
	st.mu.Lock()
	st.m[id] = s
	st.mu.Unlock()
}

func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	delete(st.m, id)
	st.mu.Unlock()
}

// FindAsset scans text for the first mentioned asset symbol,
// case-insensitive. The earliest occurrence in the text wins.
func FindAsset(text string) (models.AssetSymbol, bool) {
	upper := strings.ToUpper(text)
	best := -1
	var found models.AssetSymbol
	for _, a := range models.AllAssets {
		idx := strings.Index(upper, string(a))
		if idx >= 0 && (best < 0 || idx < best) {
			best = idx
			found = a
		}
	}
	return found, best >= 0
}

// FindTopic scans text for the first allowed topic substring,
// case-insensitive. The earliest occurrence in the text wins.
func FindTopic(text string) (string, bool) {
	lower := strings.ToLower(text)
	best := -1
	found := ""
	for _, topic := range usecase.AllowedTopics {
		idx := strings.Index(lower, topic)
		if idx >= 0 && (best < 0 || idx < best) {
			best = idx
			found = topic
		}
	}
	return found, best >= 0
}
