package session

import (
	"sync"

	"github.com/edukit/quizdesk/models"
	"github.com/google/uuid"
)

// DefaultManager is the process-wide session registry used by the HTTP
// handlers and the janitor job.
var DefaultManager = NewManager()

type key struct {
	student uuid.UUID
	quiz    uuid.UUID
}

// Manager tracks at most one live session per (student, quiz) pair.
type Manager struct {
	mu       sync.RWMutex
	sessions map[key]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[key]*Session)}
}

// Start creates and starts a session, replacing any previous one for the
// same pair. The replaced session is cancelled, not submitted: navigating
// away and starting over abandons the old state.
func (m *Manager) Start(studentID uuid.UUID, quiz models.Quiz, questions []models.Question, submit SubmitFunc) (*Session, error) {
	s := New(studentID, quiz, questions, submit)
	if err := s.Start(); err != nil {
		return nil, err
	}

	k := key{student: studentID, quiz: quiz.ID}
	m.mu.Lock()
	if old, ok := m.sessions[k]; ok {
		old.Cancel()
	}
	m.sessions[k] = s
	m.mu.Unlock()
	return s, nil
}

func (m *Manager) Get(studentID, quizID uuid.UUID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[key{student: studentID, quiz: quizID}]
	return s, ok
}

func (m *Manager) Remove(studentID, quizID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key{student: studentID, quiz: quizID})
}

// Expired returns sessions whose countdown has passed but that have not
// reached Submitted, so the janitor can force-submit them even when the
// client is gone.
func (m *Manager) Expired() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Session
	for _, s := range m.sessions {
		if s.Expired() {
			out = append(out, s)
		}
	}
	return out
}

// ReapSubmitted drops terminal sessions from the registry.
func (m *Manager) ReapSubmitted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k, s := range m.sessions {
		if s.State() == StateSubmitted {
			delete(m.sessions, k)
			n++
		}
	}
	return n
}
