package session

import (
	"errors"
	"sync"
	"time"

	"github.com/edukit/quizdesk/models"
	"github.com/google/uuid"
)

type State string

const (
	StateNotStarted State = "NOT_STARTED"
	StateInProgress State = "IN_PROGRESS"
	StateSubmitting State = "SUBMITTING"
	StateTimedOut   State = "TIMED_OUT"
	StateSubmitted  State = "SUBMITTED"
)

var (
	ErrNotInProgress     = errors.New("session is not in progress")
	ErrAlreadyStarted    = errors.New("session already started")
	ErrAlreadySubmitting = errors.New("submission already in progress")
	ErrSessionClosed     = errors.New("session already submitted")
	ErrUnknownQuestion   = errors.New("question does not belong to this quiz")
)

// SubmitFunc persists a finished batch. It is the only suspension point of
// a session; everything else is synchronous in-memory state.
type SubmitFunc func(batch []models.Answer) error

type answerTrack struct {
	value        models.AnswerValue
	answered     bool
	changedCount int
	timeSpent    time.Duration
}

// Session holds one student's in-progress quiz attempt. All state lives in
// memory: abandoning a session persists nothing. The Submitting state is
// the guard that lets exactly one of a user submit and a countdown expiry
// win when both fire.
type Session struct {
	StudentID uuid.UUID
	QuizID    uuid.UUID

	mu          sync.Mutex
	state       State
	timed       bool
	deadline    time.Time
	timer       *time.Timer
	questionIDs []uuid.UUID
	known       map[uuid.UUID]struct{}
	tracks      map[uuid.UUID]*answerTrack
	viewing     uuid.UUID
	viewedAt    time.Time
	limit       time.Duration
	submit      SubmitFunc
	now         func() time.Time
}

func New(studentID uuid.UUID, quiz models.Quiz, questions []models.Question, submit SubmitFunc) *Session {
	ids := make([]uuid.UUID, len(questions))
	known := make(map[uuid.UUID]struct{}, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
		known[q.ID] = struct{}{}
	}
	return &Session{
		StudentID:   studentID,
		QuizID:      quiz.ID,
		state:       StateNotStarted,
		timed:       quiz.TimeLimitSeconds > 0,
		limit:       time.Duration(quiz.TimeLimitSeconds) * time.Second,
		questionIDs: ids,
		known:       known,
		tracks:      make(map[uuid.UUID]*answerTrack),
		submit:      submit,
		now:         time.Now,
	}
}

// Start moves the session to InProgress and arms the countdown when the
// quiz has a time limit.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateNotStarted {
		return ErrAlreadyStarted
	}
	s.state = StateInProgress
	if s.timed {
		s.deadline = s.now().Add(s.limit)
		s.timer = time.AfterFunc(s.limit, func() { s.ForceTimeout() })
	}
	return nil
}

// ViewQuestion marks a question as the one currently displayed. Time is
// attributed to the previously displayed question up to this moment; only
// the displayed question's clock is ever live.
func (s *Session) ViewQuestion(questionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress {
		return ErrNotInProgress
	}
	if _, ok := s.known[questionID]; !ok {
		return ErrUnknownQuestion
	}
	s.flushViewLocked()
	s.viewing = questionID
	s.viewedAt = s.now()
	return nil
}

// RecordAnswer overwrites the stored value for a question and bumps its
// change counter. Answering a question that is not the displayed one
// switches the view to it first.
func (s *Session) RecordAnswer(questionID uuid.UUID, value models.AnswerValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress {
		return ErrNotInProgress
	}
	if _, ok := s.known[questionID]; !ok {
		return ErrUnknownQuestion
	}
	if s.viewing != questionID {
		s.flushViewLocked()
		s.viewing = questionID
		s.viewedAt = s.now()
	}
	t := s.trackLocked(questionID)
	t.value = value
	t.answered = true
	t.changedCount++
	return nil
}

// Submit is the explicit student action. A second submit while one is in
// flight is rejected rather than queued.
func (s *Session) Submit() error {
	s.mu.Lock()
	switch s.state {
	case StateSubmitting, StateTimedOut:
		s.mu.Unlock()
		return ErrAlreadySubmitting
	case StateSubmitted:
		s.mu.Unlock()
		return ErrSessionClosed
	case StateNotStarted:
		s.mu.Unlock()
		return ErrNotInProgress
	}
	batch := s.beginSubmitLocked()
	s.mu.Unlock()

	err := s.submit(batch)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		// Nothing was persisted; hand the session back for a retry.
		s.state = StateInProgress
		s.rearmLocked()
		return err
	}
	s.state = StateSubmitted
	return nil
}

// ForceTimeout drives the countdown-expired path: InProgress becomes
// TimedOut and is immediately submitted with whatever answers exist, empty
// included. A TimedOut session whose submit failed earlier is retried.
// Any other state is left alone.
func (s *Session) ForceTimeout() {
	s.mu.Lock()
	if s.state != StateInProgress && s.state != StateTimedOut {
		s.mu.Unlock()
		return
	}
	s.state = StateTimedOut
	batch := s.beginSubmitLocked()
	s.mu.Unlock()

	err := s.submit(batch)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		// Leave it TimedOut so the janitor job retries later.
		s.state = StateTimedOut
		return
	}
	s.state = StateSubmitted
}

// Cancel abandons the session: the countdown is disarmed and nothing is
// persisted.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Deadline() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deadline, s.timed
}

// Expired reports whether the countdown has passed without the session
// reaching Submitted yet.
func (s *Session) Expired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateTimedOut {
		return true
	}
	return s.state == StateInProgress && s.timed && !s.now().Before(s.deadline)
}

type QuestionProgress struct {
	QuestionID       uuid.UUID           `json:"question_id"`
	Answered         bool                `json:"answered"`
	Answer           *models.AnswerValue `json:"answer,omitempty"`
	ChangedCount     int                 `json:"changed_count"`
	TimeSpentSeconds int                 `json:"time_spent_seconds"`
}

// Progress snapshots per-question tracking in quiz display order.
func (s *Session) Progress() []QuestionProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]QuestionProgress, 0, len(s.tracks))
	for _, qid := range s.questionIDs {
		t, ok := s.tracks[qid]
		if !ok {
			continue
		}
		spent := t.timeSpent
		if s.state == StateInProgress && s.viewing == qid {
			spent += s.now().Sub(s.viewedAt)
		}
		p := QuestionProgress{
			QuestionID:       qid,
			Answered:         t.answered,
			ChangedCount:     t.changedCount,
			TimeSpentSeconds: int(spent / time.Second),
		}
		if t.answered {
			value := t.value
			p.Answer = &value
		}
		out = append(out, p)
	}
	return out
}

// beginSubmitLocked finalizes tracking, moves to Submitting and returns
// the batch to persist. Unanswered questions are omitted.
func (s *Session) beginSubmitLocked() []models.Answer {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.flushViewLocked()
	s.viewing = uuid.Nil
	s.state = StateSubmitting

	batch := make([]models.Answer, 0, len(s.tracks))
	for _, qid := range s.questionIDs {
		t, ok := s.tracks[qid]
		if !ok || !t.answered {
			continue
		}
		batch = append(batch, models.Answer{
			StudentID:        s.StudentID,
			QuizID:           s.QuizID,
			QuestionID:       qid,
			Value:            t.value,
			TimeSpentSeconds: int(t.timeSpent / time.Second),
			ChangedCount:     t.changedCount,
		})
	}
	return batch
}

func (s *Session) rearmLocked() {
	if !s.timed {
		return
	}
	remaining := s.deadline.Sub(s.now())
	if remaining < 0 {
		remaining = 0
	}
	s.timer = time.AfterFunc(remaining, func() { s.ForceTimeout() })
}

func (s *Session) flushViewLocked() {
	if s.viewing == uuid.Nil {
		return
	}
	t := s.trackLocked(s.viewing)
	t.timeSpent += s.now().Sub(s.viewedAt)
	s.viewedAt = s.now()
}

func (s *Session) trackLocked(questionID uuid.UUID) *answerTrack {
	t, ok := s.tracks[questionID]
	if !ok {
		t = &answerTrack{}
		s.tracks[questionID] = t
	}
	return t
}
