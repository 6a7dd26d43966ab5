package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/edukit/quizdesk/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type batchRecorder struct {
	mu      sync.Mutex
	batches [][]models.Answer
	err     error
}

func (r *batchRecorder) submit(batch []models.Answer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.batches = append(r.batches, batch)
	return nil
}

func (r *batchRecorder) last(t *testing.T) []models.Answer {
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.batches)
	return r.batches[len(r.batches)-1]
}

func testQuiz(limitSeconds int, questionCount int) (models.Quiz, []models.Question) {
	quiz := models.Quiz{ID: uuid.New(), Title: "t", TimeLimitSeconds: limitSeconds, Opened: true}
	questions := make([]models.Question, questionCount)
	for i := range questions {
		questions[i] = models.Question{
			ID:           uuid.New(),
			QuizID:       quiz.ID,
			Position:     i,
			QuestionText: "q",
			QuestionType: models.QuestionTypeShortAnswer,
		}
	}
	return quiz, questions
}

// fakeClock pins a session to a manually advanced time.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestSession(limitSeconds, questionCount int, rec *batchRecorder) (*Session, []models.Question, *fakeClock) {
	quiz, questions := testQuiz(limitSeconds, questionCount)
	s := New(uuid.New(), quiz, questions, rec.submit)
	clock := &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	s.now = clock.Now
	return s, questions, clock
}

func TestSessionLifecycle(t *testing.T) {
	rec := &batchRecorder{}
	s, questions, clock := newTestSession(0, 2, rec)

	assert.Equal(t, StateNotStarted, s.State())
	require.Error(t, s.RecordAnswer(questions[0].ID, models.TextAnswer("x")))

	require.NoError(t, s.Start())
	assert.Equal(t, StateInProgress, s.State())
	assert.Equal(t, ErrAlreadyStarted, s.Start())

	clock.Advance(5 * time.Second)
	require.NoError(t, s.RecordAnswer(questions[0].ID, models.TextAnswer("draft")))
	clock.Advance(7 * time.Second)
	require.NoError(t, s.RecordAnswer(questions[0].ID, models.TextAnswer("final")))

	// Switching questions freezes the first question's clock.
	require.NoError(t, s.ViewQuestion(questions[1].ID))
	clock.Advance(30 * time.Second)

	require.NoError(t, s.Submit())
	assert.Equal(t, StateSubmitted, s.State())

	batch := rec.last(t)
	require.Len(t, batch, 1, "unanswered questions are omitted")
	assert.Equal(t, questions[0].ID, batch[0].QuestionID)
	assert.Equal(t, models.TextAnswer("final"), batch[0].Value)
	assert.Equal(t, 2, batch[0].ChangedCount)
	assert.Equal(t, 7, batch[0].TimeSpentSeconds)

	assert.Equal(t, ErrSessionClosed, s.Submit())
}

func TestSessionRejectsUnknownQuestion(t *testing.T) {
	rec := &batchRecorder{}
	s, _, _ := newTestSession(0, 1, rec)
	require.NoError(t, s.Start())

	assert.Equal(t, ErrUnknownQuestion, s.RecordAnswer(uuid.New(), models.TextAnswer("x")))
	assert.Equal(t, ErrUnknownQuestion, s.ViewQuestion(uuid.New()))
}

func TestSessionTimeoutSubmitsPartialAnswers(t *testing.T) {
	rec := &batchRecorder{}
	s, questions, clock := newTestSession(60, 3, rec)
	require.NoError(t, s.Start())

	clock.Advance(10 * time.Second)
	require.NoError(t, s.RecordAnswer(questions[0].ID, models.ChoiceAnswer(1)))
	clock.Advance(15 * time.Second)
	require.NoError(t, s.RecordAnswer(questions[0].ID, models.ChoiceAnswer(2)))

	clock.Advance(35 * time.Second) // countdown reaches zero
	s.ForceTimeout()

	assert.Equal(t, StateSubmitted, s.State())
	batch := rec.last(t)
	require.Len(t, batch, 1)
	assert.Equal(t, models.ChoiceAnswer(2), batch[0].Value)
	assert.Equal(t, 2, batch[0].ChangedCount)
	assert.Equal(t, 50, batch[0].TimeSpentSeconds)
}

func TestSessionTimeoutWithNoAnswers(t *testing.T) {
	rec := &batchRecorder{}
	s, _, clock := newTestSession(60, 2, rec)
	require.NoError(t, s.Start())

	clock.Advance(61 * time.Second)
	s.ForceTimeout()

	assert.Equal(t, StateSubmitted, s.State())
	assert.Empty(t, rec.last(t))
}

func TestSessionFailedSubmitReturnsToInProgress(t *testing.T) {
	boom := errors.New("db down")
	rec := &batchRecorder{err: boom}
	s, questions, _ := newTestSession(0, 1, rec)
	require.NoError(t, s.Start())
	require.NoError(t, s.RecordAnswer(questions[0].ID, models.TextAnswer("kept")))

	err := s.Submit()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateInProgress, s.State())

	// Nothing was lost; the retry succeeds with the same answer.
	rec.mu.Lock()
	rec.err = nil
	rec.mu.Unlock()
	require.NoError(t, s.Submit())
	assert.Equal(t, StateSubmitted, s.State())
	batch := rec.last(t)
	require.Len(t, batch, 1)
	assert.Equal(t, models.TextAnswer("kept"), batch[0].Value)
}

func TestSessionFailedTimeoutStaysTimedOutForRetry(t *testing.T) {
	boom := errors.New("db down")
	rec := &batchRecorder{err: boom}
	s, _, clock := newTestSession(30, 1, rec)
	require.NoError(t, s.Start())

	clock.Advance(31 * time.Second)
	s.ForceTimeout()
	assert.Equal(t, StateTimedOut, s.State())
	assert.True(t, s.Expired())

	rec.mu.Lock()
	rec.err = nil
	rec.mu.Unlock()
	s.ForceTimeout()
	assert.Equal(t, StateSubmitted, s.State())
}

func TestSessionDoubleSubmitGuard(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	slowSubmit := func(batch []models.Answer) error {
		close(entered)
		<-release
		return nil
	}

	quiz, questions := testQuiz(0, 1)
	s := New(uuid.New(), quiz, questions, slowSubmit)
	require.NoError(t, s.Start())
	require.NoError(t, s.RecordAnswer(questions[0].ID, models.TextAnswer("x")))

	done := make(chan error, 1)
	go func() { done <- s.Submit() }()
	<-entered

	// A second submit while one is in flight loses cleanly.
	assert.Equal(t, ErrAlreadySubmitting, s.Submit())
	// A countdown firing mid-submit is a no-op too.
	s.ForceTimeout()
	assert.Equal(t, StateSubmitting, s.State())

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StateSubmitted, s.State())
}

func TestSessionProgressSnapshot(t *testing.T) {
	rec := &batchRecorder{}
	s, questions, clock := newTestSession(0, 2, rec)
	require.NoError(t, s.Start())

	require.NoError(t, s.RecordAnswer(questions[1].ID, models.MultiAnswer([]string{"a", "b"})))
	clock.Advance(4 * time.Second)

	progress := s.Progress()
	require.Len(t, progress, 1)
	assert.Equal(t, questions[1].ID, progress[0].QuestionID)
	assert.True(t, progress[0].Answered)
	assert.Equal(t, 1, progress[0].ChangedCount)
	assert.Equal(t, 4, progress[0].TimeSpentSeconds, "live question keeps counting")
}

func TestManagerReplacesSessionOnRestart(t *testing.T) {
	m := NewManager()
	rec := &batchRecorder{}
	quiz, questions := testQuiz(0, 1)
	studentID := uuid.New()

	first, err := m.Start(studentID, quiz, questions, rec.submit)
	require.NoError(t, err)
	require.NoError(t, first.RecordAnswer(questions[0].ID, models.TextAnswer("old")))

	second, err := m.Start(studentID, quiz, questions, rec.submit)
	require.NoError(t, err)

	got, ok := m.Get(studentID, quiz.ID)
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Empty(t, second.Progress(), "restart abandons previous answers")
}

func TestManagerReapSubmitted(t *testing.T) {
	m := NewManager()
	rec := &batchRecorder{}
	quiz, questions := testQuiz(0, 1)
	studentID := uuid.New()

	s, err := m.Start(studentID, quiz, questions, rec.submit)
	require.NoError(t, err)
	require.NoError(t, s.Submit())

	assert.Equal(t, 1, m.ReapSubmitted())
	_, ok := m.Get(studentID, quiz.ID)
	assert.False(t, ok)
}

func TestManagerExpiredIgnoresUntimedSessions(t *testing.T) {
	m := NewManager()
	rec := &batchRecorder{}
	quiz, questions := testQuiz(0, 1)

	_, err := m.Start(uuid.New(), quiz, questions, rec.submit)
	require.NoError(t, err)
	assert.Empty(t, m.Expired())
}
