package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/edukit/quizdesk/apperrors"
	"github.com/edukit/quizdesk/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func startPostgres(ctx context.Context, t *testing.T) (dsn string, terminate func()) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "quizdesk",
			"POSTGRES_PASSWORD": "quizdesk",
			"POSTGRES_DB":       "quizdesk_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("could not start postgres container: %v", err)
	}

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn = fmt.Sprintf("host=%s port=%s user=quizdesk password=quizdesk dbname=quizdesk_test sslmode=disable",
		host, port.Port())
	terminate = func() {
		require.NoError(t, pgC.Terminate(ctx))
	}
	return dsn, terminate
}

// openTestDB mirrors the production gorm config; TranslateError is what
// turns the unique-index conflict into gorm.ErrDuplicatedKey.
func openTestDB(t *testing.T, dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Answer{}))
	return db
}

func countAnswers(t *testing.T, db *gorm.DB, query string, args ...interface{}) int64 {
	var count int64
	require.NoError(t, db.Model(&models.Answer{}).Where(query, args...).Count(&count).Error)
	return count
}

func TestSubmitAnswerBatchAgainstPostgres(t *testing.T) {
	ctx := context.Background()
	dsn, terminate := startPostgres(ctx, t)
	defer terminate()
	db := openTestDB(t, dsn)

	studentID := uuid.New()
	quizID := uuid.New()
	q1, q2 := uuid.New(), uuid.New()

	batch := []models.Answer{
		{StudentID: studentID, QuizID: quizID, QuestionID: q1,
			Value: models.TextAnswer("mitochondria"), TimeSpentSeconds: 12, ChangedCount: 2},
		{StudentID: studentID, QuizID: quizID, QuestionID: q2,
			Value: models.ChoiceAnswer(3), TimeSpentSeconds: 40, ChangedCount: 1},
	}
	require.NoError(t, SubmitAnswerBatch(db, batch))

	t.Run("stored batch round-trips", func(t *testing.T) {
		answers, err := AnswersForQuiz(db, quizID)
		require.NoError(t, err)
		require.Len(t, answers, 2)

		byQuestion := make(map[uuid.UUID]models.Answer, len(answers))
		for _, a := range answers {
			byQuestion[a.QuestionID] = a
		}
		assert.Equal(t, models.TextAnswer("mitochondria"), byQuestion[q1].Value)
		assert.Equal(t, 12, byQuestion[q1].TimeSpentSeconds)
		assert.Equal(t, 2, byQuestion[q1].ChangedCount)
		assert.Equal(t, models.ChoiceAnswer(3), byQuestion[q2].Value)
		assert.Equal(t, studentID, byQuestion[q2].StudentID)
	})

	t.Run("second batch is rejected and stored rows are untouched", func(t *testing.T) {
		again := []models.Answer{
			{StudentID: studentID, QuizID: quizID, QuestionID: q1,
				Value: models.TextAnswer("changed my mind")},
		}
		assert.ErrorIs(t, SubmitAnswerBatch(db, again), apperrors.ErrDuplicateSubmission)

		assert.EqualValues(t, 2, countAnswers(t, db, "quiz_id = ?", quizID))
		answers, err := AnswersForQuiz(db, quizID)
		require.NoError(t, err)
		for _, a := range answers {
			if a.QuestionID == q1 {
				assert.Equal(t, models.TextAnswer("mitochondria"), a.Value)
			}
		}
	})

	t.Run("index conflict rolls back the whole batch", func(t *testing.T) {
		// The first record passes the existence check (a fresh student),
		// the second collides with a stored row, so the insert itself has
		// to fail and take the fresh student's row down with it.
		otherStudent := uuid.New()
		mixed := []models.Answer{
			{StudentID: otherStudent, QuizID: quizID, QuestionID: q1,
				Value: models.TextAnswer("fresh")},
			{StudentID: studentID, QuizID: quizID, QuestionID: q1,
				Value: models.TextAnswer("collides")},
		}
		assert.ErrorIs(t, SubmitAnswerBatch(db, mixed), apperrors.ErrDuplicateSubmission)
		assert.Zero(t, countAnswers(t, db, "student_id = ?", otherStudent))
	})

	t.Run("has submission", func(t *testing.T) {
		ok, err := HasSubmission(db, studentID, quizID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = HasSubmission(db, uuid.New(), quizID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		require.NoError(t, SubmitAnswerBatch(db, nil))
		assert.EqualValues(t, 2, countAnswers(t, db, "quiz_id = ?", quizID))
	})
}
