package services

import (
	"testing"

	"github.com/edukit/quizdesk/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAttendanceCSVSingleRecord(t *testing.T) {
	ana := models.User{ID: uuid.New(), FullName: "Ana"}
	misses := map[uuid.UUID][]models.Miss{
		ana.ID: {{StudentID: ana.ID, HoursPresent: 2, Date: "2024-01-01"}},
	}

	csv, err := BuildAttendanceCSV([]models.User{ana}, misses)
	require.NoError(t, err)
	assert.Equal(t, "\"Ana\",\"4\",\"2024-01-01: 4 hours\"\r\n", csv)
}

func TestBuildAttendanceCSVMultipleRecordsSortedByDate(t *testing.T) {
	bo := models.User{ID: uuid.New(), FullName: "Bo"}
	misses := map[uuid.UUID][]models.Miss{
		bo.ID: {
			{StudentID: bo.ID, HoursPresent: 3, Date: "2024-02-10"},
			{StudentID: bo.ID, HoursPresent: 0, Date: "2024-01-05"},
		},
	}

	csv, err := BuildAttendanceCSV([]models.User{bo}, misses)
	require.NoError(t, err)
	assert.Equal(t, "\"Bo\",\"9\",\"2024-01-05: 6 hours; 2024-02-10: 3 hours\"\r\n", csv)
}

func TestBuildAttendanceCSVStudentWithoutRecords(t *testing.T) {
	cy := models.User{ID: uuid.New(), FullName: "Cy"}

	csv, err := BuildAttendanceCSV([]models.User{cy}, nil)
	require.NoError(t, err)
	assert.Equal(t, "\"Cy\",\"0\",\"\"\r\n", csv)
}

func TestBuildAttendanceCSVNoStudents(t *testing.T) {
	_, err := BuildAttendanceCSV(nil, nil)
	assert.ErrorIs(t, err, ErrNoStudentsToExport)
}

func TestQuoteCSVDoublesEmbeddedQuotes(t *testing.T) {
	assert.Equal(t, `"say ""hi"""`, quoteCSV(`say "hi"`))
	assert.Equal(t, `""`, quoteCSV(""))
}
