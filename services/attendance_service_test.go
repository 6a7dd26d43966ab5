package services

import (
	"testing"

	"github.com/edukit/quizdesk/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missesWithHours(hours ...int) []models.Miss {
	out := make([]models.Miss, len(hours))
	for i, h := range hours {
		out[i] = models.Miss{StudentID: uuid.New(), HoursPresent: h}
	}
	return out
}

func TestHoursMissed(t *testing.T) {
	tests := []struct {
		name  string
		hours []int
		want  int
	}{
		{name: "no records", hours: nil, want: 0},
		{name: "fully present", hours: []int{6, 6, 6}, want: 0},
		{name: "below cap", hours: []int{6, 3, 0}, want: 9},
		{name: "exactly at cap", hours: []int{0, 0, 0, 0}, want: 24},
		{name: "clamped to cap", hours: []int{0, 0, 0, 0, 0}, want: 24},
		{name: "mixed", hours: []int{5, 4}, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HoursMissed(missesWithHours(tt.hours...)))
		})
	}
}

func TestMissedInRecord(t *testing.T) {
	assert.Equal(t, 4, MissedInRecord(models.Miss{HoursPresent: 2}))
	assert.Equal(t, 0, MissedInRecord(models.Miss{HoursPresent: 6}))
	assert.Equal(t, 6, MissedInRecord(models.Miss{HoursPresent: 0}))
}

func TestMarkAllKeepsExistingSelections(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	pending := MarkAll(map[uuid.UUID]int{a: 6}, []uuid.UUID{a, b, c}, 0)

	require.Len(t, pending, 3)
	assert.Equal(t, 6, pending[a], "already-chosen value must survive mark-all")
	assert.Equal(t, 0, pending[b])
	assert.Equal(t, 0, pending[c])
}

func TestMarkAllEmptyStudentList(t *testing.T) {
	pending := MarkAll(map[uuid.UUID]int{}, nil, 3)
	assert.Empty(t, pending)
}

func TestMarkAllAllocatesNilMap(t *testing.T) {
	a := uuid.New()
	pending := MarkAll(nil, []uuid.UUID{a}, 4)
	require.NotNil(t, pending)
	assert.Equal(t, 4, pending[a])
}
