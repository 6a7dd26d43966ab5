package services

import (
	"github.com/edukit/quizdesk/models"
	"github.com/google/uuid"
)

const (
	// TotalHours is the length of one attendance session in hours.
	TotalHours = 6
	// MaxMissHours caps the missed-hours total a student can accumulate
	// for display and export purposes.
	MaxMissHours = 24
)

// HoursMissed sums (TotalHours - hoursPresent) over a student's attendance
// records and clamps the result to [0, MaxMissHours]. Pure function of the
// record set.
func HoursMissed(records []models.Miss) int {
	sum := 0
	for _, r := range records {
		sum += TotalHours - r.HoursPresent
	}
	if sum < 0 {
		return 0
	}
	if sum > MaxMissHours {
		return MaxMissHours
	}
	return sum
}

// MissedInRecord is the per-row missed hours, clamped at zero for
// defensive reads of historical rows.
func MissedInRecord(r models.Miss) int {
	missed := TotalHours - r.HoursPresent
	if missed < 0 {
		return 0
	}
	return missed
}

// MarkAll fills hoursPresent for every student without a pending selection
// and returns the resulting map. Students the teacher already marked in
// this batch keep their value; a nil map is allocated.
func MarkAll(pending map[uuid.UUID]int, studentIDs []uuid.UUID, hoursPresent int) map[uuid.UUID]int {
	if pending == nil {
		pending = make(map[uuid.UUID]int, len(studentIDs))
	}
	for _, id := range studentIDs {
		if _, chosen := pending[id]; !chosen {
			pending[id] = hoursPresent
		}
	}
	return pending
}
