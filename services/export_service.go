package services

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/edukit/quizdesk/models"
	"github.com/google/uuid"
)

var ErrNoStudentsToExport = errors.New("the selected group has no students")

// BuildAttendanceCSV renders one row per student: name, capped missed-hours
// total, and a semicolon-joined per-record breakdown. Every field is quoted
// (embedded quotes doubled) since downstream spreadsheet imports expect the
// fully quoted form regardless of content.
func BuildAttendanceCSV(students []models.User, missesByStudent map[uuid.UUID][]models.Miss) (string, error) {
	if len(students) == 0 {
		return "", ErrNoStudentsToExport
	}

	var b strings.Builder
	for _, s := range students {
		records := missesByStudent[s.ID]
		b.WriteString(formatMissRow(s.FullName, records))
		b.WriteString("\r\n")
	}
	return b.String(), nil
}

func formatMissRow(studentName string, records []models.Miss) string {
	sorted := make([]models.Miss, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	details := make([]string, 0, len(sorted))
	for _, r := range sorted {
		details = append(details, fmt.Sprintf("%s: %d hours", r.Date, MissedInRecord(r)))
	}

	fields := []string{
		studentName,
		strconv.Itoa(HoursMissed(records)),
		strings.Join(details, "; "),
	}
	for i, f := range fields {
		fields[i] = quoteCSV(f)
	}
	return strings.Join(fields, ",")
}

// quoteCSV always quotes, doubling embedded double quotes per RFC 4180.
// encoding/csv only quotes when it has to, which is why it is not used here.
func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
