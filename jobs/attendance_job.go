package jobs

import (
	"fmt"
	"log"
	"strings"

	"github.com/edukit/quizdesk/database"
	"github.com/edukit/quizdesk/models"
	"github.com/edukit/quizdesk/notifications"
	"github.com/edukit/quizdesk/services"
)

// SendAttendanceDigests mails every group's teachers a summary of their
// students' capped missed hours. Best-effort end to end.
func SendAttendanceDigests() {
	log.Println("Running job: SendAttendanceDigests...")

	var groups []models.Group
	if err := database.DB.Preload("Teachers").Find(&groups).Error; err != nil {
		log.Printf("Error loading groups for attendance digest: %v", err)
		return
	}

	for _, group := range groups {
		if len(group.Teachers) == 0 {
			continue
		}

		var students []models.User
		err := database.DB.Where("group_id = ? AND role = ?", group.ID, "student").
			Order("full_name").
			Find(&students).Error
		if err != nil {
			log.Printf("Error loading students for group %s: %v", group.ID, err)
			continue
		}
		if len(students) == 0 {
			continue
		}

		var lines []string
		for _, student := range students {
			var misses []models.Miss
			if err := database.DB.Where("student_id = ?", student.ID).Find(&misses).Error; err != nil {
				log.Printf("Error loading attendance for student %s: %v", student.ID, err)
				continue
			}
			total := services.HoursMissed(misses)
			if total == 0 {
				continue
			}
			lines = append(lines, fmt.Sprintf("<li>%s: %d missed hour(s)</li>", student.FullName, total))
		}
		if len(lines) == 0 {
			continue
		}

		body := fmt.Sprintf(
			"<h1>Attendance summary for %s</h1><ul>%s</ul>",
			group.Name, strings.Join(lines, ""),
		)
		for _, teacher := range group.Teachers {
			go notifications.SendEmail(teacher.FullName, teacher.Email, "Weekly attendance summary", body)
		}
	}
}
