package jobs

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/MishaalFatima/facultytracker-sub000/database"
	"github.com/MishaalFatima/facultytracker-sub000/models"
	"github.com/MishaalFatima/facultytracker-sub000/notifications"
	"github.com/MishaalFatima/facultytracker-sub000/presence"
)

// SendAvailabilityDigest mails every principal a summary of yesterday's
// on-campus time per faculty member.
func SendAvailabilityDigest() {
	log.Println("Running job: SendAvailabilityDigest...")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var principals []models.User
	if err := database.DB.Where("role = ? AND is_active = ?", "principal", true).Find(&principals).Error; err != nil {
		log.Printf("Error fetching principals: %v", err)
		return
	}
	if len(principals) == 0 {
		return
	}

	var faculty []models.User
	if err := database.DB.Where("role = ? AND is_active = ?", "faculty", true).Find(&faculty).Error; err != nil {
		log.Printf("Error fetching faculty: %v", err)
		return
	}

	dayEnd := time.Now().UTC().Truncate(24 * time.Hour)
	dayStart := dayEnd.Add(-24 * time.Hour)

	var rows strings.Builder
	for _, member := range faculty {
		intervals, err := intervalLog.History(ctx, member.ID.String(), 0)
		if err != nil {
			log.Printf("Error fetching intervals for %s: %v", member.ID, err)
			continue
		}

		var onCampus int64
		responded := 0
		challenges := 0
		for _, iv := range intervals {
			if iv.StartedAt.Before(dayStart) || !iv.StartedAt.Before(dayEnd) {
				continue
			}
			if iv.State != presence.StateAvailable {
				continue
			}
			if iv.DurationSeconds != nil {
				onCampus += *iv.DurationSeconds
			}
			challenges++
			if iv.Responded {
				responded++
			}
		}

		rows.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%s</td><td>%d / %d</td></tr>",
			member.FullName, (time.Duration(onCampus) * time.Second).String(), responded, challenges))
	}

	emailBody := fmt.Sprintf(
		"<h1>Faculty Availability Digest</h1><p>On-campus time for %s.</p><table border='1'><tr><th>Faculty</th><th>On campus</th><th>Challenges answered</th></tr>%s</table>",
		dayStart.Format("2006-01-02"), rows.String(),
	)

	for _, principal := range principals {
		go notifications.SendEmail(principal.FullName, principal.Email, "Daily Faculty Availability Digest", emailBody)
	}
}
