package handlers

import (
	"net/http"
	"time"

	"fieldops/internal/database"
	"fieldops/internal/models"

	"github.com/gin-gonic/gin"
)

type scheduleDay struct {
	Date time.Time
	Jobs []models.Job
}

// Расписание: заявки на неделю вперёд, сгруппированные по дням.
// Начало окна можно сдвинуть параметром ?from=2026-01-12.
func ShowSchedule(c *gin.Context) {
	from := time.Now().Truncate(24 * time.Hour)
	if fromStr := c.Query("from"); fromStr != "" {
		if t, err := time.Parse("2006-01-02", fromStr); err == nil {
			from = t
		}
	}
	to := from.AddDate(0, 0, 7)

	var jobs []models.Job
	database.DB.
		Preload("Client").
		Where("scheduled_at >= ? AND scheduled_at < ?", from, to).
		Where("status IN ?", []models.JobStatus{models.JobScheduled, models.JobInProgress}).
		Order("scheduled_at asc").
		Find(&jobs)

	days := make([]scheduleDay, 0, 7)
	for d := 0; d < 7; d++ {
		day := from.AddDate(0, 0, d)
		next := day.AddDate(0, 0, 1)

		entry := scheduleDay{Date: day}
		for _, j := range jobs {
			if j.ScheduledAt != nil && !j.ScheduledAt.Before(day) && j.ScheduledAt.Before(next) {
				entry.Jobs = append(entry.Jobs, j)
			}
		}
		days = append(days, entry)
	}

	render(c, http.StatusOK, "schedule.html", gin.H{
		"days": days,
		"from": from,
	})
}
