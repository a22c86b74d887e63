package handlers

import (
	"net/http"
	"strconv"
	"time"

	"fieldops/internal/database"
	"fieldops/internal/models"

	"github.com/gin-gonic/gin"
)

//
// УЧЁТ ВРЕМЕНИ
//

func ListTimeEntries(c *gin.Context) {
	uid := currentUserID(c)

	var entries []models.TimeEntry
	database.DB.
		Preload("Job").
		Where("user_id = ?", uid).
		Order("started_at desc").
		Limit(100).
		Find(&entries)

	var running *models.TimeEntry
	for i := range entries {
		if entries[i].EndedAt == nil {
			running = &entries[i]
			break
		}
	}

	var jobs []models.Job
	database.DB.
		Where("status IN ?", []models.JobStatus{models.JobScheduled, models.JobInProgress}).
		Order("created_at desc").
		Find(&jobs)

	render(c, http.StatusOK, "time_list.html", gin.H{
		"entries": entries,
		"running": running,
		"jobs":    jobs,
	})
}

// StartTimeEntry: у пользователя может быть только одна открытая запись.
func StartTimeEntry(c *gin.Context) {
	uid := currentUserID(c)

	jid, err := strconv.Atoi(c.PostForm("job_id"))
	if err != nil || jid <= 0 {
		c.String(http.StatusBadRequest, "Выберите заявку")
		return
	}

	var job models.Job
	if err := database.DB.First(&job, jid).Error; err != nil {
		c.String(http.StatusNotFound, "Заявка не найдена")
		return
	}

	var count int64
	database.DB.Model(&models.TimeEntry{}).
		Where("user_id = ? AND ended_at IS NULL", uid).
		Count(&count)
	if count > 0 {
		c.String(http.StatusBadRequest, "Сначала остановите текущий таймер")
		return
	}

	entry := models.TimeEntry{
		JobID:     job.ID,
		UserID:    uid,
		StartedAt: time.Now(),
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		c.String(http.StatusInternalServerError, "Ошибка сохранения")
		return
	}

	c.Redirect(http.StatusFound, "/time")
}

func StopTimeEntry(c *gin.Context) {
	uid := currentUserID(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID")
		return
	}

	var entry models.TimeEntry
	if err := database.DB.First(&entry, id).Error; err != nil {
		c.String(http.StatusNotFound, "Запись не найдена")
		return
	}

	// чужие таймеры не останавливаем
	if entry.UserID != uid {
		c.String(http.StatusForbidden, "Недостаточно прав")
		return
	}

	if entry.EndedAt != nil {
		c.String(http.StatusBadRequest, "Таймер уже остановлен")
		return
	}

	now := time.Now()
	entry.EndedAt = &now

	if err := database.DB.Save(&entry).Error; err != nil {
		c.String(http.StatusInternalServerError, "Ошибка сохранения")
		return
	}

	c.Redirect(http.StatusFound, "/time")
}
