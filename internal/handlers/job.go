package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"fieldops/internal/database"
	"fieldops/internal/models"

	"github.com/gin-gonic/gin"
)

//
// СПИСОК ЗАЯВОК
//

// Список заявок + фильтры
func ListJobs(c *gin.Context) {
	role := currentRole(c)

	clientIDStr := c.Query("client_id")
	statusStr := c.Query("status")

	dbq := database.DB.Preload("Client").Order("created_at desc")

	if clientIDStr != "" {
		if cid, err := strconv.Atoi(clientIDStr); err == nil && cid > 0 {
			dbq = dbq.Where("client_id = ?", cid)
		}
	}

	if statusStr != "" {
		dbq = dbq.Where("status = ?", statusStr)
	}

	// мастер видит только свои заявки
	if role == models.RoleWorker {
		dbq = dbq.Where("assigned_to_id = ?", currentUserID(c))
	}

	var jobs []models.Job
	if err := dbq.Find(&jobs).Error; err != nil {
		c.String(http.StatusInternalServerError, "Ошибка загрузки заявок")
		return
	}

	var clients []models.Client
	database.DB.Order("name asc").Find(&clients)

	render(c, http.StatusOK, "jobs_list.html", gin.H{
		"jobs":           jobs,
		"clients":        clients,
		"FilterClientID": clientIDStr,
		"FilterStatus":   statusStr,

		"IsAdmin":      role == models.RoleAdmin,
		"IsSupervisor": role == models.RoleSupervisor,
		"IsWorker":     role == models.RoleWorker,
	})
}

//
// СОЗДАНИЕ ЗАЯВКИ
//

func ShowNewJob(c *gin.Context) {
	var clients []models.Client
	database.DB.Order("name asc").Find(&clients)

	var workers []models.User
	database.DB.Where("role = ?", models.RoleWorker).Order("username asc").Find(&workers)

	render(c, http.StatusOK, "jobs_new.html", gin.H{
		"clients": clients,
		"workers": workers,
		"error":   "",
	})
}

func CreateJob(c *gin.Context) {
	title := strings.TrimSpace(c.PostForm("title"))
	clientIDStr := c.PostForm("client_id")
	workerIDStr := c.PostForm("worker_id")
	desc := strings.TrimSpace(c.PostForm("description"))
	scheduledAtStr := c.PostForm("scheduled_at")
	durationStr := c.PostForm("duration_minutes")

	if len(title) < 3 {
		renderJobError(c, "Название заявки должно быть не короче 3 символов")
		return
	}

	cid, err := strconv.Atoi(clientIDStr)
	if err != nil || cid <= 0 {
		renderJobError(c, "Выберите клиента")
		return
	}

	var client models.Client
	if err := database.DB.First(&client, cid).Error; err != nil {
		renderJobError(c, "Клиент не найден")
		return
	}

	var workerID uint
	if workerIDStr != "" {
		if wid, err := strconv.Atoi(workerIDStr); err == nil {
			workerID = uint(wid)
		}
	}

	var scheduledAt *time.Time
	if scheduledAtStr != "" {
		if t, err := time.Parse("2006-01-02T15:04", scheduledAtStr); err == nil {
			scheduledAt = &t
		}
	}

	duration := 0
	if durationStr != "" {
		if d, err := strconv.Atoi(durationStr); err == nil && d > 0 {
			duration = d
		}
	}

	laborCost, _ := strconv.ParseFloat(c.PostForm("labor_cost"), 64)
	materialCost, _ := strconv.ParseFloat(c.PostForm("material_cost"), 64)
	serviceCost, _ := strconv.ParseFloat(c.PostForm("service_cost"), 64)

	job := models.Job{
		ClientID:        client.ID,
		Title:           title,
		Status:          models.JobScheduled,
		Description:     desc,
		ScheduledAt:     scheduledAt,
		DurationMinutes: duration,
		LaborCost:       laborCost,
		MaterialCost:    materialCost,
		ServiceCost:     serviceCost,
		AssignedToID:    workerID,
	}

	if err := database.DB.Create(&job).Error; err != nil {
		renderJobError(c, "Ошибка сохранения заявки")
		return
	}

	if uid := currentUserID(c); uid != 0 {
		database.CreateAuditLog(uid, "job", job.ID, "create", "Создана заявка: "+job.Title)
	}

	c.Redirect(http.StatusFound, "/jobs")
}

func renderJobError(c *gin.Context, msg string) {
	var clients []models.Client
	database.DB.Order("name asc").Find(&clients)

	var workers []models.User
	database.DB.Where("role = ?", models.RoleWorker).Order("username asc").Find(&workers)

	render(c, http.StatusBadRequest, "jobs_new.html", gin.H{
		"error":   msg,
		"clients": clients,
		"workers": workers,
	})
}

//
// СМЕНА СТАТУСА
//

func ChangeJobStatus(c *gin.Context) {
	idStr := c.Param("id")
	statusStr := c.PostForm("status")

	jid, err := strconv.Atoi(idStr)
	if err != nil || jid <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID заявки")
		return
	}

	var job models.Job
	if err := database.DB.First(&job, jid).Error; err != nil {
		c.String(http.StatusNotFound, "Заявка не найдена")
		return
	}

	newStatus := models.JobStatus(statusStr)

	switch newStatus {
	case models.JobScheduled,
		models.JobInProgress,
		models.JobCompleted,
		models.JobCancelled:
	default:
		c.String(http.StatusBadRequest, "Некорректный статус")
		return
	}

	role := currentRole(c)
	if !canChangeJobStatus(role, job.Status, newStatus) {
		c.String(http.StatusForbidden, "Недостаточно прав")
		return
	}

	job.Status = newStatus

	if err := database.DB.Save(&job).Error; err != nil {
		c.String(http.StatusInternalServerError, "Ошибка обновления статуса")
		return
	}

	if uid := currentUserID(c); uid != 0 {
		database.CreateAuditLog(uid, "job", job.ID, "status_change",
			"Статус изменён на: "+string(newStatus))
	}

	c.Redirect(http.StatusFound, "/jobs")
}

// логика ролей
func canChangeJobStatus(role models.UserRole, current, next models.JobStatus) bool {
	if current == next {
		return false
	}

	// из терминальных статусов выхода нет
	if current == models.JobCompleted || current == models.JobCancelled {
		return false
	}

	switch role {

	case models.RoleAdmin:
		return true

	case models.RoleSupervisor:
		return next != models.JobScheduled || current == models.JobInProgress

	case models.RoleWorker:
		switch current {
		case models.JobScheduled:
			return next == models.JobInProgress
		case models.JobInProgress:
			return next == models.JobCompleted
		}
		return false

	default:
		return false
	}
}

//
// РЕДАКТИРОВАНИЕ ЗАЯВКИ
//

func ShowEditJob(c *gin.Context) {
	role := currentRole(c)
	if role != models.RoleAdmin && role != models.RoleSupervisor {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	id := c.Param("id")
	var job models.Job
	if err := database.DB.Preload("Client").First(&job, id).Error; err != nil {
		c.String(http.StatusNotFound, "Заявка не найдена")
		return
	}

	var clients []models.Client
	database.DB.Order("name asc").Find(&clients)

	var workers []models.User
	database.DB.Where("role = ?", models.RoleWorker).Order("username asc").Find(&workers)

	render(c, http.StatusOK, "jobs_edit.html", gin.H{
		"job":     job,
		"clients": clients,
		"workers": workers,
		"error":   "",
	})
}

func UpdateJob(c *gin.Context) {
	role := currentRole(c)
	if role != models.RoleAdmin && role != models.RoleSupervisor {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	id := c.Param("id")

	var job models.Job
	if err := database.DB.First(&job, id).Error; err != nil {
		c.String(http.StatusNotFound, "Заявка не найдена")
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	clientIDStr := c.PostForm("client_id")
	workerIDStr := c.PostForm("worker_id")
	scheduledAtStr := c.PostForm("scheduled_at")
	durationStr := c.PostForm("duration_minutes")
	description := strings.TrimSpace(c.PostForm("description"))

	if len(title) < 3 {
		renderJobEditError(c, job, "Название слишком короткое")
		return
	}

	// клиент обязателен
	var client models.Client
	if err := database.DB.First(&client, clientIDStr).Error; err != nil {
		renderJobEditError(c, job, "Клиент не найден")
		return
	}

	// исполнитель
	var workerID uint
	if workerIDStr != "" {
		var worker models.User
		if err := database.DB.First(&worker, workerIDStr).Error; err != nil {
			renderJobEditError(c, job, "Исполнитель не найден")
			return
		}
		workerID = worker.ID
	}

	var scheduledAt *time.Time
	if scheduledAtStr != "" {
		t, err := time.Parse("2006-01-02T15:04", scheduledAtStr)
		if err != nil {
			renderJobEditError(c, job, "Неверная дата визита")
			return
		}
		scheduledAt = &t
	}

	if durationStr != "" {
		if d, err := strconv.Atoi(durationStr); err == nil && d > 0 {
			job.DurationMinutes = d
		}
	}

	laborCost, _ := strconv.ParseFloat(c.PostForm("labor_cost"), 64)
	materialCost, _ := strconv.ParseFloat(c.PostForm("material_cost"), 64)
	serviceCost, _ := strconv.ParseFloat(c.PostForm("service_cost"), 64)

	job.Title = title
	job.ClientID = client.ID
	job.Description = description
	job.ScheduledAt = scheduledAt
	job.AssignedToID = workerID
	job.LaborCost = laborCost
	job.MaterialCost = materialCost
	job.ServiceCost = serviceCost

	if err := database.DB.Save(&job).Error; err != nil {
		renderJobEditError(c, job, "Ошибка сохранения заявки")
		return
	}

	if uid := currentUserID(c); uid != 0 {
		database.CreateAuditLog(uid, "job", job.ID, "update", "Заявка обновлена: "+job.Title)
	}

	c.Redirect(http.StatusFound, "/jobs")
}

func renderJobEditError(c *gin.Context, job models.Job, msg string) {
	var clients []models.Client
	database.DB.Order("name asc").Find(&clients)

	var workers []models.User
	database.DB.Where("role = ?", models.RoleWorker).Order("username asc").Find(&workers)

	render(c, http.StatusBadRequest, "jobs_edit.html", gin.H{
		"error":   msg,
		"job":     job,
		"clients": clients,
		"workers": workers,
	})
}

//
// УДАЛЕНИЕ ЗАЯВКИ
//

func DeleteJob(c *gin.Context) {
	if currentRole(c) != models.RoleAdmin {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID")
		return
	}

	var job models.Job
	if err := database.DB.First(&job, id).Error; err != nil {
		c.String(http.StatusNotFound, "Заявка не найдена")
		return
	}

	if err := database.DB.Delete(&job).Error; err != nil {
		c.String(http.StatusInternalServerError, "Ошибка удаления")
		return
	}

	if uid := currentUserID(c); uid != 0 {
		database.CreateAuditLog(uid, "job", job.ID, "delete", "Удалена заявка: "+job.Title)
	}

	c.Redirect(http.StatusFound, "/jobs")
}

//
// ИСТОРИЯ ЗАЯВКИ
//

func ShowJobHistory(c *gin.Context) {
	idStr := c.Param("id")
	jid, err := strconv.Atoi(idStr)
	if err != nil || jid <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID")
		return
	}

	var job models.Job
	if err := database.DB.First(&job, jid).Error; err != nil {
		c.String(http.StatusNotFound, "Заявка не найдена")
		return
	}

	var logs []models.AuditLog
	database.DB.Where("entity = ? AND entity_id = ?", "job", jid).
		Preload("User").
		Order("created_at asc").
		Find(&logs)

	render(c, http.StatusOK, "job_history.html", gin.H{
		"job":  job,
		"logs": logs,
	})
}
