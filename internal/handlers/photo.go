package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"fieldops/internal/database"
	"fieldops/internal/models"
	"fieldops/internal/storage"

	"github.com/gin-gonic/gin"
)

//
// ФОТО С ОБЪЕКТОВ
//

func ListPhotoRequests(c *gin.Context) {
	role := currentRole(c)
	statusStr := c.Query("status")

	dbq := database.DB.Preload("Job").Preload("CreatedBy").Order("created_at desc")
	if statusStr != "" {
		dbq = dbq.Where("status = ?", statusStr)
	}
	if role == models.RoleWorker {
		dbq = dbq.Where("created_by_id = ?", currentUserID(c))
	}

	var requests []models.PhotoApprovalRequest
	dbq.Find(&requests)

	// ключ -> публичный URL для шаблона
	urls := make(map[uint]string, len(requests))
	for _, r := range requests {
		urls[r.ID] = photoStore.PublicURL(r.PhotoKey)
	}

	render(c, http.StatusOK, "photos_list.html", gin.H{
		"requests":     requests,
		"urls":         urls,
		"FilterStatus": statusStr,
		"IsSupervisor": role == models.RoleAdmin || role == models.RoleSupervisor,
	})
}

func ShowUploadPhoto(c *gin.Context) {
	var jobs []models.Job
	database.DB.Preload("Client").Order("created_at desc").Find(&jobs)

	render(c, http.StatusOK, "photos_new.html", gin.H{
		"jobs":  jobs,
		"error": "",
	})
}

// UploadPhoto кладёт файл в хранилище под jobs/<id>/ и создаёт
// заявку на согласование со статусом pending.
func UploadPhoto(c *gin.Context) {
	jobIDStr := c.PostForm("job_id")
	description := strings.TrimSpace(c.PostForm("description"))

	jid, err := strconv.Atoi(jobIDStr)
	if err != nil || jid <= 0 {
		renderPhotoError(c, "Выберите заявку")
		return
	}

	var job models.Job
	if err := database.DB.First(&job, jid).Error; err != nil {
		renderPhotoError(c, "Заявка не найдена")
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		renderPhotoError(c, "Прикрепите фото")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		renderPhotoError(c, "Не удалось прочитать файл")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		renderPhotoError(c, "Не удалось прочитать файл")
		return
	}

	key := storage.Key(fmt.Sprintf("jobs/%d", job.ID), fileHeader.Filename)
	if err := photoStore.Upload(data, key); err != nil {
		renderPhotoError(c, "Ошибка сохранения файла")
		return
	}

	request := models.PhotoApprovalRequest{
		JobID:       job.ID,
		PhotoKey:    key,
		Description: description,
		Status:      models.PhotoPending,
		CreatedByID: currentUserID(c),
	}

	if err := database.DB.Create(&request).Error; err != nil {
		renderPhotoError(c, "Ошибка сохранения заявки на фото")
		return
	}

	if uid := currentUserID(c); uid != 0 {
		database.CreateAuditLog(uid, "photo", request.ID, "create",
			fmt.Sprintf("Загружено фото по заявке №%d", job.ID))
	}

	c.Redirect(http.StatusFound, "/photos")
}

func renderPhotoError(c *gin.Context, msg string) {
	var jobs []models.Job
	database.DB.Preload("Client").Order("created_at desc").Find(&jobs)

	render(c, http.StatusBadRequest, "photos_new.html", gin.H{
		"error": msg,
		"jobs":  jobs,
	})
}

// ReviewPhoto: руководитель одобряет или отклоняет фото.
// pending — единственный статус, из которого есть переходы.
func ReviewPhoto(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID")
		return
	}

	var request models.PhotoApprovalRequest
	if err := database.DB.First(&request, id).Error; err != nil {
		c.String(http.StatusNotFound, "Заявка на фото не найдена")
		return
	}

	if request.Status != models.PhotoPending {
		c.String(http.StatusBadRequest, "Фото уже рассмотрено")
		return
	}

	var newStatus models.PhotoStatus
	switch c.PostForm("decision") {
	case "approve":
		newStatus = models.PhotoApproved
	case "reject":
		newStatus = models.PhotoRejected
	default:
		c.String(http.StatusBadRequest, "Некорректное решение")
		return
	}

	request.Status = newStatus

	if err := database.DB.Save(&request).Error; err != nil {
		c.String(http.StatusInternalServerError, "Ошибка сохранения")
		return
	}

	if uid := currentUserID(c); uid != 0 {
		database.CreateAuditLog(uid, "photo", request.ID, "status_change",
			"Фото: "+string(newStatus))
	}

	notifyUser(request.CreatedByID, "Фото рассмотрено",
		fmt.Sprintf("Фото по заявке №%d: %s", request.JobID, newStatus),
		map[string]string{"url": "/photos"})

	c.Redirect(http.StatusFound, "/photos")
}
