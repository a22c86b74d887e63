package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"fieldops/internal/database"
	"fieldops/internal/models"
	"fieldops/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"
)

type hoursRow struct {
	UserID      uint
	DisplayName string
	Hours       float64
}

type budgetRow struct {
	Status   models.JobStatus
	Labor    float64
	Material float64
	Service  float64
	Total    float64
}

// hoursReport считает часы по закрытым записям времени и
// подставляет имена пользователей. Объёмы маленькие, поэтому
// просто вычитываем коллекции целиком и агрегируем в памяти.
func hoursReport() []hoursRow {
	var entries []models.TimeEntry
	database.DB.Where("ended_at IS NOT NULL").Find(&entries)

	var users []models.User
	database.DB.Find(&users)

	names := make(map[uint]string, len(users))
	for _, u := range users {
		if u.DisplayName != "" {
			names[u.ID] = u.DisplayName
		} else {
			names[u.ID] = u.Username
		}
	}

	minutes := make(map[uint]int)
	for _, e := range entries {
		minutes[e.UserID] += e.Minutes()
	}

	rows := make([]hoursRow, 0, len(minutes))
	for _, u := range users {
		if m, ok := minutes[u.ID]; ok {
			rows = append(rows, hoursRow{
				UserID:      u.ID,
				DisplayName: names[u.ID],
				Hours:       float64(m) / 60,
			})
		}
	}
	return rows
}

func budgetReport() []budgetRow {
	var jobs []models.Job
	database.DB.Find(&jobs)

	byStatus := make(map[models.JobStatus]*budgetRow)
	for _, j := range jobs {
		row, ok := byStatus[j.Status]
		if !ok {
			row = &budgetRow{Status: j.Status}
			byStatus[j.Status] = row
		}
		row.Labor += j.LaborCost
		row.Material += j.MaterialCost
		row.Service += j.ServiceCost
		row.Total += j.LaborCost + j.MaterialCost + j.ServiceCost
	}

	order := []models.JobStatus{models.JobScheduled, models.JobInProgress, models.JobCompleted, models.JobCancelled}
	rows := make([]budgetRow, 0, len(byStatus))
	for _, s := range order {
		if row, ok := byStatus[s]; ok {
			rows = append(rows, *row)
		}
	}
	return rows
}

// ShowAdminDashboard: карточки-агрегаты для админки
func ShowAdminDashboard(c *gin.Context) {
	var pendingPhotos int64
	database.DB.Model(&models.PhotoApprovalRequest{}).
		Where("status = ?", models.PhotoPending).
		Count(&pendingPhotos)

	var pendingQuotes int64
	database.DB.Model(&models.Quote{}).
		Where("status = ?", workflow.StatusPendingSupervisor).
		Count(&pendingQuotes)

	var pendingInvoices int64
	database.DB.Model(&models.Invoice{}).
		Where("status = ?", workflow.StatusPendingSupervisor).
		Count(&pendingInvoices)

	render(c, http.StatusOK, "admin_dashboard.html", gin.H{
		"hours":           hoursReport(),
		"budgets":         budgetReport(),
		"pendingPhotos":   pendingPhotos,
		"pendingQuotes":   pendingQuotes,
		"pendingInvoices": pendingInvoices,
	})
}

// ExportHoursReport отдаёт отчёт по часам в xlsx.
func ExportHoursReport(c *gin.Context) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	f.SetCellValue(sheet, "A1", "Сотрудник")
	f.SetCellValue(sheet, "B1", "Часы")

	for i, row := range hoursReport() {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), row.DisplayName)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), row.Hours)
	}

	filename := fmt.Sprintf("hours-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		c.String(http.StatusInternalServerError, "Ошибка формирования отчёта")
	}
}

//
// УПРАВЛЕНИЕ ПОЛЬЗОВАТЕЛЯМИ
//

func ListUsers(c *gin.Context) {
	var users []models.User
	database.DB.Order("username asc").Find(&users)

	render(c, http.StatusOK, "admin_users.html", gin.H{
		"users": users,
		"error": "",
	})
}

func ChangeUserRole(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID пользователя")
		return
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		c.String(http.StatusNotFound, "Пользователь не найден")
		return
	}

	role := models.UserRole(c.PostForm("role"))
	switch role {
	case models.RoleAdmin, models.RoleSupervisor, models.RoleWorker:
	default:
		c.String(http.StatusBadRequest, "Неверная роль")
		return
	}

	// себе роль не меняем, чтобы не выпилить последнего админа
	if user.ID == currentUserID(c) {
		c.String(http.StatusBadRequest, "Нельзя менять собственную роль")
		return
	}

	user.Role = role

	if err := database.DB.Save(&user).Error; err != nil {
		c.String(http.StatusInternalServerError, "Ошибка сохранения пользователя")
		return
	}

	if uid := currentUserID(c); uid != 0 {
		database.CreateAuditLog(uid, "user", user.ID, "role_change",
			"Роль "+user.Username+" изменена на "+string(role))
	}

	c.Redirect(http.StatusFound, "/admin/users")
}

func ResetUserPassword(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID пользователя")
		return
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		c.String(http.StatusNotFound, "Пользователь не найден")
		return
	}

	password := c.PostForm("password")
	if len(password) < 6 {
		c.String(http.StatusBadRequest, "Пароль должен быть не короче 6 символов")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		c.String(http.StatusInternalServerError, "Ошибка хеширования пароля")
		return
	}

	user.PasswordHash = string(hash)

	if err := database.DB.Save(&user).Error; err != nil {
		c.String(http.StatusInternalServerError, "Ошибка сохранения пользователя")
		return
	}

	if uid := currentUserID(c); uid != 0 {
		database.CreateAuditLog(uid, "user", user.ID, "password_reset",
			"Сброшен пароль для "+user.Username)
	}

	c.Redirect(http.StatusFound, "/admin/users")
}
