package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"fieldops/internal/database"
	"fieldops/internal/models"

	"github.com/gin-gonic/gin"
)

// helper: кто может управлять клиентами (admin + supervisor)
func canManageClients(c *gin.Context) bool {
	role := currentRole(c)
	return role == models.RoleAdmin || role == models.RoleSupervisor
}

//
// СПИСОК / СОЗДАНИЕ
//

func ListClients(c *gin.Context) {
	role := currentRole(c)
	search := strings.TrimSpace(c.Query("q"))

	dbq := database.DB.Order("name asc")
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		dbq = dbq.Where("LOWER(name) LIKE ? OR LOWER(address) LIKE ?", like, like)
	}

	var clients []models.Client
	dbq.Find(&clients)

	render(c, http.StatusOK, "clients_list.html", gin.H{
		"clients": clients,
		"Search":  search,
		"IsAdmin": role == models.RoleAdmin,
	})
}

func ShowNewClient(c *gin.Context) {
	if !canManageClients(c) {
		c.String(http.StatusForbidden, "Недостаточно прав")
		return
	}

	render(c, http.StatusOK, "clients_new.html", gin.H{
		"error": "",
	})
}

func CreateClient(c *gin.Context) {
	if !canManageClients(c) {
		c.String(http.StatusForbidden, "Недостаточно прав")
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	address := strings.TrimSpace(c.PostForm("address"))
	city := strings.TrimSpace(c.PostForm("city"))
	contactEmail := strings.TrimSpace(c.PostForm("contact_email"))
	contactPhone := strings.TrimSpace(c.PostForm("contact_phone"))
	notes := strings.TrimSpace(c.PostForm("notes"))

	if len(name) < 3 {
		renderClientError(c, "Имя клиента должно быть не короче 3 символов")
		return
	}

	// --- ПРОВЕРКА УНИКАЛЬНОСТИ ИМЕНИ ---
	var count int64
	database.DB.Model(&models.Client{}).
		Where("LOWER(name) = LOWER(?)", name).
		Count(&count)

	if count > 0 {
		renderClientError(c, "Клиент с таким именем уже существует")
		return
	}

	// --- ПРОВЕРКА УНИКАЛЬНОСТИ EMAIL ---
	if contactEmail != "" {
		var count int64
		database.DB.Model(&models.Client{}).
			Where("LOWER(contact_email) = LOWER(?)", contactEmail).
			Count(&count)

		if count > 0 {
			renderClientError(c, "Клиент с таким e-mail уже существует")
			return
		}
	}

	client := models.Client{
		Name:         name,
		Address:      address,
		City:         city,
		ContactEmail: contactEmail,
		ContactPhone: contactPhone,
		Notes:        notes,
	}

	if err := database.DB.Create(&client).Error; err != nil {
		renderClientError(c, "Ошибка сохранения клиента в БД")
		return
	}

	if uid := currentUserID(c); uid != 0 {
		database.CreateAuditLog(uid, "client", client.ID, "create", "Создан клиент: "+client.Name)
	}

	c.Redirect(http.StatusFound, "/clients")
}

// форма редактирования
func ShowEditClient(c *gin.Context) {
	if !canManageClients(c) {
		c.String(http.StatusForbidden, "Недостаточно прав")
		return
	}

	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID клиента")
		return
	}

	var client models.Client
	if err := database.DB.First(&client, id).Error; err != nil {
		c.String(http.StatusNotFound, "Клиент не найден")
		return
	}

	render(c, http.StatusOK, "clients_edit.html", gin.H{
		"client": client,
		"error":  "",
	})
}

// сохранение изменений
func UpdateClient(c *gin.Context) {
	if !canManageClients(c) {
		c.String(http.StatusForbidden, "Недостаточно прав")
		return
	}

	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID клиента")
		return
	}

	var client models.Client
	if err := database.DB.First(&client, id).Error; err != nil {
		c.String(http.StatusNotFound, "Клиент не найден")
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	address := strings.TrimSpace(c.PostForm("address"))
	city := strings.TrimSpace(c.PostForm("city"))
	contactEmail := strings.TrimSpace(c.PostForm("contact_email"))
	contactPhone := strings.TrimSpace(c.PostForm("contact_phone"))
	notes := strings.TrimSpace(c.PostForm("notes"))

	if len(name) < 3 {
		render(c, http.StatusBadRequest, "clients_edit.html", gin.H{
			"client": client,
			"error":  "Имя клиента должно быть не короче 3 символов",
		})
		return
	}

	// --- ПРОВЕРКА УНИКАЛЬНОСТИ ИМЕНИ (кроме текущего клиента) ---
	if name != client.Name {
		var count int64
		database.DB.Model(&models.Client{}).
			Where("LOWER(name) = LOWER(?) AND id <> ?", name, client.ID).
			Count(&count)

		if count > 0 {
			render(c, http.StatusBadRequest, "clients_edit.html", gin.H{
				"client": client,
				"error":  "Клиент с таким именем уже существует",
			})
			return
		}
	}

	// --- ПРОВЕРКА УНИКАЛЬНОСТИ EMAIL ---
	if contactEmail != "" && !strings.EqualFold(contactEmail, client.ContactEmail) {
		var count int64
		database.DB.Model(&models.Client{}).
			Where("LOWER(contact_email) = LOWER(?) AND id <> ?", contactEmail, client.ID).
			Count(&count)

		if count > 0 {
			render(c, http.StatusBadRequest, "clients_edit.html", gin.H{
				"client": client,
				"error":  "Клиент с таким e-mail уже существует",
			})
			return
		}
	}

	client.Name = name
	client.Address = address
	client.City = city
	client.ContactEmail = contactEmail
	client.ContactPhone = contactPhone
	client.Notes = notes

	if err := database.DB.Save(&client).Error; err != nil {
		render(c, http.StatusInternalServerError, "clients_edit.html", gin.H{
			"client": client,
			"error":  "Ошибка сохранения клиента",
		})
		return
	}

	if uid := currentUserID(c); uid != 0 {
		database.CreateAuditLog(uid, "client", client.ID, "update", "Изменён клиент: "+client.Name)
	}

	c.Redirect(http.StatusFound, "/clients/"+idStr)
}

func renderClientError(c *gin.Context, msg string) {
	render(c, http.StatusBadRequest, "clients_new.html", gin.H{
		"error": msg,
	})
}
