package handlers

import (
	"net/http"

	"fieldops/internal/database"
	"fieldops/internal/models"

	"github.com/gin-gonic/gin"
)

//
// НАСТРОЙКИ УВЕДОМЛЕНИЙ
//

func ShowNotificationPrefs(c *gin.Context) {
	uid := currentUserID(c)

	pref := models.NotificationPreference{UserID: uid, PushEnabled: true, EmailEnabled: true}
	database.DB.Where("user_id = ?", uid).First(&pref)

	render(c, http.StatusOK, "prefs.html", gin.H{
		"pref": pref,
	})
}

func UpdateNotificationPrefs(c *gin.Context) {
	uid := currentUserID(c)

	var pref models.NotificationPreference
	err := database.DB.Where("user_id = ?", uid).First(&pref).Error
	if err != nil {
		pref = models.NotificationPreference{UserID: uid}
	}

	pref.PushEnabled = c.PostForm("push_enabled") == "on"
	pref.EmailEnabled = c.PostForm("email_enabled") == "on"

	if err := database.DB.Save(&pref).Error; err != nil {
		c.String(http.StatusInternalServerError, "Ошибка сохранения настроек")
		return
	}

	c.Redirect(http.StatusFound, "/prefs")
}
