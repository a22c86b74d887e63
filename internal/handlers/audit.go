package handlers

import (
	"net/http"

	"fieldops/internal/database"
	"fieldops/internal/models"

	"github.com/gin-gonic/gin"
)

func ListAuditLogs(c *gin.Context) {
	role := currentRole(c)

	if role != models.RoleAdmin && role != models.RoleSupervisor {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	var logs []models.AuditLog
	database.DB.
		Preload("User").
		Order("created_at desc").
		Limit(200).
		Find(&logs)

	render(c, http.StatusOK, "audit_list.html", gin.H{
		"logs":    logs,
		"IsAdmin": role == models.RoleAdmin,
	})
}
