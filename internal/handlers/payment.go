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
)

// Платежи: подписанные счета с флагом оплаты, просроченные — отдельно.
func ListPayments(c *gin.Context) {
	var invoices []models.Invoice
	database.DB.
		Preload("Job").
		Preload("Job.Client").
		Where("status = ?", workflow.StatusApproved).
		Order("due_date asc").
		Find(&invoices)

	now := time.Now()
	var overdue []uint
	for _, inv := range invoices {
		if !inv.Paid && inv.DueDate != nil && inv.DueDate.Before(now) {
			overdue = append(overdue, inv.ID)
		}
	}

	render(c, http.StatusOK, "payments_list.html", gin.H{
		"invoices": invoices,
		"overdue":  overdue,
	})
}

func MarkInvoicePaid(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID счёта")
		return
	}

	var invoice models.Invoice
	if err := database.DB.First(&invoice, id).Error; err != nil {
		c.String(http.StatusNotFound, "Счёт не найден")
		return
	}

	// оплату отмечаем только по подписанным счетам
	if invoice.Status != workflow.StatusApproved {
		c.String(http.StatusBadRequest, "Счёт ещё не подписан клиентом")
		return
	}

	invoice.Paid = !invoice.Paid

	if err := database.DB.Save(&invoice).Error; err != nil {
		c.String(http.StatusInternalServerError, "Ошибка обновления счёта")
		return
	}

	action := "оплачен"
	if !invoice.Paid {
		action = "отмечен неоплаченным"
	}
	if uid := currentUserID(c); uid != 0 {
		database.CreateAuditLog(uid, "invoice", invoice.ID, "payment",
			fmt.Sprintf("Счёт №%d %s", invoice.ID, action))
	}

	c.Redirect(http.StatusFound, "/payments")
}
