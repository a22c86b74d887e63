package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fieldops/internal/billing"
	"fieldops/internal/database"
	"fieldops/internal/models"
	"fieldops/internal/workflow"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

//
// СПИСОК СЧЕТОВ
//

func ListInvoices(c *gin.Context) {
	role := currentRole(c)
	statusStr := c.Query("status")

	dbq := database.DB.Preload("Items").Preload("Job").Preload("Job.Client").Order("created_at desc")

	if statusStr != "" {
		dbq = dbq.Where("status = ?", statusStr)
	}

	if role == models.RoleWorker {
		dbq = dbq.Where("created_by_id = ?", currentUserID(c))
	}

	var invoices []models.Invoice
	if err := dbq.Find(&invoices).Error; err != nil {
		c.String(http.StatusInternalServerError, "Ошибка загрузки счетов")
		return
	}

	render(c, http.StatusOK, "invoices_list.html", gin.H{
		"invoices":     invoices,
		"FilterStatus": statusStr,
		"IsSupervisor": role == models.RoleAdmin || role == models.RoleSupervisor,
	})
}

//
// СОЗДАНИЕ СЧЁТА
//

func ShowNewInvoice(c *gin.Context) {
	var jobs []models.Job
	database.DB.Preload("Client").Order("created_at desc").Find(&jobs)

	var catalog []models.PriceListItem
	database.DB.Order("name asc").Find(&catalog)

	render(c, http.StatusOK, "invoices_new.html", gin.H{
		"jobs":    jobs,
		"catalog": catalog,
		"error":   "",
	})
}

func CreateInvoice(c *gin.Context) {
	jobIDStr := c.PostForm("job_id")
	dueDateStr := c.PostForm("due_date")

	jid, err := strconv.Atoi(jobIDStr)
	if err != nil || jid <= 0 {
		renderInvoiceError(c, "Выберите заявку")
		return
	}

	var job models.Job
	if err := database.DB.First(&job, jid).Error; err != nil {
		renderInvoiceError(c, "Заявка не найдена")
		return
	}

	var dueDate *time.Time
	if dueDateStr != "" {
		if t, err := time.Parse("2006-01-02", dueDateStr); err == nil {
			dueDate = &t
		}
	}

	lines := parseLines(c)
	if len(lines) == 0 {
		renderInvoiceError(c, "Добавьте хотя бы одну позицию")
		return
	}

	invoice := models.Invoice{
		JobID:       job.ID,
		Amount:      billing.Total(lines),
		DueDate:     dueDate,
		Status:      workflow.StatusPendingSupervisor,
		CreatedByID: currentUserID(c),
	}
	for _, l := range lines {
		invoice.Items = append(invoice.Items, models.InvoiceItem{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}

	if err := database.DB.Create(&invoice).Error; err != nil {
		renderInvoiceError(c, "Ошибка сохранения счёта")
		return
	}

	if uid := currentUserID(c); uid != 0 {
		database.CreateAuditLog(uid, "invoice", invoice.ID, "create",
			fmt.Sprintf("Создан счёт по заявке №%d", job.ID))
	}

	c.Redirect(http.StatusFound, "/invoices")
}

func renderInvoiceError(c *gin.Context, msg string) {
	var jobs []models.Job
	database.DB.Preload("Client").Order("created_at desc").Find(&jobs)

	var catalog []models.PriceListItem
	database.DB.Order("name asc").Find(&catalog)

	render(c, http.StatusBadRequest, "invoices_new.html", gin.H{
		"error":   msg,
		"jobs":    jobs,
		"catalog": catalog,
	})
}

//
// ДЕТАЛИ
//

func ShowInvoiceDetail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID счёта")
		return
	}

	var invoice models.Invoice
	if err := database.DB.
		Preload("Items").
		Preload("Job").
		Preload("Job.Client").
		Preload("CreatedBy").
		First(&invoice, id).Error; err != nil {
		c.String(http.StatusNotFound, "Счёт не найден")
		return
	}

	role := currentRole(c)
	render(c, http.StatusOK, "invoice_detail.html", gin.H{
		"invoice":      invoice,
		"IsSupervisor": role == models.RoleAdmin || role == models.RoleSupervisor,
	})
}

//
// РЕДАКТИРОВАНИЕ ПОЗИЦИЙ
//

// UpdateInvoiceItems заменяет позиции целиком. Удаление и вставка
// идут одной транзакцией вместе с пересчитанной суммой — частичного
// применения (счёт без позиций) быть не может.
func UpdateInvoiceItems(c *gin.Context) {
	invoice, ok := loadInvoice(c)
	if !ok {
		return
	}

	// после отправки на подпись позиции не правим
	if invoice.Status != workflow.StatusPendingSupervisor {
		c.String(http.StatusBadRequest, "Позиции можно менять только до одобрения")
		return
	}

	lines := parseLines(c)
	if len(lines) == 0 {
		c.String(http.StatusBadRequest, "Добавьте хотя бы одну позицию")
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}

		items := make([]models.InvoiceItem, 0, len(lines))
		for _, l := range lines {
			items = append(items, models.InvoiceItem{
				InvoiceID:   invoice.ID,
				Description: l.Description,
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice,
			})
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		// сумма и позиции меняются атомарно
		return tx.Model(&models.Invoice{}).
			Where("id = ?", invoice.ID).
			Update("amount", billing.Total(lines)).Error
	})
	if err != nil {
		c.String(http.StatusInternalServerError, "Ошибка сохранения позиций")
		return
	}

	if uid := currentUserID(c); uid != 0 {
		database.CreateAuditLog(uid, "invoice", invoice.ID, "update",
			fmt.Sprintf("Позиции счёта заменены (%d шт.)", len(lines)))
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/invoices/%d", invoice.ID))
}

//
// СОГЛАСОВАНИЕ
//

func ApproveInvoice(c *gin.Context) {
	invoice, ok := loadInvoice(c)
	if !ok {
		return
	}

	notes := strings.TrimSpace(c.PostForm("notes"))
	amountStr := strings.TrimSpace(c.PostForm("amount"))

	newStatus, err := workflow.Approve(invoice.Status)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	if amountStr != "" {
		amount, err := strconv.ParseFloat(amountStr, 64)
		if err != nil || amount <= 0 {
			c.String(http.StatusBadRequest, "Некорректная сумма")
			return
		}
		invoice.Amount = billing.Round2(amount)
	}

	invoice.Status = newStatus
	invoice.SupervisorNotes = notes

	if err := database.DB.Save(&invoice).Error; err != nil {
		c.String(http.StatusInternalServerError, "Ошибка сохранения счёта")
		return
	}

	if uid := currentUserID(c); uid != 0 {
		database.CreateAuditLog(uid, "invoice", invoice.ID, "status_change", "Счёт одобрен руководителем")
	}

	notifyUser(invoice.CreatedByID, "Счёт одобрен",
		fmt.Sprintf("Счёт №%d одобрен и ждёт подписи клиента", invoice.ID),
		map[string]string{"url": fmt.Sprintf("/invoices/%d", invoice.ID)})

	c.Redirect(http.StatusFound, fmt.Sprintf("/invoices/%d", invoice.ID))
}

func RejectInvoice(c *gin.Context) {
	invoice, ok := loadInvoice(c)
	if !ok {
		return
	}

	notes := strings.TrimSpace(c.PostForm("notes"))

	newStatus, err := workflow.Reject(invoice.Status, notes)
	if err != nil {
		if errors.Is(err, workflow.ErrEmptyNotes) {
			c.String(http.StatusBadRequest, "Укажите причину отклонения")
			return
		}
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	invoice.Status = newStatus
	invoice.SupervisorNotes = notes

	if err := database.DB.Save(&invoice).Error; err != nil {
		c.String(http.StatusInternalServerError, "Ошибка сохранения счёта")
		return
	}

	if uid := currentUserID(c); uid != 0 {
		database.CreateAuditLog(uid, "invoice", invoice.ID, "status_change", "Счёт отклонён: "+notes)
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/invoices/%d", invoice.ID))
}

// SignInvoice: подпись клиента. Вместе с подписью в одной транзакции
// создаётся заявка на выполнение работ по этому счёту.
func SignInvoice(c *gin.Context) {
	invoice, ok := loadInvoice(c)
	if !ok {
		return
	}

	mode := workflow.SignatureMode(c.PostForm("signature_mode"))
	drawn := c.PostForm("signature_drawn")
	typed := c.PostForm("signature_typed")

	newStatus, sig, err := workflow.Sign(invoice.Status, mode, drawn, typed)
	if err != nil {
		if errors.Is(err, workflow.ErrEmptySignature) {
			c.String(http.StatusBadRequest, "Поставьте подпись перед отправкой")
			return
		}
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	var sourceJob models.Job
	if err := database.DB.First(&sourceJob, invoice.JobID).Error; err != nil {
		c.String(http.StatusNotFound, "Заявка по счёту не найдена")
		return
	}

	invoice.Status = newStatus
	invoice.SignatureMode = string(sig.Mode)
	invoice.SignaturePayload = sig.Payload

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&invoice).Error; err != nil {
			return err
		}

		invoiceID := invoice.ID
		followUp := models.Job{
			ClientID:        sourceJob.ClientID,
			Title:           fmt.Sprintf("Работы по счёту №%d", invoice.ID),
			Status:          models.JobScheduled,
			Description:     "Создана автоматически после подписания счёта",
			AssignedToID:    sourceJob.AssignedToID,
			SourceInvoiceID: &invoiceID,
		}
		return tx.Create(&followUp).Error
	})
	if err != nil {
		c.String(http.StatusInternalServerError, "Ошибка сохранения счёта")
		return
	}

	if uid := currentUserID(c); uid != 0 {
		database.CreateAuditLog(uid, "invoice", invoice.ID, "status_change", "Счёт подписан клиентом")
	}

	notifyUser(invoice.CreatedByID, "Счёт подписан",
		fmt.Sprintf("Клиент подписал счёт №%d, создана заявка на работы", invoice.ID),
		map[string]string{"url": fmt.Sprintf("/invoices/%d", invoice.ID)})

	c.Redirect(http.StatusFound, fmt.Sprintf("/invoices/%d", invoice.ID))
}

func loadInvoice(c *gin.Context) (models.Invoice, bool) {
	var invoice models.Invoice

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID счёта")
		return invoice, false
	}

	if err := database.DB.Preload("Items").First(&invoice, id).Error; err != nil {
		c.String(http.StatusNotFound, "Счёт не найден")
		return invoice, false
	}
	return invoice, true
}
