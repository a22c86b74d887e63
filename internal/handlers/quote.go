package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"fieldops/internal/billing"
	"fieldops/internal/database"
	"fieldops/internal/models"
	"fieldops/internal/workflow"

	"github.com/gin-gonic/gin"
)

//
// СПИСОК СМЕТ
//

func ListQuotes(c *gin.Context) {
	role := currentRole(c)
	statusStr := c.Query("status")

	dbq := database.DB.Preload("Items").Preload("CreatedBy").Order("created_at desc")

	if statusStr != "" {
		dbq = dbq.Where("status = ?", statusStr)
	}

	// мастер видит только свои сметы
	if role == models.RoleWorker {
		dbq = dbq.Where("created_by_id = ?", currentUserID(c))
	}

	var quotes []models.Quote
	if err := dbq.Find(&quotes).Error; err != nil {
		c.String(http.StatusInternalServerError, "Ошибка загрузки смет")
		return
	}

	render(c, http.StatusOK, "quotes_list.html", gin.H{
		"quotes":       quotes,
		"FilterStatus": statusStr,
		"IsSupervisor": role == models.RoleAdmin || role == models.RoleSupervisor,
	})
}

//
// СОЗДАНИЕ СМЕТЫ
//

func ShowNewQuote(c *gin.Context) {
	var catalog []models.PriceListItem
	database.DB.Order("name asc").Find(&catalog)

	render(c, http.StatusOK, "quotes_new.html", gin.H{
		"catalog": catalog,
		"error":   "",
	})
}

func CreateQuote(c *gin.Context) {
	clientName := strings.TrimSpace(c.PostForm("client_name"))
	address := strings.TrimSpace(c.PostForm("address"))
	contactEmail := strings.TrimSpace(c.PostForm("contact_email"))
	contactPhone := strings.TrimSpace(c.PostForm("contact_phone"))

	if clientName == "" {
		renderQuoteError(c, "Укажите клиента")
		return
	}
	if address == "" {
		renderQuoteError(c, "Укажите адрес объекта")
		return
	}

	lines := parseLines(c)
	if len(lines) == 0 {
		renderQuoteError(c, "Добавьте хотя бы одну позицию")
		return
	}

	quote := models.Quote{
		ClientName:   clientName,
		Address:      address,
		ContactEmail: contactEmail,
		ContactPhone: contactPhone,
		Amount:       billing.Total(lines),
		Status:       workflow.StatusPendingSupervisor,
		CreatedByID:  currentUserID(c),
	}
	for _, l := range lines {
		quote.Items = append(quote.Items, models.QuoteItem{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}

	if err := database.DB.Create(&quote).Error; err != nil {
		renderQuoteError(c, "Ошибка сохранения сметы")
		return
	}

	if uid := currentUserID(c); uid != 0 {
		database.CreateAuditLog(uid, "quote", quote.ID, "create", "Создана смета для: "+quote.ClientName)
	}

	c.Redirect(http.StatusFound, "/quotes")
}

func renderQuoteError(c *gin.Context, msg string) {
	var catalog []models.PriceListItem
	database.DB.Order("name asc").Find(&catalog)

	render(c, http.StatusBadRequest, "quotes_new.html", gin.H{
		"error":   msg,
		"catalog": catalog,
	})
}

//
// ДЕТАЛИ
//

func ShowQuoteDetail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID сметы")
		return
	}

	var quote models.Quote
	if err := database.DB.Preload("Items").Preload("CreatedBy").First(&quote, id).Error; err != nil {
		c.String(http.StatusNotFound, "Смета не найдена")
		return
	}

	role := currentRole(c)
	render(c, http.StatusOK, "quote_detail.html", gin.H{
		"quote":        quote,
		"IsSupervisor": role == models.RoleAdmin || role == models.RoleSupervisor,
	})
}

//
// СОГЛАСОВАНИЕ
//

// ApproveQuote: руководитель может скорректировать сумму и оставить
// комментарий; уведомление автору уходит после записи, best-effort.
func ApproveQuote(c *gin.Context) {
	quote, ok := loadQuote(c)
	if !ok {
		return
	}

	notes := strings.TrimSpace(c.PostForm("notes"))
	amountStr := strings.TrimSpace(c.PostForm("amount"))

	newStatus, err := workflow.Approve(quote.Status)
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
		// осознанное расхождение с суммой позиций — корректировка руководителя
		quote.Amount = billing.Round2(amount)
	}

	quote.Status = newStatus
	quote.SupervisorNotes = notes

	if err := database.DB.Save(&quote).Error; err != nil {
		c.String(http.StatusInternalServerError, "Ошибка сохранения сметы")
		return
	}

	if uid := currentUserID(c); uid != 0 {
		database.CreateAuditLog(uid, "quote", quote.ID, "status_change", "Смета одобрена руководителем")
	}

	notifyUser(quote.CreatedByID, "Смета одобрена",
		fmt.Sprintf("Смета №%d одобрена и ждёт подписи клиента", quote.ID),
		map[string]string{"url": fmt.Sprintf("/quotes/%d", quote.ID)})

	c.Redirect(http.StatusFound, fmt.Sprintf("/quotes/%d", quote.ID))
}

func RejectQuote(c *gin.Context) {
	quote, ok := loadQuote(c)
	if !ok {
		return
	}

	notes := strings.TrimSpace(c.PostForm("notes"))

	newStatus, err := workflow.Reject(quote.Status, notes)
	if err != nil {
		if errors.Is(err, workflow.ErrEmptyNotes) {
			c.String(http.StatusBadRequest, "Укажите причину отклонения")
			return
		}
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	quote.Status = newStatus
	quote.SupervisorNotes = notes

	if err := database.DB.Save(&quote).Error; err != nil {
		c.String(http.StatusInternalServerError, "Ошибка сохранения сметы")
		return
	}

	if uid := currentUserID(c); uid != 0 {
		database.CreateAuditLog(uid, "quote", quote.ID, "status_change", "Смета отклонена: "+notes)
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/quotes/%d", quote.ID))
}

// SignQuote: подпись клиента (канвас или текст), учитывается только
// активный режим. После подписи клиенту уходит письмо — его провал
// логируется и на результат не влияет.
func SignQuote(c *gin.Context) {
	quote, ok := loadQuote(c)
	if !ok {
		return
	}

	mode := workflow.SignatureMode(c.PostForm("signature_mode"))
	drawn := c.PostForm("signature_drawn")
	typed := c.PostForm("signature_typed")

	newStatus, sig, err := workflow.Sign(quote.Status, mode, drawn, typed)
	if err != nil {
		if errors.Is(err, workflow.ErrEmptySignature) {
			c.String(http.StatusBadRequest, "Поставьте подпись перед отправкой")
			return
		}
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	quote.Status = newStatus
	quote.SignatureMode = string(sig.Mode)
	quote.SignaturePayload = sig.Payload

	if err := database.DB.Save(&quote).Error; err != nil {
		c.String(http.StatusInternalServerError, "Ошибка сохранения сметы")
		return
	}

	if uid := currentUserID(c); uid != 0 {
		database.CreateAuditLog(uid, "quote", quote.ID, "status_change", "Смета подписана клиентом")
	}

	if emailer != nil && quote.ContactEmail != "" {
		sigText := sig.Payload
		if sig.Mode == workflow.SignatureDrawn {
			sigText = "графическая подпись"
		}
		if err := emailer.SendQuoteEmail(quote.ContactEmail, quote.ClientName, quote.ID, quote.Amount, sigText); err != nil {
			log.Printf("quote %d: email send failed: %v", quote.ID, err)
		}
	}

	notifyUser(quote.CreatedByID, "Смета подписана",
		fmt.Sprintf("Клиент подписал смету №%d", quote.ID),
		map[string]string{"url": fmt.Sprintf("/quotes/%d", quote.ID)})

	c.Redirect(http.StatusFound, fmt.Sprintf("/quotes/%d", quote.ID))
}

func loadQuote(c *gin.Context) (models.Quote, bool) {
	var quote models.Quote

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID сметы")
		return quote, false
	}

	if err := database.DB.Preload("Items").First(&quote, id).Error; err != nil {
		c.String(http.StatusNotFound, "Смета не найдена")
		return quote, false
	}
	return quote, true
}

// notifyUser — push автору, если он не отключил уведомления
func notifyUser(userID uint, title, body string, data map[string]string) {
	if pusher == nil || userID == 0 {
		return
	}

	var pref models.NotificationPreference
	if err := database.DB.Where("user_id = ?", userID).First(&pref).Error; err == nil && !pref.PushEnabled {
		return
	}

	pusher.Send([]uint{userID}, title, body, data)
}
