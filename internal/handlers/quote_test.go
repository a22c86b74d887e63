package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"fieldops/internal/models"
	"fieldops/internal/workflow"

	"gorm.io/gorm"
)

func createQuoteFixture(t *testing.T, db *gorm.DB, creator models.User) models.Quote {
	t.Helper()
	quote := models.Quote{
		ClientName:   "Иванов И.И.",
		Address:      "пр. Мира, 10",
		ContactEmail: "ivanov@example.com",
		Amount:       100.00,
		Status:       workflow.StatusPendingSupervisor,
		CreatedByID:  creator.ID,
		Items: []models.QuoteItem{
			{Description: "Выезд мастера", Quantity: 1, UnitPrice: 100},
		},
	}
	if err := db.Create(&quote).Error; err != nil {
		t.Fatalf("create quote: %v", err)
	}
	return quote
}

func TestCreateQuote(t *testing.T) {
	db := setupTestDB(t)
	worker := createUser(t, db, models.RoleWorker)
	r := newTestRouter(t, worker.ID, models.RoleWorker)

	form := url.Values{
		"client_name":      {"Иванов И.И."},
		"address":          {"пр. Мира, 10"},
		"item_description": {"Выезд мастера", "Диагностика"},
		"item_quantity":    {"1", "2"},
		"item_price":       {"1500", "1200"},
	}
	w := postForm(r, "/quotes/new", form)
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", w.Code, w.Body.String())
	}

	var quote models.Quote
	if err := db.Preload("Items").First(&quote).Error; err != nil {
		t.Fatalf("load quote: %v", err)
	}
	if quote.Status != workflow.StatusPendingSupervisor {
		t.Errorf("status = %s", quote.Status)
	}
	if quote.Amount != 3900.00 {
		t.Errorf("amount = %v, want 3900.00", quote.Amount)
	}
	if len(quote.Items) != 2 {
		t.Errorf("items = %d, want 2", len(quote.Items))
	}
	if quote.CreatedByID != worker.ID {
		t.Errorf("created_by = %d, want %d", quote.CreatedByID, worker.ID)
	}
}

func TestCreateQuoteRequiresItems(t *testing.T) {
	db := setupTestDB(t)
	worker := createUser(t, db, models.RoleWorker)
	r := newTestRouter(t, worker.ID, models.RoleWorker)

	form := url.Values{
		"client_name": {"Иванов И.И."},
		"address":     {"пр. Мира, 10"},
	}
	w := postForm(r, "/quotes/new", form)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var count int64
	db.Model(&models.Quote{}).Count(&count)
	if count != 0 {
		t.Errorf("quote was created despite validation error")
	}
}

// корректировка руководителя: сумма меняется, позиции — нет
func TestApproveQuoteWithOverride(t *testing.T) {
	db := setupTestDB(t)
	worker := createUser(t, db, models.RoleWorker)
	supervisor := createUser(t, db, models.RoleSupervisor)
	quote := createQuoteFixture(t, db, worker)

	r := newTestRouter(t, supervisor.ID, models.RoleSupervisor)

	form := url.Values{
		"amount": {"120.00"},
		"notes":  {"added travel fee"},
	}
	w := postForm(r, fmt.Sprintf("/quotes/%d/approve", quote.ID), form)
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", w.Code, w.Body.String())
	}

	var got models.Quote
	if err := db.Preload("Items").First(&got, quote.ID).Error; err != nil {
		t.Fatalf("load quote: %v", err)
	}
	if got.Status != workflow.StatusPendingSignature {
		t.Errorf("status = %s, want %s", got.Status, workflow.StatusPendingSignature)
	}
	if got.Amount != 120.00 {
		t.Errorf("amount = %v, want 120.00", got.Amount)
	}
	if got.SupervisorNotes != "added travel fee" {
		t.Errorf("notes = %q", got.SupervisorNotes)
	}
	if len(got.Items) != 1 || got.Items[0].UnitPrice != 100 {
		t.Errorf("items changed: %+v", got.Items)
	}
}

func TestRejectQuoteRequiresNotes(t *testing.T) {
	db := setupTestDB(t)
	worker := createUser(t, db, models.RoleWorker)
	supervisor := createUser(t, db, models.RoleSupervisor)
	quote := createQuoteFixture(t, db, worker)

	r := newTestRouter(t, supervisor.ID, models.RoleSupervisor)

	w := postForm(r, fmt.Sprintf("/quotes/%d/reject", quote.ID), url.Values{"notes": {"  "}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var got models.Quote
	db.First(&got, quote.ID)
	if got.Status != workflow.StatusPendingSupervisor {
		t.Errorf("status changed on failed rejection: %s", got.Status)
	}

	w = postForm(r, fmt.Sprintf("/quotes/%d/reject", quote.ID), url.Values{"notes": {"слишком дорого"}})
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", w.Code, w.Body.String())
	}

	db.First(&got, quote.ID)
	if got.Status != workflow.StatusRejected {
		t.Errorf("status = %s, want rejected", got.Status)
	}

	// rejected — терминальный: одобрить уже нельзя
	w = postForm(r, fmt.Sprintf("/quotes/%d/approve", quote.ID), url.Values{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("approve after reject: expected 400, got %d", w.Code)
	}
}

func TestSignQuote(t *testing.T) {
	db := setupTestDB(t)
	worker := createUser(t, db, models.RoleWorker)
	quote := createQuoteFixture(t, db, worker)
	quote.Status = workflow.StatusPendingSignature
	db.Save(&quote)

	r := newTestRouter(t, worker.ID, models.RoleWorker)

	// пустая подпись в обоих режимах отклоняется
	for _, mode := range []string{"drawn", "typed"} {
		form := url.Values{
			"signature_mode":  {mode},
			"signature_drawn": {""},
			"signature_typed": {"   "},
		}
		w := postForm(r, fmt.Sprintf("/quotes/%d/sign", quote.ID), form)
		if w.Code != http.StatusBadRequest {
			t.Errorf("mode %s: expected 400, got %d", mode, w.Code)
		}
	}

	// в режиме typed содержимое канваса игнорируется
	form := url.Values{
		"signature_mode":  {"typed"},
		"signature_drawn": {"data:image/png;base64,stale"},
		"signature_typed": {"Иванов И.И."},
	}
	w := postForm(r, fmt.Sprintf("/quotes/%d/sign", quote.ID), form)
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", w.Code, w.Body.String())
	}

	var got models.Quote
	db.First(&got, quote.ID)
	if got.Status != workflow.StatusApproved {
		t.Errorf("status = %s, want approved", got.Status)
	}
	if got.SignatureMode != "typed" || got.SignaturePayload != "Иванов И.И." {
		t.Errorf("signature = %s/%q", got.SignatureMode, got.SignaturePayload)
	}

	// повторная подпись терминального документа запрещена
	w = postForm(r, fmt.Sprintf("/quotes/%d/sign", quote.ID), form)
	if w.Code != http.StatusBadRequest {
		t.Errorf("second sign: expected 400, got %d", w.Code)
	}
}

func TestSignQuoteBeforeApprovalRejected(t *testing.T) {
	db := setupTestDB(t)
	worker := createUser(t, db, models.RoleWorker)
	quote := createQuoteFixture(t, db, worker)

	r := newTestRouter(t, worker.ID, models.RoleWorker)

	form := url.Values{
		"signature_mode":  {"typed"},
		"signature_typed": {"Иванов И.И."},
	}
	w := postForm(r, fmt.Sprintf("/quotes/%d/sign", quote.ID), form)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var got models.Quote
	db.First(&got, quote.ID)
	if got.Status != workflow.StatusPendingSupervisor {
		t.Errorf("status changed: %s", got.Status)
	}
}
