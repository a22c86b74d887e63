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

func createInvoiceFixture(t *testing.T, db *gorm.DB, job models.Job, creator models.User) models.Invoice {
	t.Helper()
	invoice := models.Invoice{
		JobID:       job.ID,
		Amount:      200.00,
		Status:      workflow.StatusPendingSupervisor,
		CreatedByID: creator.ID,
		Items: []models.InvoiceItem{
			{Description: "Labor", Quantity: 1, UnitPrice: 200},
		},
	}
	if err := db.Create(&invoice).Error; err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	return invoice
}

func TestCreateInvoice(t *testing.T) {
	db := setupTestDB(t)
	worker := createUser(t, db, models.RoleWorker)
	job := createJobFixture(t, db)
	r := newTestRouter(t, worker.ID, models.RoleWorker)

	form := url.Values{
		"job_id":           {fmt.Sprint(job.ID)},
		"due_date":         {"2026-10-01"},
		"item_description": {"Labor"},
		"item_quantity":    {"2"},
		"item_price":       {"1000"},
	}
	w := postForm(r, "/invoices/new", form)
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", w.Code, w.Body.String())
	}

	var invoice models.Invoice
	if err := db.Preload("Items").First(&invoice).Error; err != nil {
		t.Fatalf("load invoice: %v", err)
	}
	if invoice.Amount != 2000.00 {
		t.Errorf("amount = %v, want 2000.00", invoice.Amount)
	}
	if invoice.Status != workflow.StatusPendingSupervisor {
		t.Errorf("status = %s", invoice.Status)
	}
	if invoice.DueDate == nil {
		t.Error("due date not set")
	}
}

// замена позиций: старые удаляются, новые вставляются, сумма
// пересчитывается — всё одной транзакцией
func TestUpdateInvoiceItemsReplacesAndRecomputes(t *testing.T) {
	db := setupTestDB(t)
	worker := createUser(t, db, models.RoleWorker)
	job := createJobFixture(t, db)
	invoice := createInvoiceFixture(t, db, job, worker)

	r := newTestRouter(t, worker.ID, models.RoleWorker)

	form := url.Values{
		"item_description": {"Labor", "Parts"},
		"item_quantity":    {"1", "2"},
		"item_price":       {"200", "25"},
	}
	w := postForm(r, fmt.Sprintf("/invoices/%d/items", invoice.ID), form)
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", w.Code, w.Body.String())
	}

	var got models.Invoice
	if err := db.Preload("Items").First(&got, invoice.ID).Error; err != nil {
		t.Fatalf("load invoice: %v", err)
	}
	if got.Amount != 250.00 {
		t.Errorf("amount = %v, want 250.00", got.Amount)
	}
	if len(got.Items) != 2 {
		t.Fatalf("items = %d, want exactly 2", len(got.Items))
	}

	var total int64
	db.Model(&models.InvoiceItem{}).Where("invoice_id = ?", invoice.ID).Count(&total)
	if total != 2 {
		t.Errorf("persisted items = %d, want 2 (old rows must be gone)", total)
	}
}

func TestUpdateInvoiceItemsForbiddenAfterApproval(t *testing.T) {
	db := setupTestDB(t)
	worker := createUser(t, db, models.RoleWorker)
	job := createJobFixture(t, db)
	invoice := createInvoiceFixture(t, db, job, worker)
	invoice.Status = workflow.StatusPendingSignature
	db.Save(&invoice)

	r := newTestRouter(t, worker.ID, models.RoleWorker)

	form := url.Values{
		"item_description": {"Parts"},
		"item_quantity":    {"1"},
		"item_price":       {"25"},
	}
	w := postForm(r, fmt.Sprintf("/invoices/%d/items", invoice.ID), form)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var got models.Invoice
	db.Preload("Items").First(&got, invoice.ID)
	if got.Amount != 200.00 || len(got.Items) != 1 {
		t.Errorf("invoice changed: amount=%v items=%d", got.Amount, len(got.Items))
	}
}

// подписанный счёт автоматически создаёт заявку на работы
func TestSignInvoiceCreatesJob(t *testing.T) {
	db := setupTestDB(t)
	worker := createUser(t, db, models.RoleWorker)
	job := createJobFixture(t, db)
	invoice := createInvoiceFixture(t, db, job, worker)
	invoice.Status = workflow.StatusPendingSignature
	db.Save(&invoice)

	r := newTestRouter(t, worker.ID, models.RoleWorker)

	form := url.Values{
		"signature_mode":  {"drawn"},
		"signature_drawn": {"data:image/png;base64,abc"},
	}
	w := postForm(r, fmt.Sprintf("/invoices/%d/sign", invoice.ID), form)
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", w.Code, w.Body.String())
	}

	var got models.Invoice
	db.First(&got, invoice.ID)
	if got.Status != workflow.StatusApproved {
		t.Errorf("status = %s, want approved", got.Status)
	}
	if got.SignatureMode != "drawn" {
		t.Errorf("signature mode = %s", got.SignatureMode)
	}

	var followUp models.Job
	err := db.Where("source_invoice_id = ?", invoice.ID).First(&followUp).Error
	if err != nil {
		t.Fatalf("follow-up job not created: %v", err)
	}
	if followUp.Status != models.JobScheduled {
		t.Errorf("job status = %s, want scheduled", followUp.Status)
	}
	if followUp.ClientID != job.ClientID {
		t.Errorf("job client = %d, want %d", followUp.ClientID, job.ClientID)
	}
}

func TestSignInvoiceEmptySignature(t *testing.T) {
	db := setupTestDB(t)
	worker := createUser(t, db, models.RoleWorker)
	job := createJobFixture(t, db)
	invoice := createInvoiceFixture(t, db, job, worker)
	invoice.Status = workflow.StatusPendingSignature
	db.Save(&invoice)

	r := newTestRouter(t, worker.ID, models.RoleWorker)

	form := url.Values{
		"signature_mode":  {"drawn"},
		"signature_drawn": {""},
		"signature_typed": {"Иванов"}, // неактивный режим не учитывается
	}
	w := postForm(r, fmt.Sprintf("/invoices/%d/sign", invoice.ID), form)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var got models.Invoice
	db.First(&got, invoice.ID)
	if got.Status != workflow.StatusPendingSignature {
		t.Errorf("status changed: %s", got.Status)
	}

	var count int64
	db.Model(&models.Job{}).Where("source_invoice_id IS NOT NULL").Count(&count)
	if count != 0 {
		t.Errorf("job created despite failed signature")
	}
}
