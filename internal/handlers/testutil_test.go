package handlers

import (
	"fmt"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"fieldops/internal/database"
	"fieldops/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	database.DB = db
	Setup(nil, nil, nil)
	return db
}

// newTestRouter поднимает роутер с фейковым логином: каждая сессия
// сразу получает заданные user_id и роль.
func newTestRouter(t *testing.T, uid uint, role models.UserRole) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.SetFuncMap(template.FuncMap{
		"eq":        func(a, b interface{}) bool { return a == b },
		"maskEmail": func(s string) string { return s },
		"maskPhone": func(s string) string { return s },
	})
	r.LoadHTMLGlob("../../web/templates/*.html")

	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("test_session", store))
	r.Use(func(c *gin.Context) {
		sess := sessions.Default(c)
		sess.Set("user_id", uid)
		sess.Set("role", string(role))
		_ = sess.Save()
		c.Next()
	})

	r.POST("/quotes/new", CreateQuote)
	r.POST("/quotes/:id/approve", ApproveQuote)
	r.POST("/quotes/:id/reject", RejectQuote)
	r.POST("/quotes/:id/sign", SignQuote)

	r.POST("/invoices/new", CreateInvoice)
	r.POST("/invoices/:id/items", UpdateInvoiceItems)
	r.POST("/invoices/:id/approve", ApproveInvoice)
	r.POST("/invoices/:id/sign", SignInvoice)

	return r
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createUser(t *testing.T, db *gorm.DB, role models.UserRole) models.User {
	t.Helper()
	user := models.User{
		Username:     fmt.Sprintf("%s-%s", role, t.Name()),
		PasswordHash: "x",
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createJobFixture(t *testing.T, db *gorm.DB) models.Job {
	t.Helper()
	client := models.Client{Name: "ООО Ромашка", Address: "ул. Ленина, 1"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("create client: %v", err)
	}
	job := models.Job{
		ClientID: client.ID,
		Title:    "Замена котла",
		Status:   models.JobScheduled,
	}
	if err := db.Create(&job).Error; err != nil {
		t.Fatalf("create job: %v", err)
	}
	return job
}
