package server

import (
	"html/template"
	"net/http"

	"fieldops/internal/config"
	"fieldops/internal/handlers"
	"fieldops/internal/middleware"
	"fieldops/internal/models"
	"fieldops/internal/storage"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func maskEmail(email string) string {
	runes := []rune(email)
	atIdx := -1
	for i, r := range runes {
		if r == '@' {
			atIdx = i
			break
		}
	}
	if atIdx <= 0 {
		return "***"
	}
	prefix := string(runes[:atIdx])
	domain := string(runes[atIdx:])
	if len(prefix) <= 2 {
		return prefix + "***" + domain
	}
	return string(runes[0:2]) + "***" + domain
}

func maskPhone(phone string) string {
	runes := []rune(phone)
	n := len(runes)
	if n <= 4 {
		return "***"
	}
	masked := make([]rune, n)
	for i := range runes {
		if i >= n-2 {
			masked[i] = runes[i]
		} else {
			masked[i] = '*'
		}
	}
	return string(masked)
}

func NewRouter(cfg *config.Config, store *storage.Store) *gin.Engine {
	r := gin.Default()

	r.Static("/static", "./web/static")
	r.Static("/uploads", store.Dir())

	r.SetFuncMap(template.FuncMap{
		"eq":        func(a, b interface{}) bool { return a == b },
		"maskEmail": maskEmail,
		"maskPhone": maskPhone,
	})
	r.LoadHTMLGlob("web/templates/*.html")

	cookieStore := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("fieldops_session", cookieStore))

	r.Use(middleware.InjectUser())

	// ГЛАВНАЯ
	r.GET("/", handlers.IndexPage)

	// AUTH
	r.GET("/register", handlers.ShowRegister)
	r.POST("/register", handlers.Register)
	r.GET("/login", handlers.ShowLogin)
	r.POST("/login", handlers.Login)
	r.GET("/logout", handlers.Logout)

	auth := r.Group("/")
	auth.Use(middleware.RequireAuth())

	// КЛИЕНТЫ
	auth.GET("/clients", handlers.ListClients)
	auth.GET("/clients/new",
		middleware.RequireRole(models.RoleAdmin, models.RoleSupervisor),
		handlers.ShowNewClient,
	)
	auth.POST("/clients/new",
		middleware.RequireRole(models.RoleAdmin, models.RoleSupervisor),
		handlers.CreateClient,
	)
	auth.GET("/clients/:id", handlers.ShowClientDetail)
	auth.GET("/clients/:id/edit",
		middleware.RequireRole(models.RoleAdmin, models.RoleSupervisor),
		handlers.ShowEditClient,
	)
	auth.POST("/clients/:id/edit",
		middleware.RequireRole(models.RoleAdmin, models.RoleSupervisor),
		handlers.UpdateClient,
	)

	// ЗАЯВКИ
	auth.GET("/jobs", handlers.ListJobs)
	auth.GET("/jobs/new",
		middleware.RequireRole(models.RoleAdmin, models.RoleSupervisor),
		handlers.ShowNewJob,
	)
	auth.POST("/jobs/new",
		middleware.RequireRole(models.RoleAdmin, models.RoleSupervisor),
		handlers.CreateJob,
	)
	auth.POST("/jobs/:id/status", handlers.ChangeJobStatus)
	auth.GET("/jobs/:id/edit",
		middleware.RequireRole(models.RoleAdmin, models.RoleSupervisor),
		handlers.ShowEditJob,
	)
	auth.POST("/jobs/:id/edit",
		middleware.RequireRole(models.RoleAdmin, models.RoleSupervisor),
		handlers.UpdateJob,
	)
	auth.POST("/jobs/:id/delete",
		middleware.RequireRole(models.RoleAdmin),
		handlers.DeleteJob,
	)
	auth.GET("/jobs/:id/history", handlers.ShowJobHistory)

	// РАСПИСАНИЕ
	auth.GET("/schedule", handlers.ShowSchedule)

	// СМЕТЫ
	auth.GET("/quotes", handlers.ListQuotes)
	auth.GET("/quotes/new", handlers.ShowNewQuote)
	auth.POST("/quotes/new", handlers.CreateQuote)
	auth.GET("/quotes/:id", handlers.ShowQuoteDetail)
	auth.POST("/quotes/:id/approve",
		middleware.RequireRole(models.RoleAdmin, models.RoleSupervisor),
		handlers.ApproveQuote,
	)
	auth.POST("/quotes/:id/reject",
		middleware.RequireRole(models.RoleAdmin, models.RoleSupervisor),
		handlers.RejectQuote,
	)
	auth.POST("/quotes/:id/sign", handlers.SignQuote)

	// СЧЕТА
	auth.GET("/invoices", handlers.ListInvoices)
	auth.GET("/invoices/new", handlers.ShowNewInvoice)
	auth.POST("/invoices/new", handlers.CreateInvoice)
	auth.GET("/invoices/:id", handlers.ShowInvoiceDetail)
	auth.POST("/invoices/:id/items", handlers.UpdateInvoiceItems)
	auth.POST("/invoices/:id/approve",
		middleware.RequireRole(models.RoleAdmin, models.RoleSupervisor),
		handlers.ApproveInvoice,
	)
	auth.POST("/invoices/:id/reject",
		middleware.RequireRole(models.RoleAdmin, models.RoleSupervisor),
		handlers.RejectInvoice,
	)
	auth.POST("/invoices/:id/sign", handlers.SignInvoice)

	// ПЛАТЕЖИ
	auth.GET("/payments",
		middleware.RequireRole(models.RoleAdmin, models.RoleSupervisor),
		handlers.ListPayments,
	)
	auth.POST("/payments/:id/toggle",
		middleware.RequireRole(models.RoleAdmin, models.RoleSupervisor),
		handlers.MarkInvoicePaid,
	)

	// ФОТО
	auth.GET("/photos", handlers.ListPhotoRequests)
	auth.GET("/photos/new", handlers.ShowUploadPhoto)
	auth.POST("/photos/new", handlers.UploadPhoto)
	auth.POST("/photos/:id/review",
		middleware.RequireRole(models.RoleAdmin, models.RoleSupervisor),
		handlers.ReviewPhoto,
	)

	// УЧЁТ ВРЕМЕНИ
	auth.GET("/time", handlers.ListTimeEntries)
	auth.POST("/time/start", handlers.StartTimeEntry)
	auth.POST("/time/:id/stop", handlers.StopTimeEntry)

	// НАСТРОЙКИ УВЕДОМЛЕНИЙ
	auth.GET("/prefs", handlers.ShowNotificationPrefs)
	auth.POST("/prefs", handlers.UpdateNotificationPrefs)

	// ПРАЙС-ЛИСТ
	auth.GET("/catalog",
		middleware.RequireRole(models.RoleAdmin, models.RoleSupervisor),
		handlers.ListCatalog,
	)
	auth.POST("/catalog/new",
		middleware.RequireRole(models.RoleAdmin),
		handlers.CreateCatalogItem,
	)
	auth.POST("/catalog/:id/delete",
		middleware.RequireRole(models.RoleAdmin),
		handlers.DeleteCatalogItem,
	)

	// АДМИНКА
	auth.GET("/admin",
		middleware.RequireRole(models.RoleAdmin),
		handlers.ShowAdminDashboard,
	)
	auth.GET("/admin/hours.xlsx",
		middleware.RequireRole(models.RoleAdmin),
		handlers.ExportHoursReport,
	)
	auth.GET("/admin/users",
		middleware.RequireRole(models.RoleAdmin),
		handlers.ListUsers,
	)
	auth.POST("/admin/users/:id/role",
		middleware.RequireRole(models.RoleAdmin),
		handlers.ChangeUserRole,
	)
	auth.POST("/admin/users/:id/password",
		middleware.RequireRole(models.RoleAdmin),
		handlers.ResetUserPassword,
	)

	// АУДИТ
	auth.GET("/audit",
		middleware.RequireRole(models.RoleAdmin, models.RoleSupervisor),
		handlers.ListAuditLogs,
	)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
