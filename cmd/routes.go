package main

import (
	"dentiq/internal/common"
	"dentiq/internal/config"
	"dentiq/internal/handlers"
	"dentiq/internal/metrics"
	"dentiq/internal/middleware"
	"dentiq/internal/models"
	"dentiq/internal/services"
	"dentiq/pkg/logger"

	_ "dentiq/docs"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type routeDeps struct {
	users      middleware.UserLoader
	expiration services.ExpirationChecker

	health    *handlers.HealthHandlers
	auth      *handlers.AuthHandlers
	plans     *handlers.PlanHandlers
	payments  *handlers.HandPaymentHandlers
	admin     *handlers.AdminHandlers
	verify    *handlers.VerifyHandlers
	finance   *handlers.FinanceHandlers
	documents *handlers.DocumentHandlers
	jobs      *handlers.JobHandlers

	patients      *handlers.PatientHandlers
	appointments  *handlers.AppointmentHandlers
	items         *handlers.ItemHandlers
	catalog       *handlers.ResourceHandlers[models.TreatmentCatalog]
	treatments    *handlers.ResourceHandlers[models.Treatment]
	clinicPay     *handlers.ResourceHandlers[models.Payment]
	expenses      *handlers.ResourceHandlers[models.Expense]
	medications   *handlers.ResourceHandlers[models.Medication]
	prescriptions *handlers.ResourceHandlers[models.Prescription]
	employees     *handlers.ResourceHandlers[models.Employee]
	workingHours  *handlers.ResourceHandlers[models.WorkingHours]
}

func newServer(cfg *config.Config, registry *prometheus.Registry, m *metrics.Metrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = common.NewRequestValidator()
	e.HTTPErrorHandler = common.HTTPErrorHandler

	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.RequestID())
	e.Use(logger.Middleware())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: cfg.CORSAllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(m.Middleware())

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	return e
}

func registerRoutes(e *echo.Echo, cfg *config.Config, d routeDeps) {
	e.GET("/health", d.health.LivenessCheck)
	e.GET("/health/ready", d.health.ReadinessCheck)

	auth := e.Group("/auth", middleware.IPRateLimit(cfg.AuthRateLimit, cfg.AuthRateBurst))
	auth.POST("/register", d.auth.Register)
	auth.POST("/login", d.auth.Login)

	version := middleware.VersionHeader(middleware.APIVersion)
	e.GET("/api/plans", d.plans.ListActive, version)

	api := e.Group("/api",
		version,
		echojwt.WithConfig(middleware.JWTConfig(cfg.JWTSecret)),
		middleware.Principal(d.users, d.expiration),
	)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	dentistOrAdmin := middleware.RequireRole(models.RoleDentist, models.RoleAdmin)

	// Reachable regardless of plan status
	api.GET("/me", d.auth.Me)
	verify := api.Group("/verify")
	verify.POST("/:channel/send", d.verify.Send)
	verify.POST("/:channel/confirm", d.verify.Confirm)

	hp := api.Group("/hand-payments")
	hp.POST("/create", d.payments.Create, middleware.RequireRole(models.RoleDentist))
	hp.GET("/my-payments", d.payments.Mine, dentistOrAdmin)
	hp.GET("/history", d.payments.History, dentistOrAdmin)
	hp.POST("/confirm/:id", d.payments.Confirm, adminOnly, middleware.AuditWrites())
	hp.POST("/reject/:id", d.payments.Reject, adminOnly, middleware.AuditWrites())
	hp.GET("/pending", d.payments.Pending, adminOnly)
	hp.GET("/all", d.payments.All, adminOnly)

	admin := api.Group("/admin", adminOnly, middleware.AuditWrites())
	admin.GET("/plans", d.plans.ListAll)
	admin.POST("/plans", d.plans.Create)
	admin.PUT("/plans/:id", d.plans.Update)
	admin.DELETE("/plans/:id", d.plans.Deactivate)
	admin.GET("/users", d.admin.ListUsers)
	admin.GET("/users/:id", d.admin.GetUser)
	admin.GET("/users/:id/payments", d.admin.UserPayments)
	admin.GET("/users/:id/history", d.admin.UserHistory)
	admin.POST("/billing/expire", d.admin.ExpireNow)
	admin.GET("/jobs", d.jobs.List)
	admin.POST("/jobs/:name/run", d.jobs.Trigger)

	// Practice data requires an active plan
	clinic := func(prefix string) *echo.Group {
		return api.Group(prefix, dentistOrAdmin, middleware.RequireActivePlan())
	}
	patients := clinic("/patients")
	patients.POST("/:id/documents", d.documents.Upload, echoMiddleware.BodyLimit("21M"))
	patients.GET("/:id/documents", d.documents.List)
	d.patients.Register(patients)

	documents := clinic("/documents")
	documents.GET("/:id/url", d.documents.DownloadURL)
	documents.DELETE("/:id", d.documents.Delete)

	finance := clinic("/finance")
	finance.GET("/cashflow", d.finance.Cashflow)
	finance.GET("/categories", d.finance.Categories)
	finance.GET("/summary", d.finance.Summary)

	d.appointments.Register(clinic("/appointments"))
	d.items.Register(clinic("/items"))
	d.catalog.Register(clinic("/treatment-catalog"))
	d.treatments.Register(clinic("/treatments"))
	d.clinicPay.Register(clinic("/payments"))
	d.expenses.Register(clinic("/expenses"))
	d.medications.Register(clinic("/medications"))
	d.prescriptions.Register(clinic("/prescriptions"))
	d.employees.Register(clinic("/employees"))
	d.workingHours.Register(clinic("/working-hours"))
}
