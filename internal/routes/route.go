package routes

import (
	"net/http"

	"linea1-bknd/internal/auth"
	"linea1-bknd/internal/config"
	"linea1-bknd/internal/handlers"
	"linea1-bknd/internal/logger"
	mdlwr "linea1-bknd/internal/middleware"
	"linea1-bknd/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

func NewRouter(db *bun.DB, cfg *config.Config, logr *logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	jwtMgr, err := auth.NewJWTManager(cfg.JWTPrivateKeyPath, cfg.JWTPublicKeyPath, "linea1-bknd")
	if err != nil {
		logr.Fatal("failed to init jwt manager", zap.Error(err))
	}

	auditSvc := services.NewAuditService(db, logr.Logger)
	authSvc := services.NewAuthService(db, jwtMgr, cfg, logr.Logger)
	stationSvc := services.NewStationService(db, logr.Logger)
	barSvc := services.NewBarService(db)
	circuitSvc := services.NewCircuitService(db, stationSvc, auditSvc, logr.Logger)
	subCircuitSvc := services.NewSubCircuitService(db, circuitSvc, auditSvc, logr.Logger)
	requestSvc := services.NewRequestService(db, stationSvc, auditSvc, logr.Logger)
	notificationSvc := services.NewNotificationService(db, logr.Logger)
	observationSvc := services.NewObservationService(db, auditSvc)
	backupSvc := services.NewBackupService(db, stationSvc, auditSvc, logr.Logger)
	reportSvc := services.NewReportService(db)
	userSvc := services.NewUserService(db, auditSvc, logr.Logger)

	authMW := mdlwr.NewAuthMiddleware(jwtMgr, authSvc, logr.Logger)

	authHandler := handlers.NewAuthHandler(authSvc, logr.Logger)
	stationHandler := handlers.NewStationHandler(stationSvc, logr.Logger)
	barHandler := handlers.NewBarHandler(barSvc, logr.Logger)
	circuitHandler := handlers.NewCircuitHandler(circuitSvc, logr.Logger)
	subCircuitHandler := handlers.NewSubCircuitHandler(subCircuitSvc, logr.Logger)
	requestHandler := handlers.NewRequestHandler(requestSvc, logr.Logger)
	notificationHandler := handlers.NewNotificationHandler(notificationSvc, logr.Logger)
	observationHandler := handlers.NewObservationHandler(observationSvc, logr.Logger)
	auditHandler := handlers.NewAuditHandler(auditSvc, logr.Logger)
	backupHandler := handlers.NewBackupHandler(backupSvc, logr.Logger)
	reportHandler := handlers.NewReportHandler(reportSvc, logr.Logger)
	userHandler := handlers.NewUserHandler(userSvc, logr.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			// Public routes
			r.Post("/login", authHandler.Login)
			r.Post("/ldap", authHandler.LoginLDAP)

			r.Group(func(r chi.Router) {
				r.Use(authMW.JWTAuth)
				r.Get("/me", authHandler.Me)
			})
		})

		// Everything below requires a valid token.
		r.Group(func(r chi.Router) {
			r.Use(authMW.JWTAuth)

			r.Route("/stations", func(r chi.Router) {
				r.With(authMW.RequirePermission("view_stations")).Get("/", stationHandler.List)
				r.With(authMW.RequirePermission("view_stations")).Get("/{id}", stationHandler.Get)
				r.With(authMW.RequirePermission("view_stations")).Get("/{id}/power-summary", stationHandler.PowerSummary)

				r.With(authMW.RequireAdmin).Put("/{id}", stationHandler.UpdateCapacity)
				r.With(authMW.RequireAdmin).Post("/{id}/recalculate", stationHandler.Recalculate)
			})

			r.Route("/bars", func(r chi.Router) {
				r.Use(authMW.RequirePermission("view_stations"))
				r.Get("/station/{id}", barHandler.ListByStation)
				r.Get("/{id}", barHandler.Get)
				r.Get("/{id}/power-summary", barHandler.PowerSummary)
			})

			r.Route("/circuits", func(r chi.Router) {
				r.With(authMW.RequirePermission("view_circuits")).Get("/bar/{id}", circuitHandler.ListByBar)
				r.With(authMW.RequirePermission("view_circuits")).Get("/{id}", circuitHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(authMW.RequireAdmin)
					r.Post("/bar/{id}", circuitHandler.Create)
					r.Put("/{id}", circuitHandler.Update)
					r.Put("/{id}/status", circuitHandler.ChangeStatus)
					r.Get("/{id}/deletion-plan", circuitHandler.DeletionPlan)
					r.Delete("/{id}", circuitHandler.Delete)
				})
			})

			r.Route("/sub-circuits", func(r chi.Router) {
				r.With(authMW.RequirePermission("view_circuits")).Get("/circuit/{id}", subCircuitHandler.ListByCircuit)

				r.Group(func(r chi.Router) {
					r.Use(authMW.RequireAdmin)
					r.Post("/circuit/{id}", subCircuitHandler.Create)
					r.Put("/{id}/status", subCircuitHandler.ChangeStatus)
					r.Delete("/{id}", subCircuitHandler.Delete)
				})
			})

			r.Route("/requests", func(r chi.Router) {
				r.With(authMW.RequirePermission("send_requests")).Post("/", requestHandler.Submit)
				r.With(authMW.RequirePermission("send_requests")).Get("/my", requestHandler.ListMine)
				r.With(authMW.RequirePermission("send_requests")).Get("/circuit-options/{id}", requestHandler.CircuitOptions)

				r.Group(func(r chi.Router) {
					r.Use(authMW.RequireAdmin)
					r.Get("/", requestHandler.List)
					r.Put("/{id}/approve", requestHandler.Approve)
					r.Put("/{id}/reject", requestHandler.Reject)
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Use(authMW.RequireAdmin)
				r.Get("/", notificationHandler.List)
				r.Get("/count", notificationHandler.UnreadCount)
				r.Put("/{id}/read", notificationHandler.MarkRead)
				r.Put("/{id}/extend", notificationHandler.Extend)
				r.Put("/{id}/dismiss", notificationHandler.Dismiss)
			})

			r.Route("/observations", func(r chi.Router) {
				r.With(authMW.RequirePermission("view_circuits")).Get("/circuit/{id}", observationHandler.ListByCircuit)
				r.With(authMW.RequirePermission("view_circuits")).Get("/bar/{id}", observationHandler.ListByBar)
				r.With(authMW.RequirePermission("add_observations")).Post("/", observationHandler.Create)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(authMW.RequirePermission("view_reports"))
				r.Get("/demand-evolution", reportHandler.DemandEvolution)
				r.Get("/requests-per-station", reportHandler.RequestsPerStation)
			})

			r.Route("/audit", func(r chi.Router) {
				r.With(authMW.RequirePermission("view_reports")).Get("/", auditHandler.List)
				r.With(authMW.RequireAdmin).Put("/{id}/flag", auditHandler.Flag)
			})

			r.Route("/backups", func(r chi.Router) {
				r.Use(authMW.RequireAdmin)
				r.Get("/", backupHandler.List)
				r.Post("/", backupHandler.Create)
				r.Post("/{id}/restore", backupHandler.Restore)
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(authMW.RequireAdmin)
				r.Get("/", userHandler.List)
				r.Post("/", userHandler.Create)
				r.Get("/{id}", userHandler.Get)
				r.Put("/{id}", userHandler.Update)
			})

			r.Route("/permissions", func(r chi.Router) {
				r.Use(authMW.RequireAdmin)
				r.Get("/features", userHandler.Features)
				r.Get("/users/{id}", userHandler.GetPermissions)
				r.Put("/users/{id}", userHandler.UpdatePermissions)
			})
		})
	})

	return r
}
