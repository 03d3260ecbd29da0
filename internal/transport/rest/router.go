package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/leave-management/internal/activity"
	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/leave"
	"github.com/frahmantamala/leave-management/internal/leavetype"
	"github.com/frahmantamala/leave-management/internal/transport/middleware"
	"github.com/frahmantamala/leave-management/internal/transport/swagger"
	"github.com/frahmantamala/leave-management/internal/user"
	"github.com/go-chi/chi"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, userHandler *user.Handler, leaveTypeHandler *leavetype.Handler, leaveHandler *leave.Handler, activityHandler *activity.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.AccessLog)

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
				sr.Post("/logout", authHandler.Logout)
			})
		}

		if authHandler == nil {
			return
		}

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.Middleware)

			pr.Get("/users/me", authHandler.Me)
			pr.Put("/users/me/password", authHandler.ChangePassword)

			if userHandler != nil {
				pr.Get("/profile", userHandler.GetProfile)
				pr.Put("/profile", userHandler.UpdateProfile)

				// User administration (HR only)
				pr.Route("/users", func(ur chi.Router) {
					ur.Get("/managers", userHandler.ListManagers)

					ur.Group(func(hr chi.Router) {
						hr.Use(authHandler.RequirePermission(auth.PermManageUsers))
						hr.Post("/", userHandler.Create)
						hr.Get("/", userHandler.List)
						hr.Get("/{id}", userHandler.Get)
						hr.Put("/{id}", userHandler.Update)
						hr.Delete("/{id}", userHandler.Delete)
					})
				})
			}

			if leaveTypeHandler != nil {
				pr.Route("/leave-types", func(lt chi.Router) {
					lt.Get("/", leaveTypeHandler.List)
					lt.Get("/{id}", leaveTypeHandler.Get)

					lt.Group(func(hr chi.Router) {
						hr.Use(authHandler.RequirePermission(auth.PermManageLeaveTypes))
						hr.Post("/", leaveTypeHandler.Create)
						hr.Put("/{id}", leaveTypeHandler.Update)
						hr.Delete("/{id}", leaveTypeHandler.Delete)
					})
				})
			}

			if leaveHandler != nil {
				pr.Route("/leaves", func(lr chi.Router) {
					lr.Group(func(er chi.Router) {
						er.Use(authHandler.RequirePermission(auth.PermApplyLeave))
						er.Post("/", leaveHandler.Submit)
					})
					lr.Get("/", leaveHandler.History)
					lr.Get("/balances", leaveHandler.Balances)

					lr.Group(func(mr chi.Router) {
						mr.Use(authHandler.RequirePermission(auth.PermViewTeamLeaves))
						mr.Get("/team", leaveHandler.TeamRequests)
					})

					lr.Group(func(ar chi.Router) {
						ar.Use(authHandler.RequirePermission(auth.PermViewAllLeaves))
						ar.Get("/all", leaveHandler.AllRequests)
					})

					lr.Group(func(mr chi.Router) {
						mr.Use(authHandler.RequirePermission(auth.PermDecideLeave))
						mr.Patch("/{id}/decision", leaveHandler.Decide)
					})
				})

				pr.Get("/dashboard", leaveHandler.Dashboard)

				pr.Group(func(rr chi.Router) {
					rr.Use(authHandler.RequirePermission(auth.PermViewAllLeaves))
					rr.Get("/reports/leaves", leaveHandler.Report)
				})
			}

			if activityHandler != nil {
				pr.Group(func(ar chi.Router) {
					ar.Use(authHandler.RequirePermission(auth.PermViewActivityLog))
					ar.Get("/activity", activityHandler.List)
				})
			}
		})
	})
}
