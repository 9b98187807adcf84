package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/campushr/claims-management/internal/auth"
	"github.com/campushr/claims-management/internal/claim"
	"github.com/campushr/claims-management/internal/report"
	"github.com/campushr/claims-management/internal/transport/middleware"
	"github.com/campushr/claims-management/internal/transport/swagger"
	"github.com/campushr/claims-management/internal/user"
	"github.com/go-chi/chi"
)

func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	allowedOrigins string,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	claimHandler *claim.Handler,
	reportHandler *report.Handler,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

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

		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			if claimHandler != nil {
				pr.Route("/claims", func(cr chi.Router) {
					// lecturer routes
					cr.Post("/", claimHandler.SubmitClaim)
					cr.Get("/", claimHandler.ListOwnClaims)
					cr.Get("/{id}", claimHandler.GetClaim)
					cr.Put("/{id}", claimHandler.EditClaim)
					cr.Delete("/{id}", claimHandler.DeleteClaim)

					// review queue for approval roles
					cr.Get("/review", claimHandler.ListReviewQueue)

					// stage transitions; the lifecycle enforces the full rule
					cr.Patch("/{id}/approve", claimHandler.ApproveClaim)
					cr.Patch("/{id}/reject", claimHandler.RejectClaim)
				})
			}

			if userHandler != nil {
				pr.Get("/users/me", userHandler.GetCurrentUser)

				// account management is HR-only
				pr.Group(func(hr chi.Router) {
					hr.Use(authHandler.RequireRole(auth.RoleHR))
					hr.Route("/users", func(ur chi.Router) {
						ur.Post("/", userHandler.CreateUser)
						ur.Get("/", userHandler.ListUsers)
						ur.Get("/{id}", userHandler.GetUser)
						ur.Put("/{id}", userHandler.UpdateUser)
						ur.Patch("/{id}/deactivate", userHandler.DeactivateUser)
					})
				})
			}

			if reportHandler != nil {
				pr.Group(func(hr chi.Router) {
					hr.Use(authHandler.RequireRole(auth.RoleHR))
					hr.Get("/reports/claims", reportHandler.GetSummary)
					hr.Get("/reports/claims/pdf", reportHandler.DownloadPDF)
					hr.Get("/reports/claims/csv", reportHandler.DownloadCSV)
				})
			}
		})
	})
}
