package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/wizdeskofficial/wizdeskofficial/internal/handler"
	"github.com/wizdeskofficial/wizdeskofficial/internal/metrics"
	"github.com/wizdeskofficial/wizdeskofficial/internal/middleware"
	middleware2 "github.com/wizdeskofficial/wizdeskofficial/pkg/middleware"
)

type Handlers struct {
	Auth        *handler.AuthHandler
	Team        *handler.TeamHandler
	Task        *handler.TaskHandler
	Performance *handler.PerformanceHandler
	Health      *handler.HealthHandler
}

func SetupRouter(
	logger *slog.Logger,
	requestTimeout time.Duration,
	h Handlers,
	authService middleware.AuthService,
) http.Handler {
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// Global middlewares
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware2.LoggingMiddleware(logger))
	r.Use(metrics.Middleware)
	r.Use(chimiddleware.Timeout(requestTimeout))

	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health.Health)

		// Public endpoints
		r.Route("/auth", func(r chi.Router) {
			r.Post("/send-verification", h.Auth.SendVerification)
			r.Post("/verify-email", h.Auth.VerifyEmail)
			r.Post("/verify-email-code", h.Auth.VerifyEmailCode)
			r.Post("/send-member-verification", h.Auth.SendMemberVerification)
			r.Post("/verify-member-email", h.Auth.VerifyMemberEmail)
			r.Post("/login", h.Auth.Login)
			r.Post("/check-member-status", h.Auth.CheckMemberStatus)
			r.Get("/health", h.Auth.Health)

			// Team management (require JWT authentication)
			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthMiddleware(authService))

				r.Post("/approve-member", h.Team.ApproveMember)
				r.Post("/reject-member", h.Team.RejectMember)
				r.Post("/approve-rejected-member", h.Team.ApproveRejectedMember)
				r.Delete("/delete-rejected-member/{userId}", h.Team.DeleteRejectedMember)
				r.Delete("/team/{teamCode}/member/{memberId}", h.Team.RemoveMember)
				r.Get("/team/{teamCode}/all-members", h.Team.AllMembers)
				r.Get("/team/{teamCode}/pending-requests", h.Team.PendingRequests)
				r.Get("/team/{teamCode}/rejected-members", h.Team.RejectedMembers)
			})
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(authService))

			r.Post("/create", h.Task.CreateTask)
			r.Get("/team/{teamCode}", h.Task.GetTeamTasks)
			r.Get("/team/{teamCode}/available", h.Task.AvailableSubtasks)
			r.Get("/team/{teamCode}/status/{status}", h.Task.GetTeamTasksByStatus)
			r.Get("/user/{userId}/subtasks", h.Task.UserSubtasks)

			r.Put("/subtask/{id}/take", h.Task.TakeSubtask)
			r.Put("/subtask/{id}/assign-to", h.Task.AssignSubtask)
			r.Put("/subtask/{id}/progress", h.Task.UpdateProgress)
			r.Put("/subtask/{id}", h.Task.UpdateSubtask)
			r.Delete("/subtask/{id}", h.Task.DeleteSubtask)

			r.Get("/{taskId}", h.Task.GetTask)
			r.Put("/{taskId}", h.Task.UpdateTask)
			r.Delete("/{taskId}", h.Task.DeleteTask)
		})

		r.Route("/performance", func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(authService))

			r.Get("/team/{teamCode}", h.Performance.GetTeamPerformance)
		})
	})

	return r
}
