package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/taskwell/taskwell-api/internal/api"
	apiMiddleware "github.com/taskwell/taskwell-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userService, app.jwtService, app.revokedTokens)
	taskHandler := api.NewTaskHandler(app.taskService)
	categoryHandler := api.NewCategoryHandler(app.categoryService)
	userHandler := api.NewUserHandler(app.userService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/token/refresh", authHandler.RefreshToken)
		r.Post("/auth/password-reset", authHandler.PasswordReset)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/profile", authHandler.GetProfile)
			r.Put("/auth/profile", authHandler.UpdateProfile)
			r.Put("/auth/change-password", authHandler.ChangePassword)
			r.Get("/auth/me", authHandler.Me)

			// Task endpoints; the fixed paths must register before {id}
			r.Get("/tasks", taskHandler.ListTasks)
			r.Get("/tasks/stats", taskHandler.TaskStats)
			r.Get("/tasks/my_tasks", taskHandler.MyTasks)
			r.Post("/tasks", taskHandler.CreateTask)
			r.Get("/tasks/{id}", taskHandler.GetTask)
			r.Put("/tasks/{id}", taskHandler.UpdateTask)
			r.Patch("/tasks/{id}", taskHandler.PatchTask)
			r.Delete("/tasks/{id}", taskHandler.DeleteTask)
			r.Post("/tasks/{id}/comments", taskHandler.AddComment)
			r.Post("/tasks/{id}/attachments", taskHandler.AddAttachment)
			r.Get("/attachments/{id}", taskHandler.DownloadAttachment)

			// Category endpoints
			r.Get("/categories", categoryHandler.ListCategories)
			r.Post("/categories", categoryHandler.CreateCategory)
			r.Get("/categories/{id}", categoryHandler.GetCategory)
			r.Put("/categories/{id}", categoryHandler.UpdateCategory)
			r.Delete("/categories/{id}", categoryHandler.DeleteCategory)

			// User endpoints (read-only)
			r.Get("/users", userHandler.ListUsers)
			r.Get("/users/{id}", userHandler.GetUser)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	// API document
	r.Get("/openapi.yaml", api.ServeOpenAPI)

	return r
}
