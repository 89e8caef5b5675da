package http

import (
	"github.com/vijaynvb/fullstackapp/internal/adapter/http/handlers"
	"github.com/vijaynvb/fullstackapp/internal/adapter/http/middleware"
	"github.com/vijaynvb/fullstackapp/internal/adapter/http/validation"
	"github.com/vijaynvb/fullstackapp/internal/core/ports"
	"github.com/vijaynvb/fullstackapp/pkg/apierrors"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Users    *handlers.UserHandler
	Tasks    *handlers.TaskHandler
	Comments *handlers.CommentHandler
}

func RegisterRoutes(r *gin.Engine, h Handlers, authService ports.AuthService) {
	validation.RegisterJSONFieldNames()

	r.NoRoute(middleware.LanguageMiddleware(), func(c *gin.Context) {
		c.JSON(apierrors.KindNotFound.Status(),
			apierrors.CreateError(apierrors.KindNotFound, apierrors.MsgRouteNotFound, middleware.GetLang(c)))
	})

	api := r.Group("/api/v1")
	api.Use(middleware.LanguageMiddleware())
	{
		api.GET("/health", h.Health.CheckHealth)
		api.GET("/health/report", h.Health.CheckHealthReport)
		api.GET("/health/readiness", h.Health.CheckHealth)
		api.GET("/health/liveness", h.Health.Liveness)

		api.POST("/auth/signup", h.Auth.Signup)
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/password/reset", h.Auth.RequestPasswordReset)
		api.POST("/auth/password/reset/confirm", h.Auth.ConfirmPasswordReset)
	}

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(authService))
	{
		authed.POST("/auth/logout", h.Auth.Logout)
		authed.POST("/auth/refresh", h.Auth.Refresh)
		authed.GET("/auth/me", h.Auth.Me)

		authed.GET("/users", h.Users.ListUsers)
		authed.GET("/users/:id", h.Users.GetUser)
		authed.PATCH("/users/:id", h.Users.UpdateUser)

		authed.GET("/tasks", h.Tasks.ListTasks)
		authed.POST("/tasks", h.Tasks.CreateTask)
		authed.GET("/tasks/:id", h.Tasks.GetTask)
		authed.PUT("/tasks/:id", h.Tasks.UpdateTask)
		authed.DELETE("/tasks/:id", h.Tasks.DeleteTask)
		authed.POST("/tasks/:id/assign", h.Tasks.AssignTask)
		authed.PUT("/tasks/:id/status", h.Tasks.ChangeStatus)
		authed.GET("/tasks/:id/history", h.Tasks.ListHistory)

		authed.POST("/tasks/:id/comments", h.Comments.AddComment)
		authed.PUT("/tasks/:id/comments/:commentId", h.Comments.EditComment)
		authed.DELETE("/tasks/:id/comments/:commentId", h.Comments.DeleteComment)
	}
}
