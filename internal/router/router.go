package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/projectboard/internal/auth"
	"github.com/monocle-dev/projectboard/internal/credentials"
	"github.com/monocle-dev/projectboard/internal/handlers"
	"github.com/monocle-dev/projectboard/internal/health"
	"github.com/monocle-dev/projectboard/internal/middleware"
	"github.com/monocle-dev/projectboard/internal/projects"
	"github.com/monocle-dev/projectboard/internal/realtime"
	"github.com/monocle-dev/projectboard/internal/tasks"
	"github.com/sirupsen/logrus"
)

type Deps struct {
	Log            *logrus.Entry
	AllowedOrigins []string
	Cookie         handlers.CookieConfig
	Sessions       *auth.Sessions
	Credentials    *credentials.Service
	Projects       *projects.Service
	Tasks          *tasks.Service
	Hub            *realtime.Hub

	// Database is probed by the health endpoint when set.
	Database health.Pinger
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Log))

	// cors rejects an empty origin list.
	if len(d.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With", "X-Request-ID"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	authHandler := handlers.NewAuthHandler(d.Credentials, d.Sessions, d.Cookie, d.Log)
	// Without a hub there are no subscribers: events are dropped and the
	// websocket route is not registered.
	var events handlers.Broadcaster = handlers.NoopBroadcaster{}
	if d.Hub != nil {
		events = d.Hub
	}

	projectHandler := handlers.NewProjectHandler(d.Projects, d.Tasks, events, d.Log)
	taskHandler := handlers.NewTaskHandler(d.Tasks, events, d.Log)
	healthHandler := handlers.NewHealthHandler(d.Database, d.Log)

	protect := middleware.AuthMiddleware(d.Sessions, d.Credentials, d.Log)

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.HealthCheck)
		if d.Hub != nil {
			wsHandler := handlers.NewWebSocketHandler(d.Projects, d.Hub, d.Log)
			api.GET("/ws/:project_id", protect, wsHandler.Subscribe)
		}

		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.CreateUser)
			authRoutes.POST("/login", authHandler.LoginUser)
			authRoutes.POST("/logout", authHandler.LogoutUser)
			authRoutes.GET("/me", protect, authHandler.Me)
		}

		projectRoutes := api.Group("/projects", protect)
		{
			projectRoutes.POST("", projectHandler.CreateProject)
			projectRoutes.GET("", projectHandler.ListProjects)
			projectRoutes.GET("/:project_id", projectHandler.GetProject)
			projectRoutes.PUT("/:project_id", projectHandler.UpdateProject)
			projectRoutes.DELETE("/:project_id", projectHandler.DeleteProject)

			// Roster endpoints
			projectRoutes.PUT("/:project_id/add-participant", projectHandler.AddParticipant)
			projectRoutes.PUT("/:project_id/remove-participant", projectHandler.RemoveParticipant)

			projectRoutes.GET("/:project_id/tasks", projectHandler.GetProjectTasks)
		}

		taskRoutes := api.Group("/tasks", protect)
		{
			taskRoutes.POST("", taskHandler.CreateTask)
			taskRoutes.GET("/:task_id", taskHandler.GetTask)
			taskRoutes.PUT("/:task_id", taskHandler.UpdateTask)
			taskRoutes.DELETE("/:task_id", taskHandler.DeleteTask)
		}
	}

	return r
}
