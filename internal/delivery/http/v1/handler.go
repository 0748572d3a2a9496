package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-local/internal/services"
)

type Handler interface {
	HandleGetTasks(c *gin.Context)
	HandleCreateTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleToggleTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
	HandleClearCompleted(c *gin.Context)

	HandleExport(c *gin.Context)
	HandleImport(c *gin.Context)

	HandleHealth(c *gin.Context)

	// Register mounts every handler on the router.
	Register(router gin.IRouter)
}

type handlerImpl struct {
	logger zerolog.Logger
	tasks  services.TaskStore
}

func New(
	logger zerolog.Logger,
	taskStore services.TaskStore,
) Handler {
	return &handlerImpl{
		logger: logger,
		tasks:  taskStore,
	}
}

func (h *handlerImpl) Register(router gin.IRouter) {
	router.GET("/healthz", h.HandleHealth)

	api := router.Group("/api/v1")
	api.GET("/tasks", h.HandleGetTasks)
	api.POST("/tasks", h.HandleCreateTask)
	api.PUT("/tasks/:id", h.HandleUpdateTask)
	api.POST("/tasks/:id/toggle", h.HandleToggleTask)
	api.DELETE("/tasks/:id", h.HandleDeleteTask)
	api.POST("/clear-completed", h.HandleClearCompleted)

	api.GET("/export", h.HandleExport)
	api.POST("/import", h.HandleImport)
}
