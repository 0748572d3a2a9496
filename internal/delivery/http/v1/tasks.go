package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-todo-local/internal/models"
	"github.com/adanyl0v/go-todo-local/internal/services"
)

type getTasksResponse struct {
	Filter    models.Filter `json:"filter"`
	Tasks     []models.Task `json:"tasks"`
	Active    int           `json:"active"`
	Completed int           `json:"completed"`
}

type taskResponse struct {
	Task    *models.Task `json:"task"`
	Warning string       `json:"warning,omitempty"`
}

type countResponse struct {
	Count   int    `json:"count"`
	Warning string `json:"warning,omitempty"`
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	filter, err := models.ParseFilter(c.Query("filter"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("invalid filter")
		abort(c, newBadRequestError(err.Error()))
		return
	}

	snapshot := h.tasks.Snapshot()
	h.logger.Debug().
		Str("filter", string(filter)).
		Int("count", len(snapshot.Tasks)).
		Msg("fetched tasks")

	c.JSON(http.StatusOK, getTasksResponse{
		Filter:    filter,
		Tasks:     filter.Apply(snapshot.Tasks),
		Active:    snapshot.Active,
		Completed: snapshot.Completed,
	})
}

type createTaskRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description,omitempty"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.Add(c, services.AddTaskParams{
		Title:       req.Title,
		Description: req.Description,
	})
	warning, err := persistWarning(err)
	if err != nil {
		h.handleStoreError(c, err, "failed to create task")
		return
	}

	c.JSON(http.StatusCreated, taskResponse{Task: task, Warning: warning})
}

type updateTaskRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description,omitempty"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.Update(c, services.UpdateTaskParams{
		ID:          c.Param("id"),
		Title:       req.Title,
		Description: req.Description,
	})
	warning, err := persistWarning(err)
	if err != nil {
		h.handleStoreError(c, err, "failed to update task")
		return
	}
	if task == nil {
		abort(c, newNotFoundError(errTaskNotFound.Error()))
		return
	}

	c.JSON(http.StatusOK, taskResponse{Task: task, Warning: warning})
}

func (h *handlerImpl) HandleToggleTask(c *gin.Context) {
	task, err := h.tasks.Toggle(c, c.Param("id"))
	warning, err := persistWarning(err)
	if err != nil {
		h.handleStoreError(c, err, "failed to toggle task")
		return
	}
	if task == nil {
		abort(c, newNotFoundError(errTaskNotFound.Error()))
		return
	}

	c.JSON(http.StatusOK, taskResponse{Task: task, Warning: warning})
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	deleted, err := h.tasks.Delete(c, c.Param("id"))
	warning, err := persistWarning(err)
	if err != nil {
		h.handleStoreError(c, err, "failed to delete task")
		return
	}
	if !deleted {
		abort(c, newNotFoundError(errTaskNotFound.Error()))
		return
	}

	if warning != "" {
		c.JSON(http.StatusOK, gin.H{"warning": warning})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleClearCompleted(c *gin.Context) {
	removed, err := h.tasks.ClearCompleted(c)
	warning, err := persistWarning(err)
	if err != nil {
		h.handleStoreError(c, err, "failed to clear completed tasks")
		return
	}

	c.JSON(http.StatusOK, countResponse{Count: removed, Warning: warning})
}

func (h *handlerImpl) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handlerImpl) handleStoreError(c *gin.Context, err error, msg string) {
	h.logger.Error().
		Err(err).
		Msg(msg)

	var importErr *services.ImportError
	switch {
	case errors.Is(err, services.ErrEmptyTitle):
		abort(c, newBadRequestError(services.ErrEmptyTitle.Error()))
	case errors.Is(err, services.ErrImportNotArray):
		abort(c, newBadRequestError(services.ErrImportNotArray.Error()))
	case errors.As(err, &importErr):
		abort(c, newBadRequestError(importErr.Error()))
	default:
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}
