package handlers

import (
	"net/http"

	"github.com/vijaynvb/fullstackapp/internal/adapter/http/dto"
	"github.com/vijaynvb/fullstackapp/internal/adapter/http/mapper"
	"github.com/vijaynvb/fullstackapp/internal/adapter/http/validation"
	"github.com/vijaynvb/fullstackapp/internal/core/domain"
	"github.com/vijaynvb/fullstackapp/internal/core/ports"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TaskHandler struct {
	taskService     ports.TaskService
	defaultPageSize int
	maxPageSize     int
}

func NewTaskHandler(taskService ports.TaskService, defaultPageSize, maxPageSize int) *TaskHandler {
	if maxPageSize <= 0 {
		maxPageSize = domain.MaxPageSize
	}
	if defaultPageSize <= 0 {
		defaultPageSize = domain.DefaultPageSize
	}
	return &TaskHandler{
		taskService:     taskService,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	query, err := validation.BuildTaskQuery(c.Request.URL.Query(), h.defaultPageSize, h.maxPageSize)
	if err != nil {
		respondError(c, err, "")
		return
	}

	page, err := h.taskService.ListTasks(c.Request.Context(), caller, query)
	if err != nil {
		respondError(c, err, "failed to list tasks")
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskPage(page))
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	raw, ok := decodeBody(c, &req)
	if !ok {
		return
	}
	input, err := validation.BuildCreateTaskInput(req, raw)
	if err != nil {
		respondError(c, err, "")
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), caller, input)
	if err != nil {
		respondError(c, err, "failed to create task")
		return
	}

	c.JSON(http.StatusCreated, mapper.ToTaskItem(task))
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	taskID := c.Param("id")
	detail, err := h.taskService.GetTask(c.Request.Context(), caller, taskID)
	if err != nil {
		respondError(c, err, "failed to get task", zap.String("task_id", taskID))
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskDetail(detail))
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	raw, ok := decodeBody(c, &req)
	if !ok {
		return
	}
	input, err := validation.BuildUpdateTaskInput(req, raw)
	if err != nil {
		respondError(c, err, "")
		return
	}

	taskID := c.Param("id")
	task, err := h.taskService.UpdateTask(c.Request.Context(), caller, taskID, input)
	if err != nil {
		respondError(c, err, "failed to update task", zap.String("task_id", taskID))
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	taskID := c.Param("id")
	if err := h.taskService.DeleteTask(c.Request.Context(), caller, taskID); err != nil {
		respondError(c, err, "failed to delete task", zap.String("task_id", taskID))
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) AssignTask(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.AssignTaskRequest
	if _, ok := decodeBody(c, &req); !ok {
		return
	}
	notify := true
	if req.NotifyAssignee != nil {
		notify = *req.NotifyAssignee
	}

	taskID := c.Param("id")
	task, err := h.taskService.AssignTask(c.Request.Context(), caller, taskID, req.AssigneeID, notify)
	if err != nil {
		respondError(c, err, "failed to assign task", zap.String("task_id", taskID))
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) ChangeStatus(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.ChangeStatusRequest
	if _, ok := decodeBody(c, &req); !ok {
		return
	}
	status, err := validation.ParseStatus("status", req.Status)
	if err != nil {
		respondError(c, err, "")
		return
	}
	notify := true
	if req.Notify != nil {
		notify = *req.Notify
	}

	taskID := c.Param("id")
	task, err := h.taskService.ChangeStatus(c.Request.Context(), caller, taskID, status, notify)
	if err != nil {
		respondError(c, err, "failed to change task status", zap.String("task_id", taskID))
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) ListHistory(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	taskID := c.Param("id")
	entries, err := h.taskService.ListHistory(c.Request.Context(), caller, taskID)
	if err != nil {
		respondError(c, err, "failed to list task history", zap.String("task_id", taskID))
		return
	}

	c.JSON(http.StatusOK, mapper.ToHistoryEntryItems(entries))
}
