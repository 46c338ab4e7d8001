package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/projectboard/internal/apperr"
	"github.com/monocle-dev/projectboard/internal/models"
	"github.com/monocle-dev/projectboard/internal/realtime"
	"github.com/monocle-dev/projectboard/internal/response"
	"github.com/monocle-dev/projectboard/internal/tasks"
	"github.com/monocle-dev/projectboard/internal/types"
	"github.com/monocle-dev/projectboard/internal/utils"
	"github.com/sirupsen/logrus"
)

type CreateTaskRequest struct {
	ProjectID   string `json:"projectId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	AssignedTo  string `json:"assignedTo"`
	DueDate     string `json:"dueDate"`
	Status      string `json:"status"`
}

type UpdateTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	AssignedTo  string  `json:"assignedTo"`
	DueDate     *string `json:"dueDate"`
	Status      string  `json:"status"`
	IsCompleted *bool   `json:"isCompleted"`
}

type Task struct {
	tasks  *tasks.Service
	events Broadcaster
	log    *logrus.Entry
}

func NewTaskHandler(taskService *tasks.Service, events Broadcaster, log *logrus.Entry) *Task {
	return &Task{tasks: taskService, events: events, log: log}
}

func (h *Task) CreateTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		response.Error(ctx, h.log, err)
		return
	}

	var body CreateTaskRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		response.Error(ctx, h.log, apperr.BadRequest("Invalid request"))
		return
	}

	input, err := body.toInput()
	if err != nil {
		response.Error(ctx, h.log, err)
		return
	}

	task, err := h.tasks.Create(ctx.Request.Context(), userID, input)
	if err != nil {
		response.Error(ctx, h.log, err)
		return
	}

	h.events.Broadcast(task.ProjectID, realtime.EventTasks, "Task created")
	response.OK(ctx, http.StatusCreated, "Task created successfully", types.NewTaskResponse(task))
}

func (h *Task) GetTask(ctx *gin.Context) {
	taskID, err := utils.GetTaskID(ctx)
	if err != nil {
		response.Error(ctx, h.log, err)
		return
	}

	detail, err := h.tasks.Get(ctx.Request.Context(), taskID)
	if err != nil {
		response.Error(ctx, h.log, err)
		return
	}

	response.OK(ctx, http.StatusOK, "Task retrieved successfully",
		types.NewTaskDetailResponse(detail.Task, detail.Assignee, detail.Project))
}

func (h *Task) UpdateTask(ctx *gin.Context) {
	userID, taskID, ok := h.actorAndTask(ctx)
	if !ok {
		return
	}

	var body UpdateTaskRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		response.Error(ctx, h.log, apperr.BadRequest("Invalid request"))
		return
	}

	fields, err := body.toFields()
	if err != nil {
		response.Error(ctx, h.log, err)
		return
	}

	task, err := h.tasks.Update(ctx.Request.Context(), userID, taskID, fields)
	if err != nil {
		response.Error(ctx, h.log, err)
		return
	}

	h.events.Broadcast(task.ProjectID, realtime.EventTasks, "Task updated")
	response.OK(ctx, http.StatusOK, "Task updated successfully", types.NewTaskResponse(task))
}

func (h *Task) DeleteTask(ctx *gin.Context) {
	userID, taskID, ok := h.actorAndTask(ctx)
	if !ok {
		return
	}

	task, err := h.tasks.Delete(ctx.Request.Context(), userID, taskID)
	if err != nil {
		response.Error(ctx, h.log, err)
		return
	}

	h.events.Broadcast(task.ProjectID, realtime.EventTasks, "Task deleted")
	response.OK(ctx, http.StatusOK, "Task deleted successfully", nil)
}

func (h *Task) actorAndTask(ctx *gin.Context) (string, string, bool) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		response.Error(ctx, h.log, err)
		return "", "", false
	}

	taskID, err := utils.GetTaskID(ctx)
	if err != nil {
		response.Error(ctx, h.log, err)
		return "", "", false
	}

	return userID, taskID, true
}

func (r CreateTaskRequest) toInput() (tasks.CreateInput, error) {
	projectID, err := utils.ParseOptionalID(r.ProjectID, "Project")
	if err != nil {
		return tasks.CreateInput{}, err
	}
	assignee, err := utils.ParseOptionalID(r.AssignedTo, "User")
	if err != nil {
		return tasks.CreateInput{}, err
	}

	var due time.Time
	if r.DueDate != "" {
		if due, err = utils.ParseDueDate(r.DueDate); err != nil {
			return tasks.CreateInput{}, err
		}
	}

	return tasks.CreateInput{
		ProjectID:   projectID,
		Title:       r.Title,
		Description: r.Description,
		AssignedTo:  assignee,
		DueDate:     due,
		Status:      models.TaskStatus(r.Status),
	}, nil
}

func (r UpdateTaskRequest) toFields() (tasks.Fields, error) {
	assignee, err := utils.ParseOptionalID(r.AssignedTo, "User")
	if err != nil {
		return tasks.Fields{}, err
	}

	fields := tasks.Fields{
		Title:       r.Title,
		Description: r.Description,
		AssignedTo:  assignee,
		Status:      models.TaskStatus(r.Status),
		IsCompleted: r.IsCompleted,
	}

	if r.DueDate != nil && *r.DueDate != "" {
		due, err := utils.ParseDueDate(*r.DueDate)
		if err != nil {
			return tasks.Fields{}, err
		}
		fields.DueDate = &due
	}

	return fields, nil
}
