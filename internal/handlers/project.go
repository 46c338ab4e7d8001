package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/projectboard/internal/apperr"
	"github.com/monocle-dev/projectboard/internal/projects"
	"github.com/monocle-dev/projectboard/internal/realtime"
	"github.com/monocle-dev/projectboard/internal/response"
	"github.com/monocle-dev/projectboard/internal/tasks"
	"github.com/monocle-dev/projectboard/internal/types"
	"github.com/monocle-dev/projectboard/internal/utils"
	"github.com/sirupsen/logrus"
)

type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ParticipantRequest struct {
	UserID string `json:"userId"`
}

type Project struct {
	projects *projects.Service
	tasks    *tasks.Service
	events   Broadcaster
	log      *logrus.Entry
}

func NewProjectHandler(projectService *projects.Service, taskService *tasks.Service, events Broadcaster, log *logrus.Entry) *Project {
	return &Project{projects: projectService, tasks: taskService, events: events, log: log}
}

func (h *Project) CreateProject(ctx *gin.Context) {
	var body CreateProjectRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		response.Error(ctx, h.log, apperr.BadRequest("Invalid request"))
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		response.Error(ctx, h.log, err)
		return
	}

	project, err := h.projects.Create(ctx.Request.Context(), userID, body.Name, body.Description)
	if err != nil {
		response.Error(ctx, h.log, err)
		return
	}

	response.OK(ctx, http.StatusCreated, "Project created successfully", types.NewProjectResponse(project))
}

func (h *Project) ListProjects(ctx *gin.Context) {
	list, err := h.projects.List(ctx.Request.Context())
	if err != nil {
		response.Error(ctx, h.log, err)
		return
	}

	response.OK(ctx, http.StatusOK, "Projects retrieved successfully", types.NewProjectResponses(list))
}

func (h *Project) GetProject(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)
	if err != nil {
		response.Error(ctx, h.log, err)
		return
	}

	detail, err := h.projects.Get(ctx.Request.Context(), projectID)
	if err != nil {
		response.Error(ctx, h.log, err)
		return
	}

	response.OK(ctx, http.StatusOK, "Project retrieved successfully", detailResponse(detail))
}

func (h *Project) UpdateProject(ctx *gin.Context) {
	userID, projectID, ok := h.actorAndProject(ctx)
	if !ok {
		return
	}

	var body UpdateProjectRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		response.Error(ctx, h.log, apperr.BadRequest("Invalid request"))
		return
	}

	project, err := h.projects.Update(ctx.Request.Context(), userID, projectID, projects.Fields{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		response.Error(ctx, h.log, err)
		return
	}

	h.events.Broadcast(projectID, realtime.EventProject, "Project updated")
	response.OK(ctx, http.StatusOK, "Project updated successfully", types.NewProjectResponse(project))
}

func (h *Project) DeleteProject(ctx *gin.Context) {
	userID, projectID, ok := h.actorAndProject(ctx)
	if !ok {
		return
	}

	if err := h.projects.Delete(ctx.Request.Context(), userID, projectID); err != nil {
		response.Error(ctx, h.log, err)
		return
	}

	h.events.Broadcast(projectID, realtime.EventProjectGone, "Project deleted")
	response.OK(ctx, http.StatusOK, "Project deleted successfully", nil)
}

func (h *Project) AddParticipant(ctx *gin.Context) {
	h.changeRoster(ctx, h.projects.AddParticipant, "Participant added successfully")
}

func (h *Project) RemoveParticipant(ctx *gin.Context) {
	h.changeRoster(ctx, h.projects.RemoveParticipant, "Participant removed successfully")
}

type rosterChange func(ctx context.Context, actorID, id, userID string) (projects.Detail, error)

func (h *Project) changeRoster(ctx *gin.Context, change rosterChange, message string) {
	userID, projectID, ok := h.actorAndProject(ctx)
	if !ok {
		return
	}

	var body ParticipantRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		response.Error(ctx, h.log, apperr.BadRequest("Missing userId. Must provide a single user ID."))
		return
	}

	participantID, err := utils.ParseOptionalID(body.UserID, "User")
	if err != nil {
		response.Error(ctx, h.log, err)
		return
	}

	detail, err := change(ctx.Request.Context(), userID, projectID, participantID)
	if err != nil {
		response.Error(ctx, h.log, err)
		return
	}

	h.events.Broadcast(projectID, realtime.EventParticipants, message)
	response.OK(ctx, http.StatusOK, message, detailResponse(detail))
}

func (h *Project) GetProjectTasks(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)
	if err != nil {
		response.Error(ctx, h.log, err)
		return
	}

	list, err := h.tasks.ListForProject(ctx.Request.Context(), projectID)
	if err != nil {
		response.Error(ctx, h.log, err)
		return
	}

	response.OK(ctx, http.StatusOK, "Tasks retrieved successfully", types.NewTaskResponses(list))
}

func (h *Project) actorAndProject(ctx *gin.Context) (string, string, bool) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		response.Error(ctx, h.log, err)
		return "", "", false
	}

	projectID, err := utils.GetProjectID(ctx)
	if err != nil {
		response.Error(ctx, h.log, err)
		return "", "", false
	}

	return userID, projectID, true
}

func detailResponse(d projects.Detail) types.ProjectDetailResponse {
	return types.NewProjectDetailResponse(d.Project, d.Creator, d.Participants, d.Tasks)
}
