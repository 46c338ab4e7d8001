package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/projectboard/internal/projects"
	"github.com/monocle-dev/projectboard/internal/realtime"
	"github.com/monocle-dev/projectboard/internal/response"
	"github.com/monocle-dev/projectboard/internal/utils"
	"github.com/sirupsen/logrus"
)

type WebSocket struct {
	projects *projects.Service
	hub      *realtime.Hub
	log      *logrus.Entry
}

func NewWebSocketHandler(projectService *projects.Service, hub *realtime.Hub, log *logrus.Entry) *WebSocket {
	return &WebSocket{projects: projectService, hub: hub, log: log}
}

// Subscribe upgrades the connection once the project is known to exist.
func (h *WebSocket) Subscribe(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)
	if err != nil {
		response.Error(ctx, h.log, err)
		return
	}

	if _, err := h.projects.Get(ctx.Request.Context(), projectID); err != nil {
		response.Error(ctx, h.log, err)
		return
	}

	h.hub.Serve(ctx.Writer, ctx.Request, projectID)
}
