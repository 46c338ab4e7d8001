package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/monocle-dev/projectboard/internal/apperr"
	"github.com/monocle-dev/projectboard/internal/types"
)

func GetProjectID(ctx *gin.Context) (string, error) {
	return pathID(ctx, "project_id", "Project")
}

func GetTaskID(ctx *gin.Context) (string, error) {
	return pathID(ctx, "task_id", "Task")
}

func pathID(ctx *gin.Context, param, label string) (string, error) {
	raw := ctx.Param(param)

	if raw == "" {
		return "", apperr.BadRequest(fmt.Sprintf("%s ID not found", label))
	}

	return ParseID(raw, label)
}

// ParseID checks that raw is a well-formed id and returns it in canonical form.
func ParseID(raw, label string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", apperr.BadRequest(fmt.Sprintf("Invalid %s ID", label))
	}
	return id.String(), nil
}

// ParseOptionalID is ParseID for body fields that may be omitted.
func ParseOptionalID(raw, label string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	return ParseID(raw, label)
}

// ParseDueDate accepts a calendar date or an RFC 3339 timestamp.
func ParseDueDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)

	if t, err := time.Parse(types.DateLayout, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}

	return time.Time{}, apperr.BadRequest("Invalid due date, expected YYYY-MM-DD")
}
