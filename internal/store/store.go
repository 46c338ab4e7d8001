// Package store declares the persistence port shared by the services and
// its adapters. Every service operation runs its reads and writes through a
// single Transaction call so multi-record changes commit or fail together.
package store

import (
	"context"
	"errors"

	"github.com/monocle-dev/projectboard/internal/models"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

type Store interface {
	// Transaction runs fn against a repository bound to one transaction.
	// If fn returns an error nothing it wrote is kept.
	Transaction(ctx context.Context, fn func(repo Repository) error) error
}

type Repository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)

	CreateProject(ctx context.Context, project *models.Project) error
	GetProject(ctx context.Context, id string) (models.Project, error)
	// LockProject loads a project and holds it until the transaction ends,
	// serializing roster and task-assignment changes on that project.
	LockProject(ctx context.Context, id string) (models.Project, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
	ListCreatedProjectIDs(ctx context.Context, userID string) ([]string, error)
	SaveProject(ctx context.Context, project *models.Project) error
	DeleteProject(ctx context.Context, id string) error

	// AddParticipant reports whether a new membership row was written.
	AddParticipant(ctx context.Context, projectID, userID string) (bool, error)
	// RemoveParticipant reports whether a membership row was removed.
	RemoveParticipant(ctx context.Context, projectID, userID string) (bool, error)
	IsParticipant(ctx context.Context, projectID, userID string) (bool, error)
	ListParticipants(ctx context.Context, projectID string) ([]models.User, error)
	ListJoinedProjectIDs(ctx context.Context, userID string) ([]string, error)
	DeleteParticipantsByProject(ctx context.Context, projectID string) error

	CreateTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, id string) (models.Task, error)
	ListTasksByProject(ctx context.Context, projectID string) ([]models.Task, error)
	HasPendingTask(ctx context.Context, projectID, userID string) (bool, error)
	SaveTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, id string) error
	DeleteTasksByProject(ctx context.Context, projectID string) error
}
