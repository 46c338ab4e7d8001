// Package tasks owns tasks inside projects: assignment preconditions on
// create and field-scoped updates.
package tasks

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/monocle-dev/projectboard/internal/apperr"
	"github.com/monocle-dev/projectboard/internal/models"
	"github.com/monocle-dev/projectboard/internal/policy"
	"github.com/monocle-dev/projectboard/internal/store"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

type CreateInput struct {
	ProjectID   string
	Title       string
	Description string
	AssignedTo  string
	DueDate     time.Time
	Status      models.TaskStatus
}

// Fields carries a partial update. Empty strings and nil pointers leave the
// stored value unchanged.
type Fields struct {
	Title       string
	Description string
	AssignedTo  string
	DueDate     *time.Time
	Status      models.TaskStatus
	IsCompleted *bool
}

// Detail is a task with its assignee and project resolved.
type Detail struct {
	Task     models.Task
	Assignee models.User
	Project  models.Project
}

type Service struct {
	store store.Store
	log   *logrus.Entry
}

func NewService(st store.Store, log *logrus.Entry) *Service {
	return &Service{store: st, log: log}
}

// Create adds a task to a project. Any authenticated actor may create tasks;
// the assignee must be a participant with no pending task in the project.
func (s *Service) Create(ctx context.Context, actorID string, in CreateInput) (models.Task, error) {
	const op = "tasks.Service.Create"
	log := s.log.WithField("op", op)

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.ProjectID == "" || in.AssignedTo == "" || in.Title == "" || in.Description == "" || in.DueDate.IsZero() {
		return models.Task{}, apperr.BadRequest("projectId, title, description, assignedTo and dueDate are required")
	}
	if in.Status == "" {
		in.Status = models.TaskStatusToDo
	}
	if !in.Status.Valid() {
		return models.Task{}, apperr.BadRequest("Invalid task status")
	}

	task := models.Task{
		ProjectID:    in.ProjectID,
		Title:        in.Title,
		Description:  in.Description,
		Status:       in.Status,
		AssignedToID: in.AssignedTo,
		DueDate:      datatypes.Date(in.DueDate),
	}

	err := s.store.Transaction(ctx, func(repo store.Repository) error {
		if _, err := repo.LockProject(ctx, in.ProjectID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperr.NotFound("Project not found")
			}
			return err
		}
		if err := requireParticipant(ctx, repo, in.ProjectID, in.AssignedTo); err != nil {
			return err
		}

		pending, err := repo.HasPendingTask(ctx, in.ProjectID, in.AssignedTo)
		if err != nil {
			return err
		}
		if pending {
			return apperr.AlreadyExists("The user is already assigned a pending task in this project.")
		}

		return repo.CreateTask(ctx, &task)
	})
	if err != nil {
		return models.Task{}, err
	}

	log.WithFields(logrus.Fields{
		"task_id":    task.ID,
		"project_id": task.ProjectID,
		"actor_id":   actorID,
	}).Info("task created")
	return task, nil
}

// ListForProject returns the project's tasks in creation order. An unknown
// project yields an empty list.
func (s *Service) ListForProject(ctx context.Context, projectID string) ([]models.Task, error) {
	var tasks []models.Task
	err := s.store.Transaction(ctx, func(repo store.Repository) error {
		var err error
		tasks, err = repo.ListTasksByProject(ctx, projectID)
		return err
	})
	return tasks, err
}

func (s *Service) Get(ctx context.Context, id string) (Detail, error) {
	var detail Detail
	err := s.store.Transaction(ctx, func(repo store.Repository) error {
		task, err := loadTask(ctx, repo, id)
		if err != nil {
			return err
		}

		assignee, err := repo.GetUser(ctx, task.AssignedToID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		project, err := repo.GetProject(ctx, task.ProjectID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}

		detail = Detail{Task: task, Assignee: assignee, Project: project}
		return nil
	})
	return detail, err
}

// Update applies the fields the actor's scope covers and ignores the rest.
func (s *Service) Update(ctx context.Context, actorID, id string, fields Fields) (models.Task, error) {
	const op = "tasks.Service.Update"
	log := s.log.WithField("op", op)

	var task models.Task
	err := s.store.Transaction(ctx, func(repo store.Repository) error {
		var err error
		if task, err = loadTask(ctx, repo, id); err != nil {
			return err
		}
		project, err := repo.LockProject(ctx, task.ProjectID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperr.NotFound("Project not found")
			}
			return err
		}

		decision := policy.Decide(actorID, policy.TaskResource(task, project), policy.ActionUpdate)
		if !decision.Allowed {
			return apperr.Forbidden("You are not authorized to update this task")
		}

		if err := s.validate(ctx, repo, task, fields, decision.Scope); err != nil {
			return err
		}
		if applyFields(&task, fields, decision.Scope) == 0 {
			return nil
		}

		return repo.SaveTask(ctx, &task)
	})
	if err != nil {
		return models.Task{}, err
	}

	log.WithFields(logrus.Fields{"task_id": id, "actor_id": actorID}).Info("task updated")
	return task, nil
}

// Delete removes a task; only the project creator may do so. The task also
// leaves the project's task list since that list is read from the tasks.
func (s *Service) Delete(ctx context.Context, actorID, id string) (models.Task, error) {
	const op = "tasks.Service.Delete"
	log := s.log.WithField("op", op)

	var task models.Task
	err := s.store.Transaction(ctx, func(repo store.Repository) error {
		var err error
		if task, err = loadTask(ctx, repo, id); err != nil {
			return err
		}
		project, err := repo.LockProject(ctx, task.ProjectID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperr.NotFound("Project not found")
			}
			return err
		}

		if !policy.Decide(actorID, policy.TaskResource(task, project), policy.ActionDelete).Allowed {
			return apperr.Forbidden("You are not authorized to delete this task")
		}

		return repo.DeleteTask(ctx, id)
	})
	if err != nil {
		return models.Task{}, err
	}

	log.WithFields(logrus.Fields{"task_id": id, "actor_id": actorID}).Info("task deleted")
	return task, nil
}

func (s *Service) validate(ctx context.Context, repo store.Repository, task models.Task, fields Fields, scope policy.FieldScope) error {
	if fields.Status != "" && scope.Allows(policy.FieldStatus) && !fields.Status.Valid() {
		return apperr.BadRequest("Invalid task status")
	}

	if fields.AssignedTo != "" && fields.AssignedTo != task.AssignedToID && scope.Allows(policy.FieldAssignee) {
		return requireParticipant(ctx, repo, task.ProjectID, fields.AssignedTo)
	}

	return nil
}

type fieldUpdate struct {
	field   policy.FieldScope
	present bool
	apply   func(*models.Task)
}

func (f Fields) updates() []fieldUpdate {
	return []fieldUpdate{
		{policy.FieldTitle, strings.TrimSpace(f.Title) != "", func(t *models.Task) { t.Title = strings.TrimSpace(f.Title) }},
		{policy.FieldDescription, strings.TrimSpace(f.Description) != "", func(t *models.Task) { t.Description = strings.TrimSpace(f.Description) }},
		{policy.FieldAssignee, f.AssignedTo != "", func(t *models.Task) { t.AssignedToID = f.AssignedTo }},
		{policy.FieldDueDate, f.DueDate != nil && !f.DueDate.IsZero(), func(t *models.Task) { t.DueDate = datatypes.Date(*f.DueDate) }},
		{policy.FieldStatus, f.Status != "", func(t *models.Task) { t.Status = f.Status }},
		{policy.FieldIsCompleted, f.IsCompleted != nil, func(t *models.Task) { t.IsCompleted = *f.IsCompleted }},
	}
}

// applyFields writes every present field allowed by scope and returns how
// many were written.
func applyFields(task *models.Task, fields Fields, scope policy.FieldScope) int {
	applied := 0
	for _, u := range fields.updates() {
		if !u.present || !scope.Allows(u.field) {
			continue
		}
		u.apply(task)
		applied++
	}
	return applied
}

func loadTask(ctx context.Context, repo store.Repository, id string) (models.Task, error) {
	task, err := repo.GetTask(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Task{}, apperr.NotFound("Task not found")
	}
	return task, err
}

func requireParticipant(ctx context.Context, repo store.Repository, projectID, userID string) error {
	if _, err := repo.GetUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("Assigned user not found")
		}
		return err
	}

	ok, err := repo.IsParticipant(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.BadRequest("Assigned user is not a participant of the project")
	}
	return nil
}
