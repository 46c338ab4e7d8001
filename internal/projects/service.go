// Package projects owns projects and their participant rosters.
package projects

import (
	"context"
	"errors"
	"strings"

	"github.com/monocle-dev/projectboard/internal/apperr"
	"github.com/monocle-dev/projectboard/internal/models"
	"github.com/monocle-dev/projectboard/internal/policy"
	"github.com/monocle-dev/projectboard/internal/store"
	"github.com/sirupsen/logrus"
)

// Fields carries a partial update. Empty values leave the stored value as is.
type Fields struct {
	Name        string
	Description string
}

// Detail is a project with its creator, participants and tasks resolved.
type Detail struct {
	Project      models.Project
	Creator      models.User
	Participants []models.User
	Tasks        []models.Task
}

type Service struct {
	store store.Store
	log   *logrus.Entry
}

func NewService(st store.Store, log *logrus.Entry) *Service {
	return &Service{store: st, log: log}
}

func (s *Service) Create(ctx context.Context, actorID, name, description string) (models.Project, error) {
	const op = "projects.Service.Create"
	log := s.log.WithField("op", op)

	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" || description == "" {
		return models.Project{}, apperr.BadRequest("Name and description are required")
	}

	project := models.Project{
		Name:        name,
		Description: description,
		CreatorID:   actorID,
	}

	err := s.store.Transaction(ctx, func(repo store.Repository) error {
		if _, err := repo.GetUser(ctx, actorID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperr.NotFound("Creator not found")
			}
			return err
		}
		return repo.CreateProject(ctx, &project)
	})
	if err != nil {
		return models.Project{}, err
	}

	log.WithFields(logrus.Fields{"project_id": project.ID, "actor_id": actorID}).Info("project created")
	return project, nil
}

// List returns every project. Listing is not restricted by membership.
func (s *Service) List(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	err := s.store.Transaction(ctx, func(repo store.Repository) error {
		var err error
		projects, err = repo.ListProjects(ctx)
		return err
	})
	return projects, err
}

func (s *Service) Get(ctx context.Context, id string) (Detail, error) {
	var detail Detail
	err := s.store.Transaction(ctx, func(repo store.Repository) error {
		project, err := loadProject(ctx, repo, id, false)
		if err != nil {
			return err
		}

		creator, err := repo.GetUser(ctx, project.CreatorID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		participants, err := repo.ListParticipants(ctx, id)
		if err != nil {
			return err
		}
		tasks, err := repo.ListTasksByProject(ctx, id)
		if err != nil {
			return err
		}

		detail = Detail{
			Project:      project,
			Creator:      creator,
			Participants: participants,
			Tasks:        tasks,
		}
		return nil
	})
	return detail, err
}

func (s *Service) Update(ctx context.Context, actorID, id string, fields Fields) (models.Project, error) {
	const op = "projects.Service.Update"
	log := s.log.WithField("op", op)

	var project models.Project
	err := s.store.Transaction(ctx, func(repo store.Repository) error {
		var err error
		if project, err = loadProject(ctx, repo, id, true); err != nil {
			return err
		}
		if !policy.Decide(actorID, policy.ProjectResource(project), policy.ActionUpdate).Allowed {
			return apperr.Forbidden("You are not authorized to update this project")
		}

		if name := strings.TrimSpace(fields.Name); name != "" {
			project.Name = name
		}
		if description := strings.TrimSpace(fields.Description); description != "" {
			project.Description = description
		}

		return repo.SaveProject(ctx, &project)
	})
	if err != nil {
		return models.Project{}, err
	}

	log.WithFields(logrus.Fields{"project_id": id, "actor_id": actorID}).Info("project updated")
	return project, nil
}

// Delete removes the project together with its tasks and participant rows.
func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	const op = "projects.Service.Delete"
	log := s.log.WithField("op", op)

	err := s.store.Transaction(ctx, func(repo store.Repository) error {
		project, err := loadProject(ctx, repo, id, true)
		if err != nil {
			return err
		}
		if !policy.Decide(actorID, policy.ProjectResource(project), policy.ActionDelete).Allowed {
			return apperr.Forbidden("You are not authorized to delete this project")
		}

		if err := repo.DeleteTasksByProject(ctx, id); err != nil {
			return err
		}
		if err := repo.DeleteParticipantsByProject(ctx, id); err != nil {
			return err
		}
		return repo.DeleteProject(ctx, id)
	})
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{"project_id": id, "actor_id": actorID}).Info("project deleted")
	return nil
}

// AddParticipant adds userID to the roster. Adding an existing participant
// succeeds without change.
func (s *Service) AddParticipant(ctx context.Context, actorID, id, userID string) (Detail, error) {
	const op = "projects.Service.AddParticipant"
	log := s.log.WithField("op", op)

	if strings.TrimSpace(userID) == "" {
		return Detail{}, apperr.BadRequest("Missing userId. Must provide a single user ID.")
	}

	var added bool
	err := s.store.Transaction(ctx, func(repo store.Repository) error {
		project, err := loadProject(ctx, repo, id, true)
		if err != nil {
			return err
		}
		if !policy.Decide(actorID, policy.ProjectResource(project), policy.ActionAddParticipant).Allowed {
			return apperr.Forbidden("You are not authorized to add participants to this project")
		}
		if err := requireUser(ctx, repo, userID); err != nil {
			return err
		}

		added, err = repo.AddParticipant(ctx, id, userID)
		return err
	})
	if err != nil {
		return Detail{}, err
	}

	log.WithFields(logrus.Fields{"project_id": id, "user_id": userID, "added": added}).Info("participant added")
	return s.Get(ctx, id)
}

// RemoveParticipant drops userID from the roster. Removing a user who is not
// a participant succeeds without change. Tasks assigned to the user are kept.
func (s *Service) RemoveParticipant(ctx context.Context, actorID, id, userID string) (Detail, error) {
	const op = "projects.Service.RemoveParticipant"
	log := s.log.WithField("op", op)

	if strings.TrimSpace(userID) == "" {
		return Detail{}, apperr.BadRequest("Missing userId. Must provide a single user ID.")
	}

	var removed bool
	err := s.store.Transaction(ctx, func(repo store.Repository) error {
		project, err := loadProject(ctx, repo, id, true)
		if err != nil {
			return err
		}
		if !policy.Decide(actorID, policy.ProjectResource(project), policy.ActionRemoveParticipant).Allowed {
			return apperr.Forbidden("You are not authorized to remove participants from this project")
		}
		if err := requireUser(ctx, repo, userID); err != nil {
			return err
		}

		removed, err = repo.RemoveParticipant(ctx, id, userID)
		return err
	})
	if err != nil {
		return Detail{}, err
	}

	log.WithFields(logrus.Fields{"project_id": id, "user_id": userID, "removed": removed}).Info("participant removed")
	return s.Get(ctx, id)
}

func loadProject(ctx context.Context, repo store.Repository, id string, lock bool) (models.Project, error) {
	var (
		project models.Project
		err     error
	)
	if lock {
		project, err = repo.LockProject(ctx, id)
	} else {
		project, err = repo.GetProject(ctx, id)
	}
	if errors.Is(err, store.ErrNotFound) {
		return models.Project{}, apperr.NotFound("Project not found")
	}
	return project, err
}

func requireUser(ctx context.Context, repo store.Repository, userID string) error {
	_, err := repo.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("User with ID " + userID + " not found")
	}
	return err
}
