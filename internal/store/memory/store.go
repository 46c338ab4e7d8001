// Package memory is an in-process store adapter for tests and local runs.
// Transactions work on a copy of the data that is committed only when the
// callback succeeds.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/monocle-dev/projectboard/internal/models"
	"github.com/monocle-dev/projectboard/internal/store"
)

type state struct {
	users        []models.User
	projects     []models.Project
	participants []models.ProjectParticipant
	tasks        []models.Task
}

func (s state) clone() state {
	return state{
		users:        append([]models.User(nil), s.users...),
		projects:     append([]models.Project(nil), s.projects...),
		participants: append([]models.ProjectParticipant(nil), s.participants...),
		tasks:        append([]models.Task(nil), s.tasks...),
	}
}

type Store struct {
	mu    sync.Mutex
	state state
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) Transaction(ctx context.Context, fn func(repo store.Repository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(&repository{state: &work, now: s.now}); err != nil {
		return err
	}

	s.state = work
	return nil
}

type repository struct {
	state *state
	now   func() time.Time
}

func (r *repository) stamp(base *models.BaseModel) {
	now := r.now()
	if base.ID == "" {
		base.ID = uuid.NewString()
	}
	if base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	base.UpdatedAt = now
}

func (r *repository) CreateUser(_ context.Context, user *models.User) error {
	for _, u := range r.state.users {
		if u.Email == user.Email {
			return store.ErrDuplicateEmail
		}
	}
	r.stamp(&user.BaseModel)
	r.state.users = append(r.state.users, *user)
	return nil
}

func (r *repository) GetUser(_ context.Context, id string) (models.User, error) {
	for _, u := range r.state.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (r *repository) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	for _, u := range r.state.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (r *repository) CreateProject(_ context.Context, project *models.Project) error {
	r.stamp(&project.BaseModel)
	r.state.projects = append(r.state.projects, *project)
	return nil
}

func (r *repository) GetProject(_ context.Context, id string) (models.Project, error) {
	for _, p := range r.state.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Project{}, store.ErrNotFound
}

// LockProject is GetProject: the store mutex already serializes transactions.
func (r *repository) LockProject(ctx context.Context, id string) (models.Project, error) {
	return r.GetProject(ctx, id)
}

func (r *repository) ListProjects(_ context.Context) ([]models.Project, error) {
	return append([]models.Project{}, r.state.projects...), nil
}

func (r *repository) ListCreatedProjectIDs(_ context.Context, userID string) ([]string, error) {
	ids := []string{}
	for _, p := range r.state.projects {
		if p.CreatorID == userID {
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}

func (r *repository) SaveProject(_ context.Context, project *models.Project) error {
	for i, p := range r.state.projects {
		if p.ID == project.ID {
			r.stamp(&project.BaseModel)
			r.state.projects[i] = *project
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *repository) DeleteProject(_ context.Context, id string) error {
	for i, p := range r.state.projects {
		if p.ID == id {
			r.state.projects = append(r.state.projects[:i], r.state.projects[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *repository) AddParticipant(ctx context.Context, projectID, userID string) (bool, error) {
	exists, _ := r.IsParticipant(ctx, projectID, userID)
	if exists {
		return false, nil
	}
	r.state.participants = append(r.state.participants, models.ProjectParticipant{
		ProjectID: projectID,
		UserID:    userID,
		CreatedAt: r.now(),
	})
	return true, nil
}

func (r *repository) RemoveParticipant(_ context.Context, projectID, userID string) (bool, error) {
	for i, p := range r.state.participants {
		if p.ProjectID == projectID && p.UserID == userID {
			r.state.participants = append(r.state.participants[:i], r.state.participants[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *repository) IsParticipant(_ context.Context, projectID, userID string) (bool, error) {
	for _, p := range r.state.participants {
		if p.ProjectID == projectID && p.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *repository) ListParticipants(ctx context.Context, projectID string) ([]models.User, error) {
	users := []models.User{}
	for _, p := range r.state.participants {
		if p.ProjectID != projectID {
			continue
		}
		user, err := r.GetUser(ctx, p.UserID)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (r *repository) ListJoinedProjectIDs(_ context.Context, userID string) ([]string, error) {
	ids := []string{}
	for _, p := range r.state.participants {
		if p.UserID == userID {
			ids = append(ids, p.ProjectID)
		}
	}
	return ids, nil
}

func (r *repository) DeleteParticipantsByProject(_ context.Context, projectID string) error {
	kept := r.state.participants[:0]
	for _, p := range r.state.participants {
		if p.ProjectID != projectID {
			kept = append(kept, p)
		}
	}
	r.state.participants = kept
	return nil
}

func (r *repository) CreateTask(_ context.Context, task *models.Task) error {
	r.stamp(&task.BaseModel)
	r.state.tasks = append(r.state.tasks, *task)
	return nil
}

func (r *repository) GetTask(_ context.Context, id string) (models.Task, error) {
	for _, t := range r.state.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Task{}, store.ErrNotFound
}

func (r *repository) ListTasksByProject(_ context.Context, projectID string) ([]models.Task, error) {
	tasks := []models.Task{}
	for _, t := range r.state.tasks {
		if t.ProjectID == projectID {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func (r *repository) HasPendingTask(_ context.Context, projectID, userID string) (bool, error) {
	for _, t := range r.state.tasks {
		if t.ProjectID == projectID && t.AssignedToID == userID && !t.IsCompleted {
			return true, nil
		}
	}
	return false, nil
}

func (r *repository) SaveTask(_ context.Context, task *models.Task) error {
	for i, t := range r.state.tasks {
		if t.ID == task.ID {
			r.stamp(&task.BaseModel)
			r.state.tasks[i] = *task
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *repository) DeleteTask(_ context.Context, id string) error {
	for i, t := range r.state.tasks {
		if t.ID == id {
			r.state.tasks = append(r.state.tasks[:i], r.state.tasks[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *repository) DeleteTasksByProject(_ context.Context, projectID string) error {
	kept := r.state.tasks[:0]
	for _, t := range r.state.tasks {
		if t.ProjectID != projectID {
			kept = append(kept, t)
		}
	}
	r.state.tasks = kept
	return nil
}
