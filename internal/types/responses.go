package types

import (
	"time"

	"github.com/monocle-dev/projectboard/internal/models"
)

const DateLayout = "2006-01-02"

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ProfileResponse struct {
	UserResponse
	JoinedProjects  []string `json:"joinedProjects"`
	CreatedProjects []string `json:"createdProjects"`
}

type ProjectResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Creator     string    `json:"creator"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ProjectDetailResponse struct {
	ProjectResponse
	Creator      UserResponse   `json:"creator"`
	Participants []UserResponse `json:"participants"`
	Tasks        []TaskResponse `json:"tasks"`
}

type TaskResponse struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	IsCompleted bool      `json:"isCompleted"`
	AssignedTo  string    `json:"assignedTo"`
	DueDate     string    `json:"dueDate"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type TaskDetailResponse struct {
	TaskResponse
	AssignedTo UserResponse    `json:"assignedTo"`
	Project    ProjectResponse `json:"project"`
}

func NewUserResponse(u models.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

func NewUserResponses(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}

func NewProfileResponse(u models.User, joined, created []string) ProfileResponse {
	if joined == nil {
		joined = []string{}
	}
	if created == nil {
		created = []string{}
	}
	return ProfileResponse{UserResponse: NewUserResponse(u), JoinedProjects: joined, CreatedProjects: created}
}

func NewProjectResponse(p models.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Creator:     p.CreatorID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func NewProjectResponses(projects []models.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, NewProjectResponse(p))
	}
	return out
}

func NewProjectDetailResponse(p models.Project, creator models.User, participants []models.User, tasks []models.Task) ProjectDetailResponse {
	return ProjectDetailResponse{
		ProjectResponse: NewProjectResponse(p),
		Creator:         NewUserResponse(creator),
		Participants:    NewUserResponses(participants),
		Tasks:           NewTaskResponses(tasks),
	}
}

func NewTaskResponse(t models.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		IsCompleted: t.IsCompleted,
		AssignedTo:  t.AssignedToID,
		DueDate:     time.Time(t.DueDate).Format(DateLayout),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func NewTaskResponses(tasks []models.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, NewTaskResponse(t))
	}
	return out
}

func NewTaskDetailResponse(t models.Task, assignee models.User, project models.Project) TaskDetailResponse {
	return TaskDetailResponse{
		TaskResponse: NewTaskResponse(t),
		AssignedTo:   NewUserResponse(assignee),
		Project:      NewProjectResponse(project),
	}
}
