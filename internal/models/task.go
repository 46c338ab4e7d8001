package models

import "gorm.io/datatypes"

type TaskStatus string

const (
	TaskStatusToDo       TaskStatus = "To Do"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
	TaskStatusBlocked    TaskStatus = "Blocked"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusToDo, TaskStatusInProgress, TaskStatusCompleted, TaskStatusBlocked:
		return true
	}
	return false
}

type Task struct {
	BaseModel

	ProjectID    string         `gorm:"type:uuid;not null;index:idx_task_project_assignee"`
	Title        string         `gorm:"not null"`
	Description  string         `gorm:"not null"`
	Status       TaskStatus     `gorm:"not null;default:'To Do'"`
	IsCompleted  bool           `gorm:"not null;default:false"`
	AssignedToID string         `gorm:"type:uuid;not null;index:idx_task_project_assignee"`
	DueDate      datatypes.Date `gorm:"not null"`

	// Relationships
	Project    Project `gorm:"foreignKey:ProjectID"`
	AssignedTo User    `gorm:"foreignKey:AssignedToID"`
}
