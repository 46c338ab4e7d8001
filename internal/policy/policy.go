// Package policy decides whether an actor may perform an action on a project
// or task. Decisions depend only on their arguments.
package policy

import "github.com/monocle-dev/projectboard/internal/models"

type Action string

const (
	ActionCreate            Action = "create"
	ActionRead              Action = "read"
	ActionUpdate            Action = "update"
	ActionDelete            Action = "delete"
	ActionAddParticipant    Action = "add_participant"
	ActionRemoveParticipant Action = "remove_participant"
)

type ResourceKind int

const (
	ResourceProject ResourceKind = iota + 1
	ResourceTask
)

// Resource is the part of an entity that decisions look at. For tasks,
// CreatorID is the creator of the owning project.
type Resource struct {
	Kind       ResourceKind
	CreatorID  string
	AssigneeID string
}

func ProjectResource(project models.Project) Resource {
	return Resource{Kind: ResourceProject, CreatorID: project.CreatorID}
}

func TaskResource(task models.Task, project models.Project) Resource {
	return Resource{Kind: ResourceTask, CreatorID: project.CreatorID, AssigneeID: task.AssignedToID}
}

// FieldScope is the set of task fields an actor may modify.
type FieldScope uint8

const (
	FieldTitle FieldScope = 1 << iota
	FieldDescription
	FieldAssignee
	FieldDueDate
	FieldStatus
	FieldIsCompleted
)

const (
	ScopeNone     FieldScope = 0
	ScopeAssignee            = FieldStatus | FieldIsCompleted
	ScopeFull                = FieldTitle | FieldDescription | FieldAssignee | FieldDueDate | FieldStatus | FieldIsCompleted
)

func (s FieldScope) Allows(field FieldScope) bool {
	return s&field == field
}

type Decision struct {
	Allowed bool
	Scope   FieldScope
}

var deny = Decision{}

func allow(scope FieldScope) Decision {
	return Decision{Allowed: true, Scope: scope}
}

// Decide evaluates action on resource for actorID. An empty actorID is never
// allowed anything.
func Decide(actorID string, resource Resource, action Action) Decision {
	if actorID == "" {
		return deny
	}

	switch action {
	case ActionCreate, ActionRead:
		return allow(ScopeNone)
	}

	isCreator := resource.CreatorID != "" && actorID == resource.CreatorID

	switch resource.Kind {
	case ResourceProject:
		switch action {
		case ActionUpdate, ActionDelete, ActionAddParticipant, ActionRemoveParticipant:
			if isCreator {
				return allow(ScopeFull)
			}
		}
	case ResourceTask:
		switch action {
		case ActionDelete:
			if isCreator {
				return allow(ScopeFull)
			}
		case ActionUpdate:
			if isCreator {
				return allow(ScopeFull)
			}
			if resource.AssigneeID != "" && actorID == resource.AssigneeID {
				return allow(ScopeAssignee)
			}
		}
	}

	return deny
}
