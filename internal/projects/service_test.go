package projects

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/monocle-dev/projectboard/internal/apperr"
	"github.com/monocle-dev/projectboard/internal/models"
	"github.com/monocle-dev/projectboard/internal/store"
	"github.com/monocle-dev/projectboard/internal/store/memory"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

type fixture struct {
	svc   *Service
	store *memory.Store
}

func newFixture() fixture {
	log := logrus.New()
	log.SetOutput(io.Discard)
	st := memory.NewStore()
	return fixture{svc: NewService(st, logrus.NewEntry(log)), store: st}
}

func (f fixture) user(t *testing.T, name string) models.User {
	t.Helper()
	user := models.User{Name: name, Email: name + "@example.com", PasswordHash: "x"}
	err := f.store.Transaction(context.Background(), func(repo store.Repository) error {
		return repo.CreateUser(context.Background(), &user)
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func (f fixture) project(t *testing.T, creator models.User) models.Project {
	t.Helper()
	project, err := f.svc.Create(context.Background(), creator.ID, "Apollo", "Moon landing")
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return project
}

func (f fixture) joined(t *testing.T, userID string) []string {
	t.Helper()
	var ids []string
	err := f.store.Transaction(context.Background(), func(repo store.Repository) error {
		var err error
		ids, err = repo.ListJoinedProjectIDs(context.Background(), userID)
		return err
	})
	if err != nil {
		t.Fatalf("joined projects: %v", err)
	}
	return ids
}

func participantIDs(users []models.User) []string {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func TestCreateRequiresExistingActor(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), "ghost", "Apollo", "Moon landing")
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateStartsWithEmptyRoster(t *testing.T) {
	f := newFixture()
	alice := f.user(t, "alice")
	project := f.project(t, alice)

	if project.CreatorID != alice.ID {
		t.Fatalf("unexpected creator %s", project.CreatorID)
	}

	detail, err := f.svc.Get(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if detail.Creator.ID != alice.ID {
		t.Fatalf("creator not expanded: %+v", detail.Creator)
	}
	if len(detail.Participants) != 0 || len(detail.Tasks) != 0 {
		t.Fatalf("expected empty roster and tasks, got %+v", detail)
	}
}

func TestCreateValidatesFields(t *testing.T) {
	f := newFixture()
	alice := f.user(t, "alice")

	if _, err := f.svc.Create(context.Background(), alice.ID, "  ", "desc"); apperr.KindOf(err) != apperr.KindBadRequest {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestListIsNotFilteredByMembership(t *testing.T) {
	f := newFixture()
	f.project(t, f.user(t, "alice"))
	f.project(t, f.user(t, "bob"))

	projects, err := f.svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}
}

func TestGetMissingProject(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Get(context.Background(), "missing"); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateAndDeleteAreCreatorOnly(t *testing.T) {
	f := newFixture()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	project := f.project(t, alice)
	ctx := context.Background()

	if _, err := f.svc.Update(ctx, bob.ID, project.ID, Fields{Name: "Hijacked"}); apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden update, got %v", err)
	}
	if err := f.svc.Delete(ctx, bob.ID, project.ID); apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden delete, got %v", err)
	}

	updated, err := f.svc.Update(ctx, alice.ID, project.ID, Fields{Name: "Artemis"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Artemis" {
		t.Fatalf("name not updated: %s", updated.Name)
	}

	if err := f.svc.Delete(ctx, alice.ID, project.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.svc.Get(ctx, project.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected deleted project to be gone, got %v", err)
	}
}

func TestUpdateEmptyFieldsAreNoOps(t *testing.T) {
	f := newFixture()
	alice := f.user(t, "alice")
	project := f.project(t, alice)

	updated, err := f.svc.Update(context.Background(), alice.ID, project.ID, Fields{Name: "", Description: ""})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Apollo" || updated.Description != "Moon landing" {
		t.Fatalf("empty fields changed the project: %+v", updated)
	}
}

func TestUpdateMissingProject(t *testing.T) {
	f := newFixture()
	alice := f.user(t, "alice")

	if _, err := f.svc.Update(context.Background(), alice.ID, "missing", Fields{Name: "x"}); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddParticipantIsIdempotentAndSymmetric(t *testing.T) {
	f := newFixture()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	project := f.project(t, alice)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		detail, err := f.svc.AddParticipant(ctx, alice.ID, project.ID, bob.ID)
		if err != nil {
			t.Fatalf("add participant (call %d): %v", i+1, err)
		}
		if ids := participantIDs(detail.Participants); len(ids) != 1 || ids[0] != bob.ID {
			t.Fatalf("unexpected participants after call %d: %v", i+1, ids)
		}
	}

	if joined := f.joined(t, bob.ID); len(joined) != 1 || joined[0] != project.ID {
		t.Fatalf("joined projects out of sync: %v", joined)
	}
}

func TestAddParticipantPreconditions(t *testing.T) {
	f := newFixture()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	project := f.project(t, alice)
	ctx := context.Background()

	tests := []struct {
		name    string
		actor   string
		project string
		user    string
		kind    apperr.Kind
	}{
		{name: "missing user id", actor: alice.ID, project: project.ID, user: "", kind: apperr.KindBadRequest},
		{name: "missing project", actor: alice.ID, project: "missing", user: bob.ID, kind: apperr.KindNotFound},
		{name: "missing user", actor: alice.ID, project: project.ID, user: "ghost", kind: apperr.KindNotFound},
		{name: "not creator", actor: bob.ID, project: project.ID, user: bob.ID, kind: apperr.KindForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.AddParticipant(ctx, tt.actor, tt.project, tt.user)
			if apperr.KindOf(err) != tt.kind {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
		})
	}

	if joined := f.joined(t, bob.ID); len(joined) != 0 {
		t.Fatalf("rejected calls changed membership: %v", joined)
	}
}

func TestRemoveParticipant(t *testing.T) {
	f := newFixture()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	carol := f.user(t, "carol")
	project := f.project(t, alice)
	ctx := context.Background()

	if _, err := f.svc.AddParticipant(ctx, alice.ID, project.ID, bob.ID); err != nil {
		t.Fatalf("add bob: %v", err)
	}
	if _, err := f.svc.AddParticipant(ctx, alice.ID, project.ID, carol.ID); err != nil {
		t.Fatalf("add carol: %v", err)
	}

	if _, err := f.svc.RemoveParticipant(ctx, bob.ID, project.ID, carol.ID); apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := f.svc.RemoveParticipant(ctx, alice.ID, project.ID, ""); apperr.KindOf(err) != apperr.KindBadRequest {
		t.Fatalf("expected bad request, got %v", err)
	}

	detail, err := f.svc.RemoveParticipant(ctx, alice.ID, project.ID, bob.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	ids := participantIDs(detail.Participants)
	if contains(ids, bob.ID) || !contains(ids, carol.ID) {
		t.Fatalf("unexpected participants %v", ids)
	}
	if joined := f.joined(t, bob.ID); contains(joined, project.ID) {
		t.Fatalf("bob still lists project as joined: %v", joined)
	}

	// Removing again is not an error.
	if _, err := f.svc.RemoveParticipant(ctx, alice.ID, project.ID, bob.ID); err != nil {
		t.Fatalf("second remove: %v", err)
	}
}

func TestDeleteCascadesToTasksAndRoster(t *testing.T) {
	f := newFixture()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	project := f.project(t, alice)
	ctx := context.Background()

	if _, err := f.svc.AddParticipant(ctx, alice.ID, project.ID, bob.ID); err != nil {
		t.Fatalf("add participant: %v", err)
	}
	err := f.store.Transaction(ctx, func(repo store.Repository) error {
		return repo.CreateTask(ctx, &models.Task{
			ProjectID:    project.ID,
			Title:        "t",
			Description:  "d",
			Status:       models.TaskStatusToDo,
			AssignedToID: bob.ID,
			DueDate:      datatypes.Date(time.Now()),
		})
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if err := f.svc.Delete(ctx, alice.ID, project.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if joined := f.joined(t, bob.ID); len(joined) != 0 {
		t.Fatalf("roster survived delete: %v", joined)
	}
	err = f.store.Transaction(ctx, func(repo store.Repository) error {
		tasks, err := repo.ListTasksByProject(ctx, project.ID)
		if err != nil {
			return err
		}
		if len(tasks) != 0 {
			t.Fatalf("tasks survived delete: %d", len(tasks))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
}
