package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/monocle-dev/projectboard/internal/models"
	"github.com/monocle-dev/projectboard/internal/store"
)

func TestTransactionRollsBackOnError(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Transaction(ctx, func(repo store.Repository) error {
		if err := repo.CreateUser(ctx, &models.User{Name: "Ann", Email: "ann@example.com"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}

	err = s.Transaction(ctx, func(repo store.Repository) error {
		_, err := repo.GetUserByEmail(ctx, "ann@example.com")
		return err
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected rolled back user to be absent, got %v", err)
	}
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	err := s.Transaction(ctx, func(repo store.Repository) error {
		first := &models.User{Name: "Ann", Email: "ann@example.com"}
		if err := repo.CreateUser(ctx, first); err != nil {
			return err
		}
		if first.ID == "" {
			t.Fatal("expected an id to be assigned")
		}
		return repo.CreateUser(ctx, &models.User{Name: "Other Ann", Email: "ann@example.com"})
	})
	if !errors.Is(err, store.ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email, got %v", err)
	}
}

func TestParticipantsAreIdempotentAndSymmetric(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	err := s.Transaction(ctx, func(repo store.Repository) error {
		user := &models.User{Name: "Bob", Email: "bob@example.com"}
		if err := repo.CreateUser(ctx, user); err != nil {
			return err
		}
		project := &models.Project{Name: "P", Description: "d", CreatorID: "someone"}
		if err := repo.CreateProject(ctx, project); err != nil {
			return err
		}

		added, err := repo.AddParticipant(ctx, project.ID, user.ID)
		if err != nil || !added {
			t.Fatalf("expected first add to insert, added=%v err=%v", added, err)
		}
		added, err = repo.AddParticipant(ctx, project.ID, user.ID)
		if err != nil || added {
			t.Fatalf("expected second add to be a no-op, added=%v err=%v", added, err)
		}

		participants, _ := repo.ListParticipants(ctx, project.ID)
		if len(participants) != 1 || participants[0].ID != user.ID {
			t.Fatalf("unexpected participants %+v", participants)
		}
		joined, _ := repo.ListJoinedProjectIDs(ctx, user.ID)
		if len(joined) != 1 || joined[0] != project.ID {
			t.Fatalf("unexpected joined projects %v", joined)
		}

		removed, _ := repo.RemoveParticipant(ctx, project.ID, user.ID)
		if !removed {
			t.Fatal("expected participant to be removed")
		}
		joined, _ = repo.ListJoinedProjectIDs(ctx, user.ID)
		if len(joined) != 0 {
			t.Fatalf("expected no joined projects, got %v", joined)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}

func TestTransactionHonoursCancelledContext(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.Transaction(ctx, func(store.Repository) error {
		called = true
		return nil
	})
	if !errors.Is(err, context.Canceled) || called {
		t.Fatalf("expected cancelled transaction to be skipped, err=%v called=%v", err, called)
	}
}
