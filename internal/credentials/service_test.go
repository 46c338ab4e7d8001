package credentials

import (
	"context"
	"io"
	"testing"

	"github.com/monocle-dev/projectboard/internal/apperr"
	"github.com/monocle-dev/projectboard/internal/store/memory"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

func newTestService() *Service {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewService(memory.NewStore(), logrus.NewEntry(log), bcrypt.MinCost)
}

func TestRegisterNormalizesEmailAndHashesPassword(t *testing.T) {
	svc := newTestService()

	user, err := svc.Register(context.Background(), " Ann ", "  Ann@Example.COM ", "password123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "ann@example.com" || user.Name != "Ann" {
		t.Fatalf("unexpected user %+v", user)
	}
	if user.PasswordHash == "password123" || user.PasswordHash == "" {
		t.Fatal("password was not hashed")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Ann", "ann@example.com", "password123"); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Register(ctx, "Ann Again", "ANN@example.com", "password456")
	if apperr.KindOf(err) != apperr.KindAlreadyExists {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	cases := []struct{ name, email, password string }{
		{"", "a@example.com", "password123"},
		{"Ann", "", "password123"},
		{"Ann", "a@example.com", ""},
		{"Ann", "a@example.com", "short"},
	}
	for _, c := range cases {
		if _, err := svc.Register(ctx, c.name, c.email, c.password); apperr.KindOf(err) != apperr.KindBadRequest {
			t.Errorf("register(%q, %q, %q): expected bad request, got %v", c.name, c.email, c.password, err)
		}
	}
}

func TestVerifyPassword(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, "Ann", "ann@example.com", "password123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := svc.VerifyPassword(ctx, "ANN@example.com", "password123")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("verified wrong user %s", user.ID)
	}

	if _, err := svc.VerifyPassword(ctx, "ann@example.com", "wrong-password"); apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized for wrong password, got %v", err)
	}
	if _, err := svc.VerifyPassword(ctx, "nobody@example.com", "password123"); apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized for unknown email, got %v", err)
	}
}

func TestGetUserNotFound(t *testing.T) {
	svc := newTestService()

	if _, err := svc.GetUser(context.Background(), "missing"); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.Profile(context.Background(), "missing"); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
