package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("loading project: %w", NotFound("Project not found"))

	if got := KindOf(err); got != KindNotFound {
		t.Fatalf("expected not_found, got %s", got)
	}
	if got := MessageOf(err); got != "Project not found" {
		t.Fatalf("unexpected message %q", got)
	}
	if !IsDomain(err) {
		t.Fatal("expected domain error")
	}
}

func TestUnknownErrorIsInternal(t *testing.T) {
	err := errors.New("connection refused")

	if got := KindOf(err); got != KindInternal {
		t.Fatalf("expected internal, got %s", got)
	}
	if got := MessageOf(err); got != "Internal server error" {
		t.Fatalf("internal detail leaked: %q", got)
	}
	if IsDomain(err) || IsDomain(nil) {
		t.Fatal("expected non-domain error")
	}
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("pq: relation does not exist")
	err := Internal("Failed to create task", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be preserved for logging")
	}
	if got := MessageOf(err); got != "Internal server error" {
		t.Fatalf("internal detail leaked: %q", got)
	}
}
