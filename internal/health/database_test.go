package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestCheckDatabase(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	if err := CheckDatabase(context.Background(), ok, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	refused := errors.New("connection refused")
	down := pingFunc(func(context.Context) error { return refused })
	if err := CheckDatabase(context.Background(), down, time.Second); !errors.Is(err, refused) {
		t.Fatalf("expected wrapped ping error, got %v", err)
	}
}

func TestCheckDatabaseTimesOut(t *testing.T) {
	hang := pingFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	err := CheckDatabase(context.Background(), hang, 10*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
