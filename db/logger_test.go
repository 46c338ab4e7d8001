package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"gorm.io/gorm"
)

func TestLoggerSkipsRecordNotFound(t *testing.T) {
	base, hook := test.NewNullLogger()
	gl := NewLogger(logrus.NewEntry(base))

	sql := func() (string, int64) { return `SELECT * FROM "users" WHERE email = 'x'`, 0 }
	gl.Trace(context.Background(), time.Now(), sql, gorm.ErrRecordNotFound)

	if n := len(hook.AllEntries()); n != 0 {
		t.Fatalf("expected record-not-found to be ignored, got %d entries", n)
	}
}

func TestLoggerWritesFailuresThroughLogrus(t *testing.T) {
	base, hook := test.NewNullLogger()
	gl := NewLogger(logrus.NewEntry(base))

	sql := func() (string, int64) { return `SELECT 1`, 0 }
	gl.Trace(context.Background(), time.Now(), sql, errors.New("connection reset by peer"))

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("expected the failure to be logged")
	}
	if entry.Level != logrus.WarnLevel || entry.Data["component"] != "gorm" {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestLoggerReportsSlowQueries(t *testing.T) {
	base, hook := test.NewNullLogger()
	gl := NewLogger(logrus.NewEntry(base))

	sql := func() (string, int64) { return `SELECT pg_sleep(1)`, 1 }
	gl.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)

	if hook.LastEntry() == nil {
		t.Fatal("expected slow query to be logged")
	}
}
