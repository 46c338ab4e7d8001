package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/monocle-dev/projectboard/internal/apperr"
	"github.com/monocle-dev/projectboard/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"gorm.io/gorm"
)

type Store struct {
	db      *gorm.DB
	breaker *gobreaker.CircuitBreaker
	log     *logrus.Entry
}

func NewStore(db *gorm.DB, log *logrus.Entry) *Store {
	s := &Store{db: db, log: log}

	s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "postgres",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		IsSuccessful: isSuccessful,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state changed")
		},
	})

	return s
}

// isSuccessful reports whether err leaves the datastore healthy. Misses,
// duplicates and rejections decided by the services are outcomes, not
// failures.
func isSuccessful(err error) bool {
	switch {
	case err == nil, apperr.IsDomain(err):
		return true
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrDuplicateEmail):
		return true
	case errors.Is(err, context.Canceled):
		return true
	}
	return false
}

func (s *Store) Transaction(ctx context.Context, fn func(repo store.Repository) error) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&Repository{db: tx})
		})
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return apperr.Internal("Datastore unavailable", err)
	}

	return err
}
