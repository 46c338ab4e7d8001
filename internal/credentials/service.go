// Package credentials holds user identities and verifies their passwords.
package credentials

import (
	"context"
	"errors"
	"strings"

	"github.com/monocle-dev/projectboard/internal/apperr"
	"github.com/monocle-dev/projectboard/internal/models"
	"github.com/monocle-dev/projectboard/internal/store"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 8

// Profile is a user together with the projects they take part in.
type Profile struct {
	User            models.User
	JoinedProjects  []string
	CreatedProjects []string
}

type Service struct {
	store store.Store
	log   *logrus.Entry
	cost  int
}

func NewService(st store.Store, log *logrus.Entry, cost int) *Service {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{store: st, log: log, cost: cost}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, name, email, password string) (models.User, error) {
	const op = "credentials.Service.Register"
	log := s.log.WithField("op", op)

	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	if name == "" || email == "" || password == "" {
		return models.User{}, apperr.BadRequest("Name, email and password are required")
	}
	if len(password) < MinPasswordLength {
		return models.User{}, apperr.BadRequest("Password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return models.User{}, apperr.Internal("Failed to hash password", err)
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}

	err = s.store.Transaction(ctx, func(repo store.Repository) error {
		if _, err := repo.GetUserByEmail(ctx, email); err == nil {
			return apperr.AlreadyExists("User already exists")
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if err := repo.CreateUser(ctx, &user); err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) {
				return apperr.AlreadyExists("User already exists")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return models.User{}, err
	}

	log.WithField("user_id", user.ID).Info("user registered")
	return user, nil
}

// VerifyPassword returns the user owning email if password matches. Unknown
// emails and wrong passwords are reported identically.
func (s *Service) VerifyPassword(ctx context.Context, email, password string) (models.User, error) {
	const op = "credentials.Service.VerifyPassword"
	log := s.log.WithField("op", op)

	var user models.User
	err := s.store.Transaction(ctx, func(repo store.Repository) error {
		var err error
		user, err = repo.GetUserByEmail(ctx, NormalizeEmail(email))
		if errors.Is(err, store.ErrNotFound) {
			return apperr.Unauthorized("Invalid credentials")
		}
		return err
	})
	if err != nil {
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.WithField("user_id", user.ID).Debug("password mismatch")
		return models.User{}, apperr.Unauthorized("Invalid credentials")
	}

	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := s.store.Transaction(ctx, func(repo store.Repository) error {
		var err error
		user, err = loadUser(ctx, repo, id)
		return err
	})
	return user, err
}

func (s *Service) Profile(ctx context.Context, id string) (Profile, error) {
	var profile Profile
	err := s.store.Transaction(ctx, func(repo store.Repository) error {
		user, err := loadUser(ctx, repo, id)
		if err != nil {
			return err
		}
		joined, err := repo.ListJoinedProjectIDs(ctx, id)
		if err != nil {
			return err
		}
		created, err := repo.ListCreatedProjectIDs(ctx, id)
		if err != nil {
			return err
		}
		profile = Profile{User: user, JoinedProjects: joined, CreatedProjects: created}
		return nil
	})
	return profile, err
}

func loadUser(ctx context.Context, repo store.Repository, id string) (models.User, error) {
	user, err := repo.GetUser(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, apperr.NotFound("User not found")
	}
	return user, err
}
