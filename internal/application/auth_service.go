package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/alterlapsus/auth-api/internal/domain/entity"
	"github.com/alterlapsus/auth-api/internal/domain/repository"
	"github.com/alterlapsus/auth-api/pkg/helpers"
	"github.com/alterlapsus/auth-api/pkg/mailer"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnknownRole        = errors.New("role does not exist")
)

// Service runs the registration and authentication pipelines. Inputs are
// assumed validated and normalized by the HTTP layer; everything here is
// duplicate checking, role resolution, hashing and persistence.
type Service struct {
	Users   repository.UserRepository
	Roles   repository.RoleRepository
	Logger  *logrus.Logger
	Pub     *helpers.RabbitPublisher
	AppName string

	// MailEnabled gates the best-effort welcome email after signup.
	MailEnabled bool
}

func NewService(users repository.UserRepository, roles repository.RoleRepository, logger *logrus.Logger) *Service {
	return &Service{Users: users, Roles: roles, Logger: logger}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Roles    []string
}

// Register walks the signup pipeline: duplicate pre-check, role resolution,
// hashing, then transactional persistence. The pre-check is a fast path
// only; a concurrent signup racing past it still fails on the storage
// unique constraint and surfaces as the same duplicate error.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if err := s.Users.FindDuplicate(ctx, in.Username, in.Email); err != nil {
		return nil, err
	}

	roles, err := s.resolveRoles(ctx, in.Roles)
	if err != nil {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		// Never fall back to storing plaintext.
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &entity.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
	}
	roleIDs := make([]int64, 0, len(roles))
	for _, r := range roles {
		roleIDs = append(roleIDs, r.ID)
	}
	if err := s.Users.Create(ctx, u, roleIDs); err != nil {
		return nil, err
	}
	u.Roles = roles

	s.sendWelcome(ctx, u)
	return u, nil
}

// Authenticate looks the user up and verifies the password. Unknown
// username and wrong password collapse into one generic failure so the
// response never reveals whether the account exists.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	u, err := s.Users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// resolveRoles maps requested role names onto the canonical set. An empty
// request defaults to USER; any unknown name rejects the whole set.
func (s *Service) resolveRoles(ctx context.Context, names []string) ([]entity.Role, error) {
	if len(names) == 0 {
		names = []string{entity.RoleUser}
	}
	names = dedupe(names)

	roles, err := s.Roles.GetByNames(ctx, names)
	if err != nil {
		return nil, err
	}
	if len(roles) != len(names) {
		return nil, ErrUnknownRole
	}
	return roles, nil
}

// sendWelcome enqueues the post-registration email. Best effort: a broker
// outage must not fail or slow a completed registration.
func (s *Service) sendWelcome(ctx context.Context, u *entity.User) {
	if !s.MailEnabled || s.Pub == nil {
		return
	}
	job := mailer.NewWelcomeJob(s.AppName, u.Email, u.Username)
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("username", u.Username).Warn("welcome email enqueue failed")
	}
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := names[:0]
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
