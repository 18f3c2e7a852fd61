package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/wayfarer-travel/wayfarer-api/internal/app/apperr"
	"github.com/wayfarer-travel/wayfarer-api/internal/domain"
	"github.com/wayfarer-travel/wayfarer-api/internal/ports/out/clock"
	"github.com/wayfarer-travel/wayfarer-api/internal/ports/out/userrepo"
)

type Service struct {
	users userrepo.Repository
	clk   clock.Clock

	newUserID func() domain.UserID
}

func NewService(usersRepo userrepo.Repository, clk clock.Clock) *Service {
	return &Service{
		users: usersRepo,
		clk:   clk,
		newUserID: func() domain.UserID {
			return domain.UserID(uuid.NewString())
		},
	}
}

// SetNewUserIDForTest overrides user ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewUserIDForTest(fn func() domain.UserID) {
	if fn != nil {
		s.newUserID = fn
	}
}

// GetOrCreateBySubject resolves the local user bound to an authenticated
// token subject, provisioning one on first sight. A concurrent first request
// for the same subject may win the insert; that case falls back to a lookup.
func (s *Service) GetOrCreateBySubject(ctx context.Context, subject domain.SubjectID, displayName string) (domain.User, error) {
	if subject == "" {
		return domain.User{}, &apperr.Error{Status: 401, Code: "UNAUTHENTICATED", Message: "missing token subject"}
	}

	u, err := s.users.GetBySubject(ctx, subject)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, userrepo.ErrNotFound) {
		return domain.User{}, fmt.Errorf("get user by subject: %w", err)
	}

	u = domain.User{
		ID:          s.newUserID(),
		Subject:     subject,
		DisplayName: domain.NormalizeName(displayName),
		CreatedAt:   s.clk.Now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrSubjectAlreadyBound) {
			return s.users.GetBySubject(ctx, subject)
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id domain.UserID) (domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.User{}, apperr.NotFound("USER_NOT_FOUND", "user not found")
		}
		return domain.User{}, err
	}
	return u, nil
}
