package userrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/wayfarer-travel/wayfarer-api/internal/adapters/postgres"
	"github.com/wayfarer-travel/wayfarer-api/internal/domain"
	"github.com/wayfarer-travel/wayfarer-api/internal/ports/out/userrepo"
)

// Repo is a Postgres implementation of userrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, u domain.User) error {
	id, err := uuid.Parse(string(u.ID))
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO users (id, subject, display_name, created_at)
		VALUES ($1, $2, $3, $4)
	`, id, string(u.Subject), u.DisplayName, u.CreatedAt)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			if pe.ConstraintName == "users_subject_unique" {
				return userrepo.ErrSubjectAlreadyBound
			}
			return userrepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.UserID) (domain.User, error) {
	userUUID, err := uuid.Parse(string(id))
	if err != nil {
		return domain.User{}, userrepo.ErrNotFound
	}
	return r.scanOne(ctx, `
		SELECT id, subject, display_name, created_at FROM users WHERE id = $1
	`, userUUID)
}

func (r *Repo) GetBySubject(ctx context.Context, subject domain.SubjectID) (domain.User, error) {
	return r.scanOne(ctx, `
		SELECT id, subject, display_name, created_at FROM users WHERE subject = $1
	`, string(subject))
}

func (r *Repo) scanOne(ctx context.Context, query string, arg any) (domain.User, error) {
	var (
		id          uuid.UUID
		subject     string
		displayName string
		createdAt   time.Time
	)
	err := r.pool.QueryRow(ctx, query, arg).Scan(&id, &subject, &displayName, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, userrepo.ErrNotFound
		}
		return domain.User{}, err
	}
	return domain.User{
		ID:          domain.UserID(id.String()),
		Subject:     domain.SubjectID(subject),
		DisplayName: displayName,
		CreatedAt:   createdAt.UTC(),
	}, nil
}
