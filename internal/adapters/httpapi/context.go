package httpapi

import (
	"context"

	"github.com/wayfarer-travel/wayfarer-api/internal/domain"
)

type subjectKey struct{}
type displayNameKey struct{}
type userIDKey struct{}

func WithSubject(ctx context.Context, subjectID string) context.Context {
	return context.WithValue(ctx, subjectKey{}, subjectID)
}

func SubjectFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(subjectKey{}).(string)
	return v, ok && v != ""
}

// WithDisplayName carries the token's name claim so first-contact user
// provisioning can pick it up.
func WithDisplayName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, displayNameKey{}, name)
}

func DisplayNameFromContext(ctx context.Context) string {
	v, _ := ctx.Value(displayNameKey{}).(string)
	return v
}

func WithUserID(ctx context.Context, id domain.UserID) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

func UserIDFromContext(ctx context.Context) (domain.UserID, bool) {
	v, ok := ctx.Value(userIDKey{}).(domain.UserID)
	return v, ok && v != ""
}
