package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/mosburritos/backend/pkg/db/models"
)

// userStore is the slice of the users repository that auth flows need.
type userStore interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByExternalID(ctx context.Context, externalID string) (*models.User, error)
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	Update(ctx context.Context, userID uuid.UUID, updates map[string]any) error
}

// sessionManager handles refresh token issuance and rotation.
type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// IdentityVerifier resolves a bearer token from the hosted identity provider
// into a profile.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*ExternalProfile, error)
}
