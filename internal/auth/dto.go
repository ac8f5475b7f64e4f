package auth

import "github.com/mosburritos/backend/pkg/db/models"

// RegisterInput carries a password signup request.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     *string
}

// LoginInput carries a password login request.
type LoginInput struct {
	Email    string
	Password string
}

// TokenPair bundles the minted access JWT and its refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResult is returned by register/login flows.
type AuthResult struct {
	User   *models.User `json:"user"`
	Tokens TokenPair    `json:"tokens"`
}

// ExternalProfile is the identity provider's view of a user.
type ExternalProfile struct {
	ExternalID string
	Email      string
	Phone      string
	FirstName  string
	LastName   string
}
