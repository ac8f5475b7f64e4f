package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mosburritos/backend/pkg/config"
	pkgerrors "github.com/mosburritos/backend/pkg/errors"
)

// identityClient verifies external bearer tokens against the hosted identity
// provider over HTTP.
type identityClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewIdentityVerifier builds an HTTP-backed verifier, or nil when the
// provider is not configured.
func NewIdentityVerifier(cfg config.IdentityConfig) IdentityVerifier {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &identityClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type identityResponse struct {
	Subject   string `json:"sub"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (c *identityClient) Verify(ctx context.Context, token string) (*ExternalProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/verify", nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build identity request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "identity provider unreachable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "identity token rejected")
	default:
		return nil, pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("identity provider returned status %d", resp.StatusCode))
	}

	var body identityResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode identity response")
	}
	return &ExternalProfile{
		ExternalID: body.Subject,
		Email:      body.Email,
		Phone:      body.Phone,
		FirstName:  body.FirstName,
		LastName:   body.LastName,
	}, nil
}
