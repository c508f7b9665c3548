package auth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
)

// GoogleIssuer is Google's OpenID Connect issuer. The verifier fetches
// Google's signing keys from the discovery document it publishes there.
const GoogleIssuer = "https://accounts.google.com"

// Identity is the subset of a verified ID-token payload the backend cares
// about. Google returns far more claims — we only extract what maps onto a
// local user record.
type Identity struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// TokenVerifier verifies an externally issued identity assertion and
// extracts the identity it vouches for. It is an interface so the service
// tests can substitute a fake without talking to Google.
type TokenVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*Identity, error)
}

// GoogleVerifier verifies Google-issued ID tokens using the go-oidc
// IDTokenVerifier: signature against Google's published keys, audience
// against our OAuth client ID, expiry against the clock.
//
// The client sends us the ID token it obtained from Google's sign-in
// widget; there is no authorization-code exchange on the server side.
type GoogleVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewGoogleVerifier creates a GoogleVerifier for the given OAuth client ID.
//
// Construction performs OIDC discovery against Google's issuer, so it needs
// network access and a context. Callers that have no client ID configured
// must not construct one at all — the service treats a nil TokenVerifier as
// "federation unconfigured" and fails with a configuration error instead of
// crashing.
func NewGoogleVerifier(ctx context.Context, clientID string) (*GoogleVerifier, error) {
	if clientID == "" {
		return nil, fmt.Errorf("auth: Google client ID must not be empty")
	}

	provider, err := oidc.NewProvider(ctx, GoogleIssuer)
	if err != nil {
		return nil, fmt.Errorf("auth: discovering Google OIDC provider: %w", err)
	}

	return &GoogleVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// Verify checks the assertion's signature and audience and extracts the
// identity claims. Any verification failure is returned as-is; the service
// layer translates it into an authentication failure for the client.
func (g *GoogleVerifier) Verify(ctx context.Context, rawIDToken string) (*Identity, error) {
	idToken, err := g.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("auth: verifying Google ID token: %w", err)
	}

	var id Identity
	if err := idToken.Claims(&id); err != nil {
		return nil, fmt.Errorf("auth: parsing Google ID token claims: %w", err)
	}
	if id.Email == "" {
		return nil, fmt.Errorf("auth: Google ID token carries no email claim")
	}

	return &id, nil
}
