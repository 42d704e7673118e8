package auth

import (
	"context"
	"fmt"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
)

// OIDCVerifier accepts bearer tokens that are ID tokens signed by the
// configured issuer for the configured client.
type OIDCVerifier struct {
	verifier *gooidc.IDTokenVerifier
}

// NewOIDCVerifier performs OIDC discovery against issuer.
func NewOIDCVerifier(ctx context.Context, issuer, clientID string) (*OIDCVerifier, error) {
	provider, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("OIDC provider discovery failed for %s: %w", issuer, err)
	}
	return &OIDCVerifier{
		verifier: provider.Verifier(&gooidc.Config{ClientID: clientID}),
	}, nil
}

// Verify checks the token signature, issuer, audience and expiry and returns
// the token subject.
func (v *OIDCVerifier) Verify(ctx context.Context, rawIDToken string) (string, error) {
	idToken, err := v.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return idToken.Subject, nil
}
