package sessions

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pkg/errors"

	apperrors "github.com/jrsteele09/go-course-client/internal/errors"
)

const googleIssuer = "https://accounts.google.com"

// IDTokenVerifier checks an external identity token before it is exchanged with the backend.
type IDTokenVerifier interface {
	Verify(ctx context.Context, rawIDToken string) error
}

// OIDCVerifier verifies ID tokens against an OpenID Connect provider's signing keys.
type OIDCVerifier struct {
	verifier *oidc.IDTokenVerifier
}

var _ IDTokenVerifier = (*OIDCVerifier)(nil)

// NewGoogleVerifier discovers Google's provider configuration and verifies tokens issued for clientID.
func NewGoogleVerifier(ctx context.Context, clientID string) (*OIDCVerifier, error) {
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, errors.Wrap(err, "[NewGoogleVerifier] provider discovery")
	}
	return NewOIDCVerifier(provider.Verifier(&oidc.Config{ClientID: clientID})), nil
}

func NewOIDCVerifier(v *oidc.IDTokenVerifier) *OIDCVerifier {
	return &OIDCVerifier{verifier: v}
}

func (v *OIDCVerifier) Verify(ctx context.Context, rawIDToken string) error {
	if _, err := v.verifier.Verify(ctx, rawIDToken); err != nil {
		return errors.Wrap(apperrors.ErrInvalidIDToken, err.Error())
	}
	return nil
}
