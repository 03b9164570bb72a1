package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	apperrors "shuttle/pkg/errors"
	httputil "shuttle/pkg/http"
	"shuttle/pkg/logger"
	"shuttle/pkg/model"
)

const IdentityKey contextKey = "identity"

// TokenVerifier checks a bearer token and returns the identity it carries.
// Implemented by the token service; declared here so the middleware does not
// depend on internal packages.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*model.TokenClaims, error)
}

type Authenticator struct {
	verifier TokenVerifier
	log      *logger.Logger
}

func NewAuthenticator(verifier TokenVerifier, log *logger.Logger) *Authenticator {
	return &Authenticator{
		verifier: verifier,
		log:      log,
	}
}

// RequireAuth verifies the Authorization bearer token and injects the
// caller's identity into the request context.
func (a *Authenticator) RequireAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		token, err := BearerToken(r)
		if err != nil {
			if writeErr := httputil.WriteError(w, err); writeErr != nil {
				a.log.Error("failed to write error response", "middleware", "RequireAuth", "error", writeErr)
			}
			return
		}

		claims, err := a.verifier.Verify(r.Context(), token)
		if err != nil {
			a.log.Warn("Token verification failed",
				"path", r.URL.Path,
				"error", err,
			)
			if writeErr := httputil.WriteError(w, err); writeErr != nil {
				a.log.Error("failed to write error response", "middleware", "RequireAuth", "error", writeErr)
			}
			return
		}

		ctx := context.WithValue(r.Context(), IdentityKey, claims)
		next(w, r.WithContext(ctx), ps)
	}
}

// RequireRole verifies the token and additionally checks the caller's role.
func (a *Authenticator) RequireRole(role string, next httprouter.Handle) httprouter.Handle {
	return a.RequireAuth(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, ok := IdentityFrom(r.Context())
		if !ok || claims.Role != role {
			if writeErr := httputil.WriteError(w, apperrors.Forbidden("Insufficient permissions")); writeErr != nil {
				a.log.Error("failed to write error response", "middleware", "RequireRole", "error", writeErr)
			}
			return
		}
		next(w, r, ps)
	})
}

// IdentityFrom returns the verified identity stored by RequireAuth.
func IdentityFrom(ctx context.Context) (*model.TokenClaims, bool) {
	claims, ok := ctx.Value(IdentityKey).(*model.TokenClaims)
	return claims, ok
}

// BearerToken extracts the credential from the Authorization header.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", apperrors.Unauthorized("Authorization header is required")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", apperrors.Unauthorized("Authorization header must be 'Bearer <token>'")
	}

	return parts[1], nil
}
