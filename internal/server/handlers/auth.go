package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sowmensarker/ambika/internal/domain/models"
)

const identityKey = "identity"

// Dev headers read by HeaderAuthenticator.
const (
	HeaderUserID    = "X-User-Id"
	HeaderUserName  = "X-User-Name"
	HeaderUserEmail = "X-User-Email"
)

// ErrUnauthenticated is returned when a request carries no usable identity.
var ErrUnauthenticated = errors.New("unauthenticated")

// Authenticator resolves the caller of a request.
type Authenticator interface {
	Authenticate(r *http.Request) (models.Identity, error)
}

// TokenLookup resolves an ID token, e.g. identity.Client.
type TokenLookup interface {
	Lookup(ctx context.Context, idToken string) (models.Identity, error)
}

// TokenAuthenticator verifies the bearer token with the identity provider.
type TokenAuthenticator struct {
	lookup TokenLookup
}

// NewTokenAuthenticator wraps lookup.
func NewTokenAuthenticator(lookup TokenLookup) *TokenAuthenticator {
	return &TokenAuthenticator{lookup: lookup}
}

// Authenticate implements Authenticator.
func (a *TokenAuthenticator) Authenticate(r *http.Request) (models.Identity, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return models.Identity{}, ErrUnauthenticated
	}
	return a.lookup.Lookup(r.Context(), strings.TrimSpace(token))
}

// HeaderAuthenticator trusts the X-User-* headers. Local development only.
type HeaderAuthenticator struct{}

// Authenticate implements Authenticator.
func (HeaderAuthenticator) Authenticate(r *http.Request) (models.Identity, error) {
	uid := strings.TrimSpace(r.Header.Get(HeaderUserID))
	if uid == "" {
		return models.Identity{}, ErrUnauthenticated
	}
	return models.Identity{
		UID:         uid,
		DisplayName: strings.TrimSpace(r.Header.Get(HeaderUserName)),
		Email:       strings.TrimSpace(r.Header.Get(HeaderUserEmail)),
	}, nil
}

// RequireIdentity rejects requests without a resolvable caller.
func RequireIdentity(auth Authenticator, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		identity, err := auth.Authenticate(c.Request)
		if err != nil {
			logger.Debug("authentication failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// IdentityFrom returns the caller stored by RequireIdentity.
func IdentityFrom(c *gin.Context) models.Identity {
	if v, ok := c.Get(identityKey); ok {
		if identity, ok := v.(models.Identity); ok {
			return identity
		}
	}
	return models.Identity{}
}
