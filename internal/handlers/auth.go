package handlers

import (
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/quiz-evaluation-service/internal/config"
	"github.com/SAP-F-2025/quiz-evaluation-service/internal/utils"
)

const (
	userIDKey   = "user_id"
	userNameKey = "user_name"
)

// Identity is the authenticated caller.
type Identity struct {
	ID   string
	Name string
}

// Authenticator verifies a bearer token.
type Authenticator interface {
	Authenticate(token string) (*Identity, error)
}

type casdoorAuthenticator struct {
	client *casdoorsdk.Client
}

// NewCasdoorAuthenticator verifies tokens issued by the configured Casdoor application.
func NewCasdoorAuthenticator(cfg config.AuthConfig) Authenticator {
	return &casdoorAuthenticator{
		client: casdoorsdk.NewClient(
			cfg.Endpoint,
			cfg.ClientID,
			cfg.ClientSecret,
			cfg.Certificate,
			cfg.OrganizationName,
			cfg.ApplicationName,
		),
	}
}

func (a *casdoorAuthenticator) Authenticate(token string) (*Identity, error) {
	claims, err := a.client.ParseJwtToken(token)
	if err != nil {
		return nil, err
	}
	id := claims.Id
	if id == "" {
		id = claims.Owner + "/" + claims.Name
	}
	return &Identity{ID: id, Name: claims.Name}, nil
}

// AuthMiddleware rejects requests without a valid bearer token and stores the
// caller's Casdoor user id under "user_id".
func AuthMiddleware(authenticator Authenticator, logger utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "User not authenticated",
				Details: "missing bearer token",
			})
			return
		}

		identity, err := authenticator.Authenticate(strings.TrimSpace(token))
		if err != nil {
			logger.Warn("Rejected bearer token", "path", c.Request.URL.Path, "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "User not authenticated",
				Details: "invalid token",
			})
			return
		}

		c.Set(userIDKey, identity.ID)
		c.Set(userNameKey, identity.Name)
		c.Next()
	}
}
