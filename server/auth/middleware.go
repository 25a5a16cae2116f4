package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/verdict-com/verdict/server/internal/transport"
	"github.com/verdict-com/verdict/server/store"
)

// RequireUser extracts the Bearer token, loads the user, and writes a 401 error on failure.
func (s *Service) RequireUser(c *gin.Context) (store.User, bool) {
	token := bearerToken(c)
	if token == "" {
		transport.WriteError(c, http.StatusUnauthorized, transport.CodeUnauthorized, "missing token")
		return store.User{}, false
	}

	user, ok := s.Store.UserByToken(token)
	if !ok {
		transport.WriteError(c, http.StatusUnauthorized, transport.CodeUnauthorized, "invalid token")
		return store.User{}, false
	}
	return user, true
}

// RequireAdmin is RequireUser plus a 403 for non-admins.
func (s *Service) RequireAdmin(c *gin.Context) (store.User, bool) {
	user, ok := s.RequireUser(c)
	if !ok {
		return store.User{}, false
	}
	if !user.IsAdmin {
		transport.WriteError(c, http.StatusForbidden, transport.CodeForbidden, "forbidden")
		return store.User{}, false
	}
	return user, true
}

// bearerToken parses Authorization: Bearer <token>.
func bearerToken(c *gin.Context) string {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
