package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dkeye/Parley/internal/app/auth"
	"github.com/dkeye/Parley/internal/domain"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	sessionTokenKey = "token"
	ctxUserID       = "user_id"
	ctxUsername     = "username"
)

// AuthRequired admits requests whose cookie session holds a valid token.
func AuthRequired(accounts *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := sessions.Default(c).Get(sessionTokenKey).(string)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		claims, err := accounts.Authenticate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set(ctxUserID, claims.ID)
		c.Set(ctxUsername, claims.Username)
		c.Next()
	}
}

// writeError maps the domain error categories onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		msg := strings.TrimPrefix(err.Error(), domain.ErrValidation.Error()+": ")
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("module", "adapters.http").Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
