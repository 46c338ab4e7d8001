package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/projectboard/internal/apperr"
	"github.com/monocle-dev/projectboard/internal/models"
	"github.com/monocle-dev/projectboard/internal/response"
	"github.com/monocle-dev/projectboard/internal/types"
	"github.com/sirupsen/logrus"
)

type AuthenticatedUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type TokenResolver interface {
	ResolveToken(token string) (string, error)
}

type UserLookup interface {
	GetUser(ctx context.Context, id string) (models.User, error)
}

// AuthMiddleware resolves the session token from the Authorization header or
// the token cookie and stores the matching user in the context.
func AuthMiddleware(sessions TokenResolver, users UserLookup, log *logrus.Entry) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, err := extractToken(ctx)
		if err != nil {
			response.Abort(ctx, log, err)
			return
		}

		userID, err := sessions.ResolveToken(tokenString)
		if err != nil {
			response.Abort(ctx, log, err)
			return
		}

		user, err := users.GetUser(ctx.Request.Context(), userID)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				err = apperr.Unauthorized("Not authorized, token failed")
			}
			response.Abort(ctx, log, err)
			return
		}

		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		})
		ctx.Next()
	}
}

func extractToken(ctx *gin.Context) (string, error) {
	if authHeader := ctx.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", apperr.Unauthorized("Authorization header format must be Bearer {token}")
		}

		return parts[1], nil
	}

	if cookie, err := ctx.Cookie(types.TokenCookieName); err == nil && cookie != "" {
		return cookie, nil
	}

	return "", apperr.Unauthorized("Not authorized, no token")
}
