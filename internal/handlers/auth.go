package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/projectboard/internal/apperr"
	"github.com/monocle-dev/projectboard/internal/auth"
	"github.com/monocle-dev/projectboard/internal/credentials"
	"github.com/monocle-dev/projectboard/internal/response"
	"github.com/monocle-dev/projectboard/internal/types"
	"github.com/monocle-dev/projectboard/internal/utils"
	"github.com/sirupsen/logrus"
)

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password"`
}

type LoginUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CookieConfig struct {
	Domain string
	Secure bool
}

type Auth struct {
	credentials *credentials.Service
	sessions    *auth.Sessions
	cookie      CookieConfig
	log         *logrus.Entry
}

func NewAuthHandler(creds *credentials.Service, sessions *auth.Sessions, cookie CookieConfig, log *logrus.Entry) *Auth {
	return &Auth{credentials: creds, sessions: sessions, cookie: cookie, log: log}
}

func (h *Auth) CreateUser(ctx *gin.Context) {
	var body CreateUserRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		response.Error(ctx, h.log, apperr.BadRequest("Invalid user data"))
		return
	}

	user, err := h.credentials.Register(ctx.Request.Context(), body.Name, body.Email, body.Password)
	if err != nil {
		response.Error(ctx, h.log, err)
		return
	}

	if err := h.startSession(ctx, user.ID); err != nil {
		response.Error(ctx, h.log, err)
		return
	}

	response.OK(ctx, http.StatusCreated, "User registered successfully", types.NewUserResponse(user))
}

func (h *Auth) LoginUser(ctx *gin.Context) {
	var body LoginUserRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		response.Error(ctx, h.log, apperr.BadRequest("Invalid request"))
		return
	}

	user, err := h.credentials.VerifyPassword(ctx.Request.Context(), body.Email, body.Password)
	if err != nil {
		response.Error(ctx, h.log, err)
		return
	}

	if err := h.startSession(ctx, user.ID); err != nil {
		response.Error(ctx, h.log, err)
		return
	}

	response.OK(ctx, http.StatusOK, "Login successful", types.NewUserResponse(user))
}

func (h *Auth) LogoutUser(ctx *gin.Context) {
	h.setCookie(ctx, "", -1)
	response.OK(ctx, http.StatusOK, "User logged out successfully", nil)
}

func (h *Auth) Me(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		response.Error(ctx, h.log, err)
		return
	}

	profile, err := h.credentials.Profile(ctx.Request.Context(), userID)
	if err != nil {
		response.Error(ctx, h.log, err)
		return
	}

	response.OK(ctx, http.StatusOK, "Current user", types.NewProfileResponse(profile.User, profile.JoinedProjects, profile.CreatedProjects))
}

func (h *Auth) startSession(ctx *gin.Context, userID string) error {
	token, err := h.sessions.IssueToken(userID)
	if err != nil {
		return apperr.Internal("Failed to issue session token", err)
	}

	h.setCookie(ctx, token, int(h.sessions.TTL().Seconds()))
	return nil
}

func (h *Auth) setCookie(ctx *gin.Context, value string, maxAge int) {
	sameSite := http.SameSiteLaxMode
	if h.cookie.Secure {
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     types.TokenCookieName,
		Value:    value,
		Path:     "/",
		Domain:   h.cookie.Domain,
		MaxAge:   maxAge,
		Secure:   h.cookie.Secure,
		HttpOnly: true,
		SameSite: sameSite,
	})
}
