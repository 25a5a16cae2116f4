// Package auth handles accounts, sessions and the caller's own profile.
package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/verdict-com/verdict/server/badge"
	"github.com/verdict-com/verdict/server/internal/transport"
	"github.com/verdict-com/verdict/server/profile"
	"github.com/verdict-com/verdict/server/store"
)

type Service struct {
	Store  store.API
	Logger *zap.Logger
	// IsAdminAccount reports whether a newly registered account is promoted
	// to admin. Nil promotes nobody.
	IsAdminAccount func(account string) bool
	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type loginRequest struct {
	Account  string `json:"account"`
	Password string `json:"password"`
}

type registerRequest struct {
	Account         string `json:"account"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Nickname        string `json:"nickname"`
}

type loginResponse struct {
	Token string              `json:"token"`
	User  profile.UserSummary `json:"user"`
}

type meResponse struct {
	ID           string               `json:"id"`
	Username     string               `json:"username"`
	Nickname     string               `json:"nickname"`
	Title        string               `json:"title"`
	Vertical     string               `json:"vertical,omitempty"`
	Verified     bool                 `json:"verified"`
	IsAdmin      bool                 `json:"is_admin"`
	CreatedAt    string               `json:"created_at"`
	Gamification profile.Gamification `json:"gamification"`
}

// RegisterHandler handles POST /api/v1/auth/register.
func (s *Service) RegisterHandler(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		transport.WriteError(c, http.StatusBadRequest, transport.CodeInvalidInput, "invalid json")
		return
	}
	if strings.TrimSpace(req.Password) != strings.TrimSpace(req.ConfirmPassword) {
		transport.WriteError(c, http.StatusBadRequest, transport.CodePasswordMismatch, "passwords do not match")
		return
	}

	admin := s.IsAdminAccount != nil && s.IsAdminAccount(req.Account)
	user, err := s.Store.Register(req.Account, req.Password, req.Nickname, admin)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidInput):
			transport.WriteError(c, http.StatusBadRequest, transport.CodeInvalidInput, "missing fields")
		case errors.Is(err, store.ErrInvalidEmail):
			transport.WriteError(c, http.StatusBadRequest, transport.CodeInvalidEmail, "invalid email")
		case errors.Is(err, store.ErrInvalidNickname):
			transport.WriteError(c, http.StatusBadRequest, transport.CodeInvalidNickname, "invalid nickname")
		case errors.Is(err, store.ErrWeakPassword):
			transport.WriteError(c, http.StatusBadRequest, transport.CodeWeakPassword, "weak password")
		case errors.Is(err, store.ErrAccountExists):
			transport.WriteError(c, http.StatusConflict, transport.CodeAccountExists, "account already exists")
		default:
			s.Logger.Error("register", zap.Error(err))
			transport.WriteError(c, http.StatusInternalServerError, transport.CodeServerError, "server error")
		}
		return
	}

	if user.IsAdmin {
		s.Logger.Info("admin account registered", zap.String("user_id", user.ID))
	}

	c.JSON(http.StatusCreated, profile.NewUserSummary(user, 0))
}

// LoginHandler handles POST /api/v1/auth/login.
func (s *Service) LoginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		transport.WriteError(c, http.StatusBadRequest, transport.CodeInvalidInput, "invalid json")
		return
	}

	token, user, err := s.Store.Login(req.Account, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidInput):
			transport.WriteError(c, http.StatusBadRequest, transport.CodeInvalidInput, "missing fields")
		case errors.Is(err, store.ErrInvalidCredentials):
			transport.WriteError(c, http.StatusUnauthorized, transport.CodeInvalidCredentials, "invalid credentials")
		default:
			s.Logger.Error("login", zap.Error(err))
			transport.WriteError(c, http.StatusInternalServerError, transport.CodeServerError, "server error")
		}
		return
	}

	summary, err := s.Store.XPSummary(user.ID, s.now())
	if err != nil {
		transport.WriteStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Token: token,
		User:  profile.NewUserSummary(user, summary.Total),
	})
}

// GetMe handles GET /api/v1/users/me.
func (s *Service) GetMe(c *gin.Context) {
	user, ok := s.RequireUser(c)
	if !ok {
		return
	}
	s.writeMe(c, user)
}

// UpdateMe handles PATCH /api/v1/users/me. Omitted or blank fields are left
// as they are.
func (s *Service) UpdateMe(c *gin.Context) {
	user, ok := s.RequireUser(c)
	if !ok {
		return
	}

	var req struct {
		Nickname *string `json:"nickname"`
		Title    *string `json:"title"`
		Vertical *string `json:"vertical"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		transport.WriteError(c, http.StatusBadRequest, transport.CodeInvalidInput, "invalid json")
		return
	}

	var update store.ProfileUpdate
	if req.Nickname != nil {
		update.Nickname = *req.Nickname
	}
	if req.Title != nil {
		update.Title = *req.Title
	}
	if req.Vertical != nil {
		update.Vertical = badge.Vertical(strings.TrimSpace(*req.Vertical))
	}

	updated, err := s.Store.UpdateProfile(user.ID, update)
	if err != nil {
		if errors.Is(err, store.ErrInvalidNickname) {
			transport.WriteError(c, http.StatusBadRequest, transport.CodeInvalidNickname, "invalid nickname")
			return
		}
		transport.WriteStoreError(c, err)
		return
	}
	s.writeMe(c, updated)
}

func (s *Service) writeMe(c *gin.Context, user store.User) {
	summary, err := s.Store.XPSummary(user.ID, s.now())
	if err != nil {
		s.Logger.Error("xp summary", zap.String("user_id", user.ID), zap.Error(err))
		transport.WriteStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, meResponse{
		ID:           user.ID,
		Username:     user.Username,
		Nickname:     user.Nickname,
		Title:        user.Title,
		Vertical:     string(user.Vertical),
		Verified:     user.Verified,
		IsAdmin:      user.IsAdmin,
		CreatedAt:    user.CreatedAt,
		Gamification: profile.NewGamification(summary),
	})
}
