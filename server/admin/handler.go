// Package admin holds the moderator endpoints that grant XP, badges and the
// verified check.
package admin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/verdict-com/verdict/server/auth"
	"github.com/verdict-com/verdict/server/internal/transport"
	"github.com/verdict-com/verdict/server/profile"
	"github.com/verdict-com/verdict/server/progression"
	"github.com/verdict-com/verdict/server/store"
)

// AwardPublisher is told about every XP award so level changes reach
// live subscribers.
type AwardPublisher interface {
	PublishAward(award store.XPAward)
}

type Handler struct {
	Store     store.API
	Auth      *auth.Service
	Publisher AwardPublisher
	Logger    *zap.Logger
}

type awardResponse struct {
	EventID      string `json:"event_id"`
	UserID       string `json:"user_id"`
	Amount       int    `json:"amount"`
	Reason       string `json:"reason"`
	TotalXP      int    `json:"total_xp"`
	FormattedXP  string `json:"formatted_xp"`
	Level        int    `json:"level"`
	LevelTitle   string `json:"level_title"`
	LevelChanged bool   `json:"level_changed"`
	CreatedAt    string `json:"created_at"`
}

// AwardXP handles POST /api/v1/users/:id/xp.
func (h *Handler) AwardXP(c *gin.Context) {
	admin, ok := h.Auth.RequireAdmin(c)
	if !ok {
		return
	}

	var req struct {
		Amount int    `json:"amount"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		transport.WriteError(c, http.StatusBadRequest, transport.CodeInvalidInput, "invalid json")
		return
	}

	userID := strings.TrimSpace(c.Param("id"))
	award, err := h.Store.AwardXP(userID, req.Amount, req.Reason)
	if err != nil {
		transport.WriteStoreError(c, err)
		return
	}
	h.Logger.Info("xp awarded",
		zap.String("admin_id", admin.ID),
		zap.String("user_id", userID),
		zap.Int("amount", award.Event.Amount),
		zap.String("reason", award.Event.Reason),
	)
	if h.Publisher != nil {
		h.Publisher.PublishAward(award)
	}

	c.JSON(http.StatusOK, awardResponse{
		EventID:      award.Event.ID,
		UserID:       userID,
		Amount:       award.Event.Amount,
		Reason:       award.Event.Reason,
		TotalXP:      award.TotalAfter,
		FormattedXP:  progression.FormatXP(award.TotalAfter),
		Level:        award.LevelAfter,
		LevelTitle:   progression.TitleForLevel(award.LevelAfter),
		LevelChanged: award.LevelChanged(),
		CreatedAt:    award.Event.CreatedAt,
	})
}

// AwardBadge handles POST /api/v1/users/:id/badges. Granting a badge the
// user already holds returns the original grant.
func (h *Handler) AwardBadge(c *gin.Context) {
	admin, ok := h.Auth.RequireAdmin(c)
	if !ok {
		return
	}

	var req struct {
		BadgeID string `json:"badge_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		transport.WriteError(c, http.StatusBadRequest, transport.CodeInvalidInput, "invalid json")
		return
	}

	userID := strings.TrimSpace(c.Param("id"))
	owned, err := h.Store.AwardBadge(userID, strings.TrimSpace(req.BadgeID))
	if err != nil {
		transport.WriteStoreError(c, err)
		return
	}
	h.Logger.Info("badge awarded",
		zap.String("admin_id", admin.ID),
		zap.String("user_id", userID),
		zap.String("badge_id", owned.Badge.ID),
	)

	c.JSON(http.StatusOK, profile.NewBadgeView(owned.Badge, owned.EarnedAt))
}

// Verify handles POST /api/v1/users/:id/verify. An empty body verifies.
func (h *Handler) Verify(c *gin.Context) {
	if _, ok := h.Auth.RequireAdmin(c); !ok {
		return
	}

	req := struct {
		Verified *bool `json:"verified"`
	}{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			transport.WriteError(c, http.StatusBadRequest, transport.CodeInvalidInput, "invalid json")
			return
		}
	}
	verified := req.Verified == nil || *req.Verified

	user, err := h.Store.SetVerified(strings.TrimSpace(c.Param("id")), verified)
	if err != nil {
		transport.WriteStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": user.ID, "verified": user.Verified})
}
