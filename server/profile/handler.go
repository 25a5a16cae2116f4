// Package profile serves the public professional profile, the leaderboard and
// the progression lookups.
package profile

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/verdict-com/verdict/server/badge"
	"github.com/verdict-com/verdict/server/internal/transport"
	"github.com/verdict-com/verdict/server/progression"
	"github.com/verdict-com/verdict/server/store"
)

const maxLeaderboardLimit = 100

type Handler struct {
	Store  store.API
	Logger *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// ProfileResponse is the body of GET /api/v1/professionals/:username.
type ProfileResponse struct {
	ID                     string       `json:"id"`
	Username               string       `json:"username"`
	Nickname               string       `json:"nickname"`
	Title                  string       `json:"title"`
	Vertical               string       `json:"vertical,omitempty"`
	VerticalClass          string       `json:"vertical_class"`
	VerticalBg             string       `json:"vertical_bg"`
	VerticalVariantClasses string       `json:"vertical_variant_classes"`
	Verified               bool         `json:"verified"`
	CreatedAt              string       `json:"created_at"`
	Gamification           Gamification `json:"gamification"`
	Badges                 []BadgeView  `json:"badges"`
}

// Get handles GET /api/v1/professionals/:username.
func (h *Handler) Get(c *gin.Context) {
	username := strings.TrimSpace(c.Param("username"))
	user, ok := h.Store.UserByUsername(username)
	if !ok {
		transport.WriteError(c, http.StatusNotFound, transport.CodeInvalidInput, "not found")
		return
	}

	summary, err := h.Store.XPSummary(user.ID, h.now())
	if err != nil {
		h.Logger.Error("xp summary", zap.String("user_id", user.ID), zap.Error(err))
		transport.WriteStoreError(c, err)
		return
	}

	owned := h.Store.UserBadges(user.ID)
	badges := make([]BadgeView, 0, len(owned))
	for _, ub := range owned {
		badges = append(badges, NewBadgeView(ub.Badge, ub.EarnedAt))
	}

	c.JSON(http.StatusOK, ProfileResponse{
		ID:                     user.ID,
		Username:               user.Username,
		Nickname:               user.Nickname,
		Title:                  user.Title,
		Vertical:               string(user.Vertical),
		VerticalClass:          user.Vertical.TextClass(),
		VerticalBg:             user.Vertical.BackgroundClass(),
		VerticalVariantClasses: user.Vertical.Variant().Classes(),
		Verified:               user.Verified,
		CreatedAt:              user.CreatedAt,
		Gamification:           NewGamification(summary),
		Badges:                 badges,
	})
}

type leaderboardItem struct {
	Rank        int         `json:"rank"`
	User        UserSummary `json:"user"`
	TotalXP     int         `json:"total_xp"`
	FormattedXP string      `json:"formatted_xp"`
}

// Leaderboard handles GET /api/v1/leaderboard.
func (h *Handler) Leaderboard(c *gin.Context) {
	limit := transport.ParsePositiveInt(c.Query("limit"), 10)
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	entries, err := h.Store.Leaderboard(limit)
	if err != nil {
		h.Logger.Error("leaderboard", zap.Error(err))
		transport.WriteStoreError(c, err)
		return
	}

	items := make([]leaderboardItem, 0, len(entries))
	for i, entry := range entries {
		items = append(items, leaderboardItem{
			Rank:        i + 1,
			User:        NewUserSummary(entry.User, entry.TotalXP),
			TotalXP:     entry.TotalXP,
			FormattedXP: progression.FormatXP(entry.TotalXP),
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type levelResponse struct {
	XP          float64 `json:"xp"`
	Level       int     `json:"level"`
	LevelTitle  string  `json:"level_title"`
	FormattedXP string  `json:"formatted_xp"`
}

// Level handles GET /api/v1/progression/level?xp=.
func (h *Handler) Level(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("xp"))
	xp, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		transport.WriteError(c, http.StatusBadRequest, transport.CodeInvalidInput, "xp must be a number")
		return
	}

	level, err := progression.LevelForXPFloat(xp)
	if err != nil {
		transport.WriteError(c, http.StatusBadRequest, transport.CodeInvalidInput, "xp must be finite")
		return
	}
	formatted, err := progression.FormatXPFloat(xp)
	if err != nil {
		transport.WriteError(c, http.StatusBadRequest, transport.CodeInvalidInput, "xp must be finite")
		return
	}

	c.JSON(http.StatusOK, levelResponse{
		XP:          xp,
		Level:       level,
		LevelTitle:  progression.TitleForLevel(level),
		FormattedXP: formatted,
	})
}

// Badges handles GET /api/v1/badges. An optional ?variant= restyles every
// badge with that variant instead of its rarity.
func (h *Handler) Badges(c *gin.Context) {
	var variant badge.Variant
	if raw := strings.TrimSpace(c.Query("variant")); raw != "" {
		v, err := badge.ParseVariant(raw)
		if err != nil {
			transport.WriteError(c, http.StatusBadRequest, transport.CodeInvalidInput, "unknown variant")
			return
		}
		variant = v
	}

	catalog := h.Store.Badges()
	items := make([]BadgeView, 0, len(catalog))
	for _, b := range catalog {
		view := NewBadgeView(b, "")
		if variant != "" {
			view.Style = variant.Classes()
		}
		items = append(items, view)
	}
	c.JSON(http.StatusOK, items)
}
