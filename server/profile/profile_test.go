package profile

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/verdict-com/verdict/server/badge"
	"github.com/verdict-com/verdict/server/internal/transport"
	"github.com/verdict-com/verdict/server/store"
)

func newRouter(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewStore()
	h := &Handler{Store: st, Logger: zap.NewNop(), Now: time.Now}
	r := gin.New()
	r.GET("/api/v1/professionals/:username", h.Get)
	r.GET("/api/v1/leaderboard", h.Leaderboard)
	r.GET("/api/v1/progression/level", h.Level)
	r.GET("/api/v1/badges", h.Badges)
	return r, st
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestNewGamification(t *testing.T) {
	g := NewGamification(store.XPSummary{Total: 15750, Weekly: 1750, Monthly: 5750, Streak: 3})

	assert.Equal(t, 15750, g.TotalXP)
	assert.Equal(t, "15.8K", g.FormattedXP)
	assert.Equal(t, "15,750", g.GroupedXP)
	assert.Equal(t, 23, g.Level)
	assert.Equal(t, "Partner", g.LevelTitle)
	assert.Equal(t, 15000, g.LevelStartXP)
	assert.Equal(t, 17000, g.NextLevelXP)
	assert.Equal(t, 1250, g.XPToNextLevel)
	assert.Equal(t, 37, g.ProgressPercent)
	assert.Equal(t, 1750, g.WeeklyXP)
	assert.Equal(t, 5750, g.MonthlyXP)
	assert.Equal(t, 3, g.Streak)
}

func TestGetProfile(t *testing.T) {
	r, st := newRouter(t)
	user, err := st.Register("sarah@example.com", "hunter2hunter2", "Sarah Chen", false)
	require.NoError(t, err)
	_, err = st.UpdateProfile(user.ID, store.ProfileUpdate{Vertical: "medical"})
	require.NoError(t, err)
	_, err = st.AwardBadge(user.ID, "first-opinion")
	require.NoError(t, err)

	w := get(r, "/api/v1/professionals/Sarah-Chen")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ProfileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, user.ID, resp.ID)
	assert.Equal(t, "medical", resp.Vertical)
	assert.Equal(t, "text-medical-primary", resp.VerticalClass)
	assert.Equal(t, "bg-medical-primary", resp.VerticalBg)
	assert.Equal(t, badge.VariantMedical.Classes(), resp.VerticalVariantClasses)
	assert.Equal(t, 1, resp.Gamification.Level)
	assert.Equal(t, "Legal Intern", resp.Gamification.LevelTitle)
	assert.Equal(t, "0", resp.Gamification.FormattedXP)
	require.Len(t, resp.Badges, 1)
	assert.Equal(t, "Common", resp.Badges[0].RarityLabel)
	assert.NotEmpty(t, resp.Badges[0].EarnedAt)

	w = get(r, "/api/v1/professionals/nobody")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLeaderboard(t *testing.T) {
	r, st := newRouter(t)
	for i, name := range []string{"Alpha", "Bravo", "Charlie"} {
		u, err := st.Register(name+"@example.com", "hunter2hunter2", name, false)
		require.NoError(t, err)
		_, err = st.AwardXP(u.ID, (i+1)*1000, "seed")
		require.NoError(t, err)
	}

	w := get(r, "/api/v1/leaderboard?limit=2")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Items []leaderboardItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "charlie", resp.Items[0].User.Username)
	assert.Equal(t, "3.0K", resp.Items[0].FormattedXP)
	assert.Equal(t, 14, resp.Items[0].User.Level)
	assert.Equal(t, 2, resp.Items[1].Rank)
}

func TestLevelLookup(t *testing.T) {
	r, _ := newRouter(t)

	cases := []struct {
		query     string
		level     int
		title     string
		formatted string
	}{
		{"0", 1, "Legal Intern", "0"},
		{"999.9", 10, "Associate", "999.9"},
		{"-50", 1, "Legal Intern", "0"},
		{"1e9", 100, "VERDICT Immortal", "1000.0M"},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			w := get(r, "/api/v1/progression/level?xp="+tc.query)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			var resp levelResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.level, resp.Level)
			assert.Equal(t, tc.title, resp.LevelTitle)
			assert.Equal(t, tc.formatted, resp.FormattedXP)
		})
	}

	for _, bad := range []string{"", "abc", "NaN", "Inf"} {
		w := get(r, "/api/v1/progression/level?xp="+bad)
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
	}
}

func TestBadgeCatalog(t *testing.T) {
	r, _ := newRouter(t)

	w := get(r, "/api/v1/badges")
	require.Equal(t, http.StatusOK, w.Code)
	var items []BadgeView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.NotEmpty(t, items)
	assert.Equal(t, "founding-member", items[0].ID)
	assert.Equal(t, "Legendary", items[0].RarityLabel)
	assert.Empty(t, items[0].EarnedAt)
	assert.Equal(t, badge.RarityLegendary.Style(), items[0].Style)
}

func TestBadgeCatalogVariant(t *testing.T) {
	r, _ := newRouter(t)

	w := get(r, "/api/v1/badges?variant=Outline")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var items []BadgeView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.NotEmpty(t, items)
	for _, item := range items {
		assert.Equal(t, badge.VariantOutline.Classes(), item.Style, item.ID)
	}
	assert.Equal(t, "legendary", items[0].Rarity)

	w = get(r, "/api/v1/badges?variant=sparkly")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp transport.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, transport.CodeInvalidInput, resp.Code)
}
