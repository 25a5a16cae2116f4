package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/verdict-com/verdict/server/internal/transport"
	"github.com/verdict-com/verdict/server/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := &Service{
		Store:  store.NewStore(),
		Logger: zap.NewNop(),
		IsAdminAccount: func(account string) bool {
			return account == "admin@verdict.law"
		},
	}
	r := gin.New()
	r.POST("/api/v1/auth/register", svc.RegisterHandler)
	r.POST("/api/v1/auth/login", svc.LoginHandler)
	r.GET("/api/v1/users/me", svc.GetMe)
	r.PATCH("/api/v1/users/me", svc.UpdateMe)
	r.GET("/admin-only", func(c *gin.Context) {
		if _, ok := svc.RequireAdmin(c); ok {
			c.Status(http.StatusNoContent)
		}
	})
	return r, svc
}

func doJSON(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerAndLogin(t *testing.T, r http.Handler, account, nickname string) string {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"account":          account,
		"password":         "hunter2hunter2",
		"confirm_password": "hunter2hunter2",
		"nickname":         nickname,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"account":  account,
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp loginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) transport.ErrorResponse {
	t.Helper()
	var resp transport.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRegisterErrors(t *testing.T) {
	r, _ := newTestRouter(t)

	cases := []struct {
		name   string
		body   map[string]string
		status int
		code   int
	}{
		{"mismatch", map[string]string{"account": "a@b.co", "password": "abcdefg1", "confirm_password": "abcdefg2", "nickname": "Ann"}, http.StatusBadRequest, transport.CodePasswordMismatch},
		{"missing", map[string]string{"account": "", "password": "abcdefg1", "confirm_password": "abcdefg1", "nickname": "Ann"}, http.StatusBadRequest, transport.CodeInvalidInput},
		{"email", map[string]string{"account": "nope", "password": "abcdefg1", "confirm_password": "abcdefg1", "nickname": "Ann"}, http.StatusBadRequest, transport.CodeInvalidEmail},
		{"weak", map[string]string{"account": "a@b.co", "password": "short", "confirm_password": "short", "nickname": "Ann"}, http.StatusBadRequest, transport.CodeWeakPassword},
		{"nickname", map[string]string{"account": "a@b.co", "password": "abcdefg1", "confirm_password": "abcdefg1", "nickname": "!!!"}, http.StatusBadRequest, transport.CodeInvalidNickname},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/api/v1/auth/register", "", tc.body)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, decodeError(t, w).Code)
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r, _ := newTestRouter(t)
	registerAndLogin(t, r, "sarah@verdict.law", "Sarah Chen")

	w := doJSON(r, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"account":          "SARAH@verdict.law",
		"password":         "hunter2hunter2",
		"confirm_password": "hunter2hunter2",
		"nickname":         "Someone Else",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, transport.CodeAccountExists, decodeError(t, w).Code)
}

func TestLoginInvalidCredentials(t *testing.T) {
	r, _ := newTestRouter(t)
	registerAndLogin(t, r, "sarah@verdict.law", "Sarah Chen")

	w := doJSON(r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"account":  "sarah@verdict.law",
		"password": "wrongpass1",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, transport.CodeInvalidCredentials, decodeError(t, w).Code)
}

func TestGetMe(t *testing.T) {
	r, svc := newTestRouter(t)
	token := registerAndLogin(t, r, "sarah@verdict.law", "Sarah Chen")

	user, ok := svc.Store.UserByToken(token)
	require.True(t, ok)
	_, err := svc.Store.AwardXP(user.ID, 15750, "import")
	require.NoError(t, err)

	w := doJSON(r, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var me meResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "sarah-chen", me.Username)
	assert.False(t, me.IsAdmin)
	assert.Equal(t, 15750, me.Gamification.TotalXP)
	assert.Equal(t, 23, me.Gamification.Level)
	assert.Equal(t, "Partner", me.Gamification.LevelTitle)
	assert.Equal(t, "15.8K", me.Gamification.FormattedXP)
}

func TestGetMeUnauthorized(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, transport.CodeUnauthorized, decodeError(t, w).Code)

	w = doJSON(r, http.MethodGet, "/api/v1/users/me", "t_bogus", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateMe(t *testing.T) {
	r, _ := newTestRouter(t)
	token := registerAndLogin(t, r, "sarah@verdict.law", "Sarah Chen")

	w := doJSON(r, http.MethodPatch, "/api/v1/users/me", token, map[string]string{
		"title":    "Employment Law Attorney",
		"vertical": "legal",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var me meResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "Employment Law Attorney", me.Title)
	assert.Equal(t, "legal", me.Vertical)
	assert.Equal(t, "Sarah Chen", me.Nickname)

	w = doJSON(r, http.MethodPatch, "/api/v1/users/me", token, map[string]string{"vertical": "astrology"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminPromotionAndRequireAdmin(t *testing.T) {
	r, _ := newTestRouter(t)
	userToken := registerAndLogin(t, r, "sarah@verdict.law", "Sarah Chen")
	adminToken := registerAndLogin(t, r, "admin@verdict.law", "Admin")

	w := doJSON(r, http.MethodGet, "/admin-only", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, transport.CodeForbidden, decodeError(t, w).Code)

	w = doJSON(r, http.MethodGet, "/admin-only", adminToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
