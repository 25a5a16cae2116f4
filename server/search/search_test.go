package search

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdict-com/verdict/server/store"
)

func newRouter(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewStore()
	h := &Handler{Store: st}
	r := gin.New()
	r.GET("/api/v1/search/questions", h.SearchQuestions)
	r.GET("/api/v1/search/professionals", h.SearchProfessionals)
	return r, st
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestSearchProfessionals(t *testing.T) {
	r, st := newRouter(t)
	sarah, err := st.Register("sarah@example.com", "hunter2hunter2", "Sarah Chen", false)
	require.NoError(t, err)
	_, err = st.Register("mike@example.com", "hunter2hunter2", "Mike Rossi", false)
	require.NoError(t, err)
	_, err = st.UpdateProfile(sarah.ID, store.ProfileUpdate{Title: "Employment Law Attorney", Vertical: "legal"})
	require.NoError(t, err)
	_, err = st.AwardXP(sarah.ID, 15750, "import")
	require.NoError(t, err)

	w := get(r, "/api/v1/search/professionals?q=attorney")
	require.Equal(t, http.StatusOK, w.Code)

	var resp page[ProfessionalResult]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Data, 1)
	got := resp.Data[0]
	assert.Equal(t, "sarah-chen", got.Username)
	assert.Equal(t, "Employment Law Attorney", got.Title)
	assert.Equal(t, 23, got.Level)
	assert.Equal(t, "Partner", got.LevelTitle)
	assert.Equal(t, "15.8K", got.FormattedXP)
}

func TestSearchEmptyQuery(t *testing.T) {
	r, _ := newRouter(t)

	w := get(r, "/api/v1/search/questions?q=%20&page_size=500")
	require.Equal(t, http.StatusOK, w.Code)
	var resp page[QuestionResult]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.Total)
	assert.NotNil(t, resp.Data)
	assert.Equal(t, maxPageSize, resp.PageSize)
}

func TestSearchQuestionsSnippet(t *testing.T) {
	r, st := newRouter(t)
	asker, err := st.Register("asker@example.com", "hunter2hunter2", "Asker", false)
	require.NoError(t, err)
	long := strings.Repeat("é", snippetLength+10)
	_, err = st.CreateQuestion(asker.ID, "medical", "Second opinion on MRI", long, "", []string{"Radiology"})
	require.NoError(t, err)

	w := get(r, "/api/v1/search/questions?q=radiology")
	require.Equal(t, http.StatusOK, w.Code)
	var resp page[QuestionResult]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	got := resp.Data[0]
	assert.Equal(t, "medical", got.Vertical)
	assert.Equal(t, "asker", got.Author.Username)
	assert.False(t, got.Answered)
	assert.Equal(t, strings.Repeat("é", snippetLength)+"...", got.Snippet)
}
