// Package search finds questions and professionals by free text.
package search

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/verdict-com/verdict/server/internal/transport"
	"github.com/verdict-com/verdict/server/profile"
	"github.com/verdict-com/verdict/server/progression"
	"github.com/verdict-com/verdict/server/store"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	snippetLength   = 200
)

// Handler provides search API endpoints.
type Handler struct {
	Store store.API
	// Now defaults to time.Now.
	Now func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// QuestionResult is a search result item for questions.
type QuestionResult struct {
	ID        string              `json:"id"`
	Vertical  string              `json:"vertical"`
	Author    profile.UserSummary `json:"author"`
	Title     string              `json:"title"`
	Snippet   string              `json:"snippet"`
	Keywords  []string            `json:"keywords"`
	Answered  bool                `json:"answered"`
	CreatedAt string              `json:"created_at"`
}

// ProfessionalResult is a search result item for users.
type ProfessionalResult struct {
	profile.UserSummary
	Title       string `json:"title"`
	Vertical    string `json:"vertical,omitempty"`
	TotalXP     int    `json:"total_xp"`
	FormattedXP string `json:"formatted_xp"`
}

type page[T any] struct {
	Data     []T `json:"data"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

func pageParams(c *gin.Context) (int, int) {
	p := transport.ParsePositiveInt(c.Query("page"), 1)
	size := transport.ParsePositiveInt(c.Query("page_size"), defaultPageSize)
	if size > maxPageSize {
		size = maxPageSize
	}
	return p, size
}

// SearchQuestions handles GET /api/v1/search/questions?q=xxx&page=1&page_size=20
func (h *Handler) SearchQuestions(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	p, size := pageParams(c)
	if query == "" {
		c.JSON(http.StatusOK, page[QuestionResult]{Data: []QuestionResult{}, Page: p, PageSize: size})
		return
	}

	questions, total := h.Store.SearchQuestions(query, (p-1)*size, size)
	results := make([]QuestionResult, 0, len(questions))
	for _, q := range questions {
		body := q.Body
		if runes := []rune(body); len(runes) > snippetLength {
			body = string(runes[:snippetLength]) + "..."
		}
		keywords := q.Keywords
		if keywords == nil {
			keywords = []string{}
		}
		results = append(results, QuestionResult{
			ID:        q.ID,
			Vertical:  string(q.Vertical),
			Author:    h.summary(q.AuthorID).UserSummary,
			Title:     q.Title,
			Snippet:   body,
			Keywords:  keywords,
			Answered:  q.AcceptedOpinionID != "",
			CreatedAt: q.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, page[QuestionResult]{Data: results, Total: total, Page: p, PageSize: size})
}

// SearchProfessionals handles GET /api/v1/search/professionals?q=xxx&page=1&page_size=20
func (h *Handler) SearchProfessionals(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	p, size := pageParams(c)
	if query == "" {
		c.JSON(http.StatusOK, page[ProfessionalResult]{Data: []ProfessionalResult{}, Page: p, PageSize: size})
		return
	}

	users, total := h.Store.SearchUsers(query, (p-1)*size, size)
	results := make([]ProfessionalResult, 0, len(users))
	for _, u := range users {
		results = append(results, h.result(u))
	}

	c.JSON(http.StatusOK, page[ProfessionalResult]{Data: results, Total: total, Page: p, PageSize: size})
}

func (h *Handler) summary(userID string) ProfessionalResult {
	user, _ := h.Store.GetUser(userID)
	return h.result(user)
}

func (h *Handler) result(user store.User) ProfessionalResult {
	total := 0
	if summary, err := h.Store.XPSummary(user.ID, h.now()); err == nil {
		total = summary.Total
	}
	return ProfessionalResult{
		UserSummary: profile.NewUserSummary(user, total),
		Title:       user.Title,
		Vertical:    string(user.Vertical),
		TotalXP:     total,
		FormattedXP: progression.FormatXP(total),
	}
}
