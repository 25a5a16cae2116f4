// Package qa serves expert questions and opinions and credits XP for them.
package qa

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/verdict-com/verdict/server/auth"
	"github.com/verdict-com/verdict/server/badge"
	"github.com/verdict-com/verdict/server/internal/transport"
	"github.com/verdict-com/verdict/server/profile"
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
	// Now defaults to time.Now.
	Now func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

type questionItem struct {
	ID                     string              `json:"id"`
	Vertical               string              `json:"vertical"`
	VerticalBg             string              `json:"vertical_bg"`
	VerticalVariantClasses string              `json:"vertical_variant_classes"`
	Author                 profile.UserSummary `json:"author"`
	Title                  string              `json:"title"`
	Body                   string              `json:"body"`
	Category               string              `json:"category,omitempty"`
	Keywords               []string            `json:"keywords"`
	AcceptedOpinionID      string              `json:"accepted_opinion_id,omitempty"`
	CreatedAt              string              `json:"created_at"`
}

type opinionItem struct {
	ID         string              `json:"id"`
	QuestionID string              `json:"question_id"`
	Author     profile.UserSummary `json:"author"`
	Body       string              `json:"body"`
	Confidence int                 `json:"confidence"`
	Accepted   bool                `json:"accepted"`
	CreatedAt  string              `json:"created_at"`
}

type questionDetail struct {
	questionItem
	Opinions []opinionItem `json:"opinions"`
}

// ListQuestions handles GET /api/v1/questions.
func (h *Handler) ListQuestions(c *gin.Context) {
	var vertical badge.Vertical
	if raw := strings.TrimSpace(c.Query("vertical")); raw != "" {
		v, err := badge.ParseVertical(raw)
		if err != nil {
			transport.WriteError(c, http.StatusBadRequest, transport.CodeInvalidInput, "unknown vertical")
			return
		}
		vertical = v
	}
	page := transport.ParsePositiveInt(c.Query("page"), 1)
	pageSize := transport.ParsePositiveInt(c.Query("page_size"), 20)

	questions, total := h.Store.Questions(vertical, (page-1)*pageSize, pageSize)
	items := make([]questionItem, 0, len(questions))
	for _, q := range questions {
		items = append(items, h.questionItem(q))
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

// CreateQuestion handles POST /api/v1/questions.
func (h *Handler) CreateQuestion(c *gin.Context) {
	user, ok := h.Auth.RequireUser(c)
	if !ok {
		return
	}

	var req struct {
		Vertical string   `json:"vertical"`
		Title    string   `json:"title"`
		Body     string   `json:"body"`
		Category string   `json:"category"`
		Keywords []string `json:"keywords"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		transport.WriteError(c, http.StatusBadRequest, transport.CodeInvalidInput, "invalid json")
		return
	}
	if req.Vertical == "" {
		req.Vertical = string(user.Vertical)
	}

	question, err := h.Store.CreateQuestion(user.ID, badge.Vertical(req.Vertical), req.Title, req.Body, req.Category, req.Keywords)
	if err != nil {
		transport.WriteStoreError(c, err)
		return
	}
	h.award(user.ID, QuestionAskedXP, ReasonQuestionAsked)

	c.JSON(http.StatusCreated, h.questionItem(question))
}

// GetQuestion handles GET /api/v1/questions/:id.
func (h *Handler) GetQuestion(c *gin.Context) {
	question, ok := h.Store.GetQuestion(strings.TrimSpace(c.Param("id")))
	if !ok {
		transport.WriteError(c, http.StatusNotFound, transport.CodeInvalidInput, "not found")
		return
	}
	c.JSON(http.StatusOK, questionDetail{
		questionItem: h.questionItem(question),
		Opinions:     h.opinionItems(question.ID),
	})
}

// ListOpinions handles GET /api/v1/questions/:id/opinions.
func (h *Handler) ListOpinions(c *gin.Context) {
	question, ok := h.Store.GetQuestion(strings.TrimSpace(c.Param("id")))
	if !ok {
		transport.WriteError(c, http.StatusNotFound, transport.CodeInvalidInput, "not found")
		return
	}
	c.JSON(http.StatusOK, h.opinionItems(question.ID))
}

// CreateOpinion handles POST /api/v1/questions/:id/opinions.
func (h *Handler) CreateOpinion(c *gin.Context) {
	user, ok := h.Auth.RequireUser(c)
	if !ok {
		return
	}

	var req struct {
		Body       string `json:"body"`
		Confidence int    `json:"confidence"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		transport.WriteError(c, http.StatusBadRequest, transport.CodeInvalidInput, "invalid json")
		return
	}

	opinion, err := h.Store.CreateOpinion(strings.TrimSpace(c.Param("id")), user.ID, req.Body, req.Confidence)
	if err != nil {
		transport.WriteStoreError(c, err)
		return
	}
	h.award(user.ID, OpinionPostedXP, ReasonOpinionPosted)

	c.JSON(http.StatusCreated, h.opinionItem(opinion))
}

// AcceptOpinion handles POST /api/v1/questions/:id/opinions/:opinionID/accept.
// The opinion's author is credited.
func (h *Handler) AcceptOpinion(c *gin.Context) {
	user, ok := h.Auth.RequireUser(c)
	if !ok {
		return
	}

	opinion, err := h.Store.AcceptOpinion(strings.TrimSpace(c.Param("id")), strings.TrimSpace(c.Param("opinionID")), user.ID)
	if err != nil {
		transport.WriteStoreError(c, err)
		return
	}
	h.award(opinion.AuthorID, OpinionAcceptedXP, ReasonOpinionAccepted)

	c.JSON(http.StatusOK, h.opinionItem(opinion))
}

// award credits XP for an activity that already succeeded. A ledger failure
// is logged and does not fail the request.
func (h *Handler) award(userID string, amount int, reason string) {
	award, err := h.Store.AwardXP(userID, amount, reason)
	if err != nil {
		h.Logger.Error("award xp",
			zap.String("user_id", userID),
			zap.String("reason", reason),
			zap.Error(err),
		)
		return
	}
	if award.LevelChanged() {
		h.Logger.Info("level changed",
			zap.String("user_id", userID),
			zap.Int("from", award.LevelBefore),
			zap.Int("to", award.LevelAfter),
		)
	}
	if h.Publisher != nil {
		h.Publisher.PublishAward(award)
	}
}

func (h *Handler) author(userID string) profile.UserSummary {
	user, _ := h.Store.GetUser(userID)
	summary, err := h.Store.XPSummary(userID, h.now())
	if err != nil {
		return profile.NewUserSummary(user, 0)
	}
	return profile.NewUserSummary(user, summary.Total)
}

func (h *Handler) questionItem(q store.Question) questionItem {
	keywords := q.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return questionItem{
		ID:                     q.ID,
		Vertical:               string(q.Vertical),
		VerticalBg:             q.Vertical.BackgroundClass(),
		VerticalVariantClasses: q.Vertical.Variant().Classes(),
		Author:                 h.author(q.AuthorID),
		Title:                  q.Title,
		Body:                   q.Body,
		Category:               q.Category,
		Keywords:               keywords,
		AcceptedOpinionID:      q.AcceptedOpinionID,
		CreatedAt:              q.CreatedAt,
	}
}

func (h *Handler) opinionItem(o store.Opinion) opinionItem {
	return opinionItem{
		ID:         o.ID,
		QuestionID: o.QuestionID,
		Author:     h.author(o.AuthorID),
		Body:       o.Body,
		Confidence: o.Confidence,
		Accepted:   o.Accepted,
		CreatedAt:  o.CreatedAt,
	}
}

func (h *Handler) opinionItems(questionID string) []opinionItem {
	opinions := h.Store.Opinions(questionID)
	items := make([]opinionItem, 0, len(opinions))
	for _, o := range opinions {
		items = append(items, h.opinionItem(o))
	}
	return items
}
