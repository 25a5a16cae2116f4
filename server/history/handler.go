// Package history lists the caller's XP ledger.
package history

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/verdict-com/verdict/server/auth"
	"github.com/verdict-com/verdict/server/internal/transport"
	"github.com/verdict-com/verdict/server/store"
)

const maxPageSize = 100

// Handler provides XP history endpoints.
type Handler struct {
	Store  store.API
	Auth   *auth.Service
	Logger *zap.Logger
}

// EventResponse is a single ledger entry in API responses.
type EventResponse struct {
	ID        string `json:"id"`
	Amount    int    `json:"amount"`
	Reason    string `json:"reason"`
	CreatedAt string `json:"created_at"`
}

// ListResponse is the response for listing XP events.
type ListResponse struct {
	Data     []EventResponse `json:"data"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// List handles GET /api/v1/users/me/xp-events, newest first.
func (h *Handler) List(c *gin.Context) {
	user, ok := h.Auth.RequireUser(c)
	if !ok {
		return
	}

	page := transport.ParsePositiveInt(c.Query("page"), 1)
	pageSize := transport.ParsePositiveInt(c.Query("page_size"), 20)
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	events, total, err := h.Store.XPEvents(user.ID, (page-1)*pageSize, pageSize)
	if err != nil {
		h.Logger.Error("list xp events", zap.String("user_id", user.ID), zap.Error(err))
		transport.WriteStoreError(c, err)
		return
	}

	results := make([]EventResponse, 0, len(events))
	for _, e := range events {
		results = append(results, EventResponse{
			ID:        e.ID,
			Amount:    e.Amount,
			Reason:    e.Reason,
			CreatedAt: e.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, ListResponse{
		Data:     results,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}
