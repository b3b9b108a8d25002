// Coach HTTP handlers.
//
//   - GET    /coach/messages   (conversation, oldest first, paginated)
//   - POST   /coach/messages   (send a message, receive the coach reply)
//   - DELETE /coach/messages   (clear the conversation)
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// send exists for (user, key), the handler returns the recorded reply and
// sets `Idempotency-Replayed: true` instead of asking the coach again.
package handlers

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/rocketmentor/internal/domain"
	"github.com/tbourn/rocketmentor/internal/services"
)

// idempotency scope of coach sends
const coachScope = "coach"

//
// DTOs
//

// PostCoachMessageRequest is a message to the coach. Context optionally
// references the entities the message is about.
type PostCoachMessageRequest struct {
	Content string              `json:"content" binding:"required,min=1" example:"How do I get more visibility with my partner?"`
	Context *domain.ChatContext `json:"context,omitempty"`
}

// PostCoachMessageResponse wraps the coach reply.
type PostCoachMessageResponse struct {
	Message domain.ChatMessage `json:"message"`
}

// ListCoachMessagesResponse is a page of the conversation.
type ListCoachMessagesResponse struct {
	Messages   []domain.ChatMessage `json:"messages"`
	Pagination Pagination           `json:"pagination"`
}

// nlCollapseRE collapses runs of 3+ newlines to two, preserving paragraphs.
var nlCollapseRE = regexp.MustCompile(`\n{3,}`)

// sanitizeContent converts CRLF/CR to LF, collapses blank-line runs and trims.
func sanitizeContent(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = nlCollapseRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// PostCoachMessage godoc
// @ID          postCoachMessage
// @Summary     Talk to the coach
// @Description Appends the user message and returns the generated reply after a short delay.
// @Description Supports idempotency via the Idempotency-Key header (same key → same reply).
// @Tags        Coach
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key  header  string  false  "Idempotency key for safe retries"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.PostCoachMessageRequest  true  "Message"
// @Success     200  {object}  handlers.PostCoachMessageResponse  "Coach reply"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse  "Session ended"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /coach/messages [post]
func (h *Handlers) PostCoachMessage(c *gin.Context) {
	ctx := c.Request.Context()

	var req PostCoachMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}
	content := sanitizeContent(req.Content)
	if content == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}
	if utf8.RuneCountInString(content) > services.MaxCoachMessageRunes {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, fmt.Sprintf("content too long: max %d runes", services.MaxCoachMessageRunes))
		return
	}

	uid := userID(c)

	// Idempotency (replay path).
	idemKey := idempotencyKey(c)
	if id, found := h.replayID(ctx, uid, coachScope, idemKey); found {
		if prev, exists, err := h.coach.Message(ctx, uid, id); err == nil && exists {
			c.Header("Idempotency-Replayed", "true")
			ok(c, http.StatusOK, PostCoachMessageResponse{Message: prev})
			return
		}
	}

	reply, err := h.coach.Send(ctx, uid, content, req.Context)
	if err != nil {
		failErr(c, err, ErrCodeGenerateFailed)
		return
	}

	// Idempotency (store path) – best effort.
	h.remember(ctx, uid, coachScope, idemKey, reply.ID, http.StatusOK)

	ok(c, http.StatusOK, PostCoachMessageResponse{Message: reply})
}

// ListCoachMessages godoc
// @ID          listCoachMessages
// @Summary     Coach conversation
// @Tags        Coach
// @Produce     json
// @Param       page       query  int  false  "Page number"               minimum(1) default(1)
// @Param       page_size  query  int  false  "Items per page (0 = all)"  minimum(0) maximum(100) default(0)
// @Success     200  {object}  handlers.ListCoachMessagesResponse
// @Router      /coach/messages [get]
func (h *Handlers) ListCoachMessages(c *gin.Context) {
	msgs, err := h.coach.History(c.Request.Context(), userID(c))
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	page, pageSize := clampPagination(c)
	items, pg := paginate(msgs, page, pageSize)
	ok(c, http.StatusOK, ListCoachMessagesResponse{Messages: items, Pagination: pg})
}

// ClearCoachMessages godoc
// @ID          clearCoachMessages
// @Summary     Clear the coach conversation
// @Tags        Coach
// @Success     204
// @Router      /coach/messages [delete]
func (h *Handlers) ClearCoachMessages(c *gin.Context) {
	if err := h.coach.Clear(c.Request.Context(), userID(c)); err != nil {
		failErr(c, err, ErrCodeUpdateFailed)
		return
	}
	noContent(c)
}
