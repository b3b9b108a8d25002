// Weekly board HTTP handlers.
//
// Board:
//   - GET    /weeks/current
//   - GET    /weeks/{id}
//   - POST   /weeks/current/dump      (parse free text into cards)
//   - POST   /weeks/current/plan      (suggest sub-tasks and career moves)
//   - POST   /weeks/current/review
//
// Cards:
//   - POST   /weeks/{id}/cards
//   - PUT    /weeks/{id}/cards/{cardId}
//   - DELETE /weeks/{id}/cards/{cardId}
//   - POST   /weeks/{id}/cards/{cardId}/win
//   - GET    /weeks/{id}/cards/{cardId}/subtasks
//
// Career moves:
//   - POST   /weeks/{id}/moves/{moveId}/commit|complete|regenerate
//
// Promotion path:
//   - GET    /path
//   - POST   /path/milestones/{id}/toggle
//   - POST   /path/milestones/{id}/task
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/rocketmentor/internal/domain"
	"github.com/tbourn/rocketmentor/internal/services"
)

//
// DTOs
//

// DumpRequest is a free-form week description, e.g. "Mon: client call, deck".
type DumpRequest struct {
	Text string `json:"text" binding:"required" example:"Mon: client call\nTue: draft deck, review model"`
}

// DumpResponse lists the cards created from a dump.
type DumpResponse struct {
	Cards []domain.KanbanCard `json:"cards"`
}

// ReviewRequest closes the week with optional notes.
type ReviewRequest struct {
	Notes string `json:"notes" example:"Shipped the deck early"`
}

// CardWinResponse is a card turned into a win. Win is null when the card was
// already a win.
type CardWinResponse struct {
	Card domain.KanbanCard `json:"card"`
	Win  *domain.Win       `json:"win"`
}

// MoveCompleteResponse is a completed move and the win it produced, if new.
type MoveCompleteResponse struct {
	Move domain.CareerMove `json:"move"`
	Win  *domain.Win       `json:"win"`
}

// SubTasksResponse previews sub-task suggestions for a card.
type SubTasksResponse struct {
	SubTasks []domain.KanbanCard `json:"subTasks"`
}

//
// Board
//

// GetCurrentWeek godoc
// @ID          getCurrentWeek
// @Summary     Current week board
// @Description Creates this week's plan when missing. Sample cards are shown while the week is empty.
// @Tags        Weeks
// @Produce     json
// @Success     200  {object}  services.Board
// @Router      /weeks/current [get]
func (h *Handlers) GetCurrentWeek(c *gin.Context) {
	b, err := h.weeks.Current(c.Request.Context(), userID(c))
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, b)
}

// GetWeek godoc
// @ID          getWeek
// @Summary     Week board by id
// @Tags        Weeks
// @Produce     json
// @Param       id  path  string  true  "Week plan id"
// @Success     200  {object}  services.Board
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /weeks/{id} [get]
func (h *Handlers) GetWeek(c *gin.Context) {
	b, err := h.weeks.Board(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, b)
}

// ImportDump godoc
// @ID          importDump
// @Summary     Turn a brain dump into cards
// @Description Splits on commas and newlines; a leading weekday moves the day cursor.
// @Tags        Weeks
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.DumpRequest  true  "Free text"
// @Success     201   {object}  handlers.DumpResponse
// @Failure     400   {object}  handlers.ErrorResponse
// @Failure     409   {object}  handlers.ErrorResponse  "Session ended"
// @Router      /weeks/current/dump [post]
func (h *Handlers) ImportDump(c *gin.Context) {
	var req DumpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "text required")
		return
	}
	cards, err := h.weeks.ImportDump(c.Request.Context(), userID(c), req.Text)
	if err != nil {
		failErr(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, DumpResponse{Cards: cards})
}

// GeneratePlan godoc
// @ID          generatePlan
// @Summary     Generate the week plan
// @Description Adds sub-task suggestions for each task and replaces the career moves.
// @Tags        Weeks
// @Produce     json
// @Success     200  {object}  domain.WeekPlan
// @Failure     422  {object}  handlers.ErrorResponse  "No tasks"
// @Failure     409  {object}  handlers.ErrorResponse  "Session ended"
// @Router      /weeks/current/plan [post]
func (h *Handlers) GeneratePlan(c *gin.Context) {
	wp, err := h.weeks.GeneratePlan(c.Request.Context(), userID(c))
	if err != nil {
		failErr(c, err, ErrCodeGenerateFailed)
		return
	}
	ok(c, http.StatusOK, wp)
}

// ReviewWeek godoc
// @ID          reviewWeek
// @Summary     Mark the current week reviewed
// @Tags        Weeks
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.ReviewRequest  false  "Review notes"
// @Success     200   {object}  domain.WeekPlan
// @Router      /weeks/current/review [post]
func (h *Handlers) ReviewWeek(c *gin.Context) {
	var req ReviewRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
			return
		}
	}
	wp, err := h.weeks.ReviewWeek(c.Request.Context(), userID(c), req.Notes)
	if err != nil {
		failErr(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, wp)
}

//
// Cards
//

// AddCard godoc
// @ID          addCard
// @Summary     Add a card
// @Description Day defaults to today's column; an empty type is inferred from the title.
// @Tags        Cards
// @Accept      json
// @Produce     json
// @Param       id    path      string              true  "Week plan id"
// @Param       body  body      services.CardInput  true  "Card"
// @Success     201   {object}  domain.KanbanCard
// @Failure     400   {object}  handlers.ErrorResponse
// @Failure     404   {object}  handlers.ErrorResponse
// @Router      /weeks/{id}/cards [post]
func (h *Handlers) AddCard(c *gin.Context) {
	var in services.CardInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	card, err := h.weeks.AddCard(c.Request.Context(), userID(c), c.Param("id"), in)
	if err != nil {
		failErr(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, card)
}

// UpdateCard godoc
// @ID          updateCard
// @Summary     Edit or move a card
// @Tags        Cards
// @Accept      json
// @Produce     json
// @Param       id      path      string              true  "Week plan id"
// @Param       cardId  path      string              true  "Card id"
// @Param       body    body      services.CardPatch  true  "Changed fields"
// @Success     200     {object}  domain.KanbanCard
// @Failure     400     {object}  handlers.ErrorResponse
// @Failure     404     {object}  handlers.ErrorResponse
// @Router      /weeks/{id}/cards/{cardId} [put]
func (h *Handlers) UpdateCard(c *gin.Context) {
	var p services.CardPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	card, err := h.weeks.UpdateCard(c.Request.Context(), userID(c), c.Param("id"), c.Param("cardId"), p)
	if err != nil {
		failErr(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, card)
}

// DeleteCard godoc
// @ID          deleteCard
// @Summary     Delete a card
// @Tags        Cards
// @Param       id      path  string  true  "Week plan id"
// @Param       cardId  path  string  true  "Card id"
// @Success     204
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /weeks/{id}/cards/{cardId} [delete]
func (h *Handlers) DeleteCard(c *gin.Context) {
	if err := h.weeks.DeleteCard(c.Request.Context(), userID(c), c.Param("id"), c.Param("cardId")); err != nil {
		failErr(c, err, ErrCodeUpdateFailed)
		return
	}
	noContent(c)
}

// MarkCardWin godoc
// @ID          markCardWin
// @Summary     Record a card as a win
// @Description Completes the card and adds a win. Repeating the call adds nothing.
// @Tags        Cards
// @Produce     json
// @Param       id      path  string  true  "Week plan id"
// @Param       cardId  path  string  true  "Card id"
// @Success     200  {object}  handlers.CardWinResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /weeks/{id}/cards/{cardId}/win [post]
func (h *Handlers) MarkCardWin(c *gin.Context) {
	card, win, err := h.weeks.MarkCardWin(c.Request.Context(), userID(c), c.Param("id"), c.Param("cardId"))
	if err != nil {
		failErr(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, CardWinResponse{Card: card, Win: win})
}

// CardSubTasks godoc
// @ID          cardSubTasks
// @Summary     Preview sub-tasks for a card
// @Tags        Cards
// @Produce     json
// @Param       id      path  string  true  "Week plan id"
// @Param       cardId  path  string  true  "Card id"
// @Success     200  {object}  handlers.SubTasksResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /weeks/{id}/cards/{cardId}/subtasks [get]
func (h *Handlers) CardSubTasks(c *gin.Context) {
	tasks, err := h.weeks.SubTasks(c.Request.Context(), userID(c), c.Param("id"), c.Param("cardId"))
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, SubTasksResponse{SubTasks: tasks})
}

//
// Career moves
//

// CommitMove godoc
// @ID          commitMove
// @Summary     Commit to a career move
// @Tags        Moves
// @Produce     json
// @Param       id      path  string  true  "Week plan id"
// @Param       moveId  path  string  true  "Career move id"
// @Success     200  {object}  domain.CareerMove
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /weeks/{id}/moves/{moveId}/commit [post]
func (h *Handlers) CommitMove(c *gin.Context) {
	m, err := h.weeks.CommitMove(c.Request.Context(), userID(c), c.Param("id"), c.Param("moveId"))
	if err != nil {
		failErr(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, m)
}

// CompleteMove godoc
// @ID          completeMove
// @Summary     Complete a career move
// @Description Marks the move done and records a win the first time.
// @Tags        Moves
// @Produce     json
// @Param       id      path  string  true  "Week plan id"
// @Param       moveId  path  string  true  "Career move id"
// @Success     200  {object}  handlers.MoveCompleteResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /weeks/{id}/moves/{moveId}/complete [post]
func (h *Handlers) CompleteMove(c *gin.Context) {
	m, win, err := h.weeks.CompleteMove(c.Request.Context(), userID(c), c.Param("id"), c.Param("moveId"))
	if err != nil {
		failErr(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, MoveCompleteResponse{Move: m, Win: win})
}

// RegenerateMove godoc
// @ID          regenerateMove
// @Summary     Replace a career move
// @Description Generates a fresh move of the same category in the same slot.
// @Tags        Moves
// @Produce     json
// @Param       id      path  string  true  "Week plan id"
// @Param       moveId  path  string  true  "Career move id"
// @Success     200  {object}  domain.CareerMove
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /weeks/{id}/moves/{moveId}/regenerate [post]
func (h *Handlers) RegenerateMove(c *gin.Context) {
	m, err := h.weeks.RegenerateMove(c.Request.Context(), userID(c), c.Param("id"), c.Param("moveId"))
	if err != nil {
		failErr(c, err, ErrCodeGenerateFailed)
		return
	}
	ok(c, http.StatusOK, m)
}

//
// Promotion path
//

// GetPath godoc
// @ID          getPath
// @Summary     Promotion path
// @Tags        Path
// @Produce     json
// @Success     200  {object}  domain.PromotionPath
// @Failure     409  {object}  handlers.ErrorResponse  "Onboarding not completed"
// @Router      /path [get]
func (h *Handlers) GetPath(c *gin.Context) {
	p, err := h.weeks.Path(c.Request.Context(), userID(c))
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, p)
}

// ToggleMilestone godoc
// @ID          toggleMilestone
// @Summary     Toggle a milestone
// @Tags        Path
// @Produce     json
// @Param       id  path  string  true  "Milestone id"
// @Success     200  {object}  domain.PromotionMilestone
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     409  {object}  handlers.ErrorResponse  "Onboarding not completed"
// @Router      /path/milestones/{id}/toggle [post]
func (h *Handlers) ToggleMilestone(c *gin.Context) {
	m, err := h.weeks.ToggleMilestone(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failErr(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, m)
}

// AddMilestoneTask godoc
// @ID          addMilestoneTask
// @Summary     Put a milestone on this week's board
// @Tags        Path
// @Produce     json
// @Param       id  path  string  true  "Milestone id"
// @Success     201  {object}  domain.KanbanCard
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     409  {object}  handlers.ErrorResponse  "Onboarding not completed"
// @Router      /path/milestones/{id}/task [post]
func (h *Handlers) AddMilestoneTask(c *gin.Context) {
	card, err := h.weeks.AddMilestoneTask(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failErr(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, card)
}
