// Stateless parser endpoints.
//
//   - POST /tools/parse-week   (preview a brain dump without saving it)
//   - POST /tools/parse-time   (normalize a loose time of day)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/rocketmentor/internal/domain"
	"github.com/tbourn/rocketmentor/internal/parser"
)

// ParseWeekRequest is text to split into cards.
type ParseWeekRequest struct {
	Text string `json:"text" example:"Mon: client call, deck\nWed: model review"`
}

// ParseWeekResponse lists the parsed cards.
type ParseWeekResponse struct {
	Cards []domain.KanbanCard `json:"cards"`
}

// ParseTimeRequest is a loose time of day such as "830pm" or "8:30 PM".
type ParseTimeRequest struct {
	Input string `json:"input" example:"8:30pm"`
}

// ParseTimeResponse is the canonical form. Valid is false when the input
// could not be understood, in which case Value and Display are empty.
type ParseTimeResponse struct {
	Valid   bool   `json:"valid"`
	Value   string `json:"value,omitempty" example:"20:30"`
	Display string `json:"display,omitempty" example:"8:30 PM"`
}

// ParseWeek godoc
// @ID          parseWeek
// @Summary     Parse a week dump
// @Description Returns the cards a dump would produce. Nothing is stored.
// @Tags        Tools
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.ParseWeekRequest  true  "Text"
// @Success     200   {object}  handlers.ParseWeekResponse
// @Failure     400   {object}  handlers.ErrorResponse
// @Router      /tools/parse-week [post]
func (h *Handlers) ParseWeek(c *gin.Context) {
	var req ParseWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	ok(c, http.StatusOK, ParseWeekResponse{Cards: parser.ParseWeekDump(req.Text, uuid.NewString)})
}

// ParseTime godoc
// @ID          parseTime
// @Summary     Parse a time of day
// @Tags        Tools
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.ParseTimeRequest  true  "Input"
// @Success     200   {object}  handlers.ParseTimeResponse
// @Failure     400   {object}  handlers.ErrorResponse
// @Router      /tools/parse-time [post]
func (h *Handlers) ParseTime(c *gin.Context) {
	var req ParseTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	hhmm, valid := parser.ParseTimeInput(req.Input)
	if !valid {
		ok(c, http.StatusOK, ParseTimeResponse{})
		return
	}
	ok(c, http.StatusOK, ParseTimeResponse{Valid: true, Value: hhmm, Display: parser.FormatTimeForDisplay(hhmm)})
}
