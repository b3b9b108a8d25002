// Win HTTP handlers.
//
//   - GET    /wins                   (filter, optional relevance sort, paginated)
//   - POST   /wins
//   - GET    /wins/export            (csv or markdown download)
//   - GET    /wins/{id}
//   - PUT    /wins/{id}
//   - DELETE /wins/{id}
//   - POST   /wins/{id}/regenerate   (fresh STAR description)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/rocketmentor/internal/domain"
	"github.com/tbourn/rocketmentor/internal/services"
)

// ListWinsResponse is a page of wins plus the distinct project names, which
// clients use to populate the project filter.
type ListWinsResponse struct {
	Wins       []domain.Win `json:"wins"`
	Projects   []string     `json:"projects"`
	Pagination Pagination   `json:"pagination"`
}

// ListWins godoc
// @ID          listWins
// @Summary     List wins
// @Description Filters by a case-insensitive substring of title or description, a competency tag
// @Description and a project. sort=relevance orders matches by word overlap with q.
// @Tags        Wins
// @Produce     json
// @Param       q           query  string  false  "Text filter"
// @Param       competency  query  string  false  "Competency id"
// @Param       project     query  string  false  "Project name"
// @Param       sort        query  string  false  "relevance"  Enums(relevance)
// @Param       page        query  int     false  "Page number"     minimum(1) default(1)
// @Param       page_size   query  int     false  "Items per page (0 = all)"  minimum(0) maximum(100) default(0)
// @Success     200  {object}  handlers.ListWinsResponse
// @Router      /wins [get]
func (h *Handlers) ListWins(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	f := services.WinFilter{
		Query:           strings.TrimSpace(c.Query("q")),
		Competency:      strings.TrimSpace(c.Query("competency")),
		Project:         strings.TrimSpace(c.Query("project")),
		SortByRelevance: strings.EqualFold(c.Query("sort"), "relevance"),
	}
	wins, err := h.wins.List(ctx, uid, f)
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	projects, err := h.wins.Projects(ctx, uid)
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}

	page, pageSize := clampPagination(c)
	items, pg := paginate(wins, page, pageSize)
	ok(c, http.StatusOK, ListWinsResponse{Wins: items, Projects: projects, Pagination: pg})
}

// AddWin godoc
// @ID          addWin
// @Summary     Capture a win
// @Description Title and STAR description are generated from the raw text.
// @Tags        Wins
// @Accept      json
// @Produce     json
// @Param       body  body      services.WinInput  true  "Win"
// @Success     201   {object}  domain.Win
// @Failure     400   {object}  handlers.ErrorResponse
// @Router      /wins [post]
func (h *Handlers) AddWin(c *gin.Context) {
	var in services.WinInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	w, err := h.wins.Add(c.Request.Context(), userID(c), in)
	if err != nil {
		failErr(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, w)
}

// GetWin godoc
// @ID          getWin
// @Summary     Get a win
// @Tags        Wins
// @Produce     json
// @Param       id  path  string  true  "Win id"
// @Success     200  {object}  domain.Win
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /wins/{id} [get]
func (h *Handlers) GetWin(c *gin.Context) {
	w, err := h.wins.Get(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, w)
}

// UpdateWin godoc
// @ID          updateWin
// @Summary     Edit a win
// @Tags        Wins
// @Accept      json
// @Produce     json
// @Param       id    path      string             true  "Win id"
// @Param       body  body      services.WinPatch  true  "Changed fields"
// @Success     200   {object}  domain.Win
// @Failure     400   {object}  handlers.ErrorResponse
// @Failure     404   {object}  handlers.ErrorResponse
// @Router      /wins/{id} [put]
func (h *Handlers) UpdateWin(c *gin.Context) {
	var p services.WinPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	w, err := h.wins.Update(c.Request.Context(), userID(c), c.Param("id"), p)
	if err != nil {
		failErr(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, w)
}

// DeleteWin godoc
// @ID          deleteWin
// @Summary     Delete a win
// @Tags        Wins
// @Param       id  path  string  true  "Win id"
// @Success     204
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /wins/{id} [delete]
func (h *Handlers) DeleteWin(c *gin.Context) {
	if err := h.wins.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		failErr(c, err, ErrCodeUpdateFailed)
		return
	}
	noContent(c)
}

// RegenerateWin godoc
// @ID          regenerateWin
// @Summary     Regenerate a win description
// @Tags        Wins
// @Produce     json
// @Param       id  path  string  true  "Win id"
// @Success     200  {object}  domain.Win
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /wins/{id}/regenerate [post]
func (h *Handlers) RegenerateWin(c *gin.Context) {
	w, err := h.wins.RegenerateDescription(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failErr(c, err, ErrCodeGenerateFailed)
		return
	}
	ok(c, http.StatusOK, w)
}

// ExportWins godoc
// @ID          exportWins
// @Summary     Download the win history
// @Tags        Wins
// @Produce     text/csv
// @Produce     text/markdown
// @Param       format  query  string  false  "Export format"  Enums(csv, markdown)  default(csv)
// @Success     200  {file}    file
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /wins/export [get]
func (h *Handlers) ExportWins(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", services.ExportCSV))
	if format == "md" {
		format = services.ExportMarkdown
	}
	exp, err := h.wins.Export(c.Request.Context(), userID(c), format)
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+exp.Filename+`"`)
	c.Data(http.StatusOK, exp.ContentType, exp.Body)
}
