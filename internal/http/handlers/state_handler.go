// State and profile HTTP handlers.
//
//   - GET  /state                        (whole state snapshot, ETag support)
//   - POST /profile/tours/{page}         (dismiss a page tour)
//   - POST /profile/getting-started      (finish the getting-started guide)
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetState godoc
// @ID          getState
// @Summary     State snapshot
// @Description Returns the caller's whole state. Supports If-None-Match with a weak ETag
// @Description derived from the stored slices.
// @Tags        State
// @Produce     json
// @Param       Authorization  header  string  false  "Bearer token"
// @Param       If-None-Match  header  string  false  "ETag from a previous response"
// @Success     200  {object}  store.State
// @Success     304  "Not modified"
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /state [get]
func (h *Handlers) GetState(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	// ETag pre-check (best effort).
	if count, maxTS, err := h.profile.Version(ctx, uid); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.UnixNano()
		}
		etag := fmt.Sprintf(`W/"state:%s:%d:%d"`, uid, count, ts)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	st, err := h.profile.Snapshot(ctx, uid)
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, st)
}

// CompletePageTour godoc
// @ID          completePageTour
// @Summary     Dismiss a page tour
// @Tags        State
// @Produce     json
// @Param       page  path  string  true  "Page identifier"  example(weekly)
// @Success     200  {object}  store.State
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /profile/tours/{page} [post]
func (h *Handlers) CompletePageTour(c *gin.Context) {
	st, err := h.profile.CompletePageTour(c.Request.Context(), userID(c), c.Param("page"))
	if err != nil {
		failErr(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, st)
}

// CompleteGettingStarted godoc
// @ID          completeGettingStarted
// @Summary     Finish the getting-started guide
// @Tags        State
// @Produce     json
// @Success     200  {object}  store.State
// @Router      /profile/getting-started [post]
func (h *Handlers) CompleteGettingStarted(c *gin.Context) {
	st, err := h.profile.CompleteGettingStarted(c.Request.Context(), userID(c))
	if err != nil {
		failErr(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, st)
}
