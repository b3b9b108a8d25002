// Onboarding HTTP handlers.
//
//   - GET   /onboarding
//   - PATCH /onboarding
//   - PUT   /onboarding/competencies/{id}
//   - GET   /onboarding/competencies/{id}/example
//   - POST  /onboarding/complete
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/rocketmentor/internal/domain"
	"github.com/tbourn/rocketmentor/internal/store"
)

// AssessmentRequest scores one competency.
type AssessmentRequest struct {
	Score   int    `json:"score" binding:"required" example:"4"`
	Example string `json:"example" example:"Led the diligence workstream on a $2B deal"`
}

// ExampleResponse carries a sample competency example.
type ExampleResponse struct {
	Example string `json:"example"`
}

// GetOnboarding godoc
// @ID          getOnboarding
// @Summary     Onboarding answers
// @Tags        Onboarding
// @Produce     json
// @Success     200  {object}  domain.OnboardingData
// @Router      /onboarding [get]
func (h *Handlers) GetOnboarding(c *gin.Context) {
	o, err := h.onboarding.Get(c.Request.Context(), userID(c))
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, o)
}

// PatchOnboarding godoc
// @ID          patchOnboarding
// @Summary     Update onboarding answers
// @Description Applies the present fields. Enum values, the check-in day and time are validated.
// @Tags        Onboarding
// @Accept      json
// @Produce     json
// @Param       body  body      store.OnboardingPatch  true  "Partial answers"
// @Success     200   {object}  domain.OnboardingData
// @Failure     400   {object}  handlers.ErrorResponse  "Validation failed"
// @Router      /onboarding [patch]
func (h *Handlers) PatchOnboarding(c *gin.Context) {
	var p store.OnboardingPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	o, err := h.onboarding.Patch(c.Request.Context(), userID(c), p)
	if err != nil {
		failErr(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, o)
}

// PutAssessment godoc
// @ID          putAssessment
// @Summary     Score a competency
// @Tags        Onboarding
// @Accept      json
// @Produce     json
// @Param       id    path      string                      true  "Competency id"  example(problem_solving)
// @Param       body  body      handlers.AssessmentRequest  true  "Score 1-5 and example"
// @Success     200   {object}  domain.OnboardingData
// @Failure     400   {object}  handlers.ErrorResponse
// @Router      /onboarding/competencies/{id} [put]
func (h *Handlers) PutAssessment(c *gin.Context) {
	var req AssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "score required")
		return
	}
	o, err := h.onboarding.UpdateAssessment(c.Request.Context(), userID(c), domain.CompetencyAssessment{
		CompetencyID: c.Param("id"),
		Score:        req.Score,
		Example:      req.Example,
	})
	if err != nil {
		failErr(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, o)
}

// GetCompetencyExample godoc
// @ID          getCompetencyExample
// @Summary     Sample example for a competency
// @Description Picks a sample tailored to the firm type chosen so far.
// @Tags        Onboarding
// @Produce     json
// @Param       id  path  string  true  "Competency id"
// @Success     200  {object}  handlers.ExampleResponse
// @Router      /onboarding/competencies/{id}/example [get]
func (h *Handlers) GetCompetencyExample(c *gin.Context) {
	ex, err := h.onboarding.Example(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, ExampleResponse{Example: ex})
}

// CompleteOnboarding godoc
// @ID          completeOnboarding
// @Summary     Finish onboarding
// @Description Derives the manager canvas and promotion path from the answers.
// @Tags        Onboarding
// @Produce     json
// @Success     200  {object}  store.State
// @Router      /onboarding/complete [post]
func (h *Handlers) CompleteOnboarding(c *gin.Context) {
	st, err := h.onboarding.Complete(c.Request.Context(), userID(c))
	if err != nil {
		failErr(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, st)
}
