// Auth HTTP handlers.
//
//   - POST /auth/signup   (create account, start session)
//   - POST /auth/login    (start session)
//   - POST /auth/logout   (end the bearer session)
//   - GET  /auth/me       (current user)
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/rocketmentor/internal/domain"
	"github.com/tbourn/rocketmentor/internal/http/middleware"
	"github.com/tbourn/rocketmentor/internal/services"
)

// SignupRequest is the signup form. Field rules are enforced by the service
// so that every problem is reported at once.
type SignupRequest struct {
	FirstName       string `json:"firstName" example:"Ada"`
	Email           string `json:"email" example:"ada@example.com"`
	Password        string `json:"password" example:"correct-horse"`
	ConfirmPassword string `json:"confirmPassword" example:"correct-horse"`
	AcceptedTerms   bool   `json:"acceptedTerms" example:"true"`
}

// LoginRequest is the login form.
type LoginRequest struct {
	Email    string `json:"email" example:"ada@example.com"`
	Password string `json:"password" example:"correct-horse"`
}

// SessionResponse is a started session.
type SessionResponse struct {
	Token     string      `json:"token" example:"3q2-7w..."`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      domain.User `json:"user"`
}

func sessionResponse(r *services.AuthResult) SessionResponse {
	return SessionResponse{Token: r.Token, ExpiresAt: r.ExpiresAt, User: r.User}
}

// Signup godoc
// @ID          signup
// @Summary     Create an account
// @Description Validates the form, creates the account and starts a session.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.SignupRequest  true  "Signup form"
// @Success     201   {object}  handlers.SessionResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     409   {object}  handlers.ErrorResponse  "Email taken"
// @Router      /auth/signup [post]
func (h *Handlers) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	res, err := h.auth.Signup(c.Request.Context(), services.SignupInput{
		FirstName:       req.FirstName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		AcceptedTerms:   req.AcceptedTerms,
	})
	if err != nil {
		failErr(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, sessionResponse(res))
}

// Login godoc
// @ID          login
// @Summary     Sign in
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.LoginRequest  true  "Credentials"
// @Success     200   {object}  handlers.SessionResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     401   {object}  handlers.ErrorResponse  "Invalid credentials"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, sessionResponse(res))
}

// Logout godoc
// @ID          logout
// @Summary     Sign out
// @Description Ends the bearer session. The user's stored data is kept.
// @Tags        Auth
// @Param       Authorization  header  string  true  "Bearer token"
// @Success     204
// @Failure     401  {object}  handlers.ErrorResponse  "Not signed in"
// @Router      /auth/logout [post]
func (h *Handlers) Logout(c *gin.Context) {
	tok := middleware.BearerToken(c)
	if tok == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "missing bearer token")
		return
	}
	if err := h.auth.Logout(c.Request.Context(), tok); err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	noContent(c)
}

// Me godoc
// @ID          me
// @Summary     Current user
// @Tags        Auth
// @Produce     json
// @Param       Authorization  header  string  false  "Bearer token"
// @Success     200  {object}  domain.User
// @Failure     401  {object}  handlers.ErrorResponse  "Not signed in"
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown user"
// @Router      /auth/me [get]
func (h *Handlers) Me(c *gin.Context) {
	u, err := h.auth.User(c.Request.Context(), userID(c))
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, u)
}
