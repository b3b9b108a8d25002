// Package services – AuthService
//
// AuthService is the local stand-in for the hosted auth collaborator: it owns
// accounts (bcrypt password hashes), issues opaque bearer tokens and notifies
// subscribers whenever a session starts, ends or the signed-in user record
// changes.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tbourn/rocketmentor/internal/domain"
	"github.com/tbourn/rocketmentor/internal/parser"
	"github.com/tbourn/rocketmentor/internal/repo"
)

// SessionEventKind classifies a session change.
type SessionEventKind string

const (
	SessionSignedIn  SessionEventKind = "signed_in"
	SessionSignedOut SessionEventKind = "signed_out"
	SessionUpdated   SessionEventKind = "updated"
)

// SessionEvent is delivered to OnSessionChange listeners. User is nil for
// SessionSignedOut.
type SessionEvent struct {
	Kind   SessionEventKind
	UserID string
	User   *domain.User
}

// SessionListener reacts to a session change.
type SessionListener func(ctx context.Context, ev SessionEvent)

// SignupInput is the signup form.
type SignupInput struct {
	FirstName       string
	Email           string
	Password        string
	ConfirmPassword string
	AcceptedTerms   bool
}

// AuthResult is a signed-in session.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
}

// AuthService manages accounts and sessions.
type AuthService struct {
	DB         *gorm.DB
	SessionTTL time.Duration
	HashCost   int
	Now        func() time.Time

	mu        sync.Mutex
	listeners []listenerEntry
	nextID    int
}

type listenerEntry struct {
	id int
	fn SessionListener
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *AuthService) ttl() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return 720 * time.Hour
}

func (s *AuthService) cost() int {
	if s.HashCost >= bcrypt.MinCost {
		return s.HashCost
	}
	return bcrypt.DefaultCost
}

// OnSessionChange registers fn. Listeners run synchronously, in registration
// order, after the change is stored.
func (s *AuthService) OnSessionChange(fn SessionListener) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *AuthService) emit(ctx context.Context, ev SessionEvent) {
	s.mu.Lock()
	ls := make([]SessionListener, len(s.listeners))
	for i, l := range s.listeners {
		ls[i] = l.fn
	}
	s.mu.Unlock()
	for _, fn := range ls {
		fn(ctx, ev)
	}
}

// Signup validates the form, creates the account and signs it in.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	tr := otel.Tracer("services/AuthService")
	ctx, span := tr.Start(ctx, "Signup")
	defer span.End()

	in.FirstName = strings.TrimSpace(in.FirstName)
	if err := invalid(parser.ValidateSignup(in.FirstName, strings.TrimSpace(in.Email), in.Password, in.ConfirmPassword, in.AcceptedTerms)); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost())
	if err != nil {
		return nil, fmt.Errorf("auth.Signup hash password: %w", err)
	}
	acc, err := repo.CreateAccount(ctx, s.DB, in.FirstName, in.Email, hash)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("auth.Signup: %w", err)
	}
	span.SetAttributes(attribute.String("user.id", acc.ID))
	return s.startSession(ctx, acc)
}

// Login checks the password and issues a new session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	tr := otel.Tracer("services/AuthService")
	ctx, span := tr.Start(ctx, "Login")
	defer span.End()

	if err := invalid(parser.ValidateLogin(email, password)); err != nil {
		return nil, err
	}
	acc, err := repo.GetAccountByEmail(ctx, s.DB, email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("auth.Login: %w", err)
	}
	if bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	span.SetAttributes(attribute.String("user.id", acc.ID))
	return s.startSession(ctx, acc)
}

func (s *AuthService) startSession(ctx context.Context, acc *domain.Account) (*AuthResult, error) {
	sess, err := repo.CreateSession(ctx, s.DB, acc.ID, s.ttl())
	if err != nil {
		return nil, fmt.Errorf("auth: create session: %w", err)
	}
	u := repo.AccountUser(acc)
	s.emit(ctx, SessionEvent{Kind: SessionSignedIn, UserID: acc.ID, User: &u})
	return &AuthResult{Token: sess.Token, ExpiresAt: sess.ExpiresAt, User: u}, nil
}

// Logout revokes token. Unknown tokens yield ErrUnauthorized.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	tr := otel.Tracer("services/AuthService")
	ctx, span := tr.Start(ctx, "Logout")
	defer span.End()

	userID, err := repo.DeleteSession(ctx, s.DB, token)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrUnauthorized
	}
	if err != nil {
		return fmt.Errorf("auth.Logout: %w", err)
	}
	span.SetAttributes(attribute.String("user.id", userID))
	s.emit(ctx, SessionEvent{Kind: SessionSignedOut, UserID: userID})
	return nil
}

// Resolve maps a bearer token to its user.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrUnauthorized
	}
	sess, err := repo.GetSession(ctx, s.DB, token, s.now())
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	return s.User(ctx, sess.UserID)
}

// User loads the public user record.
func (s *AuthService) User(ctx context.Context, userID string) (*domain.User, error) {
	acc, err := repo.GetAccount(ctx, s.DB, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	u := repo.AccountUser(acc)
	return &u, nil
}

// UpdateUser applies a partial update to the user record and notifies
// listeners with the new value.
func (s *AuthService) UpdateUser(ctx context.Context, userID string, f repo.AccountFlags) (*domain.User, error) {
	tr := otel.Tracer("services/AuthService")
	ctx, span := tr.Start(ctx, "UpdateUser", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	acc, err := repo.UpdateAccount(ctx, s.DB, userID, f)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("auth.UpdateUser: %w", err)
	}
	u := repo.AccountUser(acc)
	s.emit(ctx, SessionEvent{Kind: SessionUpdated, UserID: userID, User: &u})
	return &u, nil
}
