// Package services – ProfileService
//
// ProfileService exposes the whole state snapshot and the user-record flags
// that track guided tours.
package services

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/tbourn/rocketmentor/internal/repo"
	"github.com/tbourn/rocketmentor/internal/store"
)

// ProfileService serves the state snapshot and profile flags.
type ProfileService struct {
	Workspaces *Workspaces
	Auth       *AuthService
}

// Snapshot returns the user's whole state.
func (s *ProfileService) Snapshot(ctx context.Context, userID string) (store.State, error) {
	st, err := s.Workspaces.Open(ctx, userID)
	if err != nil {
		return store.State{}, err
	}
	return st.State(), nil
}

// Version summarizes the user's stored data for conditional requests: the
// number of stored slices and the latest write time.
func (s *ProfileService) Version(ctx context.Context, userID string) (int64, *time.Time, error) {
	if _, err := s.Workspaces.Open(ctx, userID); err != nil {
		return 0, nil, err
	}
	return repo.StorageStats(ctx, s.Workspaces.db, userID)
}

// CompletePageTour records that the tour of page was dismissed.
func (s *ProfileService) CompletePageTour(ctx context.Context, userID, page string) (store.State, error) {
	page = strings.TrimSpace(page)
	if page == "" {
		return store.State{}, ErrEmptyText
	}
	st, err := s.Workspaces.Open(ctx, userID)
	if err != nil {
		return store.State{}, err
	}
	next := st.Dispatch(store.CompletePageTour{Page: page})
	if next.User != nil {
		tours := slices.Clone(next.User.CompletedPageTours)
		if _, err := s.Auth.UpdateUser(ctx, userID, repo.AccountFlags{CompletedPageTours: tours}); err != nil {
			return store.State{}, err
		}
	}
	return st.State(), nil
}

// CompleteGettingStarted marks the getting-started guide as done.
func (s *ProfileService) CompleteGettingStarted(ctx context.Context, userID string) (store.State, error) {
	st, err := s.Workspaces.Open(ctx, userID)
	if err != nil {
		return store.State{}, err
	}
	st.Dispatch(store.CompleteGettingStarted{})
	done := true
	if _, err := s.Auth.UpdateUser(ctx, userID, repo.AccountFlags{GettingStartedCompleted: &done}); err != nil {
		return store.State{}, err
	}
	return st.State(), nil
}
