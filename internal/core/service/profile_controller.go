package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/revtickets/portal/internal/api/metrics"
	"github.com/revtickets/portal/internal/core/domain"
	"github.com/revtickets/portal/internal/core/ports"
)

// ProfileState is where the profile screen is in its lifecycle.
type ProfileState string

const (
	StateInitializing   ProfileState = "INITIALIZING"
	StateRedirecting    ProfileState = "REDIRECTING"
	StateLoadingReviews ProfileState = "LOADING_REVIEWS"
	StatePopulated      ProfileState = "POPULATED"
	StateEmpty          ProfileState = "EMPTY"
	StateFailed         ProfileState = "FAILED"
)

// Settled reports whether no further transition can happen.
func (s ProfileState) Settled() bool {
	switch s {
	case StateRedirecting, StatePopulated, StateEmpty, StateFailed:
		return true
	}
	return false
}

// ProfileView is a snapshot of what the profile screen renders. A failed
// fetch renders like an empty one: Reviews is empty, State tells them apart.
type ProfileView struct {
	User           *domain.UserIdentity  `json:"user"`
	Reviews        []domain.ReviewRecord `json:"reviews"`
	LoadingReviews bool                  `json:"loadingReviews"`
	State          ProfileState          `json:"state"`
	CanAdmin       bool                  `json:"canAdmin"`
}

// ProfileController drives one profile screen. Each visit gets a fresh
// controller; nothing is shared between instances except the collaborators.
type ProfileController struct {
	auth    ports.AuthService
	reviews ports.ReviewClient
	nav     ports.Navigator
	routes  ports.Routes
	log     zerolog.Logger

	once sync.Once
	done chan struct{}

	mu   sync.Mutex
	view ProfileView
}

func NewProfileController(auth ports.AuthService, reviews ports.ReviewClient, nav ports.Navigator, routes ports.Routes, log zerolog.Logger) *ProfileController {
	return &ProfileController{
		auth:    auth,
		reviews: reviews,
		nav:     nav,
		routes:  routes,
		log:     log,
		done:    make(chan struct{}),
		view:    ProfileView{State: StateInitializing, Reviews: []domain.ReviewRecord{}},
	}
}

// Init reads the current identity and branches on its role. Administrators
// are sent to the admin area and no reviews are fetched; everyone else gets
// exactly one asynchronous fetch. Calls after the first are no-ops.
//
// The fetch outlives ctx cancellation and has no deadline of its own.
func (c *ProfileController) Init(ctx context.Context) {
	c.once.Do(func() { c.init(ctx) })
}

func (c *ProfileController) init(ctx context.Context) {
	user, _ := c.auth.CurrentUser(ctx)

	c.mu.Lock()
	c.view.User = user
	c.view.CanAdmin = user.IsAdmin()

	if user.IsAdmin() {
		c.view.State = StateRedirecting
		c.mu.Unlock()

		c.nav.Navigate(c.routes.Admin)
		c.settle(StateRedirecting)
		return
	}

	c.view.State = StateLoadingReviews
	c.view.LoadingReviews = true
	c.mu.Unlock()

	go c.loadMyReviews(context.WithoutCancel(ctx))
}

func (c *ProfileController) loadMyReviews(ctx context.Context) {
	reviews, err := c.reviews.MyReviews(ctx)

	c.mu.Lock()
	c.view.LoadingReviews = false
	switch {
	case err != nil:
		c.log.Warn().Err(err).Msg("error loading reviews")
		c.view.Reviews = []domain.ReviewRecord{}
		c.view.State = StateFailed
	case len(reviews) == 0:
		c.view.Reviews = []domain.ReviewRecord{}
		c.view.State = StateEmpty
	default:
		c.view.Reviews = reviews
		c.view.State = StatePopulated
	}
	state := c.view.State
	c.mu.Unlock()

	c.settle(state)
}

func (c *ProfileController) settle(state ProfileState) {
	metrics.ProfileLoadsTotal.WithLabelValues(string(state)).Inc()
	close(c.done)
}

// Done is closed once the screen has settled.
func (c *ProfileController) Done() <-chan struct{} {
	return c.done
}

// View returns a copy of the current view.
func (c *ProfileController) View() ProfileView {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.view
	v.Reviews = append([]domain.ReviewRecord(nil), c.view.Reviews...)
	if v.Reviews == nil {
		v.Reviews = []domain.ReviewRecord{}
	}
	return v
}

// Wait blocks until the screen settles or ctx ends, then returns the view.
func (c *ProfileController) Wait(ctx context.Context) ProfileView {
	select {
	case <-c.done:
	case <-ctx.Done():
	}
	return c.View()
}

// GoToBookings navigates to the user's bookings.
func (c *ProfileController) GoToBookings() {
	c.nav.Navigate(c.routes.Bookings)
}

// GoToAdmin navigates to the admin area. Only administrators may go there;
// before Init has run the identity is read from the auth service.
func (c *ProfileController) GoToAdmin(ctx context.Context) error {
	c.mu.Lock()
	user, initialized := c.view.User, c.view.State != StateInitializing
	c.mu.Unlock()

	if !initialized {
		user, _ = c.auth.CurrentUser(ctx)
	}
	if !user.IsAdmin() {
		return domain.ErrForbidden
	}
	c.nav.Navigate(c.routes.Admin)
	return nil
}

// Logout clears the session and sends the client to the login screen. It
// always navigates, even when clearing the store failed.
func (c *ProfileController) Logout(ctx context.Context) {
	if err := c.auth.Logout(ctx); err != nil {
		c.log.Error().Err(err).Msg("logout failed to clear credentials")
	}
	c.nav.Navigate(c.routes.Login)
}
