package core

import (
	"context"
	"log/slog"
	"time"

	"academycore/pkg/domain"
)

// SessionStore persists the active user apart from the aggregate snapshot.
type SessionStore interface {
	SaveSession(ctx context.Context, user domain.User) error
	// LoadSession returns nil without error when no session is stored.
	LoadSession(ctx context.Context) (*domain.User, error)
	ClearSession(ctx context.Context) error
}

// Credential is an email and password pair.
type Credential struct {
	Email    string
	Password string
}

// DefaultCredentials are the bootstrap demo accounts accepted when the user
// list has no match.
var DefaultCredentials = []Credential{
	{Email: "admin@academy.com", Password: "admin123"},
	{Email: "coach@academy.com", Password: "coach123"},
	{Email: "parent@academy.com", Password: "parent123"},
	{Email: "student@academy.com", Password: "student123"},
}

// DefaultLoginDelay is the simulated latency of a login attempt.
const DefaultLoginDelay = time.Second

// SessionConfig configures a SessionGate.
type SessionConfig struct {
	Store    *Store
	Sessions SessionStore
	// SeedUsers backs the default credential table.
	SeedUsers   []domain.User
	Credentials []Credential
	// Delay is the simulated login latency. Negative disables it.
	Delay  time.Duration
	Clock  Clock
	Logger *slog.Logger
}

// SessionGate validates logins and tracks the active user.
type SessionGate struct {
	store       *Store
	sessions    SessionStore
	seedUsers   []domain.User
	credentials []Credential
	delay       time.Duration
	clock       Clock
	logger      *slog.Logger
}

// NewSessionGate builds a gate from cfg.
func NewSessionGate(cfg SessionConfig) *SessionGate {
	g := &SessionGate{
		store:       cfg.Store,
		sessions:    cfg.Sessions,
		seedUsers:   cfg.SeedUsers,
		credentials: cfg.Credentials,
		delay:       cfg.Delay,
		clock:       cfg.Clock,
		logger:      cfg.Logger,
	}
	if g.credentials == nil {
		g.credentials = DefaultCredentials
	}
	if g.delay == 0 {
		g.delay = DefaultLoginDelay
	}
	if g.clock == nil {
		g.clock = ClockFunc(time.Now)
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// Login waits out the simulated latency, then accepts an active user whose
// email and password match exactly, or a default credential whose email
// belongs to a seed user. A default credential still needs that user to be
// present and active in the current users collection, unless the collection
// is empty. Cancelling ctx before the delay elapses fails the attempt.
// Failures are indistinguishable to the caller.
func (g *SessionGate) Login(ctx context.Context, email, password string) bool {
	if !g.wait(ctx) {
		return false
	}
	users := g.store.State().Users
	user, ok := matchUser(users, email, password)
	if !ok {
		user, ok = g.matchDefault(users, email, password)
	}
	if !ok {
		g.logger.Info("login rejected", "email", email)
		return false
	}

	now := domain.At(g.clock.Now())
	user.LastLogin = now
	user.Password = ""
	g.store.Dispatch(
		Update[domain.User]{ID: user.ID, Apply: func(u domain.User) domain.User {
			u.LastLogin = now
			return u
		}},
		SetCurrentUser{User: &user},
	)
	if g.sessions != nil {
		if err := g.sessions.SaveSession(ctx, user); err != nil {
			g.logger.Error("persist session", "user_id", user.ID, "error", err)
		}
	}
	g.logger.Info("login accepted", "user_id", user.ID, "role", user.Role)
	return true
}

func (g *SessionGate) wait(ctx context.Context) bool {
	if g.delay <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(g.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func matchUser(users []domain.User, email, password string) (domain.User, bool) {
	for _, u := range users {
		if u.Active && u.Email == email && u.Password == password {
			return u, true
		}
	}
	return domain.User{}, false
}

// matchDefault resolves a default credential to its seed identity, then to
// the live record of that identity in users.
func (g *SessionGate) matchDefault(users []domain.User, email, password string) (domain.User, bool) {
	var listed bool
	for _, c := range g.credentials {
		if c.Email == email && c.Password == password {
			listed = true
			break
		}
	}
	if !listed {
		return domain.User{}, false
	}
	var seeded *domain.User
	for i := range g.seedUsers {
		if g.seedUsers[i].Email == email {
			seeded = &g.seedUsers[i]
			break
		}
	}
	if seeded == nil {
		return domain.User{}, false
	}
	if len(users) == 0 {
		return *seeded, true
	}
	for _, u := range users {
		if u.ID == seeded.ID {
			return u, u.Active
		}
	}
	return domain.User{}, false
}

// Logout clears the active user and the stored session.
func (g *SessionGate) Logout(ctx context.Context) {
	g.store.Dispatch(SetCurrentUser{})
	if g.sessions == nil {
		return
	}
	if err := g.sessions.ClearSession(ctx); err != nil {
		g.logger.Error("clear session", "error", err)
	}
}

// Restore reinstates a stored session as the active user without checking
// credentials again.
func (g *SessionGate) Restore(ctx context.Context) bool {
	if g.sessions == nil {
		return false
	}
	user, err := g.sessions.LoadSession(ctx)
	if err != nil {
		g.logger.Warn("restore session", "error", err)
		return false
	}
	if user == nil {
		return false
	}
	g.store.Dispatch(SetCurrentUser{User: user})
	g.logger.Debug("session restored", "user_id", user.ID)
	return true
}

// Current returns a copy of the active user, or nil when logged out.
func (g *SessionGate) Current() *domain.User {
	u := g.store.State().CurrentUser
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}
