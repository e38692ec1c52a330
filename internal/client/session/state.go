package session

import (
	"time"

	"github.com/dmitrijs2005/botfolio/internal/client/models"
)

// State is the lifecycle position of the session.
type State int

const (
	StateInitializing State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable view of the session handed to subscribers.
type Snapshot struct {
	State     State
	User      *models.User
	ExpiresAt time.Time
}

// Access is the outcome of a route gate.
type Access int

const (
	// AccessPending means the startup restore has not finished; render neutrally.
	AccessPending Access = iota
	AccessDenied
	AccessGranted
)

func (a Access) String() string {
	switch a {
	case AccessPending:
		return "pending"
	case AccessDenied:
		return "denied"
	case AccessGranted:
		return "granted"
	default:
		return "unknown"
	}
}

// Navigator moves the application to a route.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

const (
	RouteLogin                = "/login"
	RouteDashboard            = "/dashboard"
	RouteCompleteGoogleSignup = "/complete-google-signup"
)

// Persisted keys.
const (
	KeyToken  = "token"
	KeyUser   = "user"
	KeyExpiry = "expiry"

	KeyGoogleSignupToken = "googleSignupToken"
	KeyGoogleUserData    = "googleUserData"
)

// SessionWindow is how long a login stays valid.
const SessionWindow = 3 * time.Hour
