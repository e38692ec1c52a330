package session

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/botfolio/internal/client/models"
	"github.com/dmitrijs2005/botfolio/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/botfolio/internal/logging"
)

// clearTimeout bounds storage cleanup triggered from reads, which carry no context.
const clearTimeout = 5 * time.Second

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithWindow overrides SessionWindow.
func WithWindow(d time.Duration) Option {
	return func(s *Store) { s.window = d }
}

// Store is the single source of truth for who is logged in. It is safe for
// concurrent use.
type Store struct {
	repo   metadata.Repository
	nav    Navigator
	log    logging.Logger
	now    func() time.Time
	window time.Duration

	mu        sync.RWMutex
	state     State
	loading   bool
	user      *models.User
	token     string
	expiresAt time.Time

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

// NewStore builds a Store in StateInitializing. Call Restore once before
// serving reads.
func NewStore(repo metadata.Repository, nav Navigator, log logging.Logger, opts ...Option) *Store {
	if log == nil {
		log = logging.Nop()
	}
	s := &Store{
		repo:    repo,
		nav:     nav,
		log:     log.With("component", "session"),
		now:     time.Now,
		window:  SessionWindow,
		state:   StateInitializing,
		loading: true,
		subs:    make(map[int]func(Snapshot)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Login establishes a session for a user the API has already accepted,
// persists it and navigates to the dashboard. A storage failure is logged and
// leaves the in-memory session in place; the session is then lost on restart.
func (s *Store) Login(ctx context.Context, user *models.User, token string) error {
	if user == nil || token == "" {
		return ErrIncompleteSession
	}

	u := user.Clone()
	expiresAt := s.now().Add(s.window)

	s.mu.Lock()
	s.user = u
	s.token = token
	s.expiresAt = expiresAt
	s.state = StateAuthenticated
	s.loading = false
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.persist(ctx, u, token, expiresAt); err != nil {
		s.log.Error(ctx, "failed to persist session", "user", u.Username, "error", err)
	} else {
		s.log.Info(ctx, "session started", "user", u.Username, "expires_at", expiresAt)
	}

	s.notify(snap)
	s.navigate(RouteDashboard)
	return nil
}

func (s *Store) persist(ctx context.Context, u *models.User, token string, expiresAt time.Time) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.repo.SetMany(ctx, map[string][]byte{
		KeyToken:  []byte(token),
		KeyUser:   raw,
		KeyExpiry: []byte(strconv.FormatInt(expiresAt.UnixMilli(), 10)),
	})
}

// Logout clears the session in memory and every persisted key, then
// navigates to the login route. Calling it while logged out is harmless.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.resetLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.clearStorage(ctx)
	s.notify(snap)
	s.navigate(RouteLogin)
}

// Restore rehydrates a persisted session. It runs once; later calls are
// no-ops. Anything short of a complete, unexpired record is cleared.
func (s *Store) Restore(ctx context.Context) {
	s.mu.Lock()
	if !s.loading || s.state != StateInitializing {
		s.mu.Unlock()
		return
	}

	u, token, expiresAt, ok := s.load(ctx)
	if ok && s.now().Before(expiresAt) {
		s.user = u
		s.token = token
		s.expiresAt = expiresAt
		s.state = StateAuthenticated
	} else {
		s.resetLocked()
	}
	s.loading = false
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if snap.State == StateAuthenticated {
		s.log.Info(ctx, "session restored", "user", u.Username, "expires_at", expiresAt)
	} else {
		if ok {
			s.log.Info(ctx, "persisted session expired", "expired_at", expiresAt)
		}
		s.clearStorage(ctx)
	}
	s.notify(snap)
}

// load reads the persisted record. ok is false when any part is missing or
// malformed.
func (s *Store) load(ctx context.Context) (*models.User, string, time.Time, bool) {
	kv, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error(ctx, "failed to read persisted session", "error", err)
		return nil, "", time.Time{}, false
	}

	token, rawUser, rawExpiry := kv[KeyToken], kv[KeyUser], kv[KeyExpiry]
	if len(token) == 0 && len(rawUser) == 0 && len(rawExpiry) == 0 {
		return nil, "", time.Time{}, false
	}
	if len(token) == 0 || len(rawUser) == 0 || len(rawExpiry) == 0 {
		s.log.Warn(ctx, "partial persisted session, clearing",
			"has_token", len(token) > 0, "has_user", len(rawUser) > 0, "has_expiry", len(rawExpiry) > 0)
		return nil, "", time.Time{}, false
	}

	var u *models.User
	if err := json.Unmarshal(rawUser, &u); err != nil || u == nil {
		s.log.Warn(ctx, "corrupted persisted user, clearing", "error", err)
		return nil, "", time.Time{}, false
	}

	ms, err := strconv.ParseInt(string(rawExpiry), 10, 64)
	if err != nil {
		s.log.Warn(ctx, "corrupted persisted expiry, clearing", "error", err)
		return nil, "", time.Time{}, false
	}

	return u, string(token), time.UnixMilli(ms), true
}

// Loading reports whether the startup restore is still pending.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) State() State {
	return s.Snapshot().State
}

func (s *Store) IsAuthenticated() bool {
	return s.Snapshot().State == StateAuthenticated
}

// CurrentUser returns a copy of the logged-in user, or nil.
func (s *Store) CurrentUser() *models.User {
	return s.Snapshot().User
}

// Token returns the bearer token of the live session, or "". It makes the
// Store usable as the API client's token source.
func (s *Store) Token() string {
	s.expireIfDue()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Snapshot returns the current session after applying lazy expiry.
func (s *Store) Snapshot() Snapshot {
	s.expireIfDue()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Require gates a route. An empty role admits any authenticated user.
func (s *Store) Require(role models.Role) Access {
	if s.Loading() {
		return AccessPending
	}
	snap := s.Snapshot()
	if snap.State != StateAuthenticated || snap.User == nil {
		return AccessDenied
	}
	if role != "" && snap.User.Role != role {
		return AccessDenied
	}
	return AccessGranted
}

// Subscribe registers fn for session changes. fn runs on the goroutine that
// caused the change, outside the Store's lock. The returned func unsubscribes.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

// expireIfDue performs the Authenticated -> Unauthenticated transition when
// the deadline has passed.
func (s *Store) expireIfDue() {
	s.mu.RLock()
	due := s.state == StateAuthenticated && !s.now().Before(s.expiresAt)
	s.mu.RUnlock()
	if !due {
		return
	}

	s.mu.Lock()
	// another reader may have expired it meanwhile
	if s.state != StateAuthenticated || s.now().Before(s.expiresAt) {
		s.mu.Unlock()
		return
	}
	username := s.user.Username
	s.resetLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), clearTimeout)
	defer cancel()

	s.log.Info(ctx, "session expired", "user", username)
	s.clearStorage(ctx)
	s.notify(snap)
	s.navigate(RouteLogin)
}

func (s *Store) resetLocked() {
	s.user = nil
	s.token = ""
	s.expiresAt = time.Time{}
	s.state = StateUnauthenticated
	s.loading = false
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{State: s.state, User: s.user.Clone(), ExpiresAt: s.expiresAt}
}

func (s *Store) clearStorage(ctx context.Context) {
	if err := s.repo.Clear(ctx); err != nil {
		s.log.Error(ctx, "failed to clear persisted session", "error", err)
	}
}

func (s *Store) notify(snap Snapshot) {
	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (s *Store) navigate(route string) {
	if s.nav != nil {
		s.nav.Navigate(route)
	}
}
