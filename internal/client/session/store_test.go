package session

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/botfolio/internal/client/client"
	"github.com/dmitrijs2005/botfolio/internal/client/models"
	"github.com/dmitrijs2005/botfolio/internal/client/repositories/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*************
 * Fakes
 *************/

type memRepo struct {
	mu       sync.Mutex
	kv       map[string][]byte
	setErr   error
	listErr  error
	clearErr error
	clears   int
}

func newMemRepo() *memRepo { return &memRepo{kv: map[string][]byte{}} }

func (m *memRepo) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.kv[key], nil
}

func (m *memRepo) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.kv[key] = value
	return nil
}

func (m *memRepo) SetMany(_ context.Context, values map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	for k, v := range values {
		m.kv[k] = v
	}
	return nil
}

func (m *memRepo) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.kv, key)
	return nil
}

func (m *memRepo) List(_ context.Context) (map[string][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make(map[string][]byte, len(m.kv))
	for k, v := range m.kv {
		out[k] = v
	}
	return out, nil
}

func (m *memRepo) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
	if m.clearErr != nil {
		return m.clearErr
	}
	m.kv = map[string][]byte{}
	return nil
}

func (m *memRepo) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.kv)
}

type recNav struct {
	mu     sync.Mutex
	routes []string
}

func (n *recNav) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
}

func (n *recNav) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.routes) == 0 {
		return ""
	}
	return n.routes[len(n.routes)-1]
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func bob() *models.User {
	return &models.User{
		ID:       "u1",
		Name:     "Bob",
		Username: "bob_01",
		Email:    "bob@example.com",
		Role:     models.RoleUser,
		Plan:     &models.Plan{Name: "basic"},
	}
}

func newTestStore(repo metadata.Repository) (*Store, *recNav, *fakeClock) {
	clk := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	nav := &recNav{}
	return NewStore(repo, nav, nil, WithClock(clk.Now)), nav, clk
}

/*************
 * Tests
 *************/

func TestNewStore_StartsInitializing(t *testing.T) {
	s, _, _ := newTestStore(newMemRepo())

	assert.True(t, s.Loading())
	assert.Equal(t, StateInitializing, s.State())
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.CurrentUser())
	assert.Equal(t, AccessPending, s.Require(""))
}

func TestLogin_PersistsAndNavigates(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	s, nav, clk := newTestStore(repo)

	require.NoError(t, s.Login(ctx, bob(), "T1"))

	assert.True(t, s.IsAuthenticated())
	assert.False(t, s.Loading())
	assert.Equal(t, "T1", s.Token())
	assert.Equal(t, "bob_01", s.CurrentUser().Username)
	assert.Equal(t, RouteDashboard, nav.last())

	want := clk.Now().Add(SessionWindow)
	assert.Equal(t, want, s.Snapshot().ExpiresAt)

	kv, _ := repo.List(ctx)
	assert.Equal(t, "T1", string(kv[KeyToken]))
	assert.Equal(t, strconv.FormatInt(want.UnixMilli(), 10), string(kv[KeyExpiry]))
	assert.Contains(t, string(kv[KeyUser]), `"username":"bob_01"`)
}

func TestLogin_RejectsPartialSession(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	s, nav, _ := newTestStore(repo)

	assert.ErrorIs(t, s.Login(ctx, nil, "T1"), ErrIncompleteSession)
	assert.ErrorIs(t, s.Login(ctx, bob(), ""), ErrIncompleteSession)

	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, 0, repo.len())
	assert.Empty(t, nav.routes)
}

func TestLogin_StorageFailureKeepsMemorySession(t *testing.T) {
	repo := newMemRepo()
	repo.setErr = errors.New("disk full")
	s, nav, _ := newTestStore(repo)

	require.NoError(t, s.Login(context.Background(), bob(), "T1"))
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, RouteDashboard, nav.last())
}

func TestCurrentUser_IsACopy(t *testing.T) {
	s, _, _ := newTestStore(newMemRepo())
	require.NoError(t, s.Login(context.Background(), bob(), "T1"))

	u := s.CurrentUser()
	u.Username = "mallory"
	u.Plan.Name = "premium"

	assert.Equal(t, "bob_01", s.CurrentUser().Username)
	assert.Equal(t, "basic", s.CurrentUser().Plan.Name)
}

func TestLoginThenRestore_YieldsSameUser(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	first, _, clk := newTestStore(repo)
	require.NoError(t, first.Login(ctx, bob(), "T1"))

	clk.Advance(2*time.Hour + 59*time.Minute)
	second := NewStore(repo, &recNav{}, nil, WithClock(clk.Now))
	second.Restore(ctx)

	assert.False(t, second.Loading())
	assert.True(t, second.IsAuthenticated())
	assert.Equal(t, first.CurrentUser(), second.CurrentUser())
	assert.Equal(t, "T1", second.Token())
}

func TestRestore_ExpiredRecordIsCleared(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	first, _, clk := newTestStore(repo)
	require.NoError(t, first.Login(ctx, bob(), "T1"))

	clk.Advance(SessionWindow)
	second := NewStore(repo, &recNav{}, nil, WithClock(clk.Now))
	second.Restore(ctx)

	assert.False(t, second.Loading())
	assert.Equal(t, StateUnauthenticated, second.State())
	assert.Equal(t, 0, repo.len())
}

func TestRestore_FailsClosed(t *testing.T) {
	future := strconv.FormatInt(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli(), 10)
	cases := []struct {
		name string
		kv   map[string]string
	}{
		{"empty", map[string]string{}},
		{"token only", map[string]string{KeyToken: "T1"}},
		{"missing expiry", map[string]string{KeyToken: "T1", KeyUser: `{"username":"bob_01"}`}},
		{"malformed user", map[string]string{KeyToken: "T1", KeyUser: `{bob`, KeyExpiry: future}},
		{"null user", map[string]string{KeyToken: "T1", KeyUser: `null`, KeyExpiry: future}},
		{"malformed expiry", map[string]string{KeyToken: "T1", KeyUser: `{"username":"bob_01"}`, KeyExpiry: "soon"}},
		{"stray transient keys", map[string]string{KeyGoogleSignupToken: "g", KeyGoogleUserData: "{}"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newMemRepo()
			for k, v := range tc.kv {
				repo.kv[k] = []byte(v)
			}
			s, _, _ := newTestStore(repo)
			s.Restore(context.Background())

			assert.False(t, s.Loading())
			assert.Equal(t, StateUnauthenticated, s.State())
			assert.Nil(t, s.CurrentUser())
			assert.Equal(t, "", s.Token())
			assert.Equal(t, 0, repo.len())
		})
	}
}

func TestRestore_StorageUnavailable(t *testing.T) {
	repo := newMemRepo()
	repo.listErr = errors.New("locked")
	s, _, _ := newTestStore(repo)

	s.Restore(context.Background())
	assert.False(t, s.Loading())
	assert.Equal(t, StateUnauthenticated, s.State())
}

func TestRestore_RunsOnce(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	s, _, _ := newTestStore(repo)
	s.Restore(ctx)
	require.Equal(t, 1, repo.clears)

	s.Restore(ctx)
	assert.Equal(t, 1, repo.clears)
}

func TestLazyExpiry_ClearsAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	s, nav, clk := newTestStore(repo)
	require.NoError(t, s.Login(ctx, bob(), "T1"))

	clk.Advance(SessionWindow - time.Millisecond)
	require.True(t, s.IsAuthenticated())

	clk.Advance(time.Millisecond)
	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, StateUnauthenticated, s.State())
	assert.Equal(t, 0, repo.len())
	assert.Equal(t, RouteLogin, nav.last())

	clears := repo.clears
	navs := len(nav.routes)
	for i := 0; i < 3; i++ {
		assert.Nil(t, s.CurrentUser())
		assert.Equal(t, "", s.Token())
	}
	assert.Equal(t, clears, repo.clears)
	assert.Equal(t, navs, len(nav.routes))
}

func TestLogout_ClearsEverything(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	s, nav, _ := newTestStore(repo)
	require.NoError(t, s.Login(ctx, bob(), "T1"))
	repo.kv[KeyGoogleSignupToken] = []byte("g")

	s.Logout(ctx)
	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, 0, repo.len())
	assert.Equal(t, RouteLogin, nav.last())

	// idempotent
	s.Logout(ctx)
	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, RouteLogin, nav.last())
}

func TestLogout_ThenLoginAgain(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(newMemRepo())
	require.NoError(t, s.Login(ctx, bob(), "T1"))
	s.Logout(ctx)

	require.NoError(t, s.Login(ctx, bob(), "T2"))
	assert.Equal(t, "T2", s.Token())
}

func TestRequire(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(newMemRepo())
	s.Restore(ctx)

	assert.Equal(t, AccessDenied, s.Require(""))
	assert.Equal(t, AccessDenied, s.Require(models.RoleAdmin))

	require.NoError(t, s.Login(ctx, bob(), "T1"))
	assert.Equal(t, AccessGranted, s.Require(""))
	assert.Equal(t, AccessGranted, s.Require(models.RoleUser))
	assert.Equal(t, AccessDenied, s.Require(models.RoleAdmin))

	admin := bob()
	admin.Role = models.RoleAdmin
	require.NoError(t, s.Login(ctx, admin, "T2"))
	assert.Equal(t, AccessGranted, s.Require(models.RoleAdmin))
}

func TestSubscribe_ReceivesTransitions(t *testing.T) {
	ctx := context.Background()
	s, _, clk := newTestStore(newMemRepo())

	var got []State
	cancel := s.Subscribe(func(snap Snapshot) { got = append(got, snap.State) })

	s.Restore(ctx)
	require.NoError(t, s.Login(ctx, bob(), "T1"))
	clk.Advance(SessionWindow)
	_ = s.IsAuthenticated()

	cancel()
	cancel()
	require.NoError(t, s.Login(ctx, bob(), "T2"))

	assert.Equal(t, []State{StateUnauthenticated, StateAuthenticated, StateUnauthenticated}, got)
}

func TestSubscriber_CanReadStore(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(newMemRepo())

	var seen string
	s.Subscribe(func(Snapshot) {
		if u := s.CurrentUser(); u != nil {
			seen = u.Username
		}
	})
	require.NoError(t, s.Login(ctx, bob(), "T1"))
	assert.Equal(t, "bob_01", seen)
}

func TestConcurrentReads(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	s, nav, clk := newTestStore(repo)
	require.NoError(t, s.Login(ctx, bob(), "T1"))
	clk.Advance(SessionWindow)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Token()
			_ = s.CurrentUser()
		}()
	}
	wg.Wait()

	assert.False(t, s.IsAuthenticated())
	logins := 0
	for _, r := range nav.routes {
		if r == RouteLogin {
			logins++
		}
	}
	assert.Equal(t, 1, logins)
}

func TestStore_WithSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := client.InitDatabase(ctx, filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := metadata.NewSQLiteRepository(db)

	clk := &fakeClock{now: time.Now()}
	first := NewStore(repo, &recNav{}, nil, WithClock(clk.Now))
	require.NoError(t, first.Login(ctx, bob(), "T1"))

	second := NewStore(repo, &recNav{}, nil, WithClock(clk.Now))
	second.Restore(ctx)
	require.True(t, second.IsAuthenticated())
	assert.Equal(t, "bob_01", second.CurrentUser().Username)

	second.Logout(ctx)
	kv, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, kv)
}

func TestWithWindow(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	s := NewStore(newMemRepo(), nil, nil, WithClock(clk.Now), WithWindow(time.Minute))
	require.NoError(t, s.Login(context.Background(), bob(), "T1"))

	clk.Advance(time.Minute)
	assert.False(t, s.IsAuthenticated())
}
