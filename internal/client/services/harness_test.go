package services

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/botfolio/internal/client/client"
	"github.com/dmitrijs2005/botfolio/internal/client/entitlement"
	"github.com/dmitrijs2005/botfolio/internal/client/models"
	"github.com/dmitrijs2005/botfolio/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/botfolio/internal/client/session"
	"github.com/dmitrijs2005/botfolio/internal/mockapi"
	"github.com/dmitrijs2005/botfolio/internal/mockapi/config"
)

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

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// env wires the real client stack to an in-process mock API.
type env struct {
	clock    *clock
	cfg      *config.Config
	server   *mockapi.Server
	repo     metadata.Repository
	nav      *recNav
	store    *session.Store
	api      *client.HTTPClient
	resolver *entitlement.Resolver

	auth     AuthService
	profile  ProfileService
	payment  PaymentService
	projects ProjectService
	admin    AdminService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	clk := &clock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}

	cfg := &config.Config{}
	cfg.LoadDefaults()
	srv := mockapi.NewServer(cfg, nil, mockapi.WithClock(clk.Now))
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	db, err := client.InitDatabase(ctx, filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := metadata.NewSQLiteRepository(db)

	nav := &recNav{}
	store := session.NewStore(repo, nav, nil, session.WithClock(clk.Now))
	store.Restore(ctx)

	api := client.NewHTTPClient(ts.URL+"/api", 5*time.Second, store, nil)
	res := entitlement.NewResolver(store, entitlement.WithClock(clk.Now))

	return &env{
		clock:    clk,
		cfg:      cfg,
		server:   srv,
		repo:     repo,
		nav:      nav,
		store:    store,
		api:      api,
		resolver: res,
		auth:     NewAuthService(api, store, repo, nav, nil),
		profile:  NewProfileService(api, store, res, nil),
		payment:  NewPaymentService(api, store, res, nil),
		projects: NewProjectService(api, store, res, nil),
		admin:    NewAdminService(api, store, nil),
	}
}

func (e *env) signup(t *testing.T, username string) *models.User {
	t.Helper()
	require.NoError(t, e.auth.Signup(context.Background(), SignupForm{
		Name:            "Test " + username,
		Username:        username,
		Email:           username + "@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		AcceptTerms:     true,
	}))
	u := e.store.CurrentUser()
	require.NotNil(t, u)
	return u
}

func (e *env) checkout() Checkout {
	return DevCheckout{Secret: []byte(e.cfg.PaymentSecret)}
}
