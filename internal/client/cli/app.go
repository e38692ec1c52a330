package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/botfolio/internal/client/client"
	"github.com/dmitrijs2005/botfolio/internal/client/config"
	"github.com/dmitrijs2005/botfolio/internal/client/entitlement"
	"github.com/dmitrijs2005/botfolio/internal/client/models"
	"github.com/dmitrijs2005/botfolio/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/botfolio/internal/client/services"
	"github.com/dmitrijs2005/botfolio/internal/client/session"
	"github.com/dmitrijs2005/botfolio/internal/filex"
	"github.com/dmitrijs2005/botfolio/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// pingTimeout bounds one reachability probe.
const pingTimeout = 3 * time.Second

type App struct {
	config *config.Config
	log    logging.Logger

	store    *session.Store
	resolver *entitlement.Resolver

	authService    services.AuthService
	profileService services.ProfileService
	paymentService services.PaymentService
	projectService services.ProjectService
	adminService   services.AdminService
	checkout       services.Checkout

	closers []func() error

	reader *bufio.Reader
	out    io.Writer

	mu     sync.Mutex
	mode   Mode
	route  string
	editor *services.ProfileEditor
	links  []models.PortfolioLink
}

// NewApp opens the session storage selected by c and wires the services
// around it. The returned App must be closed.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.New(logging.Options{Level: c.LogLevel, Format: c.LogFormat})

	a := &App{
		config: c,
		log:    log,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		route:  session.RouteLogin,
	}

	repo, err := a.openStorage(ctx)
	if err != nil {
		return nil, err
	}

	a.store = session.NewStore(repo, a, log)
	a.resolver = entitlement.NewResolver(a.store)

	api := client.NewHTTPClient(c.APIBaseURL, c.RequestTimeout, a.store, log)
	a.authService = services.NewAuthService(api, a.store, repo, a, log)
	a.profileService = services.NewProfileService(api, a.store, a.resolver, log)
	a.paymentService = services.NewPaymentService(api, a.store, a.resolver, log)
	a.projectService = services.NewProjectService(api, a.store, a.resolver, log)
	a.adminService = services.NewAdminService(api, a.store, log)
	a.checkout = services.ConfirmCheckout{
		Confirm: a.confirmPayment,
		Next:    services.DevCheckout{Secret: []byte(c.PaymentSecret)},
	}

	a.store.Subscribe(a.onSession)
	a.store.Restore(ctx)
	return a, nil
}

func (a *App) openStorage(ctx context.Context) (metadata.Repository, error) {
	switch a.config.StorageBackend {
	case config.StorageRedis:
		rc, err := metadata.NewRedisClient(ctx, a.config.RedisAddr, a.config.RedisPassword, a.config.RedisDB)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rc.Close)
		return metadata.NewRedisRepository(rc, a.config.RedisNamespace), nil

	case config.StorageSQLite, "":
		path, err := filex.EnsureParentDir(a.config.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("error preparing database directory: %w", err)
		}
		db, err := client.InitDatabase(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("error initializing database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		return metadata.NewSQLiteRepository(db), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", a.config.StorageBackend)
	}
}

// Close releases the API client and the session storage.
func (a *App) Close() error {
	var errs []error
	if a.authService != nil {
		errs = append(errs, a.authService.Close(context.Background()))
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

// Navigate implements session.Navigator.
func (a *App) Navigate(route string) {
	a.mu.Lock()
	a.route = route
	a.mu.Unlock()
}

func (a *App) currentRoute() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.route
}

// onSession drops per-user state whenever the session ends.
func (a *App) onSession(s session.Snapshot) {
	if s.State == session.StateAuthenticated {
		return
	}
	a.mu.Lock()
	a.editor = nil
	a.links = nil
	a.mu.Unlock()
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()
	if changed {
		a.log.Info(context.Background(), "connectivity changed", "mode", mode)
	}
}

func (a *App) currentMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) isLoggedIn() bool {
	return a.store.IsAuthenticated()
}

func (a *App) isAdmin() bool {
	return a.store.Require(models.RoleAdmin) == session.AccessGranted
}

// Run starts the connectivity watcher and blocks in the REPL.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.probe(ctx)
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	a.println("Welcome to Botfolio CLI (type 'help' for commands)")
	if a.isLoggedIn() {
		a.Navigate(session.RouteDashboard)
	}
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) probe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := a.authService.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher pings the API every interval until ctx ends.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) getStatus() string {
	s := ""
	if u := a.store.CurrentUser(); u != nil {
		s = u.Username + " "
	}
	if m := a.currentMode(); m != "" {
		s += string(m) + " "
	}
	s += a.currentRoute()
	return fmt.Sprintf("(%s)", s)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// fail prints a user-facing message for err and returns it.
func (a *App) fail(err error, fallback string) error {
	var ve *services.ValidationError
	var qe *entitlement.QuotaError
	switch {
	case errors.As(err, &ve):
		a.println(ve.Message)
	case errors.As(err, &qe):
		a.println(qe.Error())
	case errors.Is(err, services.ErrNotLoggedIn):
		a.println("Please log in first.")
	case errors.Is(err, services.ErrAdminRequired),
		errors.Is(err, services.ErrMissingGoogleSignup),
		errors.Is(err, services.ErrImageTooLarge),
		errors.Is(err, services.ErrFreePlan),
		errors.Is(err, services.ErrPaymentCancelled):
		a.println(err.Error())
	default:
		a.println(client.Message(err, fallback))
	}
	a.log.Debug(context.Background(), fallback, "error", err)
	return err
}
