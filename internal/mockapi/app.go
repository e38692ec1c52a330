package mockapi

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/botfolio/internal/client/models"
	"github.com/dmitrijs2005/botfolio/internal/logging"
	"github.com/dmitrijs2005/botfolio/internal/mockapi/config"
)

// App wires config, logging and the Server for cmd/mockapi.
type App struct {
	config *config.Config
	logger logging.Logger
	server *Server
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.New(logging.Options{Level: c.LogLevel, Format: c.LogFormat, Output: os.Stdout})
	srv := NewServer(c, logger)

	if c.AdminPassword != "" {
		_, err := srv.SeedUser(models.User{
			Name:     "Administrator",
			Username: c.AdminUsername,
			Email:    c.AdminUsername + "@botfolio.local",
			Role:     models.RoleAdmin,
		}, c.AdminPassword)
		if err != nil {
			return nil, err
		}
		logger.Info(context.Background(), "seeded admin account", "username", c.AdminUsername)
	}

	return &App{config: c, logger: logger, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until a termination signal arrives or ctx is cancelled.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	return app.server.Run(ctx)
}
