// Package server initializes and runs the application server. It wires the
// storage layer, domain services and the HTTP API, and handles graceful
// shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dberzins/envault/internal/logging"
	"github.com/dberzins/envault/internal/server/config"
	"github.com/dberzins/envault/internal/server/email"
	"github.com/dberzins/envault/internal/server/httpapi"
	"github.com/dberzins/envault/internal/server/projects"
	"github.com/dberzins/envault/internal/server/resettokens"
	"github.com/dberzins/envault/internal/server/shared/db"
	"github.com/dberzins/envault/internal/server/snapshots"
	"github.com/dberzins/envault/internal/server/users"
)

type App struct {
	config          *config.Config
	logger          logging.Logger
	userService     *users.Service
	projectService  *projects.Service
	resetService    *resettokens.Service
	snapshotService *snapshots.Service
}

func NewApp(c *config.Config) (*App, error) {
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	m, err := db.NewPostgresRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	mailer := email.NewMailer(c, logger)

	us := users.NewService(m.Users(), c)
	ps := projects.NewService(m.Conn(), logger)
	rs := resettokens.NewService(m.Conn(), mailer, c, logger)
	ss := snapshots.NewService(c, logger)

	return &App{
		config:          c,
		logger:          logger,
		userService:     us,
		projectService:  ps,
		resetService:    rs,
		snapshotService: ss,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.EndpointAddr, app.logger,
		app.userService, app.projectService, app.resetService, app.snapshotService,
		app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
