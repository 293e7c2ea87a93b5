// Package httpapi exposes the server's public HTTP surface: account and
// session endpoints, password reset, project CRUD with on-demand decryption
// and presigned snapshot transfers.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dberzins/envault/internal/cryptox"
	"github.com/dberzins/envault/internal/logging"
	"github.com/dberzins/envault/internal/server/projects"
	"github.com/dberzins/envault/internal/server/users"
	"golang.org/x/time/rate"
)

// UserService is the account surface the API needs.
type UserService interface {
	Register(ctx context.Context, email, password string) (*users.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// ProjectService manages projects and their encrypted variables.
type ProjectService interface {
	Create(ctx context.Context, userID, name, privateKey string, vars []cryptox.Variable) (*projects.Project, error)
	List(ctx context.Context, userID string) ([]*projects.Project, error)
	Get(ctx context.Context, userID, id string) (*projects.Project, []cryptox.EncryptedVariable, error)
	Reveal(ctx context.Context, userID, id, typedPrivateKey string) (map[string]string, []string, error)
	Update(ctx context.Context, userID, id, name, typedPrivateKey string, vars []cryptox.Variable) error
	Delete(ctx context.Context, userID, id string) error
}

// ResetService issues and redeems password reset tokens.
type ResetService interface {
	Issue(ctx context.Context, email string) error
	Redeem(ctx context.Context, compoundToken, newPassword string) error
}

// SnapshotService hands out presigned snapshot URLs.
type SnapshotService interface {
	GetPresignedPutUrl(ctx context.Context) (string, string, error)
	GetPresignedGetUrl(ctx context.Context, key string) (string, error)
}

type Server struct {
	address   string
	logger    logging.Logger
	users     UserService
	projects  ProjectService
	resets    ResetService
	snapshots SnapshotService
	jwtSecret []byte
	limiter   *multiLimiter
}

func NewServer(address string, logger logging.Logger, us UserService, ps ProjectService, rs ResetService, ss SnapshotService, secretKey string) *Server {
	return &Server{
		address:   address,
		logger:    logger.With("module", "http_server"),
		users:     us,
		projects:  ps,
		resets:    rs,
		snapshots: ss,
		jwtSecret: []byte(secretKey),
		limiter:   newMultiLimiter(rate.Every(time.Second), 10, 10*time.Minute),
	}
}

// Handler builds the route table. Credential endpoints are rate limited per
// client IP; everything under /api/projects and /api/snapshots requires a
// valid access token.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/register", s.rateLimited(s.handleRegister))
	mux.HandleFunc("POST /api/login", s.rateLimited(s.handleLogin))
	mux.HandleFunc("POST /api/reset/request", s.rateLimited(s.handleResetRequest))
	mux.HandleFunc("POST /api/reset/confirm", s.rateLimited(s.handleResetConfirm))

	mux.HandleFunc("POST /api/projects", s.authRequired(s.handleProjectCreate))
	mux.HandleFunc("GET /api/projects", s.authRequired(s.handleProjectList))
	mux.HandleFunc("GET /api/projects/{id}", s.authRequired(s.handleProjectGet))
	mux.HandleFunc("PUT /api/projects/{id}", s.authRequired(s.handleProjectUpdate))
	mux.HandleFunc("DELETE /api/projects/{id}", s.authRequired(s.handleProjectDelete))
	mux.HandleFunc("POST /api/projects/{id}/reveal", s.authRequired(s.handleProjectReveal))

	mux.HandleFunc("POST /api/snapshots/presign", s.authRequired(s.handleSnapshotPresignPut))
	mux.HandleFunc("GET /api/snapshots/presign", s.authRequired(s.handleSnapshotPresignGet))

	return mux
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
