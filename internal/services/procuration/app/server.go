// Package server wires the procuration runtime and HTTP lifecycle.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/collectif-citoyen/plateforme/internal/platform/config"
	"github.com/collectif-citoyen/plateforme/internal/services/procuration/api/httpapi"
	"github.com/collectif-citoyen/plateforme/internal/services/procuration/dispatch"
	"github.com/collectif-citoyen/plateforme/internal/services/procuration/domain"
	procurationsqlite "github.com/collectif-citoyen/plateforme/internal/services/procuration/storage/sqlite"
	"github.com/collectif-citoyen/plateforme/internal/services/shared/operatorauth"
)

type serverEnv struct {
	DBPath         string `env:"COLLECTIF_PROCURATION_DB_PATH"`
	NotifierURL    string `env:"COLLECTIF_NOTIFIER_URL"`
	NotifierSecret string `env:"COLLECTIF_NOTIFIER_SECRET"`
}

func loadServerEnv() serverEnv {
	var cfg serverEnv
	_ = config.ParseEnv(&cfg)
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "procuration.db")
	}
	return cfg
}

// Server hosts the procuration HTTP API and storage lifecycle.
type Server struct {
	listener   net.Listener
	httpServer *http.Server
	store      *procurationsqlite.Store
}

// New creates a configured procuration server listening on the provided port.
func New(port int) (*Server, error) {
	return NewWithAddr(fmt.Sprintf(":%d", port))
}

// NewWithAddr creates a configured procuration server for the provided address.
func NewWithAddr(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	srvEnv := loadServerEnv()
	store, err := openProcurationStore(srvEnv.DBPath)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	authConfig, err := operatorauth.LoadConfigFromEnv(nil)
	if err != nil {
		_ = listener.Close()
		_ = store.Close()
		return nil, fmt.Errorf("load operator auth config: %w", err)
	}

	dispatcher := newDispatcher(srvEnv)
	service := domain.NewService(newDomainStoreAdapter(store), dispatcher, nil, nil)
	handler := buildRootHandler(service, authConfig)

	return &Server{
		listener: listener,
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		store: store,
	}, nil
}

func newDispatcher(srvEnv serverEnv) domain.Dispatcher {
	notifierURL := strings.TrimSpace(srvEnv.NotifierURL)
	if notifierURL == "" {
		log.Printf("notifier URL not configured, contact exchanges will be logged only")
		return dispatch.LogDispatcher{}
	}
	return dispatch.NewHTTPDispatcher(notifierURL, strings.TrimSpace(srvEnv.NotifierSecret), nil)
}

// buildRootHandler composes the procuration mux: open submission and health
// routes, operator-auth-protected triage routes, OTel instrumentation on top.
func buildRootHandler(service *domain.Service, authConfig operatorauth.Config) http.Handler {
	apiHandler := httpapi.NewHandler(service)

	protected := http.NewServeMux()
	apiHandler.Routes(protected)

	root := http.NewServeMux()
	apiHandler.PublicRoutes(root)
	root.HandleFunc(http.MethodGet+" /healthz", handleHealth)
	root.Handle("/api/", operatorauth.Middleware(authConfig)(protected))

	return otelhttp.NewHandler(root, "procuration")
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves a procuration server until context cancellation.
func Run(ctx context.Context, port int) error {
	server, err := New(port)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the HTTP server until context cancellation.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("procuration server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(shutdownCtx)
		err := <-serveErr
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve HTTP: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve HTTP: %w", err)
	}
}

// Close releases the listener and storage resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close procuration store: %v", err)
		}
	}
}

func openProcurationStore(path string) (*procurationsqlite.Store, error) {
	path = strings.TrimSpace(path)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := procurationsqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open procuration sqlite store: %w", err)
	}
	return store, nil
}
