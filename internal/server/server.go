// Package server exposes navigation shells over HTTP. A server-side render
// mounts a shell for one request; a websocket session keeps one mounted for
// the lifetime of the page connection.
package server

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"branakids/navigation/internal/client"
	"branakids/navigation/internal/config"
	"branakids/navigation/internal/events"
	"branakids/navigation/internal/repository"
	"branakids/navigation/internal/shell"
	"branakids/navigation/internal/storage"
	"branakids/navigation/internal/surface"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

const renderWait = 5 * time.Second

// Announcer publishes that a persisted key changed so every session
// watching it recounts.
type Announcer interface {
	Notify(ctx context.Context, key string) error
}

// Dependencies are shared by every shell the server mounts.
type Dependencies struct {
	Storefront client.StorefrontClient
	Carts      repository.CartRepository
	// Wishlist returns the reader of the wishlist stored under key.
	Wishlist func(key string) storage.WishlistReader
	// Storage delivers storage changes from other processes. When nil each
	// session only sees the changes it reports itself.
	Storage   events.Source
	Announcer Announcer
}

type Server struct {
	navigation config.NavigationConfig
	deps       Dependencies
	layout     surface.Layout

	ctx        context.Context
	cancel     context.CancelFunc
	router     chi.Router
	httpServer *http.Server
}

func New(cfg config.ServerConfig, navigation config.NavigationConfig, deps Dependencies) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		navigation: navigation,
		deps:       deps,
		layout: surface.Layout{
			CategoryLimit: navigation.DesktopCategoryLimit,
			ColumnSize:    navigation.DesktopColumnSize,
		},
		ctx:    ctx,
		cancel: cancel,
	}

	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.With(middleware.Timeout(30*time.Second)).Get("/nav", s.handleRender)
	r.Get("/ws", s.handleSession)

	return r
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured address.
func (s *Server) Start() error {
	log.Infof("🚀 Navigation server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

// Shutdown ends open sessions and stops accepting requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	return s.httpServer.Shutdown(ctx)
}

// pageParams identify the page and visitor a shell is mounted for.
type pageParams struct {
	Path    string
	Visitor string
	CartID  string
}

func paramsFromRequest(r *http.Request) pageParams {
	q := r.URL.Query()
	path := q.Get("path")
	if path == "" {
		path = "/"
	}
	return pageParams{
		Path:    path,
		Visitor: q.Get("visitor"),
		CartID:  q.Get("cart"),
	}
}

// newShell wires a shell for one page. scroll carries the page's own
// window events.
func (s *Server) newShell(params pageParams, scroll events.Source, localStorage events.Source) *shell.Shell {
	key := storage.WishlistKey(s.navigation.WishlistKey, params.Visitor)

	deps := shell.Deps{
		Categories: s.deps.Storefront,
		Searcher:   s.deps.Storefront,
		Scroll:     scroll,
		Storage:    localStorage,
	}
	if s.sharedStorage() {
		deps.Storage = s.deps.Storage
	}
	if s.deps.Carts != nil {
		deps.Cart = repository.NewCartView(s.deps.Carts, params.CartID)
	}
	if s.deps.Wishlist != nil {
		deps.Wishlist = s.deps.Wishlist(key)
	}

	return shell.New(deps, shell.Options{
		ScrollThreshold: s.navigation.ScrollThreshold,
		WishlistKey:     key,
		Path:            params.Path,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
		log.Warnf("⚠️ Failed to write health response: %v", err)
	}
}

// sharedStorage reports whether storage changes travel through the shared
// channel instead of staying inside one session.
func (s *Server) sharedStorage() bool {
	return s.deps.Storage != nil && s.deps.Announcer != nil
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	params := paramsFromRequest(r)
	sh := s.newShell(params, nil, nil)

	sh.Mount(r.Context())
	defer sh.Unmount()

	ctx, cancel := context.WithTimeout(r.Context(), renderWait)
	defer cancel()
	if err := sh.WaitLoaded(ctx); err != nil {
		log.Warnf("⚠️ Rendering %s before categories loaded: %v", params.Path, err)
	}

	var buf bytes.Buffer
	if err := surface.Render(&buf, surface.Build(sh.Snapshot(r.Context()), s.layout)); err != nil {
		log.Errorf("❌ Failed to render navigation for %s: %v", params.Path, err)
		http.Error(w, "failed to render navigation", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Warnf("⚠️ Failed to write navigation for %s: %v", params.Path, err)
	}
}
