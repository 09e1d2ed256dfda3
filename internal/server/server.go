// Package server exposes the drill and progress over HTTP and serves the browser front end.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/cangtype/internal/catalog"
	"github.com/verte-zerg/cangtype/internal/dictionary"
	"github.com/verte-zerg/cangtype/internal/drill"
	"github.com/verte-zerg/cangtype/internal/progress"
)

// Config holds the listener settings.
type Config struct {
	Addr          string
	StaticDir     string
	PruneInterval time.Duration
}

// Server wires the HTTP API to the drill, the progress store and the dictionary cache.
type Server struct {
	cfg     Config
	lessons []catalog.Lesson
	store   *progress.Store
	drill   *drill.Evaluator
	dict    *dictionary.Cache
	log     *zap.Logger
	now     func() time.Time
}

// New builds a server. log may be nil.
func New(cfg Config, lessons []catalog.Lesson, store *progress.Store, ev *drill.Evaluator, dict *dictionary.Cache, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.PruneInterval <= 0 {
		cfg.PruneInterval = time.Hour
	}
	return &Server{
		cfg:     cfg,
		lessons: lessons,
		store:   store,
		drill:   ev,
		dict:    dict,
		log:     log,
		now:     time.Now,
	}
}

// Handler returns the full middleware-wrapped router.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/lessons", s.listLessons)
	mux.HandleFunc("GET /api/progress", s.getProgress)
	mux.HandleFunc("POST /api/progress", s.postProgress)

	mux.HandleFunc("GET /api/profiles", s.listProfiles)
	mux.HandleFunc("POST /api/profiles", s.createProfile)
	mux.HandleFunc("DELETE /api/profiles/{id}", s.deleteProfile)
	mux.HandleFunc("POST /api/profiles/{id}/activate", s.activateProfile)

	mux.HandleFunc("GET /api/drill", s.getDrill)
	mux.HandleFunc("POST /api/drill/submit", s.submit)
	mux.HandleFunc("POST /api/drill/reveal", s.reveal)
	mux.HandleFunc("POST /api/drill/jump", s.jump)
	mux.HandleFunc("POST /api/drill/reset", s.resetSession)

	mux.HandleFunc("GET /api/dictionary/{char}", s.lookup)
	mux.HandleFunc("GET /api/components", s.listComponents)

	mux.HandleFunc("/api/", s.apiNotFound)
	mux.Handle("/", s.static())

	return s.logging(s.recoverer(mux))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	janitor, err := NewJanitor(s.dict, s.cfg.PruneInterval, s.log)
	if err != nil {
		return err
	}
	janitor.Start()
	defer janitor.Stop()

	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", zap.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
