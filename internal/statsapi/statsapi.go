// Package statsapi exposes a small gorilla/mux debug HTTP surface over the
// running system's health and operational statistics: /stats and /healthz.
package statsapi

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// StatsProvider is implemented by any component willing to contribute a
// named section to the /stats response. Sections are collected fresh on
// every request, never cached.
type StatsProvider interface {
	Name() string
	Stats() interface{}
}

// Server is the debug HTTP surface. It owns no component lifecycles; it
// only polls whatever StatsProviders are registered with it.
type Server struct {
	mu        sync.RWMutex
	router    *mux.Router
	providers []StatsProvider
	server    *http.Server
	log       *logrus.Entry
	startedAt time.Time
	version   string
}

// NewServer builds a Server bound to addr, serving on /stats and /healthz.
func NewServer(addr, version string, log *logrus.Entry) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		startedAt: time.Now(),
		version:   version,
		log:       log,
	}
	s.router.HandleFunc("/healthz", s.healthzHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/stats", s.statsHandler).Methods(http.MethodGet)
	s.server = &http.Server{Addr: addr, Handler: s.router}
	return s
}

// Register adds a StatsProvider whose Stats() will be polled on every
// /stats request under its Name() key. Safe to call concurrently with
// requests being served.
func (s *Server) Register(p StatsProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.providers = append(s.providers, p)
}

// Start begins serving in a background goroutine.
func (s *Server) Start() {
	if s.log != nil {
		s.log.WithField("addr", s.server.Addr).Info("starting stats server")
	}
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.log != nil {
				s.log.WithError(err).Error("stats server stopped")
			}
		}
	}()
}

// Stop gracefully closes the listener.
func (s *Server) Stop() error {
	return s.server.Close()
}

func (s *Server) healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "healthy",
		"uptime": time.Since(s.startedAt).String(),
	})
}

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	s.mu.RLock()
	providers := make([]StatsProvider, len(s.providers))
	copy(providers, s.providers)
	s.mu.RUnlock()

	components := make(map[string]interface{}, len(providers))
	for _, p := range providers {
		components[p.Name()] = p.Stats()
	}

	resp := map[string]interface{}{
		"version":    s.version,
		"uptime":     time.Since(s.startedAt).String(),
		"goroutines": runtime.NumGoroutine(),
		"heap_bytes": mem.HeapAlloc,
		"components": components,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
