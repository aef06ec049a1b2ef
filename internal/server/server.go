package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tobin/pressfeed/internal/config"
	"github.com/tobin/pressfeed/internal/scraper"
)

// Server serves the generated feed over HTTP
type Server struct {
	router  *chi.Mux
	scraper *scraper.Scraper
	config  *config.Config

	mu      sync.RWMutex
	feedXML string
	builtAt time.Time
}

// New creates a new server instance
func New(sc *scraper.Scraper, cfg *config.Config) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		scraper: sc,
		config:  cfg,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Middleware
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Timeout(60 * time.Second))

	// Routes
	s.router.Get("/rss.xml", s.handleRSS)
	s.router.Post("/scrape", s.handleScrape)
	s.router.Get("/status", s.handleStatus)

	// Health check
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// Router returns the Chi router
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	log.Printf("Starting server on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// handleRSS serves the most recently built feed
func (s *Server) handleRSS(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	feed := s.feedXML
	s.mu.RUnlock()

	if feed == "" {
		http.Error(w, "No feed built yet. POST /scrape to build one.", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Write([]byte(feed))
}

// handleScrape runs the pipeline and refreshes the cached feed
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	log.Println("Starting manual scrape...")

	entries, err := s.scraper.Run(ctx)
	if err != nil {
		http.Error(w, fmt.Sprintf("Scrape failed: %v", err), http.StatusInternalServerError)
		return
	}

	if len(entries) == 0 {
		// Site structure likely changed; keep whatever feed we had
		log.Println("No entries found. The page structure may have changed.")
		http.Error(w, "No entries found", http.StatusBadGateway)
		return
	}

	feed, err := GenerateRSSFeed(entries, s.config)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to generate feed: %v", err), http.StatusInternalServerError)
		return
	}

	s.mu.Lock()
	s.feedXML = feed
	s.builtAt = time.Now()
	s.mu.Unlock()

	fmt.Fprintf(w, "Scraped %d entries\n", len(entries))
}

// handleStatus reports pipeline progress as JSON
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.scraper.Progress().Snapshot())
}
