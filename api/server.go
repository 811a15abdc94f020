// Package api provides the HTTP REST API server for edgarscope.
//
// It exposes endpoints for company search, filing indexes, item content
// extraction, the recent-filings feed, and WebSocket streaming, plus
// ajax endpoints that return rendered HTML fragments.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/seenimoa/edgarscope/internal/config"
	"github.com/seenimoa/edgarscope/internal/edgar"
	"github.com/seenimoa/edgarscope/internal/provider"
)

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	cfg    *config.Config
	reg    *provider.Registry
	wsHub  *WSHub
}

// NewServer creates a configured API server with all routes and middleware.
// Data access goes through the provider registry; the server holds no
// EDGAR client of its own.
func NewServer(cfg *config.Config, reg *provider.Registry) *Server {
	srv := &Server{
		cfg:   cfg,
		reg:   reg,
		wsHub: NewWSHub(),
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go s.wsHub.Run()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Company search
		r.Get("/search/company", s.handleCompanySearch)

		// Filings
		r.Get("/filings", s.handleFilings)
		r.Get("/filings/feed", s.handleFilingFeed)

		// Item content
		r.Get("/content", s.handleItemContent)

		// Providers
		r.Get("/providers", s.handleProviders)

		// Ajax endpoints returning rendered HTML fragments
		r.Post("/ajax/search", s.handleAjaxSearch)
		r.Post("/ajax/filings", s.handleAjaxFilings)
		r.Post("/ajax/content", s.handleAjaxContent)

		// WebSocket
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// AjaxResponse mirrors the fragment contract of the original browse UI:
// a status message plus a rendered HTML snippet.
type AjaxResponse struct {
	Message string `json:"message"`
	HTML    string `json:"html"`
}

// Ajax status messages.
const (
	ajaxSuccess    = "Success"
	ajaxError      = "Error"
	ajaxInvalidURL = "Needs a valid url."
)

// AjaxFilingsRequest is the body for POST /api/v1/ajax/filings.
type AjaxFilingsRequest struct {
	CIK        string `json:"cik"`
	FilingType string `json:"filing_type,omitempty"`
	After      string `json:"after,omitempty"`
	Before     string `json:"before,omitempty"`
	Item       string `json:"item,omitempty"`
}

// AjaxContentRequest is the body for POST /api/v1/ajax/content.
type AjaxContentRequest struct {
	URL   string `json:"url"`
	Items string `json:"items,omitempty"` // comma-separated item numbers
}

// AjaxSearchRequest is the body for POST /api/v1/ajax/search.
type AjaxSearchRequest struct {
	Company string `json:"company"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":    "ok",
			"version":   "dev",
			"providers": len(s.reg.List()),
		},
	})
}

func (s *Server) handleCompanySearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	result, err := s.reg.Fetch(ctx, provider.ModelCompanySearch, provider.QueryParams{
		provider.ParamCompany: q,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: result.Data})
}

func (s *Server) handleFilings(w http.ResponseWriter, r *http.Request) {
	params := filingParams(r)
	if params[provider.ParamCIK] == "" {
		writeError(w, http.StatusBadRequest, "cik is required")
		return
	}

	// Index fetch plus per-filing content resolution; generous deadline.
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	result, err := s.reg.Fetch(ctx, provider.ModelFilingIndex, params)
	if err != nil {
		status := http.StatusInternalServerError
		if isBadQuery(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	s.wsHub.Broadcast(WSMessage{
		Type: eventFilingsFetched,
		Data: map[string]interface{}{
			"cik":         params[provider.ParamCIK],
			"filing_type": params[provider.ParamFilingType],
			"cached":      result.Cached,
		},
	})

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: result.Data})
}

func (s *Server) handleFilingFeed(w http.ResponseWriter, r *http.Request) {
	cik := strings.TrimSpace(r.URL.Query().Get("cik"))
	if cik == "" {
		writeError(w, http.StatusBadRequest, "cik is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	result, err := s.reg.Fetch(ctx, provider.ModelFilingFeed, provider.QueryParams{
		provider.ParamCIK:        cik,
		provider.ParamFilingType: r.URL.Query().Get("type"),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: result.Data})
}

func (s *Server) handleItemContent(w http.ResponseWriter, r *http.Request) {
	docURL := strings.TrimSpace(r.URL.Query().Get("url"))
	if docURL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Minute)
	defer cancel()

	result, err := s.reg.Fetch(ctx, provider.ModelItemContent, provider.QueryParams{
		provider.ParamURL:   docURL,
		provider.ParamItems: r.URL.Query().Get("items"),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.wsHub.Broadcast(WSMessage{
		Type: eventContentExtracted,
		Data: map[string]interface{}{
			"url":    docURL,
			"cached": result.Cached,
		},
	})

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: result.Data})
}

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: s.reg.List()})
}

// ============================================================
// Ajax handlers
// ============================================================

func (s *Server) handleAjaxSearch(w http.ResponseWriter, r *http.Request) {
	var req AjaxSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Company) == "" {
		writeJSON(w, http.StatusOK, AjaxResponse{Message: ajaxError})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	result, err := s.reg.Fetch(ctx, provider.ModelCompanySearch, provider.QueryParams{
		provider.ParamCompany: req.Company,
	})
	if err != nil {
		writeJSON(w, http.StatusOK, AjaxResponse{Message: ajaxError})
		return
	}

	writeJSON(w, http.StatusOK, AjaxResponse{
		Message: ajaxSuccess,
		HTML:    renderSearchFragment(result.Data),
	})
}

func (s *Server) handleAjaxFilings(w http.ResponseWriter, r *http.Request) {
	var req AjaxFilingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.CIK) == "" {
		writeJSON(w, http.StatusOK, AjaxResponse{Message: ajaxError})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	result, err := s.reg.Fetch(ctx, provider.ModelFilingIndex, provider.QueryParams{
		provider.ParamCIK:        req.CIK,
		provider.ParamFilingType: req.FilingType,
		provider.ParamAfter:      req.After,
		provider.ParamBefore:     req.Before,
		provider.ParamItem:       req.Item,
	})
	if err != nil {
		writeJSON(w, http.StatusOK, AjaxResponse{Message: ajaxError})
		return
	}

	writeJSON(w, http.StatusOK, AjaxResponse{
		Message: ajaxSuccess,
		HTML:    renderFilingsFragment(result.Data),
	})
}

func (s *Server) handleAjaxContent(w http.ResponseWriter, r *http.Request) {
	var req AjaxContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, AjaxResponse{Message: ajaxError})
		return
	}
	if !validDocumentURL(req.URL) {
		writeJSON(w, http.StatusOK, AjaxResponse{Message: ajaxInvalidURL})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Minute)
	defer cancel()

	result, err := s.reg.Fetch(ctx, provider.ModelItemContent, provider.QueryParams{
		provider.ParamURL:   req.URL,
		provider.ParamItems: req.Items,
	})
	if err != nil {
		writeJSON(w, http.StatusOK, AjaxResponse{Message: ajaxError})
		return
	}

	writeJSON(w, http.StatusOK, AjaxResponse{
		Message: ajaxSuccess,
		HTML:    renderContentFragment(result.Data),
	})
}

// ============================================================
// Helpers
// ============================================================

func filingParams(r *http.Request) provider.QueryParams {
	q := r.URL.Query()
	return provider.QueryParams{
		provider.ParamCIK:        strings.TrimSpace(q.Get("cik")),
		provider.ParamFilingType: q.Get("type"),
		provider.ParamAfter:      q.Get("after"),
		provider.ParamBefore:     q.Get("before"),
		provider.ParamItem:       q.Get("item"),
	}
}

// isBadQuery reports whether the fetch failed on caller input rather
// than an upstream problem.
func isBadQuery(err error) bool {
	var missing *provider.ErrMissingParam
	var invalid *edgar.ErrInvalidQuery
	return errors.As(err, &missing) || errors.As(err, &invalid)
}

// validDocumentURL accepts absolute http(s) URLs and site-relative paths.
func validDocumentURL(u string) bool {
	u = strings.TrimSpace(u)
	if u == "" {
		return false
	}
	return strings.HasPrefix(u, "http://") ||
		strings.HasPrefix(u, "https://") ||
		strings.HasPrefix(u, "/")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}

// ============================================================
// WebSocket Hub
// ============================================================

// WSMessage is a message sent over WebSocket connections.
type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// WebSocket event types broadcast by the handlers.
const (
	eventFilingsFetched   = "filings_fetched"
	eventContentExtracted = "content_extracted"
)

// WSHub manages WebSocket connections and message broadcasting.
type WSHub struct {
	mu         sync.RWMutex
	clients    map[*WSClient]bool
	broadcast  chan WSMessage
	register   chan *WSClient
	unregister chan *WSClient
}

// WSClient represents a single WebSocket connection. A client may narrow
// delivery to specific event types via a subscribe message; with no
// subscription it receives every event.
type WSClient struct {
	hub  *WSHub
	send chan WSMessage

	mu     sync.Mutex
	topics map[string]bool // nil = all events
}

// Subscribe restricts the client to the given event types. An empty list
// restores delivery of every event.
func (c *WSClient) Subscribe(topics []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(topics) == 0 {
		c.topics = nil
		return
	}
	c.topics = make(map[string]bool, len(topics))
	for _, topic := range topics {
		c.topics[topic] = true
	}
}

func (c *WSClient) wants(eventType string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.topics == nil || c.topics[eventType]
}

// NewWSHub creates a new WebSocket hub.
func NewWSHub() *WSHub {
	return &WSHub{
		clients:    make(map[*WSClient]bool),
		broadcast:  make(chan WSMessage, 256),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
	}
}

// Run starts the hub event loop.
func (h *WSHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				if !client.wants(msg.Type) {
					continue
				}
				select {
				case client.send <- msg:
				default:
					// Slow client; disconnect
					h.mu.RUnlock()
					h.mu.Lock()
					delete(h.clients, client)
					close(client.send)
					h.mu.Unlock()
					h.mu.RLock()
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast sends a message to all connected WebSocket clients.
func (h *WSHub) Broadcast(msg WSMessage) {
	select {
	case h.broadcast <- msg:
	default:
		// Drop message if broadcast channel is full
	}
}

// ClientCount returns the number of connected WebSocket clients.
func (h *WSHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Register adds a client to the hub.
func (h *WSHub) Register(client *WSClient) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *WSHub) Unregister(client *WSClient) {
	h.unregister <- client
}
