package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/wricardo/immortal-reincarnation/game/service"
)

// Server represents the REST API server
type Server struct {
	service service.CultivationService
	ws      http.Handler
	router  *mux.Router
}

// NewServer creates a new API server. ws serves /ws and may be nil.
func NewServer(svc service.CultivationService, ws http.Handler) *Server {
	s := &Server{
		service: svc,
		ws:      ws,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// Router exposes the router so callers can mount extra handlers such as /mcp
func (s *Server) Router() *mux.Router {
	return s.router
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// State
	api.HandleFunc("/cultivator", s.handleGetCultivator).Methods("GET")
	api.HandleFunc("/tiers", s.handleGetTiers).Methods("GET")

	// Progression
	api.HandleFunc("/cultivate/spirit", s.handleCultivateSpirit).Methods("POST")
	api.HandleFunc("/cultivate/vessel", s.handleCultivateVessel).Methods("POST")
	api.HandleFunc("/heartbeat", s.handleHeartbeat).Methods("POST")
	api.HandleFunc("/reset", s.handleReset).Methods("POST")

	// Persistence
	api.HandleFunc("/save", s.handleSave).Methods("POST")
	api.HandleFunc("/load", s.handleLoad).Methods("POST")

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	if s.ws != nil {
		s.router.Handle("/ws", s.ws)
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// parseTimes reads the optional times query parameter. Missing means one.
func parseTimes(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("times")
	if raw == "" {
		return 1, nil
	}
	times, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if times < 1 {
		return 0, service.ErrInvalidTimes
	}
	return times, nil
}

// State Handlers

func (s *Server) handleGetCultivator(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.State(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleGetTiers(w http.ResponseWriter, r *http.Request) {
	tiers, err := s.service.Tiers(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, tiers)
}

// Progression Handlers

func (s *Server) handleCultivateSpirit(w http.ResponseWriter, r *http.Request) {
	times, err := parseTimes(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "times must be an integer between 1 and "+strconv.Itoa(service.MaxIncrementsPerCall))
		return
	}

	result, err := s.service.CultivateSpirit(r.Context(), times)
	s.respondAction(w, result, err)
}

func (s *Server) handleCultivateVessel(w http.ResponseWriter, r *http.Request) {
	times, err := parseTimes(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "times must be an integer between 1 and "+strconv.Itoa(service.MaxIncrementsPerCall))
		return
	}

	result, err := s.service.CultivateVessel(r.Context(), times)
	s.respondAction(w, result, err)
}

// handleHeartbeat answers 501: the event is accepted but has no defined effect
func (s *Server) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Heartbeat(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusNotImplemented, result)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Reset(r.Context())
	s.respondAction(w, result, err)
}

// Persistence Handlers

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Save(r.Context())
	s.respondAction(w, result, err)
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Load(r.Context())
	s.respondAction(w, result, err)
}

func (s *Server) respondAction(w http.ResponseWriter, result *service.ActionResult, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidTimes):
		respondError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		respondError(w, http.StatusInternalServerError, err.Error())
	default:
		respondJSON(w, http.StatusOK, result)
	}
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
