// Package server exposes BART sessions over HTTP. Each session owns one
// orchestrator; the participant's browser is the action source and the
// JSON views are the presentation sink.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/xtding233/bart-backend/internal/bart"
	"github.com/xtding233/bart-backend/internal/money"
	"github.com/xtding233/bart-backend/internal/recorder"
	"github.com/xtding233/bart-backend/internal/task"
)

var ErrSessionNotFound = errors.New("session not found")

const (
	defaultSimTasks = 1000
	maxSimTasks     = 100000
)

// Server handles HTTP requests
type Server struct {
	resolver task.Resolver
	rec      recorder.Recorder
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewServer creates a server; a nil rec records nothing.
func NewServer(resolver task.Resolver, rec recorder.Recorder) *Server {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Server{
		resolver: resolver,
		rec:      rec,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Routes sets up the HTTP routes
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Heartbeat("/health"))

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Get("/{id}", s.handleGetSession)
		r.Post("/{id}/actions", s.handleAction)
		r.Delete("/{id}", s.handleDeleteSession)
	})
	r.Get("/simulate", s.handleSimulate)

	return r
}

// Sweep drops sessions with no action since now-maxAge and returns how many.
func (s *Server) Sweep(maxAge time.Duration) int {
	cutoff := s.now().Add(-maxAge)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		if sess.idleSince().Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	_, settings, err := s.resolver.Resolve(req.Task, req.Variant, task.Overrides{
		NumTrials: req.NumTrials,
		MinPumps:  req.MinPumps,
		MaxPumps:  req.MaxPumps,
		PerPump:   req.PerPump,
		Currency:  req.Currency,
	})
	if err != nil {
		if errors.Is(err, task.ErrInvalidConfig) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[ERROR] resolve task %q/%q: %v", req.Task, req.Variant, err)
		s.writeError(w, http.StatusInternalServerError, "could not load task config")
		return
	}
	formatter, err := money.NewFormatter(settings.Currency)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rng := bart.DefaultRNG()
	if req.Seed != nil {
		rng = bart.NewSeededRNG(*req.Seed)
	}

	sess := &session{
		id:       uuid.NewString(),
		task:     req.Task,
		variant:  req.Variant,
		settings: settings,
		format:   formatter.Func(),
		created:  s.now(),
	}
	sess.touched = sess.created
	obs := bart.Observers{
		lastOutcome{s: sess},
		recorder.NewObserver(s.rec, sess.id, settings.Currency),
	}
	sess.orch = bart.NewOrchestrator(settings.Config, bart.NewGenerator(rng), obs)

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	log.Printf("[INFO] session %s started: task=%q variant=%q trials=%d pumps=[%d,%d) payout=%s",
		sess.id, req.Task, req.Variant, settings.Config.NumTrials,
		settings.Config.MinPumps, settings.Config.MaxPumps, settings.Config.PayoutPerPump)
	s.writeJSON(w, http.StatusCreated, sess.view())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, sess.view())
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Action == nil {
		s.writeError(w, http.StatusBadRequest, "action must be \"pump\" or \"collect\"")
		return
	}
	view, err := sess.apply(*req.Action, s.now())
	switch {
	case err == nil:
		s.writeJSON(w, http.StatusOK, view)
	case errors.Is(err, bart.ErrTaskDone), errors.Is(err, bart.ErrRoundOver):
		s.writeJSON(w, http.StatusConflict, struct {
			errorResponse
			Session SessionView `json:"session"`
		}{errorResponse{err.Error()}, view})
	case errors.Is(err, bart.ErrUnknownAction):
		s.writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("[ERROR] session %s: apply %s: %v", sess.id, *req.Action, err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		s.writeError(w, http.StatusNotFound, ErrSessionNotFound.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /simulate?task=&variant=&target=&tasks=&seed=&goal=
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	target, err := intParam(q.Get("target"), 0)
	if err != nil || target < 0 {
		s.writeError(w, http.StatusBadRequest, "invalid target")
		return
	}
	tasks, err := intParam(q.Get("tasks"), defaultSimTasks)
	if err != nil || tasks <= 0 || tasks > maxSimTasks {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("tasks must be in 1..%d", maxSimTasks))
		return
	}
	var seed uint64
	if v := q.Get("seed"); v != "" {
		if seed, err = strconv.ParseUint(v, 10, 64); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid seed")
			return
		}
	}
	goal := bart.SimGoal(q.Get("goal"))
	switch goal {
	case "", bart.GoalBankedPumps, bart.GoalPops, bart.GoalTotalPumps:
	default:
		s.writeError(w, http.StatusBadRequest, "unknown goal")
		return
	}

	_, settings, err := s.resolver.Resolve(q.Get("task"), q.Get("variant"), task.Overrides{})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	formatter, err := money.NewFormatter(settings.Currency)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	st, err := bart.RunMonteCarlo(r.Context(), settings.Config, bart.SimParams{Target: target, Seed: seed}, goal, tasks)
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, SimulateResponse{
		Config:           configView(settings, formatter.Func()),
		Target:           target,
		Seed:             seed,
		Stats:            st,
		ExpectedPerRound: bart.ExpectedBankedPumps(settings.Config, target),
	})
}

func (s *Server) lookup(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[WARN] encode response: %v", err)
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}
