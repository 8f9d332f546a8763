// Package server exposes the skill runtime over HTTP: a catalog
// endpoint and one execute endpoint per skill, dispatching through
// the same validate-execute envelope the CLI uses.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/parakeetlabs/skillet/pkg/logger"
	"github.com/parakeetlabs/skillet/pkg/skills"
	skilltypes "github.com/parakeetlabs/skillet/pkg/types/skills"
)

// Config holds the server configuration.
type Config struct {
	Host string
	Port int
}

// Validate validates the server configuration.
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("host cannot be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return errors.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	return nil
}

// Server dispatches skill invocations over HTTP. Skill instances are
// created once and live for the server's lifetime, so stateful skills
// (the knowledge base) keep their corpus across requests.
type Server struct {
	router *mux.Router
	env    skilltypes.Env
	skills map[string]skilltypes.Skill
	config *Config
	server *http.Server
}

// New creates a server over the given environment and skill set.
func New(config *Config, env skilltypes.Env, available []skilltypes.Skill) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid server configuration")
	}

	byName := make(map[string]skilltypes.Skill, len(available))
	for _, skill := range available {
		byName[skill.Name()] = skill
	}

	s := &Server{
		router: mux.NewRouter(),
		env:    env,
		skills: byName,
		config: config,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/api/skills", s.handleListSkills).Methods(http.MethodGet)
	s.router.HandleFunc("/api/skills/{name}", s.handleExecuteSkill).Methods(http.MethodPost)
}

// requestIDMiddleware tags every request with an id and logs it.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		entry := logger.G(r.Context()).
			WithField("request_id", requestID).
			WithField("method", r.Method).
			WithField("path", r.URL.Path)
		ctx := logger.WithLogger(r.Context(), entry)

		w.Header().Set("X-Request-ID", requestID)
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))
		entry.WithField("duration", time.Since(start)).Debug("request handled")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// skillInfo is one catalog entry.
type skillInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleListSkills(w http.ResponseWriter, _ *http.Request) {
	catalog := make([]skillInfo, 0, len(s.skills))
	for _, name := range skills.Names() {
		skill, ok := s.skills[name]
		if !ok {
			continue
		}
		catalog = append(catalog, skillInfo{Name: skill.Name(), Description: skill.Description()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"skills": catalog})
}

func (s *Server) handleExecuteSkill(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	skill, ok := s.skills[name]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("skill %s not found", name)})
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read request body"})
		return
	}
	if len(body) == 0 {
		body = []byte("{}")
	}
	if !json.Valid(body) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "request body must be a JSON object"})
		return
	}

	result := skills.Run(r.Context(), s.env, skill, string(body))

	// Skill-level failures are still HTTP 200: the envelope carries
	// success=false and the error code.
	writeJSON(w, http.StatusOK, result.Structured(skill.Name()))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// Start runs the server until the context is canceled or the listener
// fails, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.G(ctx).WithField("addr", addr).Info("skill server listening")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "server failed")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
