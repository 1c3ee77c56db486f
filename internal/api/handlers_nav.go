package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/kitesidebar/internal/document"
	"github.com/dgallion1/kitesidebar/internal/kited"
	"github.com/dgallion1/kitesidebar/internal/nav"
	"github.com/dgallion1/kitesidebar/internal/report"
)

const maxNavigateBody = 64 << 10

type navigateRequest struct {
	Step    string `json:"step"`
	Command string `json:"command"`
}

type navigateResponse struct {
	Step string `json:"step"`
	URI  string `json:"uri"`
}

// handleNavigate registers a new current step, given either as a navigation
// URI or as a command link taken from a rendered panel.
func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxNavigateBody)

	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	var (
		step nav.Step
		err  error
	)
	switch {
	case req.Step != "" && req.Command != "":
		jsonError(w, "set either step or command, not both", http.StatusBadRequest)
		return
	case req.Step != "":
		step, err = s.nav.Navigate(req.Step)
	case req.Command != "":
		step, err = nav.ParseCommand(req.Command)
		if err == nil {
			s.nav.RegisterNavigationStep(step)
		}
	default:
		jsonError(w, "step or command is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}

	s.log.Debug("navigation step registered", "step", step.String())
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(navigateResponse{Step: step.String(), URI: step.URI()})
}

// handleContent renders the current step. The step is read once so the
// X-Sidebar-Step header always names the step the body was rendered from.
func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	step, ok := s.nav.Current()
	if !ok {
		s.writeContent(w, nav.Step{}, "", nil)
		return
	}
	out, err := s.nav.Resolve(r.Context(), step)
	s.writeContent(w, step, out, err)
}

// handleRender registers ?step= (or ?command=) and renders it in one call.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		step nav.Step
		err  error
	)
	switch {
	case q.Get("step") != "":
		step, err = s.nav.Navigate(q.Get("step"))
	case q.Get("command") != "":
		step, err = nav.ParseCommand(q.Get("command"))
		if err == nil {
			s.nav.RegisterNavigationStep(step)
		}
	default:
		jsonError(w, "step query parameter is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}

	out, err := s.nav.Resolve(r.Context(), step)
	s.writeContent(w, step, out, err)
}

func (s *Server) writeContent(w http.ResponseWriter, step nav.Step, out string, err error) {
	if err != nil {
		code := statusFor(err)
		s.log.Warn("content lookup failed", "step", step.String(), "status", code, "error", err)
		jsonError(w, err.Error(), code)
		return
	}
	if step.Kind != "" {
		w.Header().Set("X-Sidebar-Step", step.URI())
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(out))
}

// statusFor maps lookup errors onto HTTP status codes.
func statusFor(err error) int {
	var (
		availErr *kited.AvailabilityError
		reqErr   *kited.RequestError
		parseErr *report.ParseError
	)
	switch {
	case errors.Is(err, nav.ErrMalformedStep):
		return http.StatusBadRequest
	case errors.Is(err, document.ErrNoActiveDocument):
		return http.StatusConflict
	case errors.As(err, &availErr):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &reqErr), errors.As(err, &parseErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
