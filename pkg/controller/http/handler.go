package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/crowd-lab/crowdsim/pkg/domain/interfaces"
	"github.com/crowd-lab/crowdsim/pkg/domain/model"
	"github.com/crowd-lab/crowdsim/pkg/utils/errutil"
	"github.com/crowd-lab/crowdsim/pkg/utils/safe"
)

func respondJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

// runTurnHandler executes one simulation turn against the whole population
func (s *Server) runTurnHandler(w http.ResponseWriter, r *http.Request) {
	var input model.TurnInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to decode turn input"), http.StatusBadRequest)
		return
	}

	result, err := s.uc.RunTurn(r.Context(), &input)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	respondJSON(w, r, http.StatusOK, result)
}

// turnHistoryHandler lists recent turn results, newest first
func (s *Server) turnHistoryHandler(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			errutil.HandleHTTP(r.Context(), w, goerr.New("limit must be a positive integer", goerr.V("limit", raw)), http.StatusBadRequest)
			return
		}
		limit = n
	}

	turns, err := s.uc.TurnHistory(r.Context(), limit)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}
	if turns == nil {
		turns = []*model.TurnResult{}
	}

	respondJSON(w, r, http.StatusOK, map[string]any{"turns": turns})
}

// personasHandler lists the configured persona catalog
func (s *Server) personasHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]any{"personas": s.uc.Catalog()})
}

// personaMemoryHandler returns one persona's accumulated memory state
func (s *Server) personaMemoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "persona id must be an integer"), http.StatusBadRequest)
		return
	}

	state, err := s.uc.PersonaMemory(id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, interfaces.ErrNotFound) {
			status = http.StatusNotFound
		}
		errutil.HandleHTTP(r.Context(), w, err, status)
		return
	}

	respondJSON(w, r, http.StatusOK, state)
}

// resetHandler wipes all persona memory and turn history
func (s *Server) resetHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Reset(r.Context()); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "reset"})
}
