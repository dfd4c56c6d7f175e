package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"outbreak/communication"
	"outbreak/game"
	"outbreak/strategy"

	"github.com/rs/zerolog/log"
)

// Server answers the decision calls of an authoritative game for one side.
// The context of the side lives here, so calls are served one at a time.
type Server struct {
	strategy strategy.Strategy
	ctx      *strategy.Context
	mutex    sync.Mutex
}

func NewServer(s strategy.Strategy) *Server {
	return &Server{strategy: s, ctx: strategy.NewContext()}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+communication.ClassesRoute, s.handleClasses)
	mux.HandleFunc("POST "+communication.MovesRoute, handleDecision[game.MoveAction](s, s.strategy.DecideMoves))
	mux.HandleFunc("POST "+communication.AttacksRoute, handleDecision[game.AttackAction](s, s.strategy.DecideAttacks))
	mux.HandleFunc("POST "+communication.AbilitiesRoute, handleDecision[game.AbilityAction](s, s.strategy.DecideAbilities))
	return mux
}

// Start blocks serving on addr.
func (s *Server) Start(addr string) error {
	log.Info().Msgf("serving decisions on %s", addr)
	err := http.ListenAndServe(addr, s.Handler())
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) handleClasses(w http.ResponseWriter, r *http.Request) {
	var req communication.ClassesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mutex.Lock()
	classes := s.strategy.DecideCharacterClasses(req.Possible, req.NumToPick, req.MaxPerClass)
	s.mutex.Unlock()
	writeJSON(w, classes)
}

type decider[T any] func(*strategy.Context, map[string][]T, *game.GameState) []T

func handleDecision[T any](s *Server, decide decider[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req communication.DecisionRequest[T]
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gs, err := game.DecodeGameState(req.GameState)
		if err != nil {
			log.Warn().Err(err).Msgf("rejected %s", r.URL.Path)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		s.mutex.Lock()
		actions := decide(s.ctx, req.Possible, gs)
		s.mutex.Unlock()

		if actions == nil {
			actions = []T{}
		}
		writeJSON(w, actions)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}
