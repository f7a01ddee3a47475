package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/csquest/api/internal/battle"
	"github.com/csquest/api/internal/csquest"
	"github.com/csquest/api/internal/game"
)

// BattleResponse is the encounter view. Accepted is false when the action
// was not valid in the current phase; the view is then unchanged.
type BattleResponse struct {
	Accepted bool        `json:"accepted"`
	Battle   battle.View `json:"battle"`
}

func handleStartBattle(logger *slog.Logger, games *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := games.StartBattle(r.Context(), playerID(r))
		if err != nil {
			writeGameError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, BattleResponse{Accepted: true, Battle: v})
	}
}

func handleGetBattle(logger *slog.Logger, games *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := games.Battle(r.Context(), playerID(r))
		if err != nil {
			writeGameError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, BattleResponse{Accepted: true, Battle: v})
	}
}

type battleAction func(ctx context.Context, playerID string, a csquest.Answer) (battle.View, bool, error)

// handleBattleAction runs an answer-carrying action. withBody is false
// for submit, which acts on the stored selection.
func handleBattleAction(logger *slog.Logger, withBody bool, action battleAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var a csquest.Answer
		if withBody {
			if err := readJSON(r, &a); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
		}
		v, ok, err := action(r.Context(), playerID(r), a)
		if err != nil {
			writeGameError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, BattleResponse{Accepted: ok, Battle: v})
	}
}

func handleAbandonBattle(logger *slog.Logger, games *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := games.Abandon(r.Context(), playerID(r)); err != nil {
			writeGameError(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
