package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/csquest/api/internal/csquest"
	"github.com/csquest/api/internal/game"
)

type QuestAttemptRequest struct {
	Answers []csquest.Answer `json:"answers"`
}

func handleQuestAttempt(logger *slog.Logger, games *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req QuestAttemptRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		res, err := games.AttemptQuest(r.Context(),
			playerID(r), chi.URLParam(r, "questID"), req.Answers)
		if err != nil {
			writeGameError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
