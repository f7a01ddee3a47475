package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/csquest/api/internal/catalog"
	"github.com/csquest/api/internal/game"
	"github.com/csquest/api/internal/progression"
	"github.com/csquest/api/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// domainErrors maps rejections to their status. The sentinel's own text is
// the response message.
var domainErrors = []struct {
	err    error
	status int
}{
	{progression.ErrInsufficientFunds, http.StatusPaymentRequired},
	{progression.ErrNotOwned, http.StatusConflict},
	{progression.ErrNotEquippable, http.StatusConflict},
	{progression.ErrNotConsumable, http.StatusConflict},
	{progression.ErrPetLocked, http.StatusConflict},
	{progression.ErrAlreadyOwned, http.StatusConflict},
	{progression.ErrQuestLocked, http.StatusConflict},
	{progression.ErrQuestCompleted, http.StatusConflict},
	{game.ErrBattleInProgress, http.StatusConflict},
	{game.ErrNoBattle, http.StatusConflict},
	{game.ErrInvalidSlot, http.StatusBadRequest},
	{game.ErrAnswerCount, http.StatusBadRequest},
}

func writeGameError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "player not found")
		return
	case errors.Is(err, catalog.ErrUnknown):
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	for _, d := range domainErrors {
		if errors.Is(err, d.err) {
			writeError(w, d.status, d.err.Error())
			return
		}
	}
	logger.Error("request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}
