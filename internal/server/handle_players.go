package server

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"

	"github.com/csquest/api/internal/csquest"
	"github.com/csquest/api/internal/game"
)

type CreatePlayerRequest struct {
	Username  string `json:"username"`
	Character string `json:"character"`
}

type CreatePlayerResponse struct {
	PlayerID string           `json:"playerId"`
	State    csquest.Snapshot `json:"state"`
}

type ItemRequest struct {
	ItemID string `json:"itemId"`
}

type SlotRequest struct {
	Slot csquest.Slot `json:"slot"`
}

type PetRequest struct {
	PetID string `json:"petId"`
}

func handleCreatePlayer(logger *slog.Logger, games *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreatePlayerRequest
		if r.ContentLength != 0 {
			if err := readJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
		}
		req.Username = strings.TrimSpace(req.Username)
		if len(req.Username) > 32 {
			writeError(w, http.StatusBadRequest, "username must be at most 32 characters")
			return
		}

		id, snap, err := games.CreatePlayer(r.Context(), req.Username, strings.TrimSpace(req.Character))
		if err != nil {
			writeGameError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, CreatePlayerResponse{PlayerID: id, State: snap})
	}
}

func handleState(logger *slog.Logger, games *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := games.State(r.Context(), playerID(r))
		if err != nil {
			writeGameError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func handleAppearance(logger *slog.Logger, games *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := games.Appearance(r.Context(), playerID(r))
		if err != nil {
			writeGameError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// handleReport renders into a buffer first so a failure can still be
// reported as JSON.
func handleReport(logger *slog.Logger, games *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := games.Report(r.Context(), playerID(r), &buf); err != nil {
			writeGameError(w, logger, err)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `inline; filename="csquest-report.pdf"`)
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
	}
}

// stateHandler decodes a request body of type T and applies op to the
// player named in the path.
func stateHandler[T any](logger *slog.Logger, op func(r *http.Request, playerID string, req T) (game.StateView, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req T
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		v, err := op(r, playerID(r), req)
		if err != nil {
			writeGameError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func handlePurchase(logger *slog.Logger, games *game.Service) http.HandlerFunc {
	return stateHandler(logger, func(r *http.Request, playerID string, req ItemRequest) (game.StateView, error) {
		return games.Purchase(r.Context(), playerID, req.ItemID)
	})
}

func handleEquip(logger *slog.Logger, games *game.Service) http.HandlerFunc {
	return stateHandler(logger, func(r *http.Request, playerID string, req ItemRequest) (game.StateView, error) {
		return games.Equip(r.Context(), playerID, req.ItemID)
	})
}

func handleUnequip(logger *slog.Logger, games *game.Service) http.HandlerFunc {
	return stateHandler(logger, func(r *http.Request, playerID string, req SlotRequest) (game.StateView, error) {
		return games.Unequip(r.Context(), playerID, req.Slot)
	})
}

func handleUseItem(logger *slog.Logger, games *game.Service) http.HandlerFunc {
	return stateHandler(logger, func(r *http.Request, playerID string, req ItemRequest) (game.StateView, error) {
		return games.UseItem(r.Context(), playerID, req.ItemID)
	})
}

func handleSelectPet(logger *slog.Logger, games *game.Service) http.HandlerFunc {
	return stateHandler(logger, func(r *http.Request, playerID string, req PetRequest) (game.StateView, error) {
		return games.SelectPet(r.Context(), playerID, req.PetID)
	})
}
