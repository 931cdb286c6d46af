package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"idle-dag/dag"
	"idle-dag/game"
	"idle-dag/logger"
	"idle-dag/models"
	"idle-dag/repository"
)

// Handler contains the HTTP handlers for the game API endpoints
type Handler struct {
	Game *game.Service
}

// NewHandler creates and returns a new Handler instance
func NewHandler(svc *game.Service) *Handler {
	return &Handler{Game: svc}
}

type tickRequest struct {
	Delta float64 `json:"delta"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func nodeID(r *http.Request) (dag.Handle, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return 0, err
	}
	return dag.Handle(id), nil
}

// GetNodes handles GET requests for the status of every node
func (h *Handler) GetNodes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Game.Snapshot())
}

// GetNode handles GET requests for the status of one node
func (h *Handler) GetNode(w http.ResponseWriter, r *http.Request) {
	id, err := nodeID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid node id")
		return
	}
	st, err := h.Game.Status(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// ClickNode queues a click that the next tick applies
func (h *Handler) ClickNode(w http.ResponseWriter, r *http.Request) {
	id, err := nodeID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid node id")
		return
	}
	if err := h.Game.Click(id); err != nil {
		logger.Logger.Warn("Rejected click", zap.Int("node", int(id)), zap.Error(err))
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"message": "Click queued",
		"node":    int(id),
	})
}

// Tick advances the game by the requested number of seconds. Used when the
// background loop is disabled and by clients that drive time themselves.
func (h *Handler) Tick(w http.ResponseWriter, r *http.Request) {
	var req tickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Delta < 0 {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	writeJSON(w, http.StatusOK, h.Game.Step(req.Delta))
}

// GetCurrency returns the current currency
func (h *Handler) GetCurrency(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int64{"currency": h.Game.Currency()})
}

// CreateSave persists the current state
func (h *Handler) CreateSave(w http.ResponseWriter, r *http.Request) {
	save, err := h.Game.Save()
	if err != nil {
		logger.Logger.Error("Failed to save game", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Game saved successfully",
		"save":    save,
	})
}

// GetLatestSave returns the most recent save without loading it
func (h *Handler) GetLatestSave(w http.ResponseWriter, r *http.Request) {
	save, err := h.Game.LatestSave()
	if err != nil {
		if errors.Is(err, repository.ErrNoSave) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		logger.Logger.Error("Failed to read latest save", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, save)
}

// GetSave returns a save by ID without loading it
func (h *Handler) GetSave(w http.ResponseWriter, r *http.Request) {
	save, err := h.Game.GetSave(mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, repository.ErrNoSave) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		logger.Logger.Error("Failed to read save", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, save)
}

// LoadLatestSave replaces the running game with the most recent save
func (h *Handler) LoadLatestSave(w http.ResponseWriter, r *http.Request) {
	save, err := h.Game.LoadLatest()
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNoSave):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, game.ErrInvalidSave):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			logger.Logger.Error("Failed to load latest save", zap.Error(err))
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Game loaded successfully",
		"save_id": save.ID,
		"nodes":   len(save.Nodes),
	})
}

// LoadSave replaces the running game with the save in the request body
func (h *Handler) LoadSave(w http.ResponseWriter, r *http.Request) {
	var save models.Save
	if err := json.NewDecoder(r.Body).Decode(&save); err != nil {
		logger.Logger.Error("Failed to decode save", zap.Error(err))
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.Game.Load(save); err != nil {
		logger.Logger.Warn("Rejected save", zap.Error(err))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Game loaded successfully",
		"nodes":   len(save.Nodes),
	})
}

// ResetGame starts over from the starting layout
func (h *Handler) ResetGame(w http.ResponseWriter, r *http.Request) {
	h.Game.Reset()
	writeJSON(w, http.StatusOK, h.Game.Snapshot())
}
