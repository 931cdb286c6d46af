package routers

import (
	"net/http"

	"idle-dag/handlers"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up all the HTTP routes for the game. ws may be nil
// when no event stream is served.
func RegisterRoutes(r *mux.Router, h *handlers.Handler, ws http.HandlerFunc) {

	// Status of every node plus the currency
	r.HandleFunc("/nodes", h.GetNodes).Methods("GET")

	// Status of a single node
	r.HandleFunc("/nodes/{id:[0-9]+}", h.GetNode).Methods("GET")

	// Queues a click for the next tick
	r.HandleFunc("/nodes/{id:[0-9]+}/click", h.ClickNode).Methods("POST")

	// Advances the simulation by a client-chosen delta
	r.HandleFunc("/tick", h.Tick).Methods("POST")

	r.HandleFunc("/currency", h.GetCurrency).Methods("GET")

	// Save-game persistence
	r.HandleFunc("/saves", h.CreateSave).Methods("POST")
	r.HandleFunc("/saves/latest", h.GetLatestSave).Methods("GET")
	r.HandleFunc("/saves/latest/load", h.LoadLatestSave).Methods("POST")
	r.HandleFunc("/saves/{id}", h.GetSave).Methods("GET")

	// Loads a save supplied in the request body
	r.HandleFunc("/load", h.LoadSave).Methods("POST")

	r.HandleFunc("/reset", h.ResetGame).Methods("POST")

	// Tick events pushed to clients, clicks accepted back
	if ws != nil {
		r.HandleFunc("/ws", ws)
	}
}
