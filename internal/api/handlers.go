package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/cubny/farewatch"
)

type handler struct {
	checker   Checker
	startTime time.Time
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg, Message: err.Error()})
}

// writeCheckError maps engine errors onto HTTP status codes
func writeCheckError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, farewatch.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, "invalid route", err)
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error", err)
	}
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"status":  "ok",
		"session": h.checker.Session(),
		"zones":   h.checker.Zones().Len(),
		"uptime":  time.Since(h.startTime).String(),
	})
}

// zones lists the zones, optionally only the ones of the borough query parameter
func (h *handler) zones(w http.ResponseWriter, r *http.Request) {
	zones := h.checker.Zones().Zones(r.URL.Query().Get("borough"))
	render.JSON(w, r, map[string]any{
		"count": len(zones),
		"zones": zones,
	})
}

// zoneNames lists the display names accepted by check-by-name
func (h *handler) zoneNames(w http.ResponseWriter, r *http.Request) {
	names := h.checker.Zones().DisplayNames()
	render.JSON(w, r, map[string]any{
		"count": len(names),
		"names": names,
	})
}

func (h *handler) boroughs(w http.ResponseWriter, r *http.Request) {
	boroughs := h.checker.Zones().Boroughs()
	render.JSON(w, r, map[string]any{
		"count":    len(boroughs),
		"boroughs": boroughs,
	})
}

// checkRoute checks the route of the pickup and dropoff location ID query parameters
func (h *handler) checkRoute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.checker.CheckRoute(q.Get("pickup"), q.Get("dropoff"))
	if err != nil {
		writeCheckError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

// checkRouteByName checks the route of the pickup and dropoff display name query parameters
func (h *handler) checkRouteByName(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.checker.CheckRouteByName(q.Get("pickup"), q.Get("dropoff"))
	if err != nil {
		writeCheckError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}
