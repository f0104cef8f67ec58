package handler

import (
	"encoding/json"
	"net/http"

	"slotwise/internal/eventtypes/service"
	httputil "slotwise/pkg/http"
	"slotwise/pkg/logger"
	"slotwise/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type EventTypeHandler struct {
	service service.EventTypeService
	log     *logger.Logger
}

func NewEventTypeHandler(service service.EventTypeService, log *logger.Logger) *EventTypeHandler {
	return &EventTypeHandler{
		service: service,
		log:     log,
	}
}

func (h *EventTypeHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var eventType model.EventType
	if err := json.NewDecoder(r.Body).Decode(&eventType); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &eventType); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, eventType); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *EventTypeHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	eventType, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, eventType); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *EventTypeHandler) GetByOwner(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID := ps.ByName("ownerID")
	includeHidden := r.URL.Query().Get("include_hidden") == "true"

	eventTypes, err := h.service.GetByOwner(r.Context(), ownerID, includeHidden)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByOwner", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, eventTypes); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByOwner", "error", err)
	}
}

func (h *EventTypeHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var updates model.EventTypeUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "error", writeErr)
		}
		return
	}

	eventType, err := h.service.Update(r.Context(), id, &updates)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, eventType); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *EventTypeHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *EventTypeHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/eventtypes", h.Create)
	router.GET("/api/v1/eventtypes/id/:id", h.GetByID)
	router.GET("/api/v1/eventtypes/owner/:ownerID", h.GetByOwner)
	router.PATCH("/api/v1/eventtypes/id/:id", h.Update)
	router.DELETE("/api/v1/eventtypes/id/:id", h.Delete)
}
