package handler

import (
	"encoding/json"
	"net/http"

	"slotwise/internal/profiles/service"
	httputil "slotwise/pkg/http"
	"slotwise/pkg/logger"
	"slotwise/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ProfileHandler struct {
	service service.ProfileService
	log     *logger.Logger
}

func NewProfileHandler(service service.ProfileService, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		log:     log,
	}
}

func (h *ProfileHandler) Put(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var profile model.AvailabilityProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Put", "error", writeErr)
		}
		return
	}
	profile.OwnerID = ps.ByName("ownerID")

	if err := h.service.Save(r.Context(), &profile); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Put", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, profile); err != nil {
		h.log.Error("failed to write success response", "handler", "Put", "error", err)
	}
}

func (h *ProfileHandler) GetByOwner(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID := ps.ByName("ownerID")

	profile, err := h.service.GetByOwner(r.Context(), ownerID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByOwner", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, profile); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByOwner", "error", err)
	}
}

func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID := ps.ByName("ownerID")

	if err := h.service.Delete(r.Context(), ownerID); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ProfileHandler) RegisterRoutes(router *httprouter.Router) {
	router.PUT("/api/v1/profiles/:ownerID", h.Put)
	router.GET("/api/v1/profiles/:ownerID", h.GetByOwner)
	router.DELETE("/api/v1/profiles/:ownerID", h.Delete)
}
