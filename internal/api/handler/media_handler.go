package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"campus_media/internal/api/middleware"
	"campus_media/internal/app/service"
	"campus_media/internal/common"
	"campus_media/internal/domain/model"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

type MediaHandler struct {
	mediaService *service.MediaService
}

func NewMediaHandler(ms *service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: ms}
}

// RegisterRoutes mounts the media create endpoints. r must already carry the
// bearer Authenticator.
func (h *MediaHandler) RegisterRoutes(r chi.Router) {
	r.Post("/video", h.create(model.MediaVideo))
	r.Post("/image", h.create(model.MediaImage))
	r.Post("/event-image", h.create(model.MediaEventImage))
}

func (h *MediaHandler) create(kind model.MediaKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaimsFromContext(r.Context())
		if !ok {
			common.RespondWithMessage(w, http.StatusUnauthorized, middleware.MsgTokenMissing)
			return
		}

		var req service.CreateMediaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondWithMessage(w, http.StatusBadRequest, MsgInvalidPayload)
			return
		}

		if _, err := h.mediaService.CreateMedia(r.Context(), kind, claims.UserID, req); err != nil {
			if errors.Is(err, common.ErrBadRequest) {
				common.RespondWithMessage(w, http.StatusBadRequest, publicValidationMessage(err))
				return
			}
			log.Printf("[%s] Error adding %s: %v", chiMiddleware.GetReqID(r.Context()), kind, err)
			common.RespondWithMessage(w, http.StatusInternalServerError, common.MsgInternalError)
			return
		}
		common.RespondWithMessage(w, http.StatusOK, kind.Label()+" added successfully")
	}
}

// publicValidationMessage strips the sentinel suffix from a validation error,
// leaving the field-level reason built by the request's Validate method.
func publicValidationMessage(err error) string {
	msg := strings.TrimSuffix(err.Error(), ": "+common.ErrBadRequest.Error())
	if msg == "" || msg == err.Error() {
		return "Missing required fields"
	}
	return msg
}
