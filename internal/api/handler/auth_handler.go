package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"campus_media/internal/app/service"
	"campus_media/internal/common"
	"campus_media/internal/domain/model"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

const (
	MsgDuplicate       = "Mobile or email already exists"
	MsgInvalidPassword = "Invalid password"
	MsgInvalidPayload  = "Invalid request payload"
)

// AuthHandler serves signup and login for one principal kind.
type AuthHandler struct {
	authService *service.AuthService
	kind        model.PrincipalKind
}

func NewAuthHandler(authService *service.AuthService, kind model.PrincipalKind) *AuthHandler {
	return &AuthHandler{authService: authService, kind: kind}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/signup", h.signup)
	r.Post("/login", h.login)
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithMessage(w, http.StatusBadRequest, MsgInvalidPayload)
		return
	}

	if _, err := h.authService.Signup(r.Context(), h.kind, req); err != nil {
		h.respondError(w, r, "signup", err)
		return
	}
	common.RespondWithMessage(w, http.StatusOK, h.kind.Label()+" added successfully")
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithMessage(w, http.StatusBadRequest, MsgInvalidPayload)
		return
	}

	resp, err := h.authService.Login(r.Context(), h.kind, req)
	if err != nil {
		h.respondError(w, r, "login", err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

// respondError picks the client-facing message; internal detail only reaches the log.
func (h *AuthHandler) respondError(w http.ResponseWriter, r *http.Request, action string, err error) {
	status := common.HTTPStatusFromError(err)
	var message string
	switch {
	case status == http.StatusConflict:
		message = MsgDuplicate
	case errors.Is(err, common.ErrNotFound):
		message = h.kind.Label() + " not found"
	case errors.Is(err, common.ErrUnauthorized):
		message = MsgInvalidPassword
	case errors.Is(err, common.ErrBadRequest):
		message = publicValidationMessage(err)
	case status == http.StatusServiceUnavailable:
		message = common.MsgUnavailable
		log.Printf("[%s] %s %s not completed: %v", chiMiddleware.GetReqID(r.Context()), h.kind, action, err)
	default:
		status = http.StatusInternalServerError
		message = common.MsgInternalError
		log.Printf("[%s] Error in %s %s: %v", chiMiddleware.GetReqID(r.Context()), h.kind, action, err)
	}
	common.RespondWithMessage(w, status, message)
}
