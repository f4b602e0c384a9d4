package common

import (
	"encoding/json"
	"net/http"
)

const (
	MsgInternalError = "Internal server error"
	MsgUnavailable   = "Service unavailable, please retry"
)

// MessageResponse is the body shape of every non-token reply.
type MessageResponse struct {
	Message string `json:"message"`
}

func RespondWithMessage(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, MessageResponse{Message: message})
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message": "Internal server error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
