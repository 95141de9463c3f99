package httpapi

import (
	"net/http"

	"github.com/mbelyaev/postboard/internal/server/metrics"
	"github.com/mbelyaev/postboard/internal/server/services"
)

type resetHandler struct {
	resets    *services.ResetFlowService
	collector *metrics.Collector
}

type resetRequest struct {
	Email string `json:"email"`
}

type resetResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// POST /api/password-reset
//
// Always answers 200: the request flow is never disrupted by downstream
// failures, which surface only as success=false.
func (h *resetHandler) RequestReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result := h.resets.RequestReset(r.Context(), req.Email)
	if result.Success && h.collector != nil {
		h.collector.RecordResetRequest()
	}

	writeJSON(w, http.StatusOK, resetResponse{Success: result.Success, Message: result.Message})
}

type completeResetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// POST /api/password-reset/complete
func (h *resetHandler) CompleteReset(w http.ResponseWriter, r *http.Request) {
	var req completeResetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.resets.CompleteReset(r.Context(), req.Token, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Password updated successfully"})
}
