package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Freeeeeet/connect_portal/internal/validation"
)

type ErrorResponse struct {
	Error   string                       `json:"error"`
	Details validation.ValidationErrors `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data any `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

func (h *Handler) writeSuccess(w http.ResponseWriter, status int, data any) {
	if err := writeJSON(w, status, SuccessResponse{Data: data}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := errorStatus(err)

	resp := ErrorResponse{Error: message}
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Details = verrs
	}

	fields := []zap.Field{
		zap.String("request_id", requestID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", fields...)
	} else {
		h.logger.Debug("Request rejected", fields...)
	}

	if writeErr := writeJSON(w, status, resp); writeErr != nil {
		h.logger.Error("Failed to write error response", zap.Error(writeErr))
	}
}

// decodeBody читает JSON тело запроса, неизвестные поля запрещены
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return ErrInvalidBody
	}
	return nil
}
