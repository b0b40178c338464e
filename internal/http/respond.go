package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fjod/go_cart/storefront/internal/controller"
	"github.com/fjod/go_cart/storefront/internal/gateway"
	"github.com/fjod/go_cart/storefront/pkg/circuitbreaker"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.WithError(err).Warn("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// await waits for task and writes an error response when it failed.
func await(ctx context.Context, w http.ResponseWriter, task *controller.Task) bool {
	if err := task.Wait(ctx); err != nil {
		handleTaskError(w, err)
		return false
	}
	return true
}

// handleTaskError maps controller and gateway failures to HTTP statuses.
func handleTaskError(w http.ResponseWriter, err error) {
	var gwErr *gateway.Error

	switch {
	case errors.Is(err, controller.ErrNotLoggedIn):
		respondError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, controller.ErrSelfPurchase):
		respondError(w, http.StatusForbidden, "self_purchase", err.Error())
	case errors.Is(err, controller.ErrCheckoutPrecondition):
		respondError(w, http.StatusConflict, "checkout_precondition", err.Error())
	case errors.Is(err, controller.ErrMissingID):
		respondError(w, http.StatusBadRequest, "invalid_argument", err.Error())
	case errors.Is(err, controller.ErrClosed):
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, "timeout", "request timed out")
	case errors.As(err, &gwErr):
		handleGatewayError(w, gwErr)
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func handleGatewayError(w http.ResponseWriter, err *gateway.Error) {
	var httpStatus int
	var code string

	switch err.Kind {
	case gateway.KindProtocol:
		switch {
		case err.StatusCode == http.StatusNotFound:
			httpStatus, code = http.StatusNotFound, "not_found"
		case err.StatusCode == http.StatusUnauthorized:
			httpStatus, code = http.StatusUnauthorized, "unauthenticated"
		case err.StatusCode == http.StatusForbidden:
			httpStatus, code = http.StatusForbidden, "permission_denied"
		case err.StatusCode >= 400 && err.StatusCode < 500:
			httpStatus, code = http.StatusBadRequest, "invalid_argument"
		default:
			httpStatus, code = http.StatusBadGateway, "upstream_error"
		}
	case gateway.KindEmptyResponse:
		httpStatus, code = http.StatusBadGateway, "empty_response"
	default:
		if errors.Is(err, circuitbreaker.ErrOpenState) || errors.Is(err, circuitbreaker.ErrTooManyRequests) {
			httpStatus, code = http.StatusServiceUnavailable, "service_unavailable"
		} else {
			httpStatus, code = http.StatusBadGateway, "upstream_unreachable"
		}
	}

	respondJSON(w, httpStatus, ErrorResponse{
		Error:   err.Message,
		Code:    code,
		Details: err.Op,
	})
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
