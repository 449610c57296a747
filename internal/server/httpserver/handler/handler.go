package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nearhand/nearhand-go/internal/core/domain"
	"github.com/nearhand/nearhand-go/internal/core/service"
	"github.com/nearhand/nearhand-go/internal/storage"
)

// Handler routes API requests to the domain services.
type Handler struct {
	accountSvc *service.AccountService
	requestSvc *service.RequestService
	logger     *slog.Logger
	mux        *http.ServeMux
}

// New creates a Handler over the given services.
func New(accountSvc *service.AccountService, requestSvc *service.RequestService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	h := &Handler{
		accountSvc: accountSvc,
		requestSvc: requestSvc,
		logger:     logger,
		mux:        http.NewServeMux(),
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	// Health endpoint (no auth required)
	h.mux.HandleFunc("GET /health", h.handleHealth)

	// Account endpoints
	h.mux.HandleFunc("POST /api/create-account", h.handleCreateAccount)
	h.mux.HandleFunc("POST /api/login", h.handleLogin)
	h.mux.HandleFunc("POST /api/user-data", h.handleUserData)

	// Senior endpoints
	h.mux.HandleFunc("POST /api/request-help", h.handleRequestHelp)
	h.mux.HandleFunc("POST /api/help-requests", h.handleOwnRequest)
	h.mux.HandleFunc("POST /api/delete-help-request", h.handleDeleteRequest)

	// Volunteer endpoints
	h.mux.HandleFunc("POST /api/request-work", h.handleRequestWork)
	h.mux.HandleFunc("POST /api/get-request", h.handleGetRequest)
	h.mux.HandleFunc("POST /api/accept-request", h.handleAcceptRequest)
	h.mux.HandleFunc("POST /api/accepted-requests", h.handleAcceptedRequests)
	h.mux.HandleFunc("POST /api/mark-request-completed", h.handleMarkCompleted)
}

// decode reads the JSON request body into target. A failure is the
// client's problem: it maps to 400 via ErrBadRequest.
func (h *Handler) decode(r *http.Request, target any) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return domain.ErrBadRequest.WithDetails("failed to decode body: " + err.Error())
	}
	return nil
}

// writeJSON writes a success response in the standard envelope.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := getRequestID(w)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(NewResponse(requestID, data)); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes an error response in the standard envelope.
func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	requestID := getRequestID(w)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(NewErrorResponse(requestID, code, message))
}

// getRequestID reads the request ID stamped by the middleware.
func getRequestID(w http.ResponseWriter) string {
	return w.Header().Get("X-Request-ID")
}

// handleServiceError converts service errors to HTTP responses.
//
// Statuses follow the API contract: business conflicts are 409,
// credential failures 403, role violations 405, malformed input 400.
// Severity tiers mirror how interesting each failure is: security
// events loudest, routine conflicts quietest.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, level := classifyError(err)
	code := domain.GetErrorCode(err)
	if code == "" {
		if errors.Is(err, storage.ErrConflict) {
			code = "NH-SYS-4090"
		} else {
			code = "NH-SYS-5000"
		}
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		// Internal details stay in the log.
		message = "unexpected server error"
	}

	h.logger.Log(r.Context(), level, "request failed",
		"request_id", getRequestID(w),
		"path", r.URL.Path,
		"code", code,
		"error", err.Error(),
	)

	h.writeError(w, status, code, message)
}

func classifyError(err error) (int, slog.Level) {
	switch {
	case errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrIncorrectPassword):
		return http.StatusForbidden, slog.LevelWarn

	case errors.Is(err, domain.ErrNotSenior),
		errors.Is(err, domain.ErrNotVolunteer):
		return http.StatusMethodNotAllowed, slog.LevelInfo

	case errors.Is(err, domain.ErrUsernameAlreadyExists),
		errors.Is(err, domain.ErrUsernameDoesntExist),
		errors.Is(err, domain.ErrAlreadyRequestedHelp),
		errors.Is(err, domain.ErrDidntRequestHelp),
		errors.Is(err, domain.ErrRequestDoesntExist),
		errors.Is(err, domain.ErrRequestNotAcceptedByUser),
		errors.Is(err, domain.ErrRequestNotAcceptable),
		errors.Is(err, storage.ErrConflict):
		return http.StatusConflict, slog.LevelDebug

	case errors.Is(err, domain.ErrBadRequest),
		errors.Is(err, domain.ErrAccountValidation):
		return http.StatusBadRequest, slog.LevelDebug

	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, slog.LevelInfo

	default:
		return http.StatusInternalServerError, slog.LevelError
	}
}
