package handler

import (
	"time"

	"github.com/nearhand/nearhand-go/internal/core/domain"
	"github.com/nearhand/nearhand-go/pkg/geo"
)

// Response is the standard API response envelope. All JSON responses
// use this format (except /metrics, which is Prometheus text).
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
	}
}

// CreateAccountRequest is the request body for POST /api/create-account.
type CreateAccountRequest struct {
	Username string    `json:"username"`
	Name     string    `json:"name"`
	Address  string    `json:"address"`
	Location geo.Point `json:"location"`
	UserType string    `json:"userType"`
	Password string    `json:"password"`
}

// LoginRequest is the request body for POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse carries a freshly issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// AuthorizedRequest is the body shape for endpoints that need only
// the bearer token.
type AuthorizedRequest struct {
	Authorization string `json:"authorization"`
}

// RequestHelpRequest is the request body for POST /api/request-help.
type RequestHelpRequest struct {
	Authorization string `json:"authorization"`
	Picture       string `json:"picture"`
	Notes         string `json:"notes"`
}

// RequestHelpResponse is the response body for POST /api/request-help.
type RequestHelpResponse struct {
	ID string `json:"id"`
}

// OwnRequestResponse is the response body for POST /api/help-requests.
type OwnRequestResponse struct {
	Picture      string              `json:"picture"`
	Notes        string              `json:"notes"`
	CreationTime int64               `json:"creationTime"`
	State        domain.RequestState `json:"state"`
}

// DeleteRequestResponse is the response body for POST /api/delete-help-request.
type DeleteRequestResponse struct {
	Deleted bool `json:"deleted"`
}

// RequestIDRequest is the body shape for endpoints addressing one
// help request by id.
type RequestIDRequest struct {
	Authorization string `json:"authorization"`
	ID            string `json:"id"`
}

// RequestOwnerInfo identifies the senior behind a request in detail
// responses.
type RequestOwnerInfo struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

// RequestDetailResponse is the response body for POST /api/get-request.
type RequestDetailResponse struct {
	User    RequestOwnerInfo `json:"user"`
	Picture string           `json:"picture"`
	Notes   string           `json:"notes"`
	Dist    float64          `json:"dist"`
	Address string           `json:"address"`
}
