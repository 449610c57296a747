package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// RequestStateKind discriminates the help request lifecycle states.
type RequestStateKind string

// Help request lifecycle states.
const (
	StatePending   RequestStateKind = "Pending"
	StateAccepted  RequestStateKind = "AcceptedBy"
	StateCompleted RequestStateKind = "MarkedCompletedBy"
)

// RequestState is a tagged sum over the lifecycle states.
//
// Volunteer is the accepting volunteer's username and is meaningful
// only for StateAccepted and StateCompleted.
type RequestState struct {
	Kind      RequestStateKind
	Volunteer string
}

// Pending returns the initial lifecycle state.
func Pending() RequestState {
	return RequestState{Kind: StatePending}
}

// AcceptedBy returns the state of a request accepted by the volunteer.
func AcceptedBy(volunteer string) RequestState {
	return RequestState{Kind: StateAccepted, Volunteer: volunteer}
}

// CompletedBy returns the terminal state of a request completed by
// the volunteer.
func CompletedBy(volunteer string) RequestState {
	return RequestState{Kind: StateCompleted, Volunteer: volunteer}
}

// MarshalJSON encodes the state in externally-tagged form:
// "Pending", {"AcceptedBy": "<user>"}, or {"MarkedCompletedBy": "<user>"}.
func (s RequestState) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case StatePending:
		return json.Marshal(string(StatePending))
	case StateAccepted, StateCompleted:
		return json.Marshal(map[string]string{string(s.Kind): s.Volunteer})
	default:
		return nil, fmt.Errorf("unknown request state %q", s.Kind)
	}
}

// UnmarshalJSON decodes the externally-tagged state form.
func (s *RequestState) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err == nil {
		if tag != string(StatePending) {
			return fmt.Errorf("unknown request state %q", tag)
		}
		*s = Pending()
		return nil
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if volunteer, ok := raw[string(StateAccepted)]; ok {
		*s = AcceptedBy(volunteer)
		return nil
	}
	if volunteer, ok := raw[string(StateCompleted)]; ok {
		*s = CompletedBy(volunteer)
		return nil
	}

	return fmt.Errorf("request state must be tagged %q or %q", StateAccepted, StateCompleted)
}

// HelpRequest represents one senior's outstanding or resolved request
// for assistance.
//
// The id is the storage key: opaque, high-entropy, generated by the
// registry and never chosen by a caller. Owner is immutable after
// creation.
type HelpRequest struct {
	PictureRef string       `json:"picture"`
	Notes      string       `json:"notes"`
	CreatedAt  int64        `json:"creation_time"` // Unix milliseconds
	State      RequestState `json:"state"`
	Owner      string       `json:"owner"`
}

// NewHelpRequest creates a pending help request owned by the senior.
func NewHelpRequest(owner, pictureRef, notes string) *HelpRequest {
	return &HelpRequest{
		PictureRef: pictureRef,
		Notes:      notes,
		CreatedAt:  time.Now().UnixMilli(),
		State:      Pending(),
		Owner:      owner,
	}
}

// Accept transitions the request to AcceptedBy(volunteer).
//
// Accepting a request that another volunteer already holds overwrites
// the previous acceptance. A completed request can no longer be
// accepted; the completed state is terminal.
func (h *HelpRequest) Accept(volunteer string) error {
	switch h.State.Kind {
	case StatePending, StateAccepted:
		h.State = AcceptedBy(volunteer)
		return nil
	case StateCompleted:
		return ErrRequestNotAcceptable.WithDetails("request already completed")
	default:
		return ErrInternal.WithDetails(fmt.Sprintf("unknown request state %q", h.State.Kind))
	}
}

// Complete transitions the request to CompletedBy(volunteer).
//
// Only the volunteer currently holding the acceptance may complete it.
func (h *HelpRequest) Complete(volunteer string) error {
	switch h.State.Kind {
	case StateAccepted:
		if h.State.Volunteer != volunteer {
			return ErrRequestNotAcceptedByUser
		}
		h.State = CompletedBy(volunteer)
		return nil
	case StatePending, StateCompleted:
		return ErrRequestNotAcceptedByUser
	default:
		return ErrInternal.WithDetails(fmt.Sprintf("unknown request state %q", h.State.Kind))
	}
}

// IsPending reports whether the request is still open for acceptance.
func (h *HelpRequest) IsPending() bool {
	return h.State.Kind == StatePending
}

// CreatedAtTime returns CreatedAt as time.Time.
func (h *HelpRequest) CreatedAtTime() time.Time {
	return time.UnixMilli(h.CreatedAt)
}
