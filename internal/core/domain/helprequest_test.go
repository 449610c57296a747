package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestRequestState_MarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		state    RequestState
		expected string
	}{
		{"pending", Pending(), `"Pending"`},
		{"accepted", AcceptedBy("bob"), `{"AcceptedBy":"bob"}`},
		{"completed", CompletedBy("bob"), `{"MarkedCompletedBy":"bob"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.state)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(data) != tt.expected {
				t.Errorf("Marshal() = %s, want %s", data, tt.expected)
			}
		})
	}
}

func TestRequestState_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected RequestState
	}{
		{"pending", `"Pending"`, Pending()},
		{"accepted", `{"AcceptedBy":"eve"}`, AcceptedBy("eve")},
		{"completed", `{"MarkedCompletedBy":"eve"}`, CompletedBy("eve")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var state RequestState
			if err := json.Unmarshal([]byte(tt.input), &state); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if state != tt.expected {
				t.Errorf("Unmarshal() = %+v, want %+v", state, tt.expected)
			}
		})
	}
}

func TestRequestState_UnmarshalJSON_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown bare tag", `"Cancelled"`},
		{"unknown object tag", `{"CancelledBy":"x"}`},
		{"wrong type", `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var state RequestState
			if err := json.Unmarshal([]byte(tt.input), &state); err == nil {
				t.Errorf("Unmarshal(%s) should fail", tt.input)
			}
		})
	}
}

func TestNewHelpRequest(t *testing.T) {
	before := time.Now().UnixMilli()
	request := NewHelpRequest("alice", "pic-ref", "groceries please")
	after := time.Now().UnixMilli()

	if request.Owner != "alice" {
		t.Errorf("Owner = %q, want %q", request.Owner, "alice")
	}
	if request.State.Kind != StatePending {
		t.Errorf("State = %+v, want Pending", request.State)
	}
	if request.CreatedAt < before || request.CreatedAt > after {
		t.Errorf("CreatedAt = %d, want within [%d, %d]", request.CreatedAt, before, after)
	}
}

func TestHelpRequest_Lifecycle(t *testing.T) {
	request := NewHelpRequest("alice", "", "notes")

	if err := request.Accept("bob"); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	if request.State != AcceptedBy("bob") {
		t.Errorf("State = %+v, want AcceptedBy(bob)", request.State)
	}

	if err := request.Complete("bob"); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if request.State != CompletedBy("bob") {
		t.Errorf("State = %+v, want CompletedBy(bob)", request.State)
	}
}

func TestHelpRequest_Accept_Overwrites(t *testing.T) {
	// A second volunteer may take over an accepted request; the accepted
	// state simply moves to the new volunteer.
	request := NewHelpRequest("alice", "", "")

	if err := request.Accept("bob"); err != nil {
		t.Fatalf("Accept(bob) error = %v", err)
	}
	if err := request.Accept("eve"); err != nil {
		t.Fatalf("Accept(eve) error = %v", err)
	}
	if request.State != AcceptedBy("eve") {
		t.Errorf("State = %+v, want AcceptedBy(eve)", request.State)
	}
}

func TestHelpRequest_Accept_Completed(t *testing.T) {
	request := NewHelpRequest("alice", "", "")
	request.State = CompletedBy("bob")

	err := request.Accept("eve")
	if !errors.Is(err, ErrRequestNotAcceptable) {
		t.Errorf("Accept() error = %v, want ErrRequestNotAcceptable", err)
	}
	if request.State != CompletedBy("bob") {
		t.Error("Accept() must not mutate a completed request")
	}
}

func TestHelpRequest_Complete_Errors(t *testing.T) {
	tests := []struct {
		name      string
		state     RequestState
		volunteer string
	}{
		{"pending request", Pending(), "bob"},
		{"accepted by someone else", AcceptedBy("bob"), "eve"},
		{"already completed", CompletedBy("bob"), "bob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := NewHelpRequest("alice", "", "")
			request.State = tt.state

			err := request.Complete(tt.volunteer)
			if !errors.Is(err, ErrRequestNotAcceptedByUser) {
				t.Errorf("Complete() error = %v, want ErrRequestNotAcceptedByUser", err)
			}
			if request.State != tt.state {
				t.Error("failed Complete() must not mutate state")
			}
		})
	}
}

func TestHelpRequest_RoundTrip(t *testing.T) {
	request := NewHelpRequest("alice", "pic", "notes")
	request.State = AcceptedBy("bob")

	data, err := json.Marshal(request)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded HelpRequest
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if decoded != *request {
		t.Errorf("round trip: got %+v, want %+v", decoded, *request)
	}
}
