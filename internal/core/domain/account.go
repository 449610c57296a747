package domain

import (
	"encoding/json"
	"fmt"

	"github.com/nearhand/nearhand-go/pkg/geo"
)

// Account constraints.
const (
	MaxUsernameLength    = 128
	MaxDisplayNameLength = 256
	MaxAddressLength     = 512

	// SaltLength is the byte length of the password salt.
	SaltLength = 32
)

// RoleKind discriminates the two account roles.
type RoleKind string

// Account roles.
const (
	RoleSenior    RoleKind = "Senior"
	RoleVolunteer RoleKind = "Volunteer"
)

// Role is a tagged sum over the role-specific payloads.
//
// A Senior carries at most one active help request id; a Volunteer
// carries the ordered list of request ids it has accepted. Exactly one
// payload is meaningful, selected by Kind. Every guard site switches on
// Kind exhaustively rather than sniffing payloads.
type Role struct {
	Kind RoleKind

	// ActiveRequestID is the senior's outstanding help request id.
	// Empty means no active request. Meaningful only for RoleSenior.
	ActiveRequestID string

	// AcceptedRequestIDs is the volunteer's accepted request ids in
	// insertion order, duplicates allowed. Meaningful only for
	// RoleVolunteer.
	AcceptedRequestIDs []string
}

// NewSeniorRole returns a Senior role with no active request.
func NewSeniorRole() Role {
	return Role{Kind: RoleSenior}
}

// NewVolunteerRole returns a Volunteer role with an empty accepted list.
func NewVolunteerRole() Role {
	return Role{Kind: RoleVolunteer, AcceptedRequestIDs: []string{}}
}

// The wire shape of Role is externally tagged:
// {"Senior": "<id>" | null} or {"Volunteer": ["<id>", ...]}.

// MarshalJSON encodes the role in externally-tagged form.
func (r Role) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case RoleSenior:
		var id *string
		if r.ActiveRequestID != "" {
			id = &r.ActiveRequestID
		}
		return json.Marshal(map[string]*string{"Senior": id})
	case RoleVolunteer:
		accepted := r.AcceptedRequestIDs
		if accepted == nil {
			accepted = []string{}
		}
		return json.Marshal(map[string][]string{"Volunteer": accepted})
	default:
		return nil, fmt.Errorf("unknown role kind %q", r.Kind)
	}
}

// UnmarshalJSON decodes the externally-tagged role form.
func (r *Role) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if payload, ok := raw[string(RoleVolunteer)]; ok {
		accepted := []string{}
		if err := json.Unmarshal(payload, &accepted); err != nil {
			return fmt.Errorf("volunteer payload: %w", err)
		}
		*r = Role{Kind: RoleVolunteer, AcceptedRequestIDs: accepted}
		return nil
	}

	if payload, ok := raw[string(RoleSenior)]; ok {
		var id *string
		if err := json.Unmarshal(payload, &id); err != nil {
			return fmt.Errorf("senior payload: %w", err)
		}
		role := Role{Kind: RoleSenior}
		if id != nil {
			role.ActiveRequestID = *id
		}
		*r = role
		return nil
	}

	return fmt.Errorf("role must be tagged %q or %q", RoleSenior, RoleVolunteer)
}

// Credential holds the salted password digest for an account.
//
// The salt is generated once at account creation. The digest is
// hash(salt ‖ password); the plaintext password is never stored.
type Credential struct {
	Salt         []byte `json:"salt"`
	PasswordHash []byte `json:"password_hash"`
}

// Account represents a registered senior or volunteer.
//
// The username is the storage key: unique and immutable after creation.
// Accounts are never deleted by any in-scope operation.
type Account struct {
	Username    string     `json:"username"`
	DisplayName string     `json:"name"`
	Address     string     `json:"address"`
	Location    geo.Point  `json:"location"`
	Role        Role       `json:"role"`
	Credential  Credential `json:"credential"`
}

// Validate validates account fields against constraints.
func (a *Account) Validate() error {
	var violations []string

	if a.Username == "" {
		violations = append(violations, "username is required")
	}
	if len(a.Username) > MaxUsernameLength {
		violations = append(violations, "username exceeds 128 characters")
	}
	if len(a.DisplayName) > MaxDisplayNameLength {
		violations = append(violations, "name exceeds 256 characters")
	}
	if len(a.Address) > MaxAddressLength {
		violations = append(violations, "address exceeds 512 characters")
	}
	if a.Role.Kind != RoleSenior && a.Role.Kind != RoleVolunteer {
		violations = append(violations, "role must be Senior or Volunteer")
	}

	if len(violations) > 0 {
		return ErrAccountValidation.WithDetails(joinViolations(violations))
	}

	return nil
}

// PublicProfile is the outward projection of an Account, excluding
// the credential.
type PublicProfile struct {
	Username    string    `json:"username"`
	DisplayName string    `json:"name"`
	Address     string    `json:"address"`
	Location    geo.Point `json:"location"`
	Role        Role      `json:"user_type"`
}

// Public returns the account's public projection.
func (a *Account) Public() PublicProfile {
	return PublicProfile{
		Username:    a.Username,
		DisplayName: a.DisplayName,
		Address:     a.Address,
		Location:    a.Location,
		Role:        a.Role,
	}
}

// Clone creates a deep copy of the account.
func (a *Account) Clone() *Account {
	clone := *a
	if a.Role.AcceptedRequestIDs != nil {
		clone.Role.AcceptedRequestIDs = append([]string(nil), a.Role.AcceptedRequestIDs...)
	}
	if a.Credential.Salt != nil {
		clone.Credential.Salt = append([]byte(nil), a.Credential.Salt...)
	}
	if a.Credential.PasswordHash != nil {
		clone.Credential.PasswordHash = append([]byte(nil), a.Credential.PasswordHash...)
	}
	return &clone
}

func joinViolations(violations []string) string {
	out := ""
	for i, v := range violations {
		if i > 0 {
			out += "; "
		}
		out += v
	}
	return out
}
