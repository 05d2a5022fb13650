// Package approval holds the lifecycle of visitor and delivery entries.
//
// The backend owns every transition. These functions only pre-check what a
// resident is about to ask for and classify what the backend returned.
package approval

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTransition is returned when an event is not allowed from the current state.
var ErrInvalidTransition = errors.New("invalid transition")

// Kind distinguishes visitor entries from deliveries.
type Kind int

const (
	Visitor Kind = iota + 1
	Delivery
)

func (k Kind) String() string {
	switch k {
	case Visitor:
		return "visitor"
	case Delivery:
		return "delivery"
	default:
		return "unknown"
	}
}

// State is the lifecycle stage of an entry.
type State int

const (
	Unknown State = iota
	Pending
	Approved
	Denied
	LeftAtGate
	Picked
)

var stateNames = map[State]string{
	Unknown:    "unknown",
	Pending:    "pending",
	Approved:   "approved",
	Denied:     "denied",
	LeftAtGate: "left_at_gate",
	Picked:     "picked",
}

// stateAliases maps the spellings the API has used over time.
var stateAliases = map[string]State{
	"pending":       Pending,
	"incoming":      Pending,
	"prebooked":     Pending,
	"awaiting":      Pending,
	"approved":      Approved,
	"allowed":       Approved,
	"received":      Approved,
	"accepted":      Approved,
	"checked_in":    Approved,
	"denied":        Denied,
	"rejected":      Denied,
	"declined":      Denied,
	"left_at_gate":  LeftAtGate,
	"leftatgate":    LeftAtGate,
	"leave_at_gate": LeftAtGate,
	"picked":        Picked,
	"picked_up":     Picked,
	"collected":     Picked,
}

// ParseState maps an upstream status string onto a State. Unrecognised
// values become Unknown.
func ParseState(raw string) State {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	if s, ok := stateAliases[key]; ok {
		return s
	}
	return Unknown
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return stateNames[Unknown]
}

// Terminal reports whether no further decision can follow.
func (s State) Terminal() bool {
	switch s {
	case Approved, Denied, Picked:
		return true
	default:
		return false
	}
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *State) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		// Some revisions of the API send numeric status codes; those are not mapped.
		*s = Unknown
		return nil
	}
	*s = ParseState(raw)
	return nil
}

// Event is something that happens to an entry at the gate or by resident action.
type Event int

const (
	Approve Event = iota + 1
	Deny
	LeaveAtGate
	Pickup
)

func (e Event) String() string {
	switch e {
	case Approve:
		return "approve"
	case Deny:
		return "deny"
	case LeaveAtGate:
		return "leave_at_gate"
	case Pickup:
		return "pickup"
	default:
		return "unknown"
	}
}

type edge struct {
	from  State
	event Event
}

var transitions = map[edge]State{
	{Pending, Approve}:     Approved,
	{Pending, Deny}:        Denied,
	{Pending, LeaveAtGate}: LeftAtGate,
	{LeftAtGate, Pickup}:   Picked,
}

// Transition returns the state reached from `from` on `event`.
// Leaving at the gate and picking up only apply to deliveries.
func Transition(kind Kind, from State, event Event) (State, error) {
	if kind != Delivery && (event == LeaveAtGate || event == Pickup) {
		return from, fmt.Errorf("%s cannot %s: %w", kind, event, ErrInvalidTransition)
	}

	to, ok := transitions[edge{from, event}]
	if !ok {
		return from, fmt.Errorf("%s %s -> %s: %w", kind, from, event, ErrInvalidTransition)
	}
	return to, nil
}

// OTPStatus tracks whether an entry's code can still be used at the gate.
type OTPStatus int

const (
	OTPActive OTPStatus = iota
	OTPInvalid
)

func (o OTPStatus) String() string {
	if o == OTPInvalid {
		return "Invalid"
	}
	return "Active"
}

// ParseOTPStatus treats an empty value as Active and anything other than
// "active" as Invalid.
func ParseOTPStatus(raw string) OTPStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "active", "valid":
		return OTPActive
	default:
		return OTPInvalid
	}
}

func (o OTPStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON also accepts the numeric and boolean flags of older API
// revisions: 0 and false are Active, any other value is Invalid.
func (o *OTPStatus) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("otp status: %w", err)
	}
	switch v := raw.(type) {
	case nil:
		*o = OTPActive
	case string:
		*o = ParseOTPStatus(v)
	case bool:
		*o = OTPActive
		if v {
			*o = OTPInvalid
		}
	case float64:
		*o = OTPActive
		if v != 0 {
			*o = OTPInvalid
		}
	default:
		*o = OTPInvalid
	}
	return nil
}

// RevokeOTP pre-checks a revocation. It returns the resulting OTP status and
// whether anything changes. Revoking an invalid code is a no-op.
func RevokeOTP(state State, current OTPStatus) (OTPStatus, bool, error) {
	if current == OTPInvalid {
		return OTPInvalid, false, nil
	}
	if state.Terminal() {
		return current, false, fmt.Errorf("revoke otp in %s state: %w", state, ErrInvalidTransition)
	}
	return OTPInvalid, true, nil
}
