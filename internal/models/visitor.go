package models

import (
	"encoding/json"
	"strings"

	"github.com/example/jewa/internal/approval"
)

// ModeOfEntry is how a visitor arrives at the gate.
type ModeOfEntry string

const (
	ModeWalk       ModeOfEntry = "walk"
	ModeVehicle    ModeOfEntry = "vehicle"
	ModeMotorcycle ModeOfEntry = "motorcycle"
)

func (m *ModeOfEntry) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*m = ""
		return nil
	}
	*m = ModeOfEntry(strings.ToLower(strings.TrimSpace(raw)))
	return nil
}

// VisitorEntry is a pre-authorised visit as returned by /getallvisitors.
type VisitorEntry struct {
	ID                 ID                 `json:"id"`
	Name               string             `json:"name"`
	Phone              string             `json:"phone"`
	HouseID            ID                 `json:"house_id"`
	ResidentID         ID                 `json:"resident_id"`
	ModeOfEntry        ModeOfEntry        `json:"mode_of_entry"`
	VehicleNumber      string             `json:"vehicle_number,omitempty"`
	VerificationNumber string             `json:"verification_number,omitempty"`
	ValidityDays       Days               `json:"validity"`
	OTP                Code               `json:"otp"`
	OTPStatus          approval.OTPStatus `json:"otp_status"`
	Status             approval.State     `json:"prebooked_status"`
	TimeIn             Timestamp          `json:"time_in"`
	TimeOut            Timestamp          `json:"time_out"`
	EventType          string             `json:"event_type,omitempty"`
	CreatedAt          Timestamp          `json:"created_at"`
	UpdatedAt          Timestamp          `json:"updated_at"`
}

// TimesOrdered reports whether time_in does not come after time_out.
func (v VisitorEntry) TimesOrdered() bool {
	return timesOrdered(v.TimeIn, v.TimeOut)
}

func timesOrdered(in, out Timestamp) bool {
	if in.IsZero() || out.IsZero() {
		return true
	}
	return !in.After(out.Time)
}
