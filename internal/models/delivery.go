package models

import "github.com/example/jewa/internal/approval"

// DeliveryEntry is a parcel expected at, or waiting at, the gate.
type DeliveryEntry struct {
	ID             ID                 `json:"id"`
	NotificationID ID                 `json:"notification_id"`
	Name           string             `json:"name"`
	Company        string             `json:"company,omitempty"`
	Phone          string             `json:"phone"`
	HouseID        ID                 `json:"house_id"`
	ResidentID     ID                 `json:"resident_id"`
	TypeOfDelivery string             `json:"type_of_delivery,omitempty"`
	OTP            Code               `json:"otp"`
	PickupOTP      Code               `json:"pickup_otp,omitempty"`
	OTPStatus      approval.OTPStatus `json:"otp_status"`
	Status         approval.State     `json:"delivery_status"`
	TimeIn         Timestamp          `json:"time_in"`
	TimeOut        Timestamp          `json:"time_out"`
	CreatedAt      Timestamp          `json:"created_at"`
	UpdatedAt      Timestamp          `json:"updated_at"`
}

// TimesOrdered reports whether time_in does not come after time_out.
func (d DeliveryEntry) TimesOrdered() bool {
	return timesOrdered(d.TimeIn, d.TimeOut)
}
