package models

// Activity actions.
const (
	ActionPreauthorise     = "preauthorise"
	ActionRevokeOTP        = "revoke_otp"
	ActionDeliveryDecision = "delivery_decision"
	ActionRaiseAlert       = "raise_alert"
	ActionUpdateAlert      = "update_alert"
	ActionHelpRegister     = "help_register"
	ActionHelpCheckIn      = "help_check_in"
	ActionHelpCheckOut     = "help_check_out"
	ActionHelpPasscode     = "help_passcode"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// ActivityRecord is one mutation the gateway performed for a resident.
type ActivityRecord struct {
	BaseModel
	ResidentID int64  `gorm:"index" json:"resident_id"`
	Action     string `gorm:"size:32;index" json:"action"`
	Subject    string `json:"subject"`
	Outcome    string `gorm:"size:16" json:"outcome"`
	Error      string `json:"error,omitempty"`
}
