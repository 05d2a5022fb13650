package models

const (
	AlertPending  = "Pending"
	AlertClosed   = "Closed"
	AlertRejected = "Rejected"
)

// Alert is a security alert raised by a resident.
type Alert struct {
	ID            ID        `json:"id"`
	HouseID       ID        `json:"house_id"`
	ResidentID    ID        `json:"resident_id"`
	CommunityCode string    `json:"community_code,omitempty"`
	Subject       string    `json:"subject"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	CreatedAt     Timestamp `json:"created_at"`
}
