package models

import "time"

const (
	PresenceIn  = "in"
	PresenceOut = "out"
)

// DomesticHelp is a cook, maid, driver or similar with standing gate access.
type DomesticHelp struct {
	BaseModel
	ResidentID   int64      `gorm:"index" json:"resident_id"`
	HouseID      int64      `json:"house_id"`
	Name         string     `json:"name"`
	Role         string     `json:"role"`
	Phone        string     `json:"phone"`
	PasscodeHash string     `json:"-"`
	Presence     string     `gorm:"size:8;default:out" json:"presence"`
	LastEntry    *time.Time `json:"last_entry"`
	LastExit     *time.Time `json:"last_exit"`
}
