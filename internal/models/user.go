package models

import "strings"

// UserDetails is the resident profile returned by /login.
type UserDetails struct {
	UserID        ID     `json:"userid"`
	HouseID       ID     `json:"house_id"`
	CommunityCode string `json:"community_code"`
	FullName      string `json:"fullname"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Status        string `json:"status"`
}

// AwaitingApproval reports whether the community has not yet approved the account.
func (u UserDetails) AwaitingApproval() bool {
	return strings.EqualFold(strings.TrimSpace(u.Status), "pending")
}

// Session returns the session for this resident.
func (u UserDetails) Session() Session {
	return Session{
		ResidentID:    u.UserID,
		HouseID:       u.HouseID,
		CommunityCode: u.CommunityCode,
		Name:          u.FullName,
		Email:         u.Email,
	}
}
