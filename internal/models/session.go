package models

// Session is the identity of the resident a request is made for. It is passed
// explicitly to every operation that talks to the community service.
type Session struct {
	ResidentID    ID     `json:"resident_id"`
	HouseID       ID     `json:"house_id"`
	CommunityCode string `json:"community_code"`
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
}

// Valid reports whether the session identifies a resident.
func (s Session) Valid() bool {
	return s.ResidentID > 0
}
