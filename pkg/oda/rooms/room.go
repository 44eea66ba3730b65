package rooms

// Room is a bookable or teaching space as published by the rooms endpoint.
// Values are immutable once decoded.
type Room struct {
	ID          string    `json:"id"`
	URL         string    `json:"url,omitempty"`
	Name        string    `json:"name,omitempty"`
	Type        string    `json:"type,omitempty"`
	Floor       string    `json:"floor,omitempty"`
	TotalSeats  int       `json:"totalSeats,omitempty"`
	Description string    `json:"description,omitempty"`
	Building    *Building `json:"building,omitempty"`
}

// Building references the building a room belongs to.
type Building struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

// DisplayName returns the room name, falling back to its id.
func (r Room) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}
