package models

// Viewport is the map panel state: center, zoom and the member attached
// for marker rendering.
type Viewport struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      float64 `json:"zoom"`
	Modite    *Modite `json:"modite,omitempty"`
}

// DefaultViewport is the initial map state of a session.
func DefaultViewport() Viewport {
	return Viewport{
		Latitude:  39.8283,
		Longitude: -98.5795,
		Zoom:      3,
	}
}
