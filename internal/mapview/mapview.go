// Package mapview computes the map panel viewport for the member detail view.
package mapview

import (
	"strconv"

	"github.com/good-yellow-bee/modites/internal/models"
)

const (
	// FocusZoom is the zoom level used when centering on a member.
	FocusZoom = 5
	// HeightDivisor scales the window height into the latitude offset that
	// keeps the marker clear of the detail overlay.
	HeightDivisor = 160.0
)

// Service exposes the current viewport and a setter, shared by everything
// that renders or mutates the map panel.
type Service interface {
	Viewport() models.Viewport
	SetViewport(models.Viewport)
}

// Focus returns the viewport for showing m in a window of the given height.
// Members without location data only detach the marker; center and zoom are
// kept.
func Focus(current models.Viewport, m *models.Modite, height int) models.Viewport {
	next := current
	if m == nil || !m.HasLocation() {
		next.Modite = nil
		return next
	}
	loc := m.Location()
	next.Latitude = loc.Lat - float64(height)/HeightDivisor
	next.Longitude = loc.Lon
	next.Zoom = FocusZoom
	next.Modite = m
	return next
}

// Apply focuses the service's viewport on m and stores the result.
func Apply(svc Service, m *models.Modite, height int) models.Viewport {
	next := Focus(svc.Viewport(), m, height)
	svc.SetViewport(next)
	return next
}

// ParseHeight reads a window height in pixels, falling back to def when s is
// empty, malformed or not positive.
func ParseHeight(s string, def int) int {
	h, err := strconv.Atoi(s)
	if err != nil || h <= 0 {
		return def
	}
	return h
}
