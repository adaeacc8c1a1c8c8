// Package roster holds the list and detail logic for the Modite roster:
// ordering, filtering, time-of-day indicators and project membership.
package roster

import (
	"slices"

	"github.com/good-yellow-bee/modites/internal/models"
)

// CompareLastName orders two members by profile last name.
// It returns -1, 0 or 1.
func CompareLastName(a, b models.Modite) int {
	an, bn := a.LastName(), b.LastName()
	switch {
	case an < bn:
		return -1
	case an > bn:
		return 1
	default:
		return 0
	}
}

// SortByLastName returns a copy of modites sorted ascending by last name.
// Members with equal last names keep their original relative order.
func SortByLastName(modites []models.Modite) []models.Modite {
	sorted := slices.Clone(modites)
	slices.SortStableFunc(sorted, CompareLastName)
	return sorted
}

// FindByID returns the member with the given identifier.
func FindByID(modites []models.Modite, id string) (*models.Modite, bool) {
	for i := range modites {
		if modites[i].ID == id {
			return &modites[i], true
		}
	}
	return nil, false
}
