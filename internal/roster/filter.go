package roster

import (
	"strings"
	"time"

	"github.com/good-yellow-bee/modites/internal/models"
)

// SkeletonRows is the number of placeholder rows shown until the roster
// has loaded.
const SkeletonRows = 10

// Filter returns the members whose real name contains text, ignoring case.
// An empty text matches every member.
func Filter(modites []models.Modite, text string) []models.Modite {
	needle := strings.ToLower(text)
	out := make([]models.Modite, 0, len(modites))
	for _, m := range modites {
		if strings.Contains(strings.ToLower(m.RealName), needle) {
			out = append(out, m)
		}
	}
	return out
}

// Entry is one rendered row of the roster list.
type Entry struct {
	Modite    models.Modite
	LocalTime string
	TimeOfDay TimeOfDay
}

// Entries filters the roster and samples each member's local time at now.
func Entries(modites []models.Modite, text string, now time.Time) []Entry {
	matched := Filter(modites, text)
	entries := make([]Entry, len(matched))
	for i, m := range matched {
		entries[i] = Entry{
			Modite:    m,
			LocalTime: LocalTime(now, m.TZ),
			TimeOfDay: TimeOfDayAt(now, m.TZ),
		}
	}
	return entries
}
