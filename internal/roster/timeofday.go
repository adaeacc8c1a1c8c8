package roster

import (
	"sync"
	"time"
	_ "time/tzdata" // member zones must resolve on hosts without zoneinfo
)

// Waking hours in the member's time zone are [WakeHour, SleepHour).
const (
	WakeHour  = 8
	SleepHour = 22
)

// TimeOfDay is the day/night indicator shown next to a member.
type TimeOfDay int

const (
	Awake TimeOfDay = iota
	Asleep
)

func (t TimeOfDay) String() string {
	if t == Asleep {
		return "asleep"
	}
	return "awake"
}

// Emoji returns the glyph rendered for the indicator.
func (t TimeOfDay) Emoji() string {
	if t == Asleep {
		return "💤"
	}
	return "😃"
}

// ForHour maps an hour of day (0-23) to the indicator.
func ForHour(hour int) TimeOfDay {
	if hour < WakeHour || hour >= SleepHour {
		return Asleep
	}
	return Awake
}

// TimeOfDayAt returns the indicator for now in the given time zone.
func TimeOfDayAt(now time.Time, tz string) TimeOfDay {
	return ForHour(LocalHour(now, tz))
}

// LocalHour returns the hour of now in the given time zone.
func LocalHour(now time.Time, tz string) int {
	return now.In(location(tz)).Hour()
}

// LocalTime formats now in the given time zone as hour and minute.
func LocalTime(now time.Time, tz string) string {
	return now.In(location(tz)).Format("3:04 PM")
}

var locations sync.Map // tz name -> *time.Location

// location resolves a time zone name; unknown or empty names fall back to UTC.
func location(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	if loc, ok := locations.Load(tz); ok {
		return loc.(*time.Location)
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	locations.Store(tz, loc)
	return loc
}
