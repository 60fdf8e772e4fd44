package domain

import (
	"hash/fnv"
	"strings"
	"time"
)

// DeriveSchedule fixes a departure and arrival for a service code on the
// given day. Departure lands in the 05:30-23:00 band; the run length depends
// on the code's class. The result is deterministic per code so repeated seeds
// produce identical timetables.
func DeriveSchedule(code string, day time.Time) (time.Time, time.Time) {
	h := fnv.New32a()
	h.Write([]byte(code))
	sum := h.Sum32()

	minute := int(sum%(17*60)) + 5*60 + 30
	dep := time.Date(day.Year(), day.Month(), day.Day(), minute/60, minute%60, 0, 0, day.Location())

	uc := strings.ToUpper(code)
	hours := 5
	switch {
	case strings.Contains(uc, "SPECIAL") || strings.Contains(uc, "EXPRESS"):
		hours = 3
	case strings.Contains(uc, "RAPID"):
		hours = 4
	case strings.Contains(uc, "LOCAL"), strings.Contains(uc, "COMMUTER"), strings.Contains(uc, "ORDINARY"):
		hours = 5 + int((sum>>8)%2)
	}

	arr := dep.Add(time.Duration(hours)*time.Hour + time.Duration(sum%51)*time.Minute)
	return dep, arr
}
