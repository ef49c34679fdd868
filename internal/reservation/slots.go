package reservation

import (
	"github.com/playspot/playspot-backend/internal/pkg/timeutil"
)

// TimeSlot is a half-open [StartMin, EndMin) window in minutes since
// midnight on a naive calendar day.
type TimeSlot struct {
	StartMin int
	EndMin   int
}

const (
	defaultSlotHours = 2
	minSlotHours     = 1
	maxSlotHours     = 8
)

// AvailableSlots derives the ordered bookable windows for one facility
// day. Candidates are generated by fixed-stride iteration from open; a
// trailing window shorter than the slot length is dropped. A candidate
// is excluded when it overlaps any booked interval (half-open overlap:
// cs < be && ce > bs).
//
// The function is pure: it depends only on its inputs.
func AvailableSlots(openMin, closeMin, slotHours int, booked []TimeSlot) []TimeSlot {
	if slotHours <= 0 {
		slotHours = defaultSlotHours
	}
	if slotHours < minSlotHours {
		slotHours = minSlotHours
	}
	if slotHours > maxSlotHours {
		slotHours = maxSlotHours
	}

	stride := slotHours * timeutil.MinutesPerHour

	var slots []TimeSlot
	for start := openMin; start+stride <= closeMin; start += stride {
		candidate := TimeSlot{StartMin: start, EndMin: start + stride}
		if overlapsAny(candidate, booked) {
			continue
		}
		slots = append(slots, candidate)
	}
	return slots
}

func overlapsAny(c TimeSlot, booked []TimeSlot) bool {
	for _, b := range booked {
		if timeutil.Overlaps(c.StartMin, c.EndMin, b.StartMin, b.EndMin) {
			return true
		}
	}
	return false
}
