package reservation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvailableSlotsGenerator(t *testing.T) {
	const hour = 60

	tests := []struct {
		name      string
		openMin   int
		closeMin  int
		slotHours int
		booked    []TimeSlot
		want      []TimeSlot
	}{
		{
			name:      "empty day yields full grid",
			openMin:   9 * hour,
			closeMin:  21 * hour,
			slotHours: 2,
			want: []TimeSlot{
				{9 * hour, 11 * hour},
				{11 * hour, 13 * hour},
				{13 * hour, 15 * hour},
				{15 * hour, 17 * hour},
				{17 * hour, 19 * hour},
				{19 * hour, 21 * hour},
			},
		},
		{
			name:      "booked window removes exactly its slot",
			openMin:   9 * hour,
			closeMin:  21 * hour,
			slotHours: 2,
			booked:    []TimeSlot{{13 * hour, 15 * hour}},
			want: []TimeSlot{
				{9 * hour, 11 * hour},
				{11 * hour, 13 * hour},
				{15 * hour, 17 * hour},
				{17 * hour, 19 * hour},
				{19 * hour, 21 * hour},
			},
		},
		{
			name:      "partial overlap removes both touched slots",
			openMin:   9 * hour,
			closeMin:  17 * hour,
			slotHours: 2,
			booked:    []TimeSlot{{10 * hour, 12 * hour}},
			want: []TimeSlot{
				{13 * hour, 15 * hour},
				{15 * hour, 17 * hour},
			},
		},
		{
			name:      "trailing remainder shorter than slot is dropped",
			openMin:   9 * hour,
			closeMin:  22 * hour,
			slotHours: 2,
			want: []TimeSlot{
				{9 * hour, 11 * hour},
				{11 * hour, 13 * hour},
				{13 * hour, 15 * hour},
				{15 * hour, 17 * hour},
				{17 * hour, 19 * hour},
				{19 * hour, 21 * hour},
			},
		},
		{
			name:      "adjacent booking does not block",
			openMin:   9 * hour,
			closeMin:  13 * hour,
			slotHours: 2,
			booked:    []TimeSlot{{7 * hour, 9 * hour}, {13 * hour, 15 * hour}},
			want: []TimeSlot{
				{9 * hour, 11 * hour},
				{11 * hour, 13 * hour},
			},
		},
		{
			name:      "zero slot hours falls back to default",
			openMin:   9 * hour,
			closeMin:  13 * hour,
			slotHours: 0,
			want: []TimeSlot{
				{9 * hour, 11 * hour},
				{11 * hour, 13 * hour},
			},
		},
		{
			name:      "oversized slot hours clamped",
			openMin:   6 * hour,
			closeMin:  22 * hour,
			slotHours: 12,
			want: []TimeSlot{
				{6 * hour, 14 * hour},
				{14 * hour, 22 * hour},
			},
		},
		{
			name:      "fully booked day",
			openMin:   9 * hour,
			closeMin:  13 * hour,
			slotHours: 2,
			booked:    []TimeSlot{{9 * hour, 13 * hour}},
			want:      nil,
		},
		{
			name:      "window shorter than one slot",
			openMin:   9 * hour,
			closeMin:  10 * hour,
			slotHours: 2,
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AvailableSlots(tt.openMin, tt.closeMin, tt.slotHours, tt.booked)
			assert.Equal(t, tt.want, got)

			// Same inputs, same answer.
			again := AvailableSlots(tt.openMin, tt.closeMin, tt.slotHours, tt.booked)
			assert.Equal(t, got, again)
		})
	}
}
