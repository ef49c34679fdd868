package facility

import (
	"net/http"
	"time"

	"github.com/playspot/playspot-backend/internal/pkg/apperror"
	"github.com/playspot/playspot-backend/internal/pkg/timeutil"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "facility not found")
	ErrEmptyName        = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
)

// Defaults applied when a facility's booking configuration is missing
// or malformed. Operating hours fall back to 06:00-22:00 and the slot
// granularity is clamped to [1, 8] hours.
const (
	DefaultOpenMin   = 6 * timeutil.MinutesPerHour
	DefaultCloseMin  = 22 * timeutil.MinutesPerHour
	DefaultSlotHours = 2
	MinSlotHours     = 1
	MaxSlotHours     = 8
)

// Facility is a bookable venue. OperatingHours is kept as the raw
// string the owner entered; parsing happens on read so a bad value
// degrades to the default window instead of blocking bookings.
type Facility struct {
	ID                   string
	OwnerID              string
	OwnerName            string
	Name                 string
	Sport                string
	Description          *string
	OperatingHours       *string
	ReservationSlotHours *int
	IsActive             bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Window returns the facility's open/close minutes, falling back to
// the default window when operating hours are absent or unparseable.
func (f *Facility) Window() (open, close int) {
	if f.OperatingHours == nil {
		return DefaultOpenMin, DefaultCloseMin
	}
	open, close, err := timeutil.ParseWindow(*f.OperatingHours)
	if err != nil {
		return DefaultOpenMin, DefaultCloseMin
	}
	return open, close
}

// SlotHours returns the booking granularity clamped to [1, 8] hours.
func (f *Facility) SlotHours() int {
	if f.ReservationSlotHours == nil {
		return DefaultSlotHours
	}
	h := *f.ReservationSlotHours
	if h < MinSlotHours {
		return MinSlotHours
	}
	if h > MaxSlotHours {
		return MaxSlotHours
	}
	return h
}

// Filter defines parameters for listing facilities.
type Filter struct {
	OwnerID  string
	Sport    string
	Page     int
	PageSize int
}
