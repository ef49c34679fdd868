package reservation

import (
	"net/http"
	"time"

	"github.com/playspot/playspot-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "reservation not found")
	ErrFacilityNotFound  = apperror.New(http.StatusNotFound, "facility not found")
	ErrTimeConflict      = apperror.New(http.StatusConflict, "time slot already booked")
	ErrInvalidTimeRange  = apperror.New(http.StatusBadRequest, "start time must be before end time")
	ErrInvalidClock      = apperror.New(http.StatusBadRequest, "time must be in HH:MM format")
	ErrInvalidDate       = apperror.New(http.StatusBadRequest, "date must be in YYYY-MM-DD format")
	ErrInvalidPeople     = apperror.New(http.StatusBadRequest, "number of people must be at least 1")
	ErrInvalidStatus     = apperror.New(http.StatusBadRequest, "invalid reservation status")
	ErrInvalidTransition = apperror.New(http.StatusBadRequest, "status transition not allowed")
	ErrPermissionDenied  = apperror.New(http.StatusForbidden, "permission denied")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusNoShow    Status = "no_show"
)

// validNext encodes the lifecycle state machine. Cancelled, completed
// and no_show are terminal; nothing transitions back to pending.
var validNext = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted, StatusNoShow},
}

// ParseStatus validates a wire status string.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return st, nil
	default:
		return "", ErrInvalidStatus
	}
}

// CanTransition reports whether the state machine allows from -> to.
func CanTransition(from, to Status) bool {
	for _, next := range validNext[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsLive reports whether a status blocks new overlapping reservations
// at create time. Completed also blocks rebooking of its window (a
// consumed past slot does not reopen) but is not considered live.
func (s Status) IsLive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Label returns the human-readable status used in notifications.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "pending approval"
	case StatusConfirmed:
		return "confirmed"
	case StatusCancelled:
		return "cancelled"
	case StatusCompleted:
		return "completed"
	case StatusNoShow:
		return "marked as no-show"
	default:
		return string(s)
	}
}

// Reservation is one booking attempt against a facility. Date is a
// naive calendar day and StartMin/EndMin are minutes since midnight on
// that day; no timezone is carried anywhere. Reservations are never
// hard-deleted: cancellation is a status change so the history stays
// available for audit and conflict checks.
type Reservation struct {
	ID             string
	FacilityID     string
	FacilityName   string
	OwnerID        string // owner of the facility, used for authorization
	UserID         string // the requester
	UserName       string
	Date           time.Time // calendar date, midnight, location-less
	StartMin       int
	EndMin         int
	NumberOfPeople int
	ContactPhone   *string
	Memo           *string
	Status         Status
	TotalAmount    int64 // pricing is out of scope; kept as a placeholder
	IsPaid         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Window returns the reservation's interval as a TimeSlot.
func (r *Reservation) Window() TimeSlot {
	return TimeSlot{StartMin: r.StartMin, EndMin: r.EndMin}
}

// Filter defines parameters for listing reservations.
type Filter struct {
	UserID     string
	FacilityID string
	Status     string
	Date       *time.Time
	Page       int
	PageSize   int
}
