package http

import (
	"time"

	facHttp "github.com/playspot/playspot-backend/internal/facility/http"
	"github.com/playspot/playspot-backend/internal/pkg/timeutil"
	"github.com/playspot/playspot-backend/internal/reservation"
	userHttp "github.com/playspot/playspot-backend/internal/user/http"
)

// Dates and clock times are naive on the wire: "YYYY-MM-DD" and
// "HH:MM", no timezone offset. Callers and the server agree on the
// deployment's single operating timezone.
const dateLayout = "2006-01-02"

type ReservationResponse struct {
	ID              string               `json:"id"`
	Facility        facHttp.FacilityTag  `json:"facility"`
	User            userHttp.UserTag     `json:"user"`
	ReservationDate string               `json:"reservation_date"`
	StartTime       string               `json:"start_time"`
	EndTime         string               `json:"end_time"`
	NumberOfPeople  int                  `json:"number_of_people"`
	ContactPhone    *string              `json:"contact_phone,omitempty"`
	Memo            *string              `json:"memo,omitempty"`
	Status          string               `json:"status"`
	TotalAmount     int64                `json:"total_amount"`
	IsPaid          bool                 `json:"is_paid"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

func NewReservationResponse(r *reservation.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:              r.ID,
		Facility:        facHttp.FacilityTag{ID: r.FacilityID, Name: r.FacilityName},
		User:            userHttp.UserTag{ID: r.UserID, Name: r.UserName},
		ReservationDate: r.Date.Format(dateLayout),
		StartTime:       timeutil.FormatClock(r.StartMin),
		EndTime:         timeutil.FormatClock(r.EndMin),
		NumberOfPeople:  r.NumberOfPeople,
		ContactPhone:    r.ContactPhone,
		Memo:            r.Memo,
		Status:          string(r.Status),
		TotalAmount:     r.TotalAmount,
		IsPaid:          r.IsPaid,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

type CreateReservationBody struct {
	FacilityID      string  `json:"facility_id" binding:"required,uuid"`
	ReservationDate string  `json:"reservation_date" binding:"required"`
	StartTime       string  `json:"start_time" binding:"required"`
	EndTime         string  `json:"end_time" binding:"required"`
	NumberOfPeople  int     `json:"number_of_people" binding:"omitempty,min=1"`
	ContactPhone    *string `json:"contact_phone"`
	Memo            *string `json:"memo"`
}

type UpdateStatusBody struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed cancelled completed no_show"`
}

type SlotResponse struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func NewSlotResponses(slots []reservation.TimeSlot) []SlotResponse {
	// Empty slice instead of null when the day is fully booked.
	resp := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		resp = append(resp, SlotResponse{
			StartTime: timeutil.FormatClock(s.StartMin),
			EndTime:   timeutil.FormatClock(s.EndMin),
		})
	}
	return resp
}
