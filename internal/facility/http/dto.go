package http

import (
	"time"

	"github.com/playspot/playspot-backend/internal/facility"
	userHttp "github.com/playspot/playspot-backend/internal/user/http"
)

type FacilityResponse struct {
	ID                   string           `json:"id"`
	Owner                userHttp.UserTag `json:"owner"`
	Name                 string           `json:"name"`
	Sport                string           `json:"sport"`
	Description          *string          `json:"description"`
	OperatingHours       *string          `json:"operating_hours"`
	ReservationSlotHours int              `json:"reservation_slot_hours"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// FacilityTag is a brief representation of a facility.
type FacilityTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func NewFacilityResponse(f *facility.Facility) FacilityResponse {
	return FacilityResponse{
		ID:                   f.ID,
		Owner:                userHttp.UserTag{ID: f.OwnerID, Name: f.OwnerName},
		Name:                 f.Name,
		Sport:                f.Sport,
		Description:          f.Description,
		OperatingHours:       f.OperatingHours,
		ReservationSlotHours: f.SlotHours(),
		CreatedAt:            f.CreatedAt,
		UpdatedAt:            f.UpdatedAt,
	}
}

type CreateFacilityBody struct {
	Name                 string  `json:"name" binding:"required"`
	Sport                string  `json:"sport" binding:"required"`
	Description          *string `json:"description"`
	OperatingHours       *string `json:"operating_hours"`
	ReservationSlotHours *int    `json:"reservation_slot_hours" binding:"omitempty,min=1,max=8"`
}

type UpdateFacilityBody struct {
	Name                 *string `json:"name"`
	Sport                *string `json:"sport"`
	Description          *string `json:"description"`
	OperatingHours       *string `json:"operating_hours"`
	ReservationSlotHours *int    `json:"reservation_slot_hours" binding:"omitempty,min=1,max=8"`
}
