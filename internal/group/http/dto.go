package http

import (
	"time"

	"github.com/playspot/playspot-backend/internal/group"
	userHttp "github.com/playspot/playspot-backend/internal/user/http"
)

type GroupResponse struct {
	ID               string           `json:"id"`
	Creator          userHttp.UserTag `json:"creator"`
	Title            string           `json:"title"`
	Sport            string           `json:"sport"`
	Description      *string          `json:"description"`
	MeetingAt        *time.Time       `json:"meeting_at"`
	MinParticipants  *int             `json:"min_participants"`
	MaxParticipants  *int             `json:"max_participants"`
	ParticipantCount int              `json:"participant_count"`
	IsActive         bool             `json:"is_active"`
	IsClosed         bool             `json:"is_closed"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

func NewGroupResponse(g *group.Group) GroupResponse {
	return GroupResponse{
		ID:               g.ID,
		Creator:          userHttp.UserTag{ID: g.CreatorID, Name: g.CreatorName},
		Title:            g.Title,
		Sport:            g.Sport,
		Description:      g.Description,
		MeetingAt:        g.MeetingAt,
		MinParticipants:  g.MinParticipants,
		MaxParticipants:  g.MaxParticipants,
		ParticipantCount: g.ParticipantCount,
		IsActive:         g.IsActive,
		IsClosed:         g.IsClosed,
		CreatedAt:        g.CreatedAt,
		UpdatedAt:        g.UpdatedAt,
	}
}

type CreateGroupBody struct {
	Title           string     `json:"title" binding:"required"`
	Sport           string     `json:"sport" binding:"required"`
	Description     *string    `json:"description"`
	MeetingAt       *time.Time `json:"meeting_at"`
	MinParticipants *int       `json:"min_participants" binding:"omitempty,min=2"`
	MaxParticipants *int       `json:"max_participants" binding:"omitempty,min=2"`
}
