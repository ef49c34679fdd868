package group

import (
	"net/http"
	"time"

	"github.com/playspot/playspot-backend/internal/pkg/apperror"
)

var (
	ErrNotFound       = apperror.New(http.StatusNotFound, "group not found")
	ErrEmptyTitle     = apperror.New(http.StatusBadRequest, "title cannot be empty")
	ErrClosed         = apperror.New(http.StatusConflict, "group is closed")
	ErrFull           = apperror.New(http.StatusConflict, "group is full")
	ErrAlreadyJoined  = apperror.New(http.StatusConflict, "already joined this group")
	ErrNotJoined      = apperror.New(http.StatusBadRequest, "not a participant of this group")
	ErrCreatorLeave   = apperror.New(http.StatusBadRequest, "creator cannot leave their own group")
	ErrInvalidMinimum = apperror.New(http.StatusBadRequest, "min participants cannot exceed max participants")
)

// Group is a meetup. ParticipantCount always equals 1 (the creator)
// plus the number of joined participant rows; the creator is never
// stored as a participant row.
type Group struct {
	ID               string
	CreatorID        string
	CreatorName      string
	Title            string
	Sport            string
	Description      *string
	MeetingAt        *time.Time // nil = unscheduled, exempt from the viability sweep
	MinParticipants  *int       // nil = no viability requirement
	MaxParticipants  *int
	ParticipantCount int
	IsActive         bool
	IsClosed         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type ParticipantStatus string

const (
	ParticipantJoined    ParticipantStatus = "joined"
	ParticipantCancelled ParticipantStatus = "cancelled"
)

// Participant is one (group, user) membership row.
type Participant struct {
	GroupID  string
	UserID   string
	Status   ParticipantStatus
	JoinedAt time.Time
}

// Filter defines parameters for listing groups.
type Filter struct {
	Sport     string
	CreatorID string
	Page      int
	PageSize  int
}
