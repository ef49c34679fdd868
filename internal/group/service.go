package group

import (
	"context"
	"strings"
	"time"
)

type CreateRequest struct {
	CreatorID       string
	Title           string
	Sport           string
	Description     *string
	MeetingAt       *time.Time
	MinParticipants *int
	MaxParticipants *int
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Group, error)
	GetByID(ctx context.Context, id string) (*Group, error)
	List(ctx context.Context, filter Filter) ([]*Group, int, error)
	// Join adds the user as a joined participant and bumps the cached
	// count in the same transaction. Rejoining after a leave
	// reactivates the cancelled row.
	Join(ctx context.Context, groupID, userID string) error
	// Leave marks the user's participant row cancelled and decrements
	// the cached count.
	Leave(ctx context.Context, groupID, userID string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Group, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrEmptyTitle
	}
	if req.MinParticipants != nil && req.MaxParticipants != nil &&
		*req.MinParticipants > *req.MaxParticipants {
		return nil, ErrInvalidMinimum
	}

	g := &Group{
		CreatorID:        req.CreatorID,
		Title:            strings.TrimSpace(req.Title),
		Sport:            strings.TrimSpace(req.Sport),
		Description:      req.Description,
		MeetingAt:        req.MeetingAt,
		MinParticipants:  req.MinParticipants,
		MaxParticipants:  req.MaxParticipants,
		ParticipantCount: 1, // the creator
		IsActive:         true,
	}

	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Group, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Group, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Join(ctx context.Context, groupID, userID string) error {
	g, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}

	if !g.IsActive || g.IsClosed {
		return ErrClosed
	}
	if g.CreatorID == userID {
		return ErrAlreadyJoined
	}
	if g.MaxParticipants != nil && g.ParticipantCount >= *g.MaxParticipants {
		return ErrFull
	}

	return s.repo.Join(ctx, groupID, userID)
}

func (s *service) Leave(ctx context.Context, groupID, userID string) error {
	g, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}

	if g.CreatorID == userID {
		return ErrCreatorLeave
	}

	return s.repo.Leave(ctx, groupID, userID)
}
