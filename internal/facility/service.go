package facility

import (
	"context"
	"strings"
)

type CreateRequest struct {
	OwnerID              string
	Name                 string
	Sport                string
	Description          *string
	OperatingHours       *string
	ReservationSlotHours *int
}

type UpdateRequest struct {
	Name                 *string
	Sport                *string
	Description          *string
	OperatingHours       *string
	ReservationSlotHours *int
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Facility, error)
	GetByID(ctx context.Context, id string) (*Facility, error)
	List(ctx context.Context, filter Filter) ([]*Facility, int, error)
	Update(ctx context.Context, id string, req UpdateRequest, updaterUserID string) (*Facility, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Facility, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}

	f := &Facility{
		OwnerID:              req.OwnerID,
		Name:                 strings.TrimSpace(req.Name),
		Sport:                strings.TrimSpace(req.Sport),
		Description:          req.Description,
		OperatingHours:       req.OperatingHours,
		ReservationSlotHours: req.ReservationSlotHours,
		IsActive:             true,
	}

	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Facility, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Facility, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest, updaterUserID string) (*Facility, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Only the owner may edit the facility.
	if f.OwnerID != updaterUserID {
		return nil, ErrPermissionDenied
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		f.Name = strings.TrimSpace(*req.Name)
	}
	if req.Sport != nil {
		f.Sport = strings.TrimSpace(*req.Sport)
	}
	if req.Description != nil {
		f.Description = req.Description
	}
	if req.OperatingHours != nil {
		f.OperatingHours = req.OperatingHours
	}
	if req.ReservationSlotHours != nil {
		f.ReservationSlotHours = req.ReservationSlotHours
	}

	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}
