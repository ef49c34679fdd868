package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/playspot/playspot-backend/internal/facility"
	"github.com/playspot/playspot-backend/internal/metrics"
	"github.com/playspot/playspot-backend/internal/notification"
	"github.com/playspot/playspot-backend/internal/pkg/timeutil"
)

type CreateRequest struct {
	UserID         string
	FacilityID     string
	Date           time.Time
	StartMin       int
	EndMin         int
	NumberOfPeople int
	ContactPhone   *string
	Memo           *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Reservation, error)
	GetByID(ctx context.Context, id, requesterID string) (*Reservation, error)
	// List scopes results to the actor: their own reservations, or a
	// whole facility's when they own the facility named in the filter.
	List(ctx context.Context, actorID string, filter Filter) ([]*Reservation, int, error)
	// UpdateStatus validates the state machine and the actor's role:
	// the facility owner may take any valid edge, the requester may
	// only cancel, anyone else is rejected.
	UpdateStatus(ctx context.Context, id, actorID string, target Status) (*Reservation, error)
	// AvailableSlots returns the free fixed-length windows for a
	// facility on a date.
	AvailableSlots(ctx context.Context, facilityID string, date time.Time) ([]TimeSlot, error)
}

type service struct {
	repo       Repository
	facService facility.Service
	notifier   notification.Notifier
	logger     *zap.Logger
}

func NewService(repo Repository, facService facility.Service, notifier notification.Notifier, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		repo:       repo,
		facService: facService,
		notifier:   notifier,
		logger:     logger,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Reservation, error) {
	if req.NumberOfPeople == 0 {
		req.NumberOfPeople = 1
	}
	if req.NumberOfPeople < 1 {
		return nil, ErrInvalidPeople
	}
	if req.StartMin < 0 || req.EndMin > timeutil.MinutesPerDay {
		return nil, ErrInvalidClock
	}
	if req.StartMin >= req.EndMin {
		return nil, ErrInvalidTimeRange
	}

	fac, err := s.facService.GetByID(ctx, req.FacilityID)
	if err != nil {
		if errors.Is(err, facility.ErrNotFound) {
			return nil, ErrFacilityNotFound
		}
		return nil, err
	}

	res := &Reservation{
		FacilityID:     fac.ID,
		FacilityName:   fac.Name,
		OwnerID:        fac.OwnerID,
		UserID:         req.UserID,
		Date:           req.Date,
		StartMin:       req.StartMin,
		EndMin:         req.EndMin,
		NumberOfPeople: req.NumberOfPeople,
		ContactPhone:   req.ContactPhone,
		Memo:           req.Memo,
		Status:         StatusPending,
		TotalAmount:    0, // pricing is out of scope
		IsPaid:         false,
	}

	// The repository re-checks the overlap invariant at write time, so
	// a slot list fetched earlier by the client cannot be trusted to
	// still be free.
	if err := s.repo.Create(ctx, res); err != nil {
		if errors.Is(err, ErrTimeConflict) {
			metrics.ReservationConflict()
		}
		return nil, err
	}
	metrics.ReservationCreated()

	s.notify(ctx, fac.OwnerID, notification.KindReservationCreated,
		"New reservation request",
		fmt.Sprintf("New booking request for %s on %s from %s to %s.",
			fac.Name, res.Date.Format("2006-01-02"),
			timeutil.FormatClock(res.StartMin), timeutil.FormatClock(res.EndMin)),
		res.ID)

	return res, nil
}

func (s *service) GetByID(ctx context.Context, id, requesterID string) (*Reservation, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.UserID != requesterID && res.OwnerID != requesterID {
		return nil, ErrPermissionDenied
	}
	return res, nil
}

func (s *service) List(ctx context.Context, actorID string, filter Filter) ([]*Reservation, int, error) {
	filter.UserID = actorID
	if filter.FacilityID != "" {
		fac, err := s.facService.GetByID(ctx, filter.FacilityID)
		if err == nil && fac.OwnerID == actorID {
			filter.UserID = ""
		}
	}
	return s.repo.List(ctx, filter)
}

func (s *service) UpdateStatus(ctx context.Context, id, actorID string, target Status) (*Reservation, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	isOwner := res.OwnerID == actorID
	isRequester := res.UserID == actorID

	if !isOwner && !isRequester {
		return nil, ErrPermissionDenied
	}
	// The requester may only cancel; every other edge belongs to the
	// facility owner. Report a permission error, not the expected
	// actor, when the wrong party tries.
	if !isOwner && target != StatusCancelled {
		return nil, ErrPermissionDenied
	}
	if !CanTransition(res.Status, target) {
		return nil, ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(ctx, id, target); err != nil {
		return nil, err
	}
	res.Status = target
	metrics.ReservationTransition(string(target))

	// Notify the counter-party of whoever performed the transition.
	recipient := res.UserID
	if !isOwner {
		recipient = res.OwnerID
	}
	s.notify(ctx, recipient, notification.KindReservationStatus,
		"Reservation "+target.Label(),
		fmt.Sprintf("Your reservation for %s on %s (%s-%s) is now %s.",
			res.FacilityName, res.Date.Format("2006-01-02"),
			timeutil.FormatClock(res.StartMin), timeutil.FormatClock(res.EndMin),
			target.Label()),
		res.ID)

	return res, nil
}

func (s *service) AvailableSlots(ctx context.Context, facilityID string, date time.Time) ([]TimeSlot, error) {
	fac, err := s.facService.GetByID(ctx, facilityID)
	if err != nil {
		if errors.Is(err, facility.ErrNotFound) {
			return nil, ErrFacilityNotFound
		}
		return nil, err
	}

	live, err := s.repo.ListForDate(ctx, facilityID, date, []Status{StatusPending, StatusConfirmed, StatusCompleted})
	if err != nil {
		return nil, err
	}

	booked := make([]TimeSlot, len(live))
	for i, r := range live {
		booked[i] = r.Window()
	}

	open, close := fac.Window()
	return AvailableSlots(open, close, fac.SlotHours(), booked), nil
}

// notify delivers best-effort: failures are logged and swallowed so
// the domain write that triggered the notification is never undone.
func (s *service) notify(ctx context.Context, userID, kind, title, message, reservationID string) {
	err := s.notifier.Notify(ctx, userID, kind, title, message, map[string]string{
		"reservation_id": reservationID,
	})
	if err != nil {
		metrics.NotificationFailure()
		s.logger.Warn("reservation notification failed",
			zap.String("reservation_id", reservationID),
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
}
