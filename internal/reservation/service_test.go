package reservation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playspot/playspot-backend/internal/facility"
	"github.com/playspot/playspot-backend/internal/notification"
	"github.com/playspot/playspot-backend/internal/pkg/timeutil"
)

type fakeRepo struct {
	byID map[string]*Reservation
	seq  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[string]*Reservation{}}
}

func (r *fakeRepo) Create(_ context.Context, res *Reservation) error {
	for _, existing := range r.byID {
		if existing.FacilityID != res.FacilityID || !existing.Date.Equal(res.Date) {
			continue
		}
		if existing.Status == StatusCancelled || existing.Status == StatusNoShow {
			continue
		}
		if timeutil.Overlaps(res.StartMin, res.EndMin, existing.StartMin, existing.EndMin) {
			return ErrTimeConflict
		}
	}
	r.seq++
	res.ID = fmt.Sprintf("res-%d", r.seq)
	res.CreatedAt = time.Now()
	res.UpdatedAt = res.CreatedAt
	r.byID[res.ID] = res
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Reservation, error) {
	res, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *res
	return &copied, nil
}

func (r *fakeRepo) List(_ context.Context, filter Filter) ([]*Reservation, int, error) {
	var out []*Reservation
	for _, res := range r.byID {
		if filter.UserID != "" && res.UserID != filter.UserID {
			continue
		}
		if filter.FacilityID != "" && res.FacilityID != filter.FacilityID {
			continue
		}
		out = append(out, res)
	}
	return out, len(out), nil
}

func (r *fakeRepo) ListForDate(_ context.Context, facilityID string, date time.Time, statuses []Status) ([]*Reservation, error) {
	var out []*Reservation
	for _, res := range r.byID {
		if res.FacilityID != facilityID || !res.Date.Equal(date) {
			continue
		}
		for _, st := range statuses {
			if res.Status == st {
				out = append(out, res)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id string, status Status) error {
	res, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	res.Status = status
	return nil
}

type fakeFacilityService struct {
	facilities map[string]*facility.Facility
}

func (f *fakeFacilityService) Create(context.Context, facility.CreateRequest) (*facility.Facility, error) {
	panic("not used")
}

func (f *fakeFacilityService) GetByID(_ context.Context, id string) (*facility.Facility, error) {
	fac, ok := f.facilities[id]
	if !ok {
		return nil, facility.ErrNotFound
	}
	return fac, nil
}

func (f *fakeFacilityService) List(context.Context, facility.Filter) ([]*facility.Facility, int, error) {
	panic("not used")
}

func (f *fakeFacilityService) Update(context.Context, string, facility.UpdateRequest, string) (*facility.Facility, error) {
	panic("not used")
}

type recordingNotifier struct {
	kinds      []string
	recipients []string
}

func (n *recordingNotifier) Notify(_ context.Context, userID, kind, _, _ string, _ map[string]string) error {
	n.kinds = append(n.kinds, kind)
	n.recipients = append(n.recipients, userID)
	return nil
}

const (
	ownerID     = "owner-1"
	requesterID = "user-1"
	strangerID  = "user-2"
	facilityID  = "fac-1"
)

func newTestService(t *testing.T) (Service, *fakeRepo, *recordingNotifier) {
	t.Helper()

	hours := "09:00-21:00"
	facs := &fakeFacilityService{facilities: map[string]*facility.Facility{
		facilityID: {
			ID:             facilityID,
			OwnerID:        ownerID,
			Name:           "Center Court",
			Sport:          "tennis",
			OperatingHours: &hours,
		},
	}}

	repo := newFakeRepo()
	notifier := &recordingNotifier{}
	return NewService(repo, facs, notifier, nil), repo, notifier
}

func baseRequest() CreateRequest {
	return CreateRequest{
		UserID:         requesterID,
		FacilityID:     facilityID,
		Date:           time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		StartMin:       9 * 60,
		EndMin:         11 * 60,
		NumberOfPeople: 2,
	}
}

func TestCreateReservation(t *testing.T) {
	svc, _, notifier := newTestService(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, baseRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, res.ID)
	assert.Equal(t, StatusPending, res.Status)
	assert.Equal(t, ownerID, res.OwnerID)
	assert.Equal(t, "Center Court", res.FacilityName)

	// The facility owner hears about the new request.
	require.Len(t, notifier.recipients, 1)
	assert.Equal(t, ownerID, notifier.recipients[0])
	assert.Equal(t, notification.KindReservationCreated, notifier.kinds[0])
}

func TestCreateReservationValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	t.Run("unknown facility", func(t *testing.T) {
		req := baseRequest()
		req.FacilityID = "missing"
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, ErrFacilityNotFound)
	})

	t.Run("start after end", func(t *testing.T) {
		req := baseRequest()
		req.StartMin, req.EndMin = 12*60, 10*60
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
	})

	t.Run("zero-length window", func(t *testing.T) {
		req := baseRequest()
		req.StartMin, req.EndMin = 10*60, 10*60
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
	})

	t.Run("end past midnight", func(t *testing.T) {
		req := baseRequest()
		req.EndMin = timeutil.MinutesPerDay + 60
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidClock)
	})

	t.Run("negative people", func(t *testing.T) {
		req := baseRequest()
		req.NumberOfPeople = -3
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidPeople)
	})

	t.Run("omitted people defaults to one", func(t *testing.T) {
		req := baseRequest()
		req.StartMin, req.EndMin = 15*60, 17*60
		req.NumberOfPeople = 0
		res, err := svc.Create(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 1, res.NumberOfPeople)
	})
}

func TestCreateReservationConflict(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, baseRequest())
	require.NoError(t, err)

	t.Run("identical window", func(t *testing.T) {
		_, err := svc.Create(ctx, baseRequest())
		assert.ErrorIs(t, err, ErrTimeConflict)
	})

	t.Run("partial overlap", func(t *testing.T) {
		req := baseRequest()
		req.StartMin, req.EndMin = 10*60, 12*60
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, ErrTimeConflict)
	})

	t.Run("adjacent window is fine", func(t *testing.T) {
		req := baseRequest()
		req.StartMin, req.EndMin = 11*60, 13*60
		_, err := svc.Create(ctx, req)
		assert.NoError(t, err)
	})

	t.Run("same window next day is fine", func(t *testing.T) {
		req := baseRequest()
		req.Date = req.Date.AddDate(0, 0, 1)
		_, err := svc.Create(ctx, req)
		assert.NoError(t, err)
	})
}

func TestCancelledWindowReopens(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, baseRequest())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, res.ID, requesterID, StatusCancelled)
	require.NoError(t, err)

	_, err = svc.Create(ctx, baseRequest())
	assert.NoError(t, err)
}

func TestCompletedWindowStaysBlocked(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, baseRequest())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, res.ID, ownerID, StatusConfirmed)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, res.ID, ownerID, StatusCompleted)
	require.NoError(t, err)

	_, err = svc.Create(ctx, baseRequest())
	assert.ErrorIs(t, err, ErrTimeConflict)
}

func TestUpdateStatusStateMachine(t *testing.T) {
	tests := []struct {
		name    string
		setup   []Status // owner-driven transitions applied first
		target  Status
		wantErr error
	}{
		{name: "pending to confirmed", target: StatusConfirmed},
		{name: "pending to cancelled", target: StatusCancelled},
		{name: "pending to completed rejected", target: StatusCompleted, wantErr: ErrInvalidTransition},
		{name: "pending to no_show rejected", target: StatusNoShow, wantErr: ErrInvalidTransition},
		{name: "confirmed to completed", setup: []Status{StatusConfirmed}, target: StatusCompleted},
		{name: "confirmed to cancelled", setup: []Status{StatusConfirmed}, target: StatusCancelled},
		{name: "confirmed to no_show", setup: []Status{StatusConfirmed}, target: StatusNoShow},
		{name: "confirmed back to pending rejected", setup: []Status{StatusConfirmed}, target: StatusPending, wantErr: ErrInvalidTransition},
		{name: "cancelled is terminal", setup: []Status{StatusCancelled}, target: StatusConfirmed, wantErr: ErrInvalidTransition},
		{name: "completed is terminal", setup: []Status{StatusConfirmed, StatusCompleted}, target: StatusCancelled, wantErr: ErrInvalidTransition},
		{name: "no_show is terminal", setup: []Status{StatusConfirmed, StatusNoShow}, target: StatusCancelled, wantErr: ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(t)
			ctx := context.Background()

			res, err := svc.Create(ctx, baseRequest())
			require.NoError(t, err)

			for _, st := range tt.setup {
				_, err := svc.UpdateStatus(ctx, res.ID, ownerID, st)
				require.NoError(t, err)
			}

			updated, err := svc.UpdateStatus(ctx, res.ID, ownerID, tt.target)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.target, updated.Status)
		})
	}
}

func TestUpdateStatusAuthorization(t *testing.T) {
	svc, _, notifier := newTestService(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, baseRequest())
	require.NoError(t, err)

	t.Run("stranger rejected", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, res.ID, strangerID, StatusCancelled)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("requester cannot confirm", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, res.ID, requesterID, StatusConfirmed)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("owner confirms and requester is told", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, res.ID, ownerID, StatusConfirmed)
		require.NoError(t, err)
		assert.Equal(t, requesterID, notifier.recipients[len(notifier.recipients)-1])
		assert.Equal(t, notification.KindReservationStatus, notifier.kinds[len(notifier.kinds)-1])
	})

	t.Run("requester cancels and owner is told", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, res.ID, requesterID, StatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, ownerID, notifier.recipients[len(notifier.recipients)-1])
	})
}

func TestListScoping(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, baseRequest())
	require.NoError(t, err)

	other := baseRequest()
	other.UserID = strangerID
	other.StartMin, other.EndMin = 11*60, 13*60
	_, err = svc.Create(ctx, other)
	require.NoError(t, err)

	t.Run("requester sees only their own", func(t *testing.T) {
		items, total, err := svc.List(ctx, requesterID, Filter{})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, requesterID, items[0].UserID)
	})

	t.Run("facility owner sees the whole facility", func(t *testing.T) {
		_, total, err := svc.List(ctx, ownerID, Filter{FacilityID: facilityID})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
	})

	t.Run("non-owner filtering a facility stays scoped to self", func(t *testing.T) {
		items, total, err := svc.List(ctx, strangerID, Filter{FacilityID: facilityID})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, strangerID, items[0].UserID)
	})
}

func TestGetByIDAuthorization(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, baseRequest())
	require.NoError(t, err)

	for _, actor := range []string{requesterID, ownerID} {
		got, err := svc.GetByID(ctx, res.ID, actor)
		require.NoError(t, err)
		assert.Equal(t, res.ID, got.ID)
	}

	_, err = svc.GetByID(ctx, res.ID, strangerID)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestAvailableSlots(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	// 09:00-21:00 at 2h stride is six windows.
	slots, err := svc.AvailableSlots(ctx, facilityID, date)
	require.NoError(t, err)
	assert.Len(t, slots, 6)

	// Booking 13:00-15:00 removes exactly that window.
	req := baseRequest()
	req.StartMin, req.EndMin = 13*60, 15*60
	_, err = svc.Create(ctx, req)
	require.NoError(t, err)

	slots, err = svc.AvailableSlots(ctx, facilityID, date)
	require.NoError(t, err)
	assert.Len(t, slots, 5)
	assert.NotContains(t, slots, TimeSlot{StartMin: 13 * 60, EndMin: 15 * 60})

	// A cancelled booking frees its window again.
	res, err := svc.Create(ctx, CreateRequest{
		UserID: requesterID, FacilityID: facilityID, Date: date,
		StartMin: 9 * 60, EndMin: 11 * 60, NumberOfPeople: 1,
	})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, res.ID, requesterID, StatusCancelled)
	require.NoError(t, err)

	slots, err = svc.AvailableSlots(ctx, facilityID, date)
	require.NoError(t, err)
	assert.Contains(t, slots, TimeSlot{StartMin: 9 * 60, EndMin: 11 * 60})
}

func TestAvailableSlotsUnknownFacility(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.AvailableSlots(context.Background(), "missing", time.Now())
	assert.ErrorIs(t, err, ErrFacilityNotFound)
}
