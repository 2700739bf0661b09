package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BTR-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/BTR-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/BTR-BookingService/internal/service/bookings/models"
	"github.com/m04kA/BTR-BookingService/pkg/logger"
	"github.com/m04kA/BTR-BookingService/pkg/ptr"
	"github.com/m04kA/BTR-BookingService/pkg/types"
)

type fakeRepo struct {
	bookings map[int64]*domain.Booking
	err      error

	gotStatus *domain.BookingStatus
	gotFilter domain.BookingsFilter
	deleted   []int64
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeRepo) GetByRiderID(_ context.Context, riderID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	f.gotStatus = status
	var out []*domain.Booking
	for _, b := range f.bookings {
		if b.RiderID == riderID {
			out = append(out, b)
		}
	}
	return out, f.err
}

func (f *fakeRepo) GetWithFilter(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	f.gotFilter = filter
	return []*domain.Booking{f.bookings[1]}, f.err
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	delete(f.bookings, id)
	return nil
}

type fakeCache struct{ invalidated []time.Time }

func (f *fakeCache) Invalidate(_ context.Context, dates ...time.Time) error {
	f.invalidated = append(f.invalidated, dates...)
	return nil
}

type fakeTx struct{}

func (fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var (
	monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	owner    = domain.Actor{ID: 10, Role: domain.RoleRider}
	stranger = domain.Actor{ID: 11, Role: domain.RoleRider}
	operator = domain.Actor{ID: 1, Role: domain.RoleOperator}
)

func newRepo() *fakeRepo {
	return &fakeRepo{bookings: map[int64]*domain.Booking{
		1: {ID: 1, RiderID: 10, BookingDate: monday, StartTime: types.NewClock(18, 0), EndTime: types.NewClock(19, 0), BikeCount: 2, Status: domain.StatusConfirmed},
		2: {ID: 2, RiderID: 10, BookingDate: monday, StartTime: types.NewClock(16, 0), EndTime: types.NewClock(17, 0), BikeCount: 1, Status: domain.StatusCanceled},
	}}
}

func TestService_GetByID(t *testing.T) {
	tests := []struct {
		name    string
		id      int64
		actor   domain.Actor
		wantErr error
	}{
		{name: "owner", id: 1, actor: owner},
		{name: "operator", id: 1, actor: operator},
		{name: "stranger", id: 1, actor: stranger, wantErr: ErrAccessDenied},
		{name: "missing", id: 9, actor: operator, wantErr: ErrBookingNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newRepo(), nil, fakeTx{}, logger.NewNop())

			resp, err := svc.GetByID(context.Background(), tt.id, tt.actor)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "2026-10-19", resp.BookingDate)
			assert.Equal(t, "18:00", resp.StartTime)
			assert.Equal(t, "19:00", resp.EndTime)
			assert.Equal(t, "confirmed", resp.Status)
		})
	}
}

func TestService_GetByID_RepositoryError(t *testing.T) {
	repo := newRepo()
	repo.err = errors.New("db down")
	svc := NewService(repo, nil, fakeTx{}, logger.NewNop())

	_, err := svc.GetByID(context.Background(), 1, owner)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestService_GetRiderBookings(t *testing.T) {
	repo := newRepo()
	svc := NewService(repo, nil, fakeTx{}, logger.NewNop())

	resp, err := svc.GetRiderBookings(context.Background(), &models.GetRiderBookingsRequest{Actor: owner, RiderID: 10})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)
	assert.Nil(t, repo.gotStatus)

	_, err = svc.GetRiderBookings(context.Background(), &models.GetRiderBookingsRequest{Actor: operator, RiderID: 10, Status: ptr.Ptr("canceled")})
	require.NoError(t, err)
	require.NotNil(t, repo.gotStatus)
	assert.Equal(t, domain.StatusCanceled, *repo.gotStatus)

	_, err = svc.GetRiderBookings(context.Background(), &models.GetRiderBookingsRequest{Actor: stranger, RiderID: 10})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetRiderBookings(context.Background(), &models.GetRiderBookingsRequest{Actor: owner, RiderID: 10, Status: ptr.Ptr("cancelled_by_user")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_GetDayBookings(t *testing.T) {
	repo := newRepo()
	svc := NewService(repo, nil, fakeTx{}, logger.NewNop())

	resp, err := svc.GetDayBookings(context.Background(), monday, operator)
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)
	assert.True(t, repo.gotFilter.IsSingleDate())
	assert.Empty(t, repo.gotFilter.Statuses)

	_, err = svc.GetDayBookings(context.Background(), monday, owner)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_Delete(t *testing.T) {
	t.Run("active booking frees the date", func(t *testing.T) {
		repo, cache := newRepo(), &fakeCache{}
		svc := NewService(repo, cache, fakeTx{}, logger.NewNop())

		require.NoError(t, svc.Delete(context.Background(), 1, owner))
		assert.Equal(t, []int64{1}, repo.deleted)
		assert.Equal(t, []time.Time{monday}, cache.invalidated)
	})

	t.Run("canceled booking keeps the cache", func(t *testing.T) {
		repo, cache := newRepo(), &fakeCache{}
		svc := NewService(repo, cache, fakeTx{}, logger.NewNop())

		require.NoError(t, svc.Delete(context.Background(), 2, owner))
		assert.Empty(t, cache.invalidated)
	})

	t.Run("operator is not the owner", func(t *testing.T) {
		repo := newRepo()
		svc := NewService(repo, nil, fakeTx{}, logger.NewNop())

		assert.ErrorIs(t, svc.Delete(context.Background(), 1, operator), ErrAccessDenied)
		assert.Empty(t, repo.deleted)
	})

	t.Run("missing", func(t *testing.T) {
		svc := NewService(newRepo(), nil, fakeTx{}, logger.NewNop())

		assert.ErrorIs(t, svc.Delete(context.Background(), 9, owner), ErrBookingNotFound)
	})
}
