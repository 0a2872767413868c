package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalBiz/app/models"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/testutil"
)

type fixture struct {
	db       *gorm.DB
	svc      *Service
	owner    *models.User
	customer *models.User
	business *models.Business
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "owner", models.ROLE_USER)
	customer := testutil.CreateUser(t, db, "customer", models.ROLE_USER)
	b := testutil.CreateBusiness(t, db, owner, "Restaurant", "free")
	return fixture{db: db, svc: NewServiceFromDB(db), owner: owner, customer: customer, business: b}
}

func (f fixture) input(date time.Time, at string) CreateInput {
	return CreateInput{
		BusinessID:     f.business.ID,
		CustomerID:     f.customer.ID,
		CustomerName:   f.customer.Name,
		ServiceName:    "Dinner",
		Date:           date,
		Time:           at,
		Duration:       60,
		NumberOfPeople: 2,
	}
}

func tomorrow() time.Time {
	return time.Now().AddDate(0, 0, 1)
}

func TestCreateGuardsExactSlotOnly(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	b, err := f.svc.Create(ctx, f.input(tomorrow(), "19:00"))
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, b.Status)

	_, err = f.svc.Create(ctx, f.input(tomorrow(), "19:00"))
	assert.ErrorIs(t, err, ErrSlotTaken)

	// overlapping but not identical times are accepted
	_, err = f.svc.Create(ctx, f.input(tomorrow(), "19:30"))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.input(tomorrow().AddDate(0, 0, 1), "19:00"))
	require.NoError(t, err)

	var count int64
	require.NoError(t, f.db.Model(&models.Booking{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)

	var notifications int64
	require.NoError(t, f.db.Model(&models.Notification{}).Where("type = ?", models.NotificationTypeBooking).Count(&notifications).Error)
	assert.Equal(t, int64(3), notifications)
}

func TestCreateValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.input(time.Now().AddDate(0, 0, -1), "10:00"))
	assert.ErrorIs(t, err, ErrDateInPast)

	_, err = f.svc.Create(ctx, f.input(tomorrow(), "25:00"))
	assert.ErrorIs(t, err, ErrInvalidBooking)

	in := f.input(tomorrow(), "10:00")
	in.Duration = 0
	_, err = f.svc.Create(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidBooking)

	in = f.input(tomorrow(), "10:00")
	in.NumberOfPeople = 0
	_, err = f.svc.Create(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidBooking)

	in = f.input(tomorrow(), "10:00")
	in.BusinessID = 999
	_, err = f.svc.Create(ctx, in)
	assert.ErrorIs(t, err, ErrBusinessNotFound)

	// today is still bookable
	_, err = f.svc.Create(ctx, f.input(time.Now(), "23:59"))
	require.NoError(t, err)
}

func TestTransitions(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	b, err := f.svc.Create(ctx, f.input(tomorrow(), "12:00"))
	require.NoError(t, err)

	_, err = f.svc.Transition(ctx, f.customer.ID, f.business.ID, b.ID, ActionConfirm)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = f.svc.Transition(ctx, f.owner.ID, f.business.ID, b.ID, "archive")
	assert.ErrorIs(t, err, ErrInvalidAction)

	_, err = f.svc.Transition(ctx, f.owner.ID, f.business.ID, 999, ActionConfirm)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	got, err := f.svc.Transition(ctx, f.owner.ID, f.business.ID, b.ID, ActionConfirm)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, got.Status)

	_, err = f.svc.Transition(ctx, f.owner.ID, f.business.ID, b.ID, ActionConfirm)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	got, err = f.svc.Transition(ctx, f.owner.ID, f.business.ID, b.ID, ActionCancel)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, got.Status)

	_, err = f.svc.Transition(ctx, f.owner.ID, f.business.ID, b.ID, ActionConfirm)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	var updates []models.Notification
	require.NoError(t, f.db.Where("type = ?", models.NotificationTypeBookingUpdate).Order("id ASC").Find(&updates).Error)
	require.Len(t, updates, 2)
	require.NotNil(t, updates[0].UserID)
	assert.Equal(t, f.customer.ID, *updates[0].UserID)
	assert.Contains(t, updates[0].Title, "confirmed")
	assert.Contains(t, updates[1].Title, "cancelled")
}

func TestTransitionOtherBusinessBooking(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	other := testutil.CreateBusiness(t, f.db, f.owner, "Second", "pro")
	b, err := f.svc.Create(ctx, f.input(tomorrow(), "08:00"))
	require.NoError(t, err)

	_, err = f.svc.Transition(ctx, f.owner.ID, other.ID, b.ID, ActionComplete)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestAvailableTimes(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	// 2030-01-07 is a Monday
	monday := time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC)

	times, err := f.svc.AvailableTimes(ctx, f.business.ID, monday)
	require.NoError(t, err)
	assert.Equal(t, DefaultTimes, times)

	require.NoError(t, f.db.Create(&models.TimeSlot{BusinessID: f.business.ID, DayOfWeek: models.DayMonday, StartTime: "10:00", EndTime: "11:30", Duration: 30, IsActive: true}).Error)
	require.NoError(t, f.db.Create(&models.TimeSlot{BusinessID: f.business.ID, DayOfWeek: models.DayMonday, StartTime: "09:00", EndTime: "11:00", Duration: 60, IsActive: true}).Error)

	times, err = f.svc.AvailableTimes(ctx, f.business.ID, monday)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00", "10:30", "11:00"}, times)

	times, err = f.svc.AvailableTimes(ctx, f.business.ID, monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, DefaultTimes, times)
}

func TestListings(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	first, err := f.svc.Create(ctx, f.input(tomorrow(), "09:00"))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.input(tomorrow(), "11:00"))
	require.NoError(t, err)
	_, err = f.svc.Transition(ctx, f.owner.ID, f.business.ID, first.ID, ActionConfirm)
	require.NoError(t, err)

	all, err := f.svc.ForBusiness(ctx, f.business.ID, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "11:00", all[0].BookingTime)

	confirmed, err := f.svc.ForBusiness(ctx, f.business.ID, models.BookingStatusConfirmed)
	require.NoError(t, err)
	require.Len(t, confirmed, 1)

	pending, err := f.svc.CountPending(ctx, f.business.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)

	mine, err := f.svc.ForCustomer(ctx, f.customer.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.NotNil(t, mine[0].Business)
	assert.Equal(t, "Restaurant", mine[0].Business.Name)
}
