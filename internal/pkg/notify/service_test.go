package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/LocalBiz/app/models"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/testutil"
)

func TestInboxLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "owner", models.ROLE_USER)
	b := testutil.CreateBusiness(t, db, owner, "Bistro", "free")
	other := testutil.CreateBusiness(t, db, owner, "Other", "free")
	repo := NewRepository(db)
	svc := NewService(repo)
	ctx := context.Background()

	first := &models.Notification{BusinessID: b.ID, Type: models.NotificationTypeGeneral, Title: "first"}
	second := &models.Notification{BusinessID: b.ID, Type: models.NotificationTypeGeneral, Title: "second"}
	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(second))
	require.NoError(t, repo.Create(&models.Notification{BusinessID: other.ID, Type: models.NotificationTypeGeneral, Title: "elsewhere"}))

	list, err := svc.List(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Title)

	unread, err := svc.UnreadCount(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	total, err := svc.UnreadCountForOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	require.NoError(t, svc.MarkRead(ctx, b.ID, first.ID))
	require.NoError(t, svc.MarkRead(ctx, b.ID, first.ID))
	assert.ErrorIs(t, svc.MarkRead(ctx, other.ID, first.ID), ErrNotificationNotFound)

	n, err := svc.MarkAllRead(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	unread, err = svc.UnreadCount(ctx, b.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)

	require.NoError(t, svc.Delete(ctx, b.ID, second.ID))
	assert.ErrorIs(t, svc.Delete(ctx, b.ID, second.ID), ErrNotificationNotFound)
}

func TestListForCustomerOnlyBookingUpdates(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "owner", models.ROLE_USER)
	customer := testutil.CreateUser(t, db, "customer", models.ROLE_USER)
	b := testutil.CreateBusiness(t, db, owner, "Spa", "free")
	repo := NewRepository(db)
	svc := NewService(repo)
	ctx := context.Background()

	booking := &models.Booking{BusinessID: b.ID, UserID: customer.ID, ServiceName: "Massage", BookingDate: models.NormalizeDate(time.Now()), BookingTime: "10:00", Status: models.BookingStatusConfirmed}
	require.NoError(t, repo.Create(BookingCreated(booking, customer.Name)))
	require.NoError(t, repo.Create(BookingStatusChanged(booking)))

	list, err := svc.ListForCustomer(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.NotificationTypeBookingUpdate, list[0].Type)
	assert.Contains(t, list[0].Title, "confirmed")
	require.NotNil(t, list[0].Business)
	assert.Equal(t, "Spa", list[0].Business.Name)
}

func TestMessages(t *testing.T) {
	req := &models.PlanUpgradeRequest{BusinessID: 3, RequestedPlan: "premium", RejectReason: "payment not received"}
	n := UpgradeRejected(req)
	assert.Equal(t, models.NotificationTypePlanRejected, n.Type)
	assert.Contains(t, n.Message, "payment not received")
	assert.Nil(t, n.UserID)

	review := &models.Review{BusinessID: 3, UserID: 9, Rating: 4}
	n = ReviewCreated(review, "bob")
	require.NotNil(t, n.UserID)
	assert.Equal(t, uint(9), *n.UserID)
	assert.Contains(t, n.Message, "4 star")
}
