package reviews

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/LocalBiz/app/models"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/testutil"
)

func TestSubmitUpsertsPerUser(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "owner", models.ROLE_USER)
	alice := testutil.CreateUser(t, db, "alice", models.ROLE_USER)
	b := testutil.CreateBusiness(t, db, owner, "Pizzeria", "free")
	svc := NewServiceFromDB(db)
	ctx := context.Background()

	first, created, err := svc.Submit(ctx, SubmitInput{BusinessID: b.ID, UserID: alice.ID, ReviewerName: "alice", Rating: 2, Comment: "cold"})
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := svc.Submit(ctx, SubmitInput{BusinessID: b.ID, UserID: alice.ID, ReviewerName: "alice", Rating: 5, Comment: "much better"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var rows []models.Review
	require.NoError(t, db.Where("business_id = ?", b.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].Rating)
	assert.Equal(t, "much better", rows[0].Comment)

	var notifications int64
	require.NoError(t, db.Model(&models.Notification{}).Where("type = ?", models.NotificationTypeReview).Count(&notifications).Error)
	assert.Equal(t, int64(1), notifications)

	mine, err := svc.UserReview(ctx, b.ID, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, mine)
	assert.Equal(t, 5, mine.Rating)

	none, err := svc.UserReview(ctx, b.ID, owner.ID)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestSubmitValidation(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "owner", models.ROLE_USER)
	b := testutil.CreateBusiness(t, db, owner, "Pizzeria", "free")
	svc := NewServiceFromDB(db)
	ctx := context.Background()

	for _, rating := range []int{0, 6, -1} {
		_, _, err := svc.Submit(ctx, SubmitInput{BusinessID: b.ID, UserID: owner.ID, Rating: rating})
		assert.ErrorIs(t, err, ErrInvalidRating)
	}
	_, _, err := svc.Submit(ctx, SubmitInput{BusinessID: 999, UserID: owner.ID, Rating: 3})
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestAverage(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "owner", models.ROLE_USER)
	alice := testutil.CreateUser(t, db, "alice", models.ROLE_USER)
	bob := testutil.CreateUser(t, db, "bobby", models.ROLE_USER)
	b := testutil.CreateBusiness(t, db, owner, "Pizzeria", "free")
	svc := NewServiceFromDB(db)
	ctx := context.Background()

	avg, err := svc.Average(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, avg)

	_, _, err = svc.Submit(ctx, SubmitInput{BusinessID: b.ID, UserID: alice.ID, Rating: 4})
	require.NoError(t, err)
	_, _, err = svc.Submit(ctx, SubmitInput{BusinessID: b.ID, UserID: bob.ID, Rating: 1})
	require.NoError(t, err)

	avg, err = svc.Average(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.InDelta(t, 2.5, *avg, 0.001)

	list, err := svc.ForBusiness(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.NotNil(t, list[0].User)
	assert.Equal(t, "bobby", list[0].User.Name)
}
