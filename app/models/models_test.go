package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/LocalBiz/internal/pkg/entitlements"
)

func TestBusinessCapabilitiesFollowPlan(t *testing.T) {
	b := &Business{}
	assert.Equal(t, entitlements.PlanFree, b.PlanType())
	assert.Equal(t, 1, b.Capabilities().MaxPhotos)

	b.Plan = &BusinessPlan{PlanType: "premium"}
	caps := b.Capabilities()
	assert.Equal(t, 10, caps.MaxPhotos)
	assert.True(t, caps.IsFeatured)

	b.Plan.Apply(entitlements.PlanPro, nil)
	caps = b.Capabilities()
	assert.Equal(t, "pro", b.Plan.PlanType)
	assert.Equal(t, 5, caps.MaxPhotos)
	assert.False(t, caps.CanShowMenu)
	assert.True(t, caps.CanShowWhatsapp)
}

func TestBusinessPlanIsExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.False(t, (&BusinessPlan{}).IsExpired(now))
	assert.True(t, (&BusinessPlan{ExpiresAt: &past}).IsExpired(now))
	assert.False(t, (&BusinessPlan{ExpiresAt: &future}).IsExpired(now))
}

func TestPrimaryPhoto(t *testing.T) {
	b := &Business{}
	assert.Nil(t, b.PrimaryPhoto())

	b.Photos = []BusinessPhoto{{ID: 1}, {ID: 2, IsPrimary: true}}
	require.NotNil(t, b.PrimaryPhoto())
	assert.Equal(t, uint(2), b.PrimaryPhoto().ID)

	b.Photos[1].IsPrimary = false
	assert.Equal(t, uint(1), b.PrimaryPhoto().ID)
}

func TestWeekdayKey(t *testing.T) {
	// 2024-01-01 was a Monday
	d := time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, DayMonday, WeekdayKey(d.Weekday()))
	assert.Equal(t, DaySunday, WeekdayKey(d.AddDate(0, 0, 6).Weekday()))
	assert.True(t, IsWeekdayKey("friday"))
	assert.False(t, IsWeekdayKey("funday"))
	assert.Equal(t, 0, WeekdayOrder(DayMonday))
	assert.Equal(t, 7, WeekdayOrder("funday"))
}

func TestNormalizeDate(t *testing.T) {
	in := time.Date(2024, 5, 17, 23, 59, 0, 0, time.UTC)
	out := NormalizeDate(in)
	assert.Equal(t, time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC), out)
	assert.Equal(t, "2024-05-17", (&Booking{BookingDate: out}).DateString())
}

func TestCreateUser(t *testing.T) {
	u, err := CreateUser("alice", " Alice@Example.com ", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.True(t, u.IsActive())
	assert.False(t, u.IsAdmin())
	assert.True(t, u.CheckPassword("secret123"))
	assert.False(t, u.CheckPassword("wrong"))

	_, err = CreateUser("al", "not-an-email", "123")
	assert.Error(t, err)
}
