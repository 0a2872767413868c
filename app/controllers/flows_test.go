package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/LocalBiz/app/models"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/statistics"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/testutil"
)

func businessForm(name string) url.Values {
	return url.Values{
		"name":          {name},
		"description":   {"Fresh bread every morning"},
		"business_type": {models.BusinessTypeCommerce},
		"address":       {"Baker Street 5"},
		"latitude":      {"-23.550520"},
		"longitude":     {"-46.633308"},
	}
}

func TestRegisterBusinessCreatesFreePlan(t *testing.T) {
	e := newTestEnv(t)
	owner := testutil.CreateUser(t, e.db, "owner", models.ROLE_USER)
	app := e.app(owner)

	resp := postForm(t, app, "/businesses/register/", businessForm("Bakery"))
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	var b models.Business
	require.NoError(t, e.db.Preload("Plan").Where("user_id = ?", owner.ID).First(&b).Error)
	assert.Equal(t, "Bakery", b.Name)
	require.NotNil(t, b.Plan)
	assert.Equal(t, "free", b.Plan.PlanType)
	require.NotNil(t, b.Latitude)
	assert.InDelta(t, -23.55052, *b.Latitude, 0.000001)
	assert.Equal(t, dashboardPath(b.ID), resp.Header.Get("Location"))
}

func TestRegisterBusinessBeyondPlanCap(t *testing.T) {
	e := newTestEnv(t)
	owner := testutil.CreateUser(t, e.db, "owner", models.ROLE_USER)
	testutil.CreateBusiness(t, e.db, owner, "First", "free")
	app := e.app(owner)

	resp := postForm(t, app, "/businesses/register/", businessForm("Second"))
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/businesses/register/", resp.Header.Get("Location"))
	assertFlash(t, resp)

	var count int64
	require.NoError(t, e.db.Model(&models.Business{}).Where("user_id = ?", owner.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegisterBusinessRejectsInvalidForm(t *testing.T) {
	e := newTestEnv(t)
	owner := testutil.CreateUser(t, e.db, "owner", models.ROLE_USER)
	app := e.app(owner)

	form := businessForm("Bakery")
	form.Set("latitude", "123.5")
	resp := postForm(t, app, "/businesses/register/", form)
	assert.Equal(t, "/businesses/register/", resp.Header.Get("Location"))
	assertFlash(t, resp)

	var count int64
	require.NoError(t, e.db.Model(&models.Business{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPhotoUploadRespectsPlanLimit(t *testing.T) {
	e := newTestEnv(t)
	owner := testutil.CreateUser(t, e.db, "owner", models.ROLE_USER)
	b := testutil.CreateBusiness(t, e.db, owner, "Salon", "free")
	app := e.app(owner)
	target := dashboardURL("photos", b.ID)

	resp := postPhoto(t, app, target, pngBytes(t))
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, target, resp.Header.Get("Location"))

	var photos []models.BusinessPhoto
	require.NoError(t, e.db.Where("business_id = ?", b.ID).Find(&photos).Error)
	require.Len(t, photos, 1)
	assert.True(t, photos[0].IsPrimary)
	assert.NotEmpty(t, photos[0].ThumbnailPath)

	resp = postPhoto(t, app, target, pngBytes(t))
	assert.Equal(t, target, resp.Header.Get("Location"))
	assertFlash(t, resp)

	var count int64
	require.NoError(t, e.db.Model(&models.BusinessPhoto{}).Where("business_id = ?", b.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPhotoUploadRejectsNonImages(t *testing.T) {
	e := newTestEnv(t)
	owner := testutil.CreateUser(t, e.db, "owner", models.ROLE_USER)
	b := testutil.CreateBusiness(t, e.db, owner, "Salon", "free")
	app := e.app(owner)

	resp := postPhoto(t, app, dashboardURL("photos", b.ID), []byte("<script>alert(1)</script>"))
	assertFlash(t, resp)

	var count int64
	require.NoError(t, e.db.Model(&models.BusinessPhoto{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPaidCheckoutFilesPendingRequest(t *testing.T) {
	e := newTestEnv(t)
	testutil.CreateBillingPlans(t, e.db)
	owner := testutil.CreateUser(t, e.db, "owner", models.ROLE_USER)
	b := testutil.CreateBusiness(t, e.db, owner, "Gym", "free")
	app := e.app(owner)

	resp := postForm(t, app, dashboardURL("plan", b.ID), url.Values{"plan": {"premium"}})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	require.Equal(t, dashboardURL("checkout", b.ID), resp.Header.Get("Location"))
	cookies := resp.Cookies()

	resp = postForm(t, app, dashboardURL("checkout", b.ID), url.Values{
		"payment_method": {"card"},
		"card_number":    {"4111111111111111"},
	}, cookies...)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, dashboardPath(b.ID), resp.Header.Get("Location"))

	var req models.PlanUpgradeRequest
	require.NoError(t, e.db.Where("business_id = ?", b.ID).First(&req).Error)
	assert.Equal(t, models.UpgradeStatusPending, req.Status)
	assert.Equal(t, "premium", req.RequestedPlan)
	assert.Equal(t, models.PaymentMethodCard, req.PaymentMethod)
	assert.NotContains(t, req.PaymentReference, "4111111111111111")

	var plan models.BusinessPlan
	require.NoError(t, e.db.Where("business_id = ?", b.ID).First(&plan).Error)
	assert.Equal(t, "free", plan.PlanType)

	var notes int64
	require.NoError(t, e.db.Model(&models.Notification{}).
		Where("business_id = ? AND type = ?", b.ID, models.NotificationTypePlanUpgrade).Count(&notes).Error)
	assert.Equal(t, int64(1), notes)

	// the selection is gone once used
	resp = postForm(t, app, dashboardURL("checkout", b.ID), url.Values{
		"payment_method": {"card"},
		"card_number":    {"4111111111111111"},
	}, cookies...)
	assert.Equal(t, dashboardURL("plan", b.ID), resp.Header.Get("Location"))

	var count int64
	require.NoError(t, e.db.Model(&models.PlanUpgradeRequest{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCheckoutRefreshesAdminCounters(t *testing.T) {
	testutil.NewRedis(t)
	e := newTestEnv(t)
	testutil.CreateBillingPlans(t, e.db)
	owner := testutil.CreateUser(t, e.db, "owner", models.ROLE_USER)
	b := testutil.CreateBusiness(t, e.db, owner, "Gym", "free")
	app := e.app(owner)

	before, err := statistics.Get(context.Background(), e.db)
	require.NoError(t, err)
	require.Zero(t, before.PendingUpgrades)

	resp := postForm(t, app, dashboardURL("plan", b.ID), url.Values{"plan": {"pro"}})
	require.Equal(t, dashboardURL("checkout", b.ID), resp.Header.Get("Location"))
	resp = postForm(t, app, dashboardURL("checkout", b.ID), url.Values{"payment_method": {"pix"}}, resp.Cookies()...)
	require.Equal(t, dashboardPath(b.ID), resp.Header.Get("Location"))

	after, err := statistics.Get(context.Background(), e.db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), after.PendingUpgrades)
}

func TestCheckoutWithoutSelection(t *testing.T) {
	e := newTestEnv(t)
	owner := testutil.CreateUser(t, e.db, "owner", models.ROLE_USER)
	b := testutil.CreateBusiness(t, e.db, owner, "Gym", "free")

	resp := get(t, e.app(owner), dashboardURL("checkout", b.ID))
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, dashboardURL("plan", b.ID), resp.Header.Get("Location"))
	assertFlash(t, resp)
}

func TestFreePlanSelectionSkipsCheckout(t *testing.T) {
	e := newTestEnv(t)
	testutil.CreateBillingPlans(t, e.db)
	owner := testutil.CreateUser(t, e.db, "owner", models.ROLE_USER)
	b := testutil.CreateBusiness(t, e.db, owner, "Gym", "pro")

	resp := postForm(t, e.app(owner), dashboardURL("plan", b.ID), url.Values{"plan": {"free"}})
	assert.Equal(t, dashboardPath(b.ID), resp.Header.Get("Location"))

	var plan models.BusinessPlan
	require.NoError(t, e.db.Where("business_id = ?", b.ID).First(&plan).Error)
	assert.Equal(t, "free", plan.PlanType)

	var count int64
	require.NoError(t, e.db.Model(&models.PlanUpgradeRequest{}).Count(&count).Error)
	assert.Zero(t, count)
}

func pendingRequest(t *testing.T, e *testEnv, b *models.Business, owner *models.User) *models.PlanUpgradeRequest {
	t.Helper()
	plans := testutil.CreateBillingPlans(t, e.db)
	req := &models.PlanUpgradeRequest{
		BusinessID:       b.ID,
		RequestedPlan:    "premium",
		BillingPlanID:    plans["premium"].ID,
		PaymentMethod:    models.PaymentMethodPix,
		PaymentReference: "PIX",
		Status:           models.UpgradeStatusPending,
		RequestedByID:    owner.ID,
	}
	require.NoError(t, e.db.Create(req).Error)
	return req
}

func TestApproveRequiresAdmin(t *testing.T) {
	e := newTestEnv(t)
	owner := testutil.CreateUser(t, e.db, "owner", models.ROLE_USER)
	b := testutil.CreateBusiness(t, e.db, owner, "Cafe", "free")
	req := pendingRequest(t, e, b, owner)

	resp := postForm(t, e.app(owner), fmt.Sprintf("/businesses/admin/approve/%d/", req.ID), url.Values{})
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/businesses/", resp.Header.Get("Location"))
	assertFlash(t, resp)

	var reloaded models.PlanUpgradeRequest
	require.NoError(t, e.db.First(&reloaded, req.ID).Error)
	assert.Equal(t, models.UpgradeStatusPending, reloaded.Status)

	var plan models.BusinessPlan
	require.NoError(t, e.db.Where("business_id = ?", b.ID).First(&plan).Error)
	assert.Equal(t, "free", plan.PlanType)
}

func TestAdminApprovesUpgrade(t *testing.T) {
	e := newTestEnv(t)
	owner := testutil.CreateUser(t, e.db, "owner", models.ROLE_USER)
	admin := testutil.CreateUser(t, e.db, "admin", models.ROLE_ADMIN)
	b := testutil.CreateBusiness(t, e.db, owner, "Cafe", "free")
	req := pendingRequest(t, e, b, owner)

	resp := postForm(t, e.app(admin), fmt.Sprintf("/businesses/admin/approve/%d/", req.ID), url.Values{})
	assert.Equal(t, adminPath, resp.Header.Get("Location"))

	var reloaded models.PlanUpgradeRequest
	require.NoError(t, e.db.First(&reloaded, req.ID).Error)
	assert.Equal(t, models.UpgradeStatusApproved, reloaded.Status)
	require.NotNil(t, reloaded.ApprovedByID)
	assert.Equal(t, admin.ID, *reloaded.ApprovedByID)

	var plan models.BusinessPlan
	require.NoError(t, e.db.Where("business_id = ?", b.ID).First(&plan).Error)
	assert.Equal(t, "premium", plan.PlanType)
	assert.NotNil(t, plan.ExpiresAt)
}

func bookingForm(date string) url.Values {
	return url.Values{
		"service_name":     {"Haircut"},
		"booking_date":     {date},
		"booking_time":     {"10:00"},
		"duration":         {"30"},
		"number_of_people": {"1"},
	}
}

func TestBookingRejectsTakenSlot(t *testing.T) {
	e := newTestEnv(t)
	owner := testutil.CreateUser(t, e.db, "owner", models.ROLE_USER)
	alice := testutil.CreateUser(t, e.db, "alice", models.ROLE_USER)
	bob := testutil.CreateUser(t, e.db, "bob", models.ROLE_USER)
	b := testutil.CreateBusiness(t, e.db, owner, "Barber", "free")
	date := time.Now().AddDate(0, 0, 7).Format(models.DateLayout)
	target := bookPath(b.ID)

	resp := postForm(t, e.app(alice), target, bookingForm(date))
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/businesses/my-bookings/", resp.Header.Get("Location"))

	resp = postForm(t, e.app(bob), target, bookingForm(date))
	assert.Equal(t, target, resp.Header.Get("Location"))
	assertFlash(t, resp)

	var bookings []models.Booking
	require.NoError(t, e.db.Where("business_id = ?", b.ID).Find(&bookings).Error)
	require.Len(t, bookings, 1)
	assert.Equal(t, alice.ID, bookings[0].UserID)
	assert.Equal(t, models.BookingStatusPending, bookings[0].Status)

	var notes int64
	require.NoError(t, e.db.Model(&models.Notification{}).
		Where("business_id = ? AND type = ?", b.ID, models.NotificationTypeBooking).Count(&notes).Error)
	assert.Equal(t, int64(1), notes)
}

func TestBookingRejectsPastDate(t *testing.T) {
	e := newTestEnv(t)
	owner := testutil.CreateUser(t, e.db, "owner", models.ROLE_USER)
	alice := testutil.CreateUser(t, e.db, "alice", models.ROLE_USER)
	b := testutil.CreateBusiness(t, e.db, owner, "Barber", "free")

	resp := postForm(t, e.app(alice), bookPath(b.ID), bookingForm("2020-01-01"))
	assert.Equal(t, bookPath(b.ID), resp.Header.Get("Location"))
	assertFlash(t, resp)

	var count int64
	require.NoError(t, e.db.Model(&models.Booking{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestReviewIsUpdatedOnResubmit(t *testing.T) {
	e := newTestEnv(t)
	owner := testutil.CreateUser(t, e.db, "owner", models.ROLE_USER)
	alice := testutil.CreateUser(t, e.db, "alice", models.ROLE_USER)
	b := testutil.CreateBusiness(t, e.db, owner, "Diner", "free")
	app := e.app(alice)
	target := fmt.Sprintf("/businesses/review/%d/", b.ID)

	resp := postForm(t, app, target, url.Values{"rating": {"4"}, "comment": {"Good"}})
	assert.Equal(t, detailPath(b.ID), resp.Header.Get("Location"))
	resp = postForm(t, app, target, url.Values{"rating": {"2"}, "comment": {"Went downhill"}})
	assert.Equal(t, detailPath(b.ID), resp.Header.Get("Location"))

	var list []models.Review
	require.NoError(t, e.db.Where("business_id = ?", b.ID).Find(&list).Error)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].Rating)
	assert.Equal(t, "Went downhill", list[0].Comment)

	resp = postForm(t, app, target, url.Values{"rating": {"6"}})
	assert.Equal(t, target, resp.Header.Get("Location"))
	assertFlash(t, resp)
}

func TestAvailableTimes(t *testing.T) {
	e := newTestEnv(t)
	owner := testutil.CreateUser(t, e.db, "owner", models.ROLE_USER)
	b := testutil.CreateBusiness(t, e.db, owner, "Spa", "free")
	app := e.app(nil)

	resp := get(t, app, fmt.Sprintf("/businesses/api/available-times/%d/2030-06-03/", b.ID))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out struct {
		AvailableTimes []string `json:"available_times"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.NotEmpty(t, out.AvailableTimes)

	// 2030-06-03 is a monday
	require.NoError(t, e.db.Create(&models.TimeSlot{
		BusinessID: b.ID, DayOfWeek: models.DayMonday, StartTime: "09:00", EndTime: "10:30", Duration: 30, IsActive: true,
	}).Error)
	resp = get(t, app, fmt.Sprintf("/businesses/api/available-times/%d/2030-06-03/", b.ID))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, []string{"09:00", "09:30", "10:00"}, out.AvailableTimes)

	resp = get(t, app, fmt.Sprintf("/businesses/api/available-times/%d/not-a-date/", b.ID))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = get(t, app, "/businesses/api/available-times/9999/2030-06-03/")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPagesRender(t *testing.T) {
	e := newTestEnv(t)
	owner := testutil.CreateUser(t, e.db, "owner", models.ROLE_USER)
	b := testutil.CreateBusiness(t, e.db, owner, "Flower Shop", "premium")
	app := e.app(owner)

	for _, target := range []string{"/businesses/", detailPath(b.ID), dashboardPath(b.ID), dashboardURL("plan", b.ID), dashboardURL("photos", b.ID)} {
		resp := get(t, app, target)
		require.Equal(t, http.StatusOK, resp.StatusCode, target)
		assert.Contains(t, body(t, resp), "Flower Shop", target)
	}
}

func TestDashboardWithoutBusinessRedirectsToRegister(t *testing.T) {
	e := newTestEnv(t)
	owner := testutil.CreateUser(t, e.db, "owner", models.ROLE_USER)

	resp := get(t, e.app(owner), dashboardPath(0))
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/businesses/register/", resp.Header.Get("Location"))
}

func TestDashboardOfForeignBusiness(t *testing.T) {
	e := newTestEnv(t)
	owner := testutil.CreateUser(t, e.db, "owner", models.ROLE_USER)
	other := testutil.CreateUser(t, e.db, "other", models.ROLE_USER)
	testutil.CreateBusiness(t, e.db, other, "Mine", "free")
	foreign := testutil.CreateBusiness(t, e.db, owner, "Theirs", "free")

	resp := get(t, e.app(other), dashboardURL("photos", foreign.ID))
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, dashboardPath(0), resp.Header.Get("Location"))
	assertFlash(t, resp)
}
