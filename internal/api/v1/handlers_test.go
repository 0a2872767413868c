package apiv1

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalBiz/app/models"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/middleware"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/testutil"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/usercontext"
)

const openAPIFile = "../../../public/docs/v1/openapi.yml"

func loadDoc(t *testing.T) *openapi3.T {
	t.Helper()
	doc, err := openapi3.NewLoader().LoadFromFile(openAPIFile)
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))
	return doc
}

// assertMatchesSchema checks a JSON body against the documented response
func assertMatchesSchema(t *testing.T, doc *openapi3.T, path string, status int, body []byte) {
	t.Helper()
	item := doc.Paths.Find(path)
	require.NotNil(t, item, "path %s not documented", path)
	require.NotNil(t, item.Get)
	ref := item.Get.Responses.Status(status)
	require.NotNil(t, ref, "status %d not documented for %s", status, path)
	schema := ref.Value.Content.Get("application/json").Schema.Value

	var data interface{}
	require.NoError(t, json.Unmarshal(body, &data))
	assert.NoError(t, schema.VisitJSON(data))
}

func newApp(t *testing.T, db *gorm.DB, uc usercontext.UserContext) *fiber.App {
	t.Helper()
	s := NewAPIServer(db)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		usercontext.Set(c, uc)
		return c.Next()
	})
	app.Get("/api/v1/ping", s.GetPing)
	app.Get("/api/v1/businesses/:id/available-times", s.GetAvailableTimes)
	app.Get("/api/v1/notifications/unread", middleware.RequireAPISessionAuth, s.GetUnreadNotifications)
	return app
}

func get(t *testing.T, app *fiber.App, url string) (int, []byte) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, url, nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func TestOpenAPIDocumentIsValid(t *testing.T) {
	doc := loadDoc(t)
	for _, p := range []string{"/ping", "/businesses/{id}/available-times", "/notifications/unread"} {
		assert.NotNil(t, doc.Paths.Find(p), p)
	}
}

func TestGetPing(t *testing.T) {
	doc := loadDoc(t)
	app := newApp(t, testutil.NewDB(t), usercontext.Anonymous)

	status, body := get(t, app, "/api/v1/ping")
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"ping":"pong"}`, string(body))
	assertMatchesSchema(t, doc, "/ping", status, body)
}

func TestGetAvailableTimes(t *testing.T) {
	doc := loadDoc(t)
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "owner", models.ROLE_USER)
	b := testutil.CreateBusiness(t, db, owner, "Barber", "free")
	app := newApp(t, db, usercontext.Anonymous)

	date := time.Now().AddDate(0, 0, 7)
	require.NoError(t, db.Create(&models.TimeSlot{
		BusinessID: b.ID,
		DayOfWeek:  models.WeekdayKey(date.Weekday()),
		StartTime:  "10:00",
		EndTime:    "11:00",
		Duration:   30,
		IsActive:   true,
	}).Error)

	url := "/api/v1/businesses/" + itoa(b.ID) + "/available-times?date=" + date.Format(models.DateLayout)
	status, body := get(t, app, url)
	require.Equal(t, fiber.StatusOK, status)
	assertMatchesSchema(t, doc, "/businesses/{id}/available-times", status, body)

	var got AvailableTimes
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, []string{"10:00", "10:30"}, got.AvailableTimes)

	status, body = get(t, app, "/api/v1/businesses/"+itoa(b.ID)+"/available-times?date=tomorrow")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assertMatchesSchema(t, doc, "/businesses/{id}/available-times", status, body)

	status, body = get(t, app, "/api/v1/businesses/9999/available-times?date=2030-01-01")
	assert.Equal(t, fiber.StatusNotFound, status)
	assertMatchesSchema(t, doc, "/businesses/{id}/available-times", status, body)
}

func TestGetUnreadNotifications(t *testing.T) {
	doc := loadDoc(t)
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "owner", models.ROLE_USER)
	b := testutil.CreateBusiness(t, db, owner, "Florist", "free")
	require.NoError(t, db.Create(&models.Notification{BusinessID: b.ID, Type: models.NotificationTypeGeneral, Title: "Hi", Message: "Welcome"}).Error)

	status, body := get(t, newApp(t, db, usercontext.Anonymous), "/api/v1/notifications/unread")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assertMatchesSchema(t, doc, "/notifications/unread", status, body)

	app := newApp(t, db, usercontext.UserContext{UserID: owner.ID, Username: owner.Name, IsLoggedIn: true})
	status, body = get(t, app, "/api/v1/notifications/unread")
	require.Equal(t, fiber.StatusOK, status)
	assertMatchesSchema(t, doc, "/notifications/unread", status, body)
	assert.JSONEq(t, `{"unread":1}`, string(body))
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
