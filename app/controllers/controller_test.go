package controllers

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalBiz/app/models"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/middleware"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/session"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/storage"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/testutil"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/usercontext"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/viewmodel"
)

type testEnv struct {
	db    *gorm.DB
	ctl   *Controller
	store *storage.LocalStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	store := storage.NewLocalStore(t.TempDir(), "/uploads")
	session.SetSessionStore(fibersession.New())
	t.Cleanup(func() { session.SetSessionStore(nil) })
	return &testEnv{db: db, ctl: NewController(db, store), store: store}
}

// app mounts the handlers the way the router does, minus csrf, acting as u
func (e *testEnv) app(u *models.User) *fiber.App {
	app := fiber.New(fiber.Config{
		Views: viewmodel.NewEngine("../../views", e.store.URL),
	})

	uc := usercontext.Anonymous
	if u != nil {
		uc = usercontext.UserContext{UserID: u.ID, Username: u.Name, IsLoggedIn: true, IsAdmin: u.IsAdmin()}
	}
	app.Use(func(c *fiber.Ctx) error {
		usercontext.Set(c, uc)
		return c.Next()
	})

	ctl := e.ctl
	app.All("/login", ctl.HandleAuthLogin)
	app.All("/register", ctl.HandleAuthRegister)
	app.Get("/businesses/", ctl.HandleList)
	app.Get("/businesses/business/:id/", ctl.HandleDetail)
	app.Get("/businesses/api/available-times/:business_id/:date/", ctl.HandleAvailableTimes)
	app.All("/businesses/register/", middleware.RequireAuth, ctl.HandleRegisterBusiness)
	app.All("/businesses/review/:business_id/", middleware.RequireAuth, ctl.HandleReview)
	app.All("/businesses/book/:business_id/", middleware.RequireAuth, ctl.HandleBook)

	dash := app.Group("/businesses/dashboard", middleware.RequireAuth)
	dash.Get("/", ctl.HandleDashboard)
	dash.All("/photos/", ctl.HandlePhotos)
	dash.All("/plan/", ctl.HandlePlan)
	dash.All("/checkout/", ctl.HandleCheckout)

	admin := app.Group("/businesses/admin", middleware.RequireAdmin)
	admin.Post("/approve/:id/", ctl.HandleApprove)
	return app
}

func send(t *testing.T, app *fiber.App, req *http.Request, cookies []*http.Cookie) *http.Response {
	t.Helper()
	for _, c := range cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func postForm(t *testing.T, app *fiber.App, target string, form url.Values, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return send(t, app, req, cookies)
}

func get(t *testing.T, app *fiber.App, target string) *http.Response {
	t.Helper()
	return send(t, app, httptest.NewRequest(http.MethodGet, target, nil), nil)
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func assertFlash(t *testing.T, resp *http.Response) {
	t.Helper()
	assert.Contains(t, strings.Join(resp.Header.Values("Set-Cookie"), ";"), "flash")
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for x := 0; x < 32; x++ {
		for y := 0; y < 24; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 10), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func postPhoto(t *testing.T, app *fiber.App, target string, data []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("action", "upload"))
	fw, err := w.CreateFormFile("photo", "storefront.png")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return send(t, app, req, nil)
}
