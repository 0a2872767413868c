package viewmodel

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/template/html/v2"

	"github.com/ManuelReschke/LocalBiz/app/models"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/entitlements"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/utils"
)

// NewEngine creates the html template engine with the helpers the views use.
// photoURL turns a stored photo key into a public URL.
func NewEngine(dir string, photoURL func(key string) string) *html.Engine {
	engine := html.New(dir, ".html")
	engine.AddFunc("photoURL", photoURL)
	engine.AddFunc("rating", FormatRating)
	engine.AddFunc("date", FormatDate)
	engine.AddFunc("dayLabel", DayLabel)
	engine.AddFunc("title", Title)
	engine.AddFunc("avatar", func(email string) string { return utils.GetGravatarURL(email, 40) })
	engine.AddFunc("days", func() []string { return models.DaysOfWeek })
	engine.AddFunc("plans", entitlements.All)
	engine.AddFunc("capabilities", func(p entitlements.Plan) entitlements.Capabilities { return entitlements.For(p) })
	engine.AddFunc("seq", func(from, to int) []int {
		var out []int
		for i := from; i <= to; i++ {
			out = append(out, i)
		}
		return out
	})
	return engine
}

// FormatRating renders an average rating with one decimal, "-" when unrated.
func FormatRating(avg *float64) string {
	if avg == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *avg)
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// DayLabel turns a weekday key into its display name
func DayLabel(key string) string {
	return Title(key)
}

// Title upper-cases the first letter of a lowercase key such as a plan type.
func Title(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
