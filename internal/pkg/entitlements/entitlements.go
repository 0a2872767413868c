package entitlements

import "strings"

type Plan string

const (
	PlanFree    Plan = "free"
	PlanPro     Plan = "pro"
	PlanPremium Plan = "premium"
)

// Capabilities is the feature set a business plan unlocks.
type Capabilities struct {
	MaxPhotos       int  `json:"max_photos"`
	MaxBusinesses   int  `json:"max_businesses"`
	CanShowMenu     bool `json:"can_show_menu"`
	CanShowWebsite  bool `json:"can_show_website"`
	CanShowWhatsapp bool `json:"can_show_whatsapp"`
	IsFeatured      bool `json:"is_featured"`
}

var capabilities = map[Plan]Capabilities{
	PlanFree: {
		MaxPhotos:     1,
		MaxBusinesses: 1,
	},
	PlanPro: {
		MaxPhotos:       5,
		MaxBusinesses:   3,
		CanShowWebsite:  true,
		CanShowWhatsapp: true,
	},
	PlanPremium: {
		MaxPhotos:       10,
		MaxBusinesses:   10,
		CanShowMenu:     true,
		CanShowWebsite:  true,
		CanShowWhatsapp: true,
		IsFeatured:      true,
	},
}

// Normalize maps arbitrary input to a known plan; unknown values become free.
func Normalize(raw string) Plan {
	p := Plan(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := capabilities[p]; ok {
		return p
	}
	return PlanFree
}

// IsValid reports whether raw names a known plan.
func IsValid(raw string) bool {
	_, ok := capabilities[Plan(strings.ToLower(strings.TrimSpace(raw)))]
	return ok
}

// IsPaid reports whether the plan has to go through checkout.
func IsPaid(p Plan) bool {
	return Normalize(string(p)) != PlanFree
}

// For returns the capabilities of a plan.
func For(p Plan) Capabilities {
	return capabilities[Normalize(string(p))]
}

// Rank orders plans from free (0) upwards.
func Rank(p Plan) int {
	switch Normalize(string(p)) {
	case PlanPremium:
		return 2
	case PlanPro:
		return 1
	default:
		return 0
	}
}

// All returns the plans in ascending order.
func All() []Plan {
	return []Plan{PlanFree, PlanPro, PlanPremium}
}

// MaxBusinesses returns the largest business cap among the given plans.
// An owner without any plan is treated as free.
func MaxBusinesses(plans []Plan) int {
	max := For(PlanFree).MaxBusinesses
	for _, p := range plans {
		if n := For(p).MaxBusinesses; n > max {
			max = n
		}
	}
	return max
}
