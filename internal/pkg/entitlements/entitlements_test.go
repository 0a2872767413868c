package entitlements

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForMatchesPlanTable(t *testing.T) {
	tests := []struct {
		plan Plan
		want Capabilities
	}{
		{PlanFree, Capabilities{MaxPhotos: 1, MaxBusinesses: 1}},
		{PlanPro, Capabilities{MaxPhotos: 5, MaxBusinesses: 3, CanShowWebsite: true, CanShowWhatsapp: true}},
		{PlanPremium, Capabilities{MaxPhotos: 10, MaxBusinesses: 10, CanShowMenu: true, CanShowWebsite: true, CanShowWhatsapp: true, IsFeatured: true}},
	}

	for _, tt := range tests {
		t.Run(string(tt.plan), func(t *testing.T) {
			assert.Equal(t, tt.want, For(tt.plan))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, PlanPremium, Normalize(" Premium "))
	assert.Equal(t, PlanPro, Normalize("PRO"))
	assert.Equal(t, PlanFree, Normalize("gold"))
	assert.Equal(t, PlanFree, Normalize(""))
	assert.Equal(t, For(PlanFree), For(Plan("unknown")))
}

func TestIsValidAndPaid(t *testing.T) {
	assert.True(t, IsValid("pro"))
	assert.False(t, IsValid("enterprise"))
	assert.False(t, IsPaid(PlanFree))
	assert.True(t, IsPaid(PlanPro))
	assert.True(t, IsPaid(PlanPremium))
}

func TestMaxBusinesses(t *testing.T) {
	assert.Equal(t, 1, MaxBusinesses(nil))
	assert.Equal(t, 3, MaxBusinesses([]Plan{PlanFree, PlanPro}))
	assert.Equal(t, 10, MaxBusinesses([]Plan{PlanPremium, PlanPro}))
}

func TestRank(t *testing.T) {
	assert.Less(t, Rank(PlanFree), Rank(PlanPro))
	assert.Less(t, Rank(PlanPro), Rank(PlanPremium))
}
