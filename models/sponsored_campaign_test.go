package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pagereach/pagereach/utils"
)

func TestSponsoredCampaignStatus(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		valid := []SponsoredCampaignStatus{
			SponsoredCampaignStatusDraft,
			SponsoredCampaignStatusPendingReview,
			SponsoredCampaignStatusActive,
			SponsoredCampaignStatusPaused,
			SponsoredCampaignStatusCompleted,
			SponsoredCampaignStatusRejected,
		}
		for _, s := range valid {
			assert.True(t, s.Valid(), "expected %s to be valid", s)
		}
		assert.False(t, SponsoredCampaignStatus("archived").Valid())
		assert.False(t, SponsoredCampaignStatus("").Valid())
	})

	t.Run("ScanAndValue", func(t *testing.T) {
		var s SponsoredCampaignStatus
		assert.NoError(t, s.Scan("active"))
		assert.Equal(t, SponsoredCampaignStatusActive, s)

		assert.NoError(t, s.Scan([]byte("paused")))
		assert.Equal(t, SponsoredCampaignStatusPaused, s)

		v, err := SponsoredCampaignStatusDraft.Value()
		assert.NoError(t, err)
		assert.Equal(t, "draft", v)

		_, err = SponsoredCampaignStatus("bogus").Value()
		assert.Error(t, err)
	})
}

func TestSponsoredCampaignTransitions(t *testing.T) {
	cases := []struct {
		from    SponsoredCampaignStatus
		to      SponsoredCampaignStatus
		allowed bool
	}{
		{SponsoredCampaignStatusDraft, SponsoredCampaignStatusPendingReview, true},
		{SponsoredCampaignStatusDraft, SponsoredCampaignStatusActive, false},
		{SponsoredCampaignStatusDraft, SponsoredCampaignStatusCompleted, false},
		{SponsoredCampaignStatusPendingReview, SponsoredCampaignStatusActive, true},
		{SponsoredCampaignStatusPendingReview, SponsoredCampaignStatusRejected, true},
		{SponsoredCampaignStatusPendingReview, SponsoredCampaignStatusPaused, false},
		{SponsoredCampaignStatusActive, SponsoredCampaignStatusPaused, true},
		{SponsoredCampaignStatusActive, SponsoredCampaignStatusCompleted, true},
		{SponsoredCampaignStatusActive, SponsoredCampaignStatusDraft, false},
		{SponsoredCampaignStatusPaused, SponsoredCampaignStatusActive, true},
		{SponsoredCampaignStatusPaused, SponsoredCampaignStatusCompleted, true},
		{SponsoredCampaignStatusPaused, SponsoredCampaignStatusRejected, false},
		{SponsoredCampaignStatusCompleted, SponsoredCampaignStatusActive, false},
		{SponsoredCampaignStatusRejected, SponsoredCampaignStatusPendingReview, false},
	}

	for _, tc := range cases {
		c := &SponsoredCampaign{Status: tc.from}
		assert.Equal(t, tc.allowed, c.CanTransitionTo(tc.to),
			"%s -> %s should be allowed=%v", tc.from, tc.to, tc.allowed)
	}
}

func TestSponsoredCampaignEditability(t *testing.T) {
	t.Run("IsEditable", func(t *testing.T) {
		assert.True(t, (&SponsoredCampaign{Status: SponsoredCampaignStatusDraft}).IsEditable())
		assert.False(t, (&SponsoredCampaign{Status: SponsoredCampaignStatusPendingReview}).IsEditable())
		assert.False(t, (&SponsoredCampaign{Status: SponsoredCampaignStatusActive}).IsEditable())
	})

	t.Run("IsDeletable", func(t *testing.T) {
		deletable := []SponsoredCampaignStatus{
			SponsoredCampaignStatusDraft,
			SponsoredCampaignStatusRejected,
			SponsoredCampaignStatusCompleted,
		}
		for _, s := range deletable {
			assert.True(t, (&SponsoredCampaign{Status: s}).IsDeletable(), "expected %s to be deletable", s)
		}

		kept := []SponsoredCampaignStatus{
			SponsoredCampaignStatusPendingReview,
			SponsoredCampaignStatusActive,
			SponsoredCampaignStatusPaused,
		}
		for _, s := range kept {
			assert.False(t, (&SponsoredCampaign{Status: s}).IsDeletable(), "expected %s to be kept", s)
		}
	})
}

func TestSponsoredCampaignHasExternalObjects(t *testing.T) {
	c := &SponsoredCampaign{}
	assert.False(t, c.HasExternalObjects())

	c.ExternalCampaignID = utils.ToPtr("cmp_1")
	c.ExternalAdSetID = utils.ToPtr("as_1")
	assert.False(t, c.HasExternalObjects(), "ad id missing")

	c.ExternalAdID = utils.ToPtr("ad_1")
	assert.True(t, c.HasExternalObjects())

	c.ExternalAdSetID = utils.ToPtr("")
	assert.False(t, c.HasExternalObjects(), "empty id does not count")
}

func TestSponsoredCampaignExpiresAt(t *testing.T) {
	t.Run("NotActivated", func(t *testing.T) {
		c := &SponsoredCampaign{DurationDays: 7}
		assert.Nil(t, c.ExpiresAt())
	})

	t.Run("ZeroDuration", func(t *testing.T) {
		now := utils.UTCNow()
		c := &SponsoredCampaign{ActivatedAt: &now}
		assert.Nil(t, c.ExpiresAt())
	})

	t.Run("Activated", func(t *testing.T) {
		activated := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		c := &SponsoredCampaign{ActivatedAt: &activated, DurationDays: 7}

		expires := c.ExpiresAt()
		assert.NotNil(t, expires)
		assert.Equal(t, activated.Add(7*24*time.Hour), *expires)
	})
}

func TestSponsoredCampaignStatusDisplayName(t *testing.T) {
	assert.Equal(t, "Pending Review", (&SponsoredCampaign{Status: SponsoredCampaignStatusPendingReview}).GetStatusDisplayName())
	assert.Equal(t, "Unknown", (&SponsoredCampaign{Status: "bogus"}).GetStatusDisplayName())
}
