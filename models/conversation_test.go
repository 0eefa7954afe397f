package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pagereach/pagereach/utils"
)

func TestConversationMessagingWindow(t *testing.T) {
	t.Run("NoInboundYet", func(t *testing.T) {
		c := &Conversation{}
		assert.False(t, c.WithinMessagingWindow())
	})

	t.Run("RecentInbound", func(t *testing.T) {
		recent := utils.UTCNow().Add(-1 * time.Hour)
		c := &Conversation{LastInboundAt: &recent}
		assert.True(t, c.WithinMessagingWindow())
	})

	t.Run("JustInsideWindow", func(t *testing.T) {
		edge := utils.UTCNow().Add(-utils.MessagingWindow + time.Minute)
		c := &Conversation{LastInboundAt: &edge}
		assert.True(t, c.WithinMessagingWindow())
	})

	t.Run("WindowElapsed", func(t *testing.T) {
		stale := utils.UTCNow().Add(-utils.MessagingWindow - time.Minute)
		c := &Conversation{LastInboundAt: &stale}
		assert.False(t, c.WithinMessagingWindow())
	})
}

func TestConversationHasOTNToken(t *testing.T) {
	assert.False(t, (&Conversation{}).HasOTNToken())
	assert.False(t, (&Conversation{OTNToken: utils.ToPtr("")}).HasOTNToken())
	assert.True(t, (&Conversation{OTNToken: utils.ToPtr("otn-token-1")}).HasOTNToken())
}
