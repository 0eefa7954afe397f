package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagereach/pagereach/utils"
)

type recordedCall struct {
	Method string
	Path   string
	Form   map[string]string
	Body   string
}

// graphTestServer fakes the remote API: responses are dequeued in call order
type graphTestServer struct {
	server    *httptest.Server
	calls     []recordedCall
	responses []string
}

func newGraphTestServer(t *testing.T, responses ...string) *graphTestServer {
	t.Helper()
	ts := &graphTestServer{responses: responses}
	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := recordedCall{Method: r.Method, Path: r.URL.Path, Form: map[string]string{}}
		if r.Method == http.MethodPost {
			if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
				var raw map[string]any
				_ = json.NewDecoder(r.Body).Decode(&raw)
				b, _ := json.Marshal(raw)
				call.Body = string(b)
			} else {
				require.NoError(t, r.ParseForm())
				for k := range r.PostForm {
					call.Form[k] = r.PostForm.Get(k)
				}
			}
		}
		ts.calls = append(ts.calls, call)

		resp := `{"id":"0"}`
		if len(ts.responses) > 0 {
			resp = ts.responses[0]
			ts.responses = ts.responses[1:]
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, resp)
	}))
	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *graphTestServer) client() GraphClient {
	return NewGraphClient(ts.server.URL, 5*time.Second)
}

func builderInput() CreateSponsoredAdsInput {
	return CreateSponsoredAdsInput{
		AdAccountID:      "123456",
		AccessToken:      "page-token",
		PageID:           "987654",
		MessageText:      "Hello from our page",
		CampaignName:     "Spring Promo",
		DailyBudgetCents: 2500,
	}
}

func TestCreateSponsoredAds_Success(t *testing.T) {
	ts := newGraphTestServer(t,
		`{"id":"cmp_1"}`,
		`{"id":"set_1","reach_estimate":5400}`,
		`{"id":"cre_1"}`,
		`{"id":"ad_1"}`,
	)

	result, err := ts.client().CreateSponsoredAds(context.Background(), builderInput())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "cmp_1", result.CampaignID)
	assert.Equal(t, "set_1", result.AdSetID)
	assert.Equal(t, "cre_1", result.CreativeID)
	assert.Equal(t, "ad_1", result.AdID)
	assert.Equal(t, uint64(5400), result.EstimatedReach)

	require.Len(t, ts.calls, 4)
	assert.Equal(t, "/v18.0/act_123456/campaigns", ts.calls[0].Path)
	assert.Equal(t, "/v18.0/act_123456/adsets", ts.calls[1].Path)
	assert.Equal(t, "/v18.0/act_123456/adcreatives", ts.calls[2].Path)
	assert.Equal(t, "/v18.0/act_123456/ads", ts.calls[3].Path)

	// ad set references the campaign, ad references both ad set and creative
	assert.Equal(t, "cmp_1", ts.calls[1].Form["campaign_id"])
	assert.Equal(t, "2500", ts.calls[1].Form["daily_budget"])
	assert.Equal(t, "set_1", ts.calls[3].Form["adset_id"])
	assert.Contains(t, ts.calls[3].Form["creative"], "cre_1")

	// creative embeds the page and message text
	assert.Contains(t, ts.calls[2].Form["object_story_spec"], "987654")
	assert.Contains(t, ts.calls[2].Form["object_story_spec"], "Hello from our page")
}

func TestCreateSponsoredAds_NoReachEstimate(t *testing.T) {
	ts := newGraphTestServer(t,
		`{"id":"cmp_1"}`,
		`{"id":"set_1"}`,
		`{"id":"cre_1"}`,
		`{"id":"ad_1"}`,
	)

	result, err := ts.client().CreateSponsoredAds(context.Background(), builderInput())
	require.NoError(t, err)
	assert.Equal(t, uint64(0), result.EstimatedReach)
}

func TestCreateSponsoredAds_AbortsOnCampaignError(t *testing.T) {
	ts := newGraphTestServer(t,
		`{"error":{"message":"Invalid parameter","type":"OAuthException","code":100}}`,
	)

	result, err := ts.client().CreateSponsoredAds(context.Background(), builderInput())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, IsGraphError(err))
	assert.Contains(t, err.Error(), "Invalid parameter")

	// nothing after the failed campaign call
	assert.Len(t, ts.calls, 1)
}

func TestCreateSponsoredAds_AbortsOnAdSetError(t *testing.T) {
	ts := newGraphTestServer(t,
		`{"id":"cmp_1"}`,
		`{"error":{"message":"Daily budget too low"}}`,
	)

	result, err := ts.client().CreateSponsoredAds(context.Background(), builderInput())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, IsGraphError(err))
	assert.Contains(t, err.Error(), "Daily budget too low")

	// campaign created, then the sequence stops at the ad set
	assert.Len(t, ts.calls, 2)
}

func TestSetCampaignStatus_Success(t *testing.T) {
	ts := newGraphTestServer(t, `{"success":true}`)

	ok := ts.client().SetCampaignStatus(context.Background(), "cmp_1", "page-token", "ACTIVE")
	assert.True(t, ok)

	require.Len(t, ts.calls, 1)
	assert.Equal(t, "/v18.0/cmp_1", ts.calls[0].Path)
	assert.Equal(t, "ACTIVE", ts.calls[0].Form["status"])
}

func TestSetCampaignStatus_ErrorEnvelopeReturnsFalse(t *testing.T) {
	ts := newGraphTestServer(t, `{"error":{"message":"Unsupported request"}}`)

	ok := ts.client().SetCampaignStatus(context.Background(), "cmp_1", "page-token", "PAUSED")
	assert.False(t, ok)
}

func TestSetCampaignStatus_TransportFailureReturnsFalse(t *testing.T) {
	ts := newGraphTestServer(t)
	client := ts.client()
	ts.server.Close()

	ok := client.SetCampaignStatus(context.Background(), "cmp_1", "page-token", "ACTIVE")
	assert.False(t, ok)
}

func TestFetchCampaignInsights_ParsesStringMetrics(t *testing.T) {
	ts := newGraphTestServer(t, `{"data":[{
		"impressions":"5000",
		"reach":"3200",
		"spend":"12.34",
		"clicks":"150",
		"ctr":"3.0",
		"actions":[{"action_type":"onsite_conversion.messaging_first_reply","value":"42"}]
	}]}`)

	insights := ts.client().FetchCampaignInsights(context.Background(), "cmp_1", "page-token")

	assert.Equal(t, int64(5000), insights.Impressions)
	assert.Equal(t, int64(3200), insights.Reach)
	assert.Equal(t, 12.34, insights.Spend)
	assert.Equal(t, int64(150), insights.Clicks)
	assert.Equal(t, 3.0, insights.CTR)
	require.Len(t, insights.Actions, 1)
	assert.Equal(t, "onsite_conversion.messaging_first_reply", insights.Actions[0].Type)
	assert.Equal(t, "42", insights.Actions[0].Value)

	require.Len(t, ts.calls, 1)
	assert.Equal(t, "/v18.0/cmp_1/insights", ts.calls[0].Path)
}

func TestFetchCampaignInsights_EmptyDataYieldsZeroRecord(t *testing.T) {
	ts := newGraphTestServer(t, `{"data":[]}`)

	insights := ts.client().FetchCampaignInsights(context.Background(), "cmp_1", "page-token")
	assert.Equal(t, ZeroCampaignInsights(), insights)
}

func TestFetchCampaignInsights_ErrorEnvelopeYieldsZeroRecord(t *testing.T) {
	ts := newGraphTestServer(t, `{"error":{"message":"(#100) Missing permissions"}}`)

	insights := ts.client().FetchCampaignInsights(context.Background(), "cmp_1", "page-token")
	assert.Equal(t, ZeroCampaignInsights(), insights)
}

func TestFetchCampaignInsights_TransportFailureYieldsZeroRecord(t *testing.T) {
	ts := newGraphTestServer(t)
	client := ts.client()
	ts.server.Close()

	insights := client.FetchCampaignInsights(context.Background(), "cmp_1", "page-token")
	assert.Equal(t, ZeroCampaignInsights(), insights)
}

func TestFetchCampaignInsights_UnparsableMetricBecomesZero(t *testing.T) {
	ts := newGraphTestServer(t, `{"data":[{"impressions":"n/a","reach":"100","spend":"","clicks":"7","ctr":"0.5"}]}`)

	insights := ts.client().FetchCampaignInsights(context.Background(), "cmp_1", "page-token")
	assert.Equal(t, int64(0), insights.Impressions)
	assert.Equal(t, int64(100), insights.Reach)
	assert.Equal(t, float64(0), insights.Spend)
	assert.Equal(t, int64(7), insights.Clicks)
	assert.Equal(t, []InsightAction{}, insights.Actions)
}

func TestSubscribePageWebhooks_SendsAllMessageFields(t *testing.T) {
	ts := newGraphTestServer(t, `{"success":true}`)

	err := ts.client().SubscribePageWebhooks(context.Background(), "987654", "page-token")
	require.NoError(t, err)

	require.Len(t, ts.calls, 1)
	assert.Equal(t, "/v18.0/987654/subscribed_apps", ts.calls[0].Path)

	fields := ts.calls[0].Form["subscribed_fields"]
	for _, f := range []string{"messages", "messaging_optins", "messaging_postbacks", "message_deliveries", "message_reads", "messaging_referrals"} {
		assert.Contains(t, fields, f)
	}
}

func TestSubscribePageWebhooks_ErrorEnvelope(t *testing.T) {
	ts := newGraphTestServer(t, `{"error":{"message":"Page access token required"}}`)

	err := ts.client().SubscribePageWebhooks(context.Background(), "987654", "user-token")
	require.Error(t, err)
	assert.True(t, IsGraphError(err))
}

func TestSendTextMessage_ByPSID(t *testing.T) {
	ts := newGraphTestServer(t, `{"recipient_id":"psid-1","message_id":"mid.abc"}`)

	mid, err := ts.client().SendTextMessage(context.Background(), SendTextMessageInput{
		AccessToken: "page-token",
		RecipientID: "psid-1",
		Text:        "hi there",
	})
	require.NoError(t, err)
	assert.Equal(t, "mid.abc", mid)

	require.Len(t, ts.calls, 1)
	assert.Equal(t, "/v18.0/me/messages", ts.calls[0].Path)
	assert.Contains(t, ts.calls[0].Body, `"id":"psid-1"`)
	assert.Contains(t, ts.calls[0].Body, `"messaging_type":"RESPONSE"`)
}

func TestSendTextMessage_ByOTNToken(t *testing.T) {
	ts := newGraphTestServer(t, `{"recipient_id":"psid-1","message_id":"mid.def"}`)

	mid, err := ts.client().SendTextMessage(context.Background(), SendTextMessageInput{
		AccessToken: "page-token",
		RecipientID: "psid-1",
		Text:        "back in stock",
		OTNToken:    utils.ToPtr("otn-token-1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "mid.def", mid)

	assert.Contains(t, ts.calls[0].Body, `"one_time_notif_token":"otn-token-1"`)
	assert.NotContains(t, ts.calls[0].Body, `"id":"psid-1"`)
	assert.Contains(t, ts.calls[0].Body, `"messaging_type":"MESSAGE_TAG"`)
}

func TestSendTextMessage_ErrorEnvelope(t *testing.T) {
	ts := newGraphTestServer(t, `{"error":{"message":"This message is sent outside of allowed window"}}`)

	_, err := ts.client().SendTextMessage(context.Background(), SendTextMessageInput{
		AccessToken: "page-token",
		RecipientID: "psid-1",
		Text:        "too late",
	})
	require.Error(t, err)
	assert.True(t, IsGraphError(err))
	assert.Contains(t, err.Error(), "allowed window")
}
