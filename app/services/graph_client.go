// Package services contains external service integrations and supporting business services
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultGraphVersion is the Graph/Marketing API version used for all calls
const DefaultGraphVersion = "v18.0"

// DefaultGraphBaseURL is the production Graph API endpoint
const DefaultGraphBaseURL = "https://graph.facebook.com"

// PageWebhookFields are the message-related webhook fields a connected page
// is subscribed to
var PageWebhookFields = []string{
	"messages",
	"messaging_optins",
	"messaging_postbacks",
	"message_deliveries",
	"message_reads",
	"messaging_referrals",
}

// GraphError carries the error message returned by the remote API
type GraphError struct {
	Message string
}

func (e *GraphError) Error() string {
	return fmt.Sprintf("graph api: %s", e.Message)
}

// IsGraphError reports whether err wraps a remote API error envelope
func IsGraphError(err error) bool {
	var ge *GraphError
	return errors.As(err, &ge)
}

// CreateSponsoredAdsInput holds everything needed to build the remote ad objects
type CreateSponsoredAdsInput struct {
	AdAccountID      string
	AccessToken      string
	PageID           string
	MessageText      string
	CampaignName     string
	DailyBudgetCents uint64
}

// CreateSponsoredAdsResult carries the IDs of the created remote objects
type CreateSponsoredAdsResult struct {
	CampaignID     string
	AdSetID        string
	CreativeID     string
	AdID           string
	EstimatedReach uint64
}

// InsightAction is a single action entry from the insights response,
// passed through unmodified
type InsightAction struct {
	Type  string `json:"action_type"`
	Value string `json:"value"`
}

// CampaignInsights holds normalized performance metrics for a campaign
type CampaignInsights struct {
	Impressions int64           `json:"impressions"`
	Reach       int64           `json:"reach"`
	Spend       float64         `json:"spend"`
	Clicks      int64           `json:"clicks"`
	CTR         float64         `json:"ctr"`
	Actions     []InsightAction `json:"actions"`
}

// ZeroCampaignInsights returns the all-zero record used whenever insights
// cannot be fetched
func ZeroCampaignInsights() CampaignInsights {
	return CampaignInsights{Actions: []InsightAction{}}
}

// SendTextMessageInput describes an outbound messenger message. When OTNToken
// is set the message is addressed by one-time notification token instead of
// the recipient PSID.
type SendTextMessageInput struct {
	AccessToken string
	RecipientID string
	Text        string
	OTNToken    *string
}

// GraphClient issues authenticated requests against the Graph/Marketing API.
// It is injected everywhere so tests can point it at a local server.
type GraphClient interface {
	// CreateSponsoredAds performs the campaign -> ad set -> creative -> ad
	// sequence. Any error envelope aborts the sequence immediately; objects
	// already created remotely are not rolled back.
	CreateSponsoredAds(ctx context.Context, in CreateSponsoredAdsInput) (*CreateSponsoredAdsResult, error)

	// SetCampaignStatus toggles a remote campaign between ACTIVE and PAUSED.
	// It returns false on any error response or transport failure and never
	// returns an error value.
	SetCampaignStatus(ctx context.Context, campaignID, accessToken, status string) bool

	// FetchCampaignInsights retrieves performance metrics. It degrades to the
	// all-zero record on empty data, error envelopes, and transport failures.
	FetchCampaignInsights(ctx context.Context, campaignID, accessToken string) CampaignInsights

	// SubscribePageWebhooks subscribes a page to the message-related webhook fields.
	SubscribePageWebhooks(ctx context.Context, pageID, accessToken string) error

	// SendTextMessage delivers a text message to a contact and returns the
	// messenger message ID.
	SendTextMessage(ctx context.Context, in SendTextMessageInput) (string, error)
}

type httpGraphClient struct {
	BaseURL    string
	Version    string
	HTTPClient *http.Client
}

// NewGraphClient creates a Graph API client against the given base URL
// (empty means production)
func NewGraphClient(baseURL string, timeout time.Duration) GraphClient {
	if baseURL == "" {
		baseURL = DefaultGraphBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &httpGraphClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Version:    DefaultGraphVersion,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// graphErrorDetail is the error envelope body returned by the remote API
type graphErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// graphObjectResponse covers both `{id}` and `{success}` mutation responses
type graphObjectResponse struct {
	ID            string            `json:"id"`
	Success       *bool             `json:"success,omitempty"`
	ReachEstimate *uint64           `json:"reach_estimate,omitempty"`
	Error         *graphErrorDetail `json:"error,omitempty"`
}

type graphInsightsRow struct {
	Impressions string          `json:"impressions"`
	Reach       string          `json:"reach"`
	Spend       string          `json:"spend"`
	Clicks      string          `json:"clicks"`
	CTR         string          `json:"ctr"`
	Actions     []InsightAction `json:"actions"`
}

type graphInsightsResponse struct {
	Data  []graphInsightsRow `json:"data"`
	Error *graphErrorDetail  `json:"error,omitempty"`
}

func (c *httpGraphClient) CreateSponsoredAds(ctx context.Context, in CreateSponsoredAdsInput) (*CreateSponsoredAdsResult, error) {
	result := &CreateSponsoredAdsResult{}

	// 1. Campaign
	campaign, err := c.postObject(ctx, "/act_"+in.AdAccountID+"/campaigns", url.Values{
		"name":                  {in.CampaignName},
		"objective":             {"OUTCOME_ENGAGEMENT"},
		"status":                {"PAUSED"},
		"special_ad_categories": {"[]"},
		"access_token":          {in.AccessToken},
	})
	if err != nil {
		return nil, err
	}
	result.CampaignID = campaign.ID

	// 2. Ad set
	targeting, _ := json.Marshal(map[string]any{
		"geo_locations": map[string]any{"countries": []string{"US"}},
		"page_types":    []string{"messenger"},
	})
	promotedObject, _ := json.Marshal(map[string]string{"page_id": in.PageID})
	adSet, err := c.postObject(ctx, "/act_"+in.AdAccountID+"/adsets", url.Values{
		"name":              {in.CampaignName + " Ad Set"},
		"campaign_id":       {result.CampaignID},
		"daily_budget":      {strconv.FormatUint(in.DailyBudgetCents, 10)},
		"billing_event":     {"IMPRESSIONS"},
		"optimization_goal": {"CONVERSATIONS"},
		"destination_type":  {"MESSENGER"},
		"targeting":         {string(targeting)},
		"promoted_object":   {string(promotedObject)},
		"status":            {"PAUSED"},
		"access_token":      {in.AccessToken},
	})
	if err != nil {
		return nil, err
	}
	result.AdSetID = adSet.ID
	if adSet.ReachEstimate != nil {
		result.EstimatedReach = *adSet.ReachEstimate
	}

	// 3. Creative
	storySpec, _ := json.Marshal(map[string]any{
		"page_id": in.PageID,
		"link_data": map[string]any{
			"message": in.MessageText,
			"call_to_action": map[string]any{
				"type": "MESSAGE_PAGE",
				"value": map[string]string{
					"app_destination": "MESSENGER",
				},
			},
		},
	})
	creative, err := c.postObject(ctx, "/act_"+in.AdAccountID+"/adcreatives", url.Values{
		"name":              {in.CampaignName + " Creative"},
		"object_story_spec": {string(storySpec)},
		"access_token":      {in.AccessToken},
	})
	if err != nil {
		return nil, err
	}
	result.CreativeID = creative.ID

	// 4. Ad
	creativeRef, _ := json.Marshal(map[string]string{"creative_id": result.CreativeID})
	ad, err := c.postObject(ctx, "/act_"+in.AdAccountID+"/ads", url.Values{
		"name":         {in.CampaignName + " Ad"},
		"adset_id":     {result.AdSetID},
		"creative":     {string(creativeRef)},
		"status":       {"PAUSED"},
		"access_token": {in.AccessToken},
	})
	if err != nil {
		return nil, err
	}
	result.AdID = ad.ID

	return result, nil
}

func (c *httpGraphClient) SetCampaignStatus(ctx context.Context, campaignID, accessToken, status string) bool {
	out, err := c.postObject(ctx, "/"+campaignID, url.Values{
		"status":       {status},
		"access_token": {accessToken},
	})
	if err != nil {
		return false
	}
	return out.Success == nil || *out.Success
}

func (c *httpGraphClient) FetchCampaignInsights(ctx context.Context, campaignID, accessToken string) CampaignInsights {
	endpoint := fmt.Sprintf("%s/%s/%s/insights?fields=impressions,reach,spend,clicks,ctr,actions&access_token=%s",
		c.BaseURL, c.Version, campaignID, url.QueryEscape(accessToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ZeroCampaignInsights()
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return ZeroCampaignInsights()
	}
	defer resp.Body.Close()

	var out graphInsightsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ZeroCampaignInsights()
	}
	if out.Error != nil || len(out.Data) == 0 {
		return ZeroCampaignInsights()
	}

	row := out.Data[0]
	insights := CampaignInsights{
		Impressions: parseGraphInt(row.Impressions),
		Reach:       parseGraphInt(row.Reach),
		Spend:       parseGraphFloat(row.Spend),
		Clicks:      parseGraphInt(row.Clicks),
		CTR:         parseGraphFloat(row.CTR),
		Actions:     row.Actions,
	}
	if insights.Actions == nil {
		insights.Actions = []InsightAction{}
	}
	return insights
}

func (c *httpGraphClient) SubscribePageWebhooks(ctx context.Context, pageID, accessToken string) error {
	_, err := c.postObject(ctx, "/"+pageID+"/subscribed_apps", url.Values{
		"subscribed_fields": {strings.Join(PageWebhookFields, ",")},
		"access_token":      {accessToken},
	})
	return err
}

// messenger send API payloads
type sendMessageRecipient struct {
	ID           string `json:"id,omitempty"`
	OneTimeToken string `json:"one_time_notif_token,omitempty"`
}

type sendMessageRequest struct {
	Recipient     sendMessageRecipient `json:"recipient"`
	Message       map[string]string    `json:"message"`
	MessagingType string               `json:"messaging_type"`
}

type sendMessageResponse struct {
	RecipientID string            `json:"recipient_id"`
	MessageID   string            `json:"message_id"`
	Error       *graphErrorDetail `json:"error,omitempty"`
}

func (c *httpGraphClient) SendTextMessage(ctx context.Context, in SendTextMessageInput) (string, error) {
	payload := sendMessageRequest{
		Message:       map[string]string{"text": in.Text},
		MessagingType: "RESPONSE",
	}
	if in.OTNToken != nil && *in.OTNToken != "" {
		payload.Recipient = sendMessageRecipient{OneTimeToken: *in.OTNToken}
		payload.MessagingType = "MESSAGE_TAG"
	} else {
		payload.Recipient = sendMessageRecipient{ID: in.RecipientID}
	}

	b, _ := json.Marshal(payload)
	endpoint := fmt.Sprintf("%s/%s/me/messages?access_token=%s", c.BaseURL, c.Version, url.QueryEscape(in.AccessToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out sendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Error != nil {
		return "", &GraphError{Message: out.Error.Message}
	}
	if out.MessageID == "" {
		return "", fmt.Errorf("graph api: empty message_id in send response")
	}
	return out.MessageID, nil
}

// postObject issues a form-encoded POST and decodes the `{id}` / `{success}`
// / `{error:{message}}` envelope. Error envelopes become a *GraphError.
func (c *httpGraphClient) postObject(ctx context.Context, path string, params url.Values) (*graphObjectResponse, error) {
	endpoint := c.BaseURL + "/" + c.Version + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out graphObjectResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("graph api: decoding response for %s: %w", path, err)
	}
	if out.Error != nil {
		return nil, &GraphError{Message: out.Error.Message}
	}
	return &out, nil
}

func parseGraphInt(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseGraphFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
