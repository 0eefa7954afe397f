package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagereach/pagereach/app/dto"
	businessflow "github.com/pagereach/pagereach/business_flow"
)

// recordingConversationFlow captures webhook events dispatched by the handler
type recordingConversationFlow struct {
	messages   []*businessflow.InboundMessage
	deliveries []*businessflow.InboundReceipt
	reads      []*businessflow.InboundReceipt
	optins     []*businessflow.InboundOptin
}

func (f *recordingConversationFlow) ListConversations(ctx context.Context, request *dto.ListConversationsRequest) (*dto.ListConversationsResponse, error) {
	return nil, nil
}

func (f *recordingConversationFlow) ListMessages(ctx context.Context, request *dto.ListMessagesRequest) (*dto.ListMessagesResponse, error) {
	return nil, nil
}

func (f *recordingConversationFlow) SendMessage(ctx context.Context, request *dto.SendMessageRequest, metadata *businessflow.ClientMetadata) (*dto.MessageResponse, error) {
	return nil, nil
}

func (f *recordingConversationFlow) MarkConversationRead(ctx context.Context, workspaceID uint, conversationUUID string) error {
	return nil
}

func (f *recordingConversationFlow) HandleInboundMessage(ctx context.Context, event *businessflow.InboundMessage) error {
	f.messages = append(f.messages, event)
	return nil
}

func (f *recordingConversationFlow) HandleDeliveryReceipt(ctx context.Context, event *businessflow.InboundReceipt) error {
	f.deliveries = append(f.deliveries, event)
	return nil
}

func (f *recordingConversationFlow) HandleReadReceipt(ctx context.Context, event *businessflow.InboundReceipt) error {
	f.reads = append(f.reads, event)
	return nil
}

func (f *recordingConversationFlow) HandleOptin(ctx context.Context, event *businessflow.InboundOptin) error {
	f.optins = append(f.optins, event)
	return nil
}

func newWebhookTestApp(flow businessflow.ConversationFlow) *fiber.App {
	handler := NewWebhookHandler(flow, "secret-verify-token")
	app := fiber.New()
	app.Get("/webhooks/facebook", handler.VerifyWebhook)
	app.Post("/webhooks/facebook", handler.ReceiveWebhook)
	return app
}

func TestVerifyWebhook_EchoesChallenge(t *testing.T) {
	app := newWebhookTestApp(&recordingConversationFlow{})

	req := httptest.NewRequest("GET", "/webhooks/facebook?hub.mode=subscribe&hub.verify_token=secret-verify-token&hub.challenge=challenge-42", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "challenge-42", string(body))
}

func TestVerifyWebhook_RejectsWrongToken(t *testing.T) {
	app := newWebhookTestApp(&recordingConversationFlow{})

	req := httptest.NewRequest("GET", "/webhooks/facebook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=challenge-42", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestReceiveWebhook_DispatchesMessageEvent(t *testing.T) {
	flow := &recordingConversationFlow{}
	app := newWebhookTestApp(flow)

	payload := `{
		"object": "page",
		"entry": [{
			"id": "page-123",
			"time": 1700000000000,
			"messaging": [{
				"sender": {"id": "psid-1"},
				"recipient": {"id": "page-123"},
				"timestamp": 1700000000000,
				"message": {"mid": "mid.abc", "text": "hello there"}
			}]
		}]
	}`

	req := httptest.NewRequest("POST", "/webhooks/facebook", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "EVENT_RECEIVED", string(body))

	require.Len(t, flow.messages, 1)
	event := flow.messages[0]
	assert.Equal(t, "page-123", event.PageExternalID)
	assert.Equal(t, "psid-1", event.SenderPSID)
	assert.Equal(t, "mid.abc", event.MessageID)
	assert.Equal(t, "hello there", event.Text)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), event.Timestamp)
}

func TestReceiveWebhook_SkipsEchoMessages(t *testing.T) {
	flow := &recordingConversationFlow{}
	app := newWebhookTestApp(flow)

	payload := `{
		"object": "page",
		"entry": [{
			"id": "page-123",
			"messaging": [{
				"sender": {"id": "page-123"},
				"message": {"mid": "mid.echo", "text": "sent by the page", "is_echo": true}
			}]
		}]
	}`

	req := httptest.NewRequest("POST", "/webhooks/facebook", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, flow.messages)
}

func TestReceiveWebhook_DispatchesReceiptsAndOptin(t *testing.T) {
	flow := &recordingConversationFlow{}
	app := newWebhookTestApp(flow)

	payload := `{
		"object": "page",
		"entry": [{
			"id": "page-123",
			"messaging": [
				{"sender": {"id": "psid-1"}, "delivery": {"watermark": 1700000100000}},
				{"sender": {"id": "psid-1"}, "read": {"watermark": 1700000200000}},
				{"sender": {"id": "psid-1"}, "optin": {"type": "one_time_notif_req", "one_time_notif_token": "otn-xyz"}}
			]
		}]
	}`

	req := httptest.NewRequest("POST", "/webhooks/facebook", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Len(t, flow.deliveries, 1)
	assert.Equal(t, time.UnixMilli(1700000100000).UTC(), flow.deliveries[0].Watermark)

	require.Len(t, flow.reads, 1)
	assert.Equal(t, time.UnixMilli(1700000200000).UTC(), flow.reads[0].Watermark)

	require.Len(t, flow.optins, 1)
	assert.Equal(t, "otn-xyz", flow.optins[0].OTNToken)
	assert.Equal(t, "psid-1", flow.optins[0].SenderPSID)
}

func TestReceiveWebhook_RecordsPostbackAsInboundMessage(t *testing.T) {
	flow := &recordingConversationFlow{}
	app := newWebhookTestApp(flow)

	payload := `{
		"object": "page",
		"entry": [{
			"id": "page-123",
			"messaging": [{
				"sender": {"id": "psid-1"},
				"timestamp": 1700000300000,
				"postback": {"title": "Get Started", "payload": "GET_STARTED"}
			}]
		}]
	}`

	req := httptest.NewRequest("POST", "/webhooks/facebook", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, flow.messages, 1)
	assert.Equal(t, "Get Started", flow.messages[0].Text)
	assert.Empty(t, flow.messages[0].MessageID)
}

func TestReceiveWebhook_IgnoresNonPageObjects(t *testing.T) {
	flow := &recordingConversationFlow{}
	app := newWebhookTestApp(flow)

	req := httptest.NewRequest("POST", "/webhooks/facebook", strings.NewReader(`{"object":"user","entry":[]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, flow.messages)
}
