package handlers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"

	businessflow "github.com/pagereach/pagereach/business_flow"
)

// WebhookHandlerInterface defines the contract for the messenger webhook endpoint
type WebhookHandlerInterface interface {
	VerifyWebhook(c fiber.Ctx) error
	ReceiveWebhook(c fiber.Ctx) error
}

// WebhookHandler receives messenger platform webhook callbacks
type WebhookHandler struct {
	BaseHandler
	conversationFlow businessflow.ConversationFlow
	verifyToken      string
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(conversationFlow businessflow.ConversationFlow, verifyToken string) *WebhookHandler {
	return &WebhookHandler{
		BaseHandler:      NewBaseHandler(),
		conversationFlow: conversationFlow,
		verifyToken:      verifyToken,
	}
}

// webhookPayload mirrors the messenger platform callback envelope
type webhookPayload struct {
	Object string         `json:"object"`
	Entry  []webhookEntry `json:"entry"`
}

type webhookEntry struct {
	ID        string           `json:"id"`
	Time      int64            `json:"time"`
	Messaging []messagingEvent `json:"messaging"`
}

type messagingEvent struct {
	Sender    webhookParticipant `json:"sender"`
	Recipient webhookParticipant `json:"recipient"`
	Timestamp int64              `json:"timestamp"`
	Message   *webhookMessage    `json:"message"`
	Delivery  *webhookReceipt    `json:"delivery"`
	Read      *webhookReceipt    `json:"read"`
	Optin     *webhookOptin      `json:"optin"`
	Postback  *webhookPostback   `json:"postback"`
	Referral  *webhookReferral   `json:"referral"`
}

type webhookParticipant struct {
	ID string `json:"id"`
}

type webhookMessage struct {
	MID     string `json:"mid"`
	Text    string `json:"text"`
	IsEcho  bool   `json:"is_echo"`
	Deleted bool   `json:"is_deleted"`
}

type webhookReceipt struct {
	Watermark int64 `json:"watermark"`
}

type webhookOptin struct {
	Type     string `json:"type"`
	OTNToken string `json:"one_time_notif_token"`
	Payload  string `json:"payload"`
}

type webhookPostback struct {
	Title   string `json:"title"`
	Payload string `json:"payload"`
}

type webhookReferral struct {
	Ref    string `json:"ref"`
	Source string `json:"source"`
	Type   string `json:"type"`
}

// VerifyWebhook answers the platform's subscription challenge
func (h *WebhookHandler) VerifyWebhook(c fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		return c.Status(fiber.StatusOK).SendString(challenge)
	}
	return c.SendStatus(fiber.StatusForbidden)
}

// ReceiveWebhook dispatches messenger events to the conversation flow.
// The platform retries on non-200, so processing errors are logged and
// acknowledged rather than surfaced.
func (h *WebhookHandler) ReceiveWebhook(c fiber.Ctx) error {
	var payload webhookPayload
	if err := c.Bind().JSON(&payload); err != nil {
		log.Println("Webhook payload parse failed", err)
		return c.Status(fiber.StatusOK).SendString("EVENT_RECEIVED")
	}

	if payload.Object != "page" {
		return c.Status(fiber.StatusOK).SendString("EVENT_RECEIVED")
	}

	ctx := h.createRequestContext(c, "/webhooks/facebook")
	for _, entry := range payload.Entry {
		for _, event := range entry.Messaging {
			h.dispatchEvent(ctx, entry.ID, &event)
		}
	}

	return c.Status(fiber.StatusOK).SendString("EVENT_RECEIVED")
}

func (h *WebhookHandler) dispatchEvent(ctx context.Context, pageExternalID string, event *messagingEvent) {
	switch {
	case event.Message != nil:
		if event.Message.IsEcho || event.Message.Deleted {
			return
		}
		err := h.conversationFlow.HandleInboundMessage(ctx, &businessflow.InboundMessage{
			PageExternalID: pageExternalID,
			SenderPSID:     event.Sender.ID,
			MessageID:      event.Message.MID,
			Text:           event.Message.Text,
			Timestamp:      time.UnixMilli(event.Timestamp).UTC(),
		})
		if err != nil {
			log.Println("Webhook inbound message failed", err)
		}

	case event.Delivery != nil:
		err := h.conversationFlow.HandleDeliveryReceipt(ctx, &businessflow.InboundReceipt{
			PageExternalID: pageExternalID,
			SenderPSID:     event.Sender.ID,
			Watermark:      time.UnixMilli(event.Delivery.Watermark).UTC(),
		})
		if err != nil {
			log.Println("Webhook delivery receipt failed", err)
		}

	case event.Read != nil:
		err := h.conversationFlow.HandleReadReceipt(ctx, &businessflow.InboundReceipt{
			PageExternalID: pageExternalID,
			SenderPSID:     event.Sender.ID,
			Watermark:      time.UnixMilli(event.Read.Watermark).UTC(),
		})
		if err != nil {
			log.Println("Webhook read receipt failed", err)
		}

	case event.Postback != nil:
		// postbacks count as inbound contact activity; recorded as a
		// message carrying the pressed button's title
		err := h.conversationFlow.HandleInboundMessage(ctx, &businessflow.InboundMessage{
			PageExternalID: pageExternalID,
			SenderPSID:     event.Sender.ID,
			Text:           event.Postback.Title,
			Timestamp:      time.UnixMilli(event.Timestamp).UTC(),
		})
		if err != nil {
			log.Println("Webhook postback failed", err)
		}

	case event.Referral != nil:
		log.Printf("Webhook referral from %s: ref=%q source=%s", event.Sender.ID, event.Referral.Ref, event.Referral.Source)

	case event.Optin != nil && event.Optin.OTNToken != "":
		err := h.conversationFlow.HandleOptin(ctx, &businessflow.InboundOptin{
			PageExternalID: pageExternalID,
			SenderPSID:     event.Sender.ID,
			OTNToken:       event.Optin.OTNToken,
		})
		if err != nil {
			log.Println("Webhook optin failed", err)
		}
	}
}
