package businessflow

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pagereach/pagereach/app/dto"
	"github.com/pagereach/pagereach/app/services"
	"github.com/pagereach/pagereach/models"
	"github.com/pagereach/pagereach/repository"
	"github.com/pagereach/pagereach/utils"
)

// InboundMessage is a single messenger message received over the webhook
type InboundMessage struct {
	PageExternalID string
	SenderPSID     string
	MessageID      string
	Text           string
	Timestamp      time.Time
}

// InboundReceipt is a delivery or read receipt received over the webhook
type InboundReceipt struct {
	PageExternalID string
	SenderPSID     string
	Watermark      time.Time
}

// InboundOptin is a one-time notification opt-in received over the webhook
type InboundOptin struct {
	PageExternalID string
	SenderPSID     string
	OTNToken       string
}

// ConversationFlow handles conversations, outbound messages, and webhook events
type ConversationFlow interface {
	ListConversations(ctx context.Context, request *dto.ListConversationsRequest) (*dto.ListConversationsResponse, error)
	ListMessages(ctx context.Context, request *dto.ListMessagesRequest) (*dto.ListMessagesResponse, error)
	SendMessage(ctx context.Context, request *dto.SendMessageRequest, metadata *ClientMetadata) (*dto.MessageResponse, error)
	MarkConversationRead(ctx context.Context, workspaceID uint, conversationUUID string) error

	HandleInboundMessage(ctx context.Context, event *InboundMessage) error
	HandleDeliveryReceipt(ctx context.Context, event *InboundReceipt) error
	HandleReadReceipt(ctx context.Context, event *InboundReceipt) error
	HandleOptin(ctx context.Context, event *InboundOptin) error
}

// ConversationFlowImpl implements the conversation business flow
type ConversationFlowImpl struct {
	conversationRepo repository.ConversationRepository
	messageRepo      repository.MessageRepository
	contactRepo      repository.ContactRepository
	pageRepo         repository.PageRepository
	auditRepo        repository.AuditLogRepository
	graphClient      services.GraphClient
	db               *gorm.DB
}

// NewConversationFlow creates a new conversation flow instance
func NewConversationFlow(
	conversationRepo repository.ConversationRepository,
	messageRepo repository.MessageRepository,
	contactRepo repository.ContactRepository,
	pageRepo repository.PageRepository,
	auditRepo repository.AuditLogRepository,
	graphClient services.GraphClient,
	db *gorm.DB,
) ConversationFlow {
	return &ConversationFlowImpl{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		contactRepo:      contactRepo,
		pageRepo:         pageRepo,
		auditRepo:        auditRepo,
		graphClient:      graphClient,
		db:               db,
	}
}

// ListConversations returns conversations of a page
func (cf *ConversationFlowImpl) ListConversations(ctx context.Context, request *dto.ListConversationsRequest) (*dto.ListConversationsResponse, error) {
	limit, offset, err := normalizePagination(request.PaginationRequest)
	if err != nil {
		return nil, NewBusinessError("CONVERSATION_LIST_FAILED", "Failed to list conversations", err)
	}

	page, err := cf.pageRepo.ByUUID(ctx, request.PageUUID)
	if err != nil {
		return nil, NewBusinessError("CONVERSATION_LIST_FAILED", "Failed to list conversations", err)
	}
	if page == nil {
		return nil, NewBusinessError("CONVERSATION_LIST_FAILED", "Failed to list conversations", ErrPageNotFound)
	}
	if page.WorkspaceID != request.WorkspaceID {
		return nil, NewBusinessError("CONVERSATION_LIST_FAILED", "Failed to list conversations", ErrPageAccessDenied)
	}

	filter := models.ConversationFilter{
		WorkspaceID: &request.WorkspaceID,
		PageID:      &page.ID,
	}
	if request.UnreadOnly {
		filter.HasUnread = utils.ToPtr(true)
	}

	conversations, err := cf.conversationRepo.ByFilter(ctx, filter, "last_inbound_at DESC NULLS LAST", limit, offset)
	if err != nil {
		return nil, NewBusinessError("CONVERSATION_LIST_FAILED", "Failed to list conversations", err)
	}

	total, err := cf.conversationRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("CONVERSATION_LIST_FAILED", "Failed to list conversations", err)
	}

	resp := &dto.ListConversationsResponse{Conversations: make([]dto.ConversationResponse, 0, len(conversations)), Total: total}
	for _, conversation := range conversations {
		resp.Conversations = append(resp.Conversations, ToConversationResponse(*conversation))
	}
	return resp, nil
}

// ListMessages returns messages of a conversation, newest first
func (cf *ConversationFlowImpl) ListMessages(ctx context.Context, request *dto.ListMessagesRequest) (*dto.ListMessagesResponse, error) {
	limit, offset, err := normalizePagination(request.PaginationRequest)
	if err != nil {
		return nil, NewBusinessError("MESSAGE_LIST_FAILED", "Failed to list messages", err)
	}

	conversation, err := cf.ownedConversation(ctx, request.WorkspaceID, request.ConversationUUID)
	if err != nil {
		return nil, NewBusinessError("MESSAGE_LIST_FAILED", "Failed to list messages", err)
	}

	messages, err := cf.messageRepo.ByConversationID(ctx, conversation.ID, limit, offset)
	if err != nil {
		return nil, NewBusinessError("MESSAGE_LIST_FAILED", "Failed to list messages", err)
	}

	total, err := cf.messageRepo.Count(ctx, models.MessageFilter{ConversationID: &conversation.ID})
	if err != nil {
		return nil, NewBusinessError("MESSAGE_LIST_FAILED", "Failed to list messages", err)
	}

	resp := &dto.ListMessagesResponse{Messages: make([]dto.MessageResponse, 0, len(messages)), Total: total}
	for _, message := range messages {
		resp.Messages = append(resp.Messages, ToMessageResponse(*message))
	}
	return resp, nil
}

// SendMessage sends a text message within the 24-hour window, or redeems the
// conversation's one-time notification token when the window has closed.
func (cf *ConversationFlowImpl) SendMessage(ctx context.Context, request *dto.SendMessageRequest, metadata *ClientMetadata) (*dto.MessageResponse, error) {
	conversation, err := cf.ownedConversation(ctx, request.WorkspaceID, request.ConversationUUID)
	if err != nil {
		return nil, NewBusinessError("MESSAGE_SEND_FAILED", "Message send failed", err)
	}

	contact, err := cf.contactRepo.ByID(ctx, conversation.ContactID)
	if err != nil {
		return nil, NewBusinessError("MESSAGE_SEND_FAILED", "Message send failed", err)
	}
	if contact == nil {
		return nil, NewBusinessError("MESSAGE_SEND_FAILED", "Message send failed", ErrContactNotFound)
	}
	if utils.IsTrue(contact.IsBlocked) {
		return nil, NewBusinessError("MESSAGE_SEND_FAILED", "Message send failed", ErrContactBlocked)
	}

	page, err := cf.pageRepo.ByID(ctx, conversation.PageID)
	if err != nil {
		return nil, NewBusinessError("MESSAGE_SEND_FAILED", "Message send failed", err)
	}
	if page == nil {
		return nil, NewBusinessError("MESSAGE_SEND_FAILED", "Message send failed", ErrPageNotFound)
	}

	input := services.SendTextMessageInput{
		AccessToken: page.AccessToken,
		RecipientID: contact.PSID,
		Text:        request.Text,
	}

	// outside the window the only legal path is redeeming an OTN token
	usedOTN := false
	if !conversation.WithinMessagingWindow() || request.UseOTN {
		if !conversation.HasOTNToken() {
			return nil, NewBusinessError("MESSAGE_SEND_FAILED", "Message send failed", ErrMessagingWindowClosed)
		}
		input.OTNToken = conversation.OTNToken
		usedOTN = true
	}

	externalID, err := cf.graphClient.SendTextMessage(ctx, input)
	if err != nil {
		errMsg := fmt.Sprintf("Message send failed in conversation %s: %s", conversation.UUID, err.Error())
		_ = cf.logMessageEvent(ctx, request.WorkspaceID, models.AuditActionMessageSendFailed, errMsg, false, &errMsg, metadata)
		return nil, NewBusinessError("MESSAGE_SEND_FAILED", "Message send failed", err)
	}

	now := utils.UTCNow()
	message := models.Message{
		ConversationID: conversation.ID,
		Direction:      models.MessageDirectionOutbound,
		Text:           request.Text,
		ExternalID:     &externalID,
		CreatedAt:      now,
	}

	err = repository.WithTransaction(ctx, cf.db, func(ctx context.Context) error {
		if err := cf.messageRepo.Save(ctx, &message); err != nil {
			return err
		}
		conversation.LastOutboundAt = &now
		if usedOTN {
			// a token can be redeemed exactly once
			conversation.OTNToken = nil
			if err := cf.conversationRepo.SetOTNToken(ctx, conversation.ID, nil); err != nil {
				return err
			}
		}
		return cf.conversationRepo.Update(ctx, *conversation)
	})
	if err != nil {
		return nil, NewBusinessError("MESSAGE_SEND_FAILED", "Message send failed", err)
	}

	msg := fmt.Sprintf("Message sent in conversation %s: %s", conversation.UUID, externalID)
	_ = cf.logMessageEvent(ctx, request.WorkspaceID, models.AuditActionMessageSent, msg, true, nil, metadata)

	resp := ToMessageResponse(message)
	return &resp, nil
}

// MarkConversationRead resets the unread counter
func (cf *ConversationFlowImpl) MarkConversationRead(ctx context.Context, workspaceID uint, conversationUUID string) error {
	conversation, err := cf.ownedConversation(ctx, workspaceID, conversationUUID)
	if err != nil {
		return NewBusinessError("CONVERSATION_MARK_READ_FAILED", "Failed to mark conversation read", err)
	}
	if err := cf.conversationRepo.ResetUnread(ctx, conversation.ID); err != nil {
		return NewBusinessError("CONVERSATION_MARK_READ_FAILED", "Failed to mark conversation read", err)
	}
	return nil
}

// HandleInboundMessage upserts contact and conversation for an inbound
// messenger message and reopens the messaging window
func (cf *ConversationFlowImpl) HandleInboundMessage(ctx context.Context, event *InboundMessage) error {
	// webhook deliveries are retried; a known message ID means a duplicate
	if event.MessageID != "" {
		existing, err := cf.messageRepo.ByExternalID(ctx, event.MessageID)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}
	}

	return repository.WithTransaction(ctx, cf.db, func(ctx context.Context) error {
		page, _, conversation, err := cf.resolveConversation(ctx, event.PageExternalID, event.SenderPSID, true)
		if err != nil {
			return err
		}
		if page == nil {
			// event for a page we no longer track
			return nil
		}

		receivedAt := event.Timestamp
		if receivedAt.IsZero() {
			receivedAt = utils.UTCNow()
		}

		message := models.Message{
			ConversationID: conversation.ID,
			Direction:      models.MessageDirectionInbound,
			Text:           event.Text,
			CreatedAt:      receivedAt,
		}
		if event.MessageID != "" {
			message.ExternalID = &event.MessageID
		}
		if err := cf.messageRepo.Save(ctx, &message); err != nil {
			return err
		}

		conversation.LastInboundAt = &receivedAt
		if err := cf.conversationRepo.Update(ctx, *conversation); err != nil {
			return err
		}
		return cf.conversationRepo.IncrementUnread(ctx, conversation.ID)
	})
}

// HandleDeliveryReceipt marks outbound messages up to the watermark as delivered
func (cf *ConversationFlowImpl) HandleDeliveryReceipt(ctx context.Context, event *InboundReceipt) error {
	_, _, conversation, err := cf.resolveConversation(ctx, event.PageExternalID, event.SenderPSID, false)
	if err != nil || conversation == nil {
		return err
	}
	return cf.messageRepo.MarkDeliveredUpTo(ctx, conversation.ID, event.Watermark)
}

// HandleReadReceipt marks outbound messages up to the watermark as read
func (cf *ConversationFlowImpl) HandleReadReceipt(ctx context.Context, event *InboundReceipt) error {
	_, _, conversation, err := cf.resolveConversation(ctx, event.PageExternalID, event.SenderPSID, false)
	if err != nil || conversation == nil {
		return err
	}
	return cf.messageRepo.MarkReadUpTo(ctx, conversation.ID, event.Watermark)
}

// HandleOptin stores a one-time notification token on the conversation
func (cf *ConversationFlowImpl) HandleOptin(ctx context.Context, event *InboundOptin) error {
	if event.OTNToken == "" {
		return nil
	}
	return repository.WithTransaction(ctx, cf.db, func(ctx context.Context) error {
		_, _, conversation, err := cf.resolveConversation(ctx, event.PageExternalID, event.SenderPSID, true)
		if err != nil || conversation == nil {
			return err
		}
		return cf.conversationRepo.SetOTNToken(ctx, conversation.ID, &event.OTNToken)
	})
}

// resolveConversation finds the page, contact, and conversation for a webhook
// event. With create set, missing contact and conversation rows are created;
// otherwise nils are returned for unknown participants.
func (cf *ConversationFlowImpl) resolveConversation(ctx context.Context, pageExternalID, psid string, create bool) (*models.Page, *models.Contact, *models.Conversation, error) {
	page, err := cf.pageRepo.ByExternalID(ctx, pageExternalID)
	if err != nil || page == nil {
		return nil, nil, nil, err
	}

	contact, err := cf.contactRepo.ByPageAndPSID(ctx, page.ID, psid)
	if err != nil {
		return nil, nil, nil, err
	}
	if contact == nil {
		if !create {
			return page, nil, nil, nil
		}
		contact = &models.Contact{
			WorkspaceID: page.WorkspaceID,
			PageID:      page.ID,
			PSID:        psid,
			CreatedAt:   utils.UTCNow(),
		}
		if err := cf.contactRepo.Save(ctx, contact); err != nil {
			return nil, nil, nil, err
		}
	}

	conversation, err := cf.conversationRepo.ByPageAndContact(ctx, page.ID, contact.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	if conversation == nil {
		if !create {
			return page, contact, nil, nil
		}
		conversation = &models.Conversation{
			WorkspaceID: page.WorkspaceID,
			PageID:      page.ID,
			ContactID:   contact.ID,
			CreatedAt:   utils.UTCNow(),
		}
		if err := cf.conversationRepo.Save(ctx, conversation); err != nil {
			return nil, nil, nil, err
		}
	}

	return page, contact, conversation, nil
}

// ownedConversation loads a conversation and enforces workspace ownership
func (cf *ConversationFlowImpl) ownedConversation(ctx context.Context, workspaceID uint, conversationUUID string) (*models.Conversation, error) {
	conversation, err := cf.conversationRepo.ByUUID(ctx, conversationUUID)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}
	if conversation.WorkspaceID != workspaceID {
		return nil, ErrPageAccessDenied
	}
	return conversation, nil
}

func (cf *ConversationFlowImpl) logMessageEvent(ctx context.Context, workspaceID uint, action, description string, success bool, errMsg *string, metadata *ClientMetadata) error {
	return cf.auditRepo.Save(ctx, auditEntry(&workspaceID, action, description, success, errMsg, metadata))
}
