package handlers

import (
	"log"

	"github.com/gofiber/fiber/v3"

	"github.com/pagereach/pagereach/app/dto"
	businessflow "github.com/pagereach/pagereach/business_flow"
)

// ConversationHandlerInterface defines the contract for conversation handlers
type ConversationHandlerInterface interface {
	ListConversations(c fiber.Ctx) error
	ListMessages(c fiber.Ctx) error
	SendMessage(c fiber.Ctx) error
	MarkRead(c fiber.Ctx) error
}

// ConversationHandler handles conversation-related HTTP requests
type ConversationHandler struct {
	BaseHandler
	conversationFlow businessflow.ConversationFlow
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(conversationFlow businessflow.ConversationFlow) *ConversationHandler {
	return &ConversationHandler{
		BaseHandler:      NewBaseHandler(),
		conversationFlow: conversationFlow,
	}
}

// ListConversations lists conversations of a page
func (h *ConversationHandler) ListConversations(c fiber.Ctx) error {
	workspaceID, ok := h.workspaceID(c)
	if !ok {
		return h.unauthenticated(c)
	}

	req := dto.ListConversationsRequest{
		WorkspaceID:       workspaceID,
		PageUUID:          c.Params("uuid"),
		UnreadOnly:        c.Query("unread_only") == "true",
		PaginationRequest: parsePagination(c),
	}

	result, err := h.conversationFlow.ListConversations(h.createRequestContext(c, "/api/v1/pages/:uuid/conversations"), &req)
	if err != nil {
		if businessflow.IsPageNotFound(err) || businessflow.IsPageAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Page not found", "PAGE_NOT_FOUND", nil)
		}

		log.Println("Conversation list failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list conversations", "CONVERSATION_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Conversations retrieved", result)
}

// ListMessages lists messages of a conversation
func (h *ConversationHandler) ListMessages(c fiber.Ctx) error {
	workspaceID, ok := h.workspaceID(c)
	if !ok {
		return h.unauthenticated(c)
	}

	req := dto.ListMessagesRequest{
		WorkspaceID:       workspaceID,
		ConversationUUID:  c.Params("uuid"),
		PaginationRequest: parsePagination(c),
	}

	result, err := h.conversationFlow.ListMessages(h.createRequestContext(c, "/api/v1/conversations/:uuid/messages"), &req)
	if err != nil {
		if businessflow.IsConversationNotFound(err) || businessflow.IsPageAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Conversation not found", "CONVERSATION_NOT_FOUND", nil)
		}

		log.Println("Message list failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list messages", "MESSAGE_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Messages retrieved", result)
}

// SendMessage sends a text message in a conversation
func (h *ConversationHandler) SendMessage(c fiber.Ctx) error {
	workspaceID, ok := h.workspaceID(c)
	if !ok {
		return h.unauthenticated(c)
	}

	var req dto.SendMessageRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.WorkspaceID = workspaceID
	req.ConversationUUID = c.Params("uuid")

	if handled, err := h.validateRequest(c, &req); handled {
		return err
	}

	result, err := h.conversationFlow.SendMessage(h.createRequestContext(c, "/api/v1/conversations/:uuid/messages"), &req, h.clientMetadata(c))
	if err != nil {
		if businessflow.IsConversationNotFound(err) || businessflow.IsPageAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Conversation not found", "CONVERSATION_NOT_FOUND", nil)
		}
		if businessflow.IsMessagingWindowClosed(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Messaging window has closed", "MESSAGING_WINDOW_CLOSED", nil)
		}
		if businessflow.IsContactBlocked(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Contact is blocked", "CONTACT_BLOCKED", nil)
		}

		log.Println("Message send failed", err)
		return h.ErrorResponse(c, fiber.StatusBadGateway, "Message send failed", "MESSAGE_SEND_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Message sent", result)
}

// MarkRead resets the conversation's unread counter
func (h *ConversationHandler) MarkRead(c fiber.Ctx) error {
	workspaceID, ok := h.workspaceID(c)
	if !ok {
		return h.unauthenticated(c)
	}

	if err := h.conversationFlow.MarkConversationRead(h.createRequestContext(c, "/api/v1/conversations/:uuid/read"), workspaceID, c.Params("uuid")); err != nil {
		if businessflow.IsConversationNotFound(err) || businessflow.IsPageAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Conversation not found", "CONVERSATION_NOT_FOUND", nil)
		}

		log.Println("Mark read failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to mark conversation read", "CONVERSATION_MARK_READ_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Conversation marked read", nil)
}
