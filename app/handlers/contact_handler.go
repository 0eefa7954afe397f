package handlers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/pagereach/pagereach/app/dto"
	businessflow "github.com/pagereach/pagereach/business_flow"
)

// ContactHandlerInterface defines the contract for contact handlers
type ContactHandlerInterface interface {
	ListContacts(c fiber.Ctx) error
	GetContact(c fiber.Ctx) error
	UpdateContact(c fiber.Ctx) error
}

// ContactHandler handles contact-related HTTP requests
type ContactHandler struct {
	BaseHandler
	contactFlow businessflow.ContactFlow
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactFlow businessflow.ContactFlow) *ContactHandler {
	return &ContactHandler{
		BaseHandler: NewBaseHandler(),
		contactFlow: contactFlow,
	}
}

// parsePagination reads page/limit query parameters
func parsePagination(c fiber.Ctx) dto.PaginationRequest {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	return dto.PaginationRequest{Page: page, Limit: limit}
}

// ListContacts lists contacts of a page
func (h *ContactHandler) ListContacts(c fiber.Ctx) error {
	workspaceID, ok := h.workspaceID(c)
	if !ok {
		return h.unauthenticated(c)
	}

	req := dto.ListContactsRequest{
		WorkspaceID:       workspaceID,
		PageUUID:          c.Params("uuid"),
		PaginationRequest: parsePagination(c),
	}
	if tag := c.Query("tag"); tag != "" {
		req.Tag = &tag
	}

	result, err := h.contactFlow.ListContacts(h.createRequestContext(c, "/api/v1/pages/:uuid/contacts"), &req)
	if err != nil {
		if businessflow.IsPageNotFound(err) || businessflow.IsPageAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Page not found", "PAGE_NOT_FOUND", nil)
		}

		log.Println("Contact list failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list contacts", "CONTACT_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Contacts retrieved", result)
}

// GetContact returns a single contact
func (h *ContactHandler) GetContact(c fiber.Ctx) error {
	workspaceID, ok := h.workspaceID(c)
	if !ok {
		return h.unauthenticated(c)
	}

	result, err := h.contactFlow.GetContact(h.createRequestContext(c, "/api/v1/contacts/:uuid"), workspaceID, c.Params("uuid"))
	if err != nil {
		if businessflow.IsContactNotFound(err) || businessflow.IsPageAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Contact not found", "CONTACT_NOT_FOUND", nil)
		}

		log.Println("Contact get failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get contact", "CONTACT_GET_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Contact retrieved", result)
}

// UpdateContact updates contact tags and block status
func (h *ContactHandler) UpdateContact(c fiber.Ctx) error {
	workspaceID, ok := h.workspaceID(c)
	if !ok {
		return h.unauthenticated(c)
	}

	var req dto.UpdateContactRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.WorkspaceID = workspaceID
	req.UUID = c.Params("uuid")

	if handled, err := h.validateRequest(c, &req); handled {
		return err
	}

	result, err := h.contactFlow.UpdateContact(h.createRequestContext(c, "/api/v1/contacts/:uuid"), &req)
	if err != nil {
		if businessflow.IsContactNotFound(err) || businessflow.IsPageAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Contact not found", "CONTACT_NOT_FOUND", nil)
		}

		log.Println("Contact update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Contact update failed", "CONTACT_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Contact updated", result)
}
