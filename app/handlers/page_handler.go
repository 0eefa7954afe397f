package handlers

import (
	"log"

	"github.com/gofiber/fiber/v3"

	"github.com/pagereach/pagereach/app/dto"
	businessflow "github.com/pagereach/pagereach/business_flow"
)

// PageHandlerInterface defines the contract for page handlers
type PageHandlerInterface interface {
	ConnectPage(c fiber.Ctx) error
	ListPages(c fiber.Ctx) error
	GetPage(c fiber.Ctx) error
	UpdatePage(c fiber.Ctx) error
	ResubscribePage(c fiber.Ctx) error
}

// PageHandler handles page-related HTTP requests
type PageHandler struct {
	BaseHandler
	pageFlow businessflow.PageFlow
}

// NewPageHandler creates a new page handler
func NewPageHandler(pageFlow businessflow.PageFlow) *PageHandler {
	return &PageHandler{
		BaseHandler: NewBaseHandler(),
		pageFlow:    pageFlow,
	}
}

// ConnectPage connects a Facebook page to the workspace
func (h *PageHandler) ConnectPage(c fiber.Ctx) error {
	workspaceID, ok := h.workspaceID(c)
	if !ok {
		return h.unauthenticated(c)
	}

	var req dto.ConnectPageRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.WorkspaceID = workspaceID

	if handled, err := h.validateRequest(c, &req); handled {
		return err
	}

	result, err := h.pageFlow.ConnectPage(h.createRequestContext(c, "/api/v1/pages"), &req, h.clientMetadata(c))
	if err != nil {
		if businessflow.IsPageAlreadyConnected(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Page already connected", "PAGE_ALREADY_CONNECTED", nil)
		}

		log.Println("Page connect failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Page connect failed", "PAGE_CONNECT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Page connected", result)
}

// ListPages lists the workspace's connected pages
func (h *PageHandler) ListPages(c fiber.Ctx) error {
	workspaceID, ok := h.workspaceID(c)
	if !ok {
		return h.unauthenticated(c)
	}

	result, err := h.pageFlow.ListPages(h.createRequestContext(c, "/api/v1/pages"), workspaceID)
	if err != nil {
		log.Println("Page list failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list pages", "PAGE_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Pages retrieved", result)
}

// GetPage returns a single connected page
func (h *PageHandler) GetPage(c fiber.Ctx) error {
	workspaceID, ok := h.workspaceID(c)
	if !ok {
		return h.unauthenticated(c)
	}

	result, err := h.pageFlow.GetPage(h.createRequestContext(c, "/api/v1/pages/:uuid"), workspaceID, c.Params("uuid"))
	if err != nil {
		if businessflow.IsPageNotFound(err) || businessflow.IsPageAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Page not found", "PAGE_NOT_FOUND", nil)
		}

		log.Println("Page get failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get page", "PAGE_GET_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Page retrieved", result)
}

// UpdatePage updates page settings
func (h *PageHandler) UpdatePage(c fiber.Ctx) error {
	workspaceID, ok := h.workspaceID(c)
	if !ok {
		return h.unauthenticated(c)
	}

	var req dto.UpdatePageRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.WorkspaceID = workspaceID
	req.UUID = c.Params("uuid")

	if handled, err := h.validateRequest(c, &req); handled {
		return err
	}

	result, err := h.pageFlow.UpdatePage(h.createRequestContext(c, "/api/v1/pages/:uuid"), &req, h.clientMetadata(c))
	if err != nil {
		if businessflow.IsPageNotFound(err) || businessflow.IsPageAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Page not found", "PAGE_NOT_FOUND", nil)
		}

		log.Println("Page update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Page update failed", "PAGE_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Page updated", result)
}

// ResubscribePage retries the webhook subscription
func (h *PageHandler) ResubscribePage(c fiber.Ctx) error {
	workspaceID, ok := h.workspaceID(c)
	if !ok {
		return h.unauthenticated(c)
	}

	result, err := h.pageFlow.ResubscribePage(h.createRequestContext(c, "/api/v1/pages/:uuid/subscribe"), workspaceID, c.Params("uuid"), h.clientMetadata(c))
	if err != nil {
		if businessflow.IsPageNotFound(err) || businessflow.IsPageAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Page not found", "PAGE_NOT_FOUND", nil)
		}

		log.Println("Page resubscribe failed", err)
		return h.ErrorResponse(c, fiber.StatusBadGateway, "Page subscription failed", "PAGE_SUBSCRIBE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Page subscribed", result)
}
