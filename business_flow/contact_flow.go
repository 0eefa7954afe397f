package businessflow

import (
	"context"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/pagereach/pagereach/app/dto"
	"github.com/pagereach/pagereach/models"
	"github.com/pagereach/pagereach/repository"
)

// ContactFlow handles messenger contact management
type ContactFlow interface {
	ListContacts(ctx context.Context, request *dto.ListContactsRequest) (*dto.ListContactsResponse, error)
	GetContact(ctx context.Context, workspaceID uint, contactUUID string) (*dto.ContactResponse, error)
	UpdateContact(ctx context.Context, request *dto.UpdateContactRequest) (*dto.ContactResponse, error)
}

// ContactFlowImpl implements the contact business flow
type ContactFlowImpl struct {
	contactRepo repository.ContactRepository
	pageRepo    repository.PageRepository
	db          *gorm.DB
}

// NewContactFlow creates a new contact flow instance
func NewContactFlow(
	contactRepo repository.ContactRepository,
	pageRepo repository.PageRepository,
	db *gorm.DB,
) ContactFlow {
	return &ContactFlowImpl{
		contactRepo: contactRepo,
		pageRepo:    pageRepo,
		db:          db,
	}
}

// ListContacts returns contacts of a page, optionally filtered by tag
func (cf *ContactFlowImpl) ListContacts(ctx context.Context, request *dto.ListContactsRequest) (*dto.ListContactsResponse, error) {
	limit, offset, err := normalizePagination(request.PaginationRequest)
	if err != nil {
		return nil, NewBusinessError("CONTACT_LIST_FAILED", "Failed to list contacts", err)
	}

	page, err := cf.pageRepo.ByUUID(ctx, request.PageUUID)
	if err != nil {
		return nil, NewBusinessError("CONTACT_LIST_FAILED", "Failed to list contacts", err)
	}
	if page == nil {
		return nil, NewBusinessError("CONTACT_LIST_FAILED", "Failed to list contacts", ErrPageNotFound)
	}
	if page.WorkspaceID != request.WorkspaceID {
		return nil, NewBusinessError("CONTACT_LIST_FAILED", "Failed to list contacts", ErrPageAccessDenied)
	}

	filter := models.ContactFilter{
		WorkspaceID: &request.WorkspaceID,
		PageID:      &page.ID,
		Tag:         request.Tag,
	}

	contacts, err := cf.contactRepo.ByFilter(ctx, filter, "created_at DESC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("CONTACT_LIST_FAILED", "Failed to list contacts", err)
	}

	total, err := cf.contactRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("CONTACT_LIST_FAILED", "Failed to list contacts", err)
	}

	resp := &dto.ListContactsResponse{Contacts: make([]dto.ContactResponse, 0, len(contacts)), Total: total}
	for _, contact := range contacts {
		resp.Contacts = append(resp.Contacts, ToContactResponse(*contact))
	}
	return resp, nil
}

// GetContact returns one contact owned by the workspace
func (cf *ContactFlowImpl) GetContact(ctx context.Context, workspaceID uint, contactUUID string) (*dto.ContactResponse, error) {
	contact, err := cf.ownedContact(ctx, workspaceID, contactUUID)
	if err != nil {
		return nil, NewBusinessError("CONTACT_GET_FAILED", "Failed to get contact", err)
	}

	resp := ToContactResponse(*contact)
	return &resp, nil
}

// UpdateContact updates contact tags and block status
func (cf *ContactFlowImpl) UpdateContact(ctx context.Context, request *dto.UpdateContactRequest) (*dto.ContactResponse, error) {
	var contact *models.Contact

	err := repository.WithTransaction(ctx, cf.db, func(ctx context.Context) error {
		var err error
		contact, err = cf.ownedContact(ctx, request.WorkspaceID, request.UUID)
		if err != nil {
			return err
		}

		if request.Tags != nil {
			contact.Tags = pq.StringArray(request.Tags)
		}
		if request.IsBlocked != nil {
			contact.IsBlocked = request.IsBlocked
		}
		return cf.contactRepo.Update(ctx, *contact)
	})
	if err != nil {
		return nil, NewBusinessError("CONTACT_UPDATE_FAILED", "Contact update failed", err)
	}

	resp := ToContactResponse(*contact)
	return &resp, nil
}

// ownedContact loads a contact and enforces workspace ownership
func (cf *ContactFlowImpl) ownedContact(ctx context.Context, workspaceID uint, contactUUID string) (*models.Contact, error) {
	contact, err := cf.contactRepo.ByUUID(ctx, contactUUID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, ErrContactNotFound
	}
	if contact.WorkspaceID != workspaceID {
		return nil, ErrPageAccessDenied
	}
	return contact, nil
}
