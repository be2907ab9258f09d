package models

import (
	"context"
	"errors"
	"time"

	"github.com/partsdesk/autoparts_backend/config"
	"github.com/partsdesk/autoparts_backend/utils"
)

// Client is a CRM record. The order subsystem only reads it.
type Client struct {
	ID            int       `gorm:"primary_key" json:"id"`
	Name          string    `gorm:"size:255;not null;index" json:"name" binding:"required"`
	ClientType    string    `gorm:"size:50;index" json:"client_type"`
	LeadStatus    string    `gorm:"size:50;index" json:"lead_status"`
	LeadOrigin    string    `gorm:"size:50" json:"lead_origin"`
	ContactPerson string    `gorm:"size:255" json:"contact_person"`
	Email         string    `gorm:"size:255;index" json:"email"`
	Phone         string    `gorm:"size:50;index" json:"phone"`
	Document      string    `gorm:"size:20;index" json:"document"`
	Address       string    `gorm:"type:text" json:"address"`
	Notes         string    `gorm:"type:text" json:"notes"`
	CompanyId     int       `gorm:"index;not null" json:"company_id"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewClient struct {
	Name          string `json:"name" binding:"required"`
	ClientType    string `json:"client_type"`
	LeadStatus    string `json:"lead_status"`
	LeadOrigin    string `json:"lead_origin"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Document      string `json:"document"`
	Address       string `json:"address"`
	Notes         string `json:"notes"`
}

type UpdateClientInput struct {
	Name          *string `json:"name"`
	ClientType    *string `json:"client_type"`
	LeadStatus    *string `json:"lead_status"`
	LeadOrigin    *string `json:"lead_origin"`
	ContactPerson *string `json:"contact_person"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Document      *string `json:"document"`
	Address       *string `json:"address"`
	Notes         *string `json:"notes"`
}

func (input NewClient) validate() error {
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return utils.NewValidationError("invalid email %q", input.Email)
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return utils.NewValidationError("invalid phone number %q", input.Phone)
		}
	}
	return nil
}

func CreateClient(ctx context.Context, input *NewClient) (*Client, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId <= 0 {
		return nil, errors.New("company id is required")
	}

	if err := input.validate(); err != nil {
		return nil, err
	}
	if input.Document != "" {
		count, err := utils.ResourceCountWhere[Client](ctx, companyId, "document = ?", input.Document)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, utils.NewValidationError("a client with document %q already exists", input.Document)
		}
	}

	client := Client{
		Name:          input.Name,
		ClientType:    input.ClientType,
		LeadStatus:    input.LeadStatus,
		LeadOrigin:    input.LeadOrigin,
		ContactPerson: input.ContactPerson,
		Email:         input.Email,
		Phone:         input.Phone,
		Document:      input.Document,
		Address:       input.Address,
		Notes:         input.Notes,
		CompanyId:     companyId,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func UpdateClient(ctx context.Context, id int, input *UpdateClientInput) (*Client, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId <= 0 {
		return nil, errors.New("company id is required")
	}

	client, err := utils.FetchModel[Client](ctx, companyId, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != "" && !utils.IsValidEmail(*input.Email) {
		return nil, utils.NewValidationError("invalid email %q", *input.Email)
	}
	if input.Phone != nil && *input.Phone != "" {
		if err := utils.ValidatePhoneNumber(*input.Phone, utils.CountryCode); err != nil {
			return nil, utils.NewValidationError("invalid phone number %q", *input.Phone)
		}
	}

	if input.Name != nil {
		client.Name = *input.Name
	}
	if input.ClientType != nil {
		client.ClientType = *input.ClientType
	}
	if input.LeadStatus != nil {
		client.LeadStatus = *input.LeadStatus
	}
	if input.LeadOrigin != nil {
		client.LeadOrigin = *input.LeadOrigin
	}
	if input.ContactPerson != nil {
		client.ContactPerson = *input.ContactPerson
	}
	if input.Email != nil {
		client.Email = *input.Email
	}
	if input.Phone != nil {
		client.Phone = *input.Phone
	}
	if input.Document != nil {
		client.Document = *input.Document
	}
	if input.Address != nil {
		client.Address = *input.Address
	}
	if input.Notes != nil {
		client.Notes = *input.Notes
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(client).Error; err != nil {
		return nil, err
	}
	return client, nil
}

func GetClient(ctx context.Context, id int) (*Client, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId <= 0 {
		return nil, errors.New("company id is required")
	}
	return utils.FetchModel[Client](ctx, companyId, id)
}

func GetClients(ctx context.Context, search *string, offset int, limit int) ([]*Client, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId <= 0 {
		return nil, errors.New("company id is required")
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("company_id = ?", companyId)
	if search != nil && len(*search) > 0 {
		like := "%" + *search + "%"
		dbCtx = dbCtx.Where("name LIKE ? OR document LIKE ? OR phone LIKE ?", like, like, like)
	}

	var results []*Client
	err := dbCtx.Order("created_at DESC").Offset(offset).Limit(limit).Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func DeleteClient(ctx context.Context, id int) (*Client, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId <= 0 {
		return nil, errors.New("company id is required")
	}

	client, err := utils.FetchModel[Client](ctx, companyId, id)
	if err != nil {
		return nil, err
	}

	// Clients referenced by orders must be kept; orders point at them.
	count, err := utils.ResourceCountWhere[Order](ctx, companyId, "client_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.NewValidationError("client has %d orders and cannot be deleted", count)
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(client).Error; err != nil {
		return nil, err
	}
	return client, nil
}
