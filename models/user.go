package models

import (
	"context"
	"errors"
	"time"

	"github.com/partsdesk/autoparts_backend/config"
	"github.com/partsdesk/autoparts_backend/utils"
	"github.com/shopspring/decimal"
)

type User struct {
	ID             int              `gorm:"primary_key" json:"id"`
	FullName       string           `gorm:"size:255;index" json:"full_name"`
	Email          string           `gorm:"size:255;uniqueIndex;not null" json:"email" binding:"required"`
	HashedPassword string           `gorm:"size:255;not null" json:"-"`
	Role           UserRole         `gorm:"type:enum('gestor','vendedor','anuncios');not null" json:"role" binding:"required"`
	IsActive       *bool            `gorm:"not null;default:true" json:"is_active"`
	CompanyId      int              `gorm:"index;not null" json:"company_id" binding:"required"`
	SalesGoal      *decimal.Decimal `gorm:"type:decimal(10,2)" json:"sales_goal"`
	AdsGoal        *int             `json:"ads_goal"`
	DiscountLimit  *decimal.Decimal `gorm:"type:decimal(5,2)" json:"discount_limit"`
	CreatedAt      time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	FullName      string           `json:"full_name" binding:"required"`
	Email         string           `json:"email" binding:"required,email"`
	Password      string           `json:"password" binding:"required,min=8"`
	Role          string           `json:"role" binding:"required"`
	SalesGoal     *decimal.Decimal `json:"sales_goal"`
	AdsGoal       *int             `json:"ads_goal"`
	DiscountLimit *decimal.Decimal `json:"discount_limit"`
}

// UpdateUserInput lists only the fields that are legal to change; no
// reflective field copying.
type UpdateUserInput struct {
	FullName      *string          `json:"full_name"`
	Password      *string          `json:"password"`
	Role          *string          `json:"role"`
	IsActive      *bool            `json:"is_active"`
	SalesGoal     *decimal.Decimal `json:"sales_goal"`
	AdsGoal       *int             `json:"ads_goal"`
	DiscountLimit *decimal.Decimal `json:"discount_limit"`
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId <= 0 {
		return nil, errors.New("company id is required")
	}

	role, err := ParseUserRole(input.Role)
	if err != nil {
		return nil, utils.NewValidationError("invalid role %q", input.Role)
	}
	if !utils.IsValidEmail(input.Email) {
		return nil, utils.NewValidationError("invalid email %q", input.Email)
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		FullName:       input.FullName,
		Email:          input.Email,
		HashedPassword: string(hashed),
		Role:           role,
		IsActive:       utils.NewTrue(),
		CompanyId:      companyId,
		SalesGoal:      input.SalesGoal,
		AdsGoal:        input.AdsGoal,
		DiscountLimit:  input.DiscountLimit,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func UpdateUser(ctx context.Context, id int, input *UpdateUserInput) (*User, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId <= 0 {
		return nil, errors.New("company id is required")
	}

	user, err := utils.FetchModel[User](ctx, companyId, id)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Password != nil {
		hashed, err := utils.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.HashedPassword = string(hashed)
	}
	if input.Role != nil {
		role, err := ParseUserRole(*input.Role)
		if err != nil {
			return nil, utils.NewValidationError("invalid role %q", *input.Role)
		}
		user.Role = role
	}
	if input.IsActive != nil {
		user.IsActive = input.IsActive
	}
	if input.SalesGoal != nil {
		user.SalesGoal = input.SalesGoal
	}
	if input.AdsGoal != nil {
		user.AdsGoal = input.AdsGoal
	}
	if input.DiscountLimit != nil {
		user.DiscountLimit = input.DiscountLimit
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func GetUser(ctx context.Context, id int) (*User, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId <= 0 {
		return nil, errors.New("company id is required")
	}
	return utils.FetchModel[User](ctx, companyId, id)
}

func GetUsers(ctx context.Context) ([]*User, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId <= 0 {
		return nil, errors.New("company id is required")
	}
	return utils.FetchAllModels[User](ctx, companyId)
}

// GetUserByEmail is unscoped: it backs login, which happens before any
// company context exists.
func GetUserByEmail(ctx context.Context, email string) (*User, error) {
	db := config.GetDB()
	var user User
	if err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &user, nil
}
