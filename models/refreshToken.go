package models

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/partsdesk/autoparts_backend/config"
	"github.com/partsdesk/autoparts_backend/utils"
)

type RefreshToken struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Token     string    `gorm:"size:64;uniqueIndex;not null" json:"token"`
	UserId    int       `gorm:"index;not null" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Revoked   *bool     `gorm:"not null;default:false" json:"revoked"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func refreshTokenLifespan() time.Duration {
	days, err := strconv.Atoi(os.Getenv("REFRESH_TOKEN_DAY_LIFESPAN"))
	if err != nil || days <= 0 {
		days = 7
	}
	return time.Hour * 24 * time.Duration(days)
}

// IssueRefreshToken mints an opaque token for the user.
func IssueRefreshToken(ctx context.Context, userId int) (*RefreshToken, error) {
	record := RefreshToken{
		Token:     uuid.NewString(),
		UserId:    userId,
		ExpiresAt: time.Now().Add(refreshTokenLifespan()),
		Revoked:   utils.NewFalse(),
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// RotateRefreshToken revokes the presented token and issues a replacement in
// one transaction. A revoked or expired token is rejected.
func RotateRefreshToken(ctx context.Context, token string) (*RefreshToken, *User, error) {
	db := config.GetDB()

	var current RefreshToken
	if err := db.WithContext(ctx).Where("token = ?", token).First(&current).Error; err != nil {
		return nil, nil, utils.ErrorRecordNotFound
	}
	if current.Revoked != nil && *current.Revoked {
		return nil, nil, errors.New("refresh token has been revoked")
	}
	if time.Now().After(current.ExpiresAt) {
		return nil, nil, errors.New("refresh token has expired")
	}

	var user User
	if err := db.WithContext(ctx).First(&user, current.UserId).Error; err != nil {
		return nil, nil, utils.ErrorRecordNotFound
	}
	if user.IsActive != nil && !*user.IsActive {
		return nil, nil, errors.New("user is inactive")
	}

	next := RefreshToken{
		Token:     uuid.NewString(),
		UserId:    current.UserId,
		ExpiresAt: time.Now().Add(refreshTokenLifespan()),
		Revoked:   utils.NewFalse(),
	}

	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(&current).Update("Revoked", true).Error; err != nil {
		tx.Rollback()
		return nil, nil, err
	}
	if err := tx.WithContext(ctx).Create(&next).Error; err != nil {
		tx.Rollback()
		return nil, nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, nil, err
	}

	return &next, &user, nil
}

// RevokeRefreshToken marks the token revoked; unknown tokens are a no-op so
// logout is idempotent.
func RevokeRefreshToken(ctx context.Context, token string) error {
	db := config.GetDB()
	return db.WithContext(ctx).Model(&RefreshToken{}).
		Where("token = ?", token).
		Update("Revoked", true).Error
}
