package auth

import (
	"context"
	"errors"
	"time"

	"github.com/InkwellLabs/Inkwell-Backend/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserStore implements UserFetcher against the shared gorm handle.
type GormUserStore struct{}

func (GormUserStore) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := db.DB.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &user, nil
}

func (GormUserStore) FindUserByID(ctx context.Context, id string) (*User, error) {
	var user User
	err := db.DB.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &user, nil
}

func (GormUserStore) CreateUser(ctx context.Context, u *User) error {
	return db.DB.WithContext(ctx).Create(u).Error
}

func (GormUserStore) UpdatePassword(ctx context.Context, userID, hashedPassword string) error {
	res := db.DB.WithContext(ctx).Model(&User{}).Where("id = ?", userID).
		Updates(map[string]any{"hashed_password": hashedPassword, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// GormTokenStore implements TokenStore.
type GormTokenStore struct{}

// UpsertToken is a single INSERT ... ON CONFLICT (user_id) DO UPDATE, so a
// concurrent Validate never observes a half-written row.
func (GormTokenStore) UpsertToken(ctx context.Context, t AuthToken) error {
	return db.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "expires_at", "updated_at"}),
	}).Create(&t).Error
}

func (GormTokenStore) FindTokenByUserID(ctx context.Context, userID string) (AuthToken, error) {
	var t AuthToken
	err := db.DB.WithContext(ctx).First(&t, "user_id = ?", userID).Error
	if err != nil {
		return AuthToken{}, mapNotFound(err)
	}
	return t, nil
}

func (GormTokenStore) DeleteToken(ctx context.Context, userID string) error {
	return db.DB.WithContext(ctx).Delete(&AuthToken{}, "user_id = ?", userID).Error
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	return err
}
