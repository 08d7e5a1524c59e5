package db

import (
	"context"
	"errors"

	"socialcal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	orm *gorm.DB
}

func NewUserRepository(orm *gorm.DB) *UserRepository {
	return &UserRepository{orm: orm}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := readDB(ctx, r.orm).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := readDB(ctx, r.orm).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return translate(writeDB(ctx, r.orm).Create(user).Error)
}

type ProfileRepository struct {
	orm *gorm.DB
}

func NewProfileRepository(orm *gorm.DB) *ProfileRepository {
	return &ProfileRepository{orm: orm}
}

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	err := readDB(ctx, r.orm).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (r *ProfileRepository) FindByNickname(ctx context.Context, nickname string) (*models.Profile, error) {
	if nickname == "" {
		return nil, models.ErrNotFound
	}
	var profiles []models.Profile
	err := readDB(ctx, r.orm).Where("nickname = ?", nickname).Limit(2).Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	switch len(profiles) {
	case 0:
		return nil, models.ErrNotFound
	case 1:
		return &profiles[0], nil
	}
	return nil, models.ErrAmbiguous
}

func (r *ProfileRepository) NicknameTaken(ctx context.Context, nickname, exceptUserID string) (bool, error) {
	var count int64
	err := readDB(ctx, r.orm).Model(&models.Profile{}).
		Where("nickname = ? AND user_id <> ?", nickname, exceptUserID).
		Count(&count).Error
	return count > 0, err
}

func (r *ProfileRepository) Upsert(ctx context.Context, profile *models.Profile) error {
	if profile.UserID == "" {
		return errors.New("profile has no user id")
	}
	return translate(writeDB(ctx, r.orm).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(profile).Error)
}
