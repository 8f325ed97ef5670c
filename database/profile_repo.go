package database

import (
	"context"

	"github.com/smgmdev/pressdeck/models"
	"gorm.io/gorm"
)

type ProfileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) *ProfileRepo {
	return &ProfileRepo{db}
}

func (r *ProfileRepo) FindByUserAndSite(ctx context.Context, userID, siteID string) (*models.PublishingProfile, error) {
	var profile models.PublishingProfile
	err := r.db.WithContext(ctx).Where("user_id = ? AND site_id = ?", userID, siteID).First(&profile).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByUser returns all publishing profiles of a user
func (r *ProfileRepo) FindByUser(ctx context.Context, userID string) ([]*models.PublishingProfile, error) {
	var profiles []*models.PublishingProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&profiles).Error
	return profiles, err
}

func (r *ProfileRepo) Add(ctx context.Context, profile *models.PublishingProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// SetCredential points an existing profile at a replacement credential
func (r *ProfileRepo) SetCredential(ctx context.Context, id, credentialID string) error {
	return r.db.WithContext(ctx).Model(&models.PublishingProfile{}).
		Where("id = ?", id).
		Update("credential_id", credentialID).Error
}

func (r *ProfileRepo) DeleteByUserAndSite(ctx context.Context, userID, siteID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ? AND site_id = ?", userID, siteID).Delete(&models.PublishingProfile{})
	return res.RowsAffected, res.Error
}
