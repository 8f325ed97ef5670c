package database

import (
	"context"

	"github.com/smgmdev/pressdeck/models"
	"gorm.io/gorm"
)

type CredentialRepo struct {
	db *gorm.DB
}

func NewCredentialRepo(db *gorm.DB) *CredentialRepo {
	return &CredentialRepo{db}
}

// FindByID returns a credential by its ID, or nil if it does not exist
func (r *CredentialRepo) FindByID(ctx context.Context, id string) (*models.UserSiteCredential, error) {
	var cred models.UserSiteCredential
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&cred).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// FindByUserAndSite returns the credential of a user for a site, or nil
func (r *CredentialRepo) FindByUserAndSite(ctx context.Context, userID, siteID string) (*models.UserSiteCredential, error) {
	var cred models.UserSiteCredential
	err := r.db.WithContext(ctx).Where("user_id = ? AND site_id = ?", userID, siteID).First(&cred).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// FindForSiteUsers returns credentials held on siteID by any of userIDs.
// Verified credentials come first, then oldest first.
func (r *CredentialRepo) FindForSiteUsers(ctx context.Context, siteID string, userIDs []string) ([]*models.UserSiteCredential, error) {
	var creds []*models.UserSiteCredential
	if len(userIDs) == 0 {
		return creds, nil
	}
	err := r.db.WithContext(ctx).
		Where("site_id = ? AND user_id IN ?", siteID, userIDs).
		Order("is_verified DESC").
		Order("created_at ASC").
		Find(&creds).Error
	return creds, err
}

// FindByUser returns every credential a user holds
func (r *CredentialRepo) FindByUser(ctx context.Context, userID string) ([]*models.UserSiteCredential, error) {
	var creds []*models.UserSiteCredential
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&creds).Error
	return creds, err
}

// Replace deletes any credential for (cred.UserID, cred.SiteID) and inserts cred
func (r *CredentialRepo) Replace(ctx context.Context, cred *models.UserSiteCredential) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND site_id = ?", cred.UserID, cred.SiteID).
			Delete(&models.UserSiteCredential{}).Error; err != nil {
			return err
		}
		return tx.Create(cred).Error
	})
}

// DeleteByUserAndSite removes a user's credential for a site
func (r *CredentialRepo) DeleteByUserAndSite(ctx context.Context, userID, siteID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ? AND site_id = ?", userID, siteID).Delete(&models.UserSiteCredential{})
	return res.RowsAffected, res.Error
}
