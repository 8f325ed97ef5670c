package database

import (
	"context"

	"github.com/smgmdev/pressdeck/models"
	"gorm.io/gorm"
)

type SiteRepo struct {
	db *gorm.DB
}

func NewSiteRepo(db *gorm.DB) *SiteRepo {
	return &SiteRepo{db}
}

// FindAll returns all sites ordered by name
func (r *SiteRepo) FindAll(ctx context.Context) ([]*models.Site, error) {
	var sites []*models.Site
	err := r.db.WithContext(ctx).Order("name").Find(&sites).Error
	return sites, err
}

// FindByID returns a site by its ID, or nil if it does not exist
func (r *SiteRepo) FindByID(ctx context.Context, id string) (*models.Site, error) {
	var site models.Site
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&site).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &site, nil
}

// FindByIDs returns the sites whose ids are listed, keyed by id
func (r *SiteRepo) FindByIDs(ctx context.Context, ids []string) (map[string]*models.Site, error) {
	out := make(map[string]*models.Site, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var sites []*models.Site
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&sites).Error; err != nil {
		return nil, err
	}
	for _, s := range sites {
		out[s.ID] = s
	}
	return out, nil
}

// Add inserts a new site into the database
func (r *SiteRepo) Add(ctx context.Context, site *models.Site) error {
	return r.db.WithContext(ctx).Create(site).Error
}

// Update saves every column of an existing site
func (r *SiteRepo) Update(ctx context.Context, site *models.Site) error {
	return r.db.WithContext(ctx).Save(site).Error
}

// SetConnected flips the connection flag without touching credentials
func (r *SiteRepo) SetConnected(ctx context.Context, id string, connected bool) error {
	res := r.db.WithContext(ctx).Model(&models.Site{}).Where("id = ?", id).Update("is_connected", connected)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
