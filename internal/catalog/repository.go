package catalog

import (
	"context"
	"errors"

	"github.com/arto/mercator-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists catalog maps and chapters.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListMaps returns every map in insertion order.
func (r *Repository) ListMaps(ctx context.Context) ([]models.Map, error) {
	var maps []models.Map
	if err := r.db.WithContext(ctx).Order("position asc, slug asc").Find(&maps).Error; err != nil {
		return nil, err
	}
	return maps, nil
}

// FindMapBySlug loads one map; (nil, nil) when the slug is unknown.
func (r *Repository) FindMapBySlug(ctx context.Context, slug string) (*models.Map, error) {
	var m models.Map
	err := r.db.WithContext(ctx).First(&m, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveMap inserts the map or replaces the existing row with the same slug.
func (r *Repository) SaveMap(ctx context.Context, m *models.Map) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			UpdateAll: true,
		}).
		Create(m).Error
}

// CountMaps reports the number of stored maps.
func (r *Repository) CountMaps(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Map{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListChapters returns chapters sorted by sort_order ascending.
func (r *Repository) ListChapters(ctx context.Context) ([]models.Chapter, error) {
	var chapters []models.Chapter
	if err := r.db.WithContext(ctx).Order("sort_order asc, slug asc").Find(&chapters).Error; err != nil {
		return nil, err
	}
	return chapters, nil
}

// FindChapterBySlug loads one chapter; (nil, nil) when the slug is unknown.
func (r *Repository) FindChapterBySlug(ctx context.Context, slug string) (*models.Chapter, error) {
	var c models.Chapter
	err := r.db.WithContext(ctx).First(&c, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveChapter inserts the chapter or replaces the existing row with the same slug.
func (r *Repository) SaveChapter(ctx context.Context, c *models.Chapter) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			UpdateAll: true,
		}).
		Create(c).Error
}

// CountChapters reports the number of stored chapters.
func (r *Repository) CountChapters(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Chapter{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
