package models

import "time"

// Chapter groups maps into a curated collection with its own landing page.
type Chapter struct {
	Slug           string    `gorm:"column:slug;primaryKey" json:"slug"`
	DisplayID      string    `gorm:"column:display_id" json:"id"`
	SortOrder      int       `gorm:"column:sort_order;not null;default:0" json:"order"`
	Title          string    `gorm:"column:title;not null" json:"title"`
	Description    string    `gorm:"column:description" json:"description"`
	HeroImage      string    `gorm:"column:hero_image" json:"heroImage"`
	SEOTitle       string    `gorm:"column:seo_title" json:"seoTitle"`
	SEODescription string    `gorm:"column:seo_description" json:"seoDescription"`
	Href           string    `gorm:"column:href" json:"href"`
	Status         string    `gorm:"column:status" json:"status"`
	IsLive         bool      `gorm:"column:is_live;not null;default:false" json:"isLive"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (Chapter) TableName() string {
	return "chapters"
}

// Chapter publish states shown in the admin editor.
const (
	ChapterStatusLive = "Live collection"
	ChapterStatusNew  = "New direction"
)
