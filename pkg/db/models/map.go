package models

import (
	"time"

	"github.com/arto/mercator-backend/pkg/types"
)

// Map is one sellable poster plate. The slug is the permanent key: payment
// session metadata references it, so it must never change after a checkout
// has been opened against it.
type Map struct {
	Slug        string           `gorm:"column:slug;primaryKey" json:"slug"`
	DisplayID   string           `gorm:"column:display_id" json:"id"`
	ChapterSlug string           `gorm:"column:chapter_slug;index" json:"chapterSlug"`
	Title       string           `gorm:"column:title;not null" json:"title"`
	Year        string           `gorm:"column:year" json:"year"`
	Figure      string           `gorm:"column:figure" json:"figure"`
	Description string           `gorm:"column:description" json:"description"`
	Image       string           `gorm:"column:image" json:"image"`
	Images      types.StringList `gorm:"column:images;type:text" json:"images"`
	PrintImage  string           `gorm:"column:print_image" json:"printImage"`
	PrintFiles  types.PrintFiles `gorm:"column:print_files;type:text" json:"printFiles"`
	Sizes       types.SizeList   `gorm:"column:sizes;type:text" json:"sizes"`
	Position    int              `gorm:"column:position;not null;default:0" json:"-"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (Map) TableName() string {
	return "maps"
}
