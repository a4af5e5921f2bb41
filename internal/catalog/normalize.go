package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/arto/mercator-backend/pkg/db/models"
	"github.com/arto/mercator-backend/pkg/types"
)

var (
	slugStripRe    = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaceRe    = regexp.MustCompile(`\s+`)
	slugCollapseRe = regexp.MustCompile(`-+`)
)

// Slugify turns a display title into a URL slug.
func Slugify(value string) string {
	slug := strings.ToLower(strings.TrimSpace(value))
	slug = slugStripRe.ReplaceAllString(slug, "")
	slug = slugSpaceRe.ReplaceAllString(slug, "-")
	slug = slugCollapseRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// NormalizeMap applies the catalog defaults on every read and write: orphaned
// maps join the sentinel chapter, both print-file ratios are always present,
// and an empty size list gets the default three tiers.
func NormalizeMap(m *models.Map) {
	if m.ChapterSlug == "" {
		m.ChapterSlug = SentinelChapterSlug
	}

	files := types.PrintFiles{}
	for ratio, url := range m.PrintFiles {
		files[ratio] = url
	}
	if files[RatioTwoThree] == "" {
		files[RatioTwoThree] = m.PrintImage
	}
	if files[RatioThreeFour] == "" {
		files[RatioThreeFour] = m.PrintImage
	}
	m.PrintFiles = files

	if m.PrintImage == "" {
		m.PrintImage = files[RatioTwoThree]
	}

	if len(m.Sizes) == 0 {
		m.Sizes = DefaultSizes()
	}
}

// NormalizeChapter fills derived chapter fields: display id from the sort
// order, href from the slug, SEO fields from title/description.
func NormalizeChapter(c *models.Chapter) {
	if c.DisplayID == "" {
		c.DisplayID = fmt.Sprintf("%02d", c.SortOrder)
	}
	if c.Href == "" {
		c.Href = "/collections/" + c.Slug
	}
	if c.SEOTitle == "" {
		c.SEOTitle = c.Title
	}
	if c.SEODescription == "" {
		c.SEODescription = c.Description
	}
	if c.Status != models.ChapterStatusLive {
		c.Status = models.ChapterStatusNew
	}
}
