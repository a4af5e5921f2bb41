package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/arto/mercator-backend/pkg/db/models"
	pkgerrors "github.com/arto/mercator-backend/pkg/errors"
	"github.com/arto/mercator-backend/pkg/types"
)

// Service exposes catalog reads plus the admin editor's upserts.
type Service interface {
	ListMaps(ctx context.Context) ([]models.Map, error)
	GetMap(ctx context.Context, slug string) (*models.Map, error)
	UpsertMap(ctx context.Context, input MapInput) (*models.Map, error)
	ListChapters(ctx context.Context) ([]models.Chapter, error)
	GetChapter(ctx context.Context, slug string) (*models.Chapter, error)
	UpsertChapter(ctx context.Context, input ChapterInput) (*models.Chapter, error)
	EnsureSeed(ctx context.Context) error
}

// MapInput is the admin editor payload for creating or replacing a map.
// Blank fields are defaulted, never rejected, except the slug/title pair.
type MapInput struct {
	ID          string            `json:"id"`
	Slug        string            `json:"slug"`
	ChapterSlug string            `json:"chapterSlug"`
	Title       string            `json:"title"`
	Year        string            `json:"year"`
	Figure      string            `json:"figure"`
	Description string            `json:"description"`
	Image       string            `json:"image"`
	Images      []string          `json:"images"`
	PrintImage  string            `json:"printImage"`
	PrintFiles  map[string]string `json:"printFiles"`
	Sizes       []types.PrintSize `json:"sizes"`
}

// ChapterInput is the admin editor payload for creating or replacing a chapter.
type ChapterInput struct {
	ID             string `json:"id"`
	Order          int    `json:"order"`
	Slug           string `json:"slug"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	HeroImage      string `json:"heroImage"`
	SEOTitle       string `json:"seoTitle"`
	SEODescription string `json:"seoDescription"`
	Href           string `json:"href"`
	Status         string `json:"status"`
	IsLive         bool   `json:"isLive"`
}

type service struct {
	repo *Repository
}

// NewService constructs the catalog service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListMaps(ctx context.Context) ([]models.Map, error) {
	maps, err := s.repo.ListMaps(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list maps")
	}
	for i := range maps {
		NormalizeMap(&maps[i])
	}
	return maps, nil
}

func (s *service) GetMap(ctx context.Context, slug string) (*models.Map, error) {
	m, err := s.repo.FindMapBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find map")
	}
	if m == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "map not found")
	}
	NormalizeMap(m)
	return m, nil
}

func (s *service) UpsertMap(ctx context.Context, input MapInput) (*models.Map, error) {
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(input.Title)
	}
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}

	existing, err := s.repo.FindMapBySlug(ctx, slug)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find map")
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = "Untitled map"
	}

	displayID := strings.TrimSpace(input.ID)
	position := 0
	if existing != nil {
		position = existing.Position
		if displayID == "" {
			displayID = existing.DisplayID
		}
	} else {
		count, err := s.repo.CountMaps(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count maps")
		}
		position = int(count) + 1
		if displayID == "" {
			displayID = strconv.Itoa(position)
		}
	}

	images := make(types.StringList, 0, len(input.Images))
	for _, img := range input.Images {
		if trimmed := strings.TrimSpace(img); trimmed != "" {
			images = append(images, trimmed)
		}
	}

	files := types.PrintFiles{}
	for ratio, url := range input.PrintFiles {
		if trimmed := strings.TrimSpace(url); trimmed != "" {
			files[ratio] = trimmed
		}
	}

	m := &models.Map{
		Slug:        slug,
		DisplayID:   displayID,
		ChapterSlug: strings.TrimSpace(input.ChapterSlug),
		Title:       title,
		Year:        strings.TrimSpace(input.Year),
		Figure:      strings.TrimSpace(input.Figure),
		Description: input.Description,
		Image:       strings.TrimSpace(input.Image),
		Images:      images,
		PrintImage:  strings.TrimSpace(input.PrintImage),
		PrintFiles:  files,
		Sizes:       types.SizeList(input.Sizes),
		Position:    position,
	}
	NormalizeMap(m)

	if err := s.repo.SaveMap(ctx, m); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upsert map")
	}
	return m, nil
}

func (s *service) ListChapters(ctx context.Context) ([]models.Chapter, error) {
	chapters, err := s.repo.ListChapters(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list chapters")
	}
	if len(chapters) == 0 {
		chapters = defaultChapters()
	}
	for i := range chapters {
		NormalizeChapter(&chapters[i])
	}
	return chapters, nil
}

func (s *service) GetChapter(ctx context.Context, slug string) (*models.Chapter, error) {
	slug = strings.TrimSpace(slug)
	c, err := s.repo.FindChapterBySlug(ctx, slug)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find chapter")
	}
	if c == nil {
		// Read paths degrade to the built-in defaults instead of erroring.
		for _, builtin := range defaultChapters() {
			if builtin.Slug == slug {
				chapter := builtin
				NormalizeChapter(&chapter)
				return &chapter, nil
			}
		}
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "chapter not found")
	}
	NormalizeChapter(c)
	return c, nil
}

func (s *service) UpsertChapter(ctx context.Context, input ChapterInput) (*models.Chapter, error) {
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = "Untitled chapter"
	}

	status := models.ChapterStatusNew
	if input.Status == models.ChapterStatusLive {
		status = models.ChapterStatusLive
	}

	c := &models.Chapter{
		Slug:           slug,
		DisplayID:      strings.TrimSpace(input.ID),
		SortOrder:      input.Order,
		Title:          title,
		Description:    input.Description,
		HeroImage:      strings.TrimSpace(input.HeroImage),
		SEOTitle:       strings.TrimSpace(input.SEOTitle),
		SEODescription: strings.TrimSpace(input.SEODescription),
		Href:           strings.TrimSpace(input.Href),
		Status:         status,
		IsLive:         input.IsLive,
	}
	NormalizeChapter(c)

	if err := s.repo.SaveChapter(ctx, c); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upsert chapter")
	}
	return c, nil
}

// EnsureSeed loads the built-in chapters and plates into empty tables so a
// fresh deployment serves content immediately.
func (s *service) EnsureSeed(ctx context.Context) error {
	chapterCount, err := s.repo.CountChapters(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count chapters")
	}
	if chapterCount == 0 {
		for _, chapter := range defaultChapters() {
			c := chapter
			NormalizeChapter(&c)
			if err := s.repo.SaveChapter(ctx, &c); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: seed chapter")
			}
		}
	}

	mapCount, err := s.repo.CountMaps(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count maps")
	}
	if mapCount == 0 {
		for _, m := range seedMaps() {
			seeded := m
			NormalizeMap(&seeded)
			if err := s.repo.SaveMap(ctx, &seeded); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: seed map")
			}
		}
	}

	return nil
}
