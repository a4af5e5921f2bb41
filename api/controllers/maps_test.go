package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arto/mercator-backend/internal/catalog"
	"github.com/arto/mercator-backend/pkg/auth/session"
	"github.com/arto/mercator-backend/pkg/db/models"
	pkgerrors "github.com/arto/mercator-backend/pkg/errors"
	"github.com/arto/mercator-backend/pkg/types"
)

type stubCatalogService struct {
	maps     []models.Map
	chapters []models.Chapter

	upsertedMap     *catalog.MapInput
	upsertedChapter *catalog.ChapterInput
}

func (s *stubCatalogService) ListMaps(context.Context) ([]models.Map, error) {
	return s.maps, nil
}

func (s *stubCatalogService) GetMap(_ context.Context, slug string) (*models.Map, error) {
	for i := range s.maps {
		if s.maps[i].Slug == slug {
			return &s.maps[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "map not found")
}

func (s *stubCatalogService) UpsertMap(_ context.Context, input catalog.MapInput) (*models.Map, error) {
	s.upsertedMap = &input
	return &models.Map{Slug: input.Slug, Title: input.Title}, nil
}

func (s *stubCatalogService) ListChapters(context.Context) ([]models.Chapter, error) {
	return s.chapters, nil
}

func (s *stubCatalogService) GetChapter(_ context.Context, slug string) (*models.Chapter, error) {
	for i := range s.chapters {
		if s.chapters[i].Slug == slug {
			return &s.chapters[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "chapter not found")
}

func (s *stubCatalogService) UpsertChapter(_ context.Context, input catalog.ChapterInput) (*models.Chapter, error) {
	s.upsertedChapter = &input
	return &models.Chapter{Slug: input.Slug, Title: input.Title}, nil
}

func (s *stubCatalogService) EnsureSeed(context.Context) error { return nil }

func sampleMaps() []models.Map {
	return []models.Map{
		{
			Slug:       "saxony",
			DisplayID:  "1",
			Title:      "Saxony, 1570",
			Year:       "1570",
			Image:      "https://example.com/saxony.jpg",
			PrintFiles: types.PrintFiles{"2:3": "https://example.com/print.jpg"},
		},
	}
}

func newSessionManager(t *testing.T) *session.Manager {
	t.Helper()
	mgr, err := session.NewManager("controller-test-secret-012345", 8*time.Hour)
	require.NoError(t, err)
	return mgr
}

func TestListMapsPublicSummary(t *testing.T) {
	handler := ListMaps(&stubCatalogService{maps: sampleMaps()}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/maps", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "saxony", body.Data[0]["slug"])
	assert.Equal(t, "Saxony, 1570", body.Data[0]["title"])
	assert.NotContains(t, body.Data[0], "printFiles")
	assert.NotContains(t, body.Data[0], "sizes")
}

func TestListMapsFullRequiresAdmin(t *testing.T) {
	mgr := newSessionManager(t)
	handler := ListMaps(&stubCatalogService{maps: sampleMaps()}, mgr, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/maps?full=1", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListMapsFullWithAdminSession(t *testing.T) {
	mgr := newSessionManager(t)
	token, err := mgr.Mint(time.Now())
	require.NoError(t, err)

	handler := ListMaps(&stubCatalogService{maps: sampleMaps()}, mgr, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/maps?full=1", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Data, 1)
	assert.Contains(t, body.Data[0], "printFiles")
}

func TestGetMapBySlug(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/api/v1/maps/{slug}", GetMap(&stubCatalogService{maps: sampleMaps()}, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/maps/saxony", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data models.Map `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "saxony", body.Data.Slug)
}

func TestGetMapNotFound(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/api/v1/maps/{slug}", GetMap(&stubCatalogService{}, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/maps/atlantis", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpsertMapPassesPayloadThrough(t *testing.T) {
	svc := &stubCatalogService{}
	handler := UpsertMap(svc, nil)

	body := `{"slug":"saxony","title":"Saxony, 1570","images":["https://example.com/a.jpg"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/maps", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.upsertedMap)
	assert.Equal(t, "saxony", svc.upsertedMap.Slug)
	assert.Equal(t, []string{"https://example.com/a.jpg"}, svc.upsertedMap.Images)
}
