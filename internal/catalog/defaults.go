package catalog

import (
	"github.com/arto/mercator-backend/pkg/db/models"
	"github.com/arto/mercator-backend/pkg/types"
)

// SentinelChapterSlug is the fallback collection every orphaned map joins.
const SentinelChapterSlug = "the-mercator-archives"

// Aspect-ratio tags used as printFiles keys and size ratios.
const (
	RatioTwoThree  = "2:3"
	RatioThreeFour = "3:4"
)

// DefaultSizes returns the three-tier size list applied to maps that carry
// no explicit variants. The ids double as fulfillment provider variant ids.
func DefaultSizes() types.SizeList {
	return types.SizeList{
		{ID: "3876", Label: `12x18"`, Price: 35, Ratio: RatioTwoThree},
		{ID: "1", Label: `18x24"`, Price: 45, Ratio: RatioThreeFour},
		{ID: "2", Label: `24x36"`, Price: 59, Ratio: RatioTwoThree},
	}
}

func defaultChapters() []models.Chapter {
	return []models.Chapter{
		{
			Slug:           "nature-landscapes-noir",
			DisplayID:      "01",
			SortOrder:      1,
			Title:          "Nature & Landscapes Noir",
			Description:    "Atmospheric monochrome nature compositions and moody wide-format landscapes.",
			SEOTitle:       "Nature & Landscapes Noir Posters",
			SEODescription: "Atmospheric monochrome nature and landscape poster collection.",
			Status:         models.ChapterStatusNew,
			IsLive:         false,
		},
		{
			Slug:           "vintage-japan-archives",
			DisplayID:      "02",
			SortOrder:      2,
			Title:          "Vintage Japan Archives",
			Description:    "Curated references inspired by vintage Japanese print aesthetics and archival works.",
			SEOTitle:       "Vintage Japan Archives Posters",
			SEODescription: "Curated vintage Japan inspired poster chapter.",
			Status:         models.ChapterStatusNew,
			IsLive:         false,
		},
		{
			Slug:           SentinelChapterSlug,
			DisplayID:      "03",
			SortOrder:      3,
			Title:          "The Mercator Archives",
			Description:    "Your established historical atlas chapter, already live with a full plate collection.",
			SEOTitle:       "The Mercator Archives Posters",
			SEODescription: "Historical atlas posters from The Mercator Archives.",
			Status:         models.ChapterStatusLive,
			IsLive:         true,
		},
		{
			Slug:           "engineering-patents",
			DisplayID:      "04",
			SortOrder:      4,
			Title:          "Engineering & Patents",
			Description:    "Technical drawing-driven posters rooted in industrial design and patent-era diagrams.",
			SEOTitle:       "Engineering & Patents Posters",
			SEODescription: "Technical engineering and patent-era poster collection.",
			Status:         models.ChapterStatusNew,
			IsLive:         false,
		},
	}
}

func seedMaps() []models.Map {
	return []models.Map{
		{
			Slug:        "saxony",
			DisplayID:   "1",
			ChapterSlug: SentinelChapterSlug,
			Title:       "Lower Saxony & Mecklenburg",
			Year:        "1569",
			Figure:      "Figure 1.1: Saxonia Inferior et Meklenborg Dvc",
			Image:       "/maps/saxonia.jpg",
			Images: types.StringList{
				"/maps/saxonia.jpg", "/maps/saxonia1.webp", "/maps/saxonia2.jpg",
				"/maps/saxonia3.jpg", "/maps/saxonia4.avif", "/maps/saxonia5.webp",
				"/maps/saxonia6.avif", "/maps/saxonia7.avif", "/maps/saxonia8.avif",
				"/maps/saxonia9.avif", "/maps/saxonia10.webp", "/maps/saxonia11.jpg",
				"/maps/saxonia12.jpg",
			},
			PrintImage: "https://www.dropbox.com/scl/fi/w451se2v09zxwb1vumrr2/plate_01.jpg?rlkey=imoca3u4s6l8q8o8sfscnkwqa&st=2yq5oz4f&dl=1",
			Description: "Rare 17th Century Antique Map of Northern Germany: Lower Saxony & Mecklenburg.\n\n" +
				"Journey back to the Golden Age of cartography with this stunning digital scan of a genuine 17th-century copperplate engraved map.\n\n" +
				"THE HISTORICAL CONTEXT: This masterful piece depicts 'Saxonia Inferior et Meklenborg Dvc' — the historical regions of Lower Saxony and the Duchy of Mecklenburg. It shows a fascinating political landscape featuring prominent Hanseatic cities like Hamburg, Bremen, and Lübeck.\n\n" +
				"AUTHENTIC DETAIL: This is not a modern recreation. It is a high-fidelity digital archive of an original antique atlas plate, capturing intricate copperplate engraving lines and the richly textured, aged paper of the period.",
			Position: 1,
		},
	}
}
