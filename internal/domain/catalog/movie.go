package catalog

import (
	"time"

	"movie-library/internal/domain/media"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "publish"
)

// Content ratings accepted by the validator and the REST surface.
var ContentRatings = []string{"G", "PG", "PG-13", "R", "NC-17"}

func IsContentRating(code string) bool {
	for _, c := range ContentRatings {
		if c == code {
			return true
		}
	}
	return false
}

type Movie struct {
	ID string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	Title string `gorm:"not null" json:"title"`
	// Slug is the title-derived natural key used for duplicate detection
	// across import and REST create. The unique index means a lost
	// check-then-create race surfaces as a store error instead of a
	// silent duplicate.
	Slug string `gorm:"uniqueIndex;not null" json:"slug"`

	Content string `json:"content,omitempty"`
	Excerpt string `json:"excerpt,omitempty"`
	Status  string `gorm:"not null;default:'draft';index" json:"status"`

	AuthorID uint `gorm:"not null;default:0" json:"author_id"`

	Rating         *float64 `json:"rating,omitempty"`
	RuntimeMinutes *int     `json:"runtime_minutes,omitempty"`
	// ReleaseDate is kept textual (YYYY-MM-DD) so exported values
	// round-trip byte for byte.
	ReleaseDate   *string `json:"release_date,omitempty"`
	ContentRating *string `json:"content_rating,omitempty"`

	Terms []Term         `gorm:"many2many:movie_terms;" json:"terms,omitempty"`
	Crew  []CrewRelation `gorm:"constraint:OnDelete:CASCADE;" json:"crew,omitempty"`

	PosterID   *uint        `json:"poster_id,omitempty"`
	Poster     *media.Asset `gorm:"foreignKey:PosterID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"poster,omitempty"`
	CarouselID *uint        `json:"carousel_id,omitempty"`
	Carousel   *media.Asset `gorm:"foreignKey:CarouselID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"carousel,omitempty"`

	Gallery  []MovieAsset `gorm:"constraint:OnDelete:CASCADE;" json:"gallery,omitempty"`
	Comments []Comment    `gorm:"constraint:OnDelete:CASCADE;" json:"comments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	GalleryImage = "gallery_image"
	GalleryVideo = "gallery_video"
)

// MovieAsset is an ordered gallery link between a movie and a media asset.
type MovieAsset struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	MovieID  string `gorm:"type:uuid;not null;index:idx_movie_assets_order,priority:1" json:"-"`
	AssetID  uint   `gorm:"not null" json:"asset_id"`
	Kind     string `gorm:"not null;index" json:"kind"`
	Position int    `gorm:"not null;default:0;index:idx_movie_assets_order,priority:2" json:"position"`

	Asset *media.Asset `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
}
