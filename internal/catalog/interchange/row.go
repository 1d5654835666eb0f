// Package interchange defines the flat row shape moved through the CSV
// pipeline. Rows exist only in transit: built on export, consumed on import,
// never persisted.
package interchange

// Columns is the fixed header, in order. An import whose header deviates
// from this list in any way is rejected before the first row.
var Columns = []string{
	"id",
	"title",
	"content",
	"excerpt",
	"status",
	"author",
	"created_at",
	"rating",
	"runtime",
	"release_date",
	"content_rating",
	"genres",
	"labels",
	"languages",
	"production_companies",
	"tags",
	"directors",
	"producers",
	"writers",
	"actors",
	"characters",
	"poster_url",
	"gallery_images",
	"gallery_videos",
	"carousel_url",
	"comments",
	"content_hash",
}

// Row mirrors Columns field for field. List-valued cells hold JSON arrays,
// the characters cell a JSON object, comments a JSON array of objects.
type Row struct {
	ID                  string
	Title               string
	Content             string
	Excerpt             string
	Status              string
	Author              string
	CreatedAt           string
	Rating              string
	Runtime             string
	ReleaseDate         string
	ContentRating       string
	Genres              string
	Labels              string
	Languages           string
	ProductionCompanies string
	Tags                string
	Directors           string
	Producers           string
	Writers             string
	Actors              string
	Characters          string
	PosterURL           string
	GalleryImages       string
	GalleryVideos       string
	CarouselURL         string
	Comments            string
	ContentHash         string
}

// FromRecord maps a positional record onto a Row. The record must be at
// least len(Columns) wide; extra trailing cells are ignored.
func FromRecord(record []string) Row {
	return Row{
		ID:                  record[0],
		Title:               record[1],
		Content:             record[2],
		Excerpt:             record[3],
		Status:              record[4],
		Author:              record[5],
		CreatedAt:           record[6],
		Rating:              record[7],
		Runtime:             record[8],
		ReleaseDate:         record[9],
		ContentRating:       record[10],
		Genres:              record[11],
		Labels:              record[12],
		Languages:           record[13],
		ProductionCompanies: record[14],
		Tags:                record[15],
		Directors:           record[16],
		Producers:           record[17],
		Writers:             record[18],
		Actors:              record[19],
		Characters:          record[20],
		PosterURL:           record[21],
		GalleryImages:       record[22],
		GalleryVideos:       record[23],
		CarouselURL:         record[24],
		Comments:            record[25],
		ContentHash:         record[26],
	}
}

// Record flattens the row back into Columns order.
func (r Row) Record() []string {
	return []string{
		r.ID,
		r.Title,
		r.Content,
		r.Excerpt,
		r.Status,
		r.Author,
		r.CreatedAt,
		r.Rating,
		r.Runtime,
		r.ReleaseDate,
		r.ContentRating,
		r.Genres,
		r.Labels,
		r.Languages,
		r.ProductionCompanies,
		r.Tags,
		r.Directors,
		r.Producers,
		r.Writers,
		r.Actors,
		r.Characters,
		r.PosterURL,
		r.GalleryImages,
		r.GalleryVideos,
		r.CarouselURL,
		r.Comments,
		r.ContentHash,
	}
}

// EmbeddedComment is the element shape of the comments cell.
type EmbeddedComment struct {
	ID         uint   `json:"id"`
	ParentID   uint   `json:"parent_id,omitempty"`
	AuthorName string `json:"author_name"`
	AuthorURL  string `json:"author_url,omitempty"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// SetTaxonomyCell writes the classification cell for the given taxonomy.
func (r *Row) SetTaxonomyCell(taxonomy, cell string) {
	switch taxonomy {
	case "genre":
		r.Genres = cell
	case "label":
		r.Labels = cell
	case "language":
		r.Languages = cell
	case "production_company":
		r.ProductionCompanies = cell
	case "tag":
		r.Tags = cell
	}
}

// TaxonomyCell returns the classification cell for the given taxonomy.
func (r Row) TaxonomyCell(taxonomy string) string {
	switch taxonomy {
	case "genre":
		return r.Genres
	case "label":
		return r.Labels
	case "language":
		return r.Languages
	case "production_company":
		return r.ProductionCompanies
	case "tag":
		return r.Tags
	}
	return ""
}
