package catalog

const (
	TaxonomyGenre             = "genre"
	TaxonomyLabel             = "label"
	TaxonomyLanguage          = "language"
	TaxonomyProductionCompany = "production_company"
	TaxonomyTag               = "tag"
	TaxonomyCareer            = "career"
)

// ClassificationTaxonomies are the movie-facing taxonomies, in CSV column
// order. Career is person-facing and deliberately not listed.
var ClassificationTaxonomies = []string{
	TaxonomyGenre,
	TaxonomyLabel,
	TaxonomyLanguage,
	TaxonomyProductionCompany,
	TaxonomyTag,
}

type Term struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Taxonomy string `gorm:"not null;uniqueIndex:idx_terms_taxonomy_slug,priority:1" json:"taxonomy"`
	Name     string `gorm:"not null" json:"name"`
	Slug     string `gorm:"not null;uniqueIndex:idx_terms_taxonomy_slug,priority:2" json:"slug"`
}
