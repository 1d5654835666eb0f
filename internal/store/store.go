// Package store is the gorm-backed implementation of every lookup and
// persistence interface the pipeline components consume.
package store

import (
	"errors"

	"gorm.io/gorm"

	"movie-library/internal/domain/catalog"
	"movie-library/internal/domain/media"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// first runs a single-record query and flattens "not found" into nil.
func first[T any](db *gorm.DB, conds ...interface{}) (*T, error) {
	var out T
	err := db.First(&out, conds...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ---- persons

func (s *Store) PersonByID(id string) (*catalog.Person, error) {
	return first[catalog.Person](s.db, "id = ?", id)
}

func (s *Store) PersonBySlug(slug string) (*catalog.Person, error) {
	return first[catalog.Person](s.db, "slug = ?", slug)
}

func (s *Store) PersonByName(name string) (*catalog.Person, error) {
	return first[catalog.Person](s.db, "name = ?", name)
}

func (s *Store) SearchPerson(text string) (*catalog.Person, error) {
	return first[catalog.Person](s.db.Order("created_at ASC"), "name ILIKE ?", "%"+text+"%")
}

func (s *Store) CreatePerson(p *catalog.Person) error {
	return s.db.Create(p).Error
}

// ---- terms

func (s *Store) TermByName(taxonomy, name string) (*catalog.Term, error) {
	return first[catalog.Term](s.db, "taxonomy = ? AND name = ?", taxonomy, name)
}

func (s *Store) TermByID(id uint) (*catalog.Term, error) {
	return first[catalog.Term](s.db, "id = ?", id)
}

func (s *Store) TermBySlug(taxonomy, slug string) (*catalog.Term, error) {
	return first[catalog.Term](s.db, "taxonomy = ? AND slug = ?", taxonomy, slug)
}

func (s *Store) CreateTerm(t *catalog.Term) error {
	return s.db.Create(t).Error
}

func (s *Store) AttachPersonTerm(personID string, termID uint) error {
	return s.db.Model(&catalog.Person{ID: personID}).
		Association("Careers").
		Append(&catalog.Term{ID: termID})
}

// ---- assets

func (s *Store) AssetByID(id uint) (*media.Asset, error) {
	return first[media.Asset](s.db, "id = ?", id)
}

func (s *Store) AssetByURL(url string) (*media.Asset, error) {
	return first[media.Asset](s.db, "url = ?", url)
}

// ---- movies

func (s *Store) MovieBySlug(slug string) (*catalog.Movie, error) {
	return first[catalog.Movie](s.db, "slug = ?", slug)
}

func (s *Store) CreateMovie(m *catalog.Movie) error {
	return s.db.Create(m).Error
}

func (s *Store) SaveMovie(m *catalog.Movie) error {
	return s.db.Save(m).Error
}

func (s *Store) ReplaceMovieTerms(movieID string, termIDs []uint) error {
	terms := make([]catalog.Term, 0, len(termIDs))
	for _, id := range termIDs {
		terms = append(terms, catalog.Term{ID: id})
	}
	return s.db.Model(&catalog.Movie{ID: movieID}).
		Association("Terms").
		Replace(terms)
}

func (s *Store) AppendMovieTerms(movieID string, termIDs []uint) error {
	terms := make([]catalog.Term, 0, len(termIDs))
	for _, id := range termIDs {
		terms = append(terms, catalog.Term{ID: id})
	}
	return s.db.Model(&catalog.Movie{ID: movieID}).
		Association("Terms").
		Append(terms)
}

// ReplaceCrew rebuilds the person-movie cross reference for one movie from
// the decoded crew lists.
func (s *Store) ReplaceCrew(movieID string, crew []catalog.CrewRelation) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("movie_id = ?", movieID).Delete(&catalog.CrewRelation{}).Error; err != nil {
			return err
		}
		if len(crew) == 0 {
			return nil
		}
		return tx.Create(&crew).Error
	})
}

func (s *Store) CreateComment(c *catalog.Comment) error {
	return s.db.Create(c).Error
}

func (s *Store) ReplaceGallery(movieID, kind string, assetIDs []uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("movie_id = ? AND kind = ?", movieID, kind).Delete(&catalog.MovieAsset{}).Error; err != nil {
			return err
		}
		links := make([]catalog.MovieAsset, 0, len(assetIDs))
		for i, id := range assetIDs {
			links = append(links, catalog.MovieAsset{MovieID: movieID, AssetID: id, Kind: kind, Position: i})
		}
		if len(links) == 0 {
			return nil
		}
		return tx.Create(&links).Error
	})
}

func (s *Store) SetMovieMedia(movieID string, posterID, carouselID *uint) error {
	updates := map[string]interface{}{}
	if posterID != nil {
		updates["poster_id"] = *posterID
	}
	if carouselID != nil {
		updates["carousel_id"] = *carouselID
	}
	if len(updates) == 0 {
		return nil
	}
	return s.db.Model(&catalog.Movie{}).Where("id = ?", movieID).Updates(updates).Error
}

// MoviesForExport loads the whole catalog with associations in a stable
// order so repeated exports diff cleanly.
func (s *Store) MoviesForExport() ([]catalog.Movie, error) {
	var movies []catalog.Movie
	err := s.db.
		Preload("Terms").
		Preload("Crew.Person").
		Preload("Gallery").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("created_at ASC, id ASC").
		Find(&movies).Error
	return movies, err
}

// MoviesByTitle returns duplicate-detection candidates. The match is a
// loose case-insensitive containment; the engine re-checks normalized
// equality itself.
func (s *Store) MoviesByTitle(normalizedTitle string) ([]catalog.Movie, error) {
	var movies []catalog.Movie
	err := s.db.
		Preload("Terms").
		Preload("Crew.Person").
		Where("title ILIKE ?", "%"+normalizedTitle+"%").
		Order("created_at ASC, id ASC").
		Find(&movies).Error
	return movies, err
}
