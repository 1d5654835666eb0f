// Package testsupport provides in-memory stand-ins for the store and
// filesystem interfaces so pipeline tests run without a database.
package testsupport

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"movie-library/internal/domain/catalog"
	"movie-library/internal/domain/media"
)

// MemoryStore implements the person, term, asset, movie, crew, comment and
// gallery surfaces the pipeline consumes.
type MemoryStore struct {
	Persons  []*catalog.Person
	Terms    []*catalog.Term
	Assets   []*media.Asset
	Movies   []*catalog.Movie
	Comments []*catalog.Comment

	PersonTerms map[string][]uint
	MovieTerms  map[string][]uint
	Crew        map[string][]catalog.CrewRelation
	Gallery     map[string]map[string][]uint
	Poster      map[string]uint
	Carousel    map[string]uint

	// CreateMovieErr makes CreateMovie fail, for persistence-error paths.
	CreateMovieErr error

	nextTermID    uint
	nextCommentID uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		PersonTerms: make(map[string][]uint),
		MovieTerms:  make(map[string][]uint),
		Crew:        make(map[string][]catalog.CrewRelation),
		Gallery:     make(map[string]map[string][]uint),
		Poster:      make(map[string]uint),
		Carousel:    make(map[string]uint),
	}
}

// ---- persons

func (s *MemoryStore) AddPerson(name string) *catalog.Person {
	p := &catalog.Person{ID: uuid.NewString(), Name: name, Slug: catalog.MakeSlug(name)}
	s.Persons = append(s.Persons, p)
	return p
}

func (s *MemoryStore) PersonByID(id string) (*catalog.Person, error) {
	for _, p := range s.Persons {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) PersonBySlug(slug string) (*catalog.Person, error) {
	for _, p := range s.Persons {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) PersonByName(name string) (*catalog.Person, error) {
	for _, p := range s.Persons {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) SearchPerson(text string) (*catalog.Person, error) {
	needle := strings.ToLower(text)
	for _, p := range s.Persons {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			return p, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) CreatePerson(p *catalog.Person) error {
	p.ID = uuid.NewString()
	s.Persons = append(s.Persons, p)
	return nil
}

// ---- terms

func (s *MemoryStore) TermByName(taxonomy, name string) (*catalog.Term, error) {
	for _, t := range s.Terms {
		if t.Taxonomy == taxonomy && t.Name == name {
			return t, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) TermByID(id uint) (*catalog.Term, error) {
	for _, t := range s.Terms {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) TermBySlug(taxonomy, slug string) (*catalog.Term, error) {
	for _, t := range s.Terms {
		if t.Taxonomy == taxonomy && t.Slug == slug {
			return t, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) CreateTerm(t *catalog.Term) error {
	s.nextTermID++
	t.ID = s.nextTermID
	s.Terms = append(s.Terms, t)
	return nil
}

func (s *MemoryStore) AttachPersonTerm(personID string, termID uint) error {
	s.PersonTerms[personID] = append(s.PersonTerms[personID], termID)
	return nil
}

// ---- assets

func (s *MemoryStore) AddAsset(id uint, url, mimeType string) *media.Asset {
	a := &media.Asset{ID: id, URL: url, MimeType: mimeType}
	s.Assets = append(s.Assets, a)
	return a
}

func (s *MemoryStore) AssetByID(id uint) (*media.Asset, error) {
	for _, a := range s.Assets {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) AssetByURL(url string) (*media.Asset, error) {
	for _, a := range s.Assets {
		if a.URL == url {
			return a, nil
		}
	}
	return nil, nil
}

// ---- movies

func (s *MemoryStore) MovieBySlug(slug string) (*catalog.Movie, error) {
	for _, m := range s.Movies {
		if m.Slug == slug {
			return m, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) CreateMovie(m *catalog.Movie) error {
	if s.CreateMovieErr != nil {
		return s.CreateMovieErr
	}
	m.ID = uuid.NewString()
	s.Movies = append(s.Movies, m)
	return nil
}

func (s *MemoryStore) ReplaceMovieTerms(movieID string, termIDs []uint) error {
	s.MovieTerms[movieID] = termIDs
	return nil
}

func (s *MemoryStore) ReplaceCrew(movieID string, crew []catalog.CrewRelation) error {
	s.Crew[movieID] = crew
	return nil
}

func (s *MemoryStore) CreateComment(c *catalog.Comment) error {
	s.nextCommentID++
	c.ID = s.nextCommentID
	s.Comments = append(s.Comments, c)
	return nil
}

func (s *MemoryStore) ReplaceGallery(movieID, kind string, assetIDs []uint) error {
	if s.Gallery[movieID] == nil {
		s.Gallery[movieID] = make(map[string][]uint)
	}
	s.Gallery[movieID][kind] = assetIDs
	return nil
}

func (s *MemoryStore) SetMovieMedia(movieID string, posterID, carouselID *uint) error {
	if posterID != nil {
		s.Poster[movieID] = *posterID
	}
	if carouselID != nil {
		s.Carousel[movieID] = *carouselID
	}
	return nil
}

// hydrate copies a movie and folds the relation maps back into it, the way
// the gorm store's preloads would.
func (s *MemoryStore) hydrate(m *catalog.Movie) catalog.Movie {
	copied := *m
	copied.Crew = s.Crew[m.ID]

	for _, termID := range s.MovieTerms[m.ID] {
		for _, t := range s.Terms {
			if t.ID == termID {
				copied.Terms = append(copied.Terms, *t)
			}
		}
	}

	for kind, assetIDs := range s.Gallery[m.ID] {
		for i, assetID := range assetIDs {
			copied.Gallery = append(copied.Gallery, catalog.MovieAsset{
				MovieID:  m.ID,
				AssetID:  assetID,
				Kind:     kind,
				Position: i,
			})
		}
	}

	for _, c := range s.Comments {
		if c.MovieID == m.ID {
			copied.Comments = append(copied.Comments, *c)
		}
	}

	if id, ok := s.Poster[m.ID]; ok {
		posterID := id
		copied.PosterID = &posterID
	}
	if id, ok := s.Carousel[m.ID]; ok {
		carouselID := id
		copied.CarouselID = &carouselID
	}
	return copied
}

func (s *MemoryStore) MoviesForExport() ([]catalog.Movie, error) {
	out := make([]catalog.Movie, 0, len(s.Movies))
	for _, m := range s.Movies {
		out = append(out, s.hydrate(m))
	}
	return out, nil
}

func (s *MemoryStore) MoviesByTitle(normalizedTitle string) ([]catalog.Movie, error) {
	var out []catalog.Movie
	for _, m := range s.Movies {
		if strings.Contains(strings.ToLower(m.Title), normalizedTitle) {
			out = append(out, s.hydrate(m))
		}
	}
	return out, nil
}

// ---- filesystem

// MemoryFS implements fsio.Filesystem over a map.
type MemoryFS struct {
	Files map[string]string
}

func NewMemoryFS() *MemoryFS {
	return &MemoryFS{Files: make(map[string]string)}
}

func (fs *MemoryFS) Exists(path string) bool {
	_, ok := fs.Files[path]
	return ok
}

func (fs *MemoryFS) Read(path string) (string, error) {
	text, ok := fs.Files[path]
	if !ok {
		return "", fmt.Errorf("no such file: %s", path)
	}
	return text, nil
}

func (fs *MemoryFS) Write(path, text string) error {
	fs.Files[path] = text
	return nil
}
