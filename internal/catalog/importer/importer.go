// Package importer drives a full CSV import run: header check, per-row
// validation, reference resolution and persistence. Rows are processed
// strictly in file order; every failure below the structural level is
// converted into a warning and the run always ends with a summary.
package importer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"movie-library/internal/catalog/codec"
	"movie-library/internal/catalog/csvio"
	"movie-library/internal/catalog/interchange"
	"movie-library/internal/catalog/resolve"
	"movie-library/internal/catalog/validate"
	"movie-library/internal/domain/catalog"
	"movie-library/internal/domain/media"
)

// Store is the persistence surface one import run writes through.
// MovieBySlug returns nil with no error when nothing matches.
type Store interface {
	MovieBySlug(slug string) (*catalog.Movie, error)
	CreateMovie(m *catalog.Movie) error
	ReplaceMovieTerms(movieID string, termIDs []uint) error
	ReplaceCrew(movieID string, crew []catalog.CrewRelation) error
	CreateComment(c *catalog.Comment) error
	ReplaceGallery(movieID, kind string, assetIDs []uint) error
	SetMovieMedia(movieID string, posterID, carouselID *uint) error
}

// Summary is the result of one run. Warnings keep file order.
type Summary struct {
	Created  int      `json:"created"`
	Skipped  int      `json:"skipped"`
	Failed   int      `json:"failed"`
	Warnings []string `json:"warnings"`
}

type Importer struct {
	store    Store
	resolver *resolve.Resolver
	codec    *codec.Codec
	log      *logrus.Entry
}

func New(store Store, resolver *resolve.Resolver, c *codec.Codec) *Importer {
	return &Importer{
		store:    store,
		resolver: resolver,
		codec:    c,
		log:      logrus.WithField("component", "importer"),
	}
}

// personListColumns maps crew CSV cells to the role hint used when creating
// referenced persons.
var personListColumns = []struct {
	role string
	cell func(interchange.Row) string
}{
	{catalog.RoleDirector, func(r interchange.Row) string { return r.Directors }},
	{catalog.RoleProducer, func(r interchange.Row) string { return r.Producers }},
	{catalog.RoleWriter, func(r interchange.Row) string { return r.Writers }},
	{catalog.RoleActor, func(r interchange.Row) string { return r.Actors }},
}

// Run imports the given CSV text. The returned error is structural only
// (empty file, bad header); everything below that lands in the summary.
func (im *Importer) Run(text string) (*Summary, error) {
	rows := csvio.ParseText(text)
	if len(rows) == 0 {
		return nil, errors.New("import file is empty")
	}
	if err := validate.Header(rows[0]); err != nil {
		return nil, errors.Wrap(err, "invalid header")
	}

	summary := &Summary{Warnings: []string{}}
	for i, record := range rows[1:] {
		line := i + 2 // header is line 1
		im.importRecord(line, record, summary)
	}

	im.log.WithFields(logrus.Fields{
		"created": summary.Created,
		"skipped": summary.Skipped,
		"failed":  summary.Failed,
	}).Info("import finished")
	return summary, nil
}

func (im *Importer) importRecord(line int, record []string, summary *Summary) {
	warn := func(format string, args ...interface{}) {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("row %d: ", line)+fmt.Sprintf(format, args...))
	}

	if len(record) < len(interchange.Columns) {
		summary.Failed++
		warn("expected %d columns, got %d", len(interchange.Columns), len(record))
		return
	}
	row := interchange.FromRecord(record)

	if err := validate.Row(row); err != nil {
		summary.Failed++
		warn("%s", err)
		return
	}

	title := strings.TrimSpace(row.Title)
	if title == "" {
		summary.Failed++
		warn("title is required")
		return
	}

	slug := catalog.MakeSlug(catalog.NormalizeTitle(title))
	existing, err := im.store.MovieBySlug(slug)
	if err != nil {
		summary.Failed++
		warn("%s", err)
		return
	}
	if existing != nil {
		summary.Skipped++
		warn("%q already exists, skipped", title)
		return
	}

	movie := im.buildMovie(row, title, slug)
	if err := im.store.CreateMovie(movie); err != nil {
		summary.Failed++
		warn("%s", err)
		return
	}
	summary.Created++

	im.importTerms(row, movie.ID, warn)
	im.importCrew(row, movie.ID, warn)
	im.importComments(row, movie.ID, warn)
	im.importGallery(row, movie.ID, warn)
	im.importPrimaryMedia(row, movie.ID, warn)
}

func (im *Importer) buildMovie(row interchange.Row, title, slug string) *catalog.Movie {
	m := &catalog.Movie{
		Title:   title,
		Slug:    slug,
		Content: row.Content,
		Excerpt: row.Excerpt,
		Status:  catalog.StatusDraft,
	}
	if row.Status == catalog.StatusPublished {
		m.Status = catalog.StatusPublished
	}
	if n, err := strconv.ParseUint(strings.TrimSpace(row.Author), 10, 32); err == nil {
		m.AuthorID = uint(n)
	}
	if v := strings.TrimSpace(row.CreatedAt); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			m.CreatedAt = t
		}
	}
	if v := strings.TrimSpace(row.Rating); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			m.Rating = &f
		}
	}
	if v := strings.TrimSpace(row.Runtime); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			m.RuntimeMinutes = &n
		}
	}
	if v := strings.TrimSpace(row.ReleaseDate); v != "" {
		m.ReleaseDate = &v
	}
	if v := strings.TrimSpace(row.ContentRating); v != "" {
		m.ContentRating = &v
	}
	return m
}

func (im *Importer) importTerms(row interchange.Row, movieID string, warn func(string, ...interface{})) {
	var termIDs []uint
	for _, taxonomy := range catalog.ClassificationTaxonomies {
		cell := row.TaxonomyCell(taxonomy)
		if strings.TrimSpace(cell) == "" {
			continue
		}
		var names []string
		if err := json.Unmarshal([]byte(cell), &names); err != nil {
			continue
		}
		for _, name := range names {
			term, err := im.resolver.FindOrCreateTerm(taxonomy, name)
			if err != nil {
				warn("%s", err)
				continue
			}
			termIDs = append(termIDs, term.ID)
		}
	}
	if len(termIDs) == 0 {
		return
	}
	if err := im.store.ReplaceMovieTerms(movieID, termIDs); err != nil {
		warn("%s", err)
	}
}

// importCrew decodes the four role lists plus the character map and rebuilds
// the person-movie cross reference in one shot.
func (im *Importer) importCrew(row interchange.Row, movieID string, warn func(string, ...interface{})) {
	var crew []catalog.CrewRelation
	var characters map[string]string

	for _, col := range personListColumns {
		cell := col.cell(row)
		if strings.TrimSpace(cell) == "" {
			continue
		}
		decoded := im.codec.Decode(codec.PersonIDList, cell, col.role)
		if col.role == catalog.RoleActor && len(decoded.Persons) > 0 {
			characters = im.codec.Decode(codec.ActorCharacterMap, row.Characters, "").Characters
		}
		for _, personID := range decoded.Persons {
			rel := catalog.CrewRelation{MovieID: movieID, PersonID: personID, Role: col.role}
			if col.role == catalog.RoleActor {
				if text, ok := characters[personID]; ok {
					rel.CharacterName = &text
				}
			}
			crew = append(crew, rel)
		}
	}
	if len(crew) == 0 {
		return
	}
	if err := im.store.ReplaceCrew(movieID, crew); err != nil {
		warn("%s", err)
	}
}

// importComments inserts embedded comments in order, remapping each parent
// reference from its original id to the id the store just assigned, so
// replies attach to their re-created parents.
func (im *Importer) importComments(row interchange.Row, movieID string, warn func(string, ...interface{})) {
	cell := strings.TrimSpace(row.Comments)
	if cell == "" {
		return
	}
	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(cell), &elements); err != nil {
		return
	}

	newID := make(map[uint]uint)
	for _, raw := range elements {
		var ec interchange.EmbeddedComment
		if err := json.Unmarshal(raw, &ec); err != nil {
			continue
		}
		c := &catalog.Comment{
			MovieID:    movieID,
			AuthorName: ec.AuthorName,
			AuthorURL:  ec.AuthorURL,
			Content:    ec.Content,
		}
		if v := strings.TrimSpace(ec.CreatedAt); v != "" {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				c.CreatedAt = t
			}
		}
		if ec.ParentID != 0 {
			if mapped, ok := newID[ec.ParentID]; ok {
				c.ParentID = &mapped
			}
		}
		if err := im.store.CreateComment(c); err != nil {
			warn("%s", err)
			continue
		}
		if ec.ID != 0 {
			newID[ec.ID] = c.ID
		}
	}
}

func (im *Importer) importGallery(row interchange.Row, movieID string, warn func(string, ...interface{})) {
	for _, g := range []struct {
		kind      string
		mediaKind string
		cell      string
	}{
		{catalog.GalleryImage, media.KindImage, row.GalleryImages},
		{catalog.GalleryVideo, media.KindVideo, row.GalleryVideos},
	} {
		if strings.TrimSpace(g.cell) == "" {
			continue
		}
		decoded := im.codec.ForMediaKind(g.mediaKind).Decode(codec.MediaIDList, g.cell, "")
		if len(decoded.Assets) == 0 {
			continue
		}
		if err := im.store.ReplaceGallery(movieID, g.kind, decoded.Assets); err != nil {
			warn("%s", err)
		}
	}
}

func (im *Importer) importPrimaryMedia(row interchange.Row, movieID string, warn func(string, ...interface{})) {
	var posterID, carouselID *uint
	if v := strings.TrimSpace(row.PosterURL); v != "" {
		if id, ok := im.resolver.ResolveMedia(v, media.KindImage); ok {
			posterID = &id
		}
	}
	if v := strings.TrimSpace(row.CarouselURL); v != "" {
		if id, ok := im.resolver.ResolveMedia(v, media.KindImage); ok {
			carouselID = &id
		}
	}
	if posterID == nil && carouselID == nil {
		return
	}
	if err := im.store.SetMovieMedia(movieID, posterID, carouselID); err != nil {
		warn("%s", err)
	}
}
