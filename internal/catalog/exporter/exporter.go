// Package exporter walks the catalog in stable order and renders every
// movie as one interchange row. The header is always written, even for an
// empty catalog, and the whole buffer lands on disk in a single write.
package exporter

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"movie-library/internal/catalog/codec"
	"movie-library/internal/catalog/csvio"
	"movie-library/internal/catalog/interchange"
	"movie-library/internal/catalog/resolve"
	"movie-library/internal/domain/catalog"
	"movie-library/internal/fsio"
)

// Store lists movies with terms, crew (persons included), gallery links and
// comments loaded, ordered ascending by creation time then id.
type Store interface {
	MoviesForExport() ([]catalog.Movie, error)
}

type Exporter struct {
	store      Store
	resolver   *resolve.Resolver
	codec      *codec.Codec
	fs         fsio.Filesystem
	uploadRoot string
	log        *logrus.Entry
}

func New(store Store, resolver *resolve.Resolver, c *codec.Codec, fs fsio.Filesystem, uploadRoot string) *Exporter {
	return &Exporter{
		store:      store,
		resolver:   resolver,
		codec:      c,
		fs:         fs,
		uploadRoot: uploadRoot,
		log:        logrus.WithField("component", "exporter"),
	}
}

// Run exports the catalog to path, defaulting to a timestamped file under
// the upload root. Returns the resolved path and the number of rows.
func (ex *Exporter) Run(path string) (string, int, error) {
	if path == "" {
		path = filepath.Join(ex.uploadRoot, fmt.Sprintf("export-%s.csv", time.Now().Format("20060102-150405")))
	}

	movies, err := ex.store.MoviesForExport()
	if err != nil {
		return "", 0, errors.Wrap(err, "list movies")
	}

	var b strings.Builder
	b.WriteString(csvio.SerializeRow(interchange.Columns))
	for _, m := range movies {
		row := ex.buildRow(m)
		b.WriteString(csvio.SerializeRow(row.Record()))
	}

	if err := ex.fs.Write(path, b.String()); err != nil {
		return "", 0, errors.Wrapf(err, "write %s", path)
	}
	ex.log.WithFields(logrus.Fields{"path": path, "rows": len(movies)}).Info("export written")
	return path, len(movies), nil
}

func (ex *Exporter) buildRow(m catalog.Movie) interchange.Row {
	row := interchange.Row{
		ID:          m.ID,
		Title:       m.Title,
		Content:     m.Content,
		Excerpt:     m.Excerpt,
		Status:      m.Status,
		Author:      strconv.FormatUint(uint64(m.AuthorID), 10),
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
		ContentHash: ContentHash(m),
	}
	if m.Rating != nil {
		row.Rating = strconv.FormatFloat(*m.Rating, 'f', 1, 64)
	}
	if m.RuntimeMinutes != nil {
		row.Runtime = strconv.Itoa(*m.RuntimeMinutes)
	}
	if m.ReleaseDate != nil {
		row.ReleaseDate = *m.ReleaseDate
	}
	if m.ContentRating != nil {
		row.ContentRating = *m.ContentRating
	}

	ex.fillTerms(&row, m)
	ex.fillCrew(&row, m)
	ex.fillMedia(&row, m)
	ex.fillComments(&row, m)
	return row
}

func (ex *Exporter) fillTerms(row *interchange.Row, m catalog.Movie) {
	names := make(map[string][]string)
	for _, t := range m.Terms {
		names[t.Taxonomy] = append(names[t.Taxonomy], t.Name)
	}
	for _, taxonomy := range catalog.ClassificationTaxonomies {
		list := names[taxonomy]
		if list == nil {
			list = []string{}
		}
		encoded, err := json.Marshal(list)
		if err != nil {
			continue
		}
		row.SetTaxonomyCell(taxonomy, string(encoded))
	}
}

func (ex *Exporter) fillCrew(row *interchange.Row, m catalog.Movie) {
	byRole := make(map[string][]string)
	characters := make(map[string]string)
	for _, rel := range m.Crew {
		byRole[rel.Role] = append(byRole[rel.Role], rel.PersonID)
		if rel.Role == catalog.RoleActor && rel.CharacterName != nil {
			characters[rel.PersonID] = *rel.CharacterName
		}
	}

	row.Directors = ex.codec.Encode(codec.PersonIDList, codec.Value{Persons: byRole[catalog.RoleDirector]})
	row.Producers = ex.codec.Encode(codec.PersonIDList, codec.Value{Persons: byRole[catalog.RoleProducer]})
	row.Writers = ex.codec.Encode(codec.PersonIDList, codec.Value{Persons: byRole[catalog.RoleWriter]})
	row.Actors = ex.codec.Encode(codec.PersonIDList, codec.Value{Persons: byRole[catalog.RoleActor]})
	row.Characters = ex.codec.Encode(codec.ActorCharacterMap, codec.Value{
		Persons:    byRole[catalog.RoleActor],
		Characters: characters,
	})
}

func (ex *Exporter) fillMedia(row *interchange.Row, m catalog.Movie) {
	if m.PosterID != nil {
		if u, ok := ex.resolver.AssetURL(*m.PosterID); ok {
			row.PosterURL = u
		}
	}
	if m.CarouselID != nil {
		if u, ok := ex.resolver.AssetURL(*m.CarouselID); ok {
			row.CarouselURL = u
		}
	}

	gallery := make(map[string][]catalog.MovieAsset)
	for _, ga := range m.Gallery {
		gallery[ga.Kind] = append(gallery[ga.Kind], ga)
	}
	for kind, links := range gallery {
		sort.Slice(links, func(i, j int) bool { return links[i].Position < links[j].Position })
		ids := make([]uint, 0, len(links))
		for _, l := range links {
			ids = append(ids, l.AssetID)
		}
		cell := ex.codec.Encode(codec.MediaIDList, codec.Value{Assets: ids})
		if kind == catalog.GalleryImage {
			row.GalleryImages = cell
		} else {
			row.GalleryVideos = cell
		}
	}
}

func (ex *Exporter) fillComments(row *interchange.Row, m catalog.Movie) {
	if len(m.Comments) == 0 {
		return
	}
	out := make([]interchange.EmbeddedComment, 0, len(m.Comments))
	for _, c := range m.Comments {
		ec := interchange.EmbeddedComment{
			ID:         c.ID,
			AuthorName: c.AuthorName,
			AuthorURL:  c.AuthorURL,
			Content:    c.Content,
			CreatedAt:  c.CreatedAt.Format(time.RFC3339),
		}
		if c.ParentID != nil {
			ec.ParentID = *c.ParentID
		}
		out = append(out, ec)
	}
	if encoded, err := json.Marshal(out); err == nil {
		row.Comments = string(encoded)
	}
}

// ContentHash fingerprints the fields downstream consumers watch for
// change detection.
func ContentHash(m catalog.Movie) string {
	sum := sha256.Sum256([]byte(m.Title + "|" + m.CreatedAt.Format(time.RFC3339) + "|" + m.ID))
	return hex.EncodeToString(sum[:])
}
