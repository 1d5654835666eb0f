package exporter_test

import (
	"strings"
	"testing"
	"time"

	"movie-library/internal/catalog/codec"
	"movie-library/internal/catalog/csvio"
	"movie-library/internal/catalog/exporter"
	"movie-library/internal/catalog/importer"
	"movie-library/internal/catalog/interchange"
	"movie-library/internal/catalog/resolve"
	"movie-library/internal/domain/catalog"
	"movie-library/internal/testsupport"
)

func newExporter(st *testsupport.MemoryStore, fs *testsupport.MemoryFS, uploadRoot string) *exporter.Exporter {
	resolver := resolve.NewResolver(st, st, st, resolve.NewCache())
	return exporter.New(st, resolver, codec.New(resolver), fs, uploadRoot)
}

func newImporter(st *testsupport.MemoryStore) *importer.Importer {
	resolver := resolve.NewResolver(st, st, st, resolve.NewCache())
	return importer.New(st, resolver, codec.New(resolver))
}

func TestExportEmptyCatalogWritesHeaderOnly(t *testing.T) {
	st := testsupport.NewMemoryStore()
	fs := testsupport.NewMemoryFS()

	path, count, err := newExporter(st, fs, "/uploads").Run("/uploads/out.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/uploads/out.csv" || count != 0 {
		t.Fatalf("unexpected result: path=%q count=%d", path, count)
	}
	if got := fs.Files[path]; got != csvio.SerializeRow(interchange.Columns) {
		t.Fatalf("file should hold exactly the header line, got %q", got)
	}
}

func TestExportDefaultPathIsTimestamped(t *testing.T) {
	st := testsupport.NewMemoryStore()
	fs := testsupport.NewMemoryFS()

	path, _, err := newExporter(st, fs, "/uploads").Run("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(path, "/uploads/export-") || !strings.HasSuffix(path, ".csv") {
		t.Fatalf("unexpected default path %q", path)
	}
	if !fs.Exists(path) {
		t.Fatalf("file not written at %q", path)
	}
}

func seedCatalog(t *testing.T, st *testsupport.MemoryStore) *catalog.Movie {
	t.Helper()

	nolan := st.AddPerson("Christopher Nolan")
	dicaprio := st.AddPerson("Leonardo DiCaprio")
	st.AddAsset(1, "https://cdn.example/poster.jpg", "image/jpeg")
	st.AddAsset(2, "https://cdn.example/still.jpg", "image/jpeg")

	rating := 8.8
	runtime := 148
	releaseDate := "2010-07-16"
	contentRating := "PG-13"
	m := &catalog.Movie{
		Title:          "Inception",
		Slug:           "inception",
		Content:        "A thief who steals corporate secrets.",
		Status:         catalog.StatusPublished,
		Rating:         &rating,
		RuntimeMinutes: &runtime,
		ReleaseDate:    &releaseDate,
		ContentRating:  &contentRating,
		CreatedAt:      time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := st.CreateMovie(m); err != nil {
		t.Fatalf("seed movie: %v", err)
	}

	character := "Cobb"
	st.Crew[m.ID] = []catalog.CrewRelation{
		{MovieID: m.ID, PersonID: nolan.ID, Role: catalog.RoleDirector},
		{MovieID: m.ID, PersonID: dicaprio.ID, Role: catalog.RoleActor, CharacterName: &character},
	}
	st.Poster[m.ID] = 1
	st.Gallery[m.ID] = map[string][]uint{catalog.GalleryImage: {2}}

	parent := &catalog.Comment{MovieID: m.ID, AuthorName: "A", Content: "first", CreatedAt: m.CreatedAt}
	if err := st.CreateComment(parent); err != nil {
		t.Fatalf("seed comment: %v", err)
	}
	parentID := parent.ID
	reply := &catalog.Comment{MovieID: m.ID, ParentID: &parentID, AuthorName: "B", Content: "reply", CreatedAt: m.CreatedAt}
	if err := st.CreateComment(reply); err != nil {
		t.Fatalf("seed comment: %v", err)
	}
	return m
}

func TestExportRowContents(t *testing.T) {
	st := testsupport.NewMemoryStore()
	fs := testsupport.NewMemoryFS()
	m := seedCatalog(t, st)

	path, count, err := newExporter(st, fs, "/uploads").Run("/uploads/out.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one row, got %d", count)
	}

	rows := csvio.ParseText(fs.Files[path])
	if len(rows) != 2 {
		t.Fatalf("expected header plus one row, got %d rows", len(rows))
	}
	row := interchange.FromRecord(rows[1])

	if row.ID != m.ID || row.Title != "Inception" || row.Rating != "8.8" || row.Runtime != "148" {
		t.Fatalf("unexpected scalars: %+v", row)
	}
	if row.ReleaseDate != "2010-07-16" || row.ContentRating != "PG-13" {
		t.Fatalf("unexpected scalars: %+v", row)
	}
	if row.Directors != `["Christopher Nolan"]` {
		t.Fatalf("directors cell %q", row.Directors)
	}
	if row.Characters != `{"Leonardo DiCaprio":"Cobb"}` {
		t.Fatalf("characters cell %q", row.Characters)
	}
	if row.PosterURL != "https://cdn.example/poster.jpg" {
		t.Fatalf("poster cell %q", row.PosterURL)
	}
	if row.GalleryImages != `["https://cdn.example/still.jpg"]` {
		t.Fatalf("gallery cell %q", row.GalleryImages)
	}
	if row.Labels != `[]` {
		t.Fatalf("absent taxonomy should encode as empty array, got %q", row.Labels)
	}
	if !strings.Contains(row.Comments, `"reply"`) {
		t.Fatalf("comments cell %q", row.Comments)
	}
	if row.ContentHash != exporter.ContentHash(catalog.Movie{ID: m.ID, Title: m.Title, CreatedAt: m.CreatedAt}) {
		t.Fatalf("content hash mismatch: %q", row.ContentHash)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	source := testsupport.NewMemoryStore()
	fs := testsupport.NewMemoryFS()
	seedCatalog(t, source)

	path, _, err := newExporter(source, fs, "/uploads").Run("")
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	dest := testsupport.NewMemoryStore()
	dest.AddAsset(1, "https://cdn.example/poster.jpg", "image/jpeg")
	dest.AddAsset(2, "https://cdn.example/still.jpg", "image/jpeg")

	summary, err := newImporter(dest).Run(fs.Files[path])
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if summary.Created != 1 || summary.Failed != 0 || len(summary.Warnings) != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	if len(dest.Movies) != 1 {
		t.Fatalf("expected one movie, got %d", len(dest.Movies))
	}
	m := dest.Movies[0]
	if m.Slug != "inception" || m.Rating == nil || *m.Rating != 8.8 {
		t.Fatalf("unexpected movie: %+v", m)
	}

	crew := dest.Crew[m.ID]
	if len(crew) != 2 {
		t.Fatalf("expected director and actor, got %v", crew)
	}
	var character string
	for _, rel := range crew {
		if rel.Role == catalog.RoleActor && rel.CharacterName != nil {
			character = *rel.CharacterName
		}
	}
	if character != "Cobb" {
		t.Fatalf("character lost in transit: %v", crew)
	}

	if len(dest.Comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(dest.Comments))
	}
	if dest.Comments[1].ParentID == nil || *dest.Comments[1].ParentID != dest.Comments[0].ID {
		t.Fatalf("comment thread lost in transit: %+v", dest.Comments[1])
	}
}

func TestImportHeaderOnlyFileIsCleanNoOp(t *testing.T) {
	source := testsupport.NewMemoryStore()
	fs := testsupport.NewMemoryFS()

	path, _, err := newExporter(source, fs, "/uploads").Run("")
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	dest := testsupport.NewMemoryStore()
	summary, err := newImporter(dest).Run(fs.Files[path])
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if summary.Created != 0 || summary.Skipped != 0 || summary.Failed != 0 || len(summary.Warnings) != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}
