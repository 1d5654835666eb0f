package importer_test

import (
	"strings"
	"testing"

	"movie-library/internal/catalog/codec"
	"movie-library/internal/catalog/csvio"
	"movie-library/internal/catalog/importer"
	"movie-library/internal/catalog/interchange"
	"movie-library/internal/catalog/resolve"
	"movie-library/internal/domain/catalog"
	"movie-library/internal/testsupport"
)

func newImporter(st *testsupport.MemoryStore) *importer.Importer {
	resolver := resolve.NewResolver(st, st, st, resolve.NewCache())
	return importer.New(st, resolver, codec.New(resolver))
}

func csvText(rows ...interchange.Row) string {
	var b strings.Builder
	b.WriteString(csvio.SerializeRow(interchange.Columns))
	for _, r := range rows {
		b.WriteString(csvio.SerializeRow(r.Record()))
	}
	return b.String()
}

func TestImportEmptyFileIsStructural(t *testing.T) {
	st := testsupport.NewMemoryStore()
	if _, err := newImporter(st).Run(""); err == nil {
		t.Fatal("empty file should abort the run")
	}
}

func TestImportHeaderMismatchAborts(t *testing.T) {
	st := testsupport.NewMemoryStore()

	short := append([]string{}, interchange.Columns[:len(interchange.Columns)-1]...)
	text := csvio.SerializeRow(short) + csvio.SerializeRow(make([]string, len(short)))
	if _, err := newImporter(st).Run(text); err == nil {
		t.Fatal("missing header column should abort the run")
	}
	if len(st.Movies) != 0 {
		t.Fatalf("no movies may be created, have %d", len(st.Movies))
	}

	swapped := append([]string{}, interchange.Columns...)
	swapped[3], swapped[4] = swapped[4], swapped[3]
	if _, err := newImporter(st).Run(csvio.SerializeRow(swapped)); err == nil {
		t.Fatal("reordered header should abort the run")
	}
}

func TestImportCreatesMovieWithRelations(t *testing.T) {
	st := testsupport.NewMemoryStore()
	st.AddAsset(1, "https://cdn.example/poster.jpg", "image/jpeg")
	st.AddAsset(2, "https://cdn.example/still.jpg", "image/jpeg")

	row := interchange.Row{
		Title:         "Inception",
		Content:       "A thief who steals corporate secrets.",
		Status:        "publish",
		Rating:        "8.8",
		Runtime:       "148",
		ReleaseDate:   "2010-07-16",
		ContentRating: "PG-13",
		Genres:        `["Sci-Fi","Thriller"]`,
		Directors:     `["Christopher Nolan"]`,
		Actors:        `["Leonardo DiCaprio"]`,
		Characters:    `{"Leonardo DiCaprio":"Cobb"}`,
		PosterURL:     "https://cdn.example/poster.jpg",
		GalleryImages: `["https://cdn.example/still.jpg"]`,
	}

	summary, err := newImporter(st).Run(csvText(row))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Created != 1 || summary.Skipped != 0 || summary.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	if len(st.Movies) != 1 {
		t.Fatalf("expected one movie, have %d", len(st.Movies))
	}
	m := st.Movies[0]
	if m.Slug != "inception" || m.Status != catalog.StatusPublished {
		t.Fatalf("unexpected movie: %+v", m)
	}
	if m.Rating == nil || *m.Rating != 8.8 || m.RuntimeMinutes == nil || *m.RuntimeMinutes != 148 {
		t.Fatalf("scalar fields wrong: %+v", m)
	}

	if got := len(st.MovieTerms[m.ID]); got != 2 {
		t.Fatalf("expected 2 genre terms, got %d", got)
	}

	crew := st.Crew[m.ID]
	if len(crew) != 2 {
		t.Fatalf("expected director and actor relations, got %v", crew)
	}
	var sawCharacter bool
	for _, rel := range crew {
		if rel.Role == catalog.RoleActor {
			if rel.CharacterName == nil || *rel.CharacterName != "Cobb" {
				t.Fatalf("actor should carry character name, got %+v", rel)
			}
			sawCharacter = true
		}
	}
	if !sawCharacter {
		t.Fatal("no actor relation imported")
	}

	if st.Poster[m.ID] != 1 {
		t.Fatalf("poster not resolved: %v", st.Poster)
	}
	if gallery := st.Gallery[m.ID][catalog.GalleryImage]; len(gallery) != 1 || gallery[0] != 2 {
		t.Fatalf("gallery not imported: %v", gallery)
	}
}

func TestImportSkipsExistingSlug(t *testing.T) {
	st := testsupport.NewMemoryStore()
	if err := st.CreateMovie(&catalog.Movie{Title: "Inception", Slug: "inception"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	summary, err := newImporter(st).Run(csvText(interchange.Row{Title: "Inception"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Skipped != 1 || summary.Created != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(summary.Warnings) != 1 || !strings.Contains(summary.Warnings[0], "already exists") {
		t.Fatalf("expected duplicate warning, got %v", summary.Warnings)
	}
}

func TestImportShortRowFailsAndContinues(t *testing.T) {
	st := testsupport.NewMemoryStore()

	text := csvio.SerializeRow(interchange.Columns) +
		csvio.SerializeRow([]string{"too", "short"}) +
		csvio.SerializeRow(interchange.Row{Title: "Fine Movie"}.Record())

	summary, err := newImporter(st).Run(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Failed != 1 || summary.Created != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if !strings.Contains(summary.Warnings[0], "row 2") {
		t.Fatalf("warning should name the row: %v", summary.Warnings)
	}
}

func TestImportInvalidRowWarnsWithFirstViolation(t *testing.T) {
	st := testsupport.NewMemoryStore()

	row := interchange.Row{Title: "Bad", Rating: "11", Runtime: "999"}
	summary, err := newImporter(st).Run(csvText(row))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if !strings.Contains(summary.Warnings[0], "rating") {
		t.Fatalf("rating must fail first: %v", summary.Warnings)
	}
}

func TestImportSurfacesPersistenceError(t *testing.T) {
	st := testsupport.NewMemoryStore()
	st.CreateMovieErr = errDB("connection reset")

	summary, err := newImporter(st).Run(csvText(interchange.Row{Title: "Doomed"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if !strings.Contains(summary.Warnings[0], "connection reset") {
		t.Fatalf("store error must surface verbatim: %v", summary.Warnings)
	}
}

func TestImportRemapsCommentParents(t *testing.T) {
	st := testsupport.NewMemoryStore()

	row := interchange.Row{
		Title:    "Commented",
		Comments: `[{"id":101,"author_name":"A","content":"first"},{"id":102,"parent_id":101,"author_name":"B","content":"reply"}]`,
	}
	summary, err := newImporter(st).Run(csvText(row))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Created != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(st.Comments) != 2 {
		t.Fatalf("expected 2 comments, have %d", len(st.Comments))
	}

	first, reply := st.Comments[0], st.Comments[1]
	if reply.ParentID == nil || *reply.ParentID != first.ID {
		t.Fatalf("reply parent should point at the new id %d, got %v", first.ID, reply.ParentID)
	}
	if *reply.ParentID == 101 && first.ID != 101 {
		t.Fatal("parent kept the original identifier")
	}
}

type errDB string

func (e errDB) Error() string { return string(e) }
