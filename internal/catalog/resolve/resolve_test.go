package resolve_test

import (
	"testing"

	"movie-library/internal/catalog/resolve"
	"movie-library/internal/domain/catalog"
	"movie-library/internal/domain/media"
	"movie-library/internal/testsupport"
)

func newResolver(st *testsupport.MemoryStore) *resolve.Resolver {
	return resolve.NewResolver(st, st, st, resolve.NewCache())
}

func TestResolvePersonByID(t *testing.T) {
	st := testsupport.NewMemoryStore()
	p := st.AddPerson("Christopher Nolan")
	r := newResolver(st)

	id, ok := r.ResolvePerson(p.ID)
	if !ok || id != p.ID {
		t.Fatalf("direct id lookup failed: %q ok=%v", id, ok)
	}
}

func TestResolvePersonPriorityOrder(t *testing.T) {
	st := testsupport.NewMemoryStore()
	bySlug := st.AddPerson("John Doe")
	st.AddPerson("Johnny Doeman") // fuzzy candidate, must lose to the slug match
	r := newResolver(st)

	id, ok := r.ResolvePerson("john-doe")
	if !ok || id != bySlug.ID {
		t.Fatalf("slug match should win, got %q ok=%v", id, ok)
	}
}

func TestResolvePersonFuzzyFallback(t *testing.T) {
	st := testsupport.NewMemoryStore()
	p := st.AddPerson("Quentin Tarantino")
	r := newResolver(st)

	id, ok := r.ResolvePerson("Tarantino")
	if !ok || id != p.ID {
		t.Fatalf("fuzzy search should match, got %q ok=%v", id, ok)
	}
}

func TestFindOrCreatePersonCreatesWithCareer(t *testing.T) {
	st := testsupport.NewMemoryStore()
	r := newResolver(st)

	id, err := r.FindOrCreatePerson("greta_gerwig", "star")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, _ := st.PersonByID(id)
	if p == nil || p.Name != "Greta Gerwig" {
		t.Fatalf("expected humanized name, got %+v", p)
	}

	// "star" aliases to "actor" before the career term lookup.
	term, _ := st.TermByName(catalog.TaxonomyCareer, "actor")
	if term == nil {
		t.Fatal("expected actor career term to be created")
	}
	attached := st.PersonTerms[id]
	if len(attached) != 1 || attached[0] != term.ID {
		t.Fatalf("expected career attached, got %v", attached)
	}
}

func TestFindOrCreatePersonReusesExisting(t *testing.T) {
	st := testsupport.NewMemoryStore()
	p := st.AddPerson("Jane Smith")
	r := newResolver(st)

	id, err := r.FindOrCreatePerson("Jane Smith", "director")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != p.ID {
		t.Fatalf("should resolve instead of create: got %q want %q", id, p.ID)
	}
	if len(st.Persons) != 1 {
		t.Fatalf("no new person expected, have %d", len(st.Persons))
	}
}

func TestResolveMediaKindGate(t *testing.T) {
	st := testsupport.NewMemoryStore()
	st.AddAsset(7, "https://cdn.example/clip.mp4", "video/mp4")
	r := newResolver(st)

	if _, ok := r.ResolveMedia("https://cdn.example/clip.mp4", media.KindImage); ok {
		t.Fatal("video asset must not resolve as image")
	}
	id, ok := r.ResolveMedia("https://cdn.example/clip.mp4", media.KindVideo)
	if !ok || id != 7 {
		t.Fatalf("video resolution failed: %d ok=%v", id, ok)
	}
	if id, ok := r.ResolveMedia("7", media.KindVideo); !ok || id != 7 {
		t.Fatalf("numeric resolution failed: %d ok=%v", id, ok)
	}
}

func TestResolveMediaUnknown(t *testing.T) {
	st := testsupport.NewMemoryStore()
	r := newResolver(st)

	if _, ok := r.ResolveMedia("https://cdn.example/missing.jpg", media.KindImage); ok {
		t.Fatal("missing asset must not resolve")
	}
	if _, ok := r.ResolveMedia("42", media.KindImage); ok {
		t.Fatal("dead id must not resolve")
	}
}

func TestFindOrCreateTerm(t *testing.T) {
	st := testsupport.NewMemoryStore()
	r := newResolver(st)

	first, err := r.FindOrCreateTerm(catalog.TaxonomyGenre, "Science Fiction")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := r.FindOrCreateTerm(catalog.TaxonomyGenre, "Science Fiction")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("same name should reuse the term: %d vs %d", first.ID, second.ID)
	}
	if len(st.Terms) != 1 {
		t.Fatalf("expected one term, have %d", len(st.Terms))
	}
}
