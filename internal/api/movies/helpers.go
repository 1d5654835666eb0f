package movies

import (
	"encoding/json"
	"fmt"
	"strings"

	"movie-library/internal/catalog/dedupe"
	"movie-library/internal/catalog/resolve"
	"movie-library/internal/catalog/validate"
	"movie-library/internal/domain/catalog"
	"movie-library/internal/store"
)

// ---------- request validation

func validateCreate(req CreateMovieRequest) error {
	return validateFields(req.Rating, req.Runtime, req.ReleaseDate, req.ContentRating, req.Crew)
}

func validateUpdate(req UpdateMovieRequest) error {
	return validateFields(req.Rating, req.Runtime, req.ReleaseDate, req.ContentRating, req.Crew)
}

// validateFields applies the domain rules in validator order. The REST path
// is lenient about representation (free-text runtime, alternate date forms)
// but strict about values.
func validateFields(rating, runtime *LooseString, releaseDate, contentRating *string, crew []CrewInput) error {
	if rating != nil && strings.TrimSpace(string(*rating)) != "" {
		if err := validate.Rating(string(*rating)); err != nil {
			return err
		}
	}
	if runtime != nil && strings.TrimSpace(string(*runtime)) != "" {
		minutes := catalog.NormalizeRuntime(string(*runtime))
		if minutes == "" {
			return fmt.Errorf("runtime: must contain a number of minutes")
		}
		if err := validate.Runtime(minutes); err != nil {
			return err
		}
	}
	if releaseDate != nil && strings.TrimSpace(*releaseDate) != "" {
		if catalog.NormalizeDate(*releaseDate) == "" {
			return fmt.Errorf("release_date: must be a valid date")
		}
	}
	if contentRating != nil && strings.TrimSpace(*contentRating) != "" {
		if err := validate.ContentRating(catalog.NormalizeContentRating(*contentRating)); err != nil {
			return err
		}
	}
	for _, input := range crew {
		if _, ok := catalog.CanonicalRole(input.Role); !ok {
			return fmt.Errorf("crew: unknown role %q", input.Role)
		}
		if strings.TrimSpace(input.Person) == "" {
			return fmt.Errorf("crew: person reference is required")
		}
	}
	return nil
}

// ---------- dedupe input

func incomingFromCreate(req CreateMovieRequest) dedupe.Incoming {
	in := dedupe.Incoming{
		Title:         req.Title,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		Rating:        looseToString(req.Rating),
		Runtime:       looseToString(req.Runtime),
		ReleaseDate:   req.ReleaseDate,
		ContentRating: req.ContentRating,
	}
	if req.Crew != nil {
		in.DirectorNames = directorRefs(req.Crew)
	}
	return in
}

func incomingFromUpdate(req UpdateMovieRequest, title string) dedupe.Incoming {
	in := dedupe.Incoming{
		Title:         title,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		Rating:        looseToString(req.Rating),
		Runtime:       looseToString(req.Runtime),
		ReleaseDate:   req.ReleaseDate,
		ContentRating: req.ContentRating,
	}
	if req.Crew != nil {
		in.DirectorNames = directorRefs(req.Crew)
	}
	return in
}

func looseToString(v *LooseString) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

func directorRefs(crew []CrewInput) []string {
	refs := []string{}
	for _, input := range crew {
		if role, _ := catalog.CanonicalRole(input.Role); role == catalog.RoleDirector {
			refs = append(refs, input.Person)
		}
	}
	return refs
}

// ---------- shared merge/create plumbing

func applyStatus(report *dedupe.MergeReport, status *string, m *catalog.Movie) {
	if status != nil && (*status == catalog.StatusDraft || *status == catalog.StatusPublished) {
		m.Status = *status
		report.Updated = append(report.Updated, "status")
	} else {
		report.Preserved = append(report.Preserved, "status")
	}
}

// resolveTermRefs maps taxonomy references (id, slug or name) to term ids.
// Unknown taxonomies and dead ids are dropped; names fall back to creation.
func resolveTermRefs(st *store.Store, resolver *resolve.Resolver, taxonomies map[string][]TermRef) []uint {
	var ids []uint
	for _, taxonomy := range catalog.ClassificationTaxonomies {
		for _, raw := range taxonomies[taxonomy] {
			if id, ok := resolveTermRef(st, resolver, taxonomy, raw); ok {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

func resolveTermRef(st *store.Store, resolver *resolve.Resolver, taxonomy string, raw TermRef) (uint, bool) {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		t, err := st.TermByID(uint(n))
		if err != nil || t == nil || t.Taxonomy != taxonomy {
			return 0, false
		}
		return t.ID, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil || strings.TrimSpace(s) == "" {
		return 0, false
	}
	if t, err := st.TermBySlug(taxonomy, catalog.MakeSlug(s)); err == nil && t != nil {
		return t.ID, true
	}
	t, err := resolver.FindOrCreateTerm(taxonomy, s)
	if err != nil {
		return 0, false
	}
	return t.ID, true
}

// resolveCrew turns crew inputs into relations. A person reference that
// cannot be resolved or created is a hard error here: the field has no
// fallback.
func resolveCrew(resolver *resolve.Resolver, movieID string, crew []CrewInput) ([]catalog.CrewRelation, error) {
	var out []catalog.CrewRelation
	seen := make(map[string]bool)
	for _, input := range crew {
		role, ok := catalog.CanonicalRole(input.Role)
		if !ok {
			continue
		}
		personID, err := resolver.FindOrCreatePerson(input.Person, role)
		if err != nil {
			return nil, fmt.Errorf("crew: %v", err)
		}
		key := personID + "|" + role
		if seen[key] {
			continue
		}
		seen[key] = true

		rel := catalog.CrewRelation{MovieID: movieID, PersonID: personID, Role: role}
		if role == catalog.RoleActor && input.Character != nil && strings.TrimSpace(*input.Character) != "" {
			rel.CharacterName = input.Character
		}
		out = append(out, rel)
	}
	return out, nil
}

func mergeTaxonomies(report *dedupe.MergeReport, st *store.Store, resolver *resolve.Resolver, movieID string, taxonomies map[string][]TermRef) {
	if len(taxonomies) == 0 {
		report.Preserved = append(report.Preserved, "taxonomies")
		return
	}
	ids := resolveTermRefs(st, resolver, taxonomies)
	if len(ids) == 0 {
		report.Preserved = append(report.Preserved, "taxonomies")
		return
	}
	// Terms only ever merge additively; nothing is removed.
	if err := st.AppendMovieTerms(movieID, ids); err == nil {
		report.Updated = append(report.Updated, "taxonomies")
	}
}

func mergeCrew(report *dedupe.MergeReport, st *store.Store, resolver *resolve.Resolver, movieID string, crew []CrewInput) error {
	if len(crew) == 0 {
		report.Preserved = append(report.Preserved, "crew")
		return nil
	}
	relations, err := resolveCrew(resolver, movieID, crew)
	if err != nil {
		return err
	}
	if err := st.ReplaceCrew(movieID, relations); err != nil {
		return err
	}
	report.Updated = append(report.Updated, "crew")
	return nil
}
